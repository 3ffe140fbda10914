package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"inkwell/internal/domain"
	"inkwell/internal/service"
	"inkwell/mocks"
)

func TestFormatQueueWorker_PollsAndDispatches(t *testing.T) {
	jobRepo := new(mocks.MockFormatJobRepo)
	formatSvc := new(mocks.MockFormatService)

	job := domain.FormatJob{
		ID:       uuid.New(),
		Status:   domain.JobStatusProcessing,
		Attempts: 1,
	}

	// First poll returns one job, subsequent polls return empty
	jobRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.FormatJob{job}, nil).Once()
	jobRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return([]domain.FormatJob{}, nil).Maybe()

	formatSvc.On("ProcessJob", mock.Anything, mock.AnythingOfType("*domain.FormatJob"), 3).
		Return().Maybe()

	cfg := service.FormatQueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxRetries:   3,
		Concurrency:  2,
	}
	worker := service.NewFormatQueueWorker(jobRepo, formatSvc, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	// Wait for at least one poll cycle
	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	jobRepo.AssertCalled(t, "ClaimQueued", mock.Anything, mock.AnythingOfType("int"))
	formatSvc.AssertCalled(t, "ProcessJob", mock.Anything, mock.AnythingOfType("*domain.FormatJob"), 3)
}

func TestFormatQueueWorker_SurvivesClaimErrors(t *testing.T) {
	jobRepo := new(mocks.MockFormatJobRepo)
	formatSvc := new(mocks.MockFormatService)

	jobRepo.On("ClaimQueued", mock.Anything, mock.AnythingOfType("int")).
		Return(nil, errors.New("db down")).Maybe()

	cfg := service.FormatQueueConfig{
		PollInterval: 50 * time.Millisecond,
		MaxRetries:   3,
		Concurrency:  1,
	}
	worker := service.NewFormatQueueWorker(jobRepo, formatSvc, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		worker.Start(ctx)
		close(done)
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()
	<-done

	formatSvc.AssertNotCalled(t, "ProcessJob", mock.Anything, mock.Anything, mock.Anything)
}
