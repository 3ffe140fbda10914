package service

import (
	"context"
	"log"
	"sync"
	"time"

	"inkwell/internal/port"
)

// FormatQueueConfig holds settings for the format queue worker.
type FormatQueueConfig struct {
	PollInterval time.Duration
	MaxRetries   int
	Concurrency  int
}

// FormatQueueWorker polls for queued format jobs and dispatches them.
type FormatQueueWorker struct {
	jobRepo    port.FormatJobRepository
	formatSvc  FormatService
	cfg        FormatQueueConfig
	wg         sync.WaitGroup
}

// NewFormatQueueWorker creates a new FormatQueueWorker.
func NewFormatQueueWorker(jobRepo port.FormatJobRepository, formatSvc FormatService, cfg FormatQueueConfig) *FormatQueueWorker {
	return &FormatQueueWorker{
		jobRepo:   jobRepo,
		formatSvc: formatSvc,
		cfg:       cfg,
	}
}

// Start runs the polling loop until ctx is canceled. It blocks until all
// in-flight format goroutines have finished.
func (w *FormatQueueWorker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	sem := make(chan struct{}, w.cfg.Concurrency)

	log.Printf("formatQueueWorker: started (poll=%s, concurrency=%d, maxRetries=%d)",
		w.cfg.PollInterval, w.cfg.Concurrency, w.cfg.MaxRetries)

	for {
		select {
		case <-ctx.Done():
			log.Printf("formatQueueWorker: shutting down, waiting for in-flight jobs...")
			w.wg.Wait()
			log.Printf("formatQueueWorker: shutdown complete")
			return
		case <-ticker.C:
			available := w.cfg.Concurrency - len(sem)
			if available <= 0 {
				continue
			}

			jobs, err := w.jobRepo.ClaimQueued(ctx, available)
			if err != nil {
				if ctx.Err() != nil {
					// Context canceled during poll — exit gracefully
					continue
				}
				log.Printf("formatQueueWorker: ClaimQueued error: %v", err)
				continue
			}

			for i := range jobs {
				job := jobs[i] // copy for goroutine

				sem <- struct{}{} // acquire
				w.wg.Add(1)
				go func() {
					defer w.wg.Done()
					defer func() { <-sem }() // release

					// Use a fresh context independent of the poll context
					// so in-flight jobs complete even during shutdown.
					jobCtx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
					defer cancel()

					log.Printf("formatQueueWorker: dispatching job %s (attempt %d)", job.ID, job.Attempts)
					w.formatSvc.ProcessJob(jobCtx, &job, w.cfg.MaxRetries)
				}()
			}
		}
	}
}
