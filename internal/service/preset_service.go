package service

import (
	"context"

	"inkwell/internal/domain"
	"inkwell/internal/port"
)

// PresetService defines the preset management contract.
type PresetService interface {
	Get(ctx context.Context, name string) (*domain.Preset, error)
	List(ctx context.Context) ([]domain.Preset, error)
	Save(ctx context.Context, p *domain.Preset) (*domain.Preset, error)
	Delete(ctx context.Context, name string) error
}

type presetService struct {
	store port.PresetStore
}

// NewPresetService creates a new PresetService implementation.
func NewPresetService(store port.PresetStore) PresetService {
	return &presetService{store: store}
}

func (s *presetService) Get(ctx context.Context, name string) (*domain.Preset, error) {
	return s.store.Get(name)
}

func (s *presetService) List(ctx context.Context) ([]domain.Preset, error) {
	return s.store.List()
}

func (s *presetService) Save(ctx context.Context, p *domain.Preset) (*domain.Preset, error) {
	if err := s.store.Save(p); err != nil {
		return nil, err
	}
	// Re-read so the caller sees the derived title.
	return s.store.Get(p.Name)
}

func (s *presetService) Delete(ctx context.Context, name string) error {
	return s.store.Delete(name)
}
