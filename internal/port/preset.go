package port

import "inkwell/internal/domain"

// PresetStore is a name -> instruction-text lookup for formatting presets.
type PresetStore interface {
	Get(name string) (*domain.Preset, error)
	List() ([]domain.Preset, error)
	Save(preset *domain.Preset) error
	Delete(name string) error
}
