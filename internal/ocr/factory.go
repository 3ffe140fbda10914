package ocr

import (
	"fmt"

	"inkwell/internal/config"
	"inkwell/internal/port"
)

// PageSeparator is the horizontal-rule marker inserted between (never before
// or after) the markdown of consecutive pages.
const PageSeparator = "\n\n---\n\n"

// ProviderFactory is a function that creates an OCRExtractor from the OCR config.
type ProviderFactory func(cfg *config.OCRConfig) (port.OCRExtractor, error)

// registry of OCR provider factories, populated explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an OCR provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates an OCRExtractor using the registered factory for the
// configured provider.
func NewExtractor(cfg *config.OCRConfig) (port.OCRExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown ocr provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
