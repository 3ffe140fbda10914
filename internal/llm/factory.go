package llm

import (
	"fmt"

	"inkwell/internal/config"
	"inkwell/internal/port"
)

// ProviderFactory is a function that creates a CompletionFetcher from a
// provider config.
type ProviderFactory func(cfg *config.LLMProviderConfig) (port.CompletionFetcher, error)

// registry of completion provider factories, populated explicitly via
// RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a completion provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewFetcher creates a CompletionFetcher using the registered factory for the
// configured provider.
func NewFetcher(cfg *config.LLMProviderConfig) (port.CompletionFetcher, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown completion provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
