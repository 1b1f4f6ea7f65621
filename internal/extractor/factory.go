package extractor

import (
	"fmt"

	"docketflow/internal/config"
	"docketflow/internal/domain"
	"docketflow/internal/port"
)

// ProviderFactory is a function that creates an Extractor from a provider config.
type ProviderFactory func(cfg *config.ProviderConfig) (port.Extractor, error)

// registry of extractor factories, populated by RegisterProvider from each
// backend package's init or by cmd wiring.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an extractor factory by backend name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates an Extractor from a provider config using the
// registered factory for its backend type.
func NewExtractor(cfg *config.ProviderConfig) (port.Extractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownProvider, cfg.Provider)
	}
	return factory(cfg)
}
