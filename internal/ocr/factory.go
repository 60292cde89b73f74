// Package ocr selects and constructs the text-extraction provider.
package ocr

import (
	"fmt"

	"privasee/internal/config"
	"privasee/internal/port"
)

// ProviderFactory creates a TextExtractor from the OCR config.
type ProviderFactory func(cfg *config.OCRConfig) (port.TextExtractor, error)

// registry of OCR provider factories, populated explicitly via
// RegisterProvider from cmd wiring.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers an OCR provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewExtractor creates a TextExtractor using the registered factory for
// cfg.Provider.
func NewExtractor(cfg *config.OCRConfig) (port.TextExtractor, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown ocr provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
