package openapi

import "github.com/rs/zerolog"

const (
	// ExtensionOrder sorts properties ahead of the alphabetical default.
	ExtensionOrder = "x-paramform-order"
	// ExtensionPrecedence sets the field's display precedence.
	ExtensionPrecedence = "x-paramform-precedence"
	// ExtensionKind forces a field kind, e.g. "html-output".
	ExtensionKind = "x-paramform-kind"
	// ExtensionItemLimit sets a list selector's item limit.
	ExtensionItemLimit = "x-paramform-item-limit"
)

// Option configures schema loading.
type Option func(*config)

type config struct {
	logger       zerolog.Logger
	externalRefs bool
	validate     bool
}

func newConfig(options []Option) config {
	cfg := config{logger: zerolog.Nop()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithLogger receives debug events for skipped properties. The logger is
// also handed to the built object.
func WithLogger(logger zerolog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithExternalRefs allows $ref values pointing outside the document.
func WithExternalRefs(enabled bool) Option {
	return func(cfg *config) {
		cfg.externalRefs = enabled
	}
}

// WithValidation validates the whole document before mapping it.
func WithValidation(enabled bool) Option {
	return func(cfg *config) {
		cfg.validate = enabled
	}
}
