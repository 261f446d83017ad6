package shape

import "context"

// Parser normalises type documents into TypeShape values that
// downstream packages consume, keyed by type name.
type Parser interface {
	Shapes(ctx context.Context, doc Document) (map[string]TypeShape, error)
}

// ParserOptions exposes toggles shared by the parser implementations.
type ParserOptions struct {
	// ResolveReferences controls whether the parser eagerly resolves $ref
	// pointers when the format supports them. Defaults to true.
	ResolveReferences bool

	// AllowEmptyDocuments gates documents that declare no types. Defaults to
	// false so a mistyped source path fails loudly.
	AllowEmptyDocuments bool
}

// ParserOption mutates ParserOptions during construction.
type ParserOption func(*ParserOptions)

// WithReferenceResolution toggles eager reference resolution.
func WithReferenceResolution(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.ResolveReferences = enabled
	}
}

// WithEmptyDocuments toggles acceptance of documents without type
// declarations.
func WithEmptyDocuments(enabled bool) ParserOption {
	return func(opts *ParserOptions) {
		opts.AllowEmptyDocuments = enabled
	}
}

// NewParserOptions applies ParserOption functions and returns the
// resulting configuration. Implementations under internal/shape call
// this helper to remain consistent.
func NewParserOptions(options ...ParserOption) ParserOptions {
	cfg := ParserOptions{
		ResolveReferences:   true,
		AllowEmptyDocuments: false,
	}
	for _, opt := range options {
		opt(&cfg)
	}
	return cfg
}

// Construction helpers live in the top-level srcgen package to avoid import cycles.
