package srcgen

import (
	"context"

	"github.com/goliatone/go-srcgen/pkg/orchestrator"
	pkgshape "github.com/goliatone/go-srcgen/pkg/shape"
)

// Request describes the inputs for one generated unit; alias exported via
// the root package for convenience.
type Request = orchestrator.Request

// Config mirrors the srcgen.yaml layout consumed by the CLI.
type Config = orchestrator.Config

// Job describes one generation unit within a config file.
type Job = orchestrator.Job

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module so quick starts need a single import.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Generate loads the type document, resolves bindings for the requested
// type, and renders it through the built-in templates. It is the simplest
// entry point for callers that just want generated source bytes.
func Generate(ctx context.Context, source pkgshape.Source, typeName string, values map[string]any, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:   source,
		TypeName: typeName,
		Values:   values,
	})
}

// GenerateFromDocument renders a unit from a pre-loaded document,
// bypassing the loader stage while still delegating to the orchestrator.
func GenerateFromDocument(ctx context.Context, doc pkgshape.Document, typeName string, values map[string]any, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Document: &doc,
		TypeName: typeName,
		Values:   values,
	})
}
