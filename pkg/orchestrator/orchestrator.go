package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	internalloader "github.com/goliatone/go-srcgen/internal/shape/loader"
	"github.com/goliatone/go-srcgen/pkg/binding"
	"github.com/goliatone/go-srcgen/pkg/emit"
	"github.com/goliatone/go-srcgen/pkg/shape"
	"github.com/goliatone/go-srcgen/pkg/template"
)

// Renderer is the engine seam the orchestrator renders through.
// *template.Engine satisfies it.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderString(src string, data any, out ...io.Writer) (string, error)
}

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom document loader.
func WithLoader(loader shape.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = loader
	}
}

// WithParser injects a custom shape parser, bypassing format detection.
func WithParser(parser shape.Parser) Option {
	return func(o *Orchestrator) {
		o.parser = parser
	}
}

// WithResolver injects a custom binding resolver.
func WithResolver(resolver *binding.Resolver) Option {
	return func(o *Orchestrator) {
		o.resolver = resolver
	}
}

// WithRenderer injects the template engine. Callers that need templates
// outside the built-in bundle construct their own engine and pass it
// here.
func WithRenderer(renderer Renderer) Option {
	return func(o *Orchestrator) {
		o.renderer = renderer
	}
}

// WithSink injects the sink rendered units are emitted through.
func WithSink(sink emit.Sink) Option {
	return func(o *Orchestrator) {
		o.sink = sink
	}
}

// WithDefaultTemplate sets the template used when neither the request
// nor the shape's hints name one. Without it the orchestrator picks the
// built-in template for the shape kind.
func WithDefaultTemplate(name string) Option {
	return func(o *Orchestrator) {
		o.defaultTemplate = strings.TrimSpace(name)
	}
}

// WithLogger injects the logger shared by the default stages.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the full pipeline from type document to
// emitted source unit. It applies sensible defaults (format detection,
// built-in templates, formatting file sink) while remaining open to
// dependency injection for advanced callers.
type Orchestrator struct {
	loader          shape.Loader
	parser          shape.Parser
	resolver        *binding.Resolver
	renderer        Renderer
	sink            emit.Sink
	logger          *slog.Logger
	defaultTemplate string
	initialiseErr   error
	defaultsApplied bool
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so
// callers can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to generate one source unit.
type Request struct {
	// Source identifies where the type document lives. Optional when
	// Document is supplied.
	Source shape.Source

	// Document allows callers to bypass the loader when they already
	// hold the payload.
	Document *shape.Document

	// TypeName selects which declared type to generate. Optional when
	// the document declares exactly one type.
	TypeName string

	// Template names the template to render. When empty the
	// orchestrator falls back to the shape's template hint, then the
	// configured default, then the built-in template for the shape
	// kind.
	Template string

	// TemplateText supplies inline template source and takes precedence
	// over Template.
	TemplateText string

	// Values are caller bindings merged into the render context after
	// value files.
	Values map[string]any

	// ValueFiles list YAML or JSON files whose top-level keys become
	// bindings.
	ValueFiles []string

	// OutputPath routes the rendered unit through the sink when set.
	// Generation without an output path returns the bytes only.
	OutputPath string
}

// Generate executes the loader → parser → resolver → engine sequence
// and returns the rendered bytes, emitting them through the sink when
// the request carries an output path.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}
	if !o.defaultsApplied {
		o.applyDefaults()
		if err := o.initialiseErr; err != nil {
			return nil, err
		}
	}

	doc, err := o.resolveDocument(ctx, req)
	if err != nil {
		return nil, err
	}

	shapes, err := o.parser.Shapes(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: parse shapes: %w", err)
	}

	target, err := selectShape(shapes, req.TypeName)
	if err != nil {
		return nil, err
	}

	renderCtx, err := o.resolver.Resolve(ctx, binding.Request{
		Shape:      &target,
		Values:     req.Values,
		ValueFiles: req.ValueFiles,
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: resolve bindings: %w", err)
	}

	output, err := o.render(req, target, renderCtx)
	if err != nil {
		return nil, err
	}

	if req.OutputPath != "" {
		unit := emit.Unit{Path: req.OutputPath, Content: output}
		if err := o.sink.Emit(ctx, unit); err != nil {
			return nil, fmt.Errorf("orchestrator: emit unit: %w", err)
		}
	}

	o.logger.Debug("unit generated", "shape", target.DebugString(), "bytes", len(output))
	return output, nil
}

func (o *Orchestrator) resolveDocument(ctx context.Context, req Request) (shape.Document, error) {
	if req.Document != nil {
		return *req.Document, nil
	}
	if req.Source == nil {
		return shape.Document{}, errors.New("orchestrator: source or document is required")
	}
	doc, err := o.loader.Load(ctx, req.Source)
	if err != nil {
		return shape.Document{}, fmt.Errorf("orchestrator: load document: %w", err)
	}
	return doc, nil
}

func (o *Orchestrator) render(req Request, target shape.TypeShape, renderCtx *template.Context) ([]byte, error) {
	if req.TemplateText != "" {
		out, err := o.renderer.RenderString(req.TemplateText, renderCtx)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: render inline template: %w", err)
		}
		return []byte(out), nil
	}

	name := req.Template
	if name == "" {
		name = target.Hint("template")
	}
	if name == "" {
		name = o.defaultTemplate
	}
	if name == "" {
		name = templateForKind(target.Kind)
	}
	if name == "" {
		return nil, fmt.Errorf("orchestrator: no template for shape kind %q", target.Kind)
	}

	out, err := o.renderer.Render(name, renderCtx)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render template %q: %w", name, err)
	}
	return []byte(out), nil
}

// selectShape picks the requested type, or the only declared one when
// the request names none.
func selectShape(shapes map[string]shape.TypeShape, name string) (shape.TypeShape, error) {
	if len(shapes) == 0 {
		return shape.TypeShape{}, errors.New("orchestrator: document declares no types")
	}
	if name != "" {
		target, ok := shapes[name]
		if !ok {
			return shape.TypeShape{}, fmt.Errorf("orchestrator: type %q not declared, document declares %s",
				name, strings.Join(shape.Names(shapes), ", "))
		}
		return target, nil
	}
	if len(shapes) == 1 {
		for _, target := range shapes {
			return target, nil
		}
	}
	return shape.TypeShape{}, fmt.Errorf("orchestrator: type name is required, document declares %s",
		strings.Join(shape.Names(shapes), ", "))
}

// templateForKind maps shape kinds onto the built-in template bundle.
func templateForKind(kind shape.Kind) string {
	switch kind {
	case shape.KindObject:
		return "struct"
	case shape.KindEnum:
		return "enum"
	case shape.KindAlias:
		return "alias"
	default:
		return ""
	}
}

func (o *Orchestrator) applyDefaults() {
	if o.defaultsApplied {
		return
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.loader == nil {
		o.loader = internalloader.New(shape.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = newDetectingParser(shape.NewParserOptions())
	}
	if o.resolver == nil {
		o.resolver = binding.New()
	}
	if o.renderer == nil {
		engine, err := template.New(template.WithFS(TemplatesFS()), template.WithLogger(o.logger))
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default engine: %w", err)
		} else {
			o.renderer = engine
		}
	}
	if o.sink == nil {
		o.sink = emit.NewFileSink(emit.WithLogger(o.logger))
	}

	o.defaultsApplied = true
}
