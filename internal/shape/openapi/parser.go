package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-srcgen/pkg/shape"
)

// Parser implements shape.Parser using kin-openapi. It reads the
// component schemas of a document and normalises each into a TypeShape.
type Parser struct {
	options shape.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ shape.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options shape.ParserOptions) shape.Parser {
	return &Parser{options: options}
}

// Shapes converts a Document into a map keyed by generated type name.
func (p *Parser) Shapes(ctx context.Context, doc shape.Document) (map[string]shape.TypeShape, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi shapes: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi shapes: load document: %w", err)
	}

	if err := p.resolveReferences(ctx, spec); err != nil {
		return nil, err
	}

	shapes := make(map[string]shape.TypeShape)
	origins := make(map[string]string)
	if spec.Components != nil {
		for _, name := range sortedSchemaNames(spec.Components.Schemas) {
			ref := spec.Components.Schemas[name]
			if ref == nil {
				continue
			}
			converted := convertShape(name, ref)
			if prev, ok := origins[converted.Name]; ok {
				return nil, fmt.Errorf("openapi shapes: schemas %q and %q both map to type %s", prev, name, converted.Name)
			}
			origins[converted.Name] = name
			shapes[converted.Name] = converted
		}
	}

	if len(shapes) == 0 && !p.options.AllowEmptyDocuments {
		return nil, errors.New("openapi shapes: document declares no component schemas")
	}

	return shapes, nil
}

func (p *Parser) resolveReferences(ctx context.Context, spec *openapi3.T) error {
	if !p.options.ResolveReferences {
		return nil
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return fmt.Errorf("openapi shapes: validate: %w", err)
	}
	return nil
}

func sortedSchemaNames(schemas openapi3.Schemas) []string {
	if len(schemas) == 0 {
		return nil
	}
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
