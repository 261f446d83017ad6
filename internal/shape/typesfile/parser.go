package typesfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-srcgen/pkg/shape"
)

// Parser implements shape.Parser for declared-shapes documents, a small
// YAML/JSON format listing types directly:
//
//	types:
//	  User:
//	    doc: Account holder.
//	    fields:
//	      ID:   {type: int64, required: true}
//	      Name: {type: string, required: true}
//	  Role:
//	    enum: [admin, editor, viewer]
//	  UserID:
//	    alias: int64
//
// Field and type names are used as written; the format targets authors
// who already know the identifiers they want in the generated source.
type Parser struct {
	options shape.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ shape.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options shape.ParserOptions) shape.Parser {
	return &Parser{options: options}
}

// Shapes decodes a declared-shapes document into the canonical IR.
func (p *Parser) Shapes(ctx context.Context, doc shape.Document) (map[string]shape.TypeShape, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("typesfile: document payload is empty")
	}

	file, err := parseDocument(raw, doc.Location())
	if err != nil {
		return nil, err
	}

	shapes := make(map[string]shape.TypeShape, len(file.Types))
	for name, decl := range file.Types {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, fmt.Errorf("typesfile: document %s defines an empty type name", doc.Location())
		}
		converted, err := normaliseType(trimmed, decl, doc.Location())
		if err != nil {
			return nil, err
		}
		shapes[trimmed] = converted
	}

	if len(shapes) == 0 && !p.options.AllowEmptyDocuments {
		return nil, fmt.Errorf("typesfile: document %s declares no types", doc.Location())
	}

	return shapes, nil
}

type documentFile struct {
	Types map[string]typeFile `json:"types" yaml:"types"`
}

type typeFile struct {
	Doc        string               `json:"doc" yaml:"doc"`
	Fields     map[string]fieldFile `json:"fields" yaml:"fields"`
	Enum       []string             `json:"enum" yaml:"enum"`
	Underlying string               `json:"underlying" yaml:"underlying"`
	Alias      string               `json:"alias" yaml:"alias"`
	Extensions map[string]any       `json:"extensions" yaml:"extensions"`
}

type fieldFile struct {
	Type     string            `json:"type" yaml:"type"`
	Doc      string            `json:"doc" yaml:"doc"`
	Format   string            `json:"format" yaml:"format"`
	Required bool              `json:"required" yaml:"required"`
	Tags     map[string]string `json:"tags" yaml:"tags"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var file documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("typesfile: document %s is empty", source)
	}

	if err := json.Unmarshal(data, &file); err == nil {
		return file, nil
	}

	if err := yaml.Unmarshal(data, &file); err == nil {
		return file, nil
	}

	return documentFile{}, fmt.Errorf("typesfile: parse %s: invalid JSON or YAML", source)
}

func normaliseType(name string, decl typeFile, source string) (shape.TypeShape, error) {
	out := shape.TypeShape{
		Name: name,
		Doc:  strings.TrimSpace(decl.Doc),
	}
	if len(decl.Extensions) > 0 {
		out.Extensions = make(map[string]any, len(decl.Extensions))
		for k, v := range decl.Extensions {
			out.Extensions[k] = v
		}
	}

	declared := 0
	if decl.Fields != nil {
		declared++
	}
	if len(decl.Enum) > 0 {
		declared++
	}
	if decl.Alias != "" {
		declared++
	}
	switch declared {
	case 0:
		return shape.TypeShape{}, fmt.Errorf("typesfile: type %q (document %s) declares neither fields, enum nor alias", name, source)
	case 1:
	default:
		return shape.TypeShape{}, fmt.Errorf("typesfile: type %q (document %s) mixes fields, enum and alias declarations", name, source)
	}

	switch {
	case decl.Fields != nil:
		out.Kind = shape.KindObject
		fields, err := normaliseFields(name, decl.Fields, source)
		if err != nil {
			return shape.TypeShape{}, err
		}
		out.Fields = fields
	case len(decl.Enum) > 0:
		out.Kind = shape.KindEnum
		out.Underlying = decl.Underlying
		if out.Underlying == "" {
			out.Underlying = "string"
		}
		out.EnumValues = append([]string(nil), decl.Enum...)
	default:
		out.Kind = shape.KindAlias
		out.Underlying = decl.Alias
	}

	if err := out.Validate(); err != nil {
		return shape.TypeShape{}, err
	}
	return out, nil
}

func normaliseFields(typeName string, raw map[string]fieldFile, source string) ([]shape.Field, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	declared := make(map[string]fieldFile, len(raw))
	names := make([]string, 0, len(raw))
	for name, decl := range raw {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, fmt.Errorf("typesfile: type %q (document %s) defines an empty field name", typeName, source)
		}
		if _, exists := declared[trimmed]; exists {
			return nil, fmt.Errorf("typesfile: type %q (document %s) defines duplicate field %q", typeName, source, trimmed)
		}
		declared[trimmed] = decl
		names = append(names, trimmed)
	}
	sort.Strings(names)

	fields := make([]shape.Field, 0, len(names))
	for _, name := range names {
		decl := declared[name]
		if strings.TrimSpace(decl.Type) == "" {
			return nil, fmt.Errorf("typesfile: field %s.%s (document %s) has no type", typeName, name, source)
		}
		field := shape.Field{
			Name:     name,
			Type:     strings.TrimSpace(decl.Type),
			Doc:      strings.TrimSpace(decl.Doc),
			Format:   decl.Format,
			Required: decl.Required,
		}
		if len(decl.Tags) > 0 {
			field.Tags = make(map[string]string, len(decl.Tags))
			for k, v := range decl.Tags {
				field.Tags[k] = v
			}
		}
		fields = append(fields, field)
	}
	return fields, nil
}
