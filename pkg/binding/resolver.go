package binding

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/goliatone/go-srcgen/pkg/shape"
	"github.com/goliatone/go-srcgen/pkg/template"
)

// Option customises the resolver configuration.
type Option func(*Resolver)

// WithFS makes value files resolve against an fs.FS instead of the
// operating system.
func WithFS(files fs.FS) Option {
	return func(r *Resolver) {
		r.files = files
	}
}

// Resolver builds the template context for one render. Sources merge in
// a fixed order: shape-derived bindings first, then value files in the
// order listed, then caller values. Later sources win, except that the
// shape-derived names are reserved and collide loudly.
type Resolver struct {
	files fs.FS
}

// New constructs a Resolver applying any provided options.
func New(options ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

// Request describes the binding sources for one render.
type Request struct {
	// Shape supplies the type under generation. Optional for renders
	// that only use caller values.
	Shape *shape.TypeShape

	// Values are caller-supplied bindings, merged last.
	Values map[string]any

	// ValueFiles lists YAML/JSON files whose top-level keys become
	// bindings, merged in order before Values.
	ValueFiles []string
}

// Resolve merges the request sources into a render context.
func (r *Resolver) Resolve(ctx context.Context, req Request) (*template.Context, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := map[string]any{}
	reserved := map[string]bool{}

	bind := func(name string, value any) {
		out[name] = value
		reserved[name] = true
	}

	bind("casing", Casing{})
	if req.Shape != nil {
		for name, value := range shapeBindings(*req.Shape) {
			bind(name, value)
		}
	}

	for _, path := range req.ValueFiles {
		values, err := r.loadValueFile(path)
		if err != nil {
			return nil, err
		}
		if err := merge(out, reserved, values, path); err != nil {
			return nil, err
		}
	}

	if err := merge(out, reserved, req.Values, ""); err != nil {
		return nil, err
	}

	return template.NewContext(out), nil
}

func merge(out map[string]any, reserved map[string]bool, values map[string]any, source string) error {
	for name, value := range values {
		if reserved[name] {
			if source != "" {
				return fmt.Errorf("binding: value %q from %s collides with a reserved binding", name, source)
			}
			return fmt.Errorf("binding: value %q collides with a reserved binding", name)
		}
		out[name] = value
	}
	return nil
}

// shapeBindings derives the render bindings for a type. The template
// language has no loops, so composite values such as the struct field
// block are assembled here.
func shapeBindings(s shape.TypeShape) map[string]any {
	m := map[string]any{
		"type":       s,
		"typeName":   s.Name,
		"typeDoc":    s.Doc,
		"typeKind":   string(s.Kind),
		"docComment": DocComment(s.Doc),
		"hints":      s.Hints(),
	}
	switch s.Kind {
	case shape.KindObject:
		m["fields"] = s.Fields
		m["fieldsDecl"] = FieldsDecl(s.Fields)
	case shape.KindEnum:
		m["underlying"] = s.Underlying
		m["enumValues"] = s.EnumValues
		m["enumDecl"] = EnumDecl(s.Name, s.Underlying, s.EnumValues)
	case shape.KindAlias:
		m["underlying"] = s.Underlying
	}
	return m
}

// FieldsDecl renders the body of a struct declaration, one field per
// line with doc comments and struct tags.
func FieldsDecl(fields []shape.Field) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('\n')
		}
		if f.Doc != "" {
			b.WriteString("\t// ")
			b.WriteString(f.Doc)
			b.WriteByte('\n')
		}
		b.WriteByte('\t')
		b.WriteString(f.Name)
		b.WriteByte(' ')
		b.WriteString(f.Type)
		if tag := structTag(f.Tags); tag != "" {
			b.WriteString(" `")
			b.WriteString(tag)
			b.WriteByte('`')
		}
	}
	return b.String()
}

// DocComment renders doc text as a comment block, one // line per input
// line, ending with a newline. Empty input yields an empty string so
// templates can splice the result directly above a declaration.
func DocComment(doc string) string {
	trimmed := strings.TrimSpace(doc)
	if trimmed == "" {
		return ""
	}
	var b strings.Builder
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimRight(line, " \t")
		if line == "" {
			b.WriteString("//\n")
			continue
		}
		b.WriteString("// ")
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// EnumDecl renders the const block for an enum shape.
func EnumDecl(name, underlying string, values []string) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteByte('\t')
		b.WriteString(name)
		b.WriteString(Casing{}.Pascal(v))
		b.WriteByte(' ')
		b.WriteString(name)
		b.WriteString(" = ")
		if underlying == "string" {
			fmt.Fprintf(&b, "%q", v)
		} else {
			b.WriteString(v)
		}
	}
	return b.String()
}

func structTag(tags map[string]string) string {
	if len(tags) == 0 {
		return ""
	}
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%q", k, tags[k]))
	}
	return strings.Join(parts, " ")
}
