package shape

import (
	"errors"
	"fmt"
	"sort"
)

// Kind classifies a declared type.
type Kind string

const (
	// KindObject is a struct-like type with named fields.
	KindObject Kind = "object"
	// KindEnum is a closed set of named values.
	KindEnum Kind = "enum"
	// KindAlias names another type.
	KindAlias Kind = "alias"
)

// TypeShape is the canonical form of one declared type, the unit the
// generator inspects when rendering templates. Parsers for every
// supported document format normalise into this type.
type TypeShape struct {
	Name       string
	Kind       Kind
	Doc        string
	Fields     []Field
	EnumValues []string
	Underlying string
	Extensions map[string]any
}

// Field describes one named member of an object shape. Type holds a Go
// type expression ready for template output.
type Field struct {
	Name     string
	Type     string
	Doc      string
	Format   string
	Required bool
	Tags     map[string]string
}

// Field looks up a field by name.
func (s TypeShape) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// RequiredFields returns the fields marked required, in declaration order.
func (s TypeShape) RequiredFields() []Field {
	var out []Field
	for _, f := range s.Fields {
		if f.Required {
			out = append(out, f)
		}
	}
	return out
}

// Clone creates a deep copy of the shape to avoid accidental mutation.
func (s TypeShape) Clone() TypeShape {
	cloned := s
	if len(s.Fields) > 0 {
		cloned.Fields = make([]Field, len(s.Fields))
		for i, f := range s.Fields {
			cloned.Fields[i] = f.Clone()
		}
	}
	if len(s.EnumValues) > 0 {
		cloned.EnumValues = append([]string(nil), s.EnumValues...)
	}
	if len(s.Extensions) > 0 {
		cloned.Extensions = make(map[string]any, len(s.Extensions))
		for k, v := range s.Extensions {
			cloned.Extensions[k] = v
		}
	}
	return cloned
}

// Clone creates a deep copy of the field.
func (f Field) Clone() Field {
	cloned := f
	if len(f.Tags) > 0 {
		cloned.Tags = make(map[string]string, len(f.Tags))
		for k, v := range f.Tags {
			cloned.Tags[k] = v
		}
	}
	return cloned
}

// Validate performs basic sanity checks useful for callers before
// handing a shape to the binding resolver.
func (s TypeShape) Validate() error {
	if s.Name == "" {
		return errors.New("shape: type name is required")
	}
	switch s.Kind {
	case KindObject:
		for _, f := range s.Fields {
			if f.Name == "" {
				return fmt.Errorf("shape: type %s has a field without a name", s.Name)
			}
			if f.Type == "" {
				return fmt.Errorf("shape: field %s.%s has no type", s.Name, f.Name)
			}
		}
	case KindEnum:
		if len(s.EnumValues) == 0 {
			return fmt.Errorf("shape: enum %s has no values", s.Name)
		}
	case KindAlias:
		if s.Underlying == "" {
			return fmt.Errorf("shape: alias %s has no underlying type", s.Name)
		}
	default:
		return fmt.Errorf("shape: type %s has unknown kind %q", s.Name, s.Kind)
	}
	return nil
}

// DebugString renders the shape for logging without dumping the full
// field list.
func (s TypeShape) DebugString() string {
	summary := fmt.Sprintf("name=%s,kind=%s", s.Name, s.Kind)
	if len(s.Fields) > 0 {
		summary += fmt.Sprintf(",fields=%d", len(s.Fields))
	}
	if len(s.EnumValues) > 0 {
		summary += fmt.Sprintf(",values=%d", len(s.EnumValues))
	}
	if s.Underlying != "" {
		summary += ",underlying=" + s.Underlying
	}
	return summary
}

// Names returns the shape names in sorted order, the iteration order
// generators should use for deterministic output.
func Names(shapes map[string]TypeShape) []string {
	if len(shapes) == 0 {
		return nil
	}
	names := make([]string, 0, len(shapes))
	for name := range shapes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
