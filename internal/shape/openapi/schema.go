package openapi

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-srcgen/pkg/shape"
)

const (
	extensionNamespace = "x-srcgen"
	goNameExtensionKey = "x-go-name"
	goTypeExtensionKey = "x-go-type"
)

// convertShape maps one component schema onto the canonical IR. Objects
// become field lists, enumerations keep their value set, everything else
// is treated as an alias of the mapped Go type.
func convertShape(name string, ref *openapi3.SchemaRef) shape.TypeShape {
	out := shape.TypeShape{
		Name: goName(name),
	}
	value := ref.Value
	if value == nil {
		out.Kind = shape.KindAlias
		out.Underlying = refName(ref.Ref)
		return out
	}

	out.Doc = schemaDoc(value)
	out.Extensions = extractExtensions(value.Extensions)
	if override, ok := stringExtension(value.Extensions, goNameExtensionKey); ok {
		out.Name = override
	}

	switch {
	case len(value.Enum) > 0:
		out.Kind = shape.KindEnum
		out.Underlying = baseType(value)
		out.EnumValues = enumValues(value.Enum)
	case isObject(value):
		out.Kind = shape.KindObject
		out.Fields = convertFields(value)
	default:
		out.Kind = shape.KindAlias
		out.Underlying = goType(ref)
	}
	return out
}

func convertFields(value *openapi3.Schema) []shape.Field {
	if len(value.Properties) == 0 {
		return nil
	}

	required := make(map[string]bool, len(value.Required))
	for _, name := range value.Required {
		required[name] = true
	}

	names := make([]string, 0, len(value.Properties))
	for name := range value.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]shape.Field, 0, len(names))
	for _, name := range names {
		prop := value.Properties[name]
		if prop == nil {
			continue
		}
		fields = append(fields, convertField(name, prop, required[name]))
	}
	return fields
}

func convertField(name string, prop *openapi3.SchemaRef, required bool) shape.Field {
	field := shape.Field{
		Name:     goName(name),
		Type:     goType(prop),
		Required: required,
		Tags:     map[string]string{"json": jsonTag(name, required)},
	}
	if prop.Value != nil {
		field.Doc = prop.Value.Description
		field.Format = prop.Value.Format
		if override, ok := stringExtension(prop.Value.Extensions, goNameExtensionKey); ok {
			field.Name = override
		}
	}
	return field
}

// goType maps a schema onto a Go type expression. References resolve to
// the referenced component name; nullable values are emitted behind a
// pointer unless the mapping already yields a nilable type.
func goType(ref *openapi3.SchemaRef) string {
	if ref == nil {
		return "any"
	}
	if ref.Ref != "" {
		return refName(ref.Ref)
	}
	value := ref.Value
	if value == nil {
		return "any"
	}
	if override, ok := stringExtension(value.Extensions, goTypeExtensionKey); ok {
		return override
	}

	mapped := baseType(value)
	if value.Nullable && !strings.HasPrefix(mapped, "[]") && !strings.HasPrefix(mapped, "map[") && mapped != "any" {
		return "*" + mapped
	}
	return mapped
}

func baseType(value *openapi3.Schema) string {
	switch firstSchemaType(value.Type) {
	case "string":
		switch value.Format {
		case "date-time", "date":
			return "time.Time"
		case "byte", "binary":
			return "[]byte"
		default:
			return "string"
		}
	case "integer":
		switch value.Format {
		case "int32":
			return "int32"
		case "int64":
			return "int64"
		default:
			return "int"
		}
	case "number":
		if value.Format == "float" {
			return "float32"
		}
		return "float64"
	case "boolean":
		return "bool"
	case "array":
		return "[]" + goType(value.Items)
	case "object":
		if value.AdditionalProperties.Schema != nil {
			return "map[string]" + goType(value.AdditionalProperties.Schema)
		}
		return "map[string]any"
	default:
		return "any"
	}
}

func isObject(value *openapi3.Schema) bool {
	if len(value.Properties) > 0 {
		return true
	}
	return firstSchemaType(value.Type) == "object" && value.AdditionalProperties.Schema == nil
}

func firstSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	values := types.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func schemaDoc(value *openapi3.Schema) string {
	if value.Description != "" {
		return value.Description
	}
	return value.Title
}

func enumValues(raw []any) []string {
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		out = append(out, fmt.Sprintf("%v", v))
	}
	return out
}

func refName(ref string) string {
	if ref == "" {
		return "any"
	}
	if idx := strings.LastIndex(ref, "/"); idx >= 0 {
		ref = ref[idx+1:]
	}
	return goName(ref)
}

func jsonTag(name string, required bool) string {
	if required {
		return name
	}
	return name + ",omitempty"
}

func extractExtensions(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}

	result := make(map[string]any)
	for key, value := range raw {
		switch {
		case key == extensionNamespace:
			if mapped, ok := cloneMap(value); ok && len(mapped) > 0 {
				result[key] = mapped
			}
		case strings.HasPrefix(key, extensionNamespace+"-"):
			result[key] = value
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func stringExtension(raw map[string]any, key string) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	value, ok := raw[key].(string)
	if !ok || strings.TrimSpace(value) == "" {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func cloneMap(value any) (map[string]any, bool) {
	mapped, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	cloned := make(map[string]any, len(mapped))
	for k, v := range mapped {
		cloned[k] = v
	}
	return cloned, true
}

var initialisms = map[string]string{
	"id":   "ID",
	"url":  "URL",
	"uri":  "URI",
	"api":  "API",
	"http": "HTTP",
	"json": "JSON",
	"sql":  "SQL",
	"uuid": "UUID",
	"html": "HTML",
	"xml":  "XML",
}

// goName converts a schema or property name into an exported Go
// identifier. Underscore, hyphen, dot and space act as word breaks.
func goName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == '.' || r == ' '
	})
	if len(parts) == 0 {
		return name
	}
	var b strings.Builder
	for _, part := range parts {
		if replacement, ok := initialisms[strings.ToLower(part)]; ok {
			b.WriteString(replacement)
			continue
		}
		runes := []rune(part)
		runes[0] = unicode.ToUpper(runes[0])
		b.WriteString(string(runes))
	}
	return b.String()
}
