package shape

import (
	"sort"
	"strings"
)

// ExtensionNamespace is the vendor extension prefix generation hints are
// declared under in OpenAPI documents. Declared-shapes documents list
// hints directly in their extensions block.
const ExtensionNamespace = "x-srcgen"

// allowedHintKeys is the closed set of generation hints the pipeline
// acts on. Anything else is an authoring mistake the lint tool reports.
var allowedHintKeys = map[string]bool{
	"package":  true,
	"receiver": true,
	"table":    true,
	"template": true,
}

// Hints flattens the shape's extensions into generation hints. OpenAPI
// conventions are normalised: an x-srcgen object contributes its
// entries, x-srcgen-<key> contributes <key>, and unprefixed keys pass
// through as written.
func (s TypeShape) Hints() map[string]any {
	if len(s.Extensions) == 0 {
		return nil
	}

	keys := make([]string, 0, len(s.Extensions))
	for k := range s.Extensions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	hints := make(map[string]any)
	for _, k := range keys {
		v := s.Extensions[k]
		switch {
		case k == ExtensionNamespace:
			nested, ok := v.(map[string]any)
			if !ok {
				continue
			}
			for nk, nv := range nested {
				hints[nk] = nv
			}
		case strings.HasPrefix(k, ExtensionNamespace+"-"):
			hints[strings.TrimPrefix(k, ExtensionNamespace+"-")] = v
		default:
			hints[k] = v
		}
	}
	if len(hints) == 0 {
		return nil
	}
	return hints
}

// Hint returns the named generation hint as a string. Empty when the
// hint is absent or not a string.
func (s TypeShape) Hint(name string) string {
	v, ok := s.Hints()[name]
	if !ok {
		return ""
	}
	str, _ := v.(string)
	return str
}

// IsAllowedHintKey reports whether the pipeline understands a hint key.
func IsAllowedHintKey(key string) bool {
	return allowedHintKeys[key]
}

// AllowedHintKeys lists the supported hint keys in sorted order.
func AllowedHintKeys() []string {
	keys := make([]string, 0, len(allowedHintKeys))
	for k := range allowedHintKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ScalarHintValue normalises a hint value to a string, number, or bool.
// The second return is false for composite values, which hints do not
// support.
func ScalarHintValue(value any) (any, bool) {
	switch v := value.(type) {
	case string, bool, int, int32, int64, float32, float64:
		return v, true
	default:
		return nil, false
	}
}
