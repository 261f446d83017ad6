package typesfile

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-srcgen/pkg/shape"
)

// Detect reports whether the document looks like a declared-shapes file,
// probing JSON first and YAML second.
func Detect(doc shape.Document) bool {
	var probe struct {
		Types map[string]any `json:"types" yaml:"types"`
	}
	raw := doc.Raw()
	if err := json.Unmarshal(raw, &probe); err != nil {
		if err := yaml.Unmarshal(raw, &probe); err != nil {
			return false
		}
	}
	return len(probe.Types) > 0
}
