package openapi

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-srcgen/pkg/shape"
)

// Detect reports whether the document looks like an OpenAPI description.
// Both JSON and YAML payloads are probed for a version marker.
func Detect(doc shape.Document) bool {
	var probe struct {
		OpenAPI string `json:"openapi" yaml:"openapi"`
		Swagger string `json:"swagger" yaml:"swagger"`
	}
	raw := doc.Raw()
	if err := json.Unmarshal(raw, &probe); err != nil {
		if err := yaml.Unmarshal(raw, &probe); err != nil {
			return false
		}
	}
	return probe.OpenAPI != "" || probe.Swagger != ""
}
