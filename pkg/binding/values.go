package binding

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// loadValueFile reads a YAML/JSON file of bindings. Paths resolve
// against the configured fs.FS when one is set, the operating system
// otherwise.
func (r *Resolver) loadValueFile(path string) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if r.files != nil {
		data, err = fs.ReadFile(r.files, path)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("binding: read values %s: %w", path, err)
	}
	return parseValues(data, path)
}

func parseValues(data []byte, source string) (map[string]any, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("binding: values file %s is empty", source)
	}

	var values map[string]any
	if err := json.Unmarshal(data, &values); err == nil {
		return values, nil
	}

	if err := yaml.Unmarshal(data, &values); err == nil {
		return values, nil
	}

	return nil, fmt.Errorf("binding: parse %s: invalid JSON or YAML", source)
}
