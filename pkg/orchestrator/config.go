package orchestrator

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-srcgen/pkg/shape"
)

// Config mirrors the srcgen.yaml layout consumed by the CLI. Top-level
// fields supply defaults that individual jobs may override.
type Config struct {
	// Source is the default type document for jobs that declare none.
	Source string `yaml:"source"`

	// OutDir roots relative job outputs. The CLI wires it into the file
	// sink base directory.
	OutDir string `yaml:"out_dir"`

	// Values are bindings shared by every job.
	Values map[string]any `yaml:"values"`

	// ValueFiles are merged before each job's own value files.
	ValueFiles []string `yaml:"value_files"`

	// Jobs lists the units to generate.
	Jobs []Job `yaml:"jobs"`
}

// Job describes one generation unit within a config file.
type Job struct {
	Source       string         `yaml:"source"`
	Type         string         `yaml:"type"`
	Template     string         `yaml:"template"`
	TemplateText string         `yaml:"template_text"`
	Output       string         `yaml:"output"`
	Values       map[string]any `yaml:"values"`
	ValueFiles   []string       `yaml:"value_files"`
}

// LoadConfig reads and decodes a srcgen.yaml file. JSON payloads decode
// as well since YAML is a superset.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("orchestrator: config path is required")
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("orchestrator: read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("orchestrator: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Requests expands the config into one request per job, applying the
// top-level defaults. Jobs are numbered from one in error messages to
// match how they read in the file.
func (c Config) Requests() ([]Request, error) {
	if len(c.Jobs) == 0 {
		return nil, errors.New("orchestrator: config declares no jobs")
	}

	reqs := make([]Request, 0, len(c.Jobs))
	for i, job := range c.Jobs {
		source := job.Source
		if source == "" {
			source = c.Source
		}
		if source == "" {
			return nil, fmt.Errorf("orchestrator: job %d declares no source", i+1)
		}

		var files []string
		files = append(files, c.ValueFiles...)
		files = append(files, job.ValueFiles...)

		reqs = append(reqs, Request{
			Source:       shape.SourceFromString(source),
			TypeName:     job.Type,
			Template:     job.Template,
			TemplateText: job.TemplateText,
			Values:       mergeValues(c.Values, job.Values),
			ValueFiles:   files,
			OutputPath:   job.Output,
		})
	}
	return reqs, nil
}

// mergeValues overlays job values on the shared ones.
func mergeValues(base, override map[string]any) map[string]any {
	if len(base) == 0 && len(override) == 0 {
		return nil
	}
	merged := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
