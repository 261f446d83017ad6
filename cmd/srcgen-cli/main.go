package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	srcgen "github.com/goliatone/go-srcgen"
	"github.com/goliatone/go-srcgen/internal/prompt"
	"github.com/goliatone/go-srcgen/pkg/emit"
	"github.com/goliatone/go-srcgen/pkg/orchestrator"
	pkgshape "github.com/goliatone/go-srcgen/pkg/shape"
	pkgtemplate "github.com/goliatone/go-srcgen/pkg/template"
)

func main() {
	configPath := flag.String("config", "", "srcgen.yaml config file (runs all jobs)")
	source := flag.String("source", "", "type document path or URL")
	typeName := flag.String("type", "", "type to generate (optional when the document declares one)")
	templateName := flag.String("template", "", "template name (kind default if empty)")
	templateDir := flag.String("templates", "", "directory that shadows the built-in templates")
	pkgName := flag.String("package", "", "package binding for the built-in templates")
	output := flag.String("output", "", "output file (stdout if empty)")
	interactive := flag.Bool("interactive", false, "prompt for missing inputs")

	var values, valueFiles multiFlag
	flag.Var(&values, "value", "extra binding as name=value (repeatable)")
	flag.Var(&valueFiles, "values", "YAML/JSON value file (repeatable)")
	flag.Parse()

	ctx := context.Background()

	var opts []orchestrator.Option
	if *templateDir != "" {
		engine, err := pkgtemplate.New(
			pkgtemplate.WithBaseDir(*templateDir),
			pkgtemplate.WithFS(srcgen.EmbeddedTemplates()),
		)
		if err != nil {
			log.Fatalf("template directory: %v", err)
		}
		opts = append(opts, orchestrator.WithRenderer(engine))
	}

	if *configPath != "" {
		runConfig(ctx, *configPath, opts)
		return
	}

	req := srcgen.Request{
		Source:     pkgshape.SourceFromString(*source),
		TypeName:   *typeName,
		Template:   *templateName,
		Values:     parseValues(values),
		ValueFiles: valueFiles,
		OutputPath: *output,
	}
	if *pkgName != "" {
		if req.Values == nil {
			req.Values = map[string]any{}
		}
		req.Values["package"] = *pkgName
	}

	if *interactive {
		filled, err := promptRequest(ctx, prompt.New(), req)
		if errors.Is(err, prompt.ErrAborted) {
			fmt.Fprintln(os.Stderr, "aborted")
			os.Exit(1)
		}
		if err != nil {
			log.Fatalf("interactive setup: %v", err)
		}
		req = filled
	}

	if req.Source == nil && req.Document == nil {
		log.Fatal("source is required (pass -source, -config, or -interactive)")
	}

	gen := srcgen.NewOrchestrator(opts...)
	out, err := gen.Generate(ctx, req)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}

	if req.OutputPath == "" {
		fmt.Print(string(out))
		return
	}
	fmt.Printf("unit written to %s\n", req.OutputPath)
}

// runConfig expands a srcgen.yaml file and runs every job through a
// shared orchestrator.
func runConfig(ctx context.Context, path string, opts []orchestrator.Option) {
	cfg, err := orchestrator.LoadConfig(path)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	reqs, err := cfg.Requests()
	if err != nil {
		log.Fatalf("expand config: %v", err)
	}

	if cfg.OutDir != "" {
		opts = append(opts, orchestrator.WithSink(emit.NewFileSink(emit.WithBaseDir(cfg.OutDir))))
	}
	gen := srcgen.NewOrchestrator(opts...)

	written := 0
	for i, req := range reqs {
		out, err := gen.Generate(ctx, req)
		if err != nil {
			log.Fatalf("job %d: %v", i+1, err)
		}
		if req.OutputPath == "" {
			fmt.Print(string(out))
			continue
		}
		written++
	}
	fmt.Printf("generated %d units\n", written)
}

// promptRequest fills the gaps in a request by asking the user. The
// document is loaded once so the type list and the later generation
// share the same payload.
func promptRequest(ctx context.Context, driver prompt.Driver, req srcgen.Request) (srcgen.Request, error) {
	if req.Source == nil {
		raw, err := driver.Input(ctx, prompt.InputConfig{
			Message: "Type document path or URL",
			Validator: func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("source is required")
				}
				return nil
			},
		})
		if err != nil {
			return req, err
		}
		req.Source = pkgshape.SourceFromString(raw)
	}

	if req.TypeName == "" {
		doc, err := srcgen.NewLoader().Load(ctx, req.Source)
		if err != nil {
			return req, err
		}
		shapes, err := srcgen.NewParser().Shapes(ctx, doc)
		if err != nil {
			return req, err
		}
		req.Document = &doc

		if names := pkgshape.Names(shapes); len(names) > 1 {
			idx, err := driver.Select(ctx, prompt.SelectConfig{
				Message: "Type to generate",
				Options: names,
			})
			if err != nil {
				return req, err
			}
			req.TypeName = names[idx]
		}
	}

	if _, ok := req.Values["package"]; !ok && len(req.ValueFiles) == 0 {
		pkg, err := driver.Input(ctx, prompt.InputConfig{
			Message: "Package name for the generated unit",
			Default: "models",
		})
		if err != nil {
			return req, err
		}
		if req.Values == nil {
			req.Values = map[string]any{}
		}
		req.Values["package"] = pkg
	}

	if req.OutputPath == "" {
		out, err := driver.Input(ctx, prompt.InputConfig{
			Message: "Output file (empty prints to stdout)",
		})
		if err != nil {
			return req, err
		}
		req.OutputPath = strings.TrimSpace(out)
	}

	if req.OutputPath != "" {
		if _, err := os.Stat(req.OutputPath); err == nil {
			overwrite, err := driver.Confirm(ctx, prompt.ConfirmConfig{
				Message: fmt.Sprintf("%s exists, overwrite?", req.OutputPath),
			})
			if err != nil {
				return req, err
			}
			if !overwrite {
				if err := driver.Info(ctx, "keeping the existing file, printing to stdout"); err != nil {
					return req, err
				}
				req.OutputPath = ""
			}
		}
	}

	return req, nil
}

// multiFlag collects repeatable string flags.
type multiFlag []string

func (m *multiFlag) String() string {
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

func parseValues(pairs []string) map[string]any {
	if len(pairs) == 0 {
		return nil
	}
	values := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok {
			log.Fatalf("invalid -value %q, want name=value", pair)
		}
		values[name] = value
	}
	return values
}
