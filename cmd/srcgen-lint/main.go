package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	internalopenapi "github.com/goliatone/go-srcgen/internal/shape/openapi"
	internaltypesfile "github.com/goliatone/go-srcgen/internal/shape/typesfile"
	pkgshape "github.com/goliatone/go-srcgen/pkg/shape"
	pkgtemplate "github.com/goliatone/go-srcgen/pkg/template"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nLint templates for parse errors and type documents for unsupported generation hints.\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := collectFiles(paths)
	if err != nil {
		fmt.Fprintf(os.Stderr, "collect files: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	options := pkgshape.NewParserOptions(
		pkgshape.WithReferenceResolution(false),
		pkgshape.WithEmptyDocuments(true),
	)

	var violations []violation
	templates, documents := 0, 0
	for _, path := range files {
		if strings.HasSuffix(path, ".tpl") {
			templates++
			violations = append(violations, lintTemplate(path)...)
			continue
		}
		linted, counted, err := lintDocument(ctx, options, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		if counted {
			documents++
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				if violations[i].location == violations[j].location {
					return violations[i].message < violations[j].message
				}
				return violations[i].location < violations[j].location
			}
			return violations[i].file < violations[j].file
		})
		red := color.New(color.FgRed)
		for _, v := range violations {
			red.Fprintf(color.Error, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}

	color.New(color.FgGreen).Fprintf(color.Output, "ok: %d templates and %d documents clean\n", templates, documents)
}

// collectFiles expands the argument list, walking directories for
// lintable files.
func collectFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch filepath.Ext(p) {
			case ".tpl", ".yaml", ".yml", ".json":
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// lintTemplate parses a template and reports grammar violations with
// their source line.
func lintTemplate(path string) []violation {
	raw, err := os.ReadFile(path)
	if err != nil {
		return []violation{{file: path, location: "template", message: err.Error()}}
	}

	if _, err := pkgtemplate.ParseString(string(raw)); err != nil {
		var perr *pkgtemplate.ParseError
		if errors.As(err, &perr) {
			return []violation{{
				file:     path,
				location: fmt.Sprintf("line %d", perr.Line),
				message:  fmt.Sprintf("%s (at %q)", perr.Msg, perr.Context),
			}}
		}
		return []violation{{file: path, location: "template", message: err.Error()}}
	}
	return nil
}

// lintDocument parses a type document and checks every shape's
// generation hints against the supported set. Files that match neither
// document format are skipped.
func lintDocument(ctx context.Context, options pkgshape.ParserOptions, path string) ([]violation, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("read file: %w", err)
	}

	doc, err := pkgshape.NewDocument(pkgshape.SourceFromFile(path), raw)
	if err != nil {
		return nil, false, fmt.Errorf("construct document: %w", err)
	}

	var parser pkgshape.Parser
	switch {
	case internalopenapi.Detect(doc):
		parser = internalopenapi.New(options)
	case internaltypesfile.Detect(doc):
		parser = internaltypesfile.New(options)
	default:
		return nil, false, nil
	}

	shapes, err := parser.Shapes(ctx, doc)
	if err != nil {
		return []violation{{file: path, location: "document", message: err.Error()}}, true, nil
	}

	var result []violation
	for _, name := range pkgshape.Names(shapes) {
		result = append(result, lintHints(path, name, shapes[name].Hints())...)
	}
	return result, true, nil
}

func lintHints(file, typeName string, hints map[string]any) []violation {
	if len(hints) == 0 {
		return nil
	}

	keys := make([]string, 0, len(hints))
	for key := range hints {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []violation
	location := "types." + typeName
	for _, key := range keys {
		if !pkgshape.IsAllowedHintKey(key) {
			result = append(result, violation{
				file:     file,
				location: location,
				message: fmt.Sprintf("unsupported generation hint %q (supported: %s)",
					key, strings.Join(pkgshape.AllowedHintKeys(), ", ")),
			})
			continue
		}
		if _, ok := pkgshape.ScalarHintValue(hints[key]); !ok {
			result = append(result, violation{
				file:     file,
				location: location,
				message:  fmt.Sprintf("value for %q must be a string, number, or boolean (got %T)", key, hints[key]),
			})
		}
	}
	return result
}
