package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	srcgen "github.com/goliatone/go-srcgen"
	pkgshape "github.com/goliatone/go-srcgen/pkg/shape"
)

func main() {
	var (
		sourcePath = flag.String("source", "internal/shape/typesfile/testdata/inventory.yaml", "type document to snapshot")
		outputPath = flag.String("output", "internal/shape/typesfile/testdata/inventory.golden.json", "output path for the serialized shapes")
	)
	flag.Parse()

	ctx := context.Background()

	doc, err := srcgen.NewLoader().Load(ctx, pkgshape.SourceFromFile(*sourcePath))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load document: %v\n", err)
		os.Exit(1)
	}

	shapes, err := srcgen.NewParser().Shapes(ctx, doc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse shapes: %v\n", err)
		os.Exit(1)
	}

	payload, err := json.MarshalIndent(shapes, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to serialize shapes: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*outputPath, payload, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Wrote shape snapshot (%d types) → %s\n", len(shapes), *outputPath)
}
