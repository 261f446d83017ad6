package orchestrator_test

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-srcgen/pkg/emit"
	"github.com/goliatone/go-srcgen/pkg/orchestrator"
	"github.com/goliatone/go-srcgen/pkg/shape"
	"github.com/goliatone/go-srcgen/pkg/template"
	"github.com/goliatone/go-srcgen/pkg/testsupport"
)

func accountDocument(t *testing.T) shape.Document {
	t.Helper()
	return testsupport.LoadDocument(t, filepath.Join("testdata", "account_types.yaml"))
}

func TestGenerateStructUnit(t *testing.T) {
	t.Parallel()

	doc := accountDocument(t)
	out, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Document: &doc,
		TypeName: "User",
		Values:   map[string]any{"package": "models"},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	golden := filepath.Join("testdata", "user_struct.golden.txt")
	if testsupport.WriteMaybeGolden(t, golden, out) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if diff := testsupport.CompareGolden(want, string(out)); diff != "" {
		t.Fatalf("struct unit mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateEnumUnit(t *testing.T) {
	t.Parallel()

	doc := accountDocument(t)
	out, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Document: &doc,
		TypeName: "Role",
		Values:   map[string]any{"package": "models"},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	golden := filepath.Join("testdata", "role_enum.golden.txt")
	if testsupport.WriteMaybeGolden(t, golden, out) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if diff := testsupport.CompareGolden(want, string(out)); diff != "" {
		t.Fatalf("enum unit mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateAliasUnit(t *testing.T) {
	t.Parallel()

	doc := accountDocument(t)
	out, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Document: &doc,
		TypeName: "UserID",
		Values:   map[string]any{"package": "models"},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	want := "// Code generated by srcgen. DO NOT EDIT.\n\n" +
		"package models\n\n" +
		"// Stable identifier.\ntype UserID int64\n"
	if diff := testsupport.CompareGolden(want, string(out)); diff != "" {
		t.Fatalf("alias unit mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateDetectsOpenAPIPayloads(t *testing.T) {
	t.Parallel()

	const accountSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Accounts", "version": "1.0.0"},
  "paths": {},
  "components": {"schemas": {"AccountID": {"type": "string"}}}
}`
	doc := shape.MustNewDocument(shape.SourceFromFS("openapi.json"), []byte(accountSpec))

	out, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Document: &doc,
		Values:   map[string]any{"package": "ids"},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	want := "// Code generated by srcgen. DO NOT EDIT.\n\n" +
		"package ids\n\n" +
		"type AccountID string\n"
	if diff := testsupport.CompareGolden(want, string(out)); diff != "" {
		t.Fatalf("detected unit mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerateInlineTemplateWinsOverNamed(t *testing.T) {
	t.Parallel()

	doc := accountDocument(t)
	out, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Document:     &doc,
		TypeName:     "User",
		Template:     "struct",
		TemplateText: "const table = \"$casing.Snake($typeName)\"\n",
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got := string(out); got != "const table = \"user\"\n" {
		t.Fatalf("inline output = %q", got)
	}
}

func TestGenerateSingleTypeNeedsNoName(t *testing.T) {
	t.Parallel()

	doc := shape.MustNewDocument(shape.SourceFromFS("port.yaml"), []byte("types:\n  Port:\n    alias: int\n"))
	out, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Document: &doc,
		Values:   map[string]any{"package": "net"},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if !strings.Contains(string(out), "type Port int") {
		t.Fatalf("output = %q", out)
	}
}

func TestGenerateUnknownType(t *testing.T) {
	t.Parallel()

	doc := accountDocument(t)
	_, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{
		Document: &doc,
		TypeName: "Ghost",
	})
	if err == nil {
		t.Fatal("expected error for unknown type")
	}
	if !strings.Contains(err.Error(), `type "Ghost" not declared`) {
		t.Fatalf("error = %v", err)
	}
	if !strings.Contains(err.Error(), "Role, User, UserID") {
		t.Fatalf("error should list declared types, got %v", err)
	}
}

func TestGenerateRequiresSourceOrDocument(t *testing.T) {
	t.Parallel()

	_, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{})
	if err == nil || !strings.Contains(err.Error(), "source or document is required") {
		t.Fatalf("error = %v", err)
	}
}

func TestGenerateRequiresContext(t *testing.T) {
	t.Parallel()

	var missing context.Context
	_, err := orchestrator.New().Generate(missing, orchestrator.Request{})
	if err == nil || !strings.Contains(err.Error(), "context is required") {
		t.Fatalf("error = %v", err)
	}
}

func TestGenerateUndetectableDocument(t *testing.T) {
	t.Parallel()

	doc := shape.MustNewDocument(shape.SourceFromFS("palette.yaml"), []byte("colour: teal\n"))
	_, err := orchestrator.New().Generate(testsupport.Context(), orchestrator.Request{Document: &doc})
	if err == nil || !strings.Contains(err.Error(), "unable to detect document format") {
		t.Fatalf("error = %v", err)
	}
}

func TestGenerateEmitsThroughSink(t *testing.T) {
	t.Parallel()

	doc := accountDocument(t)
	var buf bytes.Buffer
	orch := orchestrator.New(orchestrator.WithSink(emit.NewWriterSink(&buf)))

	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Document:   &doc,
		TypeName:   "UserID",
		Values:     map[string]any{"package": "models"},
		OutputPath: "user_id_gen.go",
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	streamed := buf.String()
	if !strings.HasPrefix(streamed, "// ---- user_id_gen.go ----\n") {
		t.Fatalf("stream missing unit header: %q", streamed)
	}
	if !strings.HasSuffix(streamed, string(out)) {
		t.Fatalf("stream should end with the rendered unit, got %q", streamed)
	}
}

func TestGenerateCustomRendererAndDefaultTemplate(t *testing.T) {
	t.Parallel()

	engine, err := template.New(template.WithFS(fstest.MapFS{
		"header.tpl": &fstest.MapFile{Data: []byte("// $typeName unit\n")},
	}))
	if err != nil {
		t.Fatalf("New engine returned error: %v", err)
	}

	doc := accountDocument(t)
	orch := orchestrator.New(
		orchestrator.WithRenderer(engine),
		orchestrator.WithDefaultTemplate("header"),
	)
	out, err := orch.Generate(testsupport.Context(), orchestrator.Request{
		Document: &doc,
		TypeName: "User",
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got := string(out); got != "// User unit\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestGenerateHonoursTemplateHint(t *testing.T) {
	t.Parallel()

	engine, err := template.New(template.WithFS(fstest.MapFS{
		"record.tpl": &fstest.MapFile{Data: []byte("record $typeName\n")},
	}))
	if err != nil {
		t.Fatalf("New engine returned error: %v", err)
	}

	const hinted = `types:
  Order:
    extensions:
      template: record
    fields:
      ID: {type: int64}
`
	doc := shape.MustNewDocument(shape.SourceFromFS("orders.yaml"), []byte(hinted))
	out, err := orchestrator.New(orchestrator.WithRenderer(engine)).Generate(testsupport.Context(), orchestrator.Request{
		Document: &doc,
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if got := string(out); got != "record Order\n" {
		t.Fatalf("output = %q", got)
	}
}

type failingParser struct {
	err error
}

func (p failingParser) Shapes(context.Context, shape.Document) (map[string]shape.TypeShape, error) {
	return nil, p.err
}

func TestGenerateWrapsParserErrors(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")
	doc := accountDocument(t)
	orch := orchestrator.New(orchestrator.WithParser(failingParser{err: cause}))

	_, err := orch.Generate(testsupport.Context(), orchestrator.Request{Document: &doc})
	if err == nil || !strings.Contains(err.Error(), "parse shapes") {
		t.Fatalf("error = %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestTemplatesFSListsBuiltins(t *testing.T) {
	t.Parallel()

	engine, err := template.New(template.WithFS(orchestrator.TemplatesFS()))
	if err != nil {
		t.Fatalf("New engine returned error: %v", err)
	}
	names, err := engine.Names()
	if err != nil {
		t.Fatalf("Names returned error: %v", err)
	}
	want := []string{"alias", "enum", "struct"}
	if diff := testsupport.CompareGolden(want, names); diff != "" {
		t.Fatalf("builtin templates mismatch (-want +got):\n%s", diff)
	}
}
