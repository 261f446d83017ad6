package binding

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-srcgen/pkg/shape"
	"github.com/goliatone/go-srcgen/pkg/template"
)

func userShape() *shape.TypeShape {
	return &shape.TypeShape{
		Name: "User",
		Kind: shape.KindObject,
		Doc:  "Account holder.",
		Fields: []shape.Field{
			{Name: "ID", Type: "int64", Required: true, Tags: map[string]string{"json": "id"}},
			{Name: "Email", Type: "string", Doc: "Contact address.", Tags: map[string]string{"db": "email_addr", "json": "email"}},
			{Name: "Age", Type: "int"},
		},
	}
}

func TestResolveShapeBindings(t *testing.T) {
	t.Parallel()

	ctx, err := New().Resolve(context.Background(), Request{Shape: userShape()})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	name, ok := ctx.Value("typeName")
	if !ok || name != "User" {
		t.Fatalf("typeName = %v, %v", name, ok)
	}
	if _, ok := ctx.Value("casing"); !ok {
		t.Fatal("expected casing binding")
	}
	fields, ok := ctx.Value("fields")
	if !ok {
		t.Fatal("expected fields binding")
	}
	if got := fields.([]shape.Field); len(got) != 3 {
		t.Fatalf("fields = %+v", got)
	}
}

func TestResolveBindsHints(t *testing.T) {
	t.Parallel()

	hinted := userShape()
	hinted.Extensions = map[string]any{"x-srcgen": map[string]any{"table": "users"}}

	ctx, err := New().Resolve(context.Background(), Request{Shape: hinted})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	out, err := template.MustParseString(`table "$hints["table"]"`).Render(ctx)
	if err != nil {
		t.Fatalf("Render returned error: %v", err)
	}
	if out != `table "users"` {
		t.Fatalf("rendered = %q", out)
	}
}

func TestFieldsDecl(t *testing.T) {
	t.Parallel()

	got := FieldsDecl(userShape().Fields)
	want := "\tID int64 `json:\"id\"`\n" +
		"\t// Contact address.\n" +
		"\tEmail string `db:\"email_addr\" json:\"email\"`\n" +
		"\tAge int"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("fields decl mismatch (-want +got):\n%s", diff)
	}
}

func TestDocComment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		doc  string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Account holder.", "// Account holder.\n"},
		{"First line.\nSecond line.", "// First line.\n// Second line.\n"},
		{"Above.\n\nBelow.", "// Above.\n//\n// Below.\n"},
	}
	for _, tc := range tests {
		if got := DocComment(tc.doc); got != tc.want {
			t.Fatalf("DocComment(%q) = %q, want %q", tc.doc, got, tc.want)
		}
	}
}

func TestEnumDecl(t *testing.T) {
	t.Parallel()

	got := EnumDecl("Role", "string", []string{"admin", "editor"})
	want := "\tRoleAdmin Role = \"admin\"\n\tRoleEditor Role = \"editor\""
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("enum decl mismatch (-want +got):\n%s", diff)
	}

	ports := EnumDecl("Port", "int", []string{"80", "443"})
	if !strings.Contains(ports, "Port80 Port = 80") {
		t.Fatalf("ports decl = %q", ports)
	}
}

func TestResolveRendersThroughTemplate(t *testing.T) {
	t.Parallel()

	ctx, err := New().Resolve(context.Background(), Request{Shape: userShape()})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	tpl, err := template.ParseString("// $typeDoc\ntype $typeName struct {\n$fieldsDecl\n}\n\nfunc ($casing.Receiver($typeName) $typeName) Slug() string { return \"$casing.Snake($typeName)\" }\n")
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	out, err := tpl.Render(ctx)
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	want := "// Account holder.\n" +
		"type User struct {\n" +
		"\tID int64 `json:\"id\"`\n" +
		"\t// Contact address.\n" +
		"\tEmail string `db:\"email_addr\" json:\"email\"`\n" +
		"\tAge int\n" +
		"}\n\n" +
		"func (u User) Slug() string { return \"user\" }\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveValueFilePrecedence(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"a.yaml": {Data: []byte("owner: alpha\nextra: 1\n")},
		"b.json": {Data: []byte(`{"owner": "beta"}`)},
	}
	resolver := New(WithFS(files))

	ctx, err := resolver.Resolve(context.Background(), Request{
		ValueFiles: []string{"a.yaml", "b.json"},
		Values:     map[string]any{"region": "eu"},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	owner, _ := ctx.Value("owner")
	if owner != "beta" {
		t.Fatalf("owner = %v, want later file to win", owner)
	}
	if extra, _ := ctx.Value("extra"); extra != 1 {
		t.Fatalf("extra = %v", extra)
	}
	if region, _ := ctx.Value("region"); region != "eu" {
		t.Fatalf("region = %v", region)
	}
}

func TestResolveCallerValuesWinOverFiles(t *testing.T) {
	t.Parallel()

	files := fstest.MapFS{
		"values.yaml": {Data: []byte("owner: alpha\n")},
	}
	ctx, err := New(WithFS(files)).Resolve(context.Background(), Request{
		ValueFiles: []string{"values.yaml"},
		Values:     map[string]any{"owner": "gamma"},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	owner, _ := ctx.Value("owner")
	if owner != "gamma" {
		t.Fatalf("owner = %v", owner)
	}
}

func TestResolveReservedCollisions(t *testing.T) {
	t.Parallel()

	_, err := New().Resolve(context.Background(), Request{
		Shape:  userShape(),
		Values: map[string]any{"typeName": "Nope"},
	})
	if err == nil || !strings.Contains(err.Error(), `"typeName" collides`) {
		t.Fatalf("err = %v", err)
	}

	files := fstest.MapFS{
		"values.yaml": {Data: []byte("casing: broken\n")},
	}
	_, err = New(WithFS(files)).Resolve(context.Background(), Request{
		ValueFiles: []string{"values.yaml"},
	})
	if err == nil || !strings.Contains(err.Error(), "values.yaml") {
		t.Fatalf("err = %v", err)
	}
}

func TestResolveValueFileErrors(t *testing.T) {
	t.Parallel()

	resolver := New(WithFS(fstest.MapFS{
		"bad.yaml":   {Data: []byte("{{{{")},
		"empty.yaml": {Data: []byte("   \n")},
	}))

	tests := []struct {
		path    string
		wantErr string
	}{
		{"missing.yaml", "read values"},
		{"bad.yaml", "invalid JSON or YAML"},
		{"empty.yaml", "is empty"},
	}
	for _, tc := range tests {
		_, err := resolver.Resolve(context.Background(), Request{ValueFiles: []string{tc.path}})
		if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
			t.Fatalf("Resolve(%s) err = %v, want %q", tc.path, err, tc.wantErr)
		}
	}
}

func TestResolveWithoutShape(t *testing.T) {
	t.Parallel()

	ctx, err := New().Resolve(context.Background(), Request{Values: map[string]any{"year": 2026}})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if year, ok := ctx.Value("year"); !ok || year != 2026 {
		t.Fatalf("year = %v, %v", year, ok)
	}
	if _, ok := ctx.Value("typeName"); ok {
		t.Fatal("typeName should not be bound without a shape")
	}
}
