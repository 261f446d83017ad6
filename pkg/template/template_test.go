package template

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
)

// render parses src and renders it against values, failing the test on
// any error.
func render(t *testing.T, src string, values map[string]any) string {
	t.Helper()

	tpl, err := ParseString(src)
	if err != nil {
		t.Fatalf("ParseString(%q) returned error: %v", src, err)
	}
	out, err := tpl.Render(NewContext(values))
	if err != nil {
		t.Fatalf("Render(%q) returned error: %v", src, err)
	}
	return out
}

func TestRenderHelloWorld(t *testing.T) {
	t.Parallel()

	out := render(t, "Hello, $name!", map[string]any{"name": "World"})
	if out != "Hello, World!" {
		t.Fatalf("out = %q", out)
	}
}

func TestRenderCommentElision(t *testing.T) {
	t.Parallel()

	out := render(t, "A## comment\nB", nil)
	if out != "AB" {
		t.Fatalf("out = %q, want %q", out, "AB")
	}
}

func TestRenderTextAndCommentsOnly(t *testing.T) {
	t.Parallel()

	src := "alpha\n## one\nbeta ## two\ngamma $ 5\n"
	out := render(t, src, nil)
	want := "alpha\nbeta gamma $ 5\n"
	if out != want {
		t.Fatalf("out = %q, want %q", out, want)
	}
}

func TestRenderUndefinedVariable(t *testing.T) {
	t.Parallel()

	tpl, err := ParseString("$missing")
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	out, err := tpl.Render(NewContext(nil))
	if err == nil {
		t.Fatalf("render succeeded with %q, want error", out)
	}
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("error is %T, want *EvalError", err)
	}
	if evalErr.Kind != EvalUndefinedVariable || evalErr.Name != "missing" {
		t.Fatalf("kind = %v name = %q", evalErr.Kind, evalErr.Name)
	}
}

func TestRenderEmptyListIndex(t *testing.T) {
	t.Parallel()

	tpl, err := ParseString("$list[0]")
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	out, err := tpl.Render(NewContext(map[string]any{"list": []any{}}))
	if err == nil {
		t.Fatalf("render succeeded with %q, want error", out)
	}
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("error is %T, want *EvalError", err)
	}
	if evalErr.Kind != EvalBadIndex {
		t.Fatalf("kind = %v", evalErr.Kind)
	}
}

func TestRenderSuffixChains(t *testing.T) {
	t.Parallel()

	p := person{Name: "ada", Tags: []string{"x", "y"}}
	values := map[string]any{
		"p":     p,
		"pick":  1,
		"byKey": map[string]any{"inner": []string{"deep"}},
	}

	out := render(t, `$p.Name is $p.Title, tags $p.Join("-", "z")`, values)
	if out != "ada is ADA, tags x-y-z" {
		t.Fatalf("out = %q", out)
	}

	out = render(t, "$p.Tags[$pick]/$byKey["+`"inner"`+"][0]", values)
	if out != "y/deep" {
		t.Fatalf("out = %q", out)
	}
}

type loud string

func (l loud) String() string { return strings.ToUpper(string(l)) }

func TestRenderNaturalTextForms(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"n":   42,
		"neg": int64(-17),
		"b":   true,
		"f":   1.5,
		"s":   loud("quiet"),
		"raw": []byte("bytes"),
	}
	out := render(t, "$n $neg $b $f $s $raw", values)
	if out != "42 -17 true 1.5 QUIET bytes" {
		t.Fatalf("out = %q", out)
	}
}

func TestRenderNilValueFails(t *testing.T) {
	t.Parallel()

	tpl, err := ParseString("$gone")
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}

	// bound to nil: defined, but unprintable
	_, err = tpl.Render(NewContext(map[string]any{"gone": nil}))
	var evalErr *EvalError
	if !errors.As(err, &evalErr) {
		t.Fatalf("error is %T, want *EvalError: %v", err, err)
	}
	if evalErr.Kind != EvalNilValue || evalErr.Name != "$gone" {
		t.Fatalf("kind = %v name = %q", evalErr.Kind, evalErr.Name)
	}

	// a typed nil pointer is just as absent
	_, err = tpl.Render(NewContext(map[string]any{"gone": (*person)(nil)}))
	if !errors.As(err, &evalErr) {
		t.Fatalf("error is %T, want *EvalError: %v", err, err)
	}
	if evalErr.Kind != EvalNilValue {
		t.Fatalf("kind = %v", evalErr.Kind)
	}
}

func TestRenderDiscardsOutputOnFailure(t *testing.T) {
	t.Parallel()

	tpl, err := ParseString("prefix $bad suffix")
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}
	out, err := tpl.Render(NewContext(nil))
	if err == nil {
		t.Fatal("expected error")
	}
	if out != "" {
		t.Fatalf("out = %q, want empty", out)
	}
}

func TestExecuteWritesOnlyOnSuccess(t *testing.T) {
	t.Parallel()

	tpl, err := ParseString("value: $v")
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, NewContext(map[string]any{"v": 7})); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if buf.String() != "value: 7" {
		t.Fatalf("buf = %q", buf.String())
	}

	buf.Reset()
	if err := tpl.Execute(&buf, NewContext(nil)); err == nil {
		t.Fatal("expected error")
	}
	if buf.Len() != 0 {
		t.Fatalf("buf = %q, want nothing written", buf.String())
	}
}

func TestRenderConcurrently(t *testing.T) {
	t.Parallel()

	tpl, err := ParseString("unit $n of $total")
	if err != nil {
		t.Fatalf("ParseString returned error: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				out, err := tpl.Render(NewContext(map[string]any{"n": n, "total": 8}))
				if err != nil {
					t.Errorf("render failed: %v", err)
					return
				}
				if want := fmt.Sprintf("unit %d of 8", n); out != want {
					t.Errorf("out = %q, want %q", out, want)
					return
				}
			}
		}(i)
	}
	wg.Wait()
}
