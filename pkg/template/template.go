package template

import (
	"fmt"
	"io"
	"reflect"
	"strings"
)

// Template is the immutable parsed form of a template source: literal
// text spans interleaved with references. A Template never changes after
// Parse, so it is safe to render concurrently as long as each call brings
// its own Context.
type Template struct {
	nodes []Node
}

// Render evaluates the template against ctx in a single left-to-right
// pass and returns the output. On the first evaluation failure the
// accumulated output is discarded and only the error is returned.
func (t *Template) Render(ctx *Context) (string, error) {
	var b strings.Builder
	for _, node := range t.nodes {
		switch n := node.(type) {
		case *TextNode:
			b.WriteString(n.Text)
		case *RefNode:
			value, err := evalRef(n.Ref, ctx)
			if err != nil {
				return "", err
			}
			text, err := stringify(n.Ref, value)
			if err != nil {
				return "", err
			}
			b.WriteString(text)
		}
	}
	return b.String(), nil
}

// Execute renders into w. Nothing is written unless the whole render
// succeeded.
func (t *Template) Execute(w io.Writer, ctx *Context) error {
	out, err := t.Render(ctx)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// stringify converts an evaluated reference value to its textual form.
// fmt.Stringer is honored; nil is an evaluation error rather than an
// empty substitution.
func stringify(ref Reference, value any) (string, error) {
	if value == nil {
		return "", &EvalError{Kind: EvalNilValue, Name: ref.String()}
	}
	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "", &EvalError{Kind: EvalNilValue, Name: ref.String()}
	}
	switch v := value.(type) {
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	case []byte:
		return string(v), nil
	case error:
		return v.Error(), nil
	}
	return fmt.Sprintf("%v", value), nil
}
