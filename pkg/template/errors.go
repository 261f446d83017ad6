package template

import "fmt"

// ParseError reports the first grammar violation found while parsing
// template source. Parsing stops there; no Template is produced.
type ParseError struct {
	// Msg describes the violation.
	Msg string
	// Line is the 1-based source line the parser was on.
	Line int
	// Context is the upcoming source text at the point of failure, capped
	// at twenty characters with a trailing "..." when truncated, or the
	// literal "EOF" at end of input.
	Context string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("template: line %d: %s (at %q)", e.Line, e.Msg, e.Context)
}

// EvalErrorKind classifies a render-time evaluation failure.
type EvalErrorKind int

const (
	// EvalUndefinedVariable reports a base variable with no binding in the
	// render context.
	EvalUndefinedVariable EvalErrorKind = iota
	// EvalNoSuchMember reports a member access the receiver cannot satisfy.
	EvalNoSuchMember
	// EvalNoSuchMethod reports a method the receiver does not expose with
	// a matching name and argument list.
	EvalNoSuchMethod
	// EvalBadIndex reports an index or key the receiver cannot resolve.
	EvalBadIndex
	// EvalNilValue reports a reference that evaluated to nil where a
	// printable value was required.
	EvalNilValue
	// EvalCallFailed reports a method call that returned a non-nil error.
	EvalCallFailed
)

func (k EvalErrorKind) String() string {
	switch k {
	case EvalUndefinedVariable:
		return "undefined variable"
	case EvalNoSuchMember:
		return "no such member"
	case EvalNoSuchMethod:
		return "no such method"
	case EvalBadIndex:
		return "bad index"
	case EvalNilValue:
		return "nil value"
	case EvalCallFailed:
		return "call failed"
	}
	return "evaluation error"
}

// EvalError reports a failure to evaluate a reference during a render
// call. The render aborts and any accumulated output is discarded.
type EvalError struct {
	// Kind classifies the failure.
	Kind EvalErrorKind
	// Name is the variable, member, or method name involved, the index
	// text for EvalBadIndex, or the full reference for EvalNilValue.
	Name string
	// Receiver names the Go type the access was applied to, when one was
	// involved.
	Receiver string
	// Err is the underlying error for EvalCallFailed.
	Err error
}

func (e *EvalError) Error() string {
	switch e.Kind {
	case EvalUndefinedVariable:
		return fmt.Sprintf("template: undefined variable %q", e.Name)
	case EvalNoSuchMember:
		return fmt.Sprintf("template: no member %q on %s", e.Name, e.Receiver)
	case EvalNoSuchMethod:
		return fmt.Sprintf("template: no method %q on %s matching the call", e.Name, e.Receiver)
	case EvalBadIndex:
		return fmt.Sprintf("template: cannot resolve index %s on %s", e.Name, e.Receiver)
	case EvalNilValue:
		return fmt.Sprintf("template: reference %s evaluated to nil", e.Name)
	case EvalCallFailed:
		return fmt.Sprintf("template: method %q on %s failed: %v", e.Name, e.Receiver, e.Err)
	}
	return fmt.Sprintf("template: evaluation failed for %q", e.Name)
}

// Unwrap exposes the underlying method error for errors.Is and errors.As.
func (e *EvalError) Unwrap() error { return e.Err }
