package template

import (
	"strconv"
	"strings"
)

// Node is a single parsed element of a template: a literal text span or a
// reference resolved at render time. The parser terminates every node
// sequence with an internal end-of-input sentinel that never renders.
type Node interface {
	node()
}

// TextNode holds a literal span of template text, emitted verbatim.
type TextNode struct {
	Text string
}

// RefNode holds a reference evaluated against the render context.
type RefNode struct {
	Ref Reference
}

// eofNode terminates every parsed node sequence.
type eofNode struct{}

func (*TextNode) node() {}
func (*RefNode) node()  {}
func (eofNode) node()   {}

// Expr is an expression usable as a method argument or index: a reference
// or a literal constant.
type Expr interface {
	expr()
	String() string
}

// Reference is a chain of accesses rooted at a plain variable: the base
// name, then member, method, and index suffixes applied left to right.
// Each link owns its left-hand side exclusively, so chains form trees and
// are never cyclic.
type Reference interface {
	Expr
	ref()
}

// PlainRef is the base of every chain: a bare variable name.
type PlainRef struct {
	Name string
}

// MemberRef selects a named member of the value produced by LHS.
type MemberRef struct {
	LHS  Reference
	Name string
}

// MethodRef calls a named method on the value produced by LHS.
type MethodRef struct {
	LHS  Reference
	Name string
	Args []Expr
}

// IndexRef indexes the value produced by LHS by position or key.
type IndexRef struct {
	LHS   Reference
	Index Expr
}

// StringLit is a double-quoted string constant.
type StringLit struct {
	Value string
}

// IntLit is a 64-bit integer constant. A leading '-' belongs to the
// literal, it is not a negation operator.
type IntLit struct {
	Value int64
}

// BoolLit is the constant true or false.
type BoolLit struct {
	Value bool
}

func (*PlainRef) expr()  {}
func (*MemberRef) expr() {}
func (*MethodRef) expr() {}
func (*IndexRef) expr()  {}
func (*StringLit) expr() {}
func (*IntLit) expr()    {}
func (*BoolLit) expr()   {}

func (*PlainRef) ref()  {}
func (*MemberRef) ref() {}
func (*MethodRef) ref() {}
func (*IndexRef) ref()  {}

// String renders the reference in source form, with the leading '$' on
// the base variable only.
func (r *PlainRef) String() string { return "$" + r.Name }

func (r *MemberRef) String() string { return r.LHS.String() + "." + r.Name }

func (r *MethodRef) String() string {
	var b strings.Builder
	b.WriteString(r.LHS.String())
	b.WriteByte('.')
	b.WriteString(r.Name)
	b.WriteByte('(')
	for i, arg := range r.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(arg.String())
	}
	b.WriteByte(')')
	return b.String()
}

func (r *IndexRef) String() string {
	return r.LHS.String() + "[" + r.Index.String() + "]"
}

func (l *StringLit) String() string { return strconv.Quote(l.Value) }

func (l *IntLit) String() string { return strconv.FormatInt(l.Value, 10) }

func (l *BoolLit) String() string { return strconv.FormatBool(l.Value) }
