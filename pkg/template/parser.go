package template

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Parser consumes template source through a cursor and produces a
// Template. A Parser is single use: construct one per source and call
// Parse exactly once. The source reader is read to completion and never
// closed; its lifecycle stays with the caller.
//
// The grammar, informally:
//
//	template      := node*
//	node          := directive | reference | plain_text
//	plain_text    := (char not in {'$','#'})+
//	directive     := '#' '#' comment_to_eol
//	reference     := '$' ( '{' ref_body '}' | ref_body )
//	ref_body      := identifier suffix*
//	suffix        := '.' identifier ( '(' arg_list ')' )?
//	              |  '[' expression ']'
//	arg_list      := (expression (',' expression)*)?
//	expression    := reference | string_lit | int_lit | bool_lit
//
// A '##' comment is discarded through its terminating newline. Any other
// '#' is an unsupported directive and fails the parse.
type Parser struct {
	cur  *cursor
	text strings.Builder // pending plain text, flushed before each reference
	used bool
}

// NewParser prepares a parser over the given source.
func NewParser(r io.Reader) *Parser {
	return &Parser{cur: newCursor(r)}
}

// Parse reads source to completion and returns the parsed Template, or
// the first ParseError encountered. There is no error recovery and no
// partial result.
func Parse(r io.Reader) (*Template, error) {
	return NewParser(r).Parse()
}

// ParseString parses template source held in a string.
func ParseString(src string) (*Template, error) {
	return Parse(strings.NewReader(src))
}

// MustParseString parses template source and panics on error. Intended
// for fixed templates known at compile time.
func MustParseString(src string) *Template {
	tpl, err := ParseString(src)
	if err != nil {
		panic(err)
	}
	return tpl
}

// Parse consumes the whole source and builds the node sequence.
func (p *Parser) Parse() (*Template, error) {
	if p.used {
		return nil, errors.New("template: parser already consumed its source")
	}
	p.used = true

	var nodes []Node
	for p.cur.ch != eof {
		switch p.cur.ch {
		case '$':
			p.cur.advance()
			if p.cur.ch != '{' && !isIdentStart(p.cur.ch) {
				// not a reference: the dollar is plain text
				p.text.WriteRune('$')
				continue
			}
			nodes = p.flush(nodes)
			ref, err := p.parseReference()
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, &RefNode{Ref: ref})
		case '#':
			p.cur.advance()
			if p.cur.ch != '#' {
				return nil, p.cur.errorf("directive not supported")
			}
			p.skipComment()
		default:
			p.text.WriteRune(p.cur.ch)
			p.cur.advance()
		}
	}
	nodes = p.flush(nodes)
	if perr := p.cur.readErr(); perr != nil {
		return nil, perr
	}
	nodes = append(nodes, eofNode{})
	return &Template{nodes: nodes}, nil
}

// flush moves pending plain text into its own node.
func (p *Parser) flush(nodes []Node) []Node {
	if p.text.Len() > 0 {
		nodes = append(nodes, &TextNode{Text: p.text.String()})
		p.text.Reset()
	}
	return nodes
}

// skipComment discards a ## comment through its terminating newline. The
// cursor sits on the second '#'.
func (p *Parser) skipComment() {
	for p.cur.ch != '\n' && p.cur.ch != eof {
		p.cur.advance()
	}
	p.cur.advance()
}

// parseReference parses a reference at the top level of template text.
// The leading '$' is consumed; the cursor sits on '{' or an identifier
// start. $x and ${x} build the same chain; the brace form only marks
// where the name ends.
func (p *Parser) parseReference() (Reference, error) {
	if p.cur.ch == '{' {
		p.cur.advanceSkipSpace()
		ref, err := p.parseRefBody(false)
		if err != nil {
			return nil, err
		}
		if err := p.cur.expect('}'); err != nil {
			return nil, err
		}
		return ref, nil
	}
	return p.parseRefBody(true)
}

// parseRefBody parses an identifier and its suffix chain. bare marks a
// reference written without braces directly in template text.
func (p *Parser) parseRefBody(bare bool) (Reference, error) {
	name, err := p.parseIdentifier()
	if err != nil {
		return nil, err
	}
	return p.parseSuffixes(&PlainRef{Name: name}, bare)
}

// parseSuffixes extends ref with member, method, and index suffixes,
// folding left so that $a.b[0].c nests as ((a.b)[0]).c. In the bare form
// a '.' that does not start a member access is prose and folds back into
// plain text, which keeps the cursor free of pushback.
func (p *Parser) parseSuffixes(ref Reference, bare bool) (Reference, error) {
	for {
		switch p.cur.ch {
		case '.':
			p.cur.advance()
			if !isIdentStart(p.cur.ch) {
				if bare {
					p.text.WriteRune('.')
					return ref, nil
				}
				return nil, p.cur.errorf("expected member name after '.'")
			}
			name, err := p.parseIdentifier()
			if err != nil {
				return nil, err
			}
			if p.cur.ch == '(' {
				args, err := p.parseArgs()
				if err != nil {
					return nil, err
				}
				ref = &MethodRef{LHS: ref, Name: name, Args: args}
				continue
			}
			ref = &MemberRef{LHS: ref, Name: name}
		case '[':
			p.cur.advanceSkipSpace()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if err := p.cur.expect(']'); err != nil {
				return nil, err
			}
			ref = &IndexRef{LHS: ref, Index: index}
		default:
			return ref, nil
		}
	}
}

// parseArgs parses a parenthesized, possibly empty argument list. The
// cursor sits on '('.
func (p *Parser) parseArgs() ([]Expr, error) {
	p.cur.advanceSkipSpace()
	if p.cur.ch == ')' {
		p.cur.advance()
		return nil, nil
	}
	var args []Expr
	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		p.cur.skipSpace()
		if p.cur.ch != ',' {
			break
		}
		p.cur.advanceSkipSpace()
	}
	if err := p.cur.expect(')'); err != nil {
		return nil, err
	}
	return args, nil
}

// parseExpression parses a method argument or index expression: a nested
// reference, a string or integer literal, or the identifiers true and
// false. Any other bare identifier fails the parse.
func (p *Parser) parseExpression() (Expr, error) {
	switch {
	case p.cur.ch == '$':
		p.cur.advance()
		if p.cur.ch == '{' {
			p.cur.advanceSkipSpace()
			ref, err := p.parseRefBody(false)
			if err != nil {
				return nil, err
			}
			if err := p.cur.expect('}'); err != nil {
				return nil, err
			}
			return ref, nil
		}
		if !isIdentStart(p.cur.ch) {
			return nil, p.cur.errorf("expected identifier after '$'")
		}
		return p.parseRefBody(false)
	case p.cur.ch == '"':
		return p.parseStringLit()
	case p.cur.ch == '-' || isDigit(p.cur.ch):
		return p.parseIntLit()
	case isIdentStart(p.cur.ch):
		name, err := p.parseIdentifier()
		if err != nil {
			return nil, err
		}
		switch name {
		case "true":
			return &BoolLit{Value: true}, nil
		case "false":
			return &BoolLit{Value: false}, nil
		}
		return nil, p.cur.errorf("identifier %q must be preceded by '$' or be true or false", name)
	default:
		return nil, p.cur.errorf("expected expression")
	}
}

// parseStringLit parses a double-quoted string literal. Escape sequences
// and embedded references raise a ParseError instead of being guessed at.
func (p *Parser) parseStringLit() (Expr, error) {
	p.cur.advance()
	var b strings.Builder
	for {
		switch p.cur.ch {
		case '"':
			p.cur.advance()
			return &StringLit{Value: b.String()}, nil
		case '$', '\\':
			return nil, p.cur.errorf("%q in string literals not currently supported", p.cur.ch)
		case eof:
			return nil, p.cur.errorf("unterminated string literal")
		}
		b.WriteRune(p.cur.ch)
		p.cur.advance()
	}
}

// parseIntLit parses an integer literal. A leading '-' belongs to the
// literal; the value must fit in an int64.
func (p *Parser) parseIntLit() (Expr, error) {
	var b strings.Builder
	if p.cur.ch == '-' {
		b.WriteRune('-')
		p.cur.advance()
	}
	if !isDigit(p.cur.ch) {
		return nil, p.cur.errorf("expected digit after '-'")
	}
	for isDigit(p.cur.ch) {
		b.WriteRune(p.cur.ch)
		p.cur.advance()
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return nil, p.cur.errorf("integer literal %s out of range", b.String())
	}
	return &IntLit{Value: n}, nil
}

// parseIdentifier reads a letter followed by letters, digits, and
// underscores.
func (p *Parser) parseIdentifier() (string, error) {
	if !isIdentStart(p.cur.ch) {
		return "", p.cur.errorf("expected identifier")
	}
	var b strings.Builder
	for isIdentPart(p.cur.ch) {
		b.WriteRune(p.cur.ch)
		p.cur.advance()
	}
	return b.String(), nil
}

func isIdentStart(ch rune) bool { return unicode.IsLetter(ch) }

func isIdentPart(ch rune) bool {
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

func isDigit(ch rune) bool { return ch >= '0' && ch <= '9' }
