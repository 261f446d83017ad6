package template

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// eof is the cursor's end-of-input sentinel.
const eof = rune(-1)

// snippetRunes caps the forward context included in parse errors.
const snippetRunes = 20

// cursor is a one-rune-lookahead scanner over template source. It tracks
// a 1-based line number and never pushes back: ch always holds the next
// unconsumed rune and advance is the sole mutator of stream position.
type cursor struct {
	r    *bufio.Reader
	ch   rune
	line int
	err  error // first non-EOF read failure
}

func newCursor(r io.Reader) *cursor {
	c := &cursor{r: bufio.NewReader(r), line: 1}
	c.load()
	return c
}

// advance consumes the current rune and loads the next, or the EOF
// sentinel. At EOF it is a no-op.
func (c *cursor) advance() {
	if c.ch == eof {
		return
	}
	if c.ch == '\n' {
		c.line++
	}
	c.load()
}

func (c *cursor) load() {
	ch, _, err := c.r.ReadRune()
	if err != nil {
		if err != io.EOF {
			c.err = err
		}
		c.ch = eof
		return
	}
	c.ch = ch
}

// skipSpace advances past spaces, tabs, carriage returns, and newlines.
func (c *cursor) skipSpace() {
	for c.ch == ' ' || c.ch == '\t' || c.ch == '\r' || c.ch == '\n' {
		c.advance()
	}
}

// advanceSkipSpace consumes the current rune and any whitespace after it.
func (c *cursor) advanceSkipSpace() {
	c.advance()
	c.skipSpace()
}

// expect skips whitespace, then consumes want or fails with a ParseError.
func (c *cursor) expect(want rune) error {
	c.skipSpace()
	if c.ch != want {
		return c.errorf("expected %q", want)
	}
	c.advance()
	return nil
}

// context returns the upcoming source for diagnostics: the current rune
// plus what the reader can show without consuming it, capped at
// snippetRunes with a trailing "...", or the literal "EOF" at end of
// input.
func (c *cursor) context() string {
	if c.ch == eof {
		return "EOF"
	}
	var b strings.Builder
	b.WriteRune(c.ch)
	peek, _ := c.r.Peek(snippetRunes * utf8.UTFMax)
	n := 1
	for len(peek) > 0 && n < snippetRunes {
		r, size := utf8.DecodeRune(peek)
		if r == utf8.RuneError && size < 2 {
			break
		}
		b.WriteRune(r)
		peek = peek[size:]
		n++
	}
	if len(peek) > 0 {
		b.WriteString("...")
	}
	return b.String()
}

// errorf builds a ParseError at the cursor's current position. A pending
// read failure takes precedence over the grammar message.
func (c *cursor) errorf(format string, args ...any) *ParseError {
	if perr := c.readErr(); perr != nil {
		return perr
	}
	return &ParseError{
		Msg:     fmt.Sprintf(format, args...),
		Line:    c.line,
		Context: c.context(),
	}
}

// readErr surfaces a non-EOF read failure as a ParseError.
func (c *cursor) readErr() *ParseError {
	if c.err == nil {
		return nil
	}
	return &ParseError{
		Msg:     fmt.Sprintf("read template source: %v", c.err),
		Line:    c.line,
		Context: "EOF",
	}
}
