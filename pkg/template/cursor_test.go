package template

import (
	"errors"
	"strings"
	"testing"
)

func TestCursorAdvanceTracksLines(t *testing.T) {
	t.Parallel()

	c := newCursor(strings.NewReader("a\nb\nc"))

	if c.ch != 'a' || c.line != 1 {
		t.Fatalf("start: ch=%q line=%d", c.ch, c.line)
	}
	c.advance()
	if c.ch != '\n' || c.line != 1 {
		t.Fatalf("after a: ch=%q line=%d", c.ch, c.line)
	}
	c.advance()
	if c.ch != 'b' || c.line != 2 {
		t.Fatalf("after newline: ch=%q line=%d", c.ch, c.line)
	}
	c.advance()
	c.advance()
	if c.ch != 'c' || c.line != 3 {
		t.Fatalf("at c: ch=%q line=%d", c.ch, c.line)
	}
	c.advance()
	if c.ch != eof {
		t.Fatalf("expected eof, got %q", c.ch)
	}

	// advancing past EOF stays put
	c.advance()
	c.advance()
	if c.ch != eof || c.line != 3 {
		t.Fatalf("eof advance moved: ch=%q line=%d", c.ch, c.line)
	}
}

func TestCursorSkipSpace(t *testing.T) {
	t.Parallel()

	c := newCursor(strings.NewReader("  \t\n  x"))
	c.skipSpace()
	if c.ch != 'x' || c.line != 2 {
		t.Fatalf("ch=%q line=%d", c.ch, c.line)
	}

	c = newCursor(strings.NewReader("ab"))
	c.advanceSkipSpace()
	if c.ch != 'b' {
		t.Fatalf("advanceSkipSpace without whitespace: ch=%q", c.ch)
	}
}

func TestCursorExpect(t *testing.T) {
	t.Parallel()

	c := newCursor(strings.NewReader("  }rest"))
	if err := c.expect('}'); err != nil {
		t.Fatalf("expect returned error: %v", err)
	}
	if c.ch != 'r' {
		t.Fatalf("ch=%q", c.ch)
	}

	c = newCursor(strings.NewReader("x"))
	err := c.expect('}')
	if err == nil {
		t.Fatal("expected error")
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ParseError, got %T", err)
	}
	if perr.Line != 1 || perr.Context != "x" {
		t.Fatalf("line=%d context=%q", perr.Line, perr.Context)
	}
}

func TestCursorContextSnippet(t *testing.T) {
	t.Parallel()

	c := newCursor(strings.NewReader("abcdefghijklmnopqrstuvwxyz"))
	if got, want := c.context(), "abcdefghijklmnopqrst..."; got != want {
		t.Fatalf("context = %q, want %q", got, want)
	}

	c = newCursor(strings.NewReader("short"))
	if got := c.context(); got != "short" {
		t.Fatalf("context = %q", got)
	}

	c = newCursor(strings.NewReader(""))
	if got := c.context(); got != "EOF" {
		t.Fatalf("context = %q", got)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk unplugged")
}

func TestCursorReadFailure(t *testing.T) {
	t.Parallel()

	c := newCursor(failingReader{})
	if c.ch != eof {
		t.Fatalf("ch=%q", c.ch)
	}
	perr := c.readErr()
	if perr == nil {
		t.Fatal("expected read error")
	}
	if !strings.Contains(perr.Msg, "disk unplugged") {
		t.Fatalf("msg=%q", perr.Msg)
	}
	if perr.Context != "EOF" {
		t.Fatalf("context=%q", perr.Context)
	}
}
