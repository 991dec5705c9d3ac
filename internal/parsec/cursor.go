// Package parsec is a composable, backtracking, position-tracking parser
// combinator runtime. Parsers are first-class values: a Parser[T] consumes a
// *Cursor and either returns (value, true) or (zero, false), recording the
// best failure seen so far on the cursor's single-slot error buffer.
//
// The distinguishing feature is the "no-return point": once a grammar rule
// calls NoReturn after an unambiguous keyword, later failures can no longer
// rewind the cursor past that point. They become undroppable and propagate
// to the top of the parse instead of being silently backtracked, which is
// what turns exponential-backtracking ambiguity into a single linear parse
// with good error messages.
package parsec

import "github.com/oberon-fe/oberonc/internal/position"

// Cursor is an input cursor over one file's in-memory source.
type Cursor struct {
	file        string
	src         string
	pos         int
	noReturn    int
	undroppable bool
	lastErr     ParseError
}

// NewCursor builds a cursor positioned at the start of src.
func NewCursor(file, src string) *Cursor {
	return &Cursor{file: file, src: src}
}

// File returns the name of the file this cursor scans.
func (c *Cursor) File() string { return c.file }

// Len returns the number of bytes remaining.
func (c *Cursor) Len() int { return len(c.src) - c.pos }

// Peek returns the current byte without consuming it.
func (c *Cursor) Peek() (byte, bool) {
	if c.pos >= len(c.src) {
		return 0, false
	}
	return c.src[c.pos], true
}

// PeekAt returns the byte offset bytes ahead of the current position.
func (c *Cursor) PeekAt(offset int) (byte, bool) {
	i := c.pos + offset
	if i < 0 || i >= len(c.src) {
		return 0, false
	}
	return c.src[i], true
}

// Get consumes and returns the current byte.
func (c *Cursor) Get() (byte, bool) {
	b, ok := c.Peek()
	if !ok {
		return 0, false
	}
	c.pos++
	return b, true
}

// GetN consumes and returns the next n bytes, or fails (without consuming
// anything) if fewer than n bytes remain.
func (c *Cursor) GetN(n int) (string, bool) {
	if c.pos+n > len(c.src) {
		return "", false
	}
	s := c.src[c.pos : c.pos+n]
	c.pos += n
	return s, true
}

// AtEOF reports whether the cursor has consumed the entire source.
func (c *Cursor) AtEOF() bool { return c.pos >= len(c.src) }

// Place returns the cursor's current position as a stable CodePlace.
func (c *Cursor) Place() position.CodePlace {
	return position.CodePlace{File: c.file, Index: c.pos}
}

// PlaceAt returns the CodePlace for an arbitrary byte index in this file.
func (c *Cursor) PlaceAt(index int) position.CodePlace {
	return position.CodePlace{File: c.file, Index: index}
}

// moveTo forcibly repositions the cursor. Only BreakPoint and the top-level
// driver call this; combinators never reposition the cursor directly.
func (c *Cursor) moveTo(index int) { c.pos = index }

// CanMoveTo reports whether index is at or after the current no-return
// point; a no-return point blocks rewinding to anything before it.
func (c *Cursor) CanMoveTo(index int) bool { return index >= c.noReturn }

// SetNoReturnPoint commits the cursor: nothing at or before the current
// position can be rewound to from here on. The point only ever moves
// forward.
func (c *Cursor) SetNoReturnPoint() {
	if c.pos > c.noReturn {
		c.noReturn = c.pos
	}
}

// NoReturnPoint returns the current no-return point, for tests.
func (c *Cursor) NoReturnPoint() int { return c.noReturn }

// SetUndroppableError marks the parse as having escaped a committed point;
// it can never be cleared within this parse.
func (c *Cursor) SetUndroppableError() { c.undroppable = true }

// HasUndroppableError reports whether an unrecoverable error has occurred.
func (c *Cursor) HasUndroppableError() bool { return c.undroppable }

// LastError returns the deepest recorded failure.
func (c *Cursor) LastError() ParseError { return c.lastErr }

// fail records a droppable failure for expected at the cursor's current
// position, per the merge-at-equal-index, replace-at-deeper-index rule.
func (c *Cursor) fail(expected string) {
	c.recordFailure(c.pos, expected, KindDroppable)
}

// Fail lets callers outside this package (grammar productions built from
// raw cursor access rather than the symbol/predicate combinators) record a
// droppable expected-failure at the current position.
func (c *Cursor) Fail(expected string) { c.fail(expected) }

// failUndroppable records an unrecoverable failure and sets the flag.
func (c *Cursor) failUndroppable(expected string) {
	c.recordFailure(c.pos, expected, KindUndroppable)
	c.undroppable = true
}

func (c *Cursor) recordFailure(index int, expected string, kind ErrorKind) {
	switch {
	case c.lastErr.empty() || index > c.lastErr.Place.Index:
		c.lastErr = ParseError{
			Place:    c.PlaceAt(index),
			Expected: []string{expected},
			Kind:     kind,
		}
	case index == c.lastErr.Place.Index:
		if !containsString(c.lastErr.Expected, expected) {
			c.lastErr.Expected = append(c.lastErr.Expected, expected)
		}
		if kind > c.lastErr.Kind {
			c.lastErr.Kind = kind
		}
	default:
		// A failure at an earlier index than the best-known one never wins.
	}
}
