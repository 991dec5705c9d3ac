package parsec

import (
	"fmt"
	"strings"

	"github.com/oberon-fe/oberonc/internal/position"
)

// ErrorKind classifies a recorded parse failure. The kind of the slot at a
// given index only ever upgrades towards Undroppable, never back down.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindDroppable
	KindUndroppable
)

// ParseError is the single best (deepest) failure seen during a parse: a
// position plus the set of things that would have been accepted there.
type ParseError struct {
	Place    position.CodePlace
	Expected []string
	Kind     ErrorKind
}

func (e ParseError) empty() bool { return e.Kind == KindNone }

// Message renders spec.md §6's parse-error text, "Expected ( alt1 or alt2 )
// , found X". found is the offending token text (or "end of input"), which
// the caller slices from its own copy of the source since ParseError itself
// only carries a position.
func (e ParseError) Message(found string) string {
	if len(e.Expected) == 1 {
		return fmt.Sprintf("Expected %s, found %s", e.Expected[0], found)
	}
	return fmt.Sprintf("Expected ( %s ), found %s", strings.Join(e.Expected, " or "), found)
}

func containsString(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
