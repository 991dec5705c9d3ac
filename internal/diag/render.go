package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/oberon-fe/oberonc/internal/position"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBold   = "\x1b[1m"
	ansiReset  = "\x1b[0m"
)

// colorEnabled reports whether stderr is a real terminal, the same check
// the teacher's builtins_term.go uses for termIsTTY/color output.
func colorEnabled() bool {
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Render formats d as "file:line:col: severity [code] message" followed by
// the offending source line and a caret under the column, the way spec.md
// §6 requires. idx must be the position.Index for d.Place.File.
func Render(idx *position.Index, d *Diagnostic, color bool) string {
	lc := idx.LineCol(d.Place.Index)
	head := fmt.Sprintf("%s:%d:%d: %s [%s] %s", d.Place.File, lc.Line, lc.Column, d.Severity, d.Code, d.Message)
	if color {
		tag := ansiRed
		if d.Severity == Warning {
			tag = ansiYellow
		}
		head = tag + ansiBold + head + ansiReset
	}
	line := idx.GetLine(d.Place)
	col := lc.Column
	if col < 1 {
		col = 1
	}
	caretPad := col - 1
	if caretPad > len(line) {
		caretPad = len(line)
	}
	caret := strings.Repeat(" ", caretPad) + "^"
	return head + "\n" + line + "\n" + caret
}

// RenderAll renders every diagnostic in b against its own file's index,
// looking up each file's Index lazily via indexOf.
func RenderAll(b *Bag, indexOf func(file string) *position.Index) string {
	color := colorEnabled()
	var out []string
	for _, d := range b.Items() {
		idx := indexOf(d.Place.File)
		if idx == nil {
			out = append(out, d.Error())
			continue
		}
		out = append(out, Render(idx, d, color))
	}
	return strings.Join(out, "\n\n")
}
