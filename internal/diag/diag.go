// Package diag is the shared diagnostic type used by every stage past
// parsing: the analyzer and the loader both report problems as
// *diag.Diagnostic, collected in a per-file Bag and rendered uniformly.
package diag

import (
	"fmt"

	"github.com/oberon-fe/oberonc/internal/position"
)

// Severity distinguishes a hard error from an advisory warning.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Code identifies a diagnostic's category, independent of its message text.
// "S" codes come from internal/analyzer (semantic checks), "L" codes from
// internal/loader (module resolution).
type Code string

const (
	// Semantic analysis.
	SDuplicateIdent  Code = "S001"
	SUndeclaredIdent Code = "S002"
	STypeMismatch    Code = "S003"
	SNotAType        Code = "S004"
	SNotAValue       Code = "S005"
	SNotAProcedure   Code = "S006"
	SArgCount        Code = "S007"
	SConstExpr       Code = "S008"
	SAssignability   Code = "S009"
	SMultimethod     Code = "S010"
	SRecordExtends   Code = "S011"
	SSelector        Code = "S012"

	// Module loading.
	LNotFound   Code = "L001"
	LCycle      Code = "L002"
	LParse      Code = "L003"
	LDefMissing Code = "L004"
)

// Diagnostic is one reported problem: a severity, a stable code, the
// position it was raised at, and a human-readable message.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Place    position.CodePlace
	Message  string
}

// Error implements the error interface so a Diagnostic can be returned or
// wrapped anywhere ordinary errors are. It reports the raw byte offset since
// a Diagnostic alone has no access to a line index; Render and RenderAll
// produce the file:line:col form shown to users.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s@%d: %s [%s] %s", d.Place.File, d.Place.Index, d.Severity, d.Code, d.Message)
}

// NewError builds an Error-severity diagnostic.
func NewError(code Code, place position.CodePlace, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: Error, Code: code, Place: place, Message: fmt.Sprintf(format, args...)}
}

// NewWarning builds a Warning-severity diagnostic.
func NewWarning(code Code, place position.CodePlace, format string, args ...any) *Diagnostic {
	return &Diagnostic{Severity: Warning, Code: code, Place: place, Message: fmt.Sprintf(format, args...)}
}
