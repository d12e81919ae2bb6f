package diag

import "fmt"

// Severity represents the severity level of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalJSON serializes severity as its lowercase name so JSON output
// matches the text renderer.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// Position is a 1-based line/column location inside one declaration unit.
// The zero value means "no position" (e.g. unit-level errors).
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// IsValid reports whether the position points at actual source text.
func (p Position) IsValid() bool {
	return p.Line > 0
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Diagnostic is a single compiler finding. All pipeline failures are
// reported as diagnostics, never as panics or process exits.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`    // "E101", "W001", etc.
	Unit     string   `json:"unit"`    // declaration unit identifier (filename or logical name)
	Pos      Position `json:"pos"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Pos.IsValid() {
		return fmt.Sprintf("%s:%s: %s[%s]: %s", d.Unit, d.Pos, d.Severity, d.Code, d.Message)
	}
	return fmt.Sprintf("%s: %s[%s]: %s", d.Unit, d.Severity, d.Code, d.Message)
}

// Errorf builds an error-severity diagnostic.
func Errorf(code, unit string, pos Position, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: Error,
		Code:     code,
		Unit:     unit,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warningf builds a warning-severity diagnostic.
func Warningf(code, unit string, pos Position, format string, args ...any) Diagnostic {
	return Diagnostic{
		Severity: Warning,
		Code:     code,
		Unit:     unit,
		Pos:      pos,
		Message:  fmt.Sprintf(format, args...),
	}
}
