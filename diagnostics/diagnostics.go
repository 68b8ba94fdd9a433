// Package diagnostics defines the shared error/warning representation
// produced by the lexer, parser, property-value parsers, and walker.
package diagnostics

import (
	"fmt"

	"github.com/klauskaan/cal-language-core/token"
)

// Severity classifies a Diagnostic.
type Severity int

const (
	// Error indicates a condition that prevented a full, trustworthy parse
	// of the affected construct (recovered from, but still wrong).
	Error Severity = iota
	// Warning indicates a questionable but structurally valid construct.
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

// Diagnostic is a single error or warning anchored to a token position.
type Diagnostic struct {
	Message  string
	Token    token.Token
	Severity Severity
}

// String renders a Diagnostic the way the teacher's peekError messages
// read, so test failures and CLI output stay human-legible.
func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d, col %d: %s", d.Token.Line, d.Token.Column, d.Message)
}

// New builds an Error-severity diagnostic anchored to tok.
func New(tok token.Token, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Token:    tok,
		Severity: Error,
	}
}

// NewWarning builds a Warning-severity diagnostic anchored to tok.
func NewWarning(tok token.Token, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Message:  fmt.Sprintf(format, args...),
		Token:    tok,
		Severity: Warning,
	}
}

// HasErrors reports whether any diagnostic in ds is Error severity.
func HasErrors(ds []Diagnostic) bool {
	for _, d := range ds {
		if d.Severity == Error {
			return true
		}
	}
	return false
}
