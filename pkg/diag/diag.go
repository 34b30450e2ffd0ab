// Package diag defines compiler diagnostics.
//
// Diagnostics are split into user-facing classes (syntax, semantic) and
// compiler-facing classes (configuration, internal consistency, artifact I/O).
// Internal errors are never presented as user syntax errors.
package diag

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Severity of a diagnostic
type Severity int

const (
	SeverityWarning Severity = iota
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Class identifies the diagnostic taxonomy bucket
type Class int

const (
	// ClassSyntax and ClassSemantic are user-facing front-end diagnostics
	ClassSyntax Class = iota
	ClassSemantic
	// ClassConfig covers pass-configuration problems (unknown pass names etc.)
	ClassConfig
	// ClassInternal covers compiler-internal consistency failures
	ClassInternal
	// ClassIO covers artifact emission failures
	ClassIO
)

func (c Class) String() string {
	switch c {
	case ClassSyntax:
		return "syntax"
	case ClassSemantic:
		return "semantic"
	case ClassConfig:
		return "config"
	case ClassInternal:
		return "internal"
	case ClassIO:
		return "io"
	default:
		return "unknown"
	}
}

// Diagnostic is a single compiler message
type Diagnostic struct {
	Severity Severity
	Class    Class
	File     string
	Line     int
	Col      int
	Message  string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	if d.File != "" {
		fmt.Fprintf(&b, "%s:", d.File)
		if d.Line > 0 {
			fmt.Fprintf(&b, "%d:%d:", d.Line, d.Col)
		}
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "%s: %s [%s]", d.Severity, d.Message, d.Class)
	return b.String()
}

// Errorf builds an error diagnostic
func Errorf(class Class, file string, line, col int, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Class:    class,
		File:     file,
		Line:     line,
		Col:      col,
		Message:  fmt.Sprintf(format, args...),
	}
}

// Warnf builds a warning diagnostic
func Warnf(class Class, file string, line, col int, format string, args ...interface{}) Diagnostic {
	d := Errorf(class, file, line, col, format, args...)
	d.Severity = SeverityWarning
	return d
}

// List is an ordered collection of diagnostics
type List []Diagnostic

// HasErrors reports whether any diagnostic is an error
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Warnings returns the warning subset
func (l List) Warnings() List {
	var out List
	for _, d := range l {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Escalated returns a copy with every warning promoted to an error when
// werror is set; otherwise it returns l unchanged.
func (l List) Escalated(werror bool) List {
	if !werror {
		return l
	}
	out := make(List, len(l))
	for i, d := range l {
		if d.Severity == SeverityWarning {
			d.Severity = SeverityError
		}
		out[i] = d
	}
	return out
}

// Err collapses the error diagnostics into a single error, or nil.
func (l List) Err() error {
	var msgs []string
	for _, d := range l {
		if d.Severity == SeverityError {
			msgs = append(msgs, d.String())
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return errors.New(strings.Join(msgs, "\n"))
}

// Internal wraps a compiler-internal error so it is reported distinctly
// from user diagnostics.
func Internal(err error, context string) error {
	return errors.Wrap(err, "internal compiler error: "+context)
}

// Internalf builds a compiler-internal error.
func Internalf(format string, args ...interface{}) error {
	return errors.Errorf("internal compiler error: "+format, args...)
}
