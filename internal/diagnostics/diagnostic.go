// Package diagnostics is the thin adapter the lowering pass reports
// through. It enqueues structured diagnostics; it never formats or emits
// them — that is an external collaborator's job (spec §1, §4.5).
package diagnostics

import "cfglower/internal/source"

// Severity is the severity level of a diagnostic.
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

// Code identifies the kind of diagnostic the lowering pass can produce.
// These are the only codes the core emits (spec §4.5, §7).
type Code string

const (
	// UndeclaredVariable: an UnresolvedIdent (instance/class variable)
	// could not be resolved against the enclosing class.
	UndeclaredVariable Code = "CFG-UndeclaredVariable"
	// MalformedTAbsurd: a call to T.absurd had the wrong arity or was
	// called on the result of another call rather than a variable.
	MalformedTAbsurd Code = "CFG-MalformedTAbsurd"
	// NoNextScope: a break/next/retry occurred with no enclosing
	// loop/block/rescue scope to target.
	NoNextScope Code = "CFG-NoNextScope"
	// InternalError: an AST invariant the namer/resolver should have
	// already enforced was violated (spec §7.2).
	InternalError Code = "CFG-InternalError"
)

// LabelStyle distinguishes the primary offending span from secondary
// context spans.
type LabelStyle int

const (
	Primary LabelStyle = iota
	Secondary
)

// Label attaches a message to a span of source.
type Label struct {
	Location source.Location
	Message  string
	Style    LabelStyle
}

// Diagnostic is a single structured error or warning produced while
// lowering one method.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Labels   []Label
}

// NewError creates a new error-severity diagnostic.
func NewError(code Code, message string) *Diagnostic {
	return &Diagnostic{Severity: Error, Code: code, Message: message}
}

// NewWarning creates a new warning-severity diagnostic.
func NewWarning(code Code, message string) *Diagnostic {
	return &Diagnostic{Severity: Warning, Code: code, Message: message}
}

// WithPrimaryLabel attaches the main offending span. A second call is a
// no-op, matching the teacher's "primary label always first, never
// duplicated" rule.
func (d *Diagnostic) WithPrimaryLabel(loc source.Location, message string) *Diagnostic {
	for _, l := range d.Labels {
		if l.Style == Primary {
			return d
		}
	}
	d.Labels = append([]Label{{Location: loc, Message: message, Style: Primary}}, d.Labels...)
	return d
}

// WithSecondaryLabel attaches additional context. A primary label must
// already exist.
func (d *Diagnostic) WithSecondaryLabel(loc source.Location, message string) *Diagnostic {
	hasPrimary := false
	for _, l := range d.Labels {
		if l.Style == Primary {
			hasPrimary = true
			break
		}
	}
	if !hasPrimary {
		panic("diagnostics: WithSecondaryLabel called before WithPrimaryLabel")
	}
	d.Labels = append(d.Labels, Label{Location: loc, Message: message, Style: Secondary})
	return d
}
