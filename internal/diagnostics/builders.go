package diagnostics

import (
	"fmt"

	"cfglower/internal/source"
)

// Common diagnostic builders for the lowering pass (spec §4.5, §7.1).

// NewUndeclaredVariable reports an UnresolvedIdent that could not be
// resolved against the enclosing class.
func NewUndeclaredVariable(loc source.Location, name string) *Diagnostic {
	return NewError(UndeclaredVariable, fmt.Sprintf("use of undeclared variable `%s`", name)).
		WithPrimaryLabel(loc, "not found in this scope")
}

// NewMalformedTAbsurd reports a misshapen call to T.absurd.
func NewMalformedTAbsurd(loc source.Location, reason string) *Diagnostic {
	return NewError(MalformedTAbsurd, "T.absurd "+reason).
		WithPrimaryLabel(loc, reason)
}

// NewNoNextScope reports a stray break/next/retry outside any scope that
// could receive it. keyword is one of "break", "next", "retry"; enclosing
// is the construct that would have bounded it (the walker passes
// "loop or block" for break/next and "begin/rescue" for retry).
func NewNoNextScope(loc source.Location, keyword, enclosing string) *Diagnostic {
	return NewError(NoNextScope, fmt.Sprintf("no `%s` block around `%s`", enclosing, keyword)).
		WithPrimaryLabel(loc, fmt.Sprintf("`%s` has no enclosing scope to target", keyword))
}

// NewInternalError reports an AST shape the namer/resolver should already
// have ruled out.
func NewInternalError(loc source.Location, message string) *Diagnostic {
	return NewError(InternalError, message).WithPrimaryLabel(loc, "encountered here")
}
