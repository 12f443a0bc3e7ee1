// Package semantic provides static analysis for scriptbox programs.
//
// The analyzer performs:
//   - Name resolution: binding identifiers to their declarations
//   - Scope analysis: tracking block, function and parameter scopes
//   - Free name collection: names the host must supply as bindings,
//     helpers or facade fields
//
// Scoping mirrors the interpreter: every block and function body is a
// scope, function declarations are hoisted to the top of their block, and
// a name no scope declares resolves against the host. Nothing found here
// is an error, since the interpreter reports the same conditions at run
// time; the analyzer only warns.
package semantic

import (
	"fmt"

	"github.com/kolkov/scriptbox/internal/token"
)

// Warning represents a semantic warning (non-fatal issue).
type Warning struct {
	Pos     token.Position
	Message string
}

// String returns the warning as a formatted string.
func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s", w.Pos, w.Message)
}

// WarningList is a collection of semantic warnings.
type WarningList []*Warning

// Add appends a warning to the list.
func (wl *WarningList) Add(pos token.Position, format string, args ...any) {
	*wl = append(*wl, &Warning{
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	})
}

// Common warning messages.
const (
	warnUnusedVar     = "%s %q is declared but never used"
	warnUnusedFunc    = "function %q is declared but never called"
	warnRedeclared    = "%q is already declared in this scope"
	warnConstAssign   = "assignment to const %q"
	warnFacadeShadow  = "%s %q shadows the facade binding"
	warnDuplicateProp = "duplicate key %q in object literal"
)
