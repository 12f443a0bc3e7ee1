package scriptbox

import (
	"sort"

	"github.com/kolkov/scriptbox/internal/ast"
	"github.com/kolkov/scriptbox/internal/interp"
	"github.com/kolkov/scriptbox/internal/semantic"
	"github.com/kolkov/scriptbox/value"
)

// Program represents a parsed script ready for execution.
// It is immutable and safe for concurrent use; each call to Run creates
// an independent interpreter, scope chain and budget.
type Program struct {
	ast    *ast.Program
	source string // Original source for debugging
}

// Run evaluates the program against bindings. Each binding is visible as
// a global name; the binding named by opts.FacadeName is the entity
// facade that unresolved names fall back to.
//
// If opts is nil, default options are used. Errors are *RuntimeError.
func (p *Program) Run(bindings map[string]value.Value, opts *Options) (value.Value, error) {
	in := interp.New(opts.config())
	v, err := in.Run(p.ast, bindings)
	if err != nil {
		return value.Undefined(), runtimeError(err)
	}
	return v, nil
}

// Dump returns a human-readable rendering of the syntax tree.
// Useful for debugging and understanding program structure.
func (p *Program) Dump() string {
	return ast.String(p.ast)
}

// Source returns the original script source.
func (p *Program) Source() string {
	return p.source
}

// Identifiers returns the sorted set of names the program reads or
// writes as plain identifiers. Facade field names used bare show up here;
// declared names show up where they are used.
func (p *Program) Identifiers() []string {
	seen := make(map[string]struct{})
	ast.Walk(p.ast, func(n ast.Node) bool {
		if id, ok := n.(*ast.Ident); ok {
			seen[id.Name] = struct{}{}
		}
		return true
	})
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Analysis is the static view of a program's names.
type Analysis struct {
	// Free lists the names no declaration in the program covers. The
	// host supplies them as bindings, helpers or facade fields. Tools
	// that rename locals must keep these.
	Free []string

	// Writes lists the free names the program assigns.
	Writes []string

	// Locals lists the declared names, each once, sorted.
	Locals []string

	// Warnings describes likely mistakes: unused nested declarations,
	// redeclarations, writes to const, shadowing of the facade binding and
	// duplicate object keys. None of them stops the program from running.
	Warnings []string
}

// Analyze resolves the program's names statically. The facade name is
// taken from opts; if opts is nil, defaults are used.
func (p *Program) Analyze(opts *Options) *Analysis {
	res := semantic.Resolve(p.ast, opts.config().FacadeName)
	a := &Analysis{Free: res.Free, Writes: res.Writes}

	seen := make(map[string]struct{})
	for _, sym := range res.Symbols {
		if _, ok := seen[sym.Name]; !ok {
			seen[sym.Name] = struct{}{}
			a.Locals = append(a.Locals, sym.Name)
		}
	}
	sort.Strings(a.Locals)

	for _, w := range res.Warnings {
		a.Warnings = append(a.Warnings, w.String())
	}
	return a
}
