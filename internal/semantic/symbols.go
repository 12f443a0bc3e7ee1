package semantic

import (
	"sort"

	"github.com/kolkov/scriptbox/internal/token"
)

// SymbolKind defines how a name was declared.
type SymbolKind int

const (
	SymbolVar      SymbolKind = iota // var declaration
	SymbolLet                        // let declaration
	SymbolConst                      // const declaration
	SymbolFunction                   // function declaration or named function expression
	SymbolParam                      // function parameter
)

// String returns the declaration keyword for the kind.
func (k SymbolKind) String() string {
	switch k {
	case SymbolVar:
		return "var"
	case SymbolLet:
		return "let"
	case SymbolConst:
		return "const"
	case SymbolFunction:
		return "function"
	case SymbolParam:
		return "param"
	default:
		return "unknown"
	}
}

// kindOf maps a VarDecl keyword to its symbol kind.
func kindOf(decl string) SymbolKind {
	switch decl {
	case "const":
		return SymbolConst
	case "let":
		return SymbolLet
	default:
		return SymbolVar
	}
}

// Symbol holds information about a declared name.
type Symbol struct {
	Name  string         // Symbol name
	Kind  SymbolKind     // How it was declared
	Pos   token.Position // Declaration position
	Used  bool           // Whether the symbol is read
	Scope *SymbolTable   // Declaring scope
}

// SymbolTable implements a hierarchical symbol table with scope support.
// Each scope can have a parent, enabling nested lookups.
type SymbolTable struct {
	parent  *SymbolTable
	symbols map[string]*Symbol
	name    string // Scope name (function name, "block" or "program")
}

// NewSymbolTable creates a new symbol table with the given parent.
// Pass nil for the program scope.
func NewSymbolTable(parent *SymbolTable, name string) *SymbolTable {
	return &SymbolTable{
		parent:  parent,
		symbols: make(map[string]*Symbol),
		name:    name,
	}
}

// Name returns the scope name.
func (st *SymbolTable) Name() string {
	return st.name
}

// Parent returns the parent scope, or nil for the program scope.
func (st *SymbolTable) Parent() *SymbolTable {
	return st.parent
}

// Define adds a new symbol to the current scope.
// Returns the created symbol, or nil if a symbol with that name already exists.
func (st *SymbolTable) Define(name string, kind SymbolKind, pos token.Position) *Symbol {
	if _, exists := st.symbols[name]; exists {
		return nil
	}
	sym := &Symbol{Name: name, Kind: kind, Pos: pos, Scope: st}
	st.symbols[name] = sym
	return sym
}

// Lookup searches for a symbol in this scope and all parent scopes.
// Returns the symbol and true if found, nil and false otherwise.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	for scope := st; scope != nil; scope = scope.parent {
		if sym, ok := scope.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLocal searches for a symbol only in the current scope.
func (st *SymbolTable) LookupLocal(name string) (*Symbol, bool) {
	sym, ok := st.symbols[name]
	return sym, ok
}

// Names returns the names declared in the current scope, sorted.
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.symbols))
	for name := range st.symbols {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of symbols in the current scope.
func (st *SymbolTable) Count() int {
	return len(st.symbols)
}
