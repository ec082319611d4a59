package table

import (
	"github.com/pkg/errors"

	"typeengine/internal/frontend/ast"
	"typeengine/internal/semantics/symbols"
	"typeengine/internal/types"
)

// Table is a stack of lexical scopes. Lookups search the innermost scope
// first and fall through to enclosing scopes.
type Table struct {
	global  *SymbolTable
	current *SymbolTable
	depth   int
}

// New creates a table whose current scope is the outermost (global) scope
func New() *Table {
	g := NewSymbolTable(nil)
	return &Table{global: g, current: g}
}

// Global returns the outermost scope
func (t *Table) Global() *SymbolTable { return t.global }

// Current returns the innermost scope
func (t *Table) Current() *SymbolTable { return t.current }

// Depth is the number of scopes entered above the global one
func (t *Table) Depth() int { return t.depth }

// Define declares name in the current scope
func (t *Table) Define(name string, kind symbols.SymbolKind, typ types.SemType, isConst bool, decl ast.Node) (*symbols.Symbol, error) {
	sym := &symbols.Symbol{Name: name, Kind: kind, Type: typ, IsConst: isConst, Decl: decl}
	if err := t.current.Declare(name, sym); err != nil {
		return nil, err
	}
	return sym, nil
}

// Lookup searches the current scope and then every enclosing scope
func (t *Table) Lookup(name string) (*symbols.Symbol, bool) {
	return t.current.Lookup(name)
}

// UpdateSymbolType replaces the type of the innermost visible binding of name
func (t *Table) UpdateSymbolType(name string, typ types.SemType) error {
	sym, ok := t.current.Lookup(name)
	if !ok {
		return errors.Errorf("cannot update type of undeclared symbol '%s'", name)
	}
	sym.Type = typ
	return nil
}

// EnterScope pushes a fresh scope and returns the matching ExitScope.
// Use as: defer tbl.EnterScope()()
func (t *Table) EnterScope() func() {
	t.current = NewSymbolTable(t.current)
	t.depth++
	return t.ExitScope
}

// ExitScope pops the innermost scope. Popping the global scope panics: it
// means an enter/exit pair was unbalanced.
func (t *Table) ExitScope() {
	if t.current.parent == nil {
		panic("table: ExitScope called on the global scope")
	}
	t.current = t.current.parent
	t.depth--
}

// Detach makes the global scope current until the returned func restores the
// previous scope chain. It lets a declaration be checked on demand from
// anywhere without seeing the caller's locals.
func (t *Table) Detach() func() {
	saved, savedDepth := t.current, t.depth
	t.current, t.depth = t.global, 0
	return func() {
		t.current, t.depth = saved, savedDepth
	}
}
