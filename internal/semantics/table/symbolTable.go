package table

import (
	"github.com/pkg/errors"

	"typeengine/internal/semantics/symbols"
)

// ErrRedeclared is returned by Declare when the name already exists in the same scope
var ErrRedeclared = errors.New("symbol already declared")

// SymbolTable holds the symbols of one lexical scope
type SymbolTable struct {
	parent  *SymbolTable
	symbols map[string]*symbols.Symbol
}

// NewSymbolTable creates a new symbol table with optional parent scope
func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		parent:  parent,
		symbols: make(map[string]*symbols.Symbol),
	}
}

// Parent returns the enclosing scope, or nil for the outermost one
func (st *SymbolTable) Parent() *SymbolTable {
	return st.parent
}

// Declare adds a symbol to the table
func (st *SymbolTable) Declare(name string, symbol *symbols.Symbol) error {
	if _, exists := st.symbols[name]; exists {
		return errors.Wrapf(ErrRedeclared, "'%s'", name)
	}
	st.symbols[name] = symbol
	return nil
}

// Lookup finds a symbol in this scope or parent scopes
func (st *SymbolTable) Lookup(name string) (*symbols.Symbol, bool) {
	for scope := st; scope != nil; scope = scope.parent {
		if sym, ok := scope.symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// GetSymbol finds a symbol in this scope only
func (st *SymbolTable) GetSymbol(name string) (*symbols.Symbol, bool) {
	sym, ok := st.symbols[name]
	return sym, ok
}

// Len returns the number of symbols declared directly in this scope
func (st *SymbolTable) Len() int {
	return len(st.symbols)
}
