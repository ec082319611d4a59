package symbols

import (
	"typeengine/internal/frontend/ast"
	"typeengine/internal/types"
)

// Symbol represents a declared entity (variable, function, class, etc.)
type Symbol struct {
	Name    string
	Kind    SymbolKind
	Type    types.SemType // Semantic type of the symbol
	IsConst bool          // reassignment is rejected
	Decl    ast.Node      // AST node that declared this symbol, may be nil for builtins
}

// SymbolKind categorizes symbols
type SymbolKind int

const (
	SymbolVariable SymbolKind = iota
	SymbolConstant
	SymbolFunction
	SymbolParameter
	SymbolClass
	SymbolInterface
	SymbolEnum
	SymbolTypeAlias
	SymbolTypeParam
)

func (sk SymbolKind) String() string {
	switch sk {
	case SymbolVariable:
		return "variable"
	case SymbolConstant:
		return "constant"
	case SymbolFunction:
		return "function"
	case SymbolParameter:
		return "parameter"
	case SymbolClass:
		return "class"
	case SymbolInterface:
		return "interface"
	case SymbolEnum:
		return "enum"
	case SymbolTypeAlias:
		return "type alias"
	case SymbolTypeParam:
		return "type parameter"
	default:
		return "unknown"
	}
}

// IsType reports whether the symbol names a type rather than a value
func (sk SymbolKind) IsType() bool {
	switch sk {
	case SymbolClass, SymbolInterface, SymbolEnum, SymbolTypeAlias, SymbolTypeParam:
		return true
	}
	return false
}
