package ast

import (
	"typeengine/internal/source"
)

// Node is the base interface for all AST nodes
type Node interface {
	INode()
	Loc() *source.Location
}

// Expression represents any node that produces a value
type Expression interface {
	Node
	Expr()
}

// TypeNode represents a type annotation.
// This is separate from Expression to maintain clean separation between values and types
type TypeNode interface {
	Node
	TypeExpr()
}

// Statement represents any node that performs an action
type Statement interface {
	Node
	Stmt()
}

// Decl represents a top-level or nested declaration (class, interface, enum, type, fn)
type Decl interface {
	Node
	Decl()
}

// Module is one parsed source unit, consumed read-only by the checker
type Module struct {
	FullPath string // the physical full path to the file
	Nodes    []Node // top-level declarations and statements
	source.Location
}

func (m *Module) INode()                {} // Implements Node interface
func (m *Module) Loc() *source.Location { return &m.Location }
