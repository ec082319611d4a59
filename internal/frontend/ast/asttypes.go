package ast

import (
	"typeengine/internal/source"
)

// NamedType is a type referenced by name, optionally with type arguments: int, Box<T>, Map<K, V>
type NamedType struct {
	Name string
	Args []TypeNode
	source.Location
}

func (n *NamedType) INode()                {} // Implements Node interface
func (n *NamedType) TypeExpr()             {} // Type nodes implement TypeExpr
func (n *NamedType) Loc() *source.Location { return &n.Location }

// ArrayType represents T[]
type ArrayType struct {
	ElType TypeNode
	source.Location
}

func (a *ArrayType) INode()                {} // Implements Node interface
func (a *ArrayType) TypeExpr()             {} // Type nodes implement TypeExpr
func (a *ArrayType) Loc() *source.Location { return &a.Location }

// NullableType represents T?
type NullableType struct {
	Base TypeNode
	source.Location
}

func (o *NullableType) INode()                {} // Implements Node interface
func (o *NullableType) TypeExpr()             {} // Type nodes implement TypeExpr
func (o *NullableType) Loc() *source.Location { return &o.Location }

// UnionType represents A | B
type UnionType struct {
	Members []TypeNode
	source.Location
}

func (u *UnionType) INode()                {} // Implements Node interface
func (u *UnionType) TypeExpr()             {} // Type nodes implement TypeExpr
func (u *UnionType) Loc() *source.Location { return &u.Location }

// FuncType is a function signature used as an annotation: (a: int) => str
type FuncType struct {
	Params []*Param
	Result TypeNode // nil means void
	source.Location
}

func (f *FuncType) INode()                {} // Implements Node interface
func (f *FuncType) TypeExpr()             {} // Type nodes implement TypeExpr
func (f *FuncType) Loc() *source.Location { return &f.Location }

// PropertySig is one member of an interface body or object type
type PropertySig struct {
	Name     string
	Type     TypeNode
	Optional bool
	source.Location
}

// ObjectType is an inline structural shape: { x: int, y?: str }
type ObjectType struct {
	Properties []*PropertySig
	source.Location
}

func (o *ObjectType) INode()                {} // Implements Node interface
func (o *ObjectType) TypeExpr()             {} // Type nodes implement TypeExpr
func (o *ObjectType) Loc() *source.Location { return &o.Location }

// Param is a function or method parameter. A variadic parameter must come last
// and is annotated with an array type.
type Param struct {
	Name       *IdentifierExpr
	Type       TypeNode // nil when unannotated
	IsVariadic bool
	source.Location
}

// TypeParam declares a generic parameter with an optional constraint: T extends Shape
type TypeParam struct {
	Name       string
	Constraint TypeNode
	source.Location
}
