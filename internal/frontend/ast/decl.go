package ast

import (
	"typeengine/internal/source"
	"typeengine/internal/types"
)

// FuncDecl represents a named function declaration
type FuncDecl struct {
	Name       *IdentifierExpr
	TypeParams []*TypeParam
	Params     []*Param
	Result     TypeNode // nil means the return type is inferred
	Body       *Block
	IsAsync    bool
	source.Location
}

func (f *FuncDecl) INode()                {} // Implements Node interface
func (f *FuncDecl) Decl()                 {} // Decl is a marker interface for all declarations
func (f *FuncDecl) Loc() *source.Location { return &f.Location }

// FieldDecl is a class property
type FieldDecl struct {
	Name       *IdentifierExpr
	Type       TypeNode   // nil means inferred from Value
	Value      Expression // optional initializer
	Visibility types.Visibility
	Static     bool
	Readonly   bool
	source.Location
}

// MethodDecl is a class method or constructor
type MethodDecl struct {
	Name       *IdentifierExpr
	TypeParams []*TypeParam
	Params     []*Param
	Result     TypeNode
	Body       *Block
	IsAsync    bool
	Visibility types.Visibility
	Static     bool
	source.Location
}

// ClassDecl represents class Name<T> extends Base { ... }
type ClassDecl struct {
	Name        *IdentifierExpr
	TypeParams  []*TypeParam
	Superclass  *IdentifierExpr // optional
	Fields      []*FieldDecl
	Methods     []*MethodDecl
	Constructor *MethodDecl // optional
	IsAbstract  bool
	source.Location
}

func (c *ClassDecl) INode()                {} // Implements Node interface
func (c *ClassDecl) Decl()                 {} // Decl is a marker interface for all declarations
func (c *ClassDecl) Loc() *source.Location { return &c.Location }

// InterfaceDecl represents interface Name<T> { prop: Type; opt?: Type }
type InterfaceDecl struct {
	Name       *IdentifierExpr
	TypeParams []*TypeParam
	Extends    []*IdentifierExpr
	Properties []*PropertySig
	source.Location
}

func (i *InterfaceDecl) INode()                {} // Implements Node interface
func (i *InterfaceDecl) Decl()                 {} // Decl is a marker interface for all declarations
func (i *InterfaceDecl) Loc() *source.Location { return &i.Location }

// EnumMemberDecl is Name or Name = literal
type EnumMemberDecl struct {
	Name  *IdentifierExpr
	Value Expression // optional; int or string literal
	source.Location
}

// EnumDecl represents enum Name { A, B = 5, C = "c" }
type EnumDecl struct {
	Name    *IdentifierExpr
	Members []*EnumMemberDecl
	source.Location
}

func (e *EnumDecl) INode()                {} // Implements Node interface
func (e *EnumDecl) Decl()                 {} // Decl is a marker interface for all declarations
func (e *EnumDecl) Loc() *source.Location { return &e.Location }

// TypeAliasDecl represents type Name<T> = Type
type TypeAliasDecl struct {
	Name       *IdentifierExpr
	TypeParams []*TypeParam
	Type       TypeNode
	source.Location
}

func (t *TypeAliasDecl) INode()                {} // Implements Node interface
func (t *TypeAliasDecl) Decl()                 {} // Decl is a marker interface for all declarations
func (t *TypeAliasDecl) Loc() *source.Location { return &t.Location }

func (f *FieldDecl) INode()                {} // Implements Node interface
func (f *FieldDecl) Decl()                 {} // Decl is a marker interface for all declarations
func (f *FieldDecl) Loc() *source.Location { return &f.Location }

func (m *MethodDecl) INode()                {} // Implements Node interface
func (m *MethodDecl) Decl()                 {} // Decl is a marker interface for all declarations
func (m *MethodDecl) Loc() *source.Location { return &m.Location }
