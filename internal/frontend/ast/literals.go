package ast

import "typeengine/internal/source"

type LiteralKind int

const (
	INT LiteralKind = iota
	FLOAT
	STRING
	BOOL
	NULL
)

// BasicLit represents a literal of basic type (int, float, string, bool, null)
type BasicLit struct {
	Kind  LiteralKind
	Value string // the literal value as written
	source.Location
}

func (b *BasicLit) INode()                {} // Implements Node interface
func (b *BasicLit) Expr()                 {} // Expr is a marker interface for all expressions
func (b *BasicLit) Loc() *source.Location { return &b.Location }

// TemplateLit is a template string; Parts alternate between STRING chunks and interpolated expressions
type TemplateLit struct {
	Parts []Expression
	source.Location
}

func (t *TemplateLit) INode()                {} // Implements Node interface
func (t *TemplateLit) Expr()                 {} // Expr is a marker interface for all expressions
func (t *TemplateLit) Loc() *source.Location { return &t.Location }

// ListLit is [a, b, ...c]
type ListLit struct {
	Elts []Expression // elements may be *SpreadExpr
	source.Location
}

func (l *ListLit) INode()                {} // Implements Node interface
func (l *ListLit) Expr()                 {} // Expr is a marker interface for all expressions
func (l *ListLit) Loc() *source.Location { return &l.Location }

// ObjectProp is one entry of an object literal: either key: value or ...spread
type ObjectProp struct {
	Key    *IdentifierExpr
	Value  Expression
	Spread Expression
	source.Location
}

// ObjectLit is { a: 1, ...rest }
type ObjectLit struct {
	Props []*ObjectProp
	source.Location
}

func (o *ObjectLit) INode()                {} // Implements Node interface
func (o *ObjectLit) Expr()                 {} // Expr is a marker interface for all expressions
func (o *ObjectLit) Loc() *source.Location { return &o.Location }

// SpreadExpr is ...x inside a list or call argument list
type SpreadExpr struct {
	X Expression
	source.Location
}

func (s *SpreadExpr) INode()                {} // Implements Node interface
func (s *SpreadExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (s *SpreadExpr) Loc() *source.Location { return &s.Location }

// ArrowFunc is (params) => body. Exactly one of Body and ExprBody is set.
type ArrowFunc struct {
	Params   []*Param
	Result   TypeNode
	Body     *Block
	ExprBody Expression
	IsAsync  bool
	source.Location
}

func (f *ArrowFunc) INode()                {} // Implements Node interface
func (f *ArrowFunc) Expr()                 {} // Expr is a marker interface for all expressions
func (f *ArrowFunc) Loc() *source.Location { return &f.Location }
