package ast

import (
	"typeengine/internal/source"
	"typeengine/internal/tokens"
)

// BinaryExpr represents a binary expression
type BinaryExpr struct {
	X  Expression   // left operand
	Op tokens.TOKEN // operator
	Y  Expression   // right operand
	source.Location
}

func (b *BinaryExpr) INode()                {} // Implements Node interface
func (b *BinaryExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (b *BinaryExpr) Loc() *source.Location { return &b.Location }

// UnaryExpr represents a unary expression (-x, +x, !x, ~x)
type UnaryExpr struct {
	Op tokens.TOKEN // operator
	X  Expression   // operand
	source.Location
}

func (u *UnaryExpr) INode()                {} // Implements Node interface
func (u *UnaryExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (u *UnaryExpr) Loc() *source.Location { return &u.Location }

// PrefixExpr represents a prefix increment/decrement expression (++x, --x)
type PrefixExpr struct {
	Op tokens.TOKEN // operator (++, --)
	X  Expression   // operand
	source.Location
}

func (p *PrefixExpr) INode()                {} // Implements Node interface
func (p *PrefixExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (p *PrefixExpr) Loc() *source.Location { return &p.Location }

// PostfixExpr represents a postfix increment/decrement expression (x++, x--)
type PostfixExpr struct {
	X  Expression   // operand
	Op tokens.TOKEN // operator (++, --)
	source.Location
}

func (p *PostfixExpr) INode()                {} // Implements Node interface
func (p *PostfixExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (p *PostfixExpr) Loc() *source.Location { return &p.Location }

// IdentifierExpr represents an identifier
type IdentifierExpr struct {
	Name string
	source.Location
}

func (i *IdentifierExpr) INode()                {} // Implements Node interface
func (i *IdentifierExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (i *IdentifierExpr) Loc() *source.Location { return &i.Location }

// CallExpr represents a call f(args) or f<T>(args). Fun may be *SuperExpr
// inside a constructor.
type CallExpr struct {
	Fun      Expression
	TypeArgs []TypeNode
	Args     []Expression
	source.Location
}

func (c *CallExpr) INode()                {} // Implements Node interface
func (c *CallExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (c *CallExpr) Loc() *source.Location { return &c.Location }

// NewExpr represents new C(args)
type NewExpr struct {
	Class    *IdentifierExpr
	TypeArgs []TypeNode
	Args     []Expression
	source.Location
}

func (n *NewExpr) INode()                {} // Implements Node interface
func (n *NewExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (n *NewExpr) Loc() *source.Location { return &n.Location }

// SelectorExpr represents member access x.field
type SelectorExpr struct {
	X     Expression
	Field *IdentifierExpr
	source.Location
}

func (s *SelectorExpr) INode()                {} // Implements Node interface
func (s *SelectorExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (s *SelectorExpr) Loc() *source.Location { return &s.Location }

// MethodCallExpr represents x.method(args)
type MethodCallExpr struct {
	X        Expression
	Method   *IdentifierExpr
	TypeArgs []TypeNode
	Args     []Expression
	source.Location
}

func (m *MethodCallExpr) INode()                {} // Implements Node interface
func (m *MethodCallExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (m *MethodCallExpr) Loc() *source.Location { return &m.Location }

// IndexExpr represents x[index]
type IndexExpr struct {
	X     Expression
	Index Expression
	source.Location
}

func (i *IndexExpr) INode()                {} // Implements Node interface
func (i *IndexExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (i *IndexExpr) Loc() *source.Location { return &i.Location }

// AwaitExpr represents await x
type AwaitExpr struct {
	X Expression
	source.Location
}

func (a *AwaitExpr) INode()                {} // Implements Node interface
func (a *AwaitExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (a *AwaitExpr) Loc() *source.Location { return &a.Location }

// ThisExpr represents this
type ThisExpr struct {
	source.Location
}

func (t *ThisExpr) INode()                {} // Implements Node interface
func (t *ThisExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (t *ThisExpr) Loc() *source.Location { return &t.Location }

// SuperExpr represents super, either called or as a member receiver
type SuperExpr struct {
	source.Location
}

func (s *SuperExpr) INode()                {} // Implements Node interface
func (s *SuperExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (s *SuperExpr) Loc() *source.Location { return &s.Location }

// TypeofExpr represents typeof x
type TypeofExpr struct {
	X Expression
	source.Location
}

func (t *TypeofExpr) INode()                {} // Implements Node interface
func (t *TypeofExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (t *TypeofExpr) Loc() *source.Location { return &t.Location }

// InstanceofExpr represents x instanceof C
type InstanceofExpr struct {
	X     Expression
	Class *IdentifierExpr
	source.Location
}

func (i *InstanceofExpr) INode()                {} // Implements Node interface
func (i *InstanceofExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (i *InstanceofExpr) Loc() *source.Location { return &i.Location }

// AssignExpr represents lhs = rhs and the compound forms (+=, -=, ...)
type AssignExpr struct {
	Lhs Expression
	Op  tokens.TOKEN
	Rhs Expression
	source.Location
}

func (a *AssignExpr) INode()                {} // Implements Node interface
func (a *AssignExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (a *AssignExpr) Loc() *source.Location { return &a.Location }

// RangeExpr represents start..end
type RangeExpr struct {
	Start Expression
	End   Expression
	source.Location
}

func (r *RangeExpr) INode()                {} // Implements Node interface
func (r *RangeExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (r *RangeExpr) Loc() *source.Location { return &r.Location }

// ConditionalExpr represents cond ? then : else
type ConditionalExpr struct {
	Cond Expression
	Then Expression
	Else Expression
	source.Location
}

func (c *ConditionalExpr) INode()                {} // Implements Node interface
func (c *ConditionalExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (c *ConditionalExpr) Loc() *source.Location { return &c.Location }

// NullCoalesceExpr represents x ?? y
type NullCoalesceExpr struct {
	X Expression
	Y Expression
	source.Location
}

func (n *NullCoalesceExpr) INode()                {} // Implements Node interface
func (n *NullCoalesceExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (n *NullCoalesceExpr) Loc() *source.Location { return &n.Location }

// OptionalChainExpr represents x?.field
type OptionalChainExpr struct {
	X     Expression
	Field *IdentifierExpr
	source.Location
}

func (o *OptionalChainExpr) INode()                {} // Implements Node interface
func (o *OptionalChainExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (o *OptionalChainExpr) Loc() *source.Location { return &o.Location }

// NonNullExpr represents the null assertion x!
type NonNullExpr struct {
	X Expression
	source.Location
}

func (n *NonNullExpr) INode()                {} // Implements Node interface
func (n *NonNullExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (n *NonNullExpr) Loc() *source.Location { return &n.Location }

// MatchArm is one pattern => body arm. A nil Pattern is the wildcard.
type MatchArm struct {
	Pattern Expression
	Body    Expression
	source.Location
}

// MatchExpr represents match subject { pattern => body, ... }
type MatchExpr struct {
	Subject Expression
	Arms    []*MatchArm
	source.Location
}

func (m *MatchExpr) INode()                {} // Implements Node interface
func (m *MatchExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (m *MatchExpr) Loc() *source.Location { return &m.Location }

// ClassExpr is a class declaration used as a value
type ClassExpr struct {
	Decl *ClassDecl
	source.Location
}

func (c *ClassExpr) INode()                {} // Implements Node interface
func (c *ClassExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (c *ClassExpr) Loc() *source.Location { return &c.Location }

// ParenExpr represents (x)
type ParenExpr struct {
	X Expression
	source.Location
}

func (p *ParenExpr) INode()                {} // Implements Node interface
func (p *ParenExpr) Expr()                 {} // Expr is a marker interface for all expressions
func (p *ParenExpr) Loc() *source.Location { return &p.Location }
