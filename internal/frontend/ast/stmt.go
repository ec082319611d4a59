package ast

import (
	"typeengine/internal/source"
)

// Block represents a braced list of statements and nested declarations
type Block struct {
	Nodes []Node
	source.Location
}

func (b *Block) INode()                {} // Implements Node interface
func (b *Block) Stmt()                 {} // Stmt is a marker interface for all statements
func (b *Block) Loc() *source.Location { return &b.Location }

// VarDecl represents let/const name: Type = value
type VarDecl struct {
	Name    *IdentifierExpr
	Type    TypeNode   // explicit type (can be nil for type inference)
	Value   Expression // initial value (can be nil)
	IsConst bool
	source.Location
}

func (v *VarDecl) INode()                {} // Implements Node interface
func (v *VarDecl) Stmt()                 {} // Stmt is a marker interface for all statements
func (v *VarDecl) Loc() *source.Location { return &v.Location }

// ExprStmt represents an expression used as a statement
type ExprStmt struct {
	X Expression
	source.Location
}

func (e *ExprStmt) INode()                {} // Implements Node interface
func (e *ExprStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (e *ExprStmt) Loc() *source.Location { return &e.Location }

// ReturnStmt represents return [value]
type ReturnStmt struct {
	Result Expression // nil for a bare return
	source.Location
}

func (r *ReturnStmt) INode()                {} // Implements Node interface
func (r *ReturnStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (r *ReturnStmt) Loc() *source.Location { return &r.Location }

// IfStmt represents an if statement; Else is nil, a *Block or another *IfStmt
type IfStmt struct {
	Cond Expression
	Body *Block
	Else Node
	source.Location
}

func (i *IfStmt) INode()                {} // Implements Node interface
func (i *IfStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (i *IfStmt) Loc() *source.Location { return &i.Location }

// WhileStmt represents while (cond) body
type WhileStmt struct {
	Cond Expression
	Body *Block
	source.Location
}

func (w *WhileStmt) INode()                {} // Implements Node interface
func (w *WhileStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (w *WhileStmt) Loc() *source.Location { return &w.Location }

// ForStmt represents for (init; cond; post) body. Any header part may be nil.
type ForStmt struct {
	Init Node
	Cond Expression
	Post Expression
	Body *Block
	source.Location
}

func (f *ForStmt) INode()                {} // Implements Node interface
func (f *ForStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (f *ForStmt) Loc() *source.Location { return &f.Location }

// ForOfStmt represents for (let v of iterable) body
type ForOfStmt struct {
	Var      *IdentifierExpr
	Iterable Expression
	Body     *Block
	source.Location
}

func (f *ForOfStmt) INode()                {} // Implements Node interface
func (f *ForOfStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (f *ForOfStmt) Loc() *source.Location { return &f.Location }

// CaseClause is one case of a switch; nil Exprs marks the default clause
type CaseClause struct {
	Exprs []Expression
	Body  *Block
	source.Location
}

// SwitchStmt represents switch (tag) { case ...: ... }
type SwitchStmt struct {
	Tag   Expression
	Cases []*CaseClause
	source.Location
}

func (s *SwitchStmt) INode()                {} // Implements Node interface
func (s *SwitchStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (s *SwitchStmt) Loc() *source.Location { return &s.Location }

// BreakStmt represents break
type BreakStmt struct {
	source.Location
}

func (b *BreakStmt) INode()                {} // Implements Node interface
func (b *BreakStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (b *BreakStmt) Loc() *source.Location { return &b.Location }

// ContinueStmt represents continue
type ContinueStmt struct {
	source.Location
}

func (c *ContinueStmt) INode()                {} // Implements Node interface
func (c *ContinueStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (c *ContinueStmt) Loc() *source.Location { return &c.Location }

// ThrowStmt represents throw x
type ThrowStmt struct {
	X Expression
	source.Location
}

func (t *ThrowStmt) INode()                {} // Implements Node interface
func (t *ThrowStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (t *ThrowStmt) Loc() *source.Location { return &t.Location }

// TryStmt represents try { } catch (e) { } finally { }
type TryStmt struct {
	Body       *Block
	CatchParam *IdentifierExpr // optional
	Catch      *Block          // optional
	Finally    *Block          // optional
	source.Location
}

func (t *TryStmt) INode()                {} // Implements Node interface
func (t *TryStmt) Stmt()                 {} // Stmt is a marker interface for all statements
func (t *TryStmt) Loc() *source.Location { return &t.Location }
