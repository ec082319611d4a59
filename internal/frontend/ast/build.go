package ast

import (
	"strconv"

	"typeengine/internal/source"
	"typeengine/internal/tokens"
)

// Constructors for building trees without a parser (generators, tests).
// Nodes start with an empty location; use At to place them.

// At places n at line:col spanning width columns and returns it
func At[T Node](n T, line, col, width int) T {
	*n.Loc() = source.Span(line, col, col+width)
	return n
}

func Ident(name string) *IdentifierExpr { return &IdentifierExpr{Name: name} }

func Int(v int64) *BasicLit {
	return &BasicLit{Kind: INT, Value: strconv.FormatInt(v, 10)}
}

func Float(v float64) *BasicLit {
	return &BasicLit{Kind: FLOAT, Value: strconv.FormatFloat(v, 'g', -1, 64)}
}

func Str(v string) *BasicLit { return &BasicLit{Kind: STRING, Value: v} }

func Bool(v bool) *BasicLit { return &BasicLit{Kind: BOOL, Value: strconv.FormatBool(v)} }

func Null() *BasicLit { return &BasicLit{Kind: NULL, Value: "null"} }

func Binary(x Expression, op tokens.TOKEN, y Expression) *BinaryExpr {
	return &BinaryExpr{X: x, Op: op, Y: y}
}

func Unary(op tokens.TOKEN, x Expression) *UnaryExpr { return &UnaryExpr{Op: op, X: x} }

func Not(x Expression) *UnaryExpr { return Unary(tokens.NOT_TOKEN, x) }

func Call(fun Expression, args ...Expression) *CallExpr {
	return &CallExpr{Fun: fun, Args: args}
}

func New(class string, args ...Expression) *NewExpr {
	return &NewExpr{Class: Ident(class), Args: args}
}

func Select(x Expression, field string) *SelectorExpr {
	return &SelectorExpr{X: x, Field: Ident(field)}
}

func MethodCall(x Expression, method string, args ...Expression) *MethodCallExpr {
	return &MethodCallExpr{X: x, Method: Ident(method), Args: args}
}

func Assign(lhs Expression, op tokens.TOKEN, rhs Expression) *AssignExpr {
	return &AssignExpr{Lhs: lhs, Op: op, Rhs: rhs}
}

func List(elts ...Expression) *ListLit { return &ListLit{Elts: elts} }

func Typeof(x Expression) *TypeofExpr { return &TypeofExpr{X: x} }

func Instanceof(x Expression, class string) *InstanceofExpr {
	return &InstanceofExpr{X: x, Class: Ident(class)}
}

func Await(x Expression) *AwaitExpr { return &AwaitExpr{X: x} }

// Named builds a type annotation such as int or Box<T>
func Named(name string, args ...TypeNode) *NamedType { return &NamedType{Name: name, Args: args} }

func ArrayOf(el TypeNode) *ArrayType { return &ArrayType{ElType: el} }

func NullableOf(base TypeNode) *NullableType { return &NullableType{Base: base} }

// P builds a parameter; typ may be nil
func P(name string, typ TypeNode) *Param { return &Param{Name: Ident(name), Type: typ} }

func Let(name string, typ TypeNode, value Expression) *VarDecl {
	return &VarDecl{Name: Ident(name), Type: typ, Value: value}
}

func Const(name string, typ TypeNode, value Expression) *VarDecl {
	return &VarDecl{Name: Ident(name), Type: typ, Value: value, IsConst: true}
}

func Expr(x Expression) *ExprStmt { return &ExprStmt{X: x} }

func Return(x Expression) *ReturnStmt { return &ReturnStmt{Result: x} }

func Body(nodes ...Node) *Block { return &Block{Nodes: nodes} }

func If(cond Expression, body *Block, els Node) *IfStmt {
	return &IfStmt{Cond: cond, Body: body, Else: els}
}

func Func(name string, params []*Param, result TypeNode, body *Block) *FuncDecl {
	return &FuncDecl{Name: Ident(name), Params: params, Result: result, Body: body}
}

func Class(name, superclass string) *ClassDecl {
	c := &ClassDecl{Name: Ident(name)}
	if superclass != "" {
		c.Superclass = Ident(superclass)
	}
	return c
}

func NewModule(path string, nodes ...Node) *Module {
	return &Module{FullPath: path, Nodes: nodes}
}
