package narrowing

import (
	"typeengine/internal/frontend/ast"
	"typeengine/internal/tokens"
	"typeengine/internal/types"
)

// Env answers the questions the analyzer asks about names in a condition
type Env interface {
	// TypeOf is the type of a variable at the point of the condition,
	// including any narrowing already in effect
	TypeOf(name string) (types.SemType, bool)
	// ClassNamed resolves the right operand of instanceof
	ClassNamed(name string) (*types.ClassType, bool)
}

// typeofNames are the strings a typeof comparison can narrow to
var typeofNames = map[string]types.SemType{
	"int":     types.TypeInt,
	"float":   types.TypeFloat,
	"str":     types.TypeStr,
	"string":  types.TypeStr,
	"bool":    types.TypeBool,
	"boolean": types.TypeBool,
}

// Analyze derives the narrowings that hold when cond is true (then) and
// when it is false (els). Shapes it does not recognise narrow nothing.
func Analyze(cond ast.Expression, env Env) (then, els Narrowings) {
	then, els = Narrowings{}, Narrowings{}

	switch c := cond.(type) {
	case *ast.ParenExpr:
		return Analyze(c.X, env)

	case *ast.UnaryExpr:
		if c.Op == tokens.NOT_TOKEN {
			t, e := Analyze(c.X, env)
			return e, t
		}

	case *ast.InstanceofExpr:
		name, ok := identName(c.X)
		if !ok || c.Class == nil {
			return
		}
		if class, found := env.ClassNamed(c.Class.Name); found {
			then[name] = class
		}

	case *ast.BinaryExpr:
		switch c.Op {
		case tokens.AND_TOKEN:
			// both operands hold in the then-branch
			leftThen, _ := Analyze(c.X, env)
			rightThen, _ := Analyze(c.Y, env)
			return merge(leftThen, rightThen), els
		case tokens.OR_TOKEN:
			// both operands failed in the else-branch
			_, leftElse := Analyze(c.X, env)
			_, rightElse := Analyze(c.Y, env)
			return then, merge(leftElse, rightElse)
		case tokens.DOUBLE_EQUAL_TOKEN:
			return analyzeEquality(c, env)
		case tokens.NOT_EQUAL_TOKEN:
			t, e := analyzeEquality(c, env)
			return e, t
		}
	}
	return
}

// analyzeEquality handles `typeof x == "kind"` and `x == null` with the
// operands in either order. The maps are for the == reading; != swaps them.
func analyzeEquality(c *ast.BinaryExpr, env Env) (then, els Narrowings) {
	then, els = Narrowings{}, Narrowings{}

	if name, target, ok := typeofComparison(c.X, c.Y); ok {
		then[name] = target
		return
	}
	if name, target, ok := typeofComparison(c.Y, c.X); ok {
		then[name] = target
		return
	}

	if name, ok := nullComparison(c.X, c.Y); ok {
		narrowNonNull(name, env, els)
		return
	}
	if name, ok := nullComparison(c.Y, c.X); ok {
		narrowNonNull(name, env, els)
	}
	return
}

func typeofComparison(lhs, rhs ast.Expression) (string, types.SemType, bool) {
	tof, ok := unparen(lhs).(*ast.TypeofExpr)
	if !ok {
		return "", nil, false
	}
	name, ok := identName(tof.X)
	if !ok {
		return "", nil, false
	}
	lit, ok := unparen(rhs).(*ast.BasicLit)
	if !ok || lit.Kind != ast.STRING {
		return "", nil, false
	}
	target, ok := typeofNames[lit.Value]
	if !ok {
		return "", nil, false
	}
	return name, target, true
}

func nullComparison(lhs, rhs ast.Expression) (string, bool) {
	name, ok := identName(lhs)
	if !ok {
		return "", false
	}
	lit, ok := unparen(rhs).(*ast.BasicLit)
	if !ok || lit.Kind != ast.NULL {
		return "", false
	}
	return name, true
}

// narrowNonNull records name's non-null type in into when its current type
// admits null
func narrowNonNull(name string, env Env, into Narrowings) {
	current, ok := env.TypeOf(name)
	if !ok || types.IsAbsorbing(current) || !types.AllowsNull(current) {
		return
	}
	stripped := types.StripNull(current)
	if stripped.Equals(current) {
		return
	}
	into[name] = stripped
}

func identName(e ast.Expression) (string, bool) {
	if id, ok := unparen(e).(*ast.IdentifierExpr); ok {
		return id.Name, true
	}
	return "", false
}

func unparen(e ast.Expression) ast.Expression {
	for {
		p, ok := e.(*ast.ParenExpr)
		if !ok {
			return e
		}
		e = p.X
	}
}
