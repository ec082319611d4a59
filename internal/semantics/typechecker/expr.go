package typechecker

import (
	"typeengine/internal/compctx"
	"typeengine/internal/diagnostics"
	"typeengine/internal/frontend/ast"
	"typeengine/internal/semantics/collector"
	"typeengine/internal/semantics/compat"
	"typeengine/internal/semantics/inference"
	"typeengine/internal/semantics/narrowing"
	"typeengine/internal/semantics/symbols"
	"typeengine/internal/tokens"
	"typeengine/internal/types"
)

// checkExpr computes the type of expr under an optional contextual type and
// records it on the module
func checkExpr(ctx *compctx.CompilerContext, mod *compctx.Module, expr ast.Expression, expected types.SemType) (types.SemType, error) {
	t, err := synth(ctx, mod, expr, expected)
	if err != nil {
		return nil, err
	}
	mod.Record(expr, t)
	return t, nil
}

func synth(ctx *compctx.CompilerContext, mod *compctx.Module, expr ast.Expression, expected types.SemType) (types.SemType, error) {
	switch e := expr.(type) {
	case *ast.BasicLit:
		t, diag := inference.LiteralType(e, expected)
		if diag != nil {
			return nil, at(mod, e, diag, "literal out of range")
		}
		return t, nil
	case *ast.TemplateLit:
		for _, part := range e.Parts {
			if _, err := checkExpr(ctx, mod, part, nil); err != nil {
				return nil, err
			}
		}
		return types.TypeStr, nil
	case *ast.IdentifierExpr:
		return checkIdent(ctx, mod, e)
	case *ast.ParenExpr:
		return checkExpr(ctx, mod, e.X, expected)
	case *ast.BinaryExpr:
		return checkBinary(ctx, mod, e)
	case *ast.UnaryExpr:
		return checkUnary(ctx, mod, e, expected)
	case *ast.PrefixExpr:
		return checkIncDec(ctx, mod, e, e.Op, e.X)
	case *ast.PostfixExpr:
		return checkIncDec(ctx, mod, e, e.Op, e.X)
	case *ast.AssignExpr:
		return checkAssignExpr(ctx, mod, e)
	case *ast.CallExpr:
		return checkCall(ctx, mod, e, expected)
	case *ast.NewExpr:
		return checkNew(ctx, mod, e, expected)
	case *ast.SelectorExpr:
		return checkSelector(ctx, mod, e)
	case *ast.OptionalChainExpr:
		return checkOptionalChain(ctx, mod, e)
	case *ast.MethodCallExpr:
		return checkMethodCall(ctx, mod, e, expected)
	case *ast.IndexExpr:
		return checkIndex(ctx, mod, e)
	case *ast.AwaitExpr:
		return checkAwait(ctx, mod, e, expected)
	case *ast.ThisExpr:
		return checkThis(mod, e)
	case *ast.SuperExpr:
		return checkSuper(mod, e)
	case *ast.TypeofExpr:
		if _, err := checkExpr(ctx, mod, e.X, nil); err != nil {
			return nil, err
		}
		return types.TypeStr, nil
	case *ast.InstanceofExpr:
		return checkInstanceof(ctx, mod, e)
	case *ast.RangeExpr:
		return checkRange(ctx, mod, e)
	case *ast.ConditionalExpr:
		return checkConditional(ctx, mod, e, expected)
	case *ast.NullCoalesceExpr:
		return checkNullCoalesce(ctx, mod, e, expected)
	case *ast.NonNullExpr:
		t, err := checkExpr(ctx, mod, e.X, expected)
		if err != nil {
			return nil, err
		}
		return types.StripNull(t), nil
	case *ast.MatchExpr:
		return checkMatch(ctx, mod, e, expected)
	case *ast.ClassExpr:
		return checkClassExpr(ctx, mod, e)
	case *ast.ListLit:
		return checkList(ctx, mod, e, expected)
	case *ast.ObjectLit:
		return checkObject(ctx, mod, e, expected)
	case *ast.ArrowFunc:
		return checkArrow(ctx, mod, e, expected)
	case *ast.SpreadExpr:
		return nil, contextError(mod, e, diagnostics.ErrInvalidSpread, "spread is only allowed in list literals, object literals and call arguments", "")
	}
	return nil, invalidOperation(mod, expr, "unsupported expression %T", expr)
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

// operand treats a not-yet-inferred type as Any inside operators
func operand(t types.SemType) types.SemType {
	if types.IsUnknown(t) {
		return types.TypeAny
	}
	return t
}

func checkIdent(ctx *compctx.CompilerContext, mod *compctx.Module, id *ast.IdentifierExpr) (types.SemType, error) {
	if t, ok := mod.Narrowing.Lookup(id.Name); ok {
		return t, nil
	}
	sym, ok := mod.Table.Lookup(id.Name)
	if !ok {
		return nil, diagnostics.UndefinedSymbol(mod.FilePath, id.Loc(), id.Name)
	}

	switch sym.Kind {
	case symbols.SymbolClass, symbols.SymbolEnum:
		// the declaration itself, as the receiver of static members
		return sym.Type, nil
	case symbols.SymbolFunction:
		if fn, ok := sym.Type.(*types.FunctionType); ok && types.IsUnknown(fn.Return) {
			inferOnDemand(ctx, mod, sym)
		}
	}
	if sym.Kind.IsType() {
		return nil, invalidOperation(mod, id, "%s is a %s, not a value", id.Name, sym.Kind)
	}
	return mod.Resolver.Deref(sym.Type), nil
}

// classRef reports whether e names a class declaration rather than an instance
func classRef(mod *compctx.Module, e ast.Expression) (*types.ClassType, bool) {
	id, ok := unparen(e).(*ast.IdentifierExpr)
	if !ok {
		return nil, false
	}
	if _, narrowed := mod.Narrowing.Lookup(id.Name); narrowed {
		return nil, false
	}
	return mod.ClassNamed(id.Name)
}

func isNumericLiteral(e ast.Expression) bool {
	lit, ok := unparen(e).(*ast.BasicLit)
	return ok && (lit.Kind == ast.INT || lit.Kind == ast.FLOAT)
}

func checkBinary(ctx *compctx.CompilerContext, mod *compctx.Module, b *ast.BinaryExpr) (types.SemType, error) {
	if b.Op == tokens.AND_TOKEN || b.Op == tokens.OR_TOKEN {
		return checkLogical(ctx, mod, b)
	}

	var x, y types.SemType
	var err error
	// a numeric literal takes the other operand's type
	if isNumericLiteral(b.X) && !isNumericLiteral(b.Y) {
		if y, err = checkExpr(ctx, mod, b.Y, nil); err != nil {
			return nil, err
		}
		if x, err = checkExpr(ctx, mod, b.X, numericHint(y)); err != nil {
			return nil, err
		}
	} else {
		if x, err = checkExpr(ctx, mod, b.X, nil); err != nil {
			return nil, err
		}
		if y, err = checkExpr(ctx, mod, b.Y, numericHint(x)); err != nil {
			return nil, err
		}
	}

	result, diag := compat.BinaryResult(b.Op, operand(x), operand(y))
	if diag != nil {
		return nil, at(mod, b, diag, "invalid operands")
	}
	return result, nil
}

func numericHint(t types.SemType) types.SemType {
	if types.IsNumeric(t) {
		return t
	}
	return nil
}

// checkLogical checks && and ||. The right operand sees what the left one
// implies: x != null && x.f narrows x inside x.f.
func checkLogical(ctx *compctx.CompilerContext, mod *compctx.Module, b *ast.BinaryExpr) (types.SemType, error) {
	x, err := checkExpr(ctx, mod, b.X, types.TypeBool)
	if err != nil {
		return nil, err
	}
	then, els := narrowing.Analyze(b.X, mod)
	implied := then
	if b.Op == tokens.OR_TOKEN {
		implied = els
	}

	y, err := func() (types.SemType, error) {
		defer mod.Narrowing.Push(implied)()
		return checkExpr(ctx, mod, b.Y, types.TypeBool)
	}()
	if err != nil {
		return nil, err
	}
	if types.IsAbsorbing(x) || types.IsAbsorbing(y) {
		return types.TypeBool, nil
	}

	result, diag := compat.BinaryResult(b.Op, x, y)
	if diag != nil {
		return nil, at(mod, b, diag, "invalid operands")
	}
	return result, nil
}

func checkUnary(ctx *compctx.CompilerContext, mod *compctx.Module, u *ast.UnaryExpr, expected types.SemType) (types.SemType, error) {
	// -128 must fit the target as a whole
	if lit, ok := unparen(u.X).(*ast.BasicLit); ok && u.Op == tokens.MINUS_TOKEN && lit.Kind == ast.INT {
		negated := &ast.BasicLit{Kind: ast.INT, Value: "-" + lit.Value, Location: lit.Location}
		t, diag := inference.LiteralType(negated, expected)
		if diag != nil {
			return nil, at(mod, u, diag, "literal out of range")
		}
		mod.Record(u.X, t)
		return t, nil
	}

	var hint types.SemType
	switch u.Op {
	case tokens.NOT_TOKEN:
		hint = types.TypeBool
	case tokens.MINUS_TOKEN, tokens.PLUS_TOKEN, tokens.BIT_NOT_TOKEN:
		hint = numericHint(expected)
	}
	x, err := checkExpr(ctx, mod, u.X, hint)
	if err != nil {
		return nil, err
	}
	result, diag := compat.UnaryResult(u.Op, operand(x))
	if diag != nil {
		return nil, at(mod, u, diag, "invalid operand")
	}
	return result, nil
}

func checkIncDec(ctx *compctx.CompilerContext, mod *compctx.Module, node ast.Expression, op tokens.TOKEN, x ast.Expression) (types.SemType, error) {
	target, err := checkLvalue(ctx, mod, x)
	if err != nil {
		return nil, err
	}
	result, diag := compat.IncDecResult(op, operand(target))
	if diag != nil {
		return nil, at(mod, node, diag, "invalid operand")
	}
	return result, nil
}

// checkLvalue checks an assignment target and returns its declared type
func checkLvalue(ctx *compctx.CompilerContext, mod *compctx.Module, e ast.Expression) (types.SemType, error) {
	switch target := unparen(e).(type) {
	case *ast.IdentifierExpr:
		sym, ok := mod.Table.Lookup(target.Name)
		if !ok {
			return nil, diagnostics.UndefinedSymbol(mod.FilePath, target.Loc(), target.Name)
		}
		if sym.Kind.IsType() || sym.Kind == symbols.SymbolFunction {
			return nil, diagnostics.NewError("cannot assign to "+sym.Kind.String()+" "+target.Name).
				WithCode(diagnostics.ErrInvalidAssignment).
				WithPrimaryLabel(mod.FilePath, target.Loc(), "not a variable")
		}
		if sym.IsConst {
			return nil, diagnostics.NewError("cannot assign to constant "+target.Name).
				WithCode(diagnostics.ErrConstantReassignment).
				WithPrimaryLabel(mod.FilePath, target.Loc(), "declared with const").
				WithHelp("declare it with let to allow reassignment")
		}
		declared := mod.Resolver.Deref(sym.Type)
		mod.Record(target, declared)
		return declared, nil

	case *ast.SelectorExpr:
		return checkFieldTarget(ctx, mod, target)

	case *ast.IndexExpr:
		return checkExpr(ctx, mod, target, nil)
	}
	return nil, diagnostics.NewError("invalid assignment target").
		WithCode(diagnostics.ErrInvalidAssignment).
		WithPrimaryLabel(mod.FilePath, e.Loc(), "cannot be assigned")
}

func checkAssignExpr(ctx *compctx.CompilerContext, mod *compctx.Module, a *ast.AssignExpr) (types.SemType, error) {
	target, err := checkLvalue(ctx, mod, a.Lhs)
	if err != nil {
		return nil, err
	}

	if a.Op == tokens.EQUALS_TOKEN {
		value, err := checkExpr(ctx, mod, a.Rhs, target)
		if err != nil {
			return nil, err
		}
		if err := checkAssignable(mod, a.Rhs, value, target, "expected "+target.String()); err != nil {
			return nil, err
		}
	} else {
		value, err := checkExpr(ctx, mod, a.Rhs, numericHint(target))
		if err != nil {
			return nil, err
		}
		if _, diag := compat.CheckCompoundAssign(a.Op, operand(target), operand(value)); diag != nil {
			return nil, at(mod, a, diag, "invalid compound assignment")
		}
	}

	// a reassigned variable loses its narrowed type
	if id, ok := unparen(a.Lhs).(*ast.IdentifierExpr); ok {
		mod.Narrowing.Forget(id.Name, target)
	}
	return target, nil
}

func checkIndex(ctx *compctx.CompilerContext, mod *compctx.Module, ix *ast.IndexExpr) (types.SemType, error) {
	object, err := checkExpr(ctx, mod, ix.X, nil)
	if err != nil {
		return nil, err
	}
	var hint types.SemType = types.TypeInt
	if m, ok := object.(*types.MapType); ok {
		hint = m.Key
	}
	index, err := checkExpr(ctx, mod, ix.Index, hint)
	if err != nil {
		return nil, err
	}
	result, diag := compat.IndexResult(operand(object), operand(index))
	if diag != nil {
		return nil, at(mod, ix, diag, "invalid index")
	}
	return result, nil
}

func checkRange(ctx *compctx.CompilerContext, mod *compctx.Module, r *ast.RangeExpr) (types.SemType, error) {
	start, err := checkExpr(ctx, mod, r.Start, types.TypeInt)
	if err != nil {
		return nil, err
	}
	end, err := checkExpr(ctx, mod, r.End, types.TypeInt)
	if err != nil {
		return nil, err
	}
	result, diag := compat.RangeResult(operand(start), operand(end))
	if diag != nil {
		return nil, at(mod, r, diag, "invalid range")
	}
	return result, nil
}

func checkAwait(ctx *compctx.CompilerContext, mod *compctx.Module, a *ast.AwaitExpr, expected types.SemType) (types.SemType, error) {
	if !mod.InAsync() {
		return nil, contextError(mod, a, diagnostics.ErrInvalidAwait,
			"await outside an async function", "mark the enclosing function async")
	}
	var hint types.SemType
	if expected != nil {
		hint = types.NewFuture(expected)
	}
	t, err := checkExpr(ctx, mod, a.X, hint)
	if err != nil {
		return nil, err
	}
	if types.IsAbsorbing(t) {
		return types.TypeAny, nil
	}
	if f, ok := t.(*types.FutureType); ok {
		return f.Inner, nil
	}
	return nil, typeMismatch(mod, a.X, "expected Future<T>, found %s", t)
}

func checkThis(mod *compctx.Module, e *ast.ThisExpr) (types.SemType, error) {
	if mod.CurrentClass == "" {
		return nil, contextError(mod, e, diagnostics.ErrInvalidThis, "this outside a class", "")
	}
	if fn := mod.CurrentFunction; fn != nil && fn.Static {
		return nil, contextError(mod, e, diagnostics.ErrInvalidThis, "this inside a static member", "static members have no instance")
	}
	class, ok := mod.ClassNamed(mod.CurrentClass)
	if !ok {
		return nil, contextError(mod, e, diagnostics.ErrInvalidThis, "this outside a class", "")
	}
	return class, nil
}

func checkSuper(mod *compctx.Module, e *ast.SuperExpr) (types.SemType, error) {
	super, err := superclass(mod, e)
	if err != nil {
		return nil, err
	}
	return super, nil
}

// superclass returns the current definition of the enclosing class's superclass
func superclass(mod *compctx.Module, node ast.Node) (*types.ClassType, error) {
	if mod.CurrentClass == "" {
		return nil, contextError(mod, node, diagnostics.ErrInvalidSuper, "super outside a class", "")
	}
	if fn := mod.CurrentFunction; fn != nil && fn.Static {
		return nil, contextError(mod, node, diagnostics.ErrInvalidSuper, "super inside a static member", "")
	}
	class, ok := mod.ClassNamed(mod.CurrentClass)
	if !ok || class.Superclass == nil {
		return nil, contextError(mod, node, diagnostics.ErrInvalidSuper,
			"super in class "+mod.CurrentClass+" which has no superclass", "")
	}
	if current, ok := mod.ClassNamed(class.Superclass.Name); ok {
		return current, nil
	}
	return class.Superclass, nil
}

func checkInstanceof(ctx *compctx.CompilerContext, mod *compctx.Module, e *ast.InstanceofExpr) (types.SemType, error) {
	if _, err := checkExpr(ctx, mod, e.X, nil); err != nil {
		return nil, err
	}
	sym, ok := mod.Table.Lookup(e.Class.Name)
	if !ok {
		return nil, diagnostics.UndefinedSymbol(mod.FilePath, e.Class.Loc(), e.Class.Name)
	}
	if sym.Kind != symbols.SymbolClass {
		return nil, diagnostics.NotAClass(mod.FilePath, e.Class.Loc(), e.Class.Name)
	}
	return types.TypeBool, nil
}

func checkConditional(ctx *compctx.CompilerContext, mod *compctx.Module, c *ast.ConditionalExpr, expected types.SemType) (types.SemType, error) {
	then, els, err := checkCondition(ctx, mod, c.Cond)
	if err != nil {
		return nil, err
	}
	branch := func(e ast.Expression, n narrowing.Narrowings) (types.SemType, error) {
		defer mod.Narrowing.Push(n)()
		return checkExpr(ctx, mod, e, expected)
	}
	a, err := branch(c.Then, then)
	if err != nil {
		return nil, err
	}
	b, err := branch(c.Else, els)
	if err != nil {
		return nil, err
	}
	return inference.CommonType([]types.SemType{a, b}, ctx.Config.MaxUnionWidth), nil
}

func checkNullCoalesce(ctx *compctx.CompilerContext, mod *compctx.Module, n *ast.NullCoalesceExpr, expected types.SemType) (types.SemType, error) {
	x, err := checkExpr(ctx, mod, n.X, expected)
	if err != nil {
		return nil, err
	}
	present := types.StripNull(x)
	hint := expected
	if hint == nil {
		hint = present
	}
	y, err := checkExpr(ctx, mod, n.Y, hint)
	if err != nil {
		return nil, err
	}
	return inference.CommonType([]types.SemType{present, y}, ctx.Config.MaxUnionWidth), nil
}

func checkMatch(ctx *compctx.CompilerContext, mod *compctx.Module, m *ast.MatchExpr, expected types.SemType) (types.SemType, error) {
	subject, err := checkExpr(ctx, mod, m.Subject, nil)
	if err != nil {
		return nil, err
	}

	var bodies []types.SemType
	for _, arm := range m.Arms {
		if arm.Pattern != nil && !isWildcard(arm.Pattern) {
			pt, err := checkExpr(ctx, mod, arm.Pattern, subject)
			if err != nil {
				return nil, err
			}
			if _, diag := compat.BinaryResult(tokens.DOUBLE_EQUAL_TOKEN, subject, pt); diag != nil {
				return nil, at(mod, arm.Pattern, diag, "pattern")
			}
		}
		bt, err := checkExpr(ctx, mod, arm.Body, expected)
		if err != nil {
			return nil, err
		}
		if inference.HasHint(expected) {
			if err := checkAssignable(mod, arm.Body, bt, expected, "expected "+expected.String()); err != nil {
				return nil, err
			}
		}
		bodies = append(bodies, bt)
	}

	if inference.HasHint(expected) {
		return expected, nil
	}
	return inference.CommonType(bodies, ctx.Config.MaxUnionWidth), nil
}

func isWildcard(e ast.Expression) bool {
	id, ok := unparen(e).(*ast.IdentifierExpr)
	return ok && id.Name == "_"
}

// checkClassExpr registers a class written in expression position and
// checks it right away. The expression's value is the class itself.
func checkClassExpr(ctx *compctx.CompilerContext, mod *compctx.Module, c *ast.ClassExpr) (types.SemType, error) {
	if c.Decl == nil || c.Decl.Name == nil {
		return nil, invalidOperation(mod, c, "class expression without a name")
	}
	if err := collector.CollectDecl(ctx, mod, c.Decl); err != nil {
		return nil, err
	}
	if err := checkClassDecl(ctx, mod, c.Decl); err != nil {
		return nil, err
	}
	class, ok := mod.ClassNamed(c.Decl.Name.Name)
	if !ok {
		return types.TypeUnknown, nil
	}
	return class, nil
}
