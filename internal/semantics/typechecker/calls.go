package typechecker

import (
	"fmt"

	"typeengine/internal/compctx"
	"typeengine/internal/diagnostics"
	"typeengine/internal/frontend/ast"
	"typeengine/internal/semantics/inference"
	"typeengine/internal/types"
)

func checkCall(ctx *compctx.CompilerContext, mod *compctx.Module, c *ast.CallExpr, expected types.SemType) (types.SemType, error) {
	if _, ok := unparen(c.Fun).(*ast.SuperExpr); ok {
		return checkSuperCall(ctx, mod, c)
	}
	callee, err := checkExpr(ctx, mod, c.Fun, nil)
	if err != nil {
		return nil, err
	}
	explicit, err := resolveTypeArgs(mod, c.TypeArgs)
	if err != nil {
		return nil, err
	}
	return callValue(ctx, mod, c, callee, explicit, c.Args)
}

// callValue applies a callee of any type to arguments
func callValue(ctx *compctx.CompilerContext, mod *compctx.Module, node ast.Node, callee types.SemType, explicit []types.SemType, args []ast.Expression) (types.SemType, error) {
	if types.IsAbsorbing(callee) {
		for _, arg := range args {
			if sp, ok := arg.(*ast.SpreadExpr); ok {
				arg = sp.X
			}
			if _, err := checkExpr(ctx, mod, arg, nil); err != nil {
				return nil, err
			}
		}
		return types.TypeAny, nil
	}
	fn, ok := callee.(*types.FunctionType)
	if !ok {
		return nil, diagnostics.NotCallable(mod.FilePath, node.Loc(), callee.String())
	}
	ret, _, err := checkArguments(ctx, mod, node, fn, explicit, args)
	return ret, err
}

func resolveTypeArgs(mod *compctx.Module, nodes []ast.TypeNode) ([]types.SemType, error) {
	if len(nodes) == 0 {
		return nil, nil
	}
	out := make([]types.SemType, len(nodes))
	for i, n := range nodes {
		t, err := resolveAnnotation(mod, n)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// checkArguments matches arguments against a signature and returns the
// instantiated result type together with the type-parameter bindings.
//
// A variadic signature accepts any number of arguments after its fixed
// parameters; each extra argument must fit the element type of the last
// parameter, and a spread argument must fit the list itself. Generic
// signatures bind their type parameters from explicit arguments, or by
// inference from the argument types.
func checkArguments(ctx *compctx.CompilerContext, mod *compctx.Module, node ast.Node, fn *types.FunctionType, explicit []types.SemType, args []ast.Expression) (types.SemType, map[string]types.SemType, error) {
	n := len(fn.Params)
	if fn.IsVariadic {
		if len(args) < n-1 {
			return nil, nil, diagnostics.WrongArgumentCount(mod.FilePath, node.Loc(), n-1, len(args)).
				WithNote(fmt.Sprintf("%s takes at least %d argument(s)", fn, n-1))
		}
	} else if len(args) != n {
		return nil, nil, diagnostics.WrongArgumentCount(mod.FilePath, node.Loc(), n, len(args))
	}

	var subst map[string]types.SemType
	if len(explicit) > 0 {
		if len(fn.TypeParams) == 0 {
			return nil, nil, invalidOperation(mod, node, "%s takes no type arguments", fn)
		}
		var diag *diagnostics.Diagnostic
		if subst, diag = inference.ExplicitTypeArguments(fn.TypeParams, explicit); diag != nil {
			return nil, nil, at(mod, node, diag, "type arguments")
		}
	}

	paramTypes := make([]types.SemType, len(args))
	argTypes := make([]types.SemType, len(args))
	for i, arg := range args {
		variadicSlot := fn.IsVariadic && i >= n-1
		spread, isSpread := arg.(*ast.SpreadExpr)

		var pt types.SemType
		switch {
		case isSpread && !variadicSlot:
			return nil, nil, contextError(mod, arg, diagnostics.ErrInvalidSpread,
				"spread argument must fill a variadic parameter", "")
		case isSpread:
			pt = fn.Params[n-1].Type
		case variadicSlot:
			pt = types.TypeAny
			if l, ok := fn.Params[n-1].Type.(*types.ListType); ok {
				pt = l.Element
			}
		default:
			pt = fn.Params[i].Type
		}
		pt = mod.Resolver.Deref(pt)
		paramTypes[i] = pt

		hint := types.Substitute(pt, subst)
		if types.ContainsTypeParam(hint) {
			hint = nil
		}
		expr := arg
		if isSpread {
			expr = spread.X
		}
		argType, err := checkExpr(ctx, mod, expr, hint)
		if err != nil {
			return nil, nil, err
		}
		if isSpread {
			mod.Record(arg, argType)
		}
		argTypes[i] = argType
	}

	if len(fn.TypeParams) > 0 {
		if subst == nil {
			subst = inference.InferTypeArguments(fn.TypeParams, paramTypes, argTypes)
		}
		if diag := inference.CheckConstraints(fn.TypeParams, subst); diag != nil {
			return nil, nil, at(mod, node, diag, "type arguments")
		}
	}

	for i, arg := range args {
		target := types.Substitute(paramTypes[i], subst)
		if err := checkAssignable(mod, arg, argTypes[i], target, fmt.Sprintf("argument %d", i+1)); err != nil {
			return nil, nil, err
		}
	}
	return mod.Resolver.Deref(types.Substitute(fn.Return, subst)), subst, nil
}

// nearestConstructor walks up the class chain to the first declared constructor
func nearestConstructor(mod *compctx.Module, class *types.ClassType) *types.FunctionType {
	for cur := class; cur != nil; {
		if cur.Constructor != nil {
			return cur.Constructor
		}
		if cur.Superclass == nil {
			return nil
		}
		next, ok := mod.ClassNamed(cur.Superclass.Name)
		if !ok {
			next = cur.Superclass
		}
		cur = next
	}
	return nil
}

func checkNew(ctx *compctx.CompilerContext, mod *compctx.Module, n *ast.NewExpr, expected types.SemType) (types.SemType, error) {
	if _, ok := mod.Table.Lookup(n.Class.Name); !ok {
		return nil, diagnostics.UndefinedSymbol(mod.FilePath, n.Class.Loc(), n.Class.Name)
	}
	class, ok := mod.ClassNamed(n.Class.Name)
	if !ok {
		return nil, diagnostics.NotAClass(mod.FilePath, n.Class.Loc(), n.Class.Name)
	}
	if class.IsAbstract {
		return nil, invalidOperation(mod, n, "cannot instantiate abstract class %s", class.Name)
	}

	sig := &types.FunctionType{Return: types.TypeVoid}
	if ctor := nearestConstructor(mod, class); ctor != nil {
		cp := *ctor
		sig = &cp
	}
	sig.TypeParams = class.TypeParams

	explicit, err := resolveTypeArgs(mod, n.TypeArgs)
	if err != nil {
		return nil, err
	}
	// let b: Box<int> = new Box(...) takes its arguments from the annotation
	if len(explicit) == 0 && len(class.TypeParams) > 0 {
		if g, ok := inference.Unwrap(expected).(*types.GenericType); ok && g.Base.Equals(class) && len(g.Args) == len(class.TypeParams) {
			explicit = g.Args
		}
	}

	_, subst, err := checkArguments(ctx, mod, n, sig, explicit, n.Args)
	if err != nil {
		return nil, err
	}
	if len(class.TypeParams) == 0 {
		return class, nil
	}
	args := make([]types.SemType, len(class.TypeParams))
	for i, tp := range class.TypeParams {
		args[i] = subst[tp.Name]
	}
	return types.NewGeneric(class, args), nil
}

// checkSuperCall checks super(...) against the superclass constructor
func checkSuperCall(ctx *compctx.CompilerContext, mod *compctx.Module, c *ast.CallExpr) (types.SemType, error) {
	if fn := mod.CurrentFunction; fn == nil || fn.Name != constructorName {
		return nil, contextError(mod, c, diagnostics.ErrInvalidSuper, "super(...) outside a constructor", "")
	}
	super, err := superclass(mod, c.Fun)
	if err != nil {
		return nil, err
	}
	mod.Record(c.Fun, super)

	sig := &types.FunctionType{Return: types.TypeVoid}
	if ctor := nearestConstructor(mod, super); ctor != nil {
		sig = ctor
	}
	if _, _, err := checkArguments(ctx, mod, c, sig, nil, c.Args); err != nil {
		return nil, err
	}
	return types.TypeVoid, nil
}
