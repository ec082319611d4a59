package typechecker

import (
	"typeengine/internal/compctx"
	"typeengine/internal/diagnostics"
	"typeengine/internal/frontend/ast"
	"typeengine/internal/semantics/inference"
	"typeengine/internal/types"
)

// checkList types a list literal. With an element hint every element must
// fit the hint and the result is List<hint>; otherwise the element type is
// the common type of the elements. An empty list without a hint is
// List<Unknown>.
func checkList(ctx *compctx.CompilerContext, mod *compctx.Module, l *ast.ListLit, expected types.SemType) (types.SemType, error) {
	elemHint := inference.ElementHint(expected)
	var listHint types.SemType
	if elemHint != nil {
		listHint = types.NewList(elemHint)
	}

	elems := make([]types.SemType, 0, len(l.Elts))
	for _, e := range l.Elts {
		if sp, ok := e.(*ast.SpreadExpr); ok {
			st, err := checkExpr(ctx, mod, sp.X, listHint)
			if err != nil {
				return nil, err
			}
			mod.Record(sp, st)
			switch v := st.(type) {
			case *types.ListType:
				elems = append(elems, v.Element)
			default:
				if !types.IsAbsorbing(st) {
					return nil, contextError(mod, sp, diagnostics.ErrInvalidSpread, "cannot spread "+st.String()+" into a list", "")
				}
				elems = append(elems, types.TypeAny)
			}
			continue
		}
		et, err := checkExpr(ctx, mod, e, elemHint)
		if err != nil {
			return nil, err
		}
		elems = append(elems, et)
	}

	if inference.HasHint(elemHint) {
		for i, et := range elems {
			if err := checkAssignable(mod, l.Elts[i], et, elemHint, "expected "+elemHint.String()); err != nil {
				return nil, err
			}
		}
		return types.NewList(elemHint), nil
	}
	if len(elems) == 0 {
		if elemHint != nil {
			return types.NewList(elemHint), nil
		}
		return types.NewList(types.TypeUnknown), nil
	}
	return types.NewList(inference.CommonType(elems, ctx.Config.MaxUnionWidth)), nil
}

// shapeOf returns the public instance shape of an object-like type for spreading
func shapeOf(mod *compctx.Module, t types.SemType) (map[string]types.PropertyInfo, bool) {
	switch v := t.(type) {
	case *types.InterfaceType:
		return v.Properties, true
	case *types.ClassType:
		shape := map[string]types.PropertyInfo{}
		for cur := v; cur != nil; cur = cur.Superclass {
			if fresh, ok := mod.ClassNamed(cur.Name); ok {
				cur = fresh
			}
			for name, m := range cur.Properties {
				if _, seen := shape[name]; !seen && !m.Static && m.Visibility == types.Public {
					shape[name] = types.PropertyInfo{Type: m.Type}
				}
			}
		}
		return shape, true
	}
	return nil, false
}

// checkObject types an object literal. Against an interface hint the literal
// must provide every required property and nothing else, and its type is the
// hint. Without one it becomes an anonymous interface.
func checkObject(ctx *compctx.CompilerContext, mod *compctx.Module, o *ast.ObjectLit, expected types.SemType) (types.SemType, error) {
	shape := inference.ShapeHint(expected)

	props := map[string]types.PropertyInfo{}
	keys := map[string]*ast.IdentifierExpr{}
	for _, p := range o.Props {
		if p.Spread != nil {
			st, err := checkExpr(ctx, mod, p.Spread, nil)
			if err != nil {
				return nil, err
			}
			spread, ok := shapeOf(mod, mod.Resolver.Deref(st))
			if !ok {
				if types.IsAbsorbing(st) {
					continue
				}
				return nil, contextError(mod, p.Spread, diagnostics.ErrInvalidSpread, "cannot spread "+st.String()+" into an object", "")
			}
			for name, info := range spread {
				props[name] = info
			}
			continue
		}

		var hint types.SemType
		if shape != nil {
			if want, ok := shape.Properties[p.Key.Name]; ok {
				hint = want.Type
			}
		}
		vt, err := checkExpr(ctx, mod, p.Value, hint)
		if err != nil {
			return nil, err
		}
		props[p.Key.Name] = types.PropertyInfo{Type: vt}
		keys[p.Key.Name] = p.Key
	}

	if shape == nil {
		return types.NewInterface("", props), nil
	}
	if err := matchShape(mod, o, props, keys, shape); err != nil {
		return nil, err
	}
	return shape, nil
}

func matchShape(mod *compctx.Module, o *ast.ObjectLit, props map[string]types.PropertyInfo, keys map[string]*ast.IdentifierExpr, shape *types.InterfaceType) error {
	have := types.NewInterface("", props)
	for _, name := range have.PropertyNames() {
		if _, ok := shape.Properties[name]; ok {
			continue
		}
		var node ast.Node = o
		if key, ok := keys[name]; ok {
			node = key
		}
		return typeMismatch(mod, node, "property %s does not exist on %s", name, shape)
	}

	for _, name := range shape.PropertyNames() {
		want := shape.Properties[name]
		got, ok := props[name]
		if !ok {
			if want.Optional {
				continue
			}
			return typeMismatch(mod, o, "missing property %s required by %s", name, shape)
		}
		var node ast.Node = o
		if key, ok := keys[name]; ok {
			node = key
		}
		if err := checkAssignable(mod, node, got.Type, want.Type, "property "+name); err != nil {
			return err
		}
	}
	return nil
}

// checkArrow types an arrow function. Unannotated parameters take their type
// from a function hint, else Any. Arrows keep the enclosing this.
func checkArrow(ctx *compctx.CompilerContext, mod *compctx.Module, f *ast.ArrowFunc, expected types.SemType) (types.SemType, error) {
	hint := inference.FunctionHint(expected)

	sig := &types.FunctionType{Return: types.TypeUnknown}
	for i, p := range f.Params {
		var pt types.SemType
		switch {
		case p.Type != nil:
			t, err := mod.Resolver.ResolveParam(p)
			if err != nil {
				return nil, diagnostics.NewError(err.Error()).
					WithCode(diagnostics.ErrInvalidType).
					WithPrimaryLabel(mod.FilePath, &p.Location, "invalid parameter type")
			}
			pt = t
		case hint != nil && i < len(hint.Params):
			pt = hint.Params[i].Type
		case p.IsVariadic:
			pt = types.NewList(types.TypeAny)
		default:
			pt = types.TypeAny
		}
		if p.IsVariadic {
			if i != len(f.Params)-1 {
				return nil, invalidOperation(mod, f, "variadic parameter %s must be last", p.Name.Name)
			}
			sig.IsVariadic = true
		}
		sig.Params = append(sig.Params, types.ParamType{Name: p.Name.Name, Type: pt})
	}
	if f.Result != nil {
		ret, err := resolveAnnotation(mod, f.Result)
		if err != nil {
			return nil, err
		}
		if f.IsAsync {
			ret = types.AsFuture(ret)
		}
		sig.Return = ret
	}

	static := false
	if fn := mod.CurrentFunction; fn != nil {
		static = fn.Static
	}
	ret, err := checkFunctionBody(ctx, mod, functionBody{
		name:     "<arrow>",
		loc:      f.Loc(),
		sig:      sig,
		params:   f.Params,
		block:    f.Body,
		expr:     f.ExprBody,
		isAsync:  f.IsAsync,
		static:   static,
		inferred: f.Result == nil,
	})
	if err != nil {
		return nil, err
	}
	return sig.WithReturn(ret), nil
}
