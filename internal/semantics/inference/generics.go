package inference

import (
	"fmt"

	"typeengine/internal/diagnostics"
	"typeengine/internal/types"
)

// InferTypeArguments unifies parameter types against argument types and
// returns a binding for every declared type parameter.
//
// A bare type parameter binds to its argument. If it is already bound and both
// bindings are numeric, the widened kind replaces the binding; any other
// second binding is ignored. List, Map, Nullable, Future, Function and
// Generic wrappers are walked structurally. Parameters left unbound default to
// their constraint, else Unknown.
func InferTypeArguments(typeParams []*types.TypeParamType, paramTypes, argTypes []types.SemType) map[string]types.SemType {
	declared := make(map[string]bool, len(typeParams))
	for _, tp := range typeParams {
		declared[tp.Name] = true
	}
	subst := make(map[string]types.SemType, len(typeParams))

	n := len(paramTypes)
	if len(argTypes) < n {
		n = len(argTypes)
	}
	for i := 0; i < n; i++ {
		unify(paramTypes[i], argTypes[i], declared, subst)
	}

	for _, tp := range typeParams {
		if _, ok := subst[tp.Name]; ok {
			continue
		}
		if tp.Constraint != nil {
			subst[tp.Name] = tp.Constraint
		} else {
			subst[tp.Name] = types.TypeUnknown
		}
	}
	return subst
}

func bind(name string, arg types.SemType, subst map[string]types.SemType) {
	prev, ok := subst[name]
	if !ok {
		subst[name] = arg
		return
	}
	if types.IsNumeric(prev) && types.IsNumeric(arg) {
		subst[name] = types.NewPrimitive(types.WiderNumeric(prev.Kind(), arg.Kind()))
	}
}

func unify(param, arg types.SemType, declared map[string]bool, subst map[string]types.SemType) {
	if param == nil || arg == nil {
		return
	}
	switch p := param.(type) {
	case *types.TypeParamType:
		if declared[p.Name] {
			bind(p.Name, arg, subst)
		}
	case *types.ListType:
		if a, ok := arg.(*types.ListType); ok {
			unify(p.Element, a.Element, declared, subst)
		}
	case *types.MapType:
		if a, ok := arg.(*types.MapType); ok {
			unify(p.Key, a.Key, declared, subst)
			unify(p.Value, a.Value, declared, subst)
		}
	case *types.NullableType:
		switch a := arg.(type) {
		case *types.NullableType:
			unify(p.Inner, a.Inner, declared, subst)
		default:
			if !types.IsNull(arg) {
				unify(p.Inner, arg, declared, subst)
			}
		}
	case *types.FutureType:
		if a, ok := arg.(*types.FutureType); ok {
			unify(p.Inner, a.Inner, declared, subst)
		}
	case *types.FunctionType:
		if a, ok := arg.(*types.FunctionType); ok && len(a.Params) == len(p.Params) {
			for i := range p.Params {
				unify(p.Params[i].Type, a.Params[i].Type, declared, subst)
			}
			unify(p.Return, a.Return, declared, subst)
		}
	case *types.GenericType:
		if a, ok := arg.(*types.GenericType); ok && len(a.Args) == len(p.Args) && p.Base.Equals(a.Base) {
			for i := range p.Args {
				unify(p.Args[i], a.Args[i], declared, subst)
			}
		}
	}
}

// CheckConstraints verifies that every binding satisfies its parameter's constraint
func CheckConstraints(typeParams []*types.TypeParamType, subst map[string]types.SemType) *diagnostics.Diagnostic {
	for _, tp := range typeParams {
		if tp.Constraint == nil {
			continue
		}
		got, ok := subst[tp.Name]
		if !ok || types.IsUnknown(got) {
			continue
		}
		if !types.IsAssignableTo(got, tp.Constraint) {
			return diagnostics.NewError(fmt.Sprintf("type argument %s does not satisfy constraint %s of %s", got, tp.Constraint, tp.Name)).
				WithCode(diagnostics.ErrConstraintViolation)
		}
	}
	return nil
}

// ExplicitTypeArguments pairs explicit type arguments with declared parameters
func ExplicitTypeArguments(typeParams []*types.TypeParamType, args []types.SemType) (map[string]types.SemType, *diagnostics.Diagnostic) {
	if len(args) != len(typeParams) {
		return nil, diagnostics.NewError(fmt.Sprintf("expected %d type argument(s), got %d", len(typeParams), len(args))).
			WithCode(diagnostics.ErrWrongArgumentCount)
	}
	subst := make(map[string]types.SemType, len(args))
	for i, tp := range typeParams {
		subst[tp.Name] = args[i]
	}
	return subst, nil
}
