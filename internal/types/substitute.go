package types

// Substitute replaces type parameters in t by the bindings in subst.
// Parameters without a binding are left in place. Classes and enums are
// nominal and are returned unchanged.
func Substitute(t SemType, subst map[string]SemType) SemType {
	if len(subst) == 0 || t == nil {
		return t
	}
	switch v := t.(type) {
	case *TypeParamType:
		if b, ok := subst[v.Name]; ok {
			return b
		}
		return v
	case *ListType:
		return NewList(Substitute(v.Element, subst))
	case *MapType:
		return NewMap(Substitute(v.Key, subst), Substitute(v.Value, subst))
	case *NullableType:
		return NewNullable(Substitute(v.Inner, subst))
	case *FutureType:
		return NewFuture(Substitute(v.Inner, subst))
	case *UnionType:
		members := make([]SemType, len(v.Members))
		for i, m := range v.Members {
			members[i] = Substitute(m, subst)
		}
		return NewUnion(members...)
	case *FunctionType:
		params := make([]ParamType, len(v.Params))
		for i, p := range v.Params {
			params[i] = ParamType{Name: p.Name, Type: Substitute(p.Type, subst)}
		}
		// parameters bound by this signature shadow outer bindings
		inner := subst
		if len(v.TypeParams) > 0 {
			inner = make(map[string]SemType, len(subst))
			for k, b := range subst {
				inner[k] = b
			}
			for _, tp := range v.TypeParams {
				delete(inner, tp.Name)
			}
			for i, p := range v.Params {
				params[i].Type = Substitute(p.Type, inner)
			}
		}
		return &FunctionType{
			Params:     params,
			Return:     Substitute(v.Return, inner),
			IsVariadic: v.IsVariadic,
			TypeParams: v.TypeParams,
		}
	case *InterfaceType:
		props := make(map[string]PropertyInfo, len(v.Properties))
		for name, p := range v.Properties {
			props[name] = PropertyInfo{Type: Substitute(p.Type, subst), Optional: p.Optional}
		}
		return &InterfaceType{Name: v.Name, Properties: props, TypeParams: v.TypeParams}
	case *GenericType:
		args := make([]SemType, len(v.Args))
		for i, a := range v.Args {
			args[i] = Substitute(a, subst)
		}
		return NewGeneric(v.Base, args)
	}
	return t
}

// ContainsTypeParam reports whether any type parameter occurs in t
func ContainsTypeParam(t SemType) bool {
	switch v := t.(type) {
	case *TypeParamType:
		return true
	case *ListType:
		return ContainsTypeParam(v.Element)
	case *MapType:
		return ContainsTypeParam(v.Key) || ContainsTypeParam(v.Value)
	case *NullableType:
		return ContainsTypeParam(v.Inner)
	case *FutureType:
		return ContainsTypeParam(v.Inner)
	case *UnionType:
		for _, m := range v.Members {
			if ContainsTypeParam(m) {
				return true
			}
		}
	case *FunctionType:
		for _, p := range v.Params {
			if ContainsTypeParam(p.Type) {
				return true
			}
		}
		return ContainsTypeParam(v.Return)
	case *GenericType:
		for _, a := range v.Args {
			if ContainsTypeParam(a) {
				return true
			}
		}
	}
	return false
}
