package resolver

import (
	"github.com/pkg/errors"

	"typeengine/internal/frontend/ast"
	"typeengine/internal/semantics/symbols"
	"typeengine/internal/types"
)

// Scope is the symbol lookup the resolver needs; *table.Table satisfies it.
type Scope interface {
	Lookup(name string) (*symbols.Symbol, bool)
}

// Resolver turns type annotations into semantic types. Names that are not
// declared yet become TypeRefs so declarations may refer forward; Deref
// replaces them once the referenced declaration is registered.
type Resolver struct {
	Scope Scope
	File  string
}

func New(scope Scope, file string) *Resolver {
	return &Resolver{Scope: scope, File: file}
}

// Resolve converts an annotation. A nil annotation resolves to Unknown.
func (r *Resolver) Resolve(node ast.TypeNode) (types.SemType, error) {
	if node == nil {
		return types.TypeUnknown, nil
	}

	switch t := node.(type) {
	case *ast.NamedType:
		return r.resolveNamed(t)

	case *ast.ArrayType:
		el, err := r.Resolve(t.ElType)
		if err != nil {
			return nil, err
		}
		return types.NewList(el), nil

	case *ast.NullableType:
		inner, err := r.Resolve(t.Base)
		if err != nil {
			return nil, err
		}
		return types.NewNullable(inner), nil

	case *ast.UnionType:
		members, err := r.resolveAll(t.Members)
		if err != nil {
			return nil, err
		}
		return types.NewUnion(members...), nil

	case *ast.FuncType:
		return r.ResolveSignature(nil, t.Params, t.Result)

	case *ast.ObjectType:
		props := make(map[string]types.PropertyInfo, len(t.Properties))
		for _, p := range t.Properties {
			pt, err := r.Resolve(p.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "property %s", p.Name)
			}
			props[p.Name] = types.PropertyInfo{Type: pt, Optional: p.Optional}
		}
		return types.NewInterface("", props), nil
	}
	return nil, errors.Errorf("unsupported type annotation %T", node)
}

// ResolveSignature builds a function type from parameters and a result
// annotation. An absent result is Void. A variadic parameter must be last.
func (r *Resolver) ResolveSignature(typeParams []*types.TypeParamType, params []*ast.Param, result ast.TypeNode) (*types.FunctionType, error) {
	fn := &types.FunctionType{TypeParams: typeParams}
	for i, p := range params {
		pt, err := r.ResolveParam(p)
		if err != nil {
			return nil, err
		}
		if p.IsVariadic {
			if i != len(params)-1 {
				return nil, errors.Errorf("variadic parameter %s must be last", p.Name.Name)
			}
			fn.IsVariadic = true
		}
		fn.Params = append(fn.Params, types.ParamType{Name: p.Name.Name, Type: pt})
	}
	if result == nil {
		fn.Return = types.TypeVoid
		return fn, nil
	}
	ret, err := r.Resolve(result)
	if err != nil {
		return nil, err
	}
	fn.Return = ret
	return fn, nil
}

// ResolveParam resolves one parameter. Unannotated parameters are Any; an
// unannotated variadic parameter is List<Any>.
func (r *Resolver) ResolveParam(p *ast.Param) (types.SemType, error) {
	if p.Type == nil {
		if p.IsVariadic {
			return types.NewList(types.TypeAny), nil
		}
		return types.TypeAny, nil
	}
	pt, err := r.Resolve(p.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "parameter %s", p.Name.Name)
	}
	if p.IsVariadic {
		if _, ok := pt.(*types.ListType); !ok {
			return nil, errors.Errorf("variadic parameter %s must have a list type, got %s", p.Name.Name, pt)
		}
	}
	return pt, nil
}

func (r *Resolver) resolveAll(nodes []ast.TypeNode) ([]types.SemType, error) {
	out := make([]types.SemType, len(nodes))
	for i, n := range nodes {
		t, err := r.Resolve(n)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

func (r *Resolver) resolveNamed(t *ast.NamedType) (types.SemType, error) {
	args, err := r.resolveAll(t.Args)
	if err != nil {
		return nil, err
	}

	arity := func(n int) error {
		if len(args) != n {
			return errors.Errorf("%s expects %d type argument(s), got %d", t.Name, n, len(args))
		}
		return nil
	}

	switch t.Name {
	case "List", "Array":
		if err := arity(1); err != nil {
			return nil, err
		}
		return types.NewList(args[0]), nil
	case "Map":
		if err := arity(2); err != nil {
			return nil, err
		}
		return types.NewMap(args[0], args[1]), nil
	case "Future", "Promise":
		if err := arity(1); err != nil {
			return nil, err
		}
		return types.NewFuture(args[0]), nil
	}

	if prim, ok := types.PrimitiveByName(t.Name); ok {
		if err := arity(0); err != nil {
			return nil, err
		}
		return prim, nil
	}

	sym, ok := r.Scope.Lookup(t.Name)
	if !ok || sym.Type == nil {
		// forward reference
		if len(args) > 0 {
			return types.NewGeneric(types.NewTypeRef(t.Name, r.File), args), nil
		}
		return types.NewTypeRef(t.Name, r.File), nil
	}
	if !sym.Kind.IsType() {
		return nil, errors.Errorf("%s is a %s, not a type", t.Name, sym.Kind)
	}
	if len(args) == 0 {
		return sym.Type, nil
	}
	if alias, ok := sym.Decl.(*ast.TypeAliasDecl); ok {
		return instantiateAlias(alias, sym.Type, args)
	}
	return types.NewGeneric(sym.Type, args), nil
}

func instantiateAlias(alias *ast.TypeAliasDecl, body types.SemType, args []types.SemType) (types.SemType, error) {
	if len(alias.TypeParams) != len(args) {
		return nil, errors.Errorf("%s expects %d type argument(s), got %d", alias.Name.Name, len(alias.TypeParams), len(args))
	}
	subst := make(map[string]types.SemType, len(args))
	for i, tp := range alias.TypeParams {
		subst[tp.Name] = args[i]
	}
	return types.Substitute(body, subst), nil
}

// Deref replaces every TypeRef reachable through structural constructors with
// the type now registered under its name. Unknown names stay as TypeRefs.
func (r *Resolver) Deref(t types.SemType) types.SemType {
	return r.deref(t, 0)
}

// alias chains are bounded so a self-referential alias cannot loop forever
const maxDerefDepth = 32

func (r *Resolver) deref(t types.SemType, depth int) types.SemType {
	if depth > maxDerefDepth || types.FindTypeRef(t) == nil {
		return t
	}
	switch v := t.(type) {
	case *types.TypeRefType:
		sym, ok := r.Scope.Lookup(v.Name)
		if !ok || sym.Type == nil || !sym.Kind.IsType() {
			return v
		}
		return r.deref(sym.Type, depth+1)
	case *types.ListType:
		return types.NewList(r.deref(v.Element, depth))
	case *types.MapType:
		return types.NewMap(r.deref(v.Key, depth), r.deref(v.Value, depth))
	case *types.NullableType:
		return types.NewNullable(r.deref(v.Inner, depth))
	case *types.FutureType:
		return types.NewFuture(r.deref(v.Inner, depth))
	case *types.UnionType:
		members := make([]types.SemType, len(v.Members))
		for i, m := range v.Members {
			members[i] = r.deref(m, depth)
		}
		return types.NewUnion(members...)
	case *types.FunctionType:
		params := make([]types.ParamType, len(v.Params))
		for i, p := range v.Params {
			params[i] = types.ParamType{Name: p.Name, Type: r.deref(p.Type, depth)}
		}
		return &types.FunctionType{
			Params:     params,
			Return:     r.deref(v.Return, depth),
			IsVariadic: v.IsVariadic,
			TypeParams: v.TypeParams,
		}
	case *types.GenericType:
		args := make([]types.SemType, len(v.Args))
		for i, a := range v.Args {
			args[i] = r.deref(a, depth)
		}
		return types.NewGeneric(r.deref(v.Base, depth), args)
	}
	return t
}
