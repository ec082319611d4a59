package typechecker

import (
	"typeengine/internal/compctx"
	"typeengine/internal/diagnostics"
	"typeengine/internal/frontend/ast"
	"typeengine/internal/semantics/compat"
	"typeengine/internal/types"
)

func checkSelector(ctx *compctx.CompilerContext, mod *compctx.Module, s *ast.SelectorExpr) (types.SemType, error) {
	recv, err := checkExpr(ctx, mod, s.X, nil)
	if err != nil {
		return nil, err
	}
	return memberOf(ctx, mod, s.X, recv, s.Field)
}

func checkMethodCall(ctx *compctx.CompilerContext, mod *compctx.Module, m *ast.MethodCallExpr, expected types.SemType) (types.SemType, error) {
	recv, err := checkExpr(ctx, mod, m.X, nil)
	if err != nil {
		return nil, err
	}
	method, err := memberOf(ctx, mod, m.X, recv, m.Method)
	if err != nil {
		return nil, err
	}
	explicit, err := resolveTypeArgs(mod, m.TypeArgs)
	if err != nil {
		return nil, err
	}
	return callValue(ctx, mod, m, method, explicit, m.Args)
}

// checkOptionalChain types x?.f. Members of classes and interfaces keep
// their type, made nullable. A missing member or any other receiver yields
// Any?; access to a hidden member is still an error.
func checkOptionalChain(ctx *compctx.CompilerContext, mod *compctx.Module, o *ast.OptionalChainExpr) (types.SemType, error) {
	recv, err := checkExpr(ctx, mod, o.X, nil)
	if err != nil {
		return nil, err
	}
	present := types.StripNull(mod.Resolver.Deref(recv))
	base := present
	if g, ok := base.(*types.GenericType); ok {
		base = g.Base
	}
	switch base.(type) {
	case *types.ClassType, *types.InterfaceType:
		t, err := memberOf(ctx, mod, o.X, present, o.Field)
		if d, ok := err.(*diagnostics.Diagnostic); ok && d.Code == diagnostics.ErrFieldNotFound {
			return types.NewNullable(types.TypeAny), nil
		}
		if err != nil {
			return nil, err
		}
		return types.NewNullable(t), nil
	}
	return types.NewNullable(types.TypeAny), nil
}

// genericBindings maps the type parameters of a generic instance's base to its arguments
func genericBindings(g *types.GenericType) map[string]types.SemType {
	var params []*types.TypeParamType
	switch b := g.Base.(type) {
	case *types.ClassType:
		params = b.TypeParams
	case *types.InterfaceType:
		params = b.TypeParams
	}
	subst := make(map[string]types.SemType, len(params))
	for i, tp := range params {
		if i < len(g.Args) {
			subst[tp.Name] = g.Args[i]
		}
	}
	return subst
}

func nullableAccess(mod *compctx.Module, field *ast.IdentifierExpr, recv types.SemType) error {
	return diagnostics.NewError("cannot access "+field.Name+" on nullable "+recv.String()).
		WithCode(diagnostics.ErrInvalidOperation).
		WithPrimaryLabel(mod.FilePath, field.Loc(), "receiver may be null").
		WithHelp("use ?. or check for null first")
}

// memberOf returns the type of recv.field. recvExpr is the receiver
// expression, used to tell static access through a class name apart from
// instance access; it may be nil.
func memberOf(ctx *compctx.CompilerContext, mod *compctx.Module, recvExpr ast.Expression, recv types.SemType, field *ast.IdentifierExpr) (types.SemType, error) {
	name := field.Name
	recv = mod.Resolver.Deref(recv)

	var subst map[string]types.SemType
	if g, ok := recv.(*types.GenericType); ok {
		subst = genericBindings(g)
		recv = g.Base
	}

	switch r := recv.(type) {
	case *types.ClassType:
		m, err := classMember(ctx, mod, recvExpr, r, field)
		if err != nil {
			return nil, err
		}
		return mod.Resolver.Deref(types.Substitute(m.Type, subst)), nil

	case *types.InterfaceType:
		p, ok := r.Properties[name]
		if !ok {
			return nil, diagnostics.FieldNotFound(mod.FilePath, field.Loc(), name, r.String())
		}
		t := mod.Resolver.Deref(types.Substitute(p.Type, subst))
		if p.Optional {
			t = types.NewNullable(t)
		}
		return t, nil

	case *types.EnumType:
		if _, ok := r.Member(name); ok {
			return r, nil
		}
		return nil, diagnostics.FieldNotFound(mod.FilePath, field.Loc(), name, r.Name)

	case *types.NullableType:
		return nil, nullableAccess(mod, field, r)

	case *types.UnionType:
		out := make([]types.SemType, 0, len(r.Members))
		for _, m := range r.Members {
			if types.IsNull(m) {
				return nil, nullableAccess(mod, field, r)
			}
			t, err := memberOf(ctx, mod, nil, m, field)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return types.NewUnion(out...), nil
	}

	if types.IsAbsorbing(recv) {
		return types.TypeAny, nil
	}
	if t, ok := ctx.Config.Builtins(recv, name); ok {
		return t, nil
	}
	return nil, diagnostics.FieldNotFound(mod.FilePath, field.Loc(), name, recv.String())
}

// findMember searches class and its ancestors, re-reading each class by
// name so members added after a subclass was registered are visible
func findMember(mod *compctx.Module, class *types.ClassType, name string) (*types.Member, bool) {
	for cur := class; cur != nil; cur = cur.Superclass {
		if fresh, ok := mod.ClassNamed(cur.Name); ok {
			cur = fresh
		}
		if m, ok := cur.OwnMember(name); ok {
			return m, true
		}
	}
	return nil, false
}

// classMember resolves a member of a class receiver and applies visibility
// and static-access rules
func classMember(ctx *compctx.CompilerContext, mod *compctx.Module, recvExpr ast.Expression, class *types.ClassType, field *ast.IdentifierExpr) (*types.Member, error) {
	name := field.Name
	m, ok := findMember(mod, class, name)
	if !ok {
		return nil, diagnostics.FieldNotFound(mod.FilePath, field.Loc(), name, class.Name)
	}
	if diag := compat.CheckAccess(m, mod.CurrentClass); diag != nil {
		return nil, at(mod, field, diag, "not accessible here")
	}
	if _, static := classRef(mod, recvExpr); static && !m.Static {
		return nil, invalidOperation(mod, field, "%s is an instance member of %s", name, m.Owner)
	}

	if fn, ok := m.Type.(*types.FunctionType); ok && types.IsUnknown(fn.Return) {
		inferMethodOnDemand(ctx, mod, m.Owner, name)
		if again, ok := findMember(mod, class, name); ok {
			m = again
		}
	}
	return m, nil
}

// checkFieldTarget checks recv.field as an assignment target. Readonly
// fields may only be written by their own class's constructor.
func checkFieldTarget(ctx *compctx.CompilerContext, mod *compctx.Module, s *ast.SelectorExpr) (types.SemType, error) {
	recv, err := checkExpr(ctx, mod, s.X, nil)
	if err != nil {
		return nil, err
	}

	base := mod.Resolver.Deref(recv)
	var subst map[string]types.SemType
	if g, ok := base.(*types.GenericType); ok {
		subst = genericBindings(g)
		base = g.Base
	}
	class, ok := base.(*types.ClassType)
	if !ok {
		t, err := memberOf(ctx, mod, s.X, recv, s.Field)
		if err != nil {
			return nil, err
		}
		mod.Record(s, t)
		return t, nil
	}

	m, err := classMember(ctx, mod, s.X, class, s.Field)
	if err != nil {
		return nil, err
	}
	if _, isMethod := m.Type.(*types.FunctionType); isMethod {
		if _, own := findMethod(mod, class, m.Name); own {
			return nil, diagnostics.NewError("cannot assign to method "+m.Name).
				WithCode(diagnostics.ErrInvalidAssignment).
				WithPrimaryLabel(mod.FilePath, s.Field.Loc(), "methods are not assignable")
		}
	}
	if m.Readonly {
		fn := mod.CurrentFunction
		if fn == nil || fn.Name != constructorName || mod.CurrentClass != m.Owner {
			return nil, diagnostics.NewError("cannot assign to readonly property "+m.Name).
				WithCode(diagnostics.ErrInvalidAssignment).
				WithPrimaryLabel(mod.FilePath, s.Field.Loc(), "readonly").
				WithHelp("readonly properties are set in the constructor of " + m.Owner)
		}
	}

	t := mod.Resolver.Deref(types.Substitute(m.Type, subst))
	mod.Record(s, t)
	return t, nil
}

// findMethod reports whether name is a method, not a property, on the chain
func findMethod(mod *compctx.Module, class *types.ClassType, name string) (*types.Member, bool) {
	for cur := class; cur != nil; cur = cur.Superclass {
		if fresh, ok := mod.ClassNamed(cur.Name); ok {
			cur = fresh
		}
		if _, ok := cur.Properties[name]; ok {
			return nil, false
		}
		if m, ok := cur.Methods[name]; ok {
			return m, true
		}
	}
	return nil, false
}
