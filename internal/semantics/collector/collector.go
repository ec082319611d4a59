package collector

import (
	"fmt"
	"strconv"

	"typeengine/colors"
	"typeengine/internal/compctx"
	"typeengine/internal/diagnostics"
	"typeengine/internal/frontend/ast"
	"typeengine/internal/semantics/symbols"
	"typeengine/internal/source"
	"typeengine/internal/tokens"
	"typeengine/internal/types"
)

// CollectModule registers every top-level class, interface, enum, type alias
// and function of a module. Bodies are not checked here. A declaration that
// fails is reported and the walk continues with its siblings.
func CollectModule(ctx *compctx.CompilerContext, mod *compctx.Module) {
	ctx.Trace(colors.BLUE, "collecting declarations of %s", mod.FilePath)
	if mod.AST == nil {
		return
	}
	for _, node := range mod.AST.Nodes {
		if err := CollectDecl(ctx, mod, node); err != nil {
			ctx.Report(err)
		}
	}
}

// CollectDecl registers one declaration in the current scope. Nodes that do
// not declare a type or function are ignored.
func CollectDecl(ctx *compctx.CompilerContext, mod *compctx.Module, node ast.Node) error {
	switch n := node.(type) {
	case *ast.ClassDecl:
		_, err := collectClass(ctx, mod, n)
		return err
	case *ast.InterfaceDecl:
		return collectInterface(ctx, mod, n)
	case *ast.EnumDecl:
		return collectEnum(ctx, mod, n)
	case *ast.TypeAliasDecl:
		return collectTypeAlias(ctx, mod, n)
	case *ast.FuncDecl:
		return collectFunc(ctx, mod, n)
	}
	return nil
}

// define declares name in the current scope, reporting a redeclaration
// against the earlier declaration's location
func define(mod *compctx.Module, name *ast.IdentifierExpr, kind symbols.SymbolKind, typ types.SemType, decl ast.Node) (*symbols.Symbol, error) {
	if prev, exists := mod.Table.Current().GetSymbol(name.Name); exists {
		var prevLoc *source.Location
		if prev.Decl != nil {
			prevLoc = prev.Decl.Loc()
		}
		return nil, diagnostics.RedeclaredSymbol(mod.FilePath, name.Loc(), prevLoc, name.Name)
	}
	return mod.Table.Define(name.Name, kind, typ, false, decl)
}

func invalidType(mod *compctx.Module, loc *source.Location, err error) *diagnostics.Diagnostic {
	return diagnostics.NewError(err.Error()).
		WithCode(diagnostics.ErrInvalidType).
		WithPrimaryLabel(mod.FilePath, loc, "invalid type annotation")
}

// DeclareTypeParams defines type parameters in the current scope and resolves
// their constraints. All names are declared before any constraint is resolved
// so constraints may mention sibling parameters.
func DeclareTypeParams(mod *compctx.Module, params []*ast.TypeParam) ([]*types.TypeParamType, error) {
	if len(params) == 0 {
		return nil, nil
	}
	out := make([]*types.TypeParamType, len(params))
	for i, p := range params {
		out[i] = types.NewTypeParam(p.Name, nil)
		if _, err := mod.Table.Define(p.Name, symbols.SymbolTypeParam, out[i], false, nil); err != nil {
			return nil, diagnostics.RedeclaredSymbol(mod.FilePath, &p.Location, nil, p.Name)
		}
	}
	for i, p := range params {
		if p.Constraint == nil {
			continue
		}
		c, err := mod.Resolver.Resolve(p.Constraint)
		if err != nil {
			return nil, invalidType(mod, &p.Location, err)
		}
		out[i].Constraint = c
	}
	return out, nil
}

// Signature resolves a function-like declaration inside a scope holding its
// type parameters. Without a result annotation the return type is Unknown
// until the body is checked; async results are wrapped in Future.
func Signature(mod *compctx.Module, typeParams []*ast.TypeParam, params []*ast.Param, result ast.TypeNode, isAsync bool, loc *source.Location) (*types.FunctionType, error) {
	defer mod.EnterScope()()

	tps, err := DeclareTypeParams(mod, typeParams)
	if err != nil {
		return nil, err
	}
	fn, err := mod.Resolver.ResolveSignature(tps, params, result)
	if err != nil {
		return nil, invalidType(mod, loc, err)
	}
	switch {
	case result == nil:
		fn.Return = types.TypeUnknown
	case isAsync:
		fn.Return = types.AsFuture(fn.Return)
	}
	return fn, nil
}

func collectFunc(ctx *compctx.CompilerContext, mod *compctx.Module, decl *ast.FuncDecl) error {
	sig, err := Signature(mod, decl.TypeParams, decl.Params, decl.Result, decl.IsAsync, decl.Loc())
	if err != nil {
		return err
	}
	if _, err := define(mod, decl.Name, symbols.SymbolFunction, sig, decl); err != nil {
		return err
	}
	ctx.Trace(colors.PURPLE, "  ✓ registered fn %s: %s", decl.Name.Name, sig)
	return nil
}

func collectClass(ctx *compctx.CompilerContext, mod *compctx.Module, decl *ast.ClassDecl) (*types.ClassType, error) {
	name := decl.Name.Name

	var super *types.ClassType
	if decl.Superclass != nil {
		sym, ok := mod.Table.Lookup(decl.Superclass.Name)
		if !ok {
			return nil, diagnostics.NewError(fmt.Sprintf("superclass %s not found", decl.Superclass.Name)).
				WithCode(diagnostics.ErrSuperclassNotFound).
				WithPrimaryLabel(mod.FilePath, decl.Superclass.Loc(), "not found in this scope").
				WithHelp("declare the superclass before " + name)
		}
		class, isClass := sym.Type.(*types.ClassType)
		if !isClass || sym.Kind != symbols.SymbolClass {
			return nil, diagnostics.NotAClass(mod.FilePath, decl.Superclass.Loc(), decl.Superclass.Name)
		}
		super = class
	}

	class := types.NewClass(name, super)
	class.IsAbstract = decl.IsAbstract

	// registered before the members so they can mention the class itself
	sym, err := define(mod, decl.Name, symbols.SymbolClass, class, decl)
	if err != nil {
		return nil, err
	}

	defer mod.EnterScope()()
	class.TypeParams, err = DeclareTypeParams(mod, decl.TypeParams)
	if err != nil {
		return nil, err
	}

	for _, f := range decl.Fields {
		if _, exists := class.OwnMember(f.Name.Name); exists {
			return nil, diagnostics.RedeclaredSymbol(mod.FilePath, f.Name.Loc(), nil, f.Name.Name)
		}
		t := types.SemType(types.TypeUnknown)
		if f.Type != nil {
			if t, err = mod.Resolver.Resolve(f.Type); err != nil {
				return nil, invalidType(mod, f.Loc(), err)
			}
		}
		class = class.WithProperty(&types.Member{
			Name:       f.Name.Name,
			Type:       t,
			Visibility: f.Visibility,
			Static:     f.Static,
			Readonly:   f.Readonly,
		})
	}

	for _, m := range decl.Methods {
		if _, exists := class.OwnMember(m.Name.Name); exists {
			return nil, diagnostics.RedeclaredSymbol(mod.FilePath, m.Name.Loc(), nil, m.Name.Name)
		}
		sig, err := Signature(mod, m.TypeParams, m.Params, m.Result, m.IsAsync, m.Loc())
		if err != nil {
			return nil, err
		}
		class = class.WithMethod(&types.Member{
			Name:       m.Name.Name,
			Type:       sig,
			Visibility: m.Visibility,
			Static:     m.Static,
		})
	}

	if decl.Constructor != nil {
		ctor, err := Signature(mod, nil, decl.Constructor.Params, nil, false, decl.Constructor.Loc())
		if err != nil {
			return nil, err
		}
		ctor.Return = types.TypeVoid
		class = class.WithConstructor(ctor)
	}

	if err := mod.UpdateSymbolType(sym, class); err != nil {
		return nil, err
	}
	ctx.Trace(colors.PURPLE, "  ✓ registered class %s (%d properties, %d methods)", name, len(class.Properties), len(class.Methods))
	return class, nil
}

func collectInterface(ctx *compctx.CompilerContext, mod *compctx.Module, decl *ast.InterfaceDecl) error {
	iface, err := func() (*types.InterfaceType, error) {
		defer mod.EnterScope()()

		tps, err := DeclareTypeParams(mod, decl.TypeParams)
		if err != nil {
			return nil, err
		}
		props := map[string]types.PropertyInfo{}
		for _, ext := range decl.Extends {
			sym, ok := mod.Table.Lookup(ext.Name)
			if !ok {
				return nil, diagnostics.UndefinedSymbol(mod.FilePath, ext.Loc(), ext.Name)
			}
			base, isIface := sym.Type.(*types.InterfaceType)
			if !isIface {
				return nil, diagnostics.NewError(ext.Name+" is not an interface").
					WithCode(diagnostics.ErrInvalidType).
					WithPrimaryLabel(mod.FilePath, ext.Loc(), "expected an interface")
			}
			for pname, p := range base.Properties {
				props[pname] = p
			}
		}
		for _, p := range decl.Properties {
			pt, err := mod.Resolver.Resolve(p.Type)
			if err != nil {
				return nil, invalidType(mod, &p.Location, err)
			}
			props[p.Name] = types.PropertyInfo{Type: pt, Optional: p.Optional}
		}
		iface := types.NewInterface(decl.Name.Name, props)
		iface.TypeParams = tps
		return iface, nil
	}()
	if err != nil {
		return err
	}

	if _, err := define(mod, decl.Name, symbols.SymbolInterface, iface, decl); err != nil {
		return err
	}
	ctx.Trace(colors.PURPLE, "  ✓ registered interface %s", iface.Name)
	return nil
}

// collectEnum numbers members sequentially. An integer initializer resets the
// counter; a string initializer leaves it alone.
func collectEnum(ctx *compctx.CompilerContext, mod *compctx.Module, decl *ast.EnumDecl) error {
	var (
		members []types.EnumMember
		next    int64
		seen    = map[string]bool{}
	)
	for _, m := range decl.Members {
		if seen[m.Name.Name] {
			return diagnostics.RedeclaredSymbol(mod.FilePath, m.Name.Loc(), nil, m.Name.Name)
		}
		seen[m.Name.Name] = true

		if m.Value == nil {
			members = append(members, types.EnumMember{Name: m.Name.Name, Value: types.EnumValue{Int: next}})
			next++
			continue
		}

		value, ok := enumLiteral(m.Value)
		if !ok {
			return diagnostics.NewError(fmt.Sprintf("enum member %s must be an integer or string literal", m.Name.Name)).
				WithCode(diagnostics.ErrInvalidEnumValue).
				WithPrimaryLabel(mod.FilePath, m.Value.Loc(), "not an int or string literal")
		}
		if !value.IsString {
			next = value.Int + 1
		}
		members = append(members, types.EnumMember{Name: m.Name.Name, Value: value})
	}

	enum := types.NewEnum(decl.Name.Name, members)
	if _, err := define(mod, decl.Name, symbols.SymbolEnum, enum, decl); err != nil {
		return err
	}
	ctx.Trace(colors.PURPLE, "  ✓ registered enum %s (%d members)", enum.Name, len(members))
	return nil
}

func enumLiteral(e ast.Expression) (types.EnumValue, bool) {
	negate := false
	if u, ok := e.(*ast.UnaryExpr); ok && u.Op == tokens.MINUS_TOKEN {
		negate, e = true, u.X
	}
	lit, ok := e.(*ast.BasicLit)
	if !ok {
		return types.EnumValue{}, false
	}
	switch {
	case lit.Kind == ast.STRING && !negate:
		return types.EnumValue{Str: lit.Value, IsString: true}, true
	case lit.Kind == ast.INT:
		n, err := strconv.ParseInt(lit.Value, 0, 64)
		if err != nil {
			return types.EnumValue{}, false
		}
		if negate {
			n = -n
		}
		return types.EnumValue{Int: n}, true
	}
	return types.EnumValue{}, false
}

func collectTypeAlias(ctx *compctx.CompilerContext, mod *compctx.Module, decl *ast.TypeAliasDecl) error {
	body, err := func() (types.SemType, error) {
		defer mod.EnterScope()()
		if _, err := DeclareTypeParams(mod, decl.TypeParams); err != nil {
			return nil, err
		}
		t, err := mod.Resolver.Resolve(decl.Type)
		if err != nil {
			return nil, invalidType(mod, decl.Loc(), err)
		}
		return t, nil
	}()
	if err != nil {
		return err
	}

	if _, err := define(mod, decl.Name, symbols.SymbolTypeAlias, body, decl); err != nil {
		return err
	}
	ctx.Trace(colors.PURPLE, "  ✓ registered type %s = %s", decl.Name.Name, body)
	return nil
}
