package typechecker

import (
	"typeengine/colors"
	"typeengine/internal/compctx"
	"typeengine/internal/frontend/ast"
	"typeengine/internal/semantics/compat"
	"typeengine/internal/semantics/controlflow"
	"typeengine/internal/semantics/inference"
	"typeengine/internal/semantics/symbols"
	"typeengine/internal/source"
	"typeengine/internal/types"
)

const constructorName = "constructor"

// functionBody describes any function-like body: declarations, methods,
// constructors and arrow functions
type functionBody struct {
	name     string
	loc      *source.Location
	sig      *types.FunctionType
	params   []*ast.Param
	block    *ast.Block
	expr     ast.Expression // arrow functions with an expression body
	isAsync  bool
	static   bool
	inferred bool // the result type comes from the body
}

// checkFunctionBody checks a body in a fresh scope holding its type
// parameters and parameters. It returns the function's result type: the
// declared one, or the common type of every return statement when inferred.
func checkFunctionBody(ctx *compctx.CompilerContext, mod *compctx.Module, body functionBody) (types.SemType, error) {
	defer mod.EnterScope()()

	for _, tp := range body.sig.TypeParams {
		if _, err := mod.Table.Define(tp.Name, symbols.SymbolTypeParam, tp, false, nil); err != nil {
			return nil, err
		}
	}
	for i, p := range body.params {
		if i >= len(body.sig.Params) {
			break
		}
		pt := mod.Resolver.Deref(body.sig.Params[i].Type)
		if err := defineLocal(mod, p.Name, symbols.SymbolParameter, pt, false, p.Name); err != nil {
			return nil, err
		}
	}

	fn := &compctx.FunctionContext{
		Name:    body.name,
		IsAsync: body.isAsync,
		Static:  body.static,
	}
	if !body.inferred {
		fn.Declared = mod.Resolver.Deref(body.sig.Return)
	}
	defer mod.EnterFunction(fn)()

	if body.expr != nil {
		if err := checkExprBody(ctx, mod, fn, body.expr); err != nil {
			return nil, err
		}
	} else if body.block != nil {
		checkBlock(ctx, mod, body.block)
		graph := controlflow.NewCFGBuilder(ctx, mod).BuildFunctionCFG(body.block, body.loc)
		if !body.inferred {
			controlflow.AnalyzeReturns(ctx, mod, body.name, body.loc, fn.Declared, graph)
		}
	}

	if !body.inferred {
		return fn.Declared, nil
	}
	ret := inferredResult(ctx, fn.Returns)
	if body.isAsync {
		ret = types.AsFuture(ret)
	}
	ctx.Trace(colors.GREEN, "    inferred %s: %s", body.name, ret)
	return ret, nil
}

// checkExprBody treats an arrow's expression body as a single return
func checkExprBody(ctx *compctx.CompilerContext, mod *compctx.Module, fn *compctx.FunctionContext, expr ast.Expression) error {
	var target types.SemType
	if fn.Declared != nil {
		target = fn.Declared
		if f, ok := target.(*types.FutureType); ok && fn.IsAsync {
			target = f.Inner
		}
	}
	t, err := checkExpr(ctx, mod, expr, target)
	if err != nil {
		return err
	}
	if target != nil && !types.IsVoid(target) {
		if err := checkAssignable(mod, expr, t, target, "expected "+target.String()); err != nil {
			return err
		}
	}
	fn.Returns = append(fn.Returns, t)
	return nil
}

// inferredResult unifies the collected return types. Bare returns only
// count when nothing else is returned.
func inferredResult(ctx *compctx.CompilerContext, returns []types.SemType) types.SemType {
	var values []types.SemType
	for _, r := range returns {
		if !types.IsVoid(r) {
			values = append(values, r)
		}
	}
	if len(values) == 0 {
		return types.TypeVoid
	}
	return inference.CommonType(values, ctx.Config.MaxUnionWidth)
}

func checkFuncDecl(ctx *compctx.CompilerContext, mod *compctx.Module, decl *ast.FuncDecl) error {
	if mod.IsChecked(decl) {
		return nil
	}
	sym, ok := mod.Table.Lookup(decl.Name.Name)
	if !ok || sym.Decl != ast.Node(decl) {
		// registration failed and was already reported
		return nil
	}
	sig, ok := sym.Type.(*types.FunctionType)
	if !ok {
		return nil
	}
	if !mod.BeginInference(decl) {
		return nil
	}
	defer mod.EndInference(decl)

	ctx.Trace(colors.CYAN, "  checking fn %s", decl.Name.Name)
	ret, err := checkFunctionBody(ctx, mod, functionBody{
		name:     decl.Name.Name,
		loc:      decl.Name.Loc(),
		sig:      sig,
		params:   decl.Params,
		block:    decl.Body,
		isAsync:  decl.IsAsync,
		inferred: decl.Result == nil,
	})
	mod.MarkChecked(decl)
	if err != nil {
		return err
	}
	if decl.Result == nil {
		return mod.UpdateSymbolType(sym, sig.WithReturn(ret))
	}
	return nil
}

// inferOnDemand checks a function whose result is still Unknown so a caller
// earlier in the module sees its real return type. Module-level functions
// are checked against module-level state.
func inferOnDemand(ctx *compctx.CompilerContext, mod *compctx.Module, sym *symbols.Symbol) {
	decl, ok := sym.Decl.(*ast.FuncDecl)
	if !ok || mod.IsChecked(decl) {
		return
	}
	if global, ok := mod.Table.Global().GetSymbol(sym.Name); ok && global == sym {
		defer mod.Detach()()
	}
	ctx.Trace(colors.YELLOW, "    inferring %s on demand", sym.Name)
	if err := checkFuncDecl(ctx, mod, decl); err != nil {
		ctx.Report(err)
	}
}

func checkClassDecl(ctx *compctx.CompilerContext, mod *compctx.Module, decl *ast.ClassDecl) error {
	sym, ok := mod.Table.Lookup(decl.Name.Name)
	if !ok || sym.Decl != ast.Node(decl) {
		return nil
	}
	class, ok := sym.Type.(*types.ClassType)
	if !ok {
		return nil
	}
	ctx.Trace(colors.CYAN, "  checking class %s", class.Name)

	return inClass(mod, class, func() error {
		for _, f := range decl.Fields {
			if err := checkFieldInit(ctx, mod, sym, f); err != nil {
				ctx.Report(err)
			}
		}
		if decl.Constructor != nil {
			if err := checkMethod(ctx, mod, class.Name, decl.Constructor, true); err != nil {
				ctx.Report(err)
			}
		}
		for _, m := range decl.Methods {
			if err := checkMethod(ctx, mod, class.Name, m, false); err != nil {
				ctx.Report(err)
			}
		}
		return nil
	})
}

// inClass runs fn with class as the current class and its type parameters in scope
func inClass(mod *compctx.Module, class *types.ClassType, fn func() error) error {
	defer mod.EnterClass(class.Name)()
	defer mod.EnterScope()()
	for _, tp := range class.TypeParams {
		if _, err := mod.Table.Define(tp.Name, symbols.SymbolTypeParam, tp, false, nil); err != nil {
			return err
		}
	}
	return fn()
}

// checkFieldInit checks a field initializer. An unannotated field takes the
// initializer's type.
func checkFieldInit(ctx *compctx.CompilerContext, mod *compctx.Module, sym *symbols.Symbol, f *ast.FieldDecl) error {
	if f.Value == nil {
		return nil
	}
	class := sym.Type.(*types.ClassType)
	member, ok := class.Properties[f.Name.Name]
	if !ok {
		return nil
	}

	var expected types.SemType
	if !types.IsUnknown(member.Type) {
		expected = mod.Resolver.Deref(member.Type)
	}

	defer mod.EnterFunction(&compctx.FunctionContext{Name: f.Name.Name, Declared: types.TypeVoid, Static: f.Static})()
	vt, err := checkExpr(ctx, mod, f.Value, expected)
	if err != nil {
		return err
	}
	if expected != nil {
		return checkAssignable(mod, f.Value, vt, expected, "initializer of "+f.Name.Name)
	}

	updated := *member
	updated.Type = vt
	if err := mod.UpdateSymbolType(sym, class.WithProperty(&updated)); err != nil {
		return err
	}
	ctx.Trace(colors.GREY, "    field %s.%s: %s", class.Name, f.Name.Name, vt)
	return nil
}

// checkMethod checks a method or constructor body of the named class. The
// class is re-read from the table because earlier methods may have
// back-patched it.
func checkMethod(ctx *compctx.CompilerContext, mod *compctx.Module, className string, m *ast.MethodDecl, isCtor bool) error {
	if mod.IsChecked(m) {
		return nil
	}
	class, ok := mod.ClassNamed(className)
	if !ok {
		return nil
	}

	var (
		name   string
		sig    *types.FunctionType
		member *types.Member
	)
	if isCtor {
		name, sig = constructorName, class.Constructor
	} else {
		name = m.Name.Name
		member, ok = class.Methods[name]
		if !ok {
			return nil
		}
		sig, _ = member.Type.(*types.FunctionType)
	}
	if sig == nil {
		return nil
	}
	if !mod.BeginInference(m) {
		return nil
	}
	defer mod.EndInference(m)

	inferred := !isCtor && m.Result == nil
	ret, err := checkFunctionBody(ctx, mod, functionBody{
		name:     name,
		loc:      m.Loc(),
		sig:      sig,
		params:   m.Params,
		block:    m.Body,
		isAsync:  m.IsAsync,
		static:   m.Static,
		inferred: inferred,
	})
	mod.MarkChecked(m)
	if err != nil {
		return err
	}

	if !inferred {
		return nil
	}
	sym, ok := mod.Table.Lookup(className)
	if !ok {
		return nil
	}
	class, ok = sym.Type.(*types.ClassType)
	if !ok {
		return nil
	}
	updated := *member
	updated.Type = sig.WithReturn(ret)
	return mod.UpdateSymbolType(sym, class.WithMethod(&updated))
}

// inferMethodOnDemand checks a method whose result is still Unknown
func inferMethodOnDemand(ctx *compctx.CompilerContext, mod *compctx.Module, owner, method string) {
	sym, ok := mod.Table.Lookup(owner)
	if !ok {
		return
	}
	decl, ok := sym.Decl.(*ast.ClassDecl)
	if !ok {
		return
	}
	var m *ast.MethodDecl
	for _, candidate := range decl.Methods {
		if candidate.Name.Name == method {
			m = candidate
			break
		}
	}
	if m == nil || mod.IsChecked(m) {
		return
	}

	if global, ok := mod.Table.Global().GetSymbol(owner); ok && global == sym {
		defer mod.Detach()()
	}
	class, ok := sym.Type.(*types.ClassType)
	if !ok {
		return
	}
	ctx.Trace(colors.YELLOW, "    inferring %s.%s on demand", owner, method)
	err := inClass(mod, class, func() error {
		return checkMethod(ctx, mod, owner, m, false)
	})
	if err != nil {
		ctx.Report(err)
	}
}

// checkAssignable reports whether value fits target at node. Unknown values
// come from declarations still being inferred and are not checked.
func checkAssignable(mod *compctx.Module, node ast.Node, value, target types.SemType, label string) error {
	if types.IsUnknown(value) {
		return nil
	}
	if diag := compat.CheckAssign(mod.Resolver.Deref(value), mod.Resolver.Deref(target)); diag != nil {
		return at(mod, node, diag, label)
	}
	return nil
}
