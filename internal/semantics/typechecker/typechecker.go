package typechecker

import (
	"typeengine/colors"
	"typeengine/internal/compctx"
	"typeengine/internal/diagnostics"
	"typeengine/internal/frontend/ast"
	"typeengine/internal/semantics/collector"
	"typeengine/internal/semantics/compat"
	"typeengine/internal/semantics/narrowing"
	"typeengine/internal/semantics/symbols"
	"typeengine/internal/source"
	"typeengine/internal/tokens"
	"typeengine/internal/types"
)

// CheckModule is the second pass. Every top-level statement and declaration
// body is checked in order; the first failure inside a statement aborts that
// statement only, and checking continues with the next one.
func CheckModule(ctx *compctx.CompilerContext, mod *compctx.Module) {
	ctx.Trace(colors.BLUE, "checking %s", mod.FilePath)
	if mod.AST == nil {
		return
	}
	for _, node := range mod.AST.Nodes {
		if err := checkNode(ctx, mod, node); err != nil {
			ctx.Report(err)
		}
	}
}

// checkNode checks one statement or declaration
func checkNode(ctx *compctx.CompilerContext, mod *compctx.Module, node ast.Node) error {
	switch n := node.(type) {
	case nil:
		return nil
	case *ast.VarDecl:
		return checkVarDecl(ctx, mod, n)
	case *ast.ExprStmt:
		_, err := checkExpr(ctx, mod, n.X, nil)
		return err
	case *ast.ReturnStmt:
		return checkReturn(ctx, mod, n)
	case *ast.IfStmt:
		return checkIf(ctx, mod, n)
	case *ast.WhileStmt:
		return checkWhile(ctx, mod, n)
	case *ast.ForStmt:
		return checkFor(ctx, mod, n)
	case *ast.ForOfStmt:
		return checkForOf(ctx, mod, n)
	case *ast.SwitchStmt:
		return checkSwitch(ctx, mod, n)
	case *ast.BreakStmt:
		if _, ok := mod.InnermostBreakable(); !ok {
			return contextError(mod, n, diagnostics.ErrInvalidBreak, "break outside a loop or switch", "")
		}
		return nil
	case *ast.ContinueStmt:
		kind, ok := mod.InnermostBreakable()
		if !ok {
			return contextError(mod, n, diagnostics.ErrInvalidContinue, "continue outside a loop", "")
		}
		if kind == compctx.BreakableSwitch {
			return contextError(mod, n, diagnostics.ErrInvalidContinue, "continue inside switch", "use break to leave a switch")
		}
		return nil
	case *ast.ThrowStmt:
		_, err := checkExpr(ctx, mod, n.X, nil)
		return err
	case *ast.TryStmt:
		return checkTry(ctx, mod, n)
	case *ast.Block:
		defer mod.EnterScope()()
		checkBlock(ctx, mod, n)
		return nil
	case *ast.FuncDecl:
		return checkFuncDecl(ctx, mod, n)
	case *ast.ClassDecl:
		return checkClassDecl(ctx, mod, n)
	case *ast.InterfaceDecl, *ast.EnumDecl, *ast.TypeAliasDecl:
		// fully handled by the collector
		return nil
	}
	return invalidOperation(mod, node, "unsupported statement %T", node)
}

// checkBlock checks the statements of a block in the current scope. Nested
// declarations are registered first so they may be used before they appear.
// Each failing statement is reported and checking moves on.
func checkBlock(ctx *compctx.CompilerContext, mod *compctx.Module, block *ast.Block) {
	if block == nil {
		return
	}
	for _, node := range block.Nodes {
		if _, ok := node.(ast.Decl); ok {
			if err := collector.CollectDecl(ctx, mod, node); err != nil {
				ctx.Report(err)
			}
		}
	}
	for _, node := range block.Nodes {
		if err := checkNode(ctx, mod, node); err != nil {
			ctx.Report(err)
		}
	}
}

// checkScopedBlock checks block in a fresh scope with narrowed bindings in effect
func checkScopedBlock(ctx *compctx.CompilerContext, mod *compctx.Module, block *ast.Block, narrowed narrowing.Narrowings) {
	defer mod.Narrowing.Push(narrowed)()
	defer mod.EnterScope()()
	checkBlock(ctx, mod, block)
}

// resolveAnnotation resolves a type annotation and replaces forward references
func resolveAnnotation(mod *compctx.Module, node ast.TypeNode) (types.SemType, error) {
	t, err := mod.Resolver.Resolve(node)
	if err != nil {
		return nil, diagnostics.NewError(err.Error()).
			WithCode(diagnostics.ErrInvalidType).
			WithPrimaryLabel(mod.FilePath, node.Loc(), "invalid type annotation")
	}
	return mod.Resolver.Deref(t), nil
}

func defineLocal(mod *compctx.Module, name *ast.IdentifierExpr, kind symbols.SymbolKind, t types.SemType, isConst bool, decl ast.Node) error {
	if prev, exists := mod.Table.Current().GetSymbol(name.Name); exists {
		var prevLoc *source.Location
		if prev.Decl != nil {
			prevLoc = prev.Decl.Loc()
		}
		return diagnostics.RedeclaredSymbol(mod.FilePath, name.Loc(), prevLoc, name.Name)
	}
	_, err := mod.Table.Define(name.Name, kind, t, isConst, decl)
	return err
}

func checkVarDecl(ctx *compctx.CompilerContext, mod *compctx.Module, decl *ast.VarDecl) error {
	var declared types.SemType
	if decl.Type != nil {
		t, err := resolveAnnotation(mod, decl.Type)
		if err != nil {
			return err
		}
		declared = t
	}

	final := declared
	if decl.Value != nil {
		vt, err := checkExpr(ctx, mod, decl.Value, declared)
		if err != nil {
			return err
		}
		if types.IsVoid(vt) {
			return typeMismatch(mod, decl.Value, "cannot initialize %s with a Void value", decl.Name.Name)
		}
		if declared != nil {
			if err := checkAssignable(mod, decl, vt, declared, "expected "+declared.String()); err != nil {
				return err
			}
		} else {
			final = vt
		}
	} else if declared != nil {
		if ref := types.FindTypeRef(declared); ref != nil {
			return diagnostics.UnresolvedTypeRef(mod.FilePath, decl.Type.Loc(), ref.Name)
		}
	}
	if final == nil {
		final = types.TypeAny
	}

	kind := symbols.SymbolVariable
	if decl.IsConst {
		kind = symbols.SymbolConstant
	}
	if err := defineLocal(mod, decl.Name, kind, final, decl.IsConst, decl); err != nil {
		return err
	}
	ctx.Trace(colors.GREY, "    %s: %s", decl.Name.Name, final)
	return nil
}

func checkReturn(ctx *compctx.CompilerContext, mod *compctx.Module, stmt *ast.ReturnStmt) error {
	fn := mod.CurrentFunction
	if fn == nil {
		return contextError(mod, stmt, diagnostics.ErrInvalidReturn, "return outside a function", "")
	}

	// an async function returns the bare value of its Future
	var target types.SemType
	if fn.Declared != nil {
		target = fn.Declared
		if f, ok := target.(*types.FutureType); ok && fn.IsAsync {
			target = f.Inner
		}
	}

	if stmt.Result == nil {
		if target != nil && !types.IsVoid(target) && !types.IsAbsorbing(target) {
			return typeMismatch(mod, stmt, "missing return value, expected %s", target)
		}
		fn.Returns = append(fn.Returns, types.TypeVoid)
		return nil
	}

	rt, err := checkExpr(ctx, mod, stmt.Result, target)
	if err != nil {
		return err
	}
	if target != nil {
		if types.IsVoid(target) && !types.IsVoid(rt) {
			return diagnostics.NewError("function "+fn.Name+" returns no value").
				WithCode(diagnostics.ErrInvalidReturn).
				WithPrimaryLabel(mod.FilePath, stmt.Result.Loc(), "unexpected "+rt.String())
		}
		if diag := compat.CheckAssign(rt, target); diag != nil && !types.IsUnknown(rt) {
			return at(mod, stmt.Result, diag.WithCode(diagnostics.ErrInvalidReturn), "expected "+target.String())
		}
	}
	fn.Returns = append(fn.Returns, rt)
	return nil
}

// checkCondition checks a branch condition and derives its narrowings
func checkCondition(ctx *compctx.CompilerContext, mod *compctx.Module, cond ast.Expression) (then, els narrowing.Narrowings, err error) {
	t, err := checkExpr(ctx, mod, cond, types.TypeBool)
	if err != nil {
		return nil, nil, err
	}
	if !types.IsBool(t) && !types.IsAbsorbing(t) {
		return nil, nil, typeMismatch(mod, cond, "condition must be Bool, found %s", t)
	}
	then, els = narrowing.Analyze(cond, mod)
	return then, els, nil
}

func checkIf(ctx *compctx.CompilerContext, mod *compctx.Module, stmt *ast.IfStmt) error {
	then, els, err := checkCondition(ctx, mod, stmt.Cond)
	if err != nil {
		return err
	}
	checkScopedBlock(ctx, mod, stmt.Body, then)

	switch e := stmt.Else.(type) {
	case nil:
	case *ast.Block:
		checkScopedBlock(ctx, mod, e, els)
	default:
		defer mod.Narrowing.Push(els)()
		return checkNode(ctx, mod, e)
	}
	return nil
}

func checkWhile(ctx *compctx.CompilerContext, mod *compctx.Module, stmt *ast.WhileStmt) error {
	then, _, err := checkCondition(ctx, mod, stmt.Cond)
	if err != nil {
		return err
	}
	defer mod.EnterBreakable(compctx.BreakableLoop)()
	checkScopedBlock(ctx, mod, stmt.Body, then)
	return nil
}

func checkFor(ctx *compctx.CompilerContext, mod *compctx.Module, stmt *ast.ForStmt) error {
	defer mod.EnterScope()()

	if err := checkNode(ctx, mod, stmt.Init); err != nil {
		return err
	}
	var then narrowing.Narrowings
	if stmt.Cond != nil {
		var err error
		if then, _, err = checkCondition(ctx, mod, stmt.Cond); err != nil {
			return err
		}
	}
	defer mod.EnterBreakable(compctx.BreakableLoop)()
	checkScopedBlock(ctx, mod, stmt.Body, then)

	if stmt.Post != nil {
		if _, err := checkExpr(ctx, mod, stmt.Post, nil); err != nil {
			return err
		}
	}
	return nil
}

// iterationType is the type of the loop variable when iterating over t
func iterationType(t types.SemType) (types.SemType, bool) {
	switch v := t.(type) {
	case *types.ListType:
		return v.Element, true
	case *types.MapType:
		return v.Key, true
	}
	if types.IsStr(t) {
		return types.TypeStr, true
	}
	if types.IsAbsorbing(t) {
		return types.TypeAny, true
	}
	return nil, false
}

func checkForOf(ctx *compctx.CompilerContext, mod *compctx.Module, stmt *ast.ForOfStmt) error {
	it, err := checkExpr(ctx, mod, stmt.Iterable, nil)
	if err != nil {
		return err
	}
	elem, ok := iterationType(it)
	if !ok {
		return invalidOperation(mod, stmt.Iterable, "cannot iterate over %s", it)
	}

	defer mod.EnterScope()()
	if err := defineLocal(mod, stmt.Var, symbols.SymbolVariable, elem, false, stmt.Var); err != nil {
		return err
	}
	defer mod.EnterBreakable(compctx.BreakableLoop)()
	checkScopedBlock(ctx, mod, stmt.Body, nil)
	return nil
}

func checkSwitch(ctx *compctx.CompilerContext, mod *compctx.Module, stmt *ast.SwitchStmt) error {
	tag, err := checkExpr(ctx, mod, stmt.Tag, nil)
	if err != nil {
		return err
	}
	defer mod.EnterBreakable(compctx.BreakableSwitch)()

	for _, clause := range stmt.Cases {
		for _, e := range clause.Exprs {
			et, err := checkExpr(ctx, mod, e, tag)
			if err != nil {
				return err
			}
			if _, diag := compat.BinaryResult(tokens.DOUBLE_EQUAL_TOKEN, tag, et); diag != nil {
				return at(mod, e, diag, "case value")
			}
		}
		checkScopedBlock(ctx, mod, clause.Body, nil)
	}
	return nil
}

func checkTry(ctx *compctx.CompilerContext, mod *compctx.Module, stmt *ast.TryStmt) error {
	checkScopedBlock(ctx, mod, stmt.Body, nil)

	if stmt.Catch != nil {
		err := func() error {
			defer mod.EnterScope()()
			if stmt.CatchParam != nil {
				if err := defineLocal(mod, stmt.CatchParam, symbols.SymbolVariable, types.TypeError, false, stmt.CatchParam); err != nil {
					return err
				}
			}
			checkScopedBlock(ctx, mod, stmt.Catch, nil)
			return nil
		}()
		if err != nil {
			return err
		}
	}

	if stmt.Finally != nil {
		checkScopedBlock(ctx, mod, stmt.Finally, nil)
	}
	return nil
}
