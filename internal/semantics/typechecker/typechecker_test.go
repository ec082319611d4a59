package typechecker

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeengine/internal/compctx"
	"typeengine/internal/diagnostics"
	"typeengine/internal/frontend/ast"
	"typeengine/internal/semantics/collector"
	"typeengine/internal/tokens"
	"typeengine/internal/types"
)

// check runs both passes over nodes
func check(t *testing.T, nodes ...ast.Node) (*compctx.Module, *compctx.CompilerContext) {
	t.Helper()
	ctx := compctx.New(&compctx.Config{FilePath: "test.ts", Log: io.Discard})
	mod := compctx.NewModule("test.ts", ast.NewModule("test.ts", nodes...))
	collector.CollectModule(ctx, mod)
	CheckModule(ctx, mod)
	return mod, ctx
}

func typeOf(t *testing.T, mod *compctx.Module, name string) string {
	t.Helper()
	sym, ok := mod.Table.Lookup(name)
	require.True(t, ok, "%s is not defined", name)
	return sym.Type.String()
}

func exprType(t *testing.T, mod *compctx.Module, e ast.Expression) string {
	t.Helper()
	got, ok := mod.ExprType(e)
	require.True(t, ok, "expression was not checked")
	return got.String()
}

func errorCodes(ctx *compctx.CompilerContext) []string {
	var out []string
	for _, d := range ctx.Diagnostics.Diagnostics() {
		out = append(out, d.Code)
	}
	return out
}

func requireClean(t *testing.T, ctx *compctx.CompilerContext) {
	t.Helper()
	require.False(t, ctx.HasErrors(), ctx.Diagnostics.EmitAllToString())
}

func animalHierarchy() (*ast.ClassDecl, *ast.ClassDecl) {
	animal := ast.Class("Animal", "")
	animal.Fields = []*ast.FieldDecl{{Name: ast.Ident("name"), Type: ast.Named("str"), Readonly: true}}
	animal.Constructor = &ast.MethodDecl{
		Name:   ast.Ident("constructor"),
		Params: []*ast.Param{ast.P("n", ast.Named("str"))},
		Body:   ast.Body(ast.Expr(ast.Assign(ast.Select(&ast.ThisExpr{}, "name"), tokens.EQUALS_TOKEN, ast.Ident("n")))),
	}
	animal.Methods = []*ast.MethodDecl{{
		Name:   ast.Ident("speak"),
		Result: ast.Named("str"),
		Body:   ast.Body(ast.Return(ast.Select(&ast.ThisExpr{}, "name"))),
	}}

	dog := ast.Class("Dog", "Animal")
	dog.Constructor = &ast.MethodDecl{
		Name: ast.Ident("constructor"),
		Body: ast.Body(ast.Expr(ast.Call(&ast.SuperExpr{}, ast.Str("rex")))),
	}
	return animal, dog
}

func TestInstanceofIsBool(t *testing.T) {
	animal, dog := animalHierarchy()
	mod, ctx := check(t,
		animal, dog,
		ast.Let("d", nil, ast.New("Dog")),
		ast.Let("isA", nil, ast.Instanceof(ast.Ident("d"), "Animal")),
	)
	requireClean(t, ctx)
	assert.Equal(t, "Dog", typeOf(t, mod, "d"))
	assert.Equal(t, "Bool", typeOf(t, mod, "isA"))
}

func TestInstanceofNarrowsInsideIf(t *testing.T) {
	animal, dog := animalHierarchy()
	inside := ast.Ident("a")
	after := ast.Ident("a")
	mod, ctx := check(t,
		animal, dog,
		ast.Let("a", ast.Named("Animal"), ast.New("Dog")),
		ast.If(ast.Instanceof(ast.Ident("a"), "Dog"), ast.Body(ast.Expr(inside)), nil),
		ast.Expr(after),
	)
	requireClean(t, ctx)
	assert.Equal(t, "Dog", exprType(t, mod, inside))
	assert.Equal(t, "Animal", exprType(t, mod, after))
}

func TestAsyncResultIsFuture(t *testing.T) {
	fetch := ast.Func("fetch", nil, nil, ast.Body(ast.Return(ast.Int(1))))
	fetch.IsAsync = true
	use := ast.Func("use", nil, nil, ast.Body(
		ast.Let("n", nil, ast.Await(ast.Call(ast.Ident("fetch")))),
		ast.Return(ast.Ident("n")),
	))
	use.IsAsync = true
	annotated := ast.Func("annotated", nil, ast.Named("int"), ast.Body(ast.Return(ast.Int(2))))
	annotated.IsAsync = true

	mod, ctx := check(t, fetch, use, annotated,
		ast.Let("top", nil, ast.Await(ast.Call(ast.Ident("fetch")))),
	)
	requireClean(t, ctx)
	assert.Equal(t, "fn() -> Future<Int>", typeOf(t, mod, "fetch"))
	assert.Equal(t, "fn() -> Future<Int>", typeOf(t, mod, "use"))
	assert.Equal(t, "fn() -> Future<Int>", typeOf(t, mod, "annotated"))
	assert.Equal(t, "Int", typeOf(t, mod, "top"))
}

func TestAwaitOutsideAsync(t *testing.T) {
	fetch := ast.Func("fetch", nil, ast.Named("int"), ast.Body(ast.Return(ast.Int(1))))
	fetch.IsAsync = true
	plain := ast.Func("plain", nil, nil, ast.Body(ast.Expr(ast.Await(ast.Call(ast.Ident("fetch"))))))
	notFuture := ast.Let("v", nil, ast.Await(ast.Int(3)))

	_, ctx := check(t, fetch, plain, notFuture)
	assert.Equal(t, []string{diagnostics.ErrInvalidAwait, diagnostics.ErrTypeMismatch}, errorCodes(ctx))
}

func TestListLiteralWidens(t *testing.T) {
	mod, ctx := check(t,
		ast.Let("xs", nil, ast.List(ast.Int(1), ast.Float(2.5))),
		ast.Let("empty", nil, ast.List()),
		ast.Let("small", ast.ArrayOf(ast.Named("i8")), ast.List(ast.Int(1), ast.Int(2))),
		ast.Let("mixed", nil, ast.List(ast.Int(1), ast.Str("a"))),
	)
	requireClean(t, ctx)
	assert.Equal(t, "List<Float>", typeOf(t, mod, "xs"))
	assert.Equal(t, "List<Unknown>", typeOf(t, mod, "empty"))
	assert.Equal(t, "List<I8>", typeOf(t, mod, "small"))
	assert.Equal(t, "List<Int | Str>", typeOf(t, mod, "mixed"))
}

func TestVarDeclMismatchIsLocatedAtDeclaration(t *testing.T) {
	decl := ast.At(ast.Let("b", ast.Named("int"), ast.Str("x")), 3, 5, 16)
	_, ctx := check(t, decl)

	require.Equal(t, 1, ctx.Diagnostics.ErrorCount())
	d := ctx.Diagnostics.Diagnostics()[0]
	assert.Equal(t, diagnostics.ErrTypeMismatch, d.Code)
	assert.Contains(t, d.Message, "Str not assignable to Int")
	require.NotNil(t, d.Location())
	assert.Equal(t, 3, d.Location().Start.Line)
	assert.Equal(t, 5, d.Location().Start.Column)
}

func TestDivisionByZeroLiteralIsFloat(t *testing.T) {
	div := ast.Binary(ast.Ident("x"), tokens.DIV_TOKEN, ast.Int(0))
	mod, ctx := check(t,
		ast.Let("x", ast.Named("int"), ast.Int(10)),
		ast.Let("y", nil, div),
	)
	requireClean(t, ctx)
	assert.Equal(t, "Float", typeOf(t, mod, "y"))
	assert.Equal(t, "Float", exprType(t, mod, div))
}

func TestErrorsDoNotStopLaterStatements(t *testing.T) {
	mod, ctx := check(t,
		ast.Let("a", ast.Named("int"), ast.Str("x")),
		ast.Let("b", ast.Named("str"), ast.Int(1)),
		ast.Let("c", nil, ast.Int(3)),
	)
	assert.Equal(t, 2, ctx.Diagnostics.ErrorCount())
	assert.Equal(t, "Int", typeOf(t, mod, "c"))
}

func TestAssignments(t *testing.T) {
	tests := []struct {
		name  string
		nodes []ast.Node
		want  []string
	}{
		{
			name: "compound on int",
			nodes: []ast.Node{
				ast.Let("n", ast.Named("int"), ast.Int(1)),
				ast.Expr(ast.Assign(ast.Ident("n"), tokens.PLUS_EQUALS_TOKEN, ast.Int(2))),
			},
		},
		{
			name: "division result does not fit int",
			nodes: []ast.Node{
				ast.Let("i", ast.Named("int"), ast.Int(1)),
				ast.Expr(ast.Assign(ast.Ident("i"), tokens.DIV_EQUALS_TOKEN, ast.Int(2))),
			},
			want: []string{diagnostics.ErrInvalidAssignment},
		},
		{
			name: "operator does not apply",
			nodes: []ast.Node{
				ast.Let("s", ast.Named("str"), ast.Str("a")),
				ast.Expr(ast.Assign(ast.Ident("s"), tokens.MINUS_EQUALS_TOKEN, ast.Int(1))),
			},
			want: []string{diagnostics.ErrInvalidOperation},
		},
		{
			name: "constant",
			nodes: []ast.Node{
				ast.Const("c", nil, ast.Int(1)),
				ast.Expr(ast.Assign(ast.Ident("c"), tokens.EQUALS_TOKEN, ast.Int(2))),
			},
			want: []string{diagnostics.ErrConstantReassignment},
		},
		{
			name: "function",
			nodes: []ast.Node{
				ast.Func("f", nil, nil, ast.Body()),
				ast.Expr(ast.Assign(ast.Ident("f"), tokens.EQUALS_TOKEN, ast.Int(1))),
			},
			want: []string{diagnostics.ErrInvalidAssignment},
		},
		{
			name: "plain mismatch",
			nodes: []ast.Node{
				ast.Let("v", ast.Named("bool"), ast.Bool(true)),
				ast.Expr(ast.Assign(ast.Ident("v"), tokens.EQUALS_TOKEN, ast.Int(1))),
			},
			want: []string{diagnostics.ErrTypeMismatch},
		},
		{
			name:  "undefined target",
			nodes: []ast.Node{ast.Expr(ast.Assign(ast.Ident("nope"), tokens.EQUALS_TOKEN, ast.Int(1)))},
			want:  []string{diagnostics.ErrUndefinedSymbol},
		},
		{
			name:  "literal out of range",
			nodes: []ast.Node{ast.Let("b", ast.Named("u8"), ast.Int(300))},
			want:  []string{diagnostics.ErrTypeMismatch},
		},
		{
			name:  "negative literal in range",
			nodes: []ast.Node{ast.Let("b", ast.Named("i8"), ast.Unary(tokens.MINUS_TOKEN, ast.Int(128)))},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ctx := check(t, tt.nodes...)
			assert.Equal(t, tt.want, errorCodes(ctx), ctx.Diagnostics.EmitAllToString())
		})
	}
}

func TestBreakAndContinue(t *testing.T) {
	sw := &ast.SwitchStmt{
		Tag: ast.Int(1),
		Cases: []*ast.CaseClause{{
			Exprs: []ast.Expression{ast.Int(1)},
			Body:  ast.Body(&ast.BreakStmt{}, &ast.ContinueStmt{}),
		}},
	}
	loop := &ast.WhileStmt{Cond: ast.Bool(true), Body: ast.Body(&ast.ContinueStmt{}, sw, &ast.BreakStmt{})}

	_, ctx := check(t, &ast.BreakStmt{}, loop, &ast.ContinueStmt{})
	assert.Equal(t, []string{
		diagnostics.ErrInvalidBreak,
		diagnostics.ErrInvalidContinue,
		diagnostics.ErrInvalidContinue,
	}, errorCodes(ctx))
}

func TestLoopsDoNotCrossFunctions(t *testing.T) {
	inner := ast.Func("inner", nil, nil, ast.Body(&ast.BreakStmt{}))
	loop := &ast.WhileStmt{Cond: ast.Bool(true), Body: ast.Body(inner)}
	_, ctx := check(t, loop)
	assert.Equal(t, []string{diagnostics.ErrInvalidBreak}, errorCodes(ctx))
}

func TestThisAndSuper(t *testing.T) {
	animal, dog := animalHierarchy()
	maker := &ast.MethodDecl{Name: ast.Ident("make"), Static: true, Body: ast.Body(ast.Return(&ast.ThisExpr{}))}
	animal.Methods = append(animal.Methods, maker)
	orphan := ast.Class("Orphan", "")
	orphan.Methods = []*ast.MethodDecl{{Name: ast.Ident("up"), Body: ast.Body(ast.Expr(&ast.SuperExpr{}))}}

	mod, ctx := check(t,
		animal, dog, orphan,
		ast.Expr(&ast.ThisExpr{}),
		ast.Let("a", nil, ast.New("Animal", ast.Str("x"))),
		ast.Let("said", nil, ast.MethodCall(ast.Ident("a"), "speak")),
		ast.Expr(ast.Assign(ast.Select(ast.Ident("a"), "name"), tokens.EQUALS_TOKEN, ast.Str("y"))),
	)
	assert.Equal(t, []string{
		diagnostics.ErrInvalidThis,       // static make
		diagnostics.ErrInvalidSuper,      // Orphan has no superclass
		diagnostics.ErrInvalidThis,       // top level
		diagnostics.ErrInvalidAssignment, // readonly outside the constructor
	}, errorCodes(ctx), ctx.Diagnostics.EmitAllToString())
	assert.Equal(t, "Str", typeOf(t, mod, "said"))
}

func TestSuperCallArguments(t *testing.T) {
	animal, dog := animalHierarchy()
	dog.Constructor.Body = ast.Body(ast.Expr(ast.Call(&ast.SuperExpr{})))
	_, ctx := check(t, animal, dog, ast.Expr(ast.Call(&ast.SuperExpr{})))
	assert.Equal(t, []string{diagnostics.ErrWrongArgumentCount, diagnostics.ErrInvalidSuper}, errorCodes(ctx))
}

func TestConstructorArguments(t *testing.T) {
	animal, dog := animalHierarchy()
	abstract := ast.Class("Shape", "")
	abstract.IsAbstract = true
	_, ctx := check(t,
		animal, dog, abstract,
		ast.Expr(ast.New("Animal")),
		ast.Expr(ast.New("Animal", ast.Int(1))),
		ast.Expr(ast.New("Dog", ast.Str("extra"))),
		ast.Expr(ast.New("Shape")),
		ast.Expr(ast.New("Missing")),
	)
	assert.Equal(t, []string{
		diagnostics.ErrWrongArgumentCount,
		diagnostics.ErrTypeMismatch,
		diagnostics.ErrWrongArgumentCount,
		diagnostics.ErrInvalidOperation,
		diagnostics.ErrUndefinedSymbol,
	}, errorCodes(ctx))
}

func TestVisibility(t *testing.T) {
	safe := ast.Class("Safe", "")
	safe.Fields = []*ast.FieldDecl{{Name: ast.Ident("secret"), Type: ast.Named("int"), Value: ast.Int(1), Visibility: types.Private}}
	safe.Methods = []*ast.MethodDecl{{
		Name:   ast.Ident("reveal"),
		Result: ast.Named("int"),
		Body:   ast.Body(ast.Return(ast.Select(&ast.ThisExpr{}, "secret"))),
	}}

	mod, ctx := check(t, safe,
		ast.Let("s", nil, ast.New("Safe")),
		ast.Let("r", nil, ast.MethodCall(ast.Ident("s"), "reveal")),
		ast.Let("leak", nil, ast.Select(ast.Ident("s"), "secret")),
	)
	assert.Equal(t, []string{diagnostics.ErrVisibility}, errorCodes(ctx))
	assert.Equal(t, "Int", typeOf(t, mod, "r"))
}

func TestStaticMembers(t *testing.T) {
	counter := ast.Class("Counter", "")
	counter.Fields = []*ast.FieldDecl{
		{Name: ast.Ident("count"), Type: ast.Named("int"), Value: ast.Int(0), Static: true},
		{Name: ast.Ident("label"), Type: ast.Named("str")},
	}
	counter.Methods = []*ast.MethodDecl{{
		Name:   ast.Ident("inc"),
		Static: true,
		Result: ast.Named("int"),
		Body:   ast.Body(ast.Return(ast.Select(ast.Ident("Counter"), "count"))),
	}}

	mod, ctx := check(t, counter,
		ast.Let("n", nil, ast.MethodCall(ast.Ident("Counter"), "inc")),
		ast.Let("c", nil, ast.New("Counter")),
		ast.Let("viaInstance", nil, ast.Select(ast.Ident("c"), "count")),
		ast.Expr(ast.Select(ast.Ident("Counter"), "label")),
	)
	assert.Equal(t, []string{diagnostics.ErrInvalidOperation}, errorCodes(ctx))
	assert.Equal(t, "Int", typeOf(t, mod, "n"))
	assert.Equal(t, "Int", typeOf(t, mod, "viaInstance"))
}

func TestGenericFunctions(t *testing.T) {
	id := ast.Func("id", []*ast.Param{ast.P("v", ast.Named("T"))}, ast.Named("T"), ast.Body(ast.Return(ast.Ident("v"))))
	id.TypeParams = []*ast.TypeParam{{Name: "T"}}
	num := ast.Func("num", []*ast.Param{ast.P("v", ast.Named("T"))}, ast.Named("T"), ast.Body(ast.Return(ast.Ident("v"))))
	num.TypeParams = []*ast.TypeParam{{Name: "T", Constraint: ast.Named("float")}}

	explicit := ast.Call(ast.Ident("id"), ast.Str("x"))
	explicit.TypeArgs = []ast.TypeNode{ast.Named("str")}
	wrongCount := ast.Call(ast.Ident("id"), ast.Int(1))
	wrongCount.TypeArgs = []ast.TypeNode{ast.Named("int"), ast.Named("str")}

	mod, ctx := check(t, id, num,
		ast.Let("a", nil, ast.Call(ast.Ident("id"), ast.Int(5))),
		ast.Let("b", nil, explicit),
		ast.Let("c", nil, ast.Call(ast.Ident("num"), ast.Int(2))),
		ast.Expr(ast.Call(ast.Ident("num"), ast.Str("s"))),
		ast.Expr(wrongCount),
	)
	assert.Equal(t, []string{diagnostics.ErrConstraintViolation, diagnostics.ErrWrongArgumentCount}, errorCodes(ctx))
	assert.Equal(t, "Int", typeOf(t, mod, "a"))
	assert.Equal(t, "Str", typeOf(t, mod, "b"))
	assert.Equal(t, "Int", typeOf(t, mod, "c"))
}

func TestGenericClass(t *testing.T) {
	box := ast.Class("Box", "")
	box.TypeParams = []*ast.TypeParam{{Name: "T"}}
	box.Fields = []*ast.FieldDecl{{Name: ast.Ident("value"), Type: ast.Named("T")}}
	box.Constructor = &ast.MethodDecl{
		Name:   ast.Ident("constructor"),
		Params: []*ast.Param{ast.P("v", ast.Named("T"))},
		Body:   ast.Body(ast.Expr(ast.Assign(ast.Select(&ast.ThisExpr{}, "value"), tokens.EQUALS_TOKEN, ast.Ident("v")))),
	}
	box.Methods = []*ast.MethodDecl{{
		Name:   ast.Ident("get"),
		Result: ast.Named("T"),
		Body:   ast.Body(ast.Return(ast.Select(&ast.ThisExpr{}, "value"))),
	}}

	mod, ctx := check(t, box,
		ast.Let("b", nil, ast.New("Box", ast.Int(5))),
		ast.Let("v", nil, ast.MethodCall(ast.Ident("b"), "get")),
		ast.Let("w", nil, ast.Select(ast.Ident("b"), "value")),
		ast.Let("s", ast.Named("Box", ast.Named("str")), ast.New("Box", ast.Str("x"))),
	)
	requireClean(t, ctx)
	assert.Equal(t, "Box<Int>", typeOf(t, mod, "b"))
	assert.Equal(t, "Int", typeOf(t, mod, "v"))
	assert.Equal(t, "Int", typeOf(t, mod, "w"))
	assert.Equal(t, "Box<Str>", typeOf(t, mod, "s"))
}

func TestCallArity(t *testing.T) {
	sum := ast.Func("sum", []*ast.Param{{Name: ast.Ident("xs"), Type: ast.ArrayOf(ast.Named("int")), IsVariadic: true}}, ast.Named("int"), ast.Body(ast.Return(ast.Int(0))))
	one := ast.Func("one", []*ast.Param{ast.P("x", ast.Named("int"))}, ast.Named("int"), ast.Body(ast.Return(ast.Ident("x"))))

	_, ctx := check(t, sum, one,
		ast.Let("l", nil, ast.List(ast.Int(1), ast.Int(2))),
		ast.Expr(ast.Call(ast.Ident("sum"))),
		ast.Expr(ast.Call(ast.Ident("sum"), ast.Int(1), ast.Int(2), ast.Int(3))),
		ast.Expr(ast.Call(ast.Ident("sum"), &ast.SpreadExpr{X: ast.Ident("l")})),
		ast.Expr(ast.Call(ast.Ident("sum"), ast.Str("x"))),
		ast.Expr(ast.Call(ast.Ident("one"), &ast.SpreadExpr{X: ast.Ident("l")})),
		ast.Expr(ast.Call(ast.Ident("one"), ast.Int(1), ast.Int(2))),
		ast.Expr(ast.Call(ast.Ident("l"))),
	)
	assert.Equal(t, []string{
		diagnostics.ErrTypeMismatch,
		diagnostics.ErrInvalidSpread,
		diagnostics.ErrWrongArgumentCount,
		diagnostics.ErrNotCallable,
	}, errorCodes(ctx))
}

func TestReturnChecks(t *testing.T) {
	wrong := ast.Func("wrong", nil, ast.Named("int"), ast.Body(ast.Return(ast.Str("s"))))
	noValue := ast.Func("noValue", nil, ast.Named("void"), ast.Body(ast.Return(ast.Int(1))))
	missing := ast.Func("missing", nil, ast.Named("int"), ast.Body(ast.Return(nil)))

	_, ctx := check(t, wrong, noValue, missing, ast.Return(ast.Int(1)))
	assert.Equal(t, []string{
		diagnostics.ErrInvalidReturn,
		diagnostics.ErrInvalidReturn,
		diagnostics.ErrTypeMismatch,
		diagnostics.ErrInvalidReturn,
	}, errorCodes(ctx))
}

func TestReturnTypeInferredOnDemand(t *testing.T) {
	later := ast.Func("later", nil, nil, ast.Body(ast.Return(ast.Str("s"))))
	fact := ast.Func("fact", []*ast.Param{ast.P("n", ast.Named("int"))}, nil, ast.Body(
		ast.If(ast.Binary(ast.Ident("n"), tokens.LESS_TOKEN, ast.Int(1)), ast.Body(ast.Return(ast.Int(1))), nil),
		ast.Return(ast.Call(ast.Ident("fact"), ast.Binary(ast.Ident("n"), tokens.MINUS_TOKEN, ast.Int(1)))),
	))
	noReturn := ast.Func("noReturn", nil, nil, ast.Body())

	mod, ctx := check(t,
		ast.Let("r", nil, ast.Call(ast.Ident("later"))),
		later, fact, noReturn,
	)
	requireClean(t, ctx)
	assert.Equal(t, "Str", typeOf(t, mod, "r"))
	assert.Equal(t, "fn() -> Str", typeOf(t, mod, "later"))
	assert.Equal(t, "fn() -> Void", typeOf(t, mod, "noReturn"))
}

func TestVoidValueCannotInitialize(t *testing.T) {
	_, ctx := check(t,
		ast.Func("nothing", nil, nil, ast.Body()),
		ast.Let("v", nil, ast.Call(ast.Ident("nothing"))),
	)
	assert.Equal(t, []string{diagnostics.ErrTypeMismatch}, errorCodes(ctx))
}

func TestNullableAccess(t *testing.T) {
	person := &ast.InterfaceDecl{
		Name:       ast.Ident("Person"),
		Properties: []*ast.PropertySig{{Name: "name", Type: ast.Named("str")}},
	}
	guarded := ast.Select(ast.Ident("p"), "name")
	cond := ast.Binary(ast.Ident("p"), tokens.NOT_EQUAL_TOKEN, ast.Null())

	mod, ctx := check(t, person,
		ast.Let("p", ast.NullableOf(ast.Named("Person")), ast.Null()),
		ast.Let("n", nil, &ast.OptionalChainExpr{X: ast.Ident("p"), Field: ast.Ident("name")}),
		ast.If(cond, ast.Body(ast.Expr(guarded)), nil),
		ast.Expr(ast.Select(ast.Ident("p"), "name")),
		ast.Let("k", nil, &ast.NullCoalesceExpr{X: ast.Ident("n"), Y: ast.Str("anon")}),
		ast.Let("forced", nil, &ast.NonNullExpr{X: ast.Ident("n")}),
	)
	assert.Equal(t, []string{diagnostics.ErrInvalidOperation}, errorCodes(ctx))
	assert.Equal(t, "Str?", typeOf(t, mod, "n"))
	assert.Equal(t, "Str", exprType(t, mod, guarded))
	assert.Equal(t, "Str", typeOf(t, mod, "k"))
	assert.Equal(t, "Str", typeOf(t, mod, "forced"))
}

func TestTypeofNarrowing(t *testing.T) {
	inside := ast.Ident("u")
	mod, ctx := check(t,
		ast.Let("u", &ast.UnionType{Members: []ast.TypeNode{ast.Named("int"), ast.Named("str")}}, ast.Int(1)),
		ast.If(ast.Binary(ast.Typeof(ast.Ident("u")), tokens.DOUBLE_EQUAL_TOKEN, ast.Str("str")), ast.Body(ast.Expr(inside)), nil),
	)
	requireClean(t, ctx)
	assert.Equal(t, "Str", exprType(t, mod, inside))
	assert.Equal(t, "Int | Str", typeOf(t, mod, "u"))
}

func TestConditionMustBeBool(t *testing.T) {
	_, ctx := check(t,
		ast.If(ast.Int(1), ast.Body(), nil),
		&ast.WhileStmt{Cond: ast.Str("s"), Body: ast.Body()},
	)
	assert.Equal(t, []string{diagnostics.ErrTypeMismatch, diagnostics.ErrTypeMismatch}, errorCodes(ctx))
}

func TestObjectLiteralAgainstInterface(t *testing.T) {
	point := &ast.InterfaceDecl{
		Name: ast.Ident("Point"),
		Properties: []*ast.PropertySig{
			{Name: "x", Type: ast.Named("int")},
			{Name: "y", Type: ast.Named("int")},
			{Name: "label", Type: ast.Named("str"), Optional: true},
		},
	}
	obj := func(keys ...string) *ast.ObjectLit {
		o := &ast.ObjectLit{}
		for _, k := range keys {
			o.Props = append(o.Props, &ast.ObjectProp{Key: ast.Ident(k), Value: ast.Int(1)})
		}
		return o
	}

	mod, ctx := check(t, point,
		ast.Let("ok", ast.Named("Point"), obj("x", "y")),
		ast.Let("short", ast.Named("Point"), obj("x")),
		ast.Let("extra", ast.Named("Point"), obj("x", "y", "z")),
		ast.Let("anon", nil, obj("a")),
	)
	assert.Equal(t, []string{diagnostics.ErrTypeMismatch, diagnostics.ErrTypeMismatch}, errorCodes(ctx))
	assert.Equal(t, "Point", typeOf(t, mod, "ok"))
	assert.Equal(t, "{ a: Int }", typeOf(t, mod, "anon"))
}

func TestArrowTakesParametersFromHint(t *testing.T) {
	fnType := &ast.FuncType{Params: []*ast.Param{ast.P("x", ast.Named("int"))}, Result: ast.Named("int")}
	arrow := &ast.ArrowFunc{
		Params:   []*ast.Param{ast.P("x", nil)},
		ExprBody: ast.Binary(ast.Ident("x"), tokens.PLUS_TOKEN, ast.Int(1)),
	}
	loose := &ast.ArrowFunc{
		Params: []*ast.Param{ast.P("y", nil)},
		Body:   ast.Body(ast.Return(ast.Ident("y"))),
	}

	mod, ctx := check(t,
		ast.Let("f", fnType, arrow),
		ast.Let("g", nil, loose),
	)
	requireClean(t, ctx)
	assert.Equal(t, "fn(Int) -> Int", typeOf(t, mod, "f"))
	assert.Equal(t, "fn(Int) -> Int", exprType(t, mod, arrow))
	assert.Equal(t, "fn(Any) -> Any", typeOf(t, mod, "g"))
}

func TestExpressionForms(t *testing.T) {
	color := &ast.EnumDecl{Name: ast.Ident("Color"), Members: []*ast.EnumMemberDecl{{Name: ast.Ident("Red")}, {Name: ast.Ident("Green")}}}
	elem := ast.Ident("x")
	match := &ast.MatchExpr{
		Subject: ast.Int(1),
		Arms: []*ast.MatchArm{
			{Pattern: ast.Int(1), Body: ast.Str("one")},
			{Pattern: ast.Ident("_"), Body: ast.Str("many")},
		},
	}

	mod, ctx := check(t, color,
		ast.Let("c", nil, ast.Select(ast.Ident("Color"), "Red")),
		ast.Let("cond", nil, &ast.ConditionalExpr{Cond: ast.Bool(true), Then: ast.Int(1), Else: ast.Float(2.5)}),
		ast.Let("r", nil, &ast.RangeExpr{Start: ast.Int(0), End: ast.Int(3)}),
		ast.Let("t", nil, &ast.TemplateLit{Parts: []ast.Expression{ast.Str("n="), ast.Int(1)}}),
		ast.Let("kind", nil, ast.Typeof(ast.Int(1))),
		ast.Let("m", nil, match),
		ast.Let("len", nil, ast.Select(ast.Str("abc"), "length")),
		ast.Let("first", nil, &ast.IndexExpr{X: ast.List(ast.Str("a")), Index: ast.Int(0)}),
		&ast.ForOfStmt{Var: ast.Ident("x"), Iterable: ast.List(ast.Int(1), ast.Int(2)), Body: ast.Body(ast.Expr(elem))},
	)
	requireClean(t, ctx)
	assert.Equal(t, "Color", typeOf(t, mod, "c"))
	assert.Equal(t, "Float", typeOf(t, mod, "cond"))
	assert.Equal(t, "List<Int>", typeOf(t, mod, "r"))
	assert.Equal(t, "Str", typeOf(t, mod, "t"))
	assert.Equal(t, "Str", typeOf(t, mod, "kind"))
	assert.Equal(t, "Str", typeOf(t, mod, "m"))
	assert.Equal(t, "Int", typeOf(t, mod, "len"))
	assert.Equal(t, "Str", typeOf(t, mod, "first"))
	assert.Equal(t, "Int", exprType(t, mod, elem))
}

func TestInvalidExpressionForms(t *testing.T) {
	_, ctx := check(t,
		ast.Let("u", nil, ast.Ident("missing")),
		ast.Expr(&ast.SpreadExpr{X: ast.List()}),
		ast.Expr(ast.Select(ast.Int(1), "length")),
		ast.Expr(&ast.IndexExpr{X: ast.Int(1), Index: ast.Int(0)}),
		ast.Expr(ast.Instanceof(ast.Int(1), "Nope")),
		&ast.ForOfStmt{Var: ast.Ident("x"), Iterable: ast.Bool(true), Body: ast.Body()},
		ast.Expr(ast.Binary(ast.Str("a"), tokens.MUL_TOKEN, ast.Int(2))),
	)
	assert.Equal(t, []string{
		diagnostics.ErrUndefinedSymbol,
		diagnostics.ErrInvalidSpread,
		diagnostics.ErrFieldNotFound,
		diagnostics.ErrNotIndexable,
		diagnostics.ErrUndefinedSymbol,
		diagnostics.ErrInvalidOperation,
		diagnostics.ErrInvalidOperation,
	}, errorCodes(ctx))
}

func TestNestedDeclarationsAreHoisted(t *testing.T) {
	outer := ast.Func("outer", nil, nil, ast.Body(
		ast.Return(ast.Call(ast.Ident("helper"))),
		ast.Func("helper", nil, ast.Named("bool"), ast.Body(ast.Return(ast.Bool(true)))),
	))
	mod, ctx := check(t, outer)
	requireClean(t, ctx)
	assert.Equal(t, "fn() -> Bool", typeOf(t, mod, "outer"))
	_, leaked := mod.Table.Lookup("helper")
	assert.False(t, leaked)
}

func TestTryCatchBindsError(t *testing.T) {
	used := ast.Ident("e")
	mod, ctx := check(t, &ast.TryStmt{
		Body:       ast.Body(&ast.ThrowStmt{X: ast.Str("boom")}),
		CatchParam: ast.Ident("e"),
		Catch:      ast.Body(ast.Expr(used)),
		Finally:    ast.Body(),
	})
	requireClean(t, ctx)
	assert.Equal(t, "Error", exprType(t, mod, used))
}

func TestControlFlowChecks(t *testing.T) {
	maybe := ast.Func("maybe", []*ast.Param{ast.P("c", ast.Named("bool"))}, ast.Named("int"), ast.Body(
		ast.If(ast.Ident("c"), ast.Body(ast.Return(ast.Int(1))), nil),
	))
	dead := ast.Func("dead", nil, ast.Named("int"), ast.Body(
		ast.Return(ast.Int(1)),
		ast.Expr(ast.Int(2)),
	))
	loose := ast.Func("loose", []*ast.Param{ast.P("c", ast.Named("bool"))}, nil, ast.Body(
		ast.If(ast.Ident("c"), ast.Body(ast.Return(ast.Int(1))), nil),
	))
	later := ast.Func("later", nil, ast.Named("int"), ast.Body())
	later.IsAsync = true

	mod, ctx := check(t, maybe, dead, loose, later)

	assert.Equal(t, []string{
		diagnostics.ErrMissingReturn,
		diagnostics.WarnUnreachableCode,
		diagnostics.ErrMissingReturn,
	}, errorCodes(ctx))
	assert.Equal(t, 2, ctx.Diagnostics.ErrorCount())
	assert.Equal(t, "fn(Bool) -> Int", typeOf(t, mod, "loose"))
}

func TestNarrowingDoesNotLeakIntoShadowingBindings(t *testing.T) {
	notNull := ast.Binary(ast.Ident("x"), tokens.NOT_EQUAL_TOKEN, ast.Null())
	inner := ast.Ident("x")
	mod, ctx := check(t,
		ast.Let("x", ast.NullableOf(ast.Named("int")), ast.Null()),
		ast.If(notNull, ast.Body(
			ast.Let("x", ast.Named("str"), ast.Str("a")),
			ast.Let("y", ast.Named("str"), inner),
		), nil),
	)
	requireClean(t, ctx)
	assert.Equal(t, "Str", exprType(t, mod, inner))
	assert.Equal(t, "Int?", typeOf(t, mod, "x"))
}

func TestNarrowingDoesNotLeakIntoArrowParameters(t *testing.T) {
	isInt := ast.Binary(ast.Typeof(ast.Ident("x")), tokens.DOUBLE_EQUAL_TOKEN, ast.Str("int"))
	param := ast.Ident("x")
	arrow := &ast.ArrowFunc{
		Params:   []*ast.Param{ast.P("x", ast.Named("str"))},
		Result:   ast.Named("str"),
		ExprBody: param,
	}
	mod, ctx := check(t,
		ast.Let("x", &ast.UnionType{Members: []ast.TypeNode{ast.Named("int"), ast.Named("str")}}, ast.Int(1)),
		ast.If(isInt, ast.Body(ast.Let("f", nil, arrow)), nil),
	)
	requireClean(t, ctx)
	assert.Equal(t, "Str", exprType(t, mod, param))
	assert.Equal(t, "fn(Str) -> Str", exprType(t, mod, arrow))
}

func TestReassignmentInNestedBlockEndsNarrowing(t *testing.T) {
	notNull := ast.Binary(ast.Ident("x"), tokens.NOT_EQUAL_TOKEN, ast.Null())
	reset := ast.If(ast.Bool(true), ast.Body(ast.Expr(ast.Assign(ast.Ident("x"), tokens.EQUALS_TOKEN, ast.Null()))), nil)
	_, ctx := check(t,
		ast.Let("x", ast.NullableOf(ast.Named("int")), ast.Int(1)),
		ast.If(notNull, ast.Body(
			reset,
			ast.Let("y", ast.Named("int"), ast.Ident("x")),
		), nil),
	)
	assert.Equal(t, []string{diagnostics.ErrTypeMismatch}, errorCodes(ctx))
}

func TestOptionalChainOnMissingMember(t *testing.T) {
	person := &ast.InterfaceDecl{
		Name:       ast.Ident("Person"),
		Properties: []*ast.PropertySig{{Name: "name", Type: ast.Named("str")}},
	}
	animal, _ := animalHierarchy()

	mod, ctx := check(t, person, animal,
		ast.Let("p", ast.NullableOf(ast.Named("Person")), ast.Null()),
		ast.Let("a", ast.NullableOf(ast.Named("Animal")), ast.Null()),
		ast.Let("m", nil, &ast.OptionalChainExpr{X: ast.Ident("p"), Field: ast.Ident("missing")}),
		ast.Let("n", nil, &ast.OptionalChainExpr{X: ast.Ident("a"), Field: ast.Ident("missing")}),
		ast.Let("s", nil, &ast.OptionalChainExpr{X: ast.Ident("a"), Field: ast.Ident("name")}),
	)
	requireClean(t, ctx)
	assert.Empty(t, errorCodes(ctx))
	assert.Equal(t, "Any?", typeOf(t, mod, "m"))
	assert.Equal(t, "Any?", typeOf(t, mod, "n"))
	assert.Equal(t, "Str?", typeOf(t, mod, "s"))
}

func TestAnnotationWithoutInitializerMustResolve(t *testing.T) {
	mod, ctx := check(t,
		ast.Let("v", ast.Named("Undeclared"), nil),
		ast.Let("w", ast.NullableOf(ast.Named("Missing")), nil),
		ast.Let("ok", ast.Named("int"), nil),
	)
	assert.Equal(t, []string{diagnostics.ErrUnresolvedTypeRef, diagnostics.ErrUnresolvedTypeRef}, errorCodes(ctx))
	assert.Equal(t, "Int", typeOf(t, mod, "ok"))
}
