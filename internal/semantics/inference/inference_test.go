package inference

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeengine/internal/frontend/ast"
	"typeengine/internal/types"
)

var semTypeComparer = cmp.Comparer(func(a, b types.SemType) bool { return a.Equals(b) })

func TestLiteralType(t *testing.T) {
	tests := []struct {
		name     string
		lit      *ast.BasicLit
		expected types.SemType
		want     types.SemType
	}{
		{"int default", ast.Int(1), nil, types.TypeInt},
		{"int into i8", ast.Int(100), types.TypeI8, types.TypeI8},
		{"int into float", ast.Int(1), types.TypeF64, types.TypeF64},
		{"int into nullable u16", ast.Int(7), types.NewNullable(types.TypeU16), types.TypeU16},
		{"int with str hint", ast.Int(7), types.TypeStr, types.TypeInt},
		{"negative into i8", ast.Int(-128), types.TypeI8, types.TypeI8},
		{"float default", ast.Float(2.5), nil, types.TypeFloat},
		{"float into f32", ast.Float(2.5), types.TypeF32, types.TypeF32},
		{"float into int stays float", ast.Float(2.5), types.TypeInt, types.TypeFloat},
		{"string", ast.Str("x"), types.TypeInt, types.TypeStr},
		{"bool", ast.Bool(false), nil, types.TypeBool},
		{"null", ast.Null(), types.NewNullable(types.TypeInt), types.TypeNull},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diag := LiteralType(tt.lit, tt.expected)
			require.Nil(t, diag)
			assert.True(t, got.Equals(tt.want), "got %s", got)
		})
	}
}

func TestLiteralOutOfRange(t *testing.T) {
	_, diag := LiteralType(ast.Int(300), types.TypeI8)
	require.NotNil(t, diag)
	assert.Contains(t, diag.Message, "does not fit in I8")
	assert.Contains(t, diag.Help, "-128 to 127")

	_, diag = LiteralType(ast.Int(-1), types.TypeU8)
	assert.NotNil(t, diag)
}

func TestHints(t *testing.T) {
	assert.True(t, ElementHint(types.NewNullable(types.NewList(types.TypeStr))).Equals(types.TypeStr))
	assert.Nil(t, ElementHint(types.TypeStr))
	assert.NotNil(t, ShapeHint(types.NewInterface("P", nil)))
	assert.NotNil(t, FunctionHint(types.NewFunction(nil, types.TypeVoid)))
	assert.False(t, HasHint(types.TypeAny))
	assert.False(t, HasHint(nil))
	assert.True(t, HasHint(types.TypeInt))
}

func TestCommonType(t *testing.T) {
	tests := []struct {
		name string
		in   []types.SemType
		want types.SemType
	}{
		{"empty", nil, types.TypeUnknown},
		{"single", []types.SemType{types.TypeStr}, types.TypeStr},
		{"equal", []types.SemType{types.TypeStr, types.TypeStr}, types.TypeStr},
		{"int then float", []types.SemType{types.TypeInt, types.TypeFloat}, types.TypeFloat},
		{"numeric fold", []types.SemType{types.TypeI8, types.TypeI32, types.TypeI16}, types.TypeI32},
		{"int and null", []types.SemType{types.TypeInt, types.TypeNull}, types.NewNullable(types.TypeInt)},
		{"null and str", []types.SemType{types.TypeNull, types.TypeStr, types.TypeNull}, types.NewNullable(types.TypeStr)},
		{"subclass fits first", []types.SemType{types.NewClass("Animal", nil), types.NewClass("Dog", types.NewClass("Animal", nil))}, types.NewClass("Animal", nil)},
		{"two distinct", []types.SemType{types.TypeStr, types.TypeBool}, types.NewUnion(types.TypeStr, types.TypeBool)},
		{"dedup", []types.SemType{types.TypeStr, types.TypeBool, types.TypeStr}, types.NewUnion(types.TypeStr, types.TypeBool)},
		{"null kept in wide union", []types.SemType{types.TypeStr, types.TypeBool, types.TypeNull}, types.NewUnion(types.TypeStr, types.TypeBool, types.TypeNull)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommonType(tt.in, DefaultMaxUnionWidth)
			assert.True(t, got.Equals(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestCommonTypeBoundedUnion(t *testing.T) {
	six := []types.SemType{types.TypeStr, types.TypeBool, types.TypeDate, types.TypeRegex, types.TypeSymbol, types.TypeError}

	got := CommonType(six, DefaultMaxUnionWidth)
	assert.True(t, types.IsAny(got))

	for n := 2; n <= 5; n++ {
		got := CommonType(six[:n], DefaultMaxUnionWidth)
		union, ok := got.(*types.UnionType)
		require.True(t, ok, "%d types", n)
		assert.Len(t, union.Members, n)
		for _, m := range six[:n] {
			assert.True(t, union.Has(m))
		}
	}

	// the width is configurable
	assert.True(t, types.IsAny(CommonType(six[:3], 2)))
}

func TestInferTypeArguments(t *testing.T) {
	T := types.NewTypeParam("T", nil)
	U := types.NewTypeParam("U", types.TypeStr)
	box := types.NewClass("Box", nil)

	tests := []struct {
		name   string
		params []types.SemType
		args   []types.SemType
		want   map[string]types.SemType
	}{
		{
			name:   "bare parameter",
			params: []types.SemType{T},
			args:   []types.SemType{types.TypeStr},
			want:   map[string]types.SemType{"T": types.TypeStr, "U": types.TypeStr},
		},
		{
			name:   "numeric rebinding widens",
			params: []types.SemType{T, T},
			args:   []types.SemType{types.TypeInt, types.TypeFloat},
			want:   map[string]types.SemType{"T": types.TypeFloat, "U": types.TypeStr},
		},
		{
			name:   "non numeric rebinding keeps first",
			params: []types.SemType{T, T},
			args:   []types.SemType{types.TypeStr, types.TypeBool},
			want:   map[string]types.SemType{"T": types.TypeStr, "U": types.TypeStr},
		},
		{
			name:   "through list",
			params: []types.SemType{types.NewList(T)},
			args:   []types.SemType{types.NewList(types.TypeBool)},
			want:   map[string]types.SemType{"T": types.TypeBool, "U": types.TypeStr},
		},
		{
			name:   "through generic",
			params: []types.SemType{types.NewGeneric(box, []types.SemType{T})},
			args:   []types.SemType{types.NewGeneric(box, []types.SemType{types.TypeF64})},
			want:   map[string]types.SemType{"T": types.TypeF64, "U": types.TypeStr},
		},
		{
			name:   "unbound defaults",
			params: []types.SemType{types.TypeInt},
			args:   []types.SemType{types.TypeInt},
			want:   map[string]types.SemType{"T": types.TypeUnknown, "U": types.TypeStr},
		},
		{
			name:   "two parameters",
			params: []types.SemType{T, U},
			args:   []types.SemType{types.TypeInt, types.TypeStr},
			want:   map[string]types.SemType{"T": types.TypeInt, "U": types.TypeStr},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InferTypeArguments([]*types.TypeParamType{T, U}, tt.params, tt.args)
			if diff := cmp.Diff(tt.want, got, semTypeComparer); diff != "" {
				t.Errorf("InferTypeArguments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckConstraints(t *testing.T) {
	shape := types.NewInterface("Named", map[string]types.PropertyInfo{"name": {Type: types.TypeStr}})
	T := types.NewTypeParam("T", shape)
	ok := types.NewClass("Person", nil).WithProperty(&types.Member{Name: "name", Type: types.TypeStr})

	assert.Nil(t, CheckConstraints([]*types.TypeParamType{T}, map[string]types.SemType{"T": ok}))
	diag := CheckConstraints([]*types.TypeParamType{T}, map[string]types.SemType{"T": types.TypeInt})
	require.NotNil(t, diag)
	assert.Contains(t, diag.Message, "does not satisfy constraint Named")
}

func TestExplicitTypeArguments(t *testing.T) {
	T := types.NewTypeParam("T", nil)
	subst, diag := ExplicitTypeArguments([]*types.TypeParamType{T}, []types.SemType{types.TypeStr})
	require.Nil(t, diag)
	assert.True(t, subst["T"].Equals(types.TypeStr))

	_, diag = ExplicitTypeArguments([]*types.TypeParamType{T}, nil)
	assert.NotNil(t, diag)
}
