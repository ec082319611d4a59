package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeengine/internal/diagnostics"
	"typeengine/internal/tokens"
	"typeengine/internal/types"
)

func TestBinaryResult(t *testing.T) {
	tests := []struct {
		name string
		op   tokens.TOKEN
		x, y types.SemType
		want types.SemType // nil means an error is expected
	}{
		{"int plus int", tokens.PLUS_TOKEN, types.TypeInt, types.TypeInt, types.TypeInt},
		{"int plus float", tokens.PLUS_TOKEN, types.TypeInt, types.TypeFloat, types.TypeFloat},
		{"str concat", tokens.PLUS_TOKEN, types.TypeStr, types.TypeInt, types.TypeStr},
		{"str concat right", tokens.PLUS_TOKEN, types.TypeBool, types.TypeStr, types.TypeStr},
		{"str minus", tokens.MINUS_TOKEN, types.TypeStr, types.TypeInt, nil},
		{"i8 times i32", tokens.MUL_TOKEN, types.TypeI8, types.TypeI32, types.TypeI32},
		{"power", tokens.EXP_TOKEN, types.TypeInt, types.TypeF64, types.TypeF64},
		{"int div int", tokens.DIV_TOKEN, types.TypeInt, types.TypeInt, types.TypeFloat},
		{"i64 div int", tokens.DIV_TOKEN, types.TypeI64, types.TypeInt, types.TypeF64},
		{"f32 div int", tokens.DIV_TOKEN, types.TypeF32, types.TypeInt, types.TypeF32},
		{"any arithmetic", tokens.MUL_TOKEN, types.TypeAny, types.TypeStr, types.TypeAny},
		{"bitwise", tokens.BIT_AND_TOKEN, types.TypeI8, types.TypeI32, types.TypeI32},
		{"bitwise mixed sign", tokens.SHL_TOKEN, types.TypeU8, types.TypeI8, types.TypeInt},
		{"bitwise float", tokens.BIT_OR_TOKEN, types.TypeInt, types.TypeFloat, nil},
		{"compare numbers", tokens.LESS_TOKEN, types.TypeInt, types.TypeF64, types.TypeBool},
		{"compare strings", tokens.GREATER_EQUAL_TOKEN, types.TypeStr, types.TypeStr, types.TypeBool},
		{"compare mixed", tokens.LESS_TOKEN, types.TypeStr, types.TypeInt, nil},
		{"equality any pair", tokens.DOUBLE_EQUAL_TOKEN, types.TypeStr, types.TypeNull, types.TypeBool},
		{"logical", tokens.AND_TOKEN, types.TypeBool, types.TypeBool, types.TypeBool},
		{"logical non bool", tokens.OR_TOKEN, types.TypeBool, types.TypeInt, nil},
		{"range", tokens.RANGE_TOKEN, types.TypeInt, types.TypeI8, types.NewList(types.TypeInt)},
		{"range float", tokens.RANGE_TOKEN, types.TypeFloat, types.TypeInt, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, diag := BinaryResult(tt.op, tt.x, tt.y)
			if tt.want == nil {
				require.NotNil(t, diag)
				assert.False(t, diag.Located())
				return
			}
			require.Nil(t, diag)
			assert.True(t, got.Equals(tt.want), "got %s want %s", got, tt.want)
		})
	}
}

func TestDivisionByZeroLiteralIsNotATypeError(t *testing.T) {
	// x / 0 with x: int is Float, the zero is only a runtime concern
	got, diag := BinaryResult(tokens.DIV_TOKEN, types.TypeInt, types.TypeInt)
	require.Nil(t, diag)
	assert.True(t, got.Equals(types.TypeFloat))
}

func TestUnaryResult(t *testing.T) {
	got, diag := UnaryResult(tokens.MINUS_TOKEN, types.TypeF32)
	require.Nil(t, diag)
	assert.True(t, got.Equals(types.TypeF32))

	_, diag = UnaryResult(tokens.NOT_TOKEN, types.TypeInt)
	assert.NotNil(t, diag)

	_, diag = UnaryResult(tokens.BIT_NOT_TOKEN, types.TypeFloat)
	assert.NotNil(t, diag)

	got, diag = UnaryResult(tokens.NOT_TOKEN, types.TypeAny)
	require.Nil(t, diag)
	assert.True(t, got.Equals(types.TypeBool))
}

func TestCompoundAssignment(t *testing.T) {
	// int += float widens to Float, which does not fit back into Int
	_, diag := CheckCompoundAssign(tokens.PLUS_EQUALS_TOKEN, types.TypeInt, types.TypeFloat)
	require.NotNil(t, diag)
	assert.Equal(t, diagnostics.ErrInvalidAssignment, diag.Code)

	got, diag := CheckCompoundAssign(tokens.PLUS_EQUALS_TOKEN, types.TypeFloat, types.TypeInt)
	require.Nil(t, diag)
	assert.True(t, got.Equals(types.TypeFloat))

	// /= always yields a float kind
	_, diag = CheckCompoundAssign(tokens.DIV_EQUALS_TOKEN, types.TypeInt, types.TypeInt)
	assert.NotNil(t, diag)

	got, diag = CheckCompoundAssign(tokens.PLUS_EQUALS_TOKEN, types.TypeStr, types.TypeInt)
	require.Nil(t, diag)
	assert.True(t, got.Equals(types.TypeStr))

	_, diag = CheckCompoundAssign(tokens.EQUALS_TOKEN, types.TypeInt, types.TypeInt)
	assert.NotNil(t, diag)
}

func TestCheckAssign(t *testing.T) {
	diag := CheckAssign(types.TypeStr, types.TypeInt)
	require.NotNil(t, diag)
	assert.Equal(t, "Str not assignable to Int", diag.Message)
	assert.Equal(t, diagnostics.ErrTypeMismatch, diag.Code)

	diag = CheckAssign(types.NewTypeRef("Ghost", "main.ts"), types.TypeAny)
	require.NotNil(t, diag)
	assert.Equal(t, diagnostics.ErrUnresolvedTypeRef, diag.Code)
	assert.Contains(t, diag.Message, "Ghost")

	assert.Nil(t, CheckAssign(types.TypeInt, types.NewNullable(types.TypeFloat)))
}

func TestIndexResult(t *testing.T) {
	got, diag := IndexResult(types.NewList(types.TypeStr), types.TypeInt)
	require.Nil(t, diag)
	assert.True(t, got.Equals(types.TypeStr))

	got, diag = IndexResult(types.TypeStr, types.TypeU8)
	require.Nil(t, diag)
	assert.True(t, got.Equals(types.TypeStr))

	_, diag = IndexResult(types.NewList(types.TypeStr), types.TypeFloat)
	assert.NotNil(t, diag)

	_, diag = IndexResult(types.TypeBool, types.TypeInt)
	require.NotNil(t, diag)
	assert.Equal(t, diagnostics.ErrNotIndexable, diag.Code)

	got, diag = IndexResult(types.NewMap(types.TypeStr, types.TypeBool), types.TypeStr)
	require.Nil(t, diag)
	assert.True(t, got.Equals(types.TypeBool))
}

func TestVisibility(t *testing.T) {
	pub := &types.Member{Name: "a", Visibility: types.Public, Owner: "Animal"}
	priv := &types.Member{Name: "b", Visibility: types.Private, Owner: "Animal"}
	prot := &types.Member{Name: "c", Visibility: types.Protected, Owner: "Animal"}

	tests := []struct {
		member  *types.Member
		current string
		want    bool
	}{
		{pub, "", true},
		{priv, "Animal", true},
		{priv, "Dog", false},
		{priv, "", false},
		{prot, "Animal", true},
		{prot, "Dog", false},
		{prot, "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CanAccess(tt.member, tt.current), "%s from %q", tt.member.Name, tt.current)
	}
	assert.NotNil(t, CheckAccess(priv, "Dog"))
}
