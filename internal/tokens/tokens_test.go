package tokens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBinaryOperatorOf(t *testing.T) {
	tests := []struct {
		op   TOKEN
		want TOKEN
		ok   bool
	}{
		{PLUS_EQUALS_TOKEN, PLUS_TOKEN, true},
		{EXP_EQUALS_TOKEN, EXP_TOKEN, true},
		{SHR_EQUALS_TOKEN, SHR_TOKEN, true},
		{XOR_EQUALS_TOKEN, BIT_XOR_TOKEN, true},
		{EQUALS_TOKEN, "", false},
		{PLUS_TOKEN, "", false},
	}

	for _, tt := range tests {
		got, ok := BinaryOperatorOf(tt.op)
		assert.Equal(t, tt.ok, ok, "ok for %s", tt.op)
		assert.Equal(t, tt.want, got, "operator for %s", tt.op)
	}
}

func TestOperatorFamilies(t *testing.T) {
	assert.True(t, IsAssignment(EQUALS_TOKEN))
	assert.True(t, IsAssignment(MOD_EQUALS_TOKEN))
	assert.False(t, IsAssignment(DOUBLE_EQUAL_TOKEN))

	assert.True(t, IsArithmetic(EXP_TOKEN))
	assert.False(t, IsArithmetic(BIT_AND_TOKEN))

	assert.True(t, IsBitwise(USHR_TOKEN))
	assert.True(t, IsOrdering(GREATER_EQUAL_TOKEN))
	assert.False(t, IsOrdering(NOT_EQUAL_TOKEN))
	assert.True(t, IsEquality(NOT_EQUAL_TOKEN))
	assert.True(t, IsLogical(OR_TOKEN))
}
