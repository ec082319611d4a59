// Package inference holds the type-synthesis algorithms: literal
// contextualization, contextual hints, common-type unification and generic
// type-argument inference.
package inference

import (
	"fmt"
	"math/big"

	"typeengine/internal/diagnostics"
	"typeengine/internal/frontend/ast"
	"typeengine/internal/types"
)

// LiteralType is the single source of truth for literal typing.
//
// Rules:
//   - An INT literal takes the expected integer or float kind, else Int
//   - A FLOAT literal takes the expected float kind, else Float
//   - Nullable hints are unwrapped first
//   - An INT literal that does not fit the expected integer kind is an error
func LiteralType(lit *ast.BasicLit, expected types.SemType) (types.SemType, *diagnostics.Diagnostic) {
	hint := Unwrap(expected)
	switch lit.Kind {
	case ast.INT:
		if types.IsInteger(hint) {
			if !fitsInKind(lit.Value, hint.Kind()) {
				return nil, diagnostics.NewError(fmt.Sprintf("integer literal %s does not fit in %s", lit.Value, hint)).
					WithCode(diagnostics.ErrTypeMismatch).
					WithHelp(fmt.Sprintf("%s holds %s", hint, kindRange(hint.Kind())))
			}
			return hint, nil
		}
		if types.IsFloat(hint) {
			return hint, nil
		}
		return types.TypeInt, nil
	case ast.FLOAT:
		if types.IsFloat(hint) {
			return hint, nil
		}
		return types.TypeFloat, nil
	case ast.STRING:
		return types.TypeStr, nil
	case ast.BOOL:
		return types.TypeBool, nil
	case ast.NULL:
		return types.TypeNull, nil
	}
	return types.TypeUnknown, nil
}

var bitSizes = map[types.TypeKind]struct {
	bits   uint
	signed bool
}{
	types.KindI8:  {8, true},
	types.KindI16: {16, true},
	types.KindI32: {32, true},
	types.KindI64: {64, true},
	types.KindInt: {64, true},
	types.KindU8:  {8, false},
	types.KindU16: {16, false},
	types.KindU32: {32, false},
	types.KindU64: {64, false},
}

func bounds(kind types.TypeKind) (min, max *big.Int) {
	size := bitSizes[kind]
	one := big.NewInt(1)
	if size.signed {
		max = new(big.Int).Sub(new(big.Int).Lsh(one, size.bits-1), one)
		min = new(big.Int).Neg(new(big.Int).Lsh(one, size.bits-1))
		return min, max
	}
	return big.NewInt(0), new(big.Int).Sub(new(big.Int).Lsh(one, size.bits), one)
}

// fitsInKind checks a literal's digits against the range of an integer kind.
// Unparseable text is left to the producer of the tree and accepted.
func fitsInKind(value string, kind types.TypeKind) bool {
	if _, ok := bitSizes[kind]; !ok {
		return true
	}
	n, ok := new(big.Int).SetString(value, 0)
	if !ok {
		return true
	}
	min, max := bounds(kind)
	return n.Cmp(min) >= 0 && n.Cmp(max) <= 0
}

func kindRange(kind types.TypeKind) string {
	min, max := bounds(kind)
	return fmt.Sprintf("%s to %s", min, max)
}
