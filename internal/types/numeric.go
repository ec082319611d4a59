package types

// Numeric widening lattice (signed):
//
//	I8 -> I16 -> I32 -> I64 ~ Int -> Float ~ F32 -> F64 -> Decimal
//
// Kinds in the same tier (I64/Int, Float/F32) widen into each other.
// Unsigned kinds widen within their own chain and into the first signed
// tier that can hold every value: U8 -> I16, U16 -> I32, U32 -> I64,
// U64 -> Float. Nothing widens into an unsigned kind from the signed side.
var latticeRank = map[TypeKind]int{
	KindI8:      0,
	KindI16:     1,
	KindI32:     2,
	KindI64:     3,
	KindInt:     3,
	KindFloat:   4,
	KindF32:     4,
	KindF64:     5,
	KindDecimal: 6,
}

var unsignedRank = map[TypeKind]int{
	KindU8:  0,
	KindU16: 1,
	KindU32: 2,
	KindU64: 3,
}

var unsignedIntoSigned = map[TypeKind]int{
	KindU8:  1,
	KindU16: 2,
	KindU32: 3,
	KindU64: 4,
}

// joinOrder is searched for the smallest common kind of a mixed signed/unsigned pair
var joinOrder = []TypeKind{KindI16, KindI32, KindI64, KindFloat, KindF64, KindDecimal}

func IsNumericKind(k TypeKind) bool {
	_, signed := latticeRank[k]
	_, unsigned := unsignedRank[k]
	return signed || unsigned
}

func IsIntegerKind(k TypeKind) bool {
	switch k {
	case KindInt, KindI8, KindI16, KindI32, KindI64, KindU8, KindU16, KindU32, KindU64:
		return true
	}
	return false
}

func IsFloatKind(k TypeKind) bool {
	switch k {
	case KindFloat, KindF32, KindF64, KindDecimal:
		return true
	}
	return false
}

func IsUnsignedKind(k TypeKind) bool {
	_, ok := unsignedRank[k]
	return ok
}

// CanWiden reports whether a value of kind from may be used where kind to is expected
func CanWiden(from, to TypeKind) bool {
	if from == to {
		return IsNumericKind(from)
	}
	if fr, ok := latticeRank[from]; ok {
		tr, ok := latticeRank[to]
		return ok && tr >= fr
	}
	if fr, ok := unsignedRank[from]; ok {
		if tr, ok := unsignedRank[to]; ok {
			return tr >= fr
		}
		tr, ok := latticeRank[to]
		return ok && tr >= unsignedIntoSigned[from]
	}
	return false
}

// WiderNumeric returns the smallest kind both a and b widen into. Same-tier
// ties keep a.
func WiderNumeric(a, b TypeKind) TypeKind {
	if a == b {
		return a
	}
	ra, aSigned := latticeRank[a]
	rb, bSigned := latticeRank[b]
	if aSigned && bSigned {
		if ra >= rb {
			return a
		}
		return b
	}
	if CanWiden(b, a) {
		return a
	}
	if CanWiden(a, b) {
		return b
	}
	for _, c := range joinOrder {
		if CanWiden(a, c) && CanWiden(b, c) {
			return c
		}
	}
	return KindDecimal
}

// DivisionResult is the kind of a / b for numeric operands: F64 when either side
// is Decimal, F64, I64 or U64; F32 when either side is F32; Float otherwise.
func DivisionResult(a, b TypeKind) TypeKind {
	wide := func(k TypeKind) bool {
		return k == KindDecimal || k == KindF64 || k == KindI64 || k == KindU64
	}
	if wide(a) || wide(b) {
		return KindF64
	}
	if a == KindF32 || b == KindF32 {
		return KindF32
	}
	return KindFloat
}
