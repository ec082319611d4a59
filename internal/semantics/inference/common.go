package inference

import (
	"typeengine/internal/types"
)

// DefaultMaxUnionWidth bounds how many distinct members CommonType will keep
// in a union before giving up and returning Any.
const DefaultMaxUnionWidth = 5

// CommonType unifies the types of several expressions (list elements, match
// arms, return values):
//
//   - no types: Unknown; one type: that type
//   - all equal to, or assignable to, the first: the first
//   - all numeric: left fold with the wider-of-two rule
//   - one distinct non-null type plus Null: Nullable of it
//   - 2..maxUnion distinct types: their union; more: Any
func CommonType(ts []types.SemType, maxUnion int) types.SemType {
	if maxUnion <= 0 {
		maxUnion = DefaultMaxUnionWidth
	}
	switch len(ts) {
	case 0:
		return types.TypeUnknown
	case 1:
		return ts[0]
	}

	first := ts[0]
	allFit := true
	for _, t := range ts[1:] {
		if !t.Equals(first) && !types.IsAssignableTo(t, first) {
			allFit = false
			break
		}
	}
	if allFit {
		return first
	}

	allNumeric := true
	for _, t := range ts {
		if !types.IsNumeric(t) {
			allNumeric = false
			break
		}
	}
	if allNumeric {
		kind := first.Kind()
		for _, t := range ts[1:] {
			kind = types.WiderNumeric(kind, t.Kind())
		}
		return types.NewPrimitive(kind)
	}

	hasNull := false
	var distinct []types.SemType
	for _, t := range ts {
		if types.IsNull(t) {
			hasNull = true
			continue
		}
		distinct = appendDistinct(distinct, t)
	}
	if hasNull && len(distinct) == 1 {
		return types.NewNullable(distinct[0])
	}
	if hasNull {
		distinct = append(distinct, types.TypeNull)
	}
	if len(distinct) > maxUnion {
		return types.TypeAny
	}
	return types.NewUnion(distinct...)
}

func appendDistinct(set []types.SemType, t types.SemType) []types.SemType {
	for _, s := range set {
		if s.Equals(t) {
			return set
		}
	}
	return append(set, t)
}
