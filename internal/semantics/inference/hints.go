package inference

import (
	"typeengine/internal/types"
)

// Unwrap drops a Nullable wrapper from a contextual hint. A nil hint is Unknown.
func Unwrap(hint types.SemType) types.SemType {
	if hint == nil {
		return types.TypeUnknown
	}
	if n, ok := hint.(*types.NullableType); ok {
		return n.Inner
	}
	return hint
}

// ElementHint returns the element type a list literal should reuse, or nil
func ElementHint(hint types.SemType) types.SemType {
	if l, ok := Unwrap(hint).(*types.ListType); ok {
		return l.Element
	}
	return nil
}

// ShapeHint returns the interface an object literal should be checked against, or nil
func ShapeHint(hint types.SemType) *types.InterfaceType {
	if i, ok := Unwrap(hint).(*types.InterfaceType); ok {
		return i
	}
	return nil
}

// FunctionHint returns the signature an arrow function should adopt, or nil
func FunctionHint(hint types.SemType) *types.FunctionType {
	if f, ok := Unwrap(hint).(*types.FunctionType); ok {
		return f
	}
	return nil
}

// HasHint reports whether hint carries information beyond Any/Unknown
func HasHint(hint types.SemType) bool {
	return hint != nil && !types.IsAbsorbing(hint)
}
