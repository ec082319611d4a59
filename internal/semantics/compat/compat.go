// Package compat decides whether operand types fit an operator and what the
// result type is. Failures are returned as diagnostics without a location;
// the caller attaches the node position.
package compat

import (
	"fmt"

	"github.com/pkg/errors"

	"typeengine/internal/diagnostics"
	"typeengine/internal/tokens"
	"typeengine/internal/types"
)

func invalidOperation(format string, args ...any) *diagnostics.Diagnostic {
	return diagnostics.NewError(fmt.Sprintf(format, args...)).WithCode(diagnostics.ErrInvalidOperation)
}

func kindOf(t types.SemType) types.TypeKind {
	return t.Kind()
}

// BinaryResult returns the type of x op y
func BinaryResult(op tokens.TOKEN, x, y types.SemType) (types.SemType, *diagnostics.Diagnostic) {
	switch {
	case tokens.IsEquality(op):
		return types.TypeBool, nil

	case tokens.IsLogical(op):
		if types.IsBool(x) && types.IsBool(y) {
			return types.TypeBool, nil
		}
		return nil, invalidOperation("operator %s requires Bool operands, got %s and %s", op, x, y)

	case tokens.IsOrdering(op):
		if types.IsAny(x) || types.IsAny(y) {
			return types.TypeBool, nil
		}
		if types.IsNumeric(x) && types.IsNumeric(y) {
			return types.TypeBool, nil
		}
		if x.Equals(y) {
			return types.TypeBool, nil
		}
		return nil, invalidOperation("cannot compare %s and %s with %s", x, y, op)

	case tokens.IsBitwise(op):
		if types.IsAny(x) || types.IsAny(y) {
			return types.TypeAny, nil
		}
		if !types.IsInteger(x) || !types.IsInteger(y) {
			return nil, invalidOperation("operator %s requires integer operands, got %s and %s", op, x, y)
		}
		return bitwiseResult(kindOf(x), kindOf(y)), nil

	case tokens.IsArithmetic(op):
		return arithmeticResult(op, x, y)

	case op == tokens.RANGE_TOKEN:
		return RangeResult(x, y)
	}
	return nil, invalidOperation("unsupported binary operator %s", op)
}

func arithmeticResult(op tokens.TOKEN, x, y types.SemType) (types.SemType, *diagnostics.Diagnostic) {
	if types.IsAny(x) || types.IsAny(y) {
		return types.TypeAny, nil
	}
	if op == tokens.PLUS_TOKEN && (types.IsStr(x) || types.IsStr(y)) {
		return types.TypeStr, nil
	}
	if !types.IsNumeric(x) || !types.IsNumeric(y) {
		return nil, invalidOperation("operator %s cannot be applied to %s and %s", op, x, y).
			WithHelp("arithmetic needs numeric operands; only + also accepts Str")
	}
	// division by a literal zero is a runtime failure, not a type error
	if op == tokens.DIV_TOKEN {
		return types.NewPrimitive(types.DivisionResult(kindOf(x), kindOf(y))), nil
	}
	return types.NewPrimitive(types.WiderNumeric(kindOf(x), kindOf(y))), nil
}

func bitwiseResult(a, b types.TypeKind) types.SemType {
	switch {
	case types.CanWiden(a, b):
		return types.NewPrimitive(b)
	case types.CanWiden(b, a):
		return types.NewPrimitive(a)
	}
	return types.TypeInt
}

// UnaryResult returns the type of op x for - + ! ~
func UnaryResult(op tokens.TOKEN, x types.SemType) (types.SemType, *diagnostics.Diagnostic) {
	if types.IsAny(x) {
		if op == tokens.NOT_TOKEN {
			return types.TypeBool, nil
		}
		return types.TypeAny, nil
	}
	switch op {
	case tokens.MINUS_TOKEN, tokens.PLUS_TOKEN:
		if types.IsNumeric(x) {
			return x, nil
		}
	case tokens.NOT_TOKEN:
		if types.IsBool(x) {
			return types.TypeBool, nil
		}
	case tokens.BIT_NOT_TOKEN:
		if types.IsInteger(x) {
			return x, nil
		}
	default:
		return nil, invalidOperation("unsupported unary operator %s", op)
	}
	return nil, invalidOperation("operator %s cannot be applied to %s", op, x)
}

// IncDecResult checks ++ and -- operands
func IncDecResult(op tokens.TOKEN, x types.SemType) (types.SemType, *diagnostics.Diagnostic) {
	if types.IsNumeric(x) || types.IsAny(x) {
		return x, nil
	}
	return nil, invalidOperation("operator %s requires a numeric operand, got %s", op, x)
}

// RangeResult checks start..end; both ends must be integers
func RangeResult(start, end types.SemType) (types.SemType, *diagnostics.Diagnostic) {
	okEnd := func(t types.SemType) bool { return types.IsInteger(t) || types.IsAny(t) }
	if okEnd(start) && okEnd(end) {
		return types.NewList(types.TypeInt), nil
	}
	return nil, invalidOperation("range bounds must be integers, got %s and %s", start, end)
}

// CheckAssign reports whether value may be stored into target
func CheckAssign(value, target types.SemType) *diagnostics.Diagnostic {
	err := types.CheckAssignable(value, target)
	if err == nil {
		return nil
	}
	if errors.Cause(err) == types.ErrUnresolvedTypeRef {
		name := ""
		if ref := types.FindTypeRef(value); ref != nil {
			name = ref.Name
		} else if ref := types.FindTypeRef(target); ref != nil {
			name = ref.Name
		}
		return diagnostics.NewError("cannot check assignability of unresolved type reference " + name).
			WithCode(diagnostics.ErrUnresolvedTypeRef)
	}
	return diagnostics.NewError(fmt.Sprintf("%s not assignable to %s", value, target)).
		WithCode(diagnostics.ErrTypeMismatch)
}

// CheckCompoundAssign validates target op= value in two steps: the underlying
// binary operator must accept the operands, and its result must be assignable
// back to the target. The expression's type is the target type.
func CheckCompoundAssign(op tokens.TOKEN, target, value types.SemType) (types.SemType, *diagnostics.Diagnostic) {
	bin, ok := tokens.BinaryOperatorOf(op)
	if !ok {
		return nil, invalidOperation("%s is not a compound assignment", op)
	}
	result, diag := BinaryResult(bin, target, value)
	if diag != nil {
		return nil, diag
	}
	if diag := CheckAssign(result, target); diag != nil {
		if diag.Code == diagnostics.ErrTypeMismatch {
			diag.WithCode(diagnostics.ErrInvalidAssignment)
		}
		return nil, diag.WithNote(fmt.Sprintf("%s produces %s", op, result))
	}
	return target, nil
}

// IndexResult returns the type of object[index]. Lists yield their element
// and strings yield Str, both with an integer index. Maps take their key type.
func IndexResult(object, index types.SemType) (types.SemType, *diagnostics.Diagnostic) {
	if types.IsAny(object) {
		return types.TypeAny, nil
	}
	if m, ok := object.(*types.MapType); ok {
		if d := CheckAssign(index, m.Key); d != nil {
			return nil, diagnostics.NewError(fmt.Sprintf("map key must be %s, got %s", m.Key, index)).
				WithCode(diagnostics.ErrTypeMismatch)
		}
		return m.Value, nil
	}
	if !types.IsInteger(index) && !types.IsAny(index) {
		return nil, diagnostics.NewError(fmt.Sprintf("index must be an integer, got %s", index)).
			WithCode(diagnostics.ErrTypeMismatch)
	}
	switch o := object.(type) {
	case *types.ListType:
		return o.Element, nil
	case *types.PrimitiveType:
		if types.IsStr(o) {
			return types.TypeStr, nil
		}
	}
	return nil, diagnostics.NewError(fmt.Sprintf("type %s cannot be indexed", object)).
		WithCode(diagnostics.ErrNotIndexable)
}

// CanAccess applies member visibility from inside currentClass ("" outside
// any class). Private and protected members are only reachable from the
// declaring class itself.
func CanAccess(m *types.Member, currentClass string) bool {
	switch m.Visibility {
	case types.Private:
		return currentClass == m.Owner
	case types.Protected:
		return currentClass != "" && currentClass == m.Owner
	}
	return true
}

// CheckAccess is CanAccess with a diagnostic
func CheckAccess(m *types.Member, currentClass string) *diagnostics.Diagnostic {
	if CanAccess(m, currentClass) {
		return nil
	}
	return diagnostics.NewError(fmt.Sprintf("%s member %s of %s is not accessible here", m.Visibility, m.Name, m.Owner)).
		WithCode(diagnostics.ErrVisibility)
}
