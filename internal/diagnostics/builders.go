package diagnostics

import (
	"fmt"

	"typeengine/internal/source"
)

// Common diagnostic builders for the type checker

// UndefinedSymbol creates a diagnostic for undefined symbol
func UndefinedSymbol(filepath string, loc *source.Location, name string) *Diagnostic {
	return NewError("undefined symbol: "+name).
		WithCode(ErrUndefinedSymbol).
		WithPrimaryLabel(filepath, loc, "not found in this scope").
		WithHelp("check if the symbol is declared before it is used")
}

// RedeclaredSymbol creates a diagnostic for redeclared symbol
func RedeclaredSymbol(filepath string, newLoc, prevLoc *source.Location, name string) *Diagnostic {
	d := NewError(name+" is already declared").
		WithCode(ErrRedeclaredSymbol).
		WithPrimaryLabel(filepath, newLoc, "redeclared here")
	if prevLoc != nil {
		d = d.WithSecondaryLabel(filepath, prevLoc, "previously declared here")
	}
	return d.WithHelp("use a different name or remove one of the declarations")
}

// WrongArgumentCount creates a diagnostic for wrong number of arguments
func WrongArgumentCount(filepath string, loc *source.Location, expected, found int) *Diagnostic {
	return NewError("wrong number of arguments").
		WithCode(ErrWrongArgumentCount).
		WithPrimaryLabel(filepath, loc, fmt.Sprintf("expected %d argument(s), found %d", expected, found))
}

// FieldNotFound creates a diagnostic for field not found
func FieldNotFound(filepath string, loc *source.Location, fieldName, typeName string) *Diagnostic {
	return NewError("field "+fieldName+" not found").
		WithCode(ErrFieldNotFound).
		WithPrimaryLabel(filepath, loc, typeName+" has no field "+fieldName).
		WithHelp("check the field name spelling")
}

// NotAssignable reports a value whose type does not fit its target
func NotAssignable(filepath string, loc *source.Location, value, target fmt.Stringer) *Diagnostic {
	return NewError(fmt.Sprintf("%s not assignable to %s", value, target)).
		WithCode(ErrTypeMismatch).
		WithPrimaryLabel(filepath, loc, "expected "+target.String())
}

// UnresolvedTypeRef reports a type reference that reached an assignability check
func UnresolvedTypeRef(filepath string, loc *source.Location, name string) *Diagnostic {
	return NewError("cannot check assignability of unresolved type reference " + name).
		WithCode(ErrUnresolvedTypeRef).
		WithPrimaryLabel(filepath, loc, name+" is not resolved").
		WithHelp("declare " + name + " or fix the annotation")
}

// NotAClass reports a non-class symbol used where a class is required
func NotAClass(filepath string, loc *source.Location, name string) *Diagnostic {
	return NewError(name+" is not a class").
		WithCode(ErrNotAClass).
		WithPrimaryLabel(filepath, loc, "expected a class")
}

// NotCallable reports a call on a value that is not a function
func NotCallable(filepath string, loc *source.Location, typeName string) *Diagnostic {
	return NewError("cannot call a value of type " + typeName).
		WithCode(ErrNotCallable).
		WithPrimaryLabel(filepath, loc, "not a function")
}
