package types

import (
	"github.com/pkg/errors"
)

var (
	// ErrUnresolvedTypeRef is returned when a TypeRef reaches an assignability check
	ErrUnresolvedTypeRef = errors.New("unresolved type reference")
	// ErrNotAssignable is returned when a value type does not fit the target
	ErrNotAssignable = errors.New("type is not assignable")
)

// IsAssignableTo reports whether a value of type value can be stored where
// target is expected. Any and Unknown absorb on the target side only: an Any
// value does not flow into a concrete target. TypeRefs must be dereferenced by
// the caller; they only match an identical reference here.
func IsAssignableTo(value, target SemType) bool {
	if value == nil || target == nil {
		return false
	}
	if IsAbsorbing(target) {
		return true
	}
	// A union value fits only when every member does
	if u, ok := value.(*UnionType); ok {
		for _, m := range u.Members {
			if !IsAssignableTo(m, target) {
				return false
			}
		}
		return true
	}
	if value.Equals(target) {
		return true
	}

	switch v := value.(type) {
	case *PrimitiveType:
		if t, ok := target.(*PrimitiveType); ok {
			return CanWiden(v.kind, t.kind)
		}
		if v.kind == KindNull {
			return AllowsNull(target)
		}
	case *ListType:
		if t, ok := target.(*ListType); ok {
			return IsAssignableTo(v.Element, t.Element)
		}
	case *NullableType:
		switch t := target.(type) {
		case *NullableType:
			return IsAssignableTo(v.Inner, t.Inner)
		case *UnionType:
			return AllowsNull(t) && IsAssignableTo(v.Inner, t)
		}
		return false
	case *ClassType:
		switch t := target.(type) {
		case *ClassType:
			return v.IsSubclassOf(t.Name)
		case *InterfaceType:
			return satisfies(classShape(v), t)
		}
	case *InterfaceType:
		if t, ok := target.(*InterfaceType); ok {
			return satisfies(v.Properties, t)
		}
	}
	return fitsWrapper(value, target)
}

// fitsWrapper handles a non-union value flowing into Nullable or Union targets
func fitsWrapper(value, target SemType) bool {
	switch t := target.(type) {
	case *NullableType:
		return IsAssignableTo(value, t.Inner)
	case *UnionType:
		for _, m := range t.Members {
			if IsAssignableTo(value, m) {
				return true
			}
		}
	}
	return false
}

// classShape flattens the instance members of c and its ancestors into an
// interface shape. Members closer to c win.
func classShape(c *ClassType) map[string]PropertyInfo {
	shape := map[string]PropertyInfo{}
	for cur := c; cur != nil; cur = cur.Superclass {
		for name, m := range cur.Properties {
			if _, seen := shape[name]; !seen && !m.Static && m.Visibility == Public {
				shape[name] = PropertyInfo{Type: m.Type}
			}
		}
		for name, m := range cur.Methods {
			if _, seen := shape[name]; !seen && !m.Static && m.Visibility == Public {
				shape[name] = PropertyInfo{Type: m.Type}
			}
		}
	}
	return shape
}

// satisfies checks structural compatibility against an interface: every required
// member must be present and assignable, optional members must be assignable if present.
func satisfies(have map[string]PropertyInfo, want *InterfaceType) bool {
	for name, w := range want.Properties {
		h, ok := have[name]
		if !ok {
			if w.Optional {
				continue
			}
			return false
		}
		if h.Optional && !w.Optional {
			return false
		}
		if !IsAssignableTo(h.Type, w.Type) {
			return false
		}
	}
	return true
}

// CheckAssignable is IsAssignableTo with a reason. It fails with
// ErrUnresolvedTypeRef when either side still holds a TypeRef and with
// ErrNotAssignable when the types do not fit.
func CheckAssignable(value, target SemType) error {
	if ref := FindTypeRef(value); ref != nil {
		return errors.Wrapf(ErrUnresolvedTypeRef, "%s", ref.Name)
	}
	if ref := FindTypeRef(target); ref != nil {
		return errors.Wrapf(ErrUnresolvedTypeRef, "%s", ref.Name)
	}
	if !IsAssignableTo(value, target) {
		return errors.Wrapf(ErrNotAssignable, "%s is not assignable to %s", value, target)
	}
	return nil
}

// FindTypeRef returns the first TypeRef reachable through structural
// constructors of t. Class and interface members are not searched.
func FindTypeRef(t SemType) *TypeRefType {
	switch v := t.(type) {
	case *TypeRefType:
		return v
	case *ListType:
		return FindTypeRef(v.Element)
	case *MapType:
		if r := FindTypeRef(v.Key); r != nil {
			return r
		}
		return FindTypeRef(v.Value)
	case *NullableType:
		return FindTypeRef(v.Inner)
	case *FutureType:
		return FindTypeRef(v.Inner)
	case *UnionType:
		for _, m := range v.Members {
			if r := FindTypeRef(m); r != nil {
				return r
			}
		}
	case *FunctionType:
		for _, p := range v.Params {
			if r := FindTypeRef(p.Type); r != nil {
				return r
			}
		}
		return FindTypeRef(v.Return)
	case *GenericType:
		if r := FindTypeRef(v.Base); r != nil {
			return r
		}
		for _, a := range v.Args {
			if r := FindTypeRef(a); r != nil {
				return r
			}
		}
	}
	return nil
}
