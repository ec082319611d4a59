package types

import (
	"fmt"
	"strings"

	gfn "github.com/panyam/goutils/fn"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// SemType is the semantic representation of a type.
//
// Design principles:
// - Types are immutable after creation (classes grow through copy-on-write)
// - Equality is structural, except classes and enums which compare by name
// - All types can be displayed as strings
type SemType interface {
	// String returns a human-readable representation of the type
	String() string

	// Equals checks equality with another type
	Equals(other SemType) bool

	// Kind returns the discriminant of the variant
	Kind() TypeKind

	// isType is a marker method to prevent external implementation
	isType()
}

// PrimitiveType represents a built-in scalar type (Int, Str, Bool, ...)
type PrimitiveType struct {
	kind TypeKind
}

func (p *PrimitiveType) String() string { return p.kind.String() }
func (p *PrimitiveType) Kind() TypeKind { return p.kind }
func (p *PrimitiveType) isType()        {}
func (p *PrimitiveType) Equals(other SemType) bool {
	o, ok := other.(*PrimitiveType)
	return ok && o.kind == p.kind
}

var primitives = map[TypeKind]*PrimitiveType{}

// NewPrimitive returns the shared instance for a primitive kind.
// It panics when kind names a composite variant.
func NewPrimitive(kind TypeKind) *PrimitiveType {
	p, ok := primitives[kind]
	if !ok {
		panic(fmt.Sprintf("types: %s is not a primitive kind", kind))
	}
	return p
}

var (
	TypeInt     *PrimitiveType
	TypeFloat   *PrimitiveType
	TypeI8      *PrimitiveType
	TypeI16     *PrimitiveType
	TypeI32     *PrimitiveType
	TypeI64     *PrimitiveType
	TypeU8      *PrimitiveType
	TypeU16     *PrimitiveType
	TypeU32     *PrimitiveType
	TypeU64     *PrimitiveType
	TypeF32     *PrimitiveType
	TypeF64     *PrimitiveType
	TypeDecimal *PrimitiveType
	TypeStr     *PrimitiveType
	TypeBool    *PrimitiveType
	TypeNull    *PrimitiveType
	TypeVoid    *PrimitiveType
	TypeAny     *PrimitiveType
	TypeUnknown *PrimitiveType
	TypeSymbol  *PrimitiveType
	TypeDate    *PrimitiveType
	TypeRegex   *PrimitiveType
	TypeError   *PrimitiveType
)

func init() {
	for k := KindInt; k <= KindError; k++ {
		primitives[k] = &PrimitiveType{kind: k}
	}
	TypeInt = primitives[KindInt]
	TypeFloat = primitives[KindFloat]
	TypeI8 = primitives[KindI8]
	TypeI16 = primitives[KindI16]
	TypeI32 = primitives[KindI32]
	TypeI64 = primitives[KindI64]
	TypeU8 = primitives[KindU8]
	TypeU16 = primitives[KindU16]
	TypeU32 = primitives[KindU32]
	TypeU64 = primitives[KindU64]
	TypeF32 = primitives[KindF32]
	TypeF64 = primitives[KindF64]
	TypeDecimal = primitives[KindDecimal]
	TypeStr = primitives[KindStr]
	TypeBool = primitives[KindBool]
	TypeNull = primitives[KindNull]
	TypeVoid = primitives[KindVoid]
	TypeAny = primitives[KindAny]
	TypeUnknown = primitives[KindUnknown]
	TypeSymbol = primitives[KindSymbol]
	TypeDate = primitives[KindDate]
	TypeRegex = primitives[KindRegex]
	TypeError = primitives[KindError]
}

// ListType represents List<T>
type ListType struct {
	Element SemType
}

func NewList(element SemType) *ListType {
	return &ListType{Element: element}
}

func (l *ListType) String() string { return "List<" + l.Element.String() + ">" }
func (l *ListType) Kind() TypeKind { return KindList }
func (l *ListType) isType()        {}
func (l *ListType) Equals(other SemType) bool {
	o, ok := other.(*ListType)
	return ok && l.Element.Equals(o.Element)
}

// MapType represents Map<K, V>
type MapType struct {
	Key   SemType
	Value SemType
}

func NewMap(key, value SemType) *MapType {
	return &MapType{Key: key, Value: value}
}

func (m *MapType) String() string {
	return fmt.Sprintf("Map<%s, %s>", m.Key.String(), m.Value.String())
}
func (m *MapType) Kind() TypeKind { return KindMap }
func (m *MapType) isType()        {}
func (m *MapType) Equals(other SemType) bool {
	o, ok := other.(*MapType)
	return ok && m.Key.Equals(o.Key) && m.Value.Equals(o.Value)
}

// NullableType represents T? (T or null)
type NullableType struct {
	Inner SemType
}

// NewNullable wraps inner. Null and already-nullable types are returned unchanged.
func NewNullable(inner SemType) SemType {
	if _, ok := inner.(*NullableType); ok {
		return inner
	}
	if IsNull(inner) {
		return inner
	}
	return &NullableType{Inner: inner}
}

func (n *NullableType) String() string { return n.Inner.String() + "?" }
func (n *NullableType) Kind() TypeKind { return KindNullable }
func (n *NullableType) isType()        {}
func (n *NullableType) Equals(other SemType) bool {
	o, ok := other.(*NullableType)
	return ok && n.Inner.Equals(o.Inner)
}

// UnionType represents A | B | ... Members are flat and distinct.
type UnionType struct {
	Members []SemType
}

// NewUnion flattens nested unions and drops duplicate members. A single
// surviving member is returned as-is; an empty union is Unknown.
func NewUnion(members ...SemType) SemType {
	flat := make([]SemType, 0, len(members))
	var add func(t SemType)
	add = func(t SemType) {
		if u, ok := t.(*UnionType); ok {
			for _, m := range u.Members {
				add(m)
			}
			return
		}
		for _, seen := range flat {
			if seen.Equals(t) {
				return
			}
		}
		flat = append(flat, t)
	}
	for _, m := range members {
		if m != nil {
			add(m)
		}
	}
	switch len(flat) {
	case 0:
		return TypeUnknown
	case 1:
		return flat[0]
	}
	return &UnionType{Members: flat}
}

func (u *UnionType) String() string {
	return strings.Join(gfn.Map(u.Members, func(t SemType) string { return t.String() }), " | ")
}
func (u *UnionType) Kind() TypeKind { return KindUnion }
func (u *UnionType) isType()        {}

// Equals treats unions as sets: every member must have an equal counterpart.
func (u *UnionType) Equals(other SemType) bool {
	o, ok := other.(*UnionType)
	if !ok || len(o.Members) != len(u.Members) {
		return false
	}
	for _, m := range u.Members {
		if !o.Has(m) {
			return false
		}
	}
	return true
}

// Has reports whether t equals one of the members
func (u *UnionType) Has(t SemType) bool {
	for _, m := range u.Members {
		if m.Equals(t) {
			return true
		}
	}
	return false
}

// ParamType represents a function parameter
type ParamType struct {
	Name string
	Type SemType
}

func (p ParamType) String() string {
	if p.Name == "" {
		return p.Type.String()
	}
	return p.Name + ": " + p.Type.String()
}

// FunctionType represents a function signature. When IsVariadic is set the
// last parameter absorbs every remaining argument and has a List type.
type FunctionType struct {
	Params     []ParamType
	Return     SemType
	IsVariadic bool
	TypeParams []*TypeParamType
}

func NewFunction(params []ParamType, ret SemType) *FunctionType {
	return &FunctionType{Params: params, Return: ret}
}

func (f *FunctionType) String() string {
	params := gfn.Map(f.Params, func(p ParamType) string { return p.Type.String() })
	if f.IsVariadic && len(params) > 0 {
		params[len(params)-1] = "..." + params[len(params)-1]
	}
	prefix := "fn"
	if len(f.TypeParams) > 0 {
		prefix += "<" + strings.Join(gfn.Map(f.TypeParams, func(t *TypeParamType) string { return t.Name }), ", ") + ">"
	}
	return fmt.Sprintf("%s(%s) -> %s", prefix, strings.Join(params, ", "), f.Return.String())
}
func (f *FunctionType) Kind() TypeKind { return KindFunction }
func (f *FunctionType) isType()        {}
func (f *FunctionType) Equals(other SemType) bool {
	o, ok := other.(*FunctionType)
	if !ok {
		return false
	}
	if len(f.Params) != len(o.Params) || f.IsVariadic != o.IsVariadic {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Type.Equals(o.Params[i].Type) {
			return false
		}
	}
	return f.Return.Equals(o.Return)
}

// WithReturn returns a copy of the signature with a different return type
func (f *FunctionType) WithReturn(ret SemType) *FunctionType {
	cp := *f
	cp.Return = ret
	return &cp
}

// PropertyInfo is one member of an interface shape
type PropertyInfo struct {
	Type     SemType
	Optional bool
}

// InterfaceType is a named or anonymous structural shape. Object literals
// produce anonymous interfaces.
type InterfaceType struct {
	Name       string
	Properties map[string]PropertyInfo
	TypeParams []*TypeParamType
}

func NewInterface(name string, props map[string]PropertyInfo) *InterfaceType {
	if props == nil {
		props = map[string]PropertyInfo{}
	}
	return &InterfaceType{Name: name, Properties: props}
}

// PropertyNames returns the member names in sorted order
func (i *InterfaceType) PropertyNames() []string {
	names := maps.Keys(i.Properties)
	slices.Sort(names)
	return names
}

func (i *InterfaceType) String() string {
	if i.Name != "" {
		return i.Name
	}
	fields := gfn.Map(i.PropertyNames(), func(name string) string {
		p := i.Properties[name]
		if p.Optional {
			return name + "?: " + p.Type.String()
		}
		return name + ": " + p.Type.String()
	})
	return "{ " + strings.Join(fields, ", ") + " }"
}
func (i *InterfaceType) Kind() TypeKind { return KindInterface }
func (i *InterfaceType) isType()        {}
func (i *InterfaceType) Equals(other SemType) bool {
	o, ok := other.(*InterfaceType)
	if !ok || i.Name != o.Name || len(i.Properties) != len(o.Properties) {
		return false
	}
	for name, p := range i.Properties {
		q, ok := o.Properties[name]
		if !ok || p.Optional != q.Optional || !p.Type.Equals(q.Type) {
			return false
		}
	}
	return true
}

// Visibility of a class member
type Visibility int

const (
	Public Visibility = iota
	Private
	Protected
)

func (v Visibility) String() string {
	switch v {
	case Private:
		return "private"
	case Protected:
		return "protected"
	default:
		return "public"
	}
}

// Member is a property or method declared on a class
type Member struct {
	Name       string
	Type       SemType
	Visibility Visibility
	Static     bool
	Readonly   bool
	Owner      string // name of the declaring class
}

// ClassType is a nominal type. Identity is by name; the superclass link is a
// snapshot, so lookups that must see later additions go back through the
// symbol table by name.
type ClassType struct {
	Name        string
	Superclass  *ClassType
	Properties  map[string]*Member
	Methods     map[string]*Member
	Constructor *FunctionType
	TypeParams  []*TypeParamType
	IsAbstract  bool
}

func NewClass(name string, superclass *ClassType) *ClassType {
	return &ClassType{
		Name:       name,
		Superclass: superclass,
		Properties: map[string]*Member{},
		Methods:    map[string]*Member{},
	}
}

func (c *ClassType) String() string { return c.Name }
func (c *ClassType) Kind() TypeKind { return KindClass }
func (c *ClassType) isType()        {}
func (c *ClassType) Equals(other SemType) bool {
	o, ok := other.(*ClassType)
	return ok && o.Name == c.Name
}

func (c *ClassType) clone() *ClassType {
	cp := *c
	cp.Properties = make(map[string]*Member, len(c.Properties)+1)
	for k, v := range c.Properties {
		cp.Properties[k] = v
	}
	cp.Methods = make(map[string]*Member, len(c.Methods)+1)
	for k, v := range c.Methods {
		cp.Methods[k] = v
	}
	return &cp
}

// WithProperty returns a new class value with the property added or replaced
func (c *ClassType) WithProperty(m *Member) *ClassType {
	cp := c.clone()
	if m.Owner == "" {
		m.Owner = c.Name
	}
	cp.Properties[m.Name] = m
	return cp
}

// WithMethod returns a new class value with the method added or replaced
func (c *ClassType) WithMethod(m *Member) *ClassType {
	cp := c.clone()
	if m.Owner == "" {
		m.Owner = c.Name
	}
	cp.Methods[m.Name] = m
	return cp
}

// WithConstructor returns a new class value with the given constructor signature
func (c *ClassType) WithConstructor(ctor *FunctionType) *ClassType {
	cp := c.clone()
	cp.Constructor = ctor
	return cp
}

// OwnMember finds a property or method declared directly on c
func (c *ClassType) OwnMember(name string) (*Member, bool) {
	if m, ok := c.Properties[name]; ok {
		return m, true
	}
	m, ok := c.Methods[name]
	return m, ok
}

// FindMember searches c and then its superclass snapshots
func (c *ClassType) FindMember(name string) (*Member, bool) {
	for cur := c; cur != nil; cur = cur.Superclass {
		if m, ok := cur.OwnMember(name); ok {
			return m, true
		}
	}
	return nil, false
}

// IsSubclassOf walks the superclass chain comparing by name
func (c *ClassType) IsSubclassOf(name string) bool {
	for cur := c; cur != nil; cur = cur.Superclass {
		if cur.Name == name {
			return true
		}
	}
	return false
}

// EnumValue is the constant behind an enum member
type EnumValue struct {
	Int      int64
	Str      string
	IsString bool
}

func (v EnumValue) String() string {
	if v.IsString {
		return fmt.Sprintf("%q", v.Str)
	}
	return fmt.Sprintf("%d", v.Int)
}

// EnumMember is one named constant of an enum
type EnumMember struct {
	Name  string
	Value EnumValue
}

// EnumType is a nominal set of named constants
type EnumType struct {
	Name    string
	Members []EnumMember
}

func NewEnum(name string, members []EnumMember) *EnumType {
	return &EnumType{Name: name, Members: members}
}

func (e *EnumType) String() string { return e.Name }
func (e *EnumType) Kind() TypeKind { return KindEnum }
func (e *EnumType) isType()        {}
func (e *EnumType) Equals(other SemType) bool {
	o, ok := other.(*EnumType)
	return ok && o.Name == e.Name
}

// Member looks up a constant by name
func (e *EnumType) Member(name string) (EnumMember, bool) {
	for _, m := range e.Members {
		if m.Name == name {
			return m, true
		}
	}
	return EnumMember{}, false
}

// FutureType is the result of calling an async function
type FutureType struct {
	Inner SemType
}

func NewFuture(inner SemType) *FutureType {
	return &FutureType{Inner: inner}
}

// AsFuture wraps t in Future unless it already is one
func AsFuture(t SemType) SemType {
	if _, ok := t.(*FutureType); ok {
		return t
	}
	return NewFuture(t)
}

func (f *FutureType) String() string { return "Future<" + f.Inner.String() + ">" }
func (f *FutureType) Kind() TypeKind { return KindFuture }
func (f *FutureType) isType()        {}
func (f *FutureType) Equals(other SemType) bool {
	o, ok := other.(*FutureType)
	return ok && f.Inner.Equals(o.Inner)
}

// TypeRefType is a by-name reference to a user type that is resolved lazily
type TypeRefType struct {
	Name string
	File string
}

func NewTypeRef(name, file string) *TypeRefType {
	return &TypeRefType{Name: name, File: file}
}

func (r *TypeRefType) String() string { return r.Name }
func (r *TypeRefType) Kind() TypeKind { return KindTypeRef }
func (r *TypeRefType) isType()        {}
func (r *TypeRefType) Equals(other SemType) bool {
	o, ok := other.(*TypeRefType)
	return ok && o.Name == r.Name && o.File == r.File
}

// TypeParamType is a generic parameter such as T, optionally constrained
type TypeParamType struct {
	Name       string
	Constraint SemType
}

func NewTypeParam(name string, constraint SemType) *TypeParamType {
	return &TypeParamType{Name: name, Constraint: constraint}
}

func (t *TypeParamType) String() string { return t.Name }
func (t *TypeParamType) Kind() TypeKind { return KindTypeParam }
func (t *TypeParamType) isType()        {}
func (t *TypeParamType) Equals(other SemType) bool {
	o, ok := other.(*TypeParamType)
	return ok && o.Name == t.Name
}

// GenericType is a user generic applied to arguments, e.g. Box<Int>
type GenericType struct {
	Base SemType
	Args []SemType
}

func NewGeneric(base SemType, args []SemType) *GenericType {
	return &GenericType{Base: base, Args: args}
}

func (g *GenericType) String() string {
	return g.Base.String() + "<" + strings.Join(gfn.Map(g.Args, func(t SemType) string { return t.String() }), ", ") + ">"
}
func (g *GenericType) Kind() TypeKind { return KindGeneric }
func (g *GenericType) isType()        {}
func (g *GenericType) Equals(other SemType) bool {
	o, ok := other.(*GenericType)
	if !ok || len(o.Args) != len(g.Args) || !g.Base.Equals(o.Base) {
		return false
	}
	for i := range g.Args {
		if !g.Args[i].Equals(o.Args[i]) {
			return false
		}
	}
	return true
}

// Helper predicates

func IsKind(t SemType, k TypeKind) bool { return t != nil && t.Kind() == k }
func IsAny(t SemType) bool              { return IsKind(t, KindAny) }
func IsUnknown(t SemType) bool          { return IsKind(t, KindUnknown) }
func IsNull(t SemType) bool             { return IsKind(t, KindNull) }
func IsVoid(t SemType) bool             { return IsKind(t, KindVoid) }
func IsBool(t SemType) bool             { return IsKind(t, KindBool) }
func IsStr(t SemType) bool              { return IsKind(t, KindStr) }

// IsAbsorbing reports whether t accepts and is accepted by everything (Any or Unknown)
func IsAbsorbing(t SemType) bool { return IsAny(t) || IsUnknown(t) }

func IsNumeric(t SemType) bool {
	return t != nil && IsNumericKind(t.Kind())
}

func IsInteger(t SemType) bool {
	return t != nil && IsIntegerKind(t.Kind())
}

func IsFloat(t SemType) bool {
	return t != nil && IsFloatKind(t.Kind())
}

// AllowsNull reports whether null is a valid value of t
func AllowsNull(t SemType) bool {
	switch v := t.(type) {
	case *NullableType:
		return true
	case *UnionType:
		for _, m := range v.Members {
			if AllowsNull(m) {
				return true
			}
		}
		return false
	}
	return IsNull(t) || IsAbsorbing(t)
}

// StripNull removes null from t: Nullable(T) becomes T and unions lose their
// Null member. Other types are returned unchanged.
func StripNull(t SemType) SemType {
	switch v := t.(type) {
	case *NullableType:
		return v.Inner
	case *UnionType:
		kept := make([]SemType, 0, len(v.Members))
		for _, m := range v.Members {
			if !IsNull(m) {
				kept = append(kept, StripNull(m))
			}
		}
		if len(kept) == len(v.Members) {
			return t
		}
		return NewUnion(kept...)
	}
	return t
}
