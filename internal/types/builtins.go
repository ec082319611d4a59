package types

// TypeKind is the cheap discriminant of a SemType. Primitive kinds come first,
// followed by one kind per composite variant.
type TypeKind int

const (
	KindInt TypeKind = iota
	KindFloat
	KindI8
	KindI16
	KindI32
	KindI64
	KindU8
	KindU16
	KindU32
	KindU64
	KindF32
	KindF64
	KindDecimal
	KindStr
	KindBool
	KindNull
	KindVoid
	KindAny
	KindUnknown
	KindSymbol
	KindDate
	KindRegex
	KindError

	KindList
	KindMap
	KindNullable
	KindUnion
	KindFunction
	KindInterface
	KindClass
	KindEnum
	KindFuture
	KindTypeRef
	KindTypeParam
	KindGeneric
)

var kindNames = map[TypeKind]string{
	KindInt:       "Int",
	KindFloat:     "Float",
	KindI8:        "I8",
	KindI16:       "I16",
	KindI32:       "I32",
	KindI64:       "I64",
	KindU8:        "U8",
	KindU16:       "U16",
	KindU32:       "U32",
	KindU64:       "U64",
	KindF32:       "F32",
	KindF64:       "F64",
	KindDecimal:   "Decimal",
	KindStr:       "Str",
	KindBool:      "Bool",
	KindNull:      "Null",
	KindVoid:      "Void",
	KindAny:       "Any",
	KindUnknown:   "Unknown",
	KindSymbol:    "Symbol",
	KindDate:      "Date",
	KindRegex:     "Regex",
	KindError:     "Error",
	KindList:      "List",
	KindMap:       "Map",
	KindNullable:  "Nullable",
	KindUnion:     "Union",
	KindFunction:  "Function",
	KindInterface: "Interface",
	KindClass:     "Class",
	KindEnum:      "Enum",
	KindFuture:    "Future",
	KindTypeRef:   "TypeRef",
	KindTypeParam: "TypeParam",
	KindGeneric:   "Generic",
}

func (k TypeKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Invalid"
}

// IsPrimitiveKind reports whether k names a scalar built-in
func IsPrimitiveKind(k TypeKind) bool {
	return k >= KindInt && k <= KindError
}

// primitiveSpellings maps source-level spellings to primitive kinds.
var primitiveSpellings = map[string]TypeKind{
	"int":     KindInt,
	"float":   KindFloat,
	"i8":      KindI8,
	"i16":     KindI16,
	"i32":     KindI32,
	"i64":     KindI64,
	"u8":      KindU8,
	"u16":     KindU16,
	"u32":     KindU32,
	"u64":     KindU64,
	"f32":     KindF32,
	"f64":     KindF64,
	"decimal": KindDecimal,
	"str":     KindStr,
	"string":  KindStr,
	"bool":    KindBool,
	"boolean": KindBool,
	"null":    KindNull,
	"void":    KindVoid,
	"any":     KindAny,
	"unknown": KindUnknown,
	"symbol":  KindSymbol,
	"date":    KindDate,
	"regex":   KindRegex,
	"error":   KindError,
}

// PrimitiveByName returns the primitive type spelled name in source ("int", "string", ...).
func PrimitiveByName(name string) (*PrimitiveType, bool) {
	kind, ok := primitiveSpellings[name]
	if !ok {
		return nil, false
	}
	return primitives[kind], true
}
