package diagnostics

// Error codes for the type engine
const (
	// Type checker errors (T prefix)
	ErrTypeMismatch         = "T0001"
	ErrUndefinedSymbol      = "T0002"
	ErrRedeclaredSymbol     = "T0003"
	ErrInvalidOperation     = "T0004"
	ErrNotCallable          = "T0005"
	ErrWrongArgumentCount   = "T0006"
	ErrInvalidAssignment    = "T0007"
	ErrNotIndexable         = "T0008"
	ErrFieldNotFound        = "T0010"
	ErrMethodNotFound       = "T0011"
	ErrInvalidReturn        = "T0016"
	ErrMissingReturn        = "T0017"
	ErrConstantReassignment = "T0018"
	ErrInvalidBreak         = "T0019"
	ErrInvalidContinue      = "T0020"
	ErrInvalidType          = "T0021"
	ErrUnresolvedTypeRef    = "T0028"
	ErrNotAClass            = "T0029"
	ErrInvalidThis          = "T0030"
	ErrInvalidSuper         = "T0031"
	ErrInvalidAwait         = "T0032"
	ErrInvalidSpread        = "T0033"
	ErrInvalidEnumValue     = "T0034"
	ErrVisibility           = "T0035"
	ErrSuperclassNotFound   = "T0036"
	ErrConstraintViolation  = "T0037"
	ErrCannotInfer          = "T0038"

	// Warnings (W prefix)
	WarnUnreachableCode = "W0001"
)
