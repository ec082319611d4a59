package tokens

type TOKEN string

const (
	//keywords
	LET_TOKEN        TOKEN = "let"
	CONST_TOKEN      TOKEN = "const"
	TYPE_TOKEN       TOKEN = "type"
	IF_TOKEN         TOKEN = "if"
	ELSE_TOKEN       TOKEN = "else"
	FOR_TOKEN        TOKEN = "for"
	WHILE_TOKEN      TOKEN = "while"
	SWITCH_TOKEN     TOKEN = "switch"
	CASE_TOKEN       TOKEN = "case"
	MATCH_TOKEN      TOKEN = "match"
	RETURN_TOKEN     TOKEN = "return"
	BREAK_TOKEN      TOKEN = "break"
	CONTINUE_TOKEN   TOKEN = "continue"
	THROW_TOKEN      TOKEN = "throw"
	TRY_TOKEN        TOKEN = "try"
	CATCH_TOKEN      TOKEN = "catch"
	FINALLY_TOKEN    TOKEN = "finally"
	CLASS_TOKEN      TOKEN = "class"
	EXTENDS_TOKEN    TOKEN = "extends"
	INTERFACE_TOKEN  TOKEN = "interface"
	ENUM_TOKEN       TOKEN = "enum"
	FUNCTION_TOKEN   TOKEN = "fn"
	ASYNC_TOKEN      TOKEN = "async"
	AWAIT_TOKEN      TOKEN = "await"
	NEW_TOKEN        TOKEN = "new"
	THIS_TOKEN       TOKEN = "this"
	SUPER_TOKEN      TOKEN = "super"
	TYPEOF_TOKEN     TOKEN = "typeof"
	INSTANCEOF_TOKEN TOKEN = "instanceof"
	NULL_TOKEN       TOKEN = "null"
	PUBLIC_TOKEN     TOKEN = "public"
	PRIVATE_TOKEN    TOKEN = "private"
	PROTECTED_TOKEN  TOKEN = "protected"

	THREE_DOT_TOKEN TOKEN = "..."

	//array range operator
	RANGE_TOKEN TOKEN = ".."
	//increment and decrement
	PLUS_PLUS_TOKEN   TOKEN = "++"
	MINUS_MINUS_TOKEN TOKEN = "--"
	//logical operators
	AND_TOKEN TOKEN = "&&"
	OR_TOKEN  TOKEN = "||"
	//bitwise operators
	BIT_AND_TOKEN TOKEN = "&"
	BIT_OR_TOKEN  TOKEN = "|"
	BIT_XOR_TOKEN TOKEN = "^"
	BIT_NOT_TOKEN TOKEN = "~"
	SHL_TOKEN     TOKEN = "<<"
	SHR_TOKEN     TOKEN = ">>"
	USHR_TOKEN    TOKEN = ">>>"
	//unary operators
	NOT_TOKEN TOKEN = "!"
	//arithmetic operators
	EXP_TOKEN   TOKEN = "**"
	MINUS_TOKEN TOKEN = "-"
	PLUS_TOKEN  TOKEN = "+"
	MUL_TOKEN   TOKEN = "*"
	DIV_TOKEN   TOKEN = "/"
	MOD_TOKEN   TOKEN = "%"
	//comparison operators
	LESS_EQUAL_TOKEN    TOKEN = "<="
	GREATER_EQUAL_TOKEN TOKEN = ">="
	NOT_EQUAL_TOKEN     TOKEN = "!="
	DOUBLE_EQUAL_TOKEN  TOKEN = "=="
	LESS_TOKEN          TOKEN = "<"
	GREATER_TOKEN       TOKEN = ">"
	//null handling
	NULL_COALESCE_TOKEN  TOKEN = "??"
	OPTIONAL_CHAIN_TOKEN TOKEN = "?."
	//assignment
	EQUALS_TOKEN       TOKEN = "="
	PLUS_EQUALS_TOKEN  TOKEN = "+="
	MINUS_EQUALS_TOKEN TOKEN = "-="
	MUL_EQUALS_TOKEN   TOKEN = "*="
	DIV_EQUALS_TOKEN   TOKEN = "/="
	MOD_EQUALS_TOKEN   TOKEN = "%="
	EXP_EQUALS_TOKEN   TOKEN = "**="
	AND_EQUALS_TOKEN   TOKEN = "&="
	OR_EQUALS_TOKEN    TOKEN = "|="
	XOR_EQUALS_TOKEN   TOKEN = "^="
	SHL_EQUALS_TOKEN   TOKEN = "<<="
	SHR_EQUALS_TOKEN   TOKEN = ">>="
	//delimiters
	FAT_ARROW_TOKEN TOKEN = "=>"
	QUESTION_TOKEN  TOKEN = "?"
)

// compoundAssignments maps each compound assignment to the binary operator it applies
var compoundAssignments = map[TOKEN]TOKEN{
	PLUS_EQUALS_TOKEN:  PLUS_TOKEN,
	MINUS_EQUALS_TOKEN: MINUS_TOKEN,
	MUL_EQUALS_TOKEN:   MUL_TOKEN,
	DIV_EQUALS_TOKEN:   DIV_TOKEN,
	MOD_EQUALS_TOKEN:   MOD_TOKEN,
	EXP_EQUALS_TOKEN:   EXP_TOKEN,
	AND_EQUALS_TOKEN:   BIT_AND_TOKEN,
	OR_EQUALS_TOKEN:    BIT_OR_TOKEN,
	XOR_EQUALS_TOKEN:   BIT_XOR_TOKEN,
	SHL_EQUALS_TOKEN:   SHL_TOKEN,
	SHR_EQUALS_TOKEN:   SHR_TOKEN,
}

// BinaryOperatorOf returns the binary operator behind a compound assignment (+= -> +).
func BinaryOperatorOf(op TOKEN) (TOKEN, bool) {
	bin, ok := compoundAssignments[op]
	return bin, ok
}

// IsAssignment reports whether op is '=' or a compound assignment
func IsAssignment(op TOKEN) bool {
	if op == EQUALS_TOKEN {
		return true
	}
	_, ok := compoundAssignments[op]
	return ok
}

func IsArithmetic(op TOKEN) bool {
	switch op {
	case PLUS_TOKEN, MINUS_TOKEN, MUL_TOKEN, DIV_TOKEN, MOD_TOKEN, EXP_TOKEN:
		return true
	}
	return false
}

func IsBitwise(op TOKEN) bool {
	switch op {
	case BIT_AND_TOKEN, BIT_OR_TOKEN, BIT_XOR_TOKEN, SHL_TOKEN, SHR_TOKEN, USHR_TOKEN:
		return true
	}
	return false
}

// IsOrdering covers < > <= >=
func IsOrdering(op TOKEN) bool {
	switch op {
	case LESS_TOKEN, GREATER_TOKEN, LESS_EQUAL_TOKEN, GREATER_EQUAL_TOKEN:
		return true
	}
	return false
}

func IsEquality(op TOKEN) bool {
	return op == DOUBLE_EQUAL_TOKEN || op == NOT_EQUAL_TOKEN
}

func IsLogical(op TOKEN) bool {
	return op == AND_TOKEN || op == OR_TOKEN
}
