package cast

// LiteralData is an integer literal's payload. Signedness and width live
// on the owning Expr's Type; Bits holds the literal's raw value truncated
// to 64 bits (the documented narrowing for 128-bit IR constants, §9).
type LiteralData struct {
	Bits uint64
}

// DeclRefTarget discriminates what a decl-ref expression names.
type DeclRefTarget uint8

const (
	DeclRefFunc DeclRefTarget = iota
	DeclRefGlobal
	DeclRefParam
	DeclRefLocal
	DeclRefLabel
)

// DeclRefData is a reference to a declaration: a synthesized function,
// global, parameter, per-function local variable, or block label.
type DeclRefData struct {
	Target DeclRefTarget
	Name   string
}

// UnaryOp enumerates the unary expression forms the builder emits.
type UnaryOp uint8

const (
	// UnaryDeref is C's "*e": dereference a pointer lvalue.
	UnaryDeref UnaryOp = iota
	// UnaryAddr is C's "&e": take the address of an lvalue.
	UnaryAddr
	// UnaryLValueToRValue is the implicit conversion §4.8 wraps a fetched
	// lvalue operand in before it participates in a binary operator. It has
	// no surface syntax; printers should elide it and print the operand.
	UnaryLValueToRValue
)

func (op UnaryOp) String() string {
	switch op {
	case UnaryDeref:
		return "*"
	case UnaryAddr:
		return "&"
	case UnaryLValueToRValue:
		return ""
	default:
		return "?"
	}
}

// UnaryData is a unary expression's payload.
type UnaryData struct {
	Op      UnaryOp
	Operand ExprID
}

// BinaryData is a binary expression's payload. Symbol is the already
// chosen C infix token (§4.8's signedness-reconciliation table decides it
// before the node is built); LHS/RHS are expected to already be in
// paren-form per §4.7.
type BinaryData struct {
	Symbol string
	LHS    ExprID
	RHS    ExprID
}

// CastData is a C-style cast expression's payload: "(Type)Operand", the
// destination type living on the owning Expr.
type CastData struct {
	Operand ExprID
}

// CallData is a call expression's payload.
type CallData struct {
	Callee ExprID
	Args   []ExprID
}

// ConditionalData is a ternary expression's payload.
type ConditionalData struct {
	Cond    ExprID
	IfTrue  ExprID
	IfFalse ExprID
}

// ParenData wraps an inner expression in explicit parentheses.
type ParenData struct {
	Inner ExprID
}

// IndexData is a subscript expression's payload: "Base[Index]".
type IndexData struct {
	Base  ExprID
	Index ExprID
}
