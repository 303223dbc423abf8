package cast

import "cdecomp/internal/cdecl"

// ExprKind discriminates the emitted C expression constructs. The variant
// set mirrors §9's design note list: literal, decl-ref, unary, binary,
// cast, call, conditional; Paren is an explicit wrapper so that
// paren-form synthesis (§4.7) is a node in its own right rather than a
// formatting flag.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprDeclRef
	ExprUnary
	ExprBinary
	ExprCast
	ExprCall
	ExprConditional
	ExprParen
	ExprIndex
)

func (k ExprKind) String() string {
	switch k {
	case ExprLiteral:
		return "literal"
	case ExprDeclRef:
		return "decl-ref"
	case ExprUnary:
		return "unary"
	case ExprBinary:
		return "binary"
	case ExprCast:
		return "cast"
	case ExprCall:
		return "call"
	case ExprConditional:
		return "conditional"
	case ExprParen:
		return "paren"
	case ExprIndex:
		return "index"
	default:
		return "unknown"
	}
}

// Expr is the common header every expression node carries: its variant,
// the qualified type it evaluates to (§4.6/§4.7's "carries a qualified
// type" requirement), and a handle into the per-kind payload arena.
type Expr struct {
	Kind    ExprKind
	Type    cdecl.CType
	Payload PayloadID
}

// Exprs is the per-function expression arena: one Arena[Expr] for the
// common header plus one payload arena per variant, mirroring the
// teacher's header-plus-per-kind-payload-arena layout.
type Exprs struct {
	Arena *Arena[Expr]

	Literals     *Arena[LiteralData]
	DeclRefs     *Arena[DeclRefData]
	Unaries      *Arena[UnaryData]
	Binaries     *Arena[BinaryData]
	Casts        *Arena[CastData]
	Calls        *Arena[CallData]
	Conditionals *Arena[ConditionalData]
	Parens       *Arena[ParenData]
	Indices      *Arena[IndexData]
}

// NewExprs returns a fresh, empty expression arena sized with capHint per
// sub-arena; callers build one per function and let it go out of scope
// when that function's analysis completes.
func NewExprs(capHint uint) *Exprs {
	return &Exprs{
		Arena:        NewArena[Expr](capHint),
		Literals:     NewArena[LiteralData](capHint),
		DeclRefs:     NewArena[DeclRefData](capHint),
		Unaries:      NewArena[UnaryData](capHint),
		Binaries:     NewArena[BinaryData](capHint),
		Casts:        NewArena[CastData](capHint),
		Calls:        NewArena[CallData](capHint),
		Conditionals: NewArena[ConditionalData](capHint),
		Parens:       NewArena[ParenData](capHint),
		Indices:      NewArena[IndexData](capHint),
	}
}

func (e *Exprs) new(kind ExprKind, t cdecl.CType, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Type: t, Payload: payload}))
}

// Get returns the expression header for id, or nil if id is NoExprID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// NewLiteral allocates an integer literal expression.
func (e *Exprs) NewLiteral(t cdecl.CType, bits uint64) ExprID {
	p := e.Literals.Allocate(LiteralData{Bits: bits})
	return e.new(ExprLiteral, t, PayloadID(p))
}

// Literal returns the literal payload for id, or (nil, false) if id is not
// an ExprLiteral.
func (e *Exprs) Literal(id ExprID) (*LiteralData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprLiteral {
		return nil, false
	}
	return e.Literals.Get(uint32(ex.Payload)), true
}

// NewDeclRef allocates a reference to a declaration: a function, global,
// parameter, local variable, or block label, discriminated by Target.
func (e *Exprs) NewDeclRef(t cdecl.CType, target DeclRefTarget, name string) ExprID {
	p := e.DeclRefs.Allocate(DeclRefData{Target: target, Name: name})
	return e.new(ExprDeclRef, t, PayloadID(p))
}

// DeclRef returns the decl-ref payload for id.
func (e *Exprs) DeclRef(id ExprID) (*DeclRefData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprDeclRef {
		return nil, false
	}
	return e.DeclRefs.Get(uint32(ex.Payload)), true
}

// NewUnary allocates a unary expression: dereference, address-of, or the
// implicit lvalue-to-rvalue conversion §4.8's binary-operand fetch wraps
// lvalues in.
func (e *Exprs) NewUnary(t cdecl.CType, op UnaryOp, operand ExprID) ExprID {
	p := e.Unaries.Allocate(UnaryData{Op: op, Operand: operand})
	return e.new(ExprUnary, t, PayloadID(p))
}

// Unary returns the unary payload for id.
func (e *Exprs) Unary(id ExprID) (*UnaryData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(ex.Payload)), true
}

// NewBinary allocates a binary arithmetic/bitwise expression.
func (e *Exprs) NewBinary(t cdecl.CType, symbol string, lhs, rhs ExprID) ExprID {
	p := e.Binaries.Allocate(BinaryData{Symbol: symbol, LHS: lhs, RHS: rhs})
	return e.new(ExprBinary, t, PayloadID(p))
}

// Binary returns the binary payload for id.
func (e *Exprs) Binary(id ExprID) (*BinaryData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(ex.Payload)), true
}

// NewCast allocates a C-style cast expression "(Type)operand".
func (e *Exprs) NewCast(t cdecl.CType, operand ExprID) ExprID {
	p := e.Casts.Allocate(CastData{Operand: operand})
	return e.new(ExprCast, t, PayloadID(p))
}

// Cast returns the cast payload for id.
func (e *Exprs) Cast(id ExprID) (*CastData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprCast {
		return nil, false
	}
	return e.Casts.Get(uint32(ex.Payload)), true
}

// NewCall allocates a call expression.
func (e *Exprs) NewCall(t cdecl.CType, callee ExprID, args []ExprID) ExprID {
	p := e.Calls.Allocate(CallData{Callee: callee, Args: args})
	return e.new(ExprCall, t, PayloadID(p))
}

// Call returns the call payload for id.
func (e *Exprs) Call(id ExprID) (*CallData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprCall {
		return nil, false
	}
	return e.Calls.Get(uint32(ex.Payload)), true
}

// NewConditional allocates a ternary "(cond) ? (t) : (f)" expression.
func (e *Exprs) NewConditional(t cdecl.CType, cond, ifTrue, ifFalse ExprID) ExprID {
	p := e.Conditionals.Allocate(ConditionalData{Cond: cond, IfTrue: ifTrue, IfFalse: ifFalse})
	return e.new(ExprConditional, t, PayloadID(p))
}

// Conditional returns the conditional payload for id.
func (e *Exprs) Conditional(id ExprID) (*ConditionalData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprConditional {
		return nil, false
	}
	return e.Conditionals.Get(uint32(ex.Payload)), true
}

// NewParen wraps inner in an explicit parenthesis node. The expression
// factory's paren-form entry point (§4.7) calls this when inner is a
// binary or conditional operator, to prevent precedence hazards at
// composition sites.
func (e *Exprs) NewParen(inner ExprID) ExprID {
	innerExpr := e.Get(inner)
	t := cdecl.Void()
	if innerExpr != nil {
		t = innerExpr.Type
	}
	p := e.Parens.Allocate(ParenData{Inner: inner})
	return e.new(ExprParen, t, PayloadID(p))
}

// Paren returns the paren payload for id.
func (e *Exprs) Paren(id ExprID) (*ParenData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprParen {
		return nil, false
	}
	return e.Parens.Get(uint32(ex.Payload)), true
}

// NewIndex allocates a subscript expression "base[index]", used by the
// alloca array-decay policy (§4.8 point 2) to spell "&array[0]".
func (e *Exprs) NewIndex(t cdecl.CType, base, index ExprID) ExprID {
	p := e.Indices.Allocate(IndexData{Base: base, Index: index})
	return e.new(ExprIndex, t, PayloadID(p))
}

// Index returns the index payload for id.
func (e *Exprs) Index(id ExprID) (*IndexData, bool) {
	ex := e.Get(id)
	if ex == nil || ex.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(ex.Payload)), true
}
