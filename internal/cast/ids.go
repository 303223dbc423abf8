// Package cast is the structured-AST node vocabulary §9's design notes call
// for: a sum type whose variants enumerate the emitted C constructs
// (literal, decl-ref, unary, binary, cast, call, conditional, return,
// compound, label, goto) instead of a class hierarchy, arena-allocated per
// function so teardown after one function's analysis is O(1).
package cast

// ExprID identifies an expression node inside one Exprs arena. The zero
// value is NoExprID; a valid id is the one-based index returned by Arena's
// Allocate.
type ExprID uint32

// NoExprID is the sentinel "absent expression" id, used for optional
// operands (a bare return, an unconditional cast with no destination slot).
const NoExprID ExprID = 0

// StmtID identifies a statement node inside one Stmts arena.
type StmtID uint32

// NoStmtID is the sentinel "absent statement" id.
const NoStmtID StmtID = 0

// PayloadID identifies a variant's payload inside the per-kind payload
// arena named by its Expr/Stmt's Kind field.
type PayloadID uint32
