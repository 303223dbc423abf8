package cast

// StmtKind discriminates the emitted C statement constructs: the
// remaining half of §9's "literal, decl-ref, unary, binary, cast, call,
// conditional, return, compound, label, goto" variant list.
type StmtKind uint8

const (
	// StmtExpr wraps an expression evaluated for effect: an assignment
	// ("lhs = rhs;") or a bare call ("f(args);").
	StmtExpr StmtKind = iota
	// StmtDeclare introduces a named local variable, with an optional
	// initializer — used both for var_K materialization (§4.8 point 3) and
	// for an alloca's array-of-char declaration (§4.8 point 2).
	StmtDeclare
	StmtReturn
	StmtCompound
	StmtLabel
	StmtGoto
)

func (k StmtKind) String() string {
	switch k {
	case StmtExpr:
		return "expr"
	case StmtDeclare:
		return "declare"
	case StmtReturn:
		return "return"
	case StmtCompound:
		return "compound"
	case StmtLabel:
		return "label"
	case StmtGoto:
		return "goto"
	default:
		return "unknown"
	}
}

// Stmt is the common header every statement node carries.
type Stmt struct {
	Kind    StmtKind
	Payload PayloadID
}

// Stmts is the per-function statement arena.
type Stmts struct {
	Arena *Arena[Stmt]

	Exprs     *Arena[ExprStmtData]
	Declares  *Arena[DeclareData]
	Returns   *Arena[ReturnData]
	Compounds *Arena[CompoundData]
	Labels    *Arena[LabelData]
	Gotos     *Arena[GotoData]
}

// NewStmts returns a fresh, empty statement arena.
func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena:     NewArena[Stmt](capHint),
		Exprs:     NewArena[ExprStmtData](capHint),
		Declares:  NewArena[DeclareData](capHint),
		Returns:   NewArena[ReturnData](capHint),
		Compounds: NewArena[CompoundData](capHint),
		Labels:    NewArena[LabelData](capHint),
		Gotos:     NewArena[GotoData](capHint),
	}
}

func (s *Stmts) new(kind StmtKind, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Payload: payload}))
}

// Get returns the statement header for id, or nil if id is NoStmtID.
func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

// NewExprStmt allocates an expression-statement.
func (s *Stmts) NewExprStmt(expr ExprID) StmtID {
	p := s.Exprs.Allocate(ExprStmtData{Expr: expr})
	return s.new(StmtExpr, PayloadID(p))
}

// ExprStmt returns the expression-statement payload for id.
func (s *Stmts) ExprStmt(id StmtID) (*ExprStmtData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtExpr {
		return nil, false
	}
	return s.Exprs.Get(uint32(st.Payload)), true
}

// NewDeclare allocates a local-variable declaration statement.
func (s *Stmts) NewDeclare(name string, elemCount uint32, init ExprID) StmtID {
	p := s.Declares.Allocate(DeclareData{Name: name, ElemCount: elemCount, Init: init})
	return s.new(StmtDeclare, PayloadID(p))
}

// Declare returns the declare payload for id.
func (s *Stmts) Declare(id StmtID) (*DeclareData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtDeclare {
		return nil, false
	}
	return s.Declares.Get(uint32(st.Payload)), true
}

// NewReturn allocates a return statement. value is NoExprID for a bare
// "return;".
func (s *Stmts) NewReturn(value ExprID) StmtID {
	p := s.Returns.Allocate(ReturnData{Value: value})
	return s.new(StmtReturn, PayloadID(p))
}

// Return returns the return payload for id.
func (s *Stmts) Return(id StmtID) (*ReturnData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtReturn {
		return nil, false
	}
	return s.Returns.Get(uint32(st.Payload)), true
}

// NewCompound allocates a block of statements. The statement builder emits
// one flat compound per function, holding every basic block's label and
// statements in §4.8's reverse-postorder traversal.
func (s *Stmts) NewCompound(body []StmtID) StmtID {
	p := s.Compounds.Allocate(CompoundData{Body: body})
	return s.new(StmtCompound, PayloadID(p))
}

// Compound returns the compound payload for id.
func (s *Stmts) Compound(id StmtID) (*CompoundData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtCompound {
		return nil, false
	}
	return s.Compounds.Get(uint32(st.Payload)), true
}

// NewLabel allocates a basic-block label declaration, used only if
// goto-emission is enabled downstream (§4.8 point 1).
func (s *Stmts) NewLabel(name string) StmtID {
	p := s.Labels.Allocate(LabelData{Name: name})
	return s.new(StmtLabel, PayloadID(p))
}

// Label returns the label payload for id.
func (s *Stmts) Label(id StmtID) (*LabelData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtLabel {
		return nil, false
	}
	return s.Labels.Get(uint32(st.Payload)), true
}

// NewGoto allocates a goto statement targeting a block label.
func (s *Stmts) NewGoto(target string) StmtID {
	p := s.Gotos.Allocate(GotoData{Target: target})
	return s.new(StmtGoto, PayloadID(p))
}

// Goto returns the goto payload for id.
func (s *Stmts) Goto(id StmtID) (*GotoData, bool) {
	st := s.Get(id)
	if st == nil || st.Kind != StmtGoto {
		return nil, false
	}
	return s.Gotos.Get(uint32(st.Payload)), true
}
