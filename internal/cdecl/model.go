package cdecl

import (
	"fmt"

	"cdecomp/internal/fault"
)

// ParamDecl is one function parameter's declaration.
type ParamDecl struct {
	Name string
	Type CType
}

// FuncDecl is a function declaration: name, parameters, return type.
type FuncDecl struct {
	ID         int32
	Name       string
	Params     []ParamDecl
	ReturnType CType
}

// HasSoleVoidParam reports the argument-less calling convention §4.8's Call
// algorithm special-cases: a single parameter of type void standing in for
// no parameters at all.
func (f *FuncDecl) HasSoleVoidParam() bool {
	return len(f.Params) == 1 && f.Params[0].Type.Kind == CTypeVoid
}

// GlobalDecl is a global variable declaration: name and qualified type.
type GlobalDecl struct {
	ID   int32
	Name string
	Type CType
}

// Model is the declaration registry §6 names as the core's Model external
// interface: function declarations and global declarations, keyed by name
// for lookup and by dense id for stable referencing from the IR layer.
type Model struct {
	funcs        []*FuncDecl
	funcByName   map[string]*FuncDecl
	globals      []*GlobalDecl
	globalByName map[string]*GlobalDecl
}

// NewModel returns an empty declaration registry.
func NewModel() *Model {
	return &Model{
		funcByName:   make(map[string]*FuncDecl),
		globalByName: make(map[string]*GlobalDecl),
	}
}

// DeclareFunc registers a new function declaration under a sanitized name.
// Redeclaring an already-registered name is a precondition violation: the
// collaborator populating this model owns name uniqueness.
func (m *Model) DeclareFunc(name string, params []ParamDecl, ret CType) *FuncDecl {
	name = SanitizeIdent(name)
	if _, exists := m.funcByName[name]; exists {
		fault.Raise(fault.SubsystemASTBuilder, "function %q declared twice", name)
	}
	decl := &FuncDecl{ID: int32(len(m.funcs)), Name: name, Params: params, ReturnType: ret}
	m.funcs = append(m.funcs, decl)
	m.funcByName[name] = decl
	return decl
}

// FuncByName looks up a function declaration by name.
func (m *Model) FuncByName(name string) (*FuncDecl, bool) {
	decl, ok := m.funcByName[name]
	return decl, ok
}

// DeclareGlobal registers a new global declaration under a sanitized name.
func (m *Model) DeclareGlobal(name string, t CType) *GlobalDecl {
	name = SanitizeIdent(name)
	if _, exists := m.globalByName[name]; exists {
		fault.Raise(fault.SubsystemASTBuilder, "global %q declared twice", name)
	}
	decl := &GlobalDecl{ID: int32(len(m.globals)), Name: name, Type: t}
	m.globals = append(m.globals, decl)
	m.globalByName[name] = decl
	return decl
}

// GlobalByName looks up a global declaration by name.
func (m *Model) GlobalByName(name string) (*GlobalDecl, bool) {
	decl, ok := m.globalByName[name]
	return decl, ok
}

// MustAbort returns the free-standing abort() declaration the Unreachable
// statement builder requires to exist in the declarations table (§4.8). It
// is lazily declared on first use since not every translation unit needs it.
func (m *Model) MustAbort() *FuncDecl {
	if decl, ok := m.FuncByName("abort"); ok {
		return decl
	}
	return m.DeclareFunc("abort", nil, Void())
}

// NameVar formats a synthesized variable name for the per-function counter
// described in §4.8 point 3.
func NameVar(k int) string { return fmt.Sprintf("var_%d", k) }

// NameLabel formats a synthesized basic-block label name, per §4.8 point 1.
func NameLabel(blockID int32) string { return fmt.Sprintf("bb_%d", blockID) }
