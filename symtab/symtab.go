// Package symtab holds the lowering visitor's symbol environment: the
// global table, the stacked local frames, the parallel local-captures
// sets, and the closures table (spec §3, "Symbol environment"). It is
// plain data plus stack discipline; the actual `address_of` resolution
// algorithm lives on the visitor in package lower because it must emit
// load/GEP/bitcast instructions through an ir.Builder, not just consult
// these maps.
package symtab

import (
	lt "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/emberlang/irgen/ast"
)

// Closure describes a nested function bound into an enclosing frame: the
// declaration it was built from, the pointer-type of its lifted (or
// plain, if capture-free) signature, and the struct type of its
// environment. Closures built by package lower pass captures as ordinary
// parameters and leave EnvType nil, with or without captures.
type Closure struct {
	Decl        *ast.FunctionDecl
	PointerType *lt.PointerType
	EnvType     *lt.StructType
}

// Environment is the symbol table threaded through a single lowering
// session. The zero value is not usable; construct with New.
type Environment struct {
	// Globals maps a module-level declaration's name to the address of
	// its storage slot.
	Globals map[string]value.Value

	// Closures maps a nested function's name to its descriptor. Entries
	// are never removed: one stays in the table after the locals frame
	// that declared it has been popped.
	Closures map[string]*Closure

	locals   []map[string]value.Value
	captures []map[string]bool
}

// New returns an empty environment with no active local frame.
func New() *Environment {
	return &Environment{
		Globals:  make(map[string]value.Value),
		Closures: make(map[string]*Closure),
	}
}

// PushFrame opens a new locals frame, e.g. on entering a FunctionDecl
// body. It must be paired with PopFrame on every exit path, including
// error paths (spec §5, "scoped acquisition with guaranteed release").
func (e *Environment) PushFrame() {
	e.locals = append(e.locals, make(map[string]value.Value))
	e.captures = append(e.captures, make(map[string]bool))
}

// PopFrame closes the most recently pushed locals frame.
func (e *Environment) PopFrame() {
	n := len(e.locals)
	e.locals = e.locals[:n-1]
	e.captures = e.captures[:n-1]
}

// InFrame reports whether there is at least one active locals frame.
func (e *Environment) InFrame() bool { return len(e.locals) > 0 }

// DefineLocal records name's storage slot in the current (topmost)
// frame. It panics if no frame is active — a caller error, not a
// condition lowering of well-formed input can trigger.
func (e *Environment) DefineLocal(name string, addr value.Value) {
	e.locals[len(e.locals)-1][name] = addr
}

// MarkCaptured flags name, in the current frame, as holding a
// captured-by-reference pointer rather than a direct slot — address_of
// consults this to decide whether an extra dereference is required.
func (e *Environment) MarkCaptured(name string) {
	e.captures[len(e.captures)-1][name] = true
}

// LookupLocal looks up name in the current (topmost) frame only.
func (e *Environment) LookupLocal(name string) (value.Value, bool) {
	if len(e.locals) == 0 {
		return nil, false
	}
	v, ok := e.locals[len(e.locals)-1][name]
	return v, ok
}

// IsCaptured reports whether name is marked captured-by-reference in the
// current frame.
func (e *Environment) IsCaptured(name string) bool {
	if len(e.captures) == 0 {
		return false
	}
	return e.captures[len(e.captures)-1][name]
}

// DefineGlobal records name's module-level storage slot.
func (e *Environment) DefineGlobal(name string, addr value.Value) {
	e.Globals[name] = addr
}

// LookupGlobal looks up name among module-level declarations.
func (e *Environment) LookupGlobal(name string) (value.Value, bool) {
	v, ok := e.Globals[name]
	return v, ok
}

// DefineClosure records a nested function's descriptor under its name.
func (e *Environment) DefineClosure(name string, c *Closure) {
	e.Closures[name] = c
}

// LookupClosure looks up a nested function's descriptor by name.
func (e *Environment) LookupClosure(name string) (*Closure, bool) {
	c, ok := e.Closures[name]
	return c, ok
}
