// Package ir defines the thin contract the lowering visitor depends on
// (spec §4.2) and a concrete implementation backed by the real
// github.com/llir/llvm LLVM-IR construction library. The visitor emits
// instructions through Builder, but it still uses llir/llvm's own types
// directly (*ir.Func, *ir.Block, value.Value, lowered types) and names
// function parameters on the *ir.Func itself.
package ir

import (
	"github.com/llir/llvm/ir"
	lt "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Linkage mirrors the two linkages the spec's FunctionDecl lowering rule
// needs (external for global declarations, private for nested functions)
// plus common linkage for module-scope variables (spec §4.5).
type Linkage int

const (
	LinkageExternal Linkage = iota
	LinkagePrivate
	LinkageCommon
)

// Builder is the complete set of IR operations the core depends on (spec
// §4.2): module/function/block creation, insertion-point management,
// entry-block allocation, load/store, struct-field GEP, casts, branches,
// calls and integer constants.
type Builder interface {
	// CreateModule creates (or returns, if already created) the module
	// under construction.
	CreateModule() *ir.Module

	// CreateFunction creates a function with the given signature and
	// linkage, without an insertion point.
	CreateFunction(name string, sig *lt.FuncType, linkage Linkage) *ir.Func

	// CreateBlock creates a new basic block bound to fn. It does not
	// become the active insertion point.
	CreateBlock(fn *ir.Func, name string) *ir.Block

	// SetInsertPoint makes b the active insertion point for subsequent
	// emit calls.
	SetInsertPoint(b *ir.Block)

	// ClearInsertPoint deactivates the insertion point (builder state
	// "inactive", spec §4.12).
	ClearInsertPoint()

	// InsertBlock returns the current insertion point, or nil if inactive.
	InsertBlock() *ir.Block

	// Alloca allocates a stack slot of type typ in fn's entry block,
	// regardless of the current insertion point, and returns its address.
	Alloca(fn *ir.Func, typ lt.Type, name string) *ir.InstAlloca

	// Load loads the value addressed by addr, whose pointee type is
	// elemType.
	Load(elemType lt.Type, addr value.Value, name string) *ir.InstLoad

	// Store stores val at addr.
	Store(val, addr value.Value) *ir.InstStore

	// FieldAddr computes the address of field index field of the struct
	// pointed to by addr (struct type structType).
	FieldAddr(addr value.Value, structType *lt.StructType, field int, name string) *ir.InstGetElementPtr

	// Cast performs a pointer/bit cast of val to type to.
	Cast(val value.Value, to lt.Type) value.Value

	// Br emits an unconditional branch, closing the current block.
	Br(target *ir.Block)

	// CondBr emits a conditional branch, closing the current block.
	CondBr(cond value.Value, then, els *ir.Block)

	// CallDirect emits a direct call to callee by symbol.
	CallDirect(callee *ir.Func, args []value.Value, name string) *ir.InstCall

	// CallIndirect emits a call through a function-pointer value.
	CallIndirect(callee value.Value, sig *lt.FuncType, args []value.Value, name string) *ir.InstCall

	// Ret emits a return terminator; val may be nil for a void return.
	Ret(val value.Value)

	// ConstInt returns a constant integer of type typ.
	ConstInt(typ *lt.IntType, v int64) value.Value

	// ConstNull returns the null constant of pointer type typ, used to
	// populate the environment slot of a non-escaping closure value.
	ConstNull(typ *lt.PointerType) value.Value

	// Global declares (or fetches) a module-scope variable of type typ
	// with the given linkage, zero/null-initialised.
	Global(name string, typ lt.Type, linkage Linkage) *ir.Global
}
