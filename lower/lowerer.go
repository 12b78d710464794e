// Package lower implements the lowering visitor (spec §4.4-§4.12): the
// per-node rules that turn a fully type-annotated ast.Node tree into
// SSA-form IR emitted through an ir.Builder.
package lower

import (
	llvmir "github.com/llir/llvm/ir"
	lt "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/emberlang/irgen/ast"
	"github.com/emberlang/irgen/ir"
	"github.com/emberlang/irgen/symtab"
	"github.com/emberlang/irgen/types"
)

// returnFrame pairs a function's return slot with its declared return
// type, pushed on entry to a FunctionDecl body and popped on exit
// (spec §3, "Return context").
type returnFrame struct {
	addr value.Value
	typ  types.Type
}

// funcFrame tracks the function currently being emitted into: the IR
// function object (needed so Alloca can target its entry block) and its
// source name (needed by address_of step 2 to find the current
// function's own closure descriptor, if it is nested).
type funcFrame struct {
	fn   *llvmir.Func
	name string
}

// globalFunc is a module-level (non-nested) function binding, kept
// separately from symtab.Environment's Closures table since direct
// calls need the declaration's arity, not a closure descriptor.
type globalFunc struct {
	fn   *llvmir.Func
	decl *ast.FunctionDecl
}

// Lowerer drives the traversal described in spec §2 and §4. It owns the
// value stack, the return-context stack, the function stack and the
// symbol environment; it talks to the IR only through ir.Builder.
type Lowerer struct {
	Builder ir.Builder
	Types   *types.Context
	Env     *symtab.Environment

	values  []value.Value
	returns []returnFrame
	funcs   []funcFrame
	globals map[string]*globalFunc

	main *llvmir.Func
}

// New constructs a Lowerer around builder, with a fresh type registry
// and symbol environment.
func New(builder ir.Builder) *Lowerer {
	return &Lowerer{
		Builder: builder,
		Types:   types.NewContext(),
		Env:     symtab.New(),
		globals: make(map[string]*globalFunc),
	}
}

// push and pop implement the visitor-local value stack (spec §3,
// "Value stack"): every expression that produces a value pushes exactly
// once, and its parent pops exactly as many values as it consumed.
func (l *Lowerer) push(v value.Value) { l.values = append(l.values, v) }

func (l *Lowerer) pop() value.Value {
	n := len(l.values)
	v := l.values[n-1]
	l.values = l.values[:n-1]
	return v
}

// drained reports whether the value stack is empty, which must hold
// between top-level statements (spec §5, §8).
func (l *Lowerer) drained() bool { return len(l.values) == 0 }

func (l *Lowerer) pushReturn(addr value.Value, typ types.Type) {
	l.returns = append(l.returns, returnFrame{addr: addr, typ: typ})
}

func (l *Lowerer) popReturn() {
	l.returns = l.returns[:len(l.returns)-1]
}

func (l *Lowerer) topReturn() returnFrame {
	return l.returns[len(l.returns)-1]
}

func (l *Lowerer) pushFunc(fn *llvmir.Func, name string) {
	l.funcs = append(l.funcs, funcFrame{fn: fn, name: name})
}

func (l *Lowerer) popFunc() {
	l.funcs = l.funcs[:len(l.funcs)-1]
}

// currentFunc returns the IR function currently being emitted into:
// main, when no FunctionDecl body is active, since top-level statements
// redirect there (spec §4.11, §4.12).
func (l *Lowerer) currentFunc() *llvmir.Func {
	if len(l.funcs) == 0 {
		return l.main
	}
	return l.funcs[len(l.funcs)-1].fn
}

// currentFuncName returns the name of the function currently being
// emitted into, or "" at top level (main is never a nested closure, so
// "" never collides with a real closures-table entry).
func (l *Lowerer) currentFuncName() string {
	if len(l.funcs) == 0 {
		return ""
	}
	return l.funcs[len(l.funcs)-1].name
}

// ensureMain implements the "move to main" transition of spec §4.12:
// any top-level statement that needs an insertion point, and finds none
// active, is redirected into main's entry block.
func (l *Lowerer) ensureMain() error {
	if l.Builder.InsertBlock() != nil {
		return nil
	}
	if l.main == nil {
		return newError(TopLevelInEmptyModule, "")
	}
	l.Builder.SetInsertPoint(l.main.Blocks[0])
	return nil
}

// LowerModule is the module driver (spec §4.11): it creates main with
// its fixed signature, visits body with no active insertion point, then
// seals main with a return terminator. exitCode is the value returned
// by the sealed `ret`; callers that don't care pass 0.
func (l *Lowerer) LowerModule(body *ast.Block, exitCode int64) (*llvmir.Module, error) {
	mod := l.Builder.CreateModule()

	argcArgv := lt.NewFunc(l.Types.I32, l.Types.I32, lt.NewPointer(lt.NewPointer(lt.I8)))
	l.main = l.Builder.CreateFunction("main", argcArgv, ir.LinkageExternal)
	l.Builder.CreateBlock(l.main, "entry")
	l.Builder.ClearInsertPoint()

	if err := l.lowerBlock(body); err != nil {
		return nil, err
	}

	if err := l.ensureMain(); err != nil {
		return nil, err
	}
	l.Builder.Ret(l.Builder.ConstInt(l.Types.I32, exitCode))

	if err := l.sanityCheckFunction(l.main); err != nil {
		return nil, wrapFuncError("main", err)
	}

	return mod, nil
}
