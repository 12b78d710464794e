package lower

import (
	"testing"

	llvmir "github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"

	"github.com/emberlang/irgen/ast"
	"github.com/emberlang/irgen/ir"
	"github.com/emberlang/irgen/types"
)

func newLowerer() *Lowerer {
	return New(ir.NewLLVMBuilder(""))
}

func identifier(name string, typ types.Type) *ast.Identifier {
	return &ast.Identifier{Name: name, Typ: typ}
}

func countAllocas(bb *llvmir.Block) int {
	n := 0
	for _, inst := range bb.Insts {
		if _, ok := inst.(*llvmir.InstAlloca); ok {
			n++
		}
	}
	return n
}

// Scenario 1 (spec §8): `cst x: Int; if true { x = 5 } else { x = 10 }`.
func TestScenario1_TopLevelIf(t *testing.T) {
	body := &ast.Block{Stmts: []ast.Node{
		&ast.PropertyDecl{Name: "x", Typ: types.NewInt()},
		&ast.If{
			Cond: &ast.BooleanLiteral{Value: true, Typ: types.NewBool()},
			Then: &ast.Block{Stmts: []ast.Node{
				&ast.Assignment{Op: ast.OpCopy, LHS: identifier("x", types.NewInt()), RHS: &ast.IntegerLiteral{Value: 5, Typ: types.NewInt()}},
			}},
			Else: &ast.Block{Stmts: []ast.Node{
				&ast.Assignment{Op: ast.OpCopy, LHS: identifier("x", types.NewInt()), RHS: &ast.IntegerLiteral{Value: 10, Typ: types.NewInt()}},
			}},
		},
	}}

	l := newLowerer()
	mod, err := l.LowerModule(body, 0)
	if err != nil {
		t.Fatalf("LowerModule: %v", err)
	}
	if !l.drained() {
		t.Fatal("value stack not drained after lowering the module")
	}

	if len(mod.Funcs) != 1 {
		t.Fatalf("len(mod.Funcs) = %d, want 1 (main)", len(mod.Funcs))
	}
	main := mod.Funcs[0]
	if main.Name() != "main" {
		t.Fatalf("main.Name() = %q, want main", main.Name())
	}
	if len(main.Blocks) != 4 {
		t.Fatalf("len(main.Blocks) = %d, want 4 (entry, then, else, cont)", len(main.Blocks))
	}

	entry := main.Blocks[0]
	if countAllocas(entry) != 1 {
		t.Errorf("entry block has %d allocas, want 1 (x)", countAllocas(entry))
	}
	if _, ok := entry.Term.(*llvmir.TermCondBr); !ok {
		t.Errorf("entry.Term = %T, want *ir.TermCondBr", entry.Term)
	}

	then, els, cont := main.Blocks[1], main.Blocks[2], main.Blocks[3]
	if _, ok := then.Term.(*llvmir.TermBr); !ok {
		t.Errorf("then.Term = %T, want *ir.TermBr", then.Term)
	}
	if _, ok := els.Term.(*llvmir.TermBr); !ok {
		t.Errorf("else.Term = %T, want *ir.TermBr", els.Term)
	}
	if _, ok := cont.Term.(*llvmir.TermRet); !ok {
		t.Errorf("cont.Term = %T, want *ir.TermRet (main's sealed return)", cont.Term)
	}
}

// Scenario 2 (spec §8): a global Int plus a function that reference-binds
// a local to it, assigns through the reference, then returns it.
func TestScenario2_ReferenceBindAndCopyThrough(t *testing.T) {
	intT := types.NewInt()
	refIntT := types.NewRef(intT)

	fBody := &ast.Block{Stmts: []ast.Node{
		&ast.PropertyDecl{Name: "y", Mutable: true, Typ: refIntT},
		&ast.Assignment{Op: ast.OpRef, LHS: identifier("y", refIntT), RHS: identifier("z", intT)},
		&ast.Assignment{Op: ast.OpCopy, LHS: identifier("y", refIntT), RHS: identifier("x", intT)},
		&ast.Return{Value: identifier("y", refIntT)},
	}}

	fDecl := &ast.FunctionDecl{
		Name:   "f",
		Params: []*ast.ParamDecl{{Name: "x", Typ: intT}},
		Typ:    types.NewFunction([]types.Type{intT}, []string{"x"}, intT),
		Body:   fBody,
	}

	body := &ast.Block{Stmts: []ast.Node{
		&ast.PropertyDecl{Name: "z", Mutable: true, Typ: intT},
		fDecl,
	}}

	l := newLowerer()
	mod, err := l.LowerModule(body, 0)
	if err != nil {
		t.Fatalf("LowerModule: %v", err)
	}
	if !l.drained() {
		t.Fatal("value stack not drained after lowering the module")
	}

	if len(mod.Globals) != 1 {
		t.Fatalf("len(mod.Globals) = %d, want 1 (z)", len(mod.Globals))
	}
	if mod.Globals[0].Linkage != enum.LinkageCommon {
		t.Errorf("z linkage = %v, want common", mod.Globals[0].Linkage)
	}

	var f *llvmir.Func
	for _, fn := range mod.Funcs {
		if fn.Name() == "f" {
			f = fn
		}
	}
	if f == nil {
		t.Fatal("function f not found in module")
	}
	if f.Linkage != enum.LinkageExternal {
		t.Errorf("f.Linkage = %v, want external", f.Linkage)
	}
	if len(f.Sig.Params) != 1 {
		t.Fatalf("f has %d params, want 1", len(f.Sig.Params))
	}

	entry := f.Blocks[0]
	// ret slot, x's parameter slot, y's slot.
	if countAllocas(entry) != 3 {
		t.Errorf("f's entry has %d allocas, want 3 (ret, x, y)", countAllocas(entry))
	}
	if _, ok := entry.Term.(*llvmir.TermRet); !ok {
		t.Errorf("f's entry.Term = %T, want *ir.TermRet", entry.Term)
	}
}

// Scenario 3 (spec §8): a nested function capturing one free variable,
// called by name, plus a top-level direct call to the enclosing function.
func TestScenario3_NestedClosureCapture(t *testing.T) {
	intT := types.NewInt()

	gDecl := &ast.FunctionDecl{
		Name:     "g",
		Params:   []*ast.ParamDecl{{Name: "y", Typ: intT}},
		Captures: []*ast.Capture{{Name: "x", Typ: intT}},
		Typ:      types.NewFunction([]types.Type{intT}, []string{"y"}, intT),
		Body:     &ast.Block{Stmts: []ast.Node{&ast.Return{Value: identifier("x", intT)}}},
	}

	callG := &ast.Call{
		Callee: identifier("g", nil),
		Args:   []*ast.CallArg{{Label: "y", Value: &ast.IntegerLiteral{Value: 0, Typ: intT}}},
		Typ:    intT,
	}

	fDecl := &ast.FunctionDecl{
		Name:   "f",
		Params: []*ast.ParamDecl{{Name: "x", Typ: intT}},
		Typ:    types.NewFunction([]types.Type{intT}, []string{"x"}, intT),
		Body: &ast.Block{Stmts: []ast.Node{
			gDecl,
			&ast.Return{Value: callG},
		}},
	}

	topCall := &ast.Call{
		Callee: identifier("f", nil),
		Args:   []*ast.CallArg{{Label: "x", Value: &ast.IntegerLiteral{Value: 42, Typ: intT}}},
		Typ:    intT,
	}

	body := &ast.Block{Stmts: []ast.Node{fDecl, topCall}}

	l := newLowerer()
	mod, err := l.LowerModule(body, 0)
	if err != nil {
		t.Fatalf("LowerModule: %v", err)
	}
	if !l.drained() {
		t.Fatal("value stack not drained after lowering the module")
	}
	if len(mod.Funcs) != 3 {
		t.Fatalf("len(mod.Funcs) = %d, want 3 (main, f, g)", len(mod.Funcs))
	}

	var f, g *llvmir.Func
	for _, fn := range mod.Funcs {
		switch fn.Name() {
		case "f":
			f = fn
		case "g":
			g = fn
		}
	}
	if f == nil || g == nil {
		t.Fatal("f or g not found in module")
	}
	if f.Linkage != enum.LinkageExternal {
		t.Errorf("f.Linkage = %v, want external", f.Linkage)
	}
	if g.Linkage != enum.LinkagePrivate {
		t.Errorf("g.Linkage = %v, want private", g.Linkage)
	}
	// g's lifted signature prepends the one captured Int before its own
	// declared Int parameter: (i64, i64) -> i64.
	if len(g.Sig.Params) != 2 {
		t.Fatalf("g has %d params, want 2 (captured x, declared y)", len(g.Sig.Params))
	}

	// f's entry must contain a closure_t-shaped alloca for g in addition
	// to its own ret slot and x parameter slot.
	if countAllocas(f.Blocks[0]) != 3 {
		t.Errorf("f's entry has %d allocas, want 3 (ret, x, g's closure slot)", countAllocas(f.Blocks[0]))
	}
}

// Scenario 4 (spec §8): referencing an unbound name fails fast.
func TestScenario4_UndefinedSymbol(t *testing.T) {
	body := &ast.Block{Stmts: []ast.Node{
		&ast.Assignment{
			Op:  ast.OpCopy,
			LHS: identifier("a", types.NewInt()),
			RHS: identifier("b", types.NewInt()),
		},
	}}

	l := newLowerer()
	_, err := l.LowerModule(body, 0)
	if err == nil {
		t.Fatal("LowerModule succeeded, want undefined symbol error")
	}
	lerr, ok := err.(*Error)
	if !ok || lerr.Kind != UndefinedSymbol {
		t.Fatalf("err = %v, want *Error{Kind: UndefinedSymbol}", err)
	}
}

// Scenario 5 (spec §8): calling a function with the wrong argument count
// fails with an arity mismatch.
func TestScenario5_ArityMismatch(t *testing.T) {
	intT := types.NewInt()
	fDecl := &ast.FunctionDecl{
		Name:   "f",
		Params: []*ast.ParamDecl{{Name: "x", Typ: intT}},
		Typ:    types.NewFunction([]types.Type{intT}, []string{"x"}, intT),
		Body:   &ast.Block{Stmts: []ast.Node{&ast.Return{Value: identifier("x", intT)}}},
	}
	badCall := &ast.Call{
		Callee: identifier("f", nil),
		Args: []*ast.CallArg{
			{Label: "x", Value: &ast.IntegerLiteral{Value: 1, Typ: intT}},
			{Label: "x", Value: &ast.IntegerLiteral{Value: 2, Typ: intT}},
		},
		Typ: intT,
	}
	body := &ast.Block{Stmts: []ast.Node{fDecl, badCall}}

	l := newLowerer()
	_, err := l.LowerModule(body, 0)
	if err == nil {
		t.Fatal("LowerModule succeeded, want arity mismatch error")
	}
	lerr, ok := err.(*Error)
	if !ok || lerr.Kind != ArityMismatch {
		t.Fatalf("err = %v, want *Error{Kind: ArityMismatch}", err)
	}
}

// Testable property (spec §8): the value stack is empty immediately
// after lowering any statement, even one that is itself an expression.
func TestValueStackDrainedAfterExpressionStatement(t *testing.T) {
	body := &ast.Block{Stmts: []ast.Node{
		&ast.PropertyDecl{Name: "x", Typ: types.NewInt()},
		&ast.Assignment{Op: ast.OpCopy, LHS: identifier("x", types.NewInt()), RHS: &ast.IntegerLiteral{Value: 1, Typ: types.NewInt()}},
		identifier("x", types.NewInt()),
	}}

	l := newLowerer()
	if _, err := l.LowerModule(body, 0); err != nil {
		t.Fatalf("LowerModule: %v", err)
	}
	if !l.drained() {
		t.Fatal("value stack not drained after an expression-statement")
	}
}
