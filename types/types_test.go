package types

import (
	"testing"

	lt "github.com/llir/llvm/ir/types"
)

func TestLoweredTypePrimitives(t *testing.T) {
	ctx := NewContext()

	if got := NewInt().LoweredType(ctx); got != ctx.I64 {
		t.Errorf("Int.LoweredType = %v, want ctx.I64", got)
	}
	if got := NewBool().LoweredType(ctx); got != ctx.I1 {
		t.Errorf("Bool.LoweredType = %v, want ctx.I1", got)
	}
}

func TestRefLoweredTypeIsPointerToElem(t *testing.T) {
	ctx := NewContext()
	ref := NewRef(NewInt())

	lowered := ref.LoweredType(ctx)
	ptr, ok := lowered.(*lt.PointerType)
	if !ok {
		t.Fatalf("Ref.LoweredType() = %T, want *types.PointerType", lowered)
	}
	if ptr.ElemType != ctx.I64 {
		t.Errorf("Ref(Int).LoweredType().ElemType = %v, want ctx.I64", ptr.ElemType)
	}
	if !ref.IsReference() {
		t.Fatal("Ref.IsReference() = false, want true")
	}
	if ref.IsPrimitive() {
		t.Fatal("Ref.IsPrimitive() = true, want false")
	}
}

func TestIntSingleton(t *testing.T) {
	if NewInt() != NewInt() {
		t.Error("NewInt() should return the canonical singleton")
	}
	if NewBool() != NewBool() {
		t.Error("NewBool() should return the canonical singleton")
	}
}

func TestEqual(t *testing.T) {
	cases := []struct {
		name  string
		a, b  Type
		equal bool
	}{
		{"int-int", NewInt(), NewInt(), true},
		{"int-bool", NewInt(), NewBool(), false},
		{"ref-ref-same", NewRef(NewInt()), NewRef(NewInt()), true},
		{"ref-ref-diff", NewRef(NewInt()), NewRef(NewBool()), false},
		{"ref-vs-plain", NewRef(NewInt()), NewInt(), false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Equal(c.a, c.b); got != c.equal {
				t.Errorf("Equal(%s, %s) = %v, want %v", c.a, c.b, got, c.equal)
			}
		})
	}
}

func TestFunctionEqual(t *testing.T) {
	f1 := NewFunction([]Type{NewInt()}, []string{"x"}, NewInt())
	f2 := NewFunction([]Type{NewInt()}, []string{"y"}, NewInt())
	f3 := NewFunction([]Type{NewBool()}, []string{"x"}, NewInt())

	if !Equal(f1, f2) {
		t.Error("functions with matching domain/codomain but different labels should be Equal")
	}
	if Equal(f1, f3) {
		t.Error("functions with differing domain types should not be Equal")
	}
}

func TestLiftedTypePrependsFreeVariables(t *testing.T) {
	ctx := NewContext()
	fn := NewFunction([]Type{NewInt()}, []string{"y"}, NewInt())

	lifted := fn.LiftedType(ctx, []Type{NewInt()})
	if len(lifted.Params) != 2 {
		t.Fatalf("LiftedType with one free variable: got %d params, want 2", len(lifted.Params))
	}
	if lifted.Params[0] != ctx.I64 || lifted.Params[1] != ctx.I64 {
		t.Errorf("LiftedType params = %v, want [i64 i64]", lifted.Params)
	}
	if lifted.RetType != ctx.I64 {
		t.Errorf("LiftedType.RetType = %v, want i64", lifted.RetType)
	}
}

func TestLiftedTypeNoCapturesMatchesPlainArity(t *testing.T) {
	ctx := NewContext()
	fn := NewFunction([]Type{NewInt(), NewBool()}, []string{"x", "y"}, NewInt())

	lifted := fn.LiftedType(ctx, nil)
	if len(lifted.Params) != 2 {
		t.Fatalf("capture-free LiftedType: got %d params, want 2", len(lifted.Params))
	}
}

func TestFunctionLoweredTypeArity(t *testing.T) {
	ctx := NewContext()
	fn := NewFunction([]Type{NewInt(), NewBool()}, []string{"x", "y"}, NewBool())

	sig, ok := fn.LoweredType(ctx).(*lt.FuncType)
	if !ok {
		t.Fatalf("Function.LoweredType() = %T, want *types.FuncType", fn.LoweredType(ctx))
	}
	if len(sig.Params) != 2 {
		t.Errorf("LoweredType params = %d, want 2", len(sig.Params))
	}
	if sig.RetType != ctx.I1 {
		t.Errorf("LoweredType.RetType = %v, want ctx.I1", sig.RetType)
	}
}
