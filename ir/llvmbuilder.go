package ir

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lt "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// LLVMBuilder is the concrete Builder backed by github.com/llir/llvm.
//
// Allocas are always hoisted into the entry block of the function they
// belong to (spec §4.5), tracked here as a per-function count of hoisted
// allocas so repeated Alloca calls for the same function append after any
// prior ones rather than needing a
// second traversal to reorder instructions afterwards.
type LLVMBuilder struct {
	Module *ir.Module
	block  *ir.Block
	names  map[*ir.Func]int
}

// NewLLVMBuilder creates a builder for a fresh module. TargetTriple, if
// non-empty, is set on the module (supplementing spec.md with the target
// triple original_source's tango/main.cc sets before emission).
func NewLLVMBuilder(targetTriple string) *LLVMBuilder {
	m := ir.NewModule()
	if targetTriple != "" {
		m.TargetTriple = targetTriple
	}
	return &LLVMBuilder{Module: m, names: make(map[*ir.Func]int)}
}

func (b *LLVMBuilder) CreateModule() *ir.Module { return b.Module }

func (b *LLVMBuilder) CreateFunction(name string, sig *lt.FuncType, linkage Linkage) *ir.Func {
	params := make([]*ir.Param, len(sig.Params))
	for i, pt := range sig.Params {
		params[i] = ir.NewParam("", pt)
	}
	fn := b.Module.NewFunc(name, sig.RetType, params...)
	fn.Linkage = lowerLinkage(linkage)
	fn.FuncAttrs = append(fn.FuncAttrs, enum.FuncAttrNoUnwind)
	return fn
}

func lowerLinkage(l Linkage) enum.Linkage {
	switch l {
	case LinkagePrivate:
		return enum.LinkagePrivate
	case LinkageCommon:
		return enum.LinkageCommon
	default:
		return enum.LinkageExternal
	}
}

func (b *LLVMBuilder) CreateBlock(fn *ir.Func, name string) *ir.Block {
	return fn.NewBlock(name)
}

func (b *LLVMBuilder) SetInsertPoint(bb *ir.Block) { b.block = bb }
func (b *LLVMBuilder) ClearInsertPoint()           { b.block = nil }
func (b *LLVMBuilder) InsertBlock() *ir.Block      { return b.block }

// Alloca always inserts into fn.Blocks[0] (the entry block), independent
// of the builder's current insertion point, per spec §4.5. Successive
// allocas for the same function are appended after any already hoisted,
// preserving declaration order.
func (b *LLVMBuilder) Alloca(fn *ir.Func, typ lt.Type, name string) *ir.InstAlloca {
	entry := fn.Blocks[0]
	a := entry.NewAlloca(typ)
	if name != "" {
		a.LocalIdent = ir.LocalIdent{LocalName: name}
	}
	idx := b.names[fn]
	last := len(entry.Insts) - 1
	if idx != last {
		copy(entry.Insts[idx+1:], entry.Insts[idx:last])
		entry.Insts[idx] = a
	}
	b.names[fn] = idx + 1
	return a
}

func (b *LLVMBuilder) Load(elemType lt.Type, addr value.Value, name string) *ir.InstLoad {
	l := b.block.NewLoad(elemType, addr)
	l.LocalIdent = ir.LocalIdent{LocalName: name}
	return l
}

func (b *LLVMBuilder) Store(val, addr value.Value) *ir.InstStore {
	return b.block.NewStore(val, addr)
}

func (b *LLVMBuilder) FieldAddr(addr value.Value, structType *lt.StructType, field int, name string) *ir.InstGetElementPtr {
	zero := constant.NewInt(lt.I32, 0)
	idx := constant.NewInt(lt.I32, int64(field))
	g := b.block.NewGetElementPtr(structType, addr, zero, idx)
	g.LocalIdent = ir.LocalIdent{LocalName: name}
	return g
}

func (b *LLVMBuilder) Cast(val value.Value, to lt.Type) value.Value {
	if val.Type().Equal(to) {
		return val
	}
	return b.block.NewBitCast(val, to)
}

func (b *LLVMBuilder) Br(target *ir.Block) {
	b.block.NewBr(target)
	b.block = nil
}

func (b *LLVMBuilder) CondBr(cond value.Value, then, els *ir.Block) {
	b.block.NewCondBr(cond, then, els)
	b.block = nil
}

func (b *LLVMBuilder) CallDirect(callee *ir.Func, args []value.Value, name string) *ir.InstCall {
	c := b.block.NewCall(callee, args...)
	c.LocalIdent = ir.LocalIdent{LocalName: name}
	return c
}

func (b *LLVMBuilder) CallIndirect(callee value.Value, sig *lt.FuncType, args []value.Value, name string) *ir.InstCall {
	c := b.block.NewCall(callee, args...)
	c.LocalIdent = ir.LocalIdent{LocalName: name}
	return c
}

func (b *LLVMBuilder) Ret(val value.Value) {
	b.block.NewRet(val)
	b.block = nil
}

func (b *LLVMBuilder) ConstInt(typ *lt.IntType, v int64) value.Value {
	return constant.NewInt(typ, v)
}

func (b *LLVMBuilder) ConstNull(typ *lt.PointerType) value.Value {
	return constant.NewNull(typ)
}

func (b *LLVMBuilder) Global(name string, typ lt.Type, linkage Linkage) *ir.Global {
	for _, g := range b.Module.Globals {
		if g.Name() == name {
			return g
		}
	}
	var init constant.Constant
	switch t := typ.(type) {
	case *lt.PointerType:
		init = constant.NewNull(t)
	case *lt.IntType:
		init = constant.NewInt(t, 0)
	default:
		panic(fmt.Sprintf("unsupported global type %s", typ))
	}
	g := b.Module.NewGlobalDef(name, init)
	g.Linkage = lowerLinkage(linkage)
	return g
}
