package lower

import (
	llvmir "github.com/llir/llvm/ir"
	lt "github.com/llir/llvm/ir/types"

	"github.com/emberlang/irgen/ast"
	"github.com/emberlang/irgen/ir"
	"github.com/emberlang/irgen/symtab"
	"github.com/emberlang/irgen/types"
)

// lowerFunctionDecl implements spec §4.10: the common prologue, body
// emission shared by global and nested forms, and the nested-function
// first-class value construction.
func (l *Lowerer) lowerFunctionDecl(f *ast.FunctionDecl) error {
	isNested := len(l.funcs) > 0

	linkage := ir.LinkageExternal
	if isNested {
		linkage = ir.LinkagePrivate
	}

	var freeTypes []types.Type
	var sig *lt.FuncType
	if len(f.Captures) > 0 {
		freeTypes = make([]types.Type, len(f.Captures))
		for i, c := range f.Captures {
			freeTypes[i] = c.Typ
		}
		sig = f.Typ.LiftedType(l.Types, freeTypes)
	} else {
		sig, _ = f.Typ.LoweredType(l.Types).(*lt.FuncType)
	}

	fn := l.Builder.CreateFunction(f.Name, sig, linkage)
	l.Builder.CreateBlock(fn, "entry")

	paramNames := make([]string, 0, len(f.Captures)+len(f.Params))
	paramTypes := make([]types.Type, 0, len(f.Captures)+len(f.Params))
	for _, c := range f.Captures {
		paramNames = append(paramNames, c.Name)
		paramTypes = append(paramTypes, c.Typ)
	}
	for _, p := range f.Params {
		paramNames = append(paramNames, p.Name)
		paramTypes = append(paramTypes, p.Typ)
	}
	for i, name := range paramNames {
		fn.Params[i].LocalIdent = llvmir.LocalIdent{LocalName: name}
	}

	outerBlock := l.Builder.InsertBlock()
	l.Builder.SetInsertPoint(fn.Blocks[0])

	l.pushFunc(fn, f.Name)
	l.Env.PushFrame()

	retAddr := l.Builder.Alloca(fn, f.Typ.Codomain.LoweredType(l.Types), "ret")
	l.pushReturn(retAddr, f.Typ.Codomain)

	for i, name := range paramNames {
		lowered := paramTypes[i].LoweredType(l.Types)
		addr := l.Builder.Alloca(fn, lowered, name)
		l.Builder.Store(fn.Params[i], addr)
		l.Env.DefineLocal(name, addr)
	}

	bodyErr := l.lowerBlock(f.Body)

	l.Env.PopFrame()
	l.popFunc()
	l.popReturn()

	if bodyErr != nil {
		return wrapFuncError(f.Name, bodyErr)
	}

	if l.Builder.InsertBlock() != nil {
		retVal := l.Builder.Load(f.Typ.Codomain.LoweredType(l.Types), retAddr, "")
		l.Builder.Ret(retVal)
	}

	if err := l.sanityCheckFunction(fn); err != nil {
		return wrapFuncError(f.Name, err)
	}

	if outerBlock != nil {
		l.Builder.SetInsertPoint(outerBlock)
	} else {
		l.Builder.ClearInsertPoint()
	}

	if !isNested {
		l.globals[f.Name] = &globalFunc{fn: fn, decl: f}
		return nil
	}

	ptrType := lt.NewPointer(sig)
	enclosingFn := l.currentFunc()
	slotAddr := l.Builder.Alloca(enclosingFn, l.Types.Closure, f.Name)

	fnPtr := l.Builder.Cast(fn, l.Types.Ptr)
	fnFieldAddr := l.Builder.FieldAddr(slotAddr, l.Types.Closure, 0, f.Name+".fnaddr")
	l.Builder.Store(fnPtr, fnFieldAddr)

	envFieldAddr := l.Builder.FieldAddr(slotAddr, l.Types.Closure, 1, f.Name+".envaddr")
	l.Builder.Store(l.Builder.ConstNull(l.Types.Ptr), envFieldAddr)

	l.Env.DefineClosure(f.Name, &symtab.Closure{Decl: f, PointerType: ptrType})
	l.Env.DefineLocal(f.Name, slotAddr)
	return nil
}
