package lower

import (
	lt "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/emberlang/irgen/ast"
	"github.com/emberlang/irgen/symtab"
)

// addressOf implements spec §4.3's resolution order. It always returns a
// pointer value usable as a store destination or load source.
func (l *Lowerer) addressOf(name string) (value.Value, error) {
	// Step 1: the current frame's own locals.
	if l.Env.InFrame() {
		if addr, ok := l.Env.LookupLocal(name); ok {
			if l.Env.IsCaptured(name) {
				return l.Builder.Load(l.Types.Ptr, addr, name+".deref"), nil
			}
			return addr, nil
		}
	}

	// Step 2: the current function's own capture list, reached through
	// its closure environment. Only closures with a populated EnvType
	// (escaping closures, spec §9 — not implemented by this module's
	// FunctionDecl lowering) ever take this branch; the non-escaping
	// convention implemented here binds every capture as an ordinary
	// parameter local, so it is always found in step 1.
	if fname := l.currentFuncName(); fname != "" {
		if cl, ok := l.Env.LookupClosure(fname); ok && cl.EnvType != nil {
			if idx, selfAddr, ok := l.captureFieldIndex(cl, name, fname); ok {
				envAddr := l.Builder.FieldAddr(selfAddr, l.Types.Closure, 1, fname+".env")
				envPtr := l.Builder.Load(l.Types.Ptr, envAddr, fname+".envptr")
				envStructPtr := l.Builder.Cast(envPtr, lt.NewPointer(cl.EnvType))
				return l.Builder.FieldAddr(envStructPtr, cl.EnvType, idx, name+".capture"), nil
			}
		}
	}

	// Step 3: globals.
	if addr, ok := l.Env.LookupGlobal(name); ok {
		return addr, nil
	}

	// Step 4: undefined.
	return nil, newError(UndefinedSymbol, name)
}

// captureFieldIndex finds name's position in cl's capture list and the
// address of cl's own closure_t slot in the enclosing frame (needed to
// reach field 1, the environment pointer).
func (l *Lowerer) captureFieldIndex(cl *symtab.Closure, name, selfName string) (int, value.Value, bool) {
	idx := -1
	for i, c := range cl.Decl.Captures {
		if c.Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 0, nil, false
	}
	selfAddr, ok := l.Env.LookupLocal(selfName)
	if !ok {
		return 0, nil, false
	}
	return idx, selfAddr, true
}

// lowerIdentifier implements spec §4.4's Identifier rule.
func (l *Lowerer) lowerIdentifier(id *ast.Identifier) error {
	addr, err := l.addressOf(id.Name)
	if err != nil {
		return err
	}
	l.push(l.Builder.Load(id.Typ.LoweredType(l.Types), addr, id.Name))
	return nil
}

// lowerIntegerLiteral implements spec §4.4's IntegerLiteral rule.
func (l *Lowerer) lowerIntegerLiteral(lit *ast.IntegerLiteral) error {
	l.push(l.Builder.ConstInt(l.Types.I64, lit.Value))
	return nil
}

// lowerBooleanLiteral implements spec §4.4's BooleanLiteral rule.
func (l *Lowerer) lowerBooleanLiteral(lit *ast.BooleanLiteral) error {
	var v int64
	if lit.Value {
		v = 1
	}
	l.push(l.Builder.ConstInt(l.Types.I1, v))
	return nil
}
