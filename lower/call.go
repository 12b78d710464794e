package lower

import (
	lt "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/emberlang/irgen/ast"
)

// lowerCall implements spec §4.9. The callee must be an Identifier;
// whether it dispatches directly or through a closure value depends on
// whether its name shadows a current local.
func (l *Lowerer) lowerCall(c *ast.Call) error {
	if err := l.ensureMain(); err != nil {
		return err
	}
	callee, ok := c.Callee.(*ast.Identifier)
	if !ok {
		return newError(UnknownFunction, "")
	}
	name := callee.Name

	if _, ok := l.Env.LookupLocal(name); ok {
		return l.lowerClosureCall(c, name)
	}

	gf, ok := l.globals[name]
	if !ok {
		return newError(UnknownFunction, name)
	}
	if len(c.Args) != len(gf.decl.Params) {
		return newError(ArityMismatch, name)
	}

	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		if err := l.lowerNode(a.Value); err != nil {
			return err
		}
		args[i] = l.pop()
	}
	l.push(l.Builder.CallDirect(gf.fn, args, name+".call"))
	return nil
}

// lowerClosureCall handles the indirect-dispatch branch of spec §4.9:
// captures are prepended, in capture-list order, ahead of the
// user-supplied arguments.
func (l *Lowerer) lowerClosureCall(c *ast.Call, name string) error {
	cl, ok := l.Env.LookupClosure(name)
	if !ok {
		return newError(UnknownFunction, name)
	}
	if len(c.Args) != len(cl.Decl.Params) {
		return newError(ArityMismatch, name)
	}

	slotAddr, _ := l.Env.LookupLocal(name)
	fnFieldAddr := l.Builder.FieldAddr(slotAddr, l.Types.Closure, 0, name+".fnaddr")
	rawPtr := l.Builder.Load(l.Types.Ptr, fnFieldAddr, name+".fnptr")
	castPtr := l.Builder.Cast(rawPtr, cl.PointerType)

	args := make([]value.Value, 0, len(cl.Decl.Captures)+len(c.Args))
	for _, cap := range cl.Decl.Captures {
		addr, err := l.addressOf(cap.Name)
		if err != nil {
			return err
		}
		args = append(args, l.Builder.Load(cap.Typ.LoweredType(l.Types), addr, cap.Name))
	}
	for _, a := range c.Args {
		if err := l.lowerNode(a.Value); err != nil {
			return err
		}
		args = append(args, l.pop())
	}

	sig, _ := cl.PointerType.ElemType.(*lt.FuncType)
	l.push(l.Builder.CallIndirect(castPtr, sig, args, name+".call"))
	return nil
}
