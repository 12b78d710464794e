package lower

import (
	"github.com/emberlang/irgen/ast"
	"github.com/emberlang/irgen/types"
)

// lowerAssignment implements spec §4.6's three assignment flavours.
func (l *Lowerer) lowerAssignment(a *ast.Assignment) error {
	lhs, ok := a.LHS.(*ast.Identifier)
	if !ok {
		return newError(InvalidLvalue, "")
	}
	if err := l.ensureMain(); err != nil {
		return err
	}

	lvalueAddr, err := l.addressOf(lhs.Name)
	if err != nil {
		return err
	}

	switch a.Op {
	case ast.OpCopy, ast.OpMove:
		if err := l.lowerNode(a.RHS); err != nil {
			return err
		}
		rv := l.pop()

		if ref, ok := lhs.Typ.(*types.Ref); ok {
			lvalueAddr = l.Builder.Load(ref.LoweredType(l.Types), lvalueAddr, lhs.Name+".addr")
		}
		if ref, ok := a.RHS.Type().(*types.Ref); ok {
			rv = l.Builder.Load(ref.Elem.LoweredType(l.Types), rv, "")
		}
		l.Builder.Store(rv, lvalueAddr)

	case ast.OpRef:
		rhs, ok := a.RHS.(*ast.Identifier)
		if !ok {
			return newError(NonIdentifierRefRvalue, "")
		}
		rhsAddr, err := l.addressOf(rhs.Name)
		if err != nil {
			return err
		}
		l.Builder.Store(rhsAddr, lvalueAddr)

	default:
		return newError(UnsupportedOperator, a.Op.String())
	}
	return nil
}
