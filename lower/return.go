package lower

import (
	"github.com/emberlang/irgen/ast"
	"github.com/emberlang/irgen/types"
)

// lowerReturn implements spec §4.8. It writes into the current return
// slot; the function's terminator is emitted by FunctionDecl lowering
// (§4.10), not here.
func (l *Lowerer) lowerReturn(r *ast.Return) error {
	if len(l.returns) == 0 {
		return newError(ReturnOutsideFunction, "")
	}
	if err := l.lowerNode(r.Value); err != nil {
		return err
	}
	v := l.pop()

	if ref, ok := r.Value.Type().(*types.Ref); ok {
		v = l.Builder.Load(ref.Elem.LoweredType(l.Types), v, "")
	}

	l.Builder.Store(v, l.topReturn().addr)
	return nil
}
