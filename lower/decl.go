package lower

import (
	"github.com/emberlang/irgen/ast"
	"github.com/emberlang/irgen/ir"
)

// lowerPropertyDecl implements spec §4.5's allocation policy.
func (l *Lowerer) lowerPropertyDecl(p *ast.PropertyDecl) error {
	lowered := p.Typ.LoweredType(l.Types)

	if len(l.funcs) == 0 {
		g := l.Builder.Global(p.Name, lowered, ir.LinkageCommon)
		l.Env.DefineGlobal(p.Name, g)
		return nil
	}

	addr := l.Builder.Alloca(l.currentFunc(), lowered, p.Name)
	l.Env.DefineLocal(p.Name, addr)
	return nil
}
