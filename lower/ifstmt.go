package lower

import "github.com/emberlang/irgen/ast"

// lowerIf implements spec §4.7: a two-armed conditional with no phi and
// no produced value.
func (l *Lowerer) lowerIf(n *ast.If) error {
	if err := l.ensureMain(); err != nil {
		return err
	}
	if err := l.lowerNode(n.Cond); err != nil {
		return err
	}
	cond := l.pop()

	fn := l.currentFunc()
	thenBB := l.Builder.CreateBlock(fn, "then")
	elseBB := l.Builder.CreateBlock(fn, "else")
	contBB := l.Builder.CreateBlock(fn, "cont")

	l.Builder.CondBr(cond, thenBB, elseBB)

	l.Builder.SetInsertPoint(thenBB)
	if err := l.lowerBlock(n.Then); err != nil {
		return err
	}
	if l.Builder.InsertBlock() != nil {
		l.Builder.Br(contBB)
	}

	l.Builder.SetInsertPoint(elseBB)
	if n.Else != nil {
		if err := l.lowerBlock(n.Else); err != nil {
			return err
		}
	}
	if l.Builder.InsertBlock() != nil {
		l.Builder.Br(contBB)
	}

	l.Builder.SetInsertPoint(contBB)
	return nil
}
