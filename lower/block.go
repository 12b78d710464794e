package lower

import "github.com/emberlang/irgen/ast"

// lowerBlock lowers each statement in source order (spec §5). A
// statement that is itself an expression (e.g. a Call used for its
// side effects) leaves a value on the stack; it is discarded here so
// the stack is empty between statements, per spec §3 and the §8
// testable property.
func (l *Lowerer) lowerBlock(b *ast.Block) error {
	for _, stmt := range b.Stmts {
		before := len(l.values)
		if err := l.lowerNode(stmt); err != nil {
			return err
		}
		for len(l.values) > before {
			l.pop()
		}
	}
	return nil
}

// lowerNode is the exhaustive dispatch over the AST's tagged variant
// (spec §9, "Visitor dispatch").
func (l *Lowerer) lowerNode(n ast.Node) error {
	if n == nil {
		return newError(UntypedNode, "")
	}
	if _, isIf := n.(*ast.If); !isIf && n.Type() == nil {
		return newError(UntypedNode, "")
	}

	switch node := n.(type) {
	case *ast.Block:
		return l.lowerBlock(node)
	case *ast.PropertyDecl:
		return l.lowerPropertyDecl(node)
	case *ast.FunctionDecl:
		return l.lowerFunctionDecl(node)
	case *ast.Assignment:
		return l.lowerAssignment(node)
	case *ast.If:
		return l.lowerIf(node)
	case *ast.Return:
		return l.lowerReturn(node)
	case *ast.Call:
		return l.lowerCall(node)
	case *ast.Identifier:
		return l.lowerIdentifier(node)
	case *ast.IntegerLiteral:
		return l.lowerIntegerLiteral(node)
	case *ast.BooleanLiteral:
		return l.lowerBooleanLiteral(node)
	case *ast.BinaryExpr:
		return newError(UnsupportedOperator, node.Op)
	default:
		return newError(UnsupportedOperator, "")
	}
}
