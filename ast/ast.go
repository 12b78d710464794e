// Package ast defines the tagged hierarchy of AST nodes the lowering
// visitor consumes. Every node is fully type-annotated by an earlier,
// out-of-scope pass; the Type() slot is never nil on a node actually
// visited by the lowering pass, except on If, which produces no value and
// whose Type() is always nil.
//
// Ownership is tree-shaped: a parent node exclusively owns its children.
// Back-references (a FunctionDecl's capture list naming a declaration in
// an enclosing scope) are by name, not by pointer, since the owning
// declaration's lifetime is independent of the nested function's.
package ast

import "github.com/emberlang/irgen/types"

// Node is the common interface of all twelve AST node kinds.
type Node interface {
	// Type returns the node's type annotation. Untyped nodes reaching the
	// lowering visitor are a programmer error in the upstream pipeline,
	// not a condition this package guards against.
	Type() types.Type

	String() string

	isNode()
}

// AssignOp is the assignment operator token: copy, reference-bind or move.
type AssignOp int

const (
	// OpCopy is `=`: evaluate the rvalue and store it into the lvalue.
	OpCopy AssignOp = iota
	// OpRef is `&-`: bind the lvalue to the address of an identifier rvalue.
	OpRef
	// OpMove is `<-`: reserved; currently lowered identically to OpCopy.
	OpMove
)

func (op AssignOp) String() string {
	switch op {
	case OpCopy:
		return "="
	case OpRef:
		return "&-"
	case OpMove:
		return "<-"
	default:
		return "?"
	}
}

// Block is a sequence of statements; it is both the body of a function and
// the top-level module.
type Block struct {
	Stmts []Node
	Typ   types.Type
}

func (b *Block) Type() types.Type { return b.Typ }
func (b *Block) String() string   { return "Block" }
func (*Block) isNode()            {}

// PropertyDecl declares a local or global variable. Mutable distinguishes
// `mut` from `cst`; the lowering core does not yet use it to optimize
// anything but a downstream pass may.
type PropertyDecl struct {
	Name    string
	Mutable bool
	Typ     types.Type
}

func (p *PropertyDecl) Type() types.Type { return p.Typ }
func (p *PropertyDecl) String() string    { return "PropertyDecl(" + p.Name + ")" }
func (*PropertyDecl) isNode()            {}

// ParamDecl declares a formal parameter of a FunctionDecl.
type ParamDecl struct {
	Name string
	Typ  types.Type
}

func (p *ParamDecl) Type() types.Type { return p.Typ }
func (p *ParamDecl) String() string    { return "ParamDecl(" + p.Name + ")" }
func (*ParamDecl) isNode()            {}

// Capture is one entry of a FunctionDecl's capture list: the name and
// type of a declaration in an enclosing scope, and whether it is captured
// by reference into a non-escaping closure (Escaping == false) or must be
// captured by value because the closure escapes (Escaping == true).
type Capture struct {
	Name     string
	Typ      types.Type
	Escaping bool
}

// FunctionDecl declares a function, global or nested. It is nested when it
// is declared inside another function's body, whether or not Captures is
// empty; Captures is populated verbatim by an earlier, out-of-scope
// analysis.
type FunctionDecl struct {
	Name     string
	Params   []*ParamDecl
	Captures []*Capture
	Body     *Block
	Typ      *types.Function
}

func (f *FunctionDecl) Type() types.Type { return f.Typ }
func (f *FunctionDecl) String() string    { return "FunctionDecl(" + f.Name + ")" }
func (*FunctionDecl) isNode()            {}

// Assignment is one of the three assignment flavours: copy, reference-bind
// or move. The spec currently only permits an Identifier as LHS.
type Assignment struct {
	Op  AssignOp
	LHS Node
	RHS Node
}

func (a *Assignment) Type() types.Type { return a.RHS.Type() }
func (a *Assignment) String() string    { return "Assignment(" + a.Op.String() + ")" }
func (*Assignment) isNode()            {}

// If is a two-armed conditional with no produced value.
type If struct {
	Cond Node
	Then *Block
	Else *Block
}

func (i *If) Type() types.Type { return nil }
func (i *If) String() string    { return "If" }
func (*If) isNode()            {}

// Return evaluates Value and writes it into the enclosing function's
// return slot.
type Return struct {
	Value Node
}

func (r *Return) Type() types.Type { return r.Value.Type() }
func (r *Return) String() string    { return "Return" }
func (*Return) isNode()            {}

// BinaryExpr is carried by the AST model for completeness but is not an
// input the typed pipeline in this module emits (spec §9 open question);
// the lowering visitor rejects it with the UnsupportedOperator error kind.
type BinaryExpr struct {
	Op  string
	X   Node
	Y   Node
	Typ types.Type
}

func (b *BinaryExpr) Type() types.Type { return b.Typ }
func (b *BinaryExpr) String() string    { return "BinaryExpr(" + b.Op + ")" }
func (*BinaryExpr) isNode()            {}

// CallArg is one labelled actual argument of a Call.
type CallArg struct {
	Label string
	Value Node
}

func (c *CallArg) Type() types.Type { return c.Value.Type() }
func (c *CallArg) String() string    { return "CallArg(" + c.Label + ")" }
func (*CallArg) isNode()            {}

// Call invokes the function named by Callee (which must be an Identifier)
// with Args.
type Call struct {
	Callee Node
	Args   []*CallArg
	Typ    types.Type
}

func (c *Call) Type() types.Type { return c.Typ }
func (c *Call) String() string    { return "Call" }
func (*Call) isNode()            {}

// Identifier references a named declaration by address_of resolution.
type Identifier struct {
	Name string
	Typ  types.Type
}

func (id *Identifier) Type() types.Type { return id.Typ }
func (id *Identifier) String() string    { return "Identifier(" + id.Name + ")" }
func (*Identifier) isNode()            {}

// IntegerLiteral is a source-level 64-bit integer constant.
type IntegerLiteral struct {
	Value int64
	Typ   types.Type
}

func (l *IntegerLiteral) Type() types.Type { return l.Typ }
func (l *IntegerLiteral) String() string    { return "IntegerLiteral" }
func (*IntegerLiteral) isNode()            {}

// BooleanLiteral is a source-level 1-bit boolean constant.
type BooleanLiteral struct {
	Value bool
	Typ   types.Type
}

func (l *BooleanLiteral) Type() types.Type { return l.Typ }
func (l *BooleanLiteral) String() string    { return "BooleanLiteral" }
func (*BooleanLiteral) isNode()            {}
