package main

import (
	"encoding/json"
	"fmt"

	"github.com/emberlang/irgen/ast"
	"github.com/emberlang/irgen/types"
)

// jsonType and jsonNode mirror the AST-as-data wire format spec §6
// describes: a closed set of node-kind tags, `cst`/`mut` mutability,
// and `=`/`&-`/`<-` assignment operator tokens. Decoding lives here,
// outside the lowering core, since the spec treats the loader as an
// external collaborator.
type jsonType struct {
	Kind     string      `json:"kind"`
	Elem     *jsonType   `json:"elem,omitempty"`
	Domain   []*jsonType `json:"domain,omitempty"`
	Labels   []string    `json:"labels,omitempty"`
	Codomain *jsonType   `json:"codomain,omitempty"`
}

type jsonCapture struct {
	Name     string    `json:"name"`
	Type     *jsonType `json:"type"`
	Escaping bool      `json:"escaping"`
}

type jsonNode struct {
	Kind string `json:"kind"`

	// Block
	Stmts []*jsonNode `json:"stmts,omitempty"`

	// PropertyDecl / FunctionParameter / Identifier share Name; Type.
	Name       string    `json:"name,omitempty"`
	Mutability string    `json:"mutability,omitempty"`
	Type       *jsonType `json:"type,omitempty"`

	// FunctionDecl
	Params   []*jsonNode    `json:"params,omitempty"`
	Captures []*jsonCapture `json:"captures,omitempty"`
	Body     *jsonNode      `json:"body,omitempty"`

	// Assignment
	Op  string    `json:"op,omitempty"`
	LHS *jsonNode `json:"lhs,omitempty"`
	RHS *jsonNode `json:"rhs,omitempty"`

	// If
	Cond *jsonNode `json:"cond,omitempty"`
	Then *jsonNode `json:"then,omitempty"`
	Else *jsonNode `json:"else,omitempty"`

	// Return
	Value *jsonNode `json:"value,omitempty"`

	// Call / CallArgument
	Callee *jsonNode   `json:"callee,omitempty"`
	Args   []*jsonNode `json:"args,omitempty"`
	Label  string      `json:"label,omitempty"`

	// Literal
	LiteralKind string `json:"literalKind,omitempty"`
	IntValue    int64  `json:"intValue,omitempty"`
	BoolValue   bool   `json:"boolValue,omitempty"`
}

func decodeModule(data []byte) (*ast.Block, error) {
	var root jsonNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding AST: %w", err)
	}
	n, err := decodeNode(&root)
	if err != nil {
		return nil, err
	}
	block, ok := n.(*ast.Block)
	if !ok {
		return nil, fmt.Errorf("top-level AST node must be Block, got %s", root.Kind)
	}
	return block, nil
}

func decodeType(t *jsonType) (types.Type, error) {
	if t == nil {
		return nil, nil
	}
	switch t.Kind {
	case "Int":
		return types.NewInt(), nil
	case "Bool":
		return types.NewBool(), nil
	case "Ref":
		elem, err := decodeType(t.Elem)
		if err != nil {
			return nil, err
		}
		return types.NewRef(elem), nil
	case "Function":
		domain := make([]types.Type, len(t.Domain))
		for i, d := range t.Domain {
			dt, err := decodeType(d)
			if err != nil {
				return nil, err
			}
			domain[i] = dt
		}
		codomain, err := decodeType(t.Codomain)
		if err != nil {
			return nil, err
		}
		return types.NewFunction(domain, t.Labels, codomain), nil
	default:
		return nil, fmt.Errorf("unknown type kind %q", t.Kind)
	}
}

func decodeNode(n *jsonNode) (ast.Node, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Kind {
	case "Block":
		stmts := make([]ast.Node, len(n.Stmts))
		for i, s := range n.Stmts {
			sn, err := decodeNode(s)
			if err != nil {
				return nil, err
			}
			stmts[i] = sn
		}
		return &ast.Block{Stmts: stmts}, nil

	case "PropertyDecl":
		typ, err := decodeType(n.Type)
		if err != nil {
			return nil, err
		}
		return &ast.PropertyDecl{Name: n.Name, Mutable: n.Mutability == "mut", Typ: typ}, nil

	case "FunctionParameter":
		typ, err := decodeType(n.Type)
		if err != nil {
			return nil, err
		}
		return &ast.ParamDecl{Name: n.Name, Typ: typ}, nil

	case "FunctionDecl":
		params := make([]*ast.ParamDecl, len(n.Params))
		domain := make([]types.Type, len(n.Params))
		labels := make([]string, len(n.Params))
		for i, p := range n.Params {
			pn, err := decodeNode(p)
			if err != nil {
				return nil, err
			}
			pd := pn.(*ast.ParamDecl)
			params[i] = pd
			domain[i] = pd.Typ
			labels[i] = pd.Name
		}
		captures := make([]*ast.Capture, len(n.Captures))
		for i, c := range n.Captures {
			ct, err := decodeType(c.Type)
			if err != nil {
				return nil, err
			}
			captures[i] = &ast.Capture{Name: c.Name, Typ: ct, Escaping: c.Escaping}
		}
		codomain, err := decodeType(n.Type)
		if err != nil {
			return nil, err
		}
		bodyNode, err := decodeNode(n.Body)
		if err != nil {
			return nil, err
		}
		body, _ := bodyNode.(*ast.Block)
		return &ast.FunctionDecl{
			Name:     n.Name,
			Params:   params,
			Captures: captures,
			Body:     body,
			Typ:      types.NewFunction(domain, labels, codomain),
		}, nil

	case "Assignment":
		lhs, err := decodeNode(n.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeNode(n.RHS)
		if err != nil {
			return nil, err
		}
		var op ast.AssignOp
		switch n.Op {
		case "=":
			op = ast.OpCopy
		case "&-":
			op = ast.OpRef
		case "<-":
			op = ast.OpMove
		default:
			return nil, fmt.Errorf("unknown assignment operator %q", n.Op)
		}
		return &ast.Assignment{Op: op, LHS: lhs, RHS: rhs}, nil

	case "If":
		cond, err := decodeNode(n.Cond)
		if err != nil {
			return nil, err
		}
		thenNode, err := decodeNode(n.Then)
		if err != nil {
			return nil, err
		}
		elseNode, err := decodeNode(n.Else)
		if err != nil {
			return nil, err
		}
		then, _ := thenNode.(*ast.Block)
		els, _ := elseNode.(*ast.Block)
		return &ast.If{Cond: cond, Then: then, Else: els}, nil

	case "Return":
		v, err := decodeNode(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.Return{Value: v}, nil

	case "Call":
		callee, err := decodeNode(n.Callee)
		if err != nil {
			return nil, err
		}
		typ, err := decodeType(n.Type)
		if err != nil {
			return nil, err
		}
		args := make([]*ast.CallArg, len(n.Args))
		for i, a := range n.Args {
			an, err := decodeNode(a)
			if err != nil {
				return nil, err
			}
			args[i] = an.(*ast.CallArg)
		}
		return &ast.Call{Callee: callee, Args: args, Typ: typ}, nil

	case "CallArgument":
		v, err := decodeNode(n.Value)
		if err != nil {
			return nil, err
		}
		return &ast.CallArg{Label: n.Label, Value: v}, nil

	case "Identifier":
		typ, err := decodeType(n.Type)
		if err != nil {
			return nil, err
		}
		return &ast.Identifier{Name: n.Name, Typ: typ}, nil

	case "Literal":
		typ, err := decodeType(n.Type)
		if err != nil {
			return nil, err
		}
		switch n.LiteralKind {
		case "Int":
			return &ast.IntegerLiteral{Value: n.IntValue, Typ: typ}, nil
		case "Bool":
			return &ast.BooleanLiteral{Value: n.BoolValue, Typ: typ}, nil
		default:
			return nil, fmt.Errorf("unknown literal kind %q", n.LiteralKind)
		}

	default:
		return nil, fmt.Errorf("unknown node kind %q", n.Kind)
	}
}
