// Package types defines the small algebraic type hierarchy that tells the
// lowering visitor how each source-language value is laid out: Int, Bool,
// Ref(T) and Function(domain, labels, codomain).
//
// Descriptors are value-like and cheap to share. Int and Bool are
// canonicalized singletons returned by their factory functions, since the
// spec treats two Ints as semantically interchangeable; Ref and Function
// are constructed fresh because their identity is never compared, only
// their shape.
package types

import (
	lt "github.com/llir/llvm/ir/types"
)

// Type is the common interface implemented by every descriptor in the
// hierarchy.
type Type interface {
	// IsReference reports whether this is a Ref(T).
	IsReference() bool

	// IsPrimitive reports whether this is Int or Bool.
	IsPrimitive() bool

	// LoweredType returns the machine-type descriptor used by the IR
	// builder to allocate, load and store values of this type.
	LoweredType(ctx *Context) lt.Type

	String() string
}

// Context is the small ambient type registry pre-built at visitor
// construction: a generic pointer, a 64-bit integer, a 1-bit integer, the
// 32-bit integer main's signature needs, and the closure_t = {ptr, ptr}
// pair type used for first-class nested-function values.
type Context struct {
	Ptr     *lt.PointerType
	I64     *lt.IntType
	I32     *lt.IntType
	I1      *lt.IntType
	Closure *lt.StructType
}

// NewContext builds the ambient registry described in spec §4.1.
func NewContext() *Context {
	ptr := lt.NewPointer(lt.I8)
	closure := lt.NewStruct(ptr, ptr)
	closure.TypeName = "closure_t"
	return &Context{
		Ptr:     ptr,
		I64:     lt.I64,
		I32:     lt.I32,
		I1:      lt.I1,
		Closure: closure,
	}
}

var (
	intSingleton  = &Int{}
	boolSingleton = &Bool{}
)

// NewInt returns the canonical Int descriptor.
func NewInt() Type { return intSingleton }

// NewBool returns the canonical Bool descriptor.
func NewBool() Type { return boolSingleton }

// NewRef returns a reference-to-elem descriptor.
func NewRef(elem Type) Type { return &Ref{Elem: elem} }

// NewFunction returns a function-type descriptor. domain and labels run in
// parallel; len(domain) must equal len(labels).
func NewFunction(domain []Type, labels []string, codomain Type) *Function {
	return &Function{Domain: domain, Labels: labels, Codomain: codomain}
}

// Int is the 64-bit signed integer primitive.
type Int struct{}

func (*Int) IsReference() bool { return false }
func (*Int) IsPrimitive() bool { return true }
func (*Int) String() string    { return "Int" }

func (*Int) LoweredType(ctx *Context) lt.Type { return ctx.I64 }

// Bool is the 1-bit boolean primitive.
type Bool struct{}

func (*Bool) IsReference() bool { return false }
func (*Bool) IsPrimitive() bool { return true }
func (*Bool) String() string    { return "Bool" }

func (*Bool) LoweredType(ctx *Context) lt.Type { return ctx.I1 }

// Ref is a reference to a value of type Elem: a pointer at the machine
// level, with load/store-through-pointer semantics at the source level.
type Ref struct {
	Elem Type
}

func (*Ref) IsReference() bool { return true }
func (*Ref) IsPrimitive() bool { return false }
func (r *Ref) String() string  { return "Ref(" + r.Elem.String() + ")" }

func (r *Ref) LoweredType(ctx *Context) lt.Type {
	return lt.NewPointer(r.Elem.LoweredType(ctx))
}

// Function is a function signature: an ordered domain with parallel
// argument labels and a single codomain (return type).
type Function struct {
	Domain   []Type
	Labels   []string
	Codomain Type
}

func (*Function) IsReference() bool { return false }
func (*Function) IsPrimitive() bool { return false }

func (f *Function) String() string {
	s := "Function("
	for i, d := range f.Domain {
		if i > 0 {
			s += ", "
		}
		if i < len(f.Labels) && f.Labels[i] != "" {
			s += f.Labels[i] + ": "
		}
		s += d.String()
	}
	return s + ") -> " + f.Codomain.String()
}

// LoweredType returns the plain (non-lifted) function signature: the
// declared parameters in order, returning the lowered codomain.
func (f *Function) LoweredType(ctx *Context) lt.Type {
	params := make([]lt.Type, len(f.Domain))
	for i, d := range f.Domain {
		params[i] = d.LoweredType(ctx)
	}
	return lt.NewFunc(f.Codomain.LoweredType(ctx), params...)
}

// LiftedType returns the same signature with the free-variable tuple
// prepended as extra leading parameters, one per entry of freeTypes in
// capture-list order, each passed by value. Used for nested functions
// with a non-empty capture list; the non-escaping closure convention
// this module implements passes captures as ordinary parameters rather
// than through an environment-struct pointer (spec §8 scenario 3: a
// capture of a single Int yields the lifted signature
// `(i64, i64) -> i64`, not a pointer-environment parameter).
func (f *Function) LiftedType(ctx *Context, freeTypes []Type) *lt.FuncType {
	params := make([]lt.Type, 0, len(freeTypes)+len(f.Domain))
	for _, t := range freeTypes {
		params = append(params, t.LoweredType(ctx))
	}
	for _, d := range f.Domain {
		params = append(params, d.LoweredType(ctx))
	}
	return lt.NewFunc(f.Codomain.LoweredType(ctx), params...)
}

// Equal reports whether two type descriptors denote the same type. Int and
// Bool compare by canonical identity; Ref and Function compare
// structurally.
func Equal(a, b Type) bool {
	switch x := a.(type) {
	case *Int:
		_, ok := b.(*Int)
		return ok
	case *Bool:
		_, ok := b.(*Bool)
		return ok
	case *Ref:
		y, ok := b.(*Ref)
		return ok && Equal(x.Elem, y.Elem)
	case *Function:
		y, ok := b.(*Function)
		if !ok || len(x.Domain) != len(y.Domain) {
			return false
		}
		for i := range x.Domain {
			if !Equal(x.Domain[i], y.Domain[i]) {
				return false
			}
		}
		return Equal(x.Codomain, y.Codomain)
	default:
		return false
	}
}
