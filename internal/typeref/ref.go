package typeref

import (
	"fmt"
	"strings"
)

// Kind discriminates the Ref variants.
type Kind string

const (
	KindConcrete      Kind = "concrete"
	KindParameterized Kind = "parameterized"
	KindVariable      Kind = "variable"
	KindGenericArray  Kind = "generic_array"
	KindWildcard      Kind = "wildcard"
)

// OwnerKind says what construct declared a type variable.
type OwnerKind string

const (
	OwnerClass  OwnerKind = "class"
	OwnerMethod OwnerKind = "method"
)

// Owner identifies the generic construct that declared a variable.
// For methods the Name is "Class#method" so the same variable name on
// two different constructs is always a different key.
type Owner struct {
	Kind OwnerKind `json:"kind"`
	Name string    `json:"name"`
}

// Ref is the interface for all declared-type references.
// Refs are immutable; operations build new values.
type Ref interface {
	RefKind() Kind
	String() string
	Equal(other Ref) bool
}

// Concrete is a non-generic, fully erased type (a class token).
type Concrete struct {
	Name string
}

func (c Concrete) RefKind() Kind  { return KindConcrete }
func (c Concrete) String() string { return c.Name }

func (c Concrete) Equal(other Ref) bool {
	o, ok := other.(Concrete)
	return ok && o.Name == c.Name
}

// ObjectRef is the universal upper bound.
var ObjectRef = Concrete{Name: "java.lang.Object"}

// Parameterized is a generic type applied to arguments, e.g. Collection<String>.
type Parameterized struct {
	Base Concrete
	Args []Ref
}

func (p Parameterized) RefKind() Kind { return KindParameterized }

func (p Parameterized) String() string {
	args := make([]string, len(p.Args))
	for i, a := range p.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", p.Base.Name, strings.Join(args, ", "))
}

func (p Parameterized) Equal(other Ref) bool {
	o, ok := other.(Parameterized)
	if !ok || !o.Base.Equal(p.Base) || len(o.Args) != len(p.Args) {
		return false
	}
	for i := range p.Args {
		if !p.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	return true
}

// Variable is an unbound formal type parameter.
// Bound is the declared upper bound; nil means java.lang.Object.
type Variable struct {
	Name  string
	Owner Owner
	Bound Ref
}

func (v Variable) RefKind() Kind  { return KindVariable }
func (v Variable) String() string { return v.Name }

func (v Variable) Equal(other Ref) bool {
	o, ok := other.(Variable)
	return ok && o.Name == v.Name && o.Owner == v.Owner
}

// UpperBound returns the declared bound, defaulting to java.lang.Object.
func (v Variable) UpperBound() Ref {
	if v.Bound == nil {
		return ObjectRef
	}
	return v.Bound
}

// GenericArray is an array whose element type is itself generic.
// Arrays of concrete element types are modeled as Concrete("Elem[]").
type GenericArray struct {
	Elem Ref
}

func (a GenericArray) RefKind() Kind  { return KindGenericArray }
func (a GenericArray) String() string { return a.Elem.String() + "[]" }

func (a GenericArray) Equal(other Ref) bool {
	o, ok := other.(GenericArray)
	return ok && o.Elem.Equal(a.Elem)
}

// Wildcard is an opaque bounded reference. It is representable but never
// resolved further.
type Wildcard struct {
	Upper Ref
	Lower Ref
}

func (w Wildcard) RefKind() Kind { return KindWildcard }

func (w Wildcard) String() string {
	switch {
	case w.Upper != nil:
		return "? extends " + w.Upper.String()
	case w.Lower != nil:
		return "? super " + w.Lower.String()
	default:
		return "?"
	}
}

func (w Wildcard) Equal(other Ref) bool {
	o, ok := other.(Wildcard)
	if !ok {
		return false
	}
	return refEqualOrNil(w.Upper, o.Upper) && refEqualOrNil(w.Lower, o.Lower)
}

func refEqualOrNil(a, b Ref) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// Erasure discards parameterization and reports the concrete base type.
// Variables and wildcards have no erasure here.
func Erasure(r Ref) (Concrete, bool) {
	switch t := r.(type) {
	case Concrete:
		return t, true
	case Parameterized:
		return t.Base, true
	case GenericArray:
		elem, ok := Erasure(t.Elem)
		if !ok {
			return Concrete{}, false
		}
		return Concrete{Name: elem.Name + "[]"}, true
	default:
		return Concrete{}, false
	}
}
