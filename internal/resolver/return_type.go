package resolver

import (
	"typelens/internal/model"
	"typelens/internal/typeref"
)

// ResolveParameterizedReturnType determines the concrete type that the
// method's declared generic return type resolves to at a call site, given
// the actual arguments.
//
// A concrete declared return type short-circuits before any binding, so
// arguments are irrelevant to it. Otherwise the arguments are bound
// (arity must match exactly), and the return reference is substituted.
// A method-scoped return variable that no argument could bind degrades to
// the variable's declared upper bound rather than failing: callers prefer
// a best-effort concrete class over no information.
func ResolveParameterizedReturnType(reg *model.Registry, method *model.MethodDecl, args []model.Value) (typeref.Concrete, bool) {
	if method == nil || method.Return == nil {
		return typeref.Concrete{}, false
	}

	if ret, ok := method.Return.(typeref.Concrete); ok {
		return ret, true
	}

	subst, ok := bindArguments(method, args)
	if !ok {
		return typeref.Concrete{}, false
	}

	switch ret := method.Return.(type) {
	case typeref.Variable:
		if ret.Owner.Kind == typeref.OwnerClass {
			// The variable is scoped to the enclosing class, not the method:
			// its binding lives in the hierarchy, not the call site.
			return ResolveTypeArgument(reg, reg.Lookup(method.ClassName), ret.Owner.Name)
		}
		if bound, found := subst.Lookup(ret); found {
			return typeref.Erasure(bound)
		}
		return upperBoundErasure(ret), true

	case typeref.Parameterized:
		// Nested argument structure is discarded deliberately.
		return ret.Base, true

	case typeref.GenericArray:
		return typeref.Erasure(subst.Apply(ret))

	default:
		return typeref.Concrete{}, false
	}
}

// ResolveReturnTypeArgument resolves a method's declared return type
// against an ancestor generic declaration using the hierarchy walker. A
// raw use of a generic type, or an unrelated return type, is absent.
func ResolveReturnTypeArgument(reg *model.Registry, method *model.MethodDecl, ancestor string) (typeref.Concrete, bool) {
	if reg == nil || method == nil || method.Return == nil {
		return typeref.Concrete{}, false
	}

	switch ret := method.Return.(type) {
	case typeref.Parameterized:
		if matchesName(ret.Base.Name, ancestor) {
			if len(ret.Args) != 1 {
				return typeref.Concrete{}, false
			}
			return seedResult(ret.Args[0])
		}
		decl := reg.Lookup(ret.Base.Name)
		if decl == nil {
			return typeref.Concrete{}, false
		}
		if target := reg.Lookup(ancestor); target != nil && len(target.TypeParams) != 1 {
			return typeref.Concrete{}, false
		}
		seed := edgeSubstitution(decl, ret, typeref.Substitution{})
		return walkHierarchy(reg, decl, ancestor, seed, make(map[string]bool))

	case typeref.Concrete:
		decl := reg.Lookup(ret.Name)
		if decl == nil {
			return typeref.Concrete{}, false
		}
		return ResolveTypeArgument(reg, decl, ancestor)

	default:
		return typeref.Concrete{}, false
	}
}

func upperBoundErasure(v typeref.Variable) typeref.Concrete {
	if erased, ok := typeref.Erasure(v.UpperBound()); ok {
		return erased
	}
	return typeref.ObjectRef
}
