package resolver

import (
	"typelens/internal/model"
	"typelens/internal/typeref"
)

// ResolveTypeArgument determines the concrete type bound to the single
// type parameter of the generic ancestor declaration for the given class,
// following however many intermediate specializations separate the two.
//
// Ancestor lookup failure, an unbound variable anywhere along the chain,
// and an ancestor with more than one type parameter all report the same
// absent result; callers cannot distinguish them.
func ResolveTypeArgument(reg *model.Registry, class *model.ClassDecl, ancestor string) (typeref.Concrete, bool) {
	if reg == nil || class == nil || ancestor == "" {
		return typeref.Concrete{}, false
	}
	if decl := reg.Lookup(ancestor); decl != nil && len(decl.TypeParams) != 1 {
		// Only single-parameter ancestors are supported.
		return typeref.Concrete{}, false
	}
	return walkHierarchy(reg, class, ancestor, typeref.Substitution{}, make(map[string]bool))
}

// walkHierarchy is a depth-first traversal over specialization edges,
// superclass before interfaces, first match wins. subst carries the
// accumulated bindings for the current class's own type variables, already
// grounded in the original query type's terms.
func walkHierarchy(reg *model.Registry, class *model.ClassDecl, ancestor string, subst typeref.Substitution, seen map[string]bool) (typeref.Concrete, bool) {
	key := class.QualifiedName()
	if seen[key] {
		return typeref.Concrete{}, false
	}
	seen[key] = true

	for _, edge := range class.Supertypes() {
		base, ok := typeref.Erasure(edge)
		if !ok {
			continue
		}

		if matchesName(base.Name, ancestor) {
			// Only a parameterized edge carries the seed; a raw use of the
			// ancestor has nothing to resolve.
			p, isParam := edge.(typeref.Parameterized)
			if !isParam || len(p.Args) != 1 {
				continue
			}
			seed := subst.Apply(p.Args[0])
			return seedResult(seed)
		}

		super := reg.Lookup(base.Name)
		if super == nil {
			continue
		}
		next := edgeSubstitution(super, edge, subst)
		if result, found := walkHierarchy(reg, super, ancestor, next, seen); found {
			return result, true
		}
	}

	return typeref.Concrete{}, false
}

// seedResult turns a fully substituted seed into the reported type.
// Variables that never reached a concrete binding, and opaque shapes,
// are unresolvable.
func seedResult(seed typeref.Ref) (typeref.Concrete, bool) {
	switch seed.(type) {
	case typeref.Variable, typeref.Wildcard:
		return typeref.Concrete{}, false
	default:
		return typeref.Erasure(seed)
	}
}

// edgeSubstitution maps the supertype's declared parameters, positionally,
// to the subtype's specialization arguments. Arguments are substituted
// eagerly so variable-to-variable links collapse at each step. A raw edge
// contributes no bindings and leaves the supertype's variables unresolved.
func edgeSubstitution(super *model.ClassDecl, edge typeref.Ref, subst typeref.Substitution) typeref.Substitution {
	next := typeref.Substitution{}
	p, ok := edge.(typeref.Parameterized)
	if !ok || len(p.Args) != len(super.TypeParams) {
		return next
	}
	for i, tp := range super.TypeParams {
		v, _ := super.Var(tp.Name)
		next.Bind(v, subst.Apply(p.Args[i]))
	}
	return next
}

// matchesName accepts both simple and package-qualified spellings of the
// ancestor name against the edge's erased base.
func matchesName(baseName, ancestor string) bool {
	if baseName == ancestor {
		return true
	}
	if idx := lastDot(baseName); idx >= 0 && baseName[idx+1:] == ancestor {
		return true
	}
	if idx := lastDot(ancestor); idx >= 0 && ancestor[idx+1:] == baseName {
		return true
	}
	return false
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
