package resolver

import (
	"typelens/internal/model"
	"typelens/internal/typeref"
)

// bindArguments builds a substitution from the method's own type variables
// to concrete types, using the runtime types of the actual arguments as
// the source of truth erasure destroyed.
//
// Two binding rules apply per parameter position:
//   - a parameter that is exactly a method-scoped variable X binds
//     X to the argument's dynamic runtime type;
//   - a parameter of shape Class<X> binds X to the type the argument
//     denotes, verbatim, not to the argument's own runtime type.
//
// Any other parameter shape contributes no binding; deeper structural
// extraction from an argument's declared generic structure is unsupported.
// When the same variable is bound at two positions the later one wins.
func bindArguments(method *model.MethodDecl, args []model.Value) (typeref.Substitution, bool) {
	if method == nil || len(args) != len(method.Params) {
		return nil, false
	}

	owner := method.Owner()
	subst := typeref.Substitution{}

	for i, param := range method.Params {
		switch p := param.(type) {
		case typeref.Variable:
			if p.Owner == owner {
				subst.Bind(p, args[i].Runtime)
			}

		case typeref.Parameterized:
			v, ok := classTokenParam(p, owner)
			if !ok {
				continue
			}
			if args[i].Token != nil {
				subst.Bind(v, *args[i].Token)
			}
		}
	}

	return subst, true
}

// classTokenParam recognizes the Class<X> parameter shape where X is a
// variable of the given method.
func classTokenParam(p typeref.Parameterized, owner typeref.Owner) (typeref.Variable, bool) {
	if p.Base.Name != "Class" && p.Base.Name != "java.lang.Class" {
		return typeref.Variable{}, false
	}
	if len(p.Args) != 1 {
		return typeref.Variable{}, false
	}
	v, ok := p.Args[0].(typeref.Variable)
	if !ok || v.Owner != owner {
		return typeref.Variable{}, false
	}
	return v, true
}
