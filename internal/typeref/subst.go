package typeref

// VarKey identifies a variable by declaring construct and name.
type VarKey struct {
	Owner Owner
	Name  string
}

// KeyOf builds the substitution key for a variable.
func KeyOf(v Variable) VarKey {
	return VarKey{Owner: v.Owner, Name: v.Name}
}

// Substitution maps type variables to resolved references. It is
// accumulated while composing bindings discovered at different levels of
// a hierarchy or call.
type Substitution map[VarKey]Ref

// Bind records a binding, replacing any previous one for the same key.
func (s Substitution) Bind(v Variable, r Ref) {
	s[KeyOf(v)] = r
}

// Lookup reports the binding for a variable, if any.
func (s Substitution) Lookup(v Variable) (Ref, bool) {
	r, ok := s[KeyOf(v)]
	return r, ok
}

// Apply substitutes variables in r, eagerly following variable-to-variable
// chains so callers never observe an intermediate binding.
func (s Substitution) Apply(r Ref) Ref {
	return s.apply(r, make(map[VarKey]bool))
}

func (s Substitution) apply(r Ref, visited map[VarKey]bool) Ref {
	if r == nil {
		return nil
	}

	switch t := r.(type) {
	case Variable:
		key := KeyOf(t)
		if visited[key] {
			return t
		}
		replacement, ok := s[key]
		if !ok {
			return t
		}
		// The guard tracks the current chain only; a variable repeated in
		// sibling positions of one type must substitute at every occurrence.
		visited[key] = true
		out := s.apply(replacement, visited)
		delete(visited, key)
		return out

	case Parameterized:
		args := make([]Ref, len(t.Args))
		for i, a := range t.Args {
			args[i] = s.apply(a, visited)
		}
		return Parameterized{Base: t.Base, Args: args}

	case GenericArray:
		return GenericArray{Elem: s.apply(t.Elem, visited)}

	case Wildcard:
		return Wildcard{Upper: s.apply(t.Upper, visited), Lower: s.apply(t.Lower, visited)}

	default:
		return r
	}
}

// Compose layers this substitution over other: bindings in s are applied
// through other first, and other's bindings fill the remaining keys.
func (s Substitution) Compose(other Substitution) Substitution {
	out := make(Substitution, len(s)+len(other))
	for k, v := range other {
		out[k] = v
	}
	for k, v := range s {
		out[k] = other.Apply(v)
	}
	return out
}
