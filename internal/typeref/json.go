package typeref

import (
	"encoding/json"
	"fmt"
)

// envelope is the tagged wire form of a Ref.
type envelope struct {
	Kind  Kind              `json:"kind"`
	Name  string            `json:"name,omitempty"`
	Owner *Owner            `json:"owner,omitempty"`
	Bound json.RawMessage   `json:"bound,omitempty"`
	Base  string            `json:"base,omitempty"`
	Args  []json.RawMessage `json:"args,omitempty"`
	Elem  json.RawMessage   `json:"elem,omitempty"`
	Upper json.RawMessage   `json:"upper,omitempty"`
	Lower json.RawMessage   `json:"lower,omitempty"`
}

// MarshalRef encodes a Ref in its tagged JSON form.
func MarshalRef(r Ref) ([]byte, error) {
	if r == nil {
		return []byte("null"), nil
	}

	env := envelope{Kind: r.RefKind()}
	switch t := r.(type) {
	case Concrete:
		env.Name = t.Name
	case Parameterized:
		env.Base = t.Base.Name
		env.Args = make([]json.RawMessage, len(t.Args))
		for i, a := range t.Args {
			raw, err := MarshalRef(a)
			if err != nil {
				return nil, err
			}
			env.Args[i] = raw
		}
	case Variable:
		env.Name = t.Name
		owner := t.Owner
		env.Owner = &owner
		if t.Bound != nil {
			raw, err := MarshalRef(t.Bound)
			if err != nil {
				return nil, err
			}
			env.Bound = raw
		}
	case GenericArray:
		raw, err := MarshalRef(t.Elem)
		if err != nil {
			return nil, err
		}
		env.Elem = raw
	case Wildcard:
		if t.Upper != nil {
			raw, err := MarshalRef(t.Upper)
			if err != nil {
				return nil, err
			}
			env.Upper = raw
		}
		if t.Lower != nil {
			raw, err := MarshalRef(t.Lower)
			if err != nil {
				return nil, err
			}
			env.Lower = raw
		}
	default:
		return nil, fmt.Errorf("unknown ref kind %q", r.RefKind())
	}

	return json.Marshal(env)
}

// UnmarshalRef decodes a tagged JSON form back into a Ref.
func UnmarshalRef(data []byte) (Ref, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to decode type ref: %w", err)
	}

	switch env.Kind {
	case KindConcrete:
		return Concrete{Name: env.Name}, nil

	case KindParameterized:
		args := make([]Ref, len(env.Args))
		for i, raw := range env.Args {
			a, err := UnmarshalRef(raw)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return Parameterized{Base: Concrete{Name: env.Base}, Args: args}, nil

	case KindVariable:
		v := Variable{Name: env.Name}
		if env.Owner != nil {
			v.Owner = *env.Owner
		}
		if len(env.Bound) > 0 {
			b, err := UnmarshalRef(env.Bound)
			if err != nil {
				return nil, err
			}
			v.Bound = b
		}
		return v, nil

	case KindGenericArray:
		elem, err := UnmarshalRef(env.Elem)
		if err != nil {
			return nil, err
		}
		return GenericArray{Elem: elem}, nil

	case KindWildcard:
		var w Wildcard
		if len(env.Upper) > 0 {
			u, err := UnmarshalRef(env.Upper)
			if err != nil {
				return nil, err
			}
			w.Upper = u
		}
		if len(env.Lower) > 0 {
			l, err := UnmarshalRef(env.Lower)
			if err != nil {
				return nil, err
			}
			w.Lower = l
		}
		return w, nil

	default:
		return nil, fmt.Errorf("unknown ref kind %q", env.Kind)
	}
}

// Box wraps a Ref so it can live inside JSON-encoded structs.
type Box struct {
	Ref Ref
}

func (b Box) MarshalJSON() ([]byte, error) {
	return MarshalRef(b.Ref)
}

func (b *Box) UnmarshalJSON(data []byte) error {
	r, err := UnmarshalRef(data)
	if err != nil {
		return err
	}
	b.Ref = r
	return nil
}
