package typeref

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErasure(t *testing.T) {
	collection := Parameterized{
		Base: Concrete{Name: "Collection"},
		Args: []Ref{Concrete{Name: "String"}},
	}

	t.Run("Concrete erases to itself", func(t *testing.T) {
		got, ok := Erasure(Concrete{Name: "String"})
		require.True(t, ok)
		assert.Equal(t, "String", got.Name)
	})

	t.Run("Parameterized drops its arguments", func(t *testing.T) {
		got, ok := Erasure(collection)
		require.True(t, ok)
		assert.Equal(t, "Collection", got.Name)
	})

	t.Run("Generic array erases element-wise", func(t *testing.T) {
		got, ok := Erasure(GenericArray{Elem: collection})
		require.True(t, ok)
		assert.Equal(t, "Collection[]", got.Name)
	})

	t.Run("Variable has no erasure", func(t *testing.T) {
		v := Variable{Name: "T", Owner: Owner{Kind: OwnerClass, Name: "Box"}}
		_, ok := Erasure(v)
		assert.False(t, ok)
	})

	t.Run("Wildcard has no erasure", func(t *testing.T) {
		_, ok := Erasure(Wildcard{Upper: Concrete{Name: "Number"}})
		assert.False(t, ok)
	})
}

func TestVariableIdentity(t *testing.T) {
	// The same name on two different constructs is a different key.
	onBox := Variable{Name: "T", Owner: Owner{Kind: OwnerClass, Name: "Box"}}
	onMethod := Variable{Name: "T", Owner: Owner{Kind: OwnerMethod, Name: "Factory#create"}}

	assert.False(t, onBox.Equal(onMethod))
	assert.NotEqual(t, KeyOf(onBox), KeyOf(onMethod))

	s := Substitution{}
	s.Bind(onBox, Concrete{Name: "String"})
	_, ok := s.Lookup(onMethod)
	assert.False(t, ok)
}

func TestSubstitutionApply(t *testing.T) {
	boxOwner := Owner{Kind: OwnerClass, Name: "Box"}
	midOwner := Owner{Kind: OwnerClass, Name: "Middle"}
	tVar := Variable{Name: "T", Owner: boxOwner}
	xVar := Variable{Name: "X", Owner: midOwner}

	t.Run("Chains are followed eagerly", func(t *testing.T) {
		s := Substitution{}
		s.Bind(tVar, xVar)
		s.Bind(xVar, Concrete{Name: "Integer"})

		got := s.Apply(tVar)
		assert.True(t, got.Equal(Concrete{Name: "Integer"}))
	})

	t.Run("Unbound variables pass through", func(t *testing.T) {
		s := Substitution{}
		got := s.Apply(tVar)
		assert.True(t, got.Equal(tVar))
	})

	t.Run("Repeated variable substitutes at every occurrence", func(t *testing.T) {
		s := Substitution{}
		s.Bind(tVar, Concrete{Name: "String"})

		in := Parameterized{Base: Concrete{Name: "Map"}, Args: []Ref{tVar, tVar}}
		got := s.Apply(in)
		want := Parameterized{
			Base: Concrete{Name: "Map"},
			Args: []Ref{Concrete{Name: "String"}, Concrete{Name: "String"}},
		}
		assert.True(t, got.Equal(want))
	})

	t.Run("Repeated variable through a chain", func(t *testing.T) {
		s := Substitution{}
		s.Bind(tVar, xVar)
		s.Bind(xVar, Concrete{Name: "Integer"})

		in := Parameterized{Base: Concrete{Name: "Map"}, Args: []Ref{tVar, xVar}}
		got := s.Apply(in)
		want := Parameterized{
			Base: Concrete{Name: "Map"},
			Args: []Ref{Concrete{Name: "Integer"}, Concrete{Name: "Integer"}},
		}
		assert.True(t, got.Equal(want))
	})

	t.Run("Cycles terminate", func(t *testing.T) {
		s := Substitution{}
		s.Bind(tVar, xVar)
		s.Bind(xVar, tVar)

		got := s.Apply(tVar)
		_, isVar := got.(Variable)
		assert.True(t, isVar)
	})

	t.Run("Nested positions are substituted", func(t *testing.T) {
		s := Substitution{}
		s.Bind(tVar, Concrete{Name: "String"})

		in := Parameterized{Base: Concrete{Name: "List"}, Args: []Ref{tVar}}
		got := s.Apply(in)
		want := Parameterized{Base: Concrete{Name: "List"}, Args: []Ref{Concrete{Name: "String"}}}
		assert.True(t, got.Equal(want))
	})
}

func TestSubstitutionCompose(t *testing.T) {
	owner := Owner{Kind: OwnerClass, Name: "Box"}
	tVar := Variable{Name: "T", Owner: owner}
	uVar := Variable{Name: "U", Owner: owner}

	s1 := Substitution{}
	s1.Bind(tVar, uVar)
	s2 := Substitution{}
	s2.Bind(uVar, Concrete{Name: "Long"})

	composed := s1.Compose(s2)
	got := composed.Apply(tVar)
	assert.True(t, got.Equal(Concrete{Name: "Long"}))
}

func TestRefJSONRoundTrip(t *testing.T) {
	owner := Owner{Kind: OwnerMethod, Name: "Factory#create"}
	refs := []Ref{
		Concrete{Name: "String"},
		Parameterized{
			Base: Concrete{Name: "Map"},
			Args: []Ref{Concrete{Name: "Integer"}, Wildcard{Upper: Concrete{Name: "Number"}}},
		},
		Variable{Name: "T", Owner: owner, Bound: Concrete{Name: "Runnable"}},
		GenericArray{Elem: Variable{Name: "T", Owner: owner}},
	}

	for _, ref := range refs {
		data, err := MarshalRef(ref)
		require.NoError(t, err)

		back, err := UnmarshalRef(data)
		require.NoError(t, err)
		assert.True(t, ref.Equal(back), "round trip changed %s", ref)
	}
}
