package model

import (
	"testing"

	"typelens/internal/typeref"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Lookup(t *testing.T) {
	r := NewRegistry()
	r.AddClass(&ClassDecl{Name: "Box", Package: "com.acme", Kind: KindClass})
	r.AddClass(&ClassDecl{Name: "Handler", Package: "com.acme", Kind: KindInterface})
	r.AddClass(&ClassDecl{Name: "Handler", Package: "com.other", Kind: KindInterface})

	t.Run("Qualified name", func(t *testing.T) {
		decl := r.Lookup("com.acme.Box")
		require.NotNil(t, decl)
		assert.Equal(t, "Box", decl.Name)
	})

	t.Run("Unique simple name", func(t *testing.T) {
		decl := r.Lookup("Box")
		require.NotNil(t, decl)
		assert.Equal(t, "com.acme", decl.Package)
	})

	t.Run("Ambiguous simple name is not found", func(t *testing.T) {
		assert.Nil(t, r.Lookup("Handler"))
	})
}

func TestRegistry_LookupMethod(t *testing.T) {
	r := NewRegistry()
	box := &ClassDecl{Name: "Box", Kind: KindClass}
	box.Methods = append(box.Methods, &MethodDecl{
		Name:      "get",
		ClassName: "Box",
		Return:    typeref.Concrete{Name: "String"},
	})
	r.AddClass(box)

	m := r.LookupMethod("Box#get")
	require.NotNil(t, m)
	assert.Equal(t, "get", m.Name)

	assert.Nil(t, r.LookupMethod("Box#missing"))
	assert.Nil(t, r.LookupMethod("no-separator"))
}

func TestRegistry_SubtypesOf(t *testing.T) {
	r := NewRegistry()
	r.AddClass(&ClassDecl{Name: "Shape", Kind: KindInterface, TypeParams: []TypeParam{{Name: "T"}}})
	r.AddClass(&ClassDecl{
		Name: "Circle",
		Kind: KindClass,
		Interfaces: []typeref.Ref{
			typeref.Parameterized{Base: typeref.Concrete{Name: "Shape"}, Args: []typeref.Ref{typeref.Concrete{Name: "Double"}}},
		},
	})
	r.AddClass(&ClassDecl{Name: "Unrelated", Kind: KindClass})

	subs := r.SubtypesOf("Shape")
	require.Len(t, subs, 1)
	assert.Equal(t, "Circle", subs[0].Name)
}

func TestRegistry_RemoveByFile(t *testing.T) {
	r := NewRegistry()
	r.AddClass(&ClassDecl{Name: "A", Filepath: "src/A.java"})
	r.AddClass(&ClassDecl{Name: "B", Filepath: "src/B.java"})

	removed := r.RemoveByFile("src/A.java")
	r.RebuildIndex()

	assert.Equal(t, 1, removed)
	assert.Nil(t, r.Lookup("A"))
	assert.NotNil(t, r.Lookup("B"))
}

func TestBuildStableSymbolID_Deterministic(t *testing.T) {
	decl := &ClassDecl{
		Name:    "Box",
		Package: "com.acme",
		Kind:    KindClass,
		TypeParams: []TypeParam{
			{Name: "T", Bound: typeref.Concrete{Name: "Number"}},
		},
	}

	id1 := BuildStableSymbolID(decl)
	id2 := BuildStableSymbolID(decl)
	assert.Equal(t, id1, id2)
	assert.Contains(t, id1, "java/com.acme:class:Box:")

	// A signature change must change the ID.
	decl.TypeParams[0].Bound = typeref.Concrete{Name: "Comparable"}
	assert.NotEqual(t, id1, BuildStableSymbolID(decl))
}
