package extractor

import (
	"testing"

	"typelens/internal/model"
	"typelens/internal/typeref"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleSource = `
package com.acme.shapes;

interface Shape<T> {
}

class Circle implements Shape<Double> {
    public Double area() { return null; }
}

class Labeled extends AbstractLabel<String> implements Shape<Collection<String>>, Printable {
}

class Factory {
    public static <MOCK> MOCK createMock(Class<MOCK> toMock) { return null; }

    public static <T> T createNamedProxy(String name, T object) { return null; }

    public static <K, V> V pick(Map<K, V> source, K key) { return null; }

    public String plain(int count, Object... rest) { return null; }
}

class Bounded<T extends Number> {
    public T[] toArray(Shape<? extends T> input) { return null; }
}
`

func extractAll(t *testing.T) map[string]*declIndex {
	t.Helper()

	ext, err := NewExtractor("java")
	require.NoError(t, err)

	decls, err := ext.ExtractFromSource([]byte(sampleSource), "Sample.java")
	require.NoError(t, err)
	require.NotEmpty(t, decls)

	out := make(map[string]*declIndex)
	for _, d := range decls {
		out[d.Name] = &declIndex{decl: d}
	}
	return out
}

func TestNewExtractor_UnsupportedLanguage(t *testing.T) {
	_, err := NewExtractor("cobol")
	assert.Error(t, err)
}

func TestJavaExtractor_Declarations(t *testing.T) {
	decls := extractAll(t)

	t.Run("Package detection", func(t *testing.T) {
		assert.Equal(t, "com.acme.shapes", decls["Shape"].decl.Package)
	})

	t.Run("Interface with type parameter", func(t *testing.T) {
		shape := decls["Shape"].decl
		assert.Equal(t, "interface", string(shape.Kind))
		require.Len(t, shape.TypeParams, 1)
		assert.Equal(t, "T", shape.TypeParams[0].Name)
	})

	t.Run("Direct interface specialization", func(t *testing.T) {
		circle := decls["Circle"].decl
		require.Len(t, circle.Interfaces, 1)
		want := typeref.Parameterized{
			Base: typeref.Concrete{Name: "Shape"},
			Args: []typeref.Ref{typeref.Concrete{Name: "Double"}},
		}
		assert.True(t, circle.Interfaces[0].Equal(want))
	})

	t.Run("Superclass plus interface list", func(t *testing.T) {
		labeled := decls["Labeled"].decl
		require.NotNil(t, labeled.Superclass)
		wantSuper := typeref.Parameterized{
			Base: typeref.Concrete{Name: "AbstractLabel"},
			Args: []typeref.Ref{typeref.Concrete{Name: "String"}},
		}
		assert.True(t, labeled.Superclass.Equal(wantSuper))

		require.Len(t, labeled.Interfaces, 2)
		wantNested := typeref.Parameterized{
			Base: typeref.Concrete{Name: "Shape"},
			Args: []typeref.Ref{typeref.Parameterized{
				Base: typeref.Concrete{Name: "Collection"},
				Args: []typeref.Ref{typeref.Concrete{Name: "String"}},
			}},
		}
		assert.True(t, labeled.Interfaces[0].Equal(wantNested))
		assert.True(t, labeled.Interfaces[1].Equal(typeref.Concrete{Name: "Printable"}))
	})
}

func TestJavaExtractor_Methods(t *testing.T) {
	decls := extractAll(t)
	factory := decls["Factory"].decl
	require.Len(t, factory.Methods, 4)

	byName := map[string]int{}
	for i, m := range factory.Methods {
		byName[m.Name] = i
	}

	t.Run("Type token parameter", func(t *testing.T) {
		m := factory.Methods[byName["createMock"]]
		mockVar := typeref.Variable{
			Name:  "MOCK",
			Owner: typeref.Owner{Kind: typeref.OwnerMethod, Name: "Factory#createMock"},
		}
		require.Len(t, m.Params, 1)
		wantParam := typeref.Parameterized{
			Base: typeref.Concrete{Name: "Class"},
			Args: []typeref.Ref{mockVar},
		}
		assert.True(t, m.Params[0].Equal(wantParam))
		assert.True(t, m.Return.Equal(mockVar))
	})

	t.Run("Variable parameters resolve to the method scope", func(t *testing.T) {
		m := factory.Methods[byName["createNamedProxy"]]
		tVar := typeref.Variable{
			Name:  "T",
			Owner: typeref.Owner{Kind: typeref.OwnerMethod, Name: "Factory#createNamedProxy"},
		}
		require.Len(t, m.Params, 2)
		assert.True(t, m.Params[0].Equal(typeref.Concrete{Name: "String"}))
		assert.True(t, m.Params[1].Equal(tVar))
		assert.True(t, m.Return.Equal(tVar))
	})

	t.Run("Two independent method variables", func(t *testing.T) {
		m := factory.Methods[byName["pick"]]
		owner := typeref.Owner{Kind: typeref.OwnerMethod, Name: "Factory#pick"}
		require.Len(t, m.TypeParams, 2)
		require.Len(t, m.Params, 2)
		wantMap := typeref.Parameterized{
			Base: typeref.Concrete{Name: "Map"},
			Args: []typeref.Ref{
				typeref.Variable{Name: "K", Owner: owner},
				typeref.Variable{Name: "V", Owner: owner},
			},
		}
		assert.True(t, m.Params[0].Equal(wantMap))
		assert.True(t, m.Return.Equal(typeref.Variable{Name: "V", Owner: owner}))
	})

	t.Run("Primitive and variadic parameters stay concrete", func(t *testing.T) {
		m := factory.Methods[byName["plain"]]
		require.Len(t, m.Params, 2)
		assert.True(t, m.Params[0].Equal(typeref.Concrete{Name: "int"}))
		assert.True(t, m.Params[1].Equal(typeref.Concrete{Name: "Object"}))
		assert.True(t, m.Return.Equal(typeref.Concrete{Name: "String"}))
	})
}

func TestJavaExtractor_BoundsArraysWildcards(t *testing.T) {
	decls := extractAll(t)
	bounded := decls["Bounded"].decl

	require.Len(t, bounded.TypeParams, 1)
	require.NotNil(t, bounded.TypeParams[0].Bound)
	assert.True(t, bounded.TypeParams[0].Bound.Equal(typeref.Concrete{Name: "Number"}))

	require.Len(t, bounded.Methods, 1)
	m := bounded.Methods[0]
	tVar := typeref.Variable{
		Name:  "T",
		Owner: typeref.Owner{Kind: typeref.OwnerClass, Name: "Bounded"},
		Bound: typeref.Concrete{Name: "Number"},
	}

	t.Run("Generic array return", func(t *testing.T) {
		arr, ok := m.Return.(typeref.GenericArray)
		require.True(t, ok)
		assert.True(t, arr.Elem.Equal(tVar))
	})

	t.Run("Bounded wildcard argument", func(t *testing.T) {
		require.Len(t, m.Params, 1)
		p, ok := m.Params[0].(typeref.Parameterized)
		require.True(t, ok)
		require.Len(t, p.Args, 1)
		w, ok := p.Args[0].(typeref.Wildcard)
		require.True(t, ok)
		require.NotNil(t, w.Upper)
		assert.True(t, w.Upper.Equal(tVar))
	})
}

type declIndex struct {
	decl *model.ClassDecl
}
