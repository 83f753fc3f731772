package storage

import (
	"context"
	"path/filepath"
	"testing"

	"typelens/internal/model"
	"typelens/internal/typeref"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "typelens.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRegistry() *model.Registry {
	reg := model.NewRegistry()

	box := &model.ClassDecl{
		Name:       "Box",
		Package:    "com.acme",
		Kind:       model.KindClass,
		TypeParams: []model.TypeParam{{Name: "T"}},
		Filepath:   "src/Box.java",
		StartLine:  3,
		EndLine:    9,
	}
	box.Methods = append(box.Methods, &model.MethodDecl{
		Name:      "get",
		ClassName: "Box",
		Return: typeref.Variable{
			Name:  "T",
			Owner: typeref.Owner{Kind: typeref.OwnerClass, Name: "Box"},
		},
		StartLine: 5,
		EndLine:   7,
	})
	reg.AddClass(box)

	stringBox := &model.ClassDecl{
		Name:    "StringBox",
		Package: "com.acme",
		Kind:    model.KindClass,
		Superclass: typeref.Parameterized{
			Base: typeref.Concrete{Name: "Box"},
			Args: []typeref.Ref{typeref.Concrete{Name: "String"}},
		},
		Filepath: "src/StringBox.java",
	}
	reg.AddClass(stringBox)

	return reg
}

func TestSQLiteStore_SaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRegistry(ctx, sampleRegistry()))

	loaded, err := store.LoadRegistry(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Classes, 2)

	box := loaded.Lookup("com.acme.Box")
	require.NotNil(t, box)
	assert.Equal(t, model.KindClass, box.Kind)
	require.Len(t, box.TypeParams, 1)
	assert.Equal(t, "T", box.TypeParams[0].Name)

	m := loaded.LookupMethod("com.acme.Box#get")
	require.NotNil(t, m)
	ret, ok := m.Return.(typeref.Variable)
	require.True(t, ok)
	assert.Equal(t, "T", ret.Name)
	assert.Equal(t, typeref.OwnerClass, ret.Owner.Kind)

	stringBox := loaded.Lookup("com.acme.StringBox")
	require.NotNil(t, stringBox)
	want := typeref.Parameterized{
		Base: typeref.Concrete{Name: "Box"},
		Args: []typeref.Ref{typeref.Concrete{Name: "String"}},
	}
	require.NotNil(t, stringBox.Superclass)
	assert.True(t, stringBox.Superclass.Equal(want))
}

func TestSQLiteStore_SaveRegistryReplacesPrevious(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRegistry(ctx, sampleRegistry()))

	smaller := model.NewRegistry()
	smaller.AddClass(&model.ClassDecl{
		Name:     "Lone",
		Package:  "com.acme",
		Kind:     model.KindInterface,
		Filepath: "src/Lone.java",
	})
	require.NoError(t, store.SaveRegistry(ctx, smaller))

	loaded, err := store.LoadRegistry(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Classes, 1)
	assert.Nil(t, loaded.Lookup("com.acme.Box"))
	assert.NotNil(t, loaded.Lookup("com.acme.Lone"))
}

func TestSQLiteStore_FindClassesByFile(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveRegistry(ctx, sampleRegistry()))

	decls, err := store.FindClassesByFile(ctx, "src/Box.java")
	require.NoError(t, err)
	require.Len(t, decls, 1)
	assert.Equal(t, "Box", decls[0].Name)

	none, err := store.FindClassesByFile(ctx, "src/Missing.java")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSQLiteStore_SaveClassUpserts(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	decl := &model.ClassDecl{
		Name:     "Widget",
		Package:  "com.acme",
		Kind:     model.KindClass,
		Filepath: "src/Widget.java",
		EndLine:  10,
	}
	require.NoError(t, store.SaveClass(ctx, decl))

	decl.EndLine = 42
	require.NoError(t, store.SaveClass(ctx, decl))

	loaded, err := store.LoadRegistry(ctx)
	require.NoError(t, err)
	got := loaded.Lookup("com.acme.Widget")
	require.NotNil(t, got)
	assert.Equal(t, 42, got.EndLine)
}
