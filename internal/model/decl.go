package model

import "typelens/internal/typeref"

// DeclKind distinguishes class-like declarations.
type DeclKind string

const (
	KindClass     DeclKind = "class"
	KindInterface DeclKind = "interface"
)

// TypeParam is a formal type parameter with its optional upper bound.
type TypeParam struct {
	Name  string
	Bound typeref.Ref // nil means java.lang.Object
}

// ClassDecl is a class or interface declaration together with how it
// specializes its supertypes. It is read-only once built.
type ClassDecl struct {
	Name       string
	Package    string
	Kind       DeclKind
	TypeParams []TypeParam
	Superclass typeref.Ref // nil when the superclass is implicit Object
	Interfaces []typeref.Ref
	Methods    []*MethodDecl

	Filepath  string
	StartLine int
	EndLine   int
}

// Owner is the variable-declaring identity of this class.
func (c *ClassDecl) Owner() typeref.Owner {
	return typeref.Owner{Kind: typeref.OwnerClass, Name: c.Name}
}

// Var builds the Variable declared by this class under the given name.
func (c *ClassDecl) Var(name string) (typeref.Variable, bool) {
	for _, tp := range c.TypeParams {
		if tp.Name == name {
			return typeref.Variable{Name: tp.Name, Owner: c.Owner(), Bound: tp.Bound}, true
		}
	}
	return typeref.Variable{}, false
}

// QualifiedName is the registry key: Package.Name, or Name when the
// declaration has no package.
func (c *ClassDecl) QualifiedName() string {
	if c.Package == "" {
		return c.Name
	}
	return c.Package + "." + c.Name
}

// Supertypes lists specialization edges in walk order: superclass first,
// then interfaces in declared order.
func (c *ClassDecl) Supertypes() []typeref.Ref {
	var out []typeref.Ref
	if c.Superclass != nil {
		out = append(out, c.Superclass)
	}
	out = append(out, c.Interfaces...)
	return out
}

// MethodDecl is a located method declaration. Parameter and return types
// are source-form references; variables belong either to the method or to
// the owning class.
type MethodDecl struct {
	Name       string
	ClassName  string
	TypeParams []TypeParam
	Params     []typeref.Ref
	Return     typeref.Ref

	StartLine int
	EndLine   int
}

// Owner is the variable-declaring identity of this method.
func (m *MethodDecl) Owner() typeref.Owner {
	return typeref.Owner{Kind: typeref.OwnerMethod, Name: m.ClassName + "#" + m.Name}
}

// Var builds the Variable declared by this method under the given name.
func (m *MethodDecl) Var(name string) (typeref.Variable, bool) {
	for _, tp := range m.TypeParams {
		if tp.Name == name {
			return typeref.Variable{Name: tp.Name, Owner: m.Owner(), Bound: tp.Bound}, true
		}
	}
	return typeref.Variable{}, false
}
