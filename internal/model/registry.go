package model

import (
	"strings"

	"typelens/internal/typeref"
)

// Registry holds all extracted declarations and resolves names to them.
type Registry struct {
	Classes map[string]*ClassDecl

	// Index for faster lookup: simple name -> []qualified name.
	nameIndex map[string][]string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		Classes:   make(map[string]*ClassDecl),
		nameIndex: make(map[string][]string),
	}
}

// AddClass adds a declaration and indexes it.
func (r *Registry) AddClass(decl *ClassDecl) {
	if decl == nil {
		return
	}
	key := decl.QualifiedName()
	r.Classes[key] = decl
	r.nameIndex[decl.Name] = append(r.nameIndex[decl.Name], key)
}

// RebuildIndex recreates the name index after bulk map modifications.
func (r *Registry) RebuildIndex() {
	r.nameIndex = make(map[string][]string)
	for key, decl := range r.Classes {
		r.nameIndex[decl.Name] = append(r.nameIndex[decl.Name], key)
	}
}

// Lookup finds a declaration by qualified or simple name. A simple name
// matching more than one declaration is treated as not found.
func (r *Registry) Lookup(name string) *ClassDecl {
	if decl, ok := r.Classes[name]; ok {
		return decl
	}
	if keys, ok := r.nameIndex[name]; ok && len(keys) == 1 {
		return r.Classes[keys[0]]
	}
	return nil
}

// LookupMethod finds a method by "Class#method" reference.
func (r *Registry) LookupMethod(ref string) *MethodDecl {
	class, method, ok := strings.Cut(ref, "#")
	if !ok {
		return nil
	}
	decl := r.Lookup(class)
	if decl == nil {
		return nil
	}
	for _, m := range decl.Methods {
		if m.Name == method {
			return m
		}
	}
	return nil
}

// SubtypesOf returns declarations that directly specialize the named type.
func (r *Registry) SubtypesOf(name string) []*ClassDecl {
	var out []*ClassDecl
	for _, decl := range r.Classes {
		for _, super := range decl.Supertypes() {
			base, ok := typeref.Erasure(super)
			if ok && (base.Name == name || strings.HasSuffix(base.Name, "."+name)) {
				out = append(out, decl)
				break
			}
		}
	}
	return out
}

// FindByFile returns declarations extracted from the given source file.
func (r *Registry) FindByFile(filepath string) []*ClassDecl {
	var out []*ClassDecl
	for _, decl := range r.Classes {
		if decl.Filepath == filepath {
			out = append(out, decl)
		}
	}
	return out
}

// RemoveByFile drops all declarations extracted from the given file.
// Callers must RebuildIndex afterwards.
func (r *Registry) RemoveByFile(filepath string) int {
	removed := 0
	for key, decl := range r.Classes {
		if decl.Filepath == filepath {
			delete(r.Classes, key)
			removed++
		}
	}
	return removed
}
