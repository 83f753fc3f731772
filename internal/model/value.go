package model

import "typelens/internal/typeref"

// Value models an actual argument at a call site: the dynamic concrete
// type of the value, plus the type it denotes when the value is itself a
// type token (the Class<X> case).
type Value struct {
	Runtime typeref.Concrete
	Token   *typeref.Concrete
}

// Instance is a plain value whose runtime type is the given concrete type.
func Instance(typeName string) Value {
	return Value{Runtime: typeref.Concrete{Name: typeName}}
}

// TypeToken is a value that denotes the given type. Its own runtime type
// is java.lang.Class, which is deliberately not what it binds to.
func TypeToken(typeName string) Value {
	token := typeref.Concrete{Name: typeName}
	return Value{Runtime: typeref.Concrete{Name: "java.lang.Class"}, Token: &token}
}
