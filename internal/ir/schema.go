package ir

import (
	"encoding/json"
	"fmt"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"typelens/internal/model"
	"typelens/internal/typeref"
)

const snapshotVersion = "v1"

// Evidence describes where a declaration originated in source code.
type Evidence struct {
	Filepath  string `json:"filepath"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
}

// TypeParamIR is a formal type parameter in wire form.
type TypeParamIR struct {
	Name  string       `json:"name"`
	Bound *typeref.Box `json:"bound,omitempty"`
}

// MethodIR is a method declaration in wire form.
type MethodIR struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	ClassName  string        `json:"class_name"`
	TypeParams []TypeParamIR `json:"type_params,omitempty"`
	Params     []typeref.Box `json:"params,omitempty"`
	Return     *typeref.Box  `json:"return,omitempty"`
	StartLine  int           `json:"start_line,omitempty"`
	EndLine    int           `json:"end_line,omitempty"`
}

// ClassIR is a class or interface declaration in wire form.
type ClassIR struct {
	ID         string        `json:"id"`
	Package    string        `json:"package,omitempty"`
	Name       string        `json:"name"`
	Kind       string        `json:"kind"`
	TypeParams []TypeParamIR `json:"type_params,omitempty"`
	Superclass *typeref.Box  `json:"superclass,omitempty"`
	Interfaces []typeref.Box `json:"interfaces,omitempty"`
	Methods    []MethodIR    `json:"methods,omitempty"`
	Evidence   Evidence      `json:"evidence"`
}

// Snapshot is the persisted registry view.
type Snapshot struct {
	Version string    `json:"version"`
	Classes []ClassIR `json:"classes"`
}

// FromRegistry converts a registry into its wire form.
func FromRegistry(reg *model.Registry) *Snapshot {
	snap := &Snapshot{Version: snapshotVersion}
	if reg == nil {
		return snap
	}

	for _, decl := range reg.Classes {
		snap.Classes = append(snap.Classes, fromClass(decl))
	}
	return snap
}

func fromClass(decl *model.ClassDecl) ClassIR {
	out := ClassIR{
		ID:         model.BuildStableSymbolID(decl),
		Package:    decl.Package,
		Name:       decl.Name,
		Kind:       string(decl.Kind),
		TypeParams: fromTypeParams(decl.TypeParams),
		Evidence: Evidence{
			Filepath:  decl.Filepath,
			StartLine: decl.StartLine,
			EndLine:   decl.EndLine,
		},
	}
	if decl.Superclass != nil {
		out.Superclass = &typeref.Box{Ref: decl.Superclass}
	}
	for _, ifc := range decl.Interfaces {
		out.Interfaces = append(out.Interfaces, typeref.Box{Ref: ifc})
	}
	for _, m := range decl.Methods {
		out.Methods = append(out.Methods, fromMethod(m))
	}
	return out
}

func fromMethod(m *model.MethodDecl) MethodIR {
	out := MethodIR{
		ID:         model.BuildStableMethodID(m),
		Name:       m.Name,
		ClassName:  m.ClassName,
		TypeParams: fromTypeParams(m.TypeParams),
		StartLine:  m.StartLine,
		EndLine:    m.EndLine,
	}
	for _, p := range m.Params {
		out.Params = append(out.Params, typeref.Box{Ref: p})
	}
	if m.Return != nil {
		out.Return = &typeref.Box{Ref: m.Return}
	}
	return out
}

func fromTypeParams(params []model.TypeParam) []TypeParamIR {
	var out []TypeParamIR
	for _, tp := range params {
		ir := TypeParamIR{Name: tp.Name}
		if tp.Bound != nil {
			ir.Bound = &typeref.Box{Ref: tp.Bound}
		}
		out = append(out, ir)
	}
	return out
}

// ToRegistry rebuilds a registry from its wire form.
func ToRegistry(snap *Snapshot) *model.Registry {
	reg := model.NewRegistry()
	if snap == nil {
		return reg
	}

	for _, c := range snap.Classes {
		decl := &model.ClassDecl{
			Name:       c.Name,
			Package:    c.Package,
			Kind:       model.DeclKind(c.Kind),
			TypeParams: toTypeParams(c.TypeParams),
			Filepath:   c.Evidence.Filepath,
			StartLine:  c.Evidence.StartLine,
			EndLine:    c.Evidence.EndLine,
		}
		if c.Superclass != nil {
			decl.Superclass = c.Superclass.Ref
		}
		for _, ifc := range c.Interfaces {
			decl.Interfaces = append(decl.Interfaces, ifc.Ref)
		}
		for _, m := range c.Methods {
			method := &model.MethodDecl{
				Name:       m.Name,
				ClassName:  m.ClassName,
				TypeParams: toTypeParams(m.TypeParams),
				StartLine:  m.StartLine,
				EndLine:    m.EndLine,
			}
			for _, p := range m.Params {
				method.Params = append(method.Params, p.Ref)
			}
			if m.Return != nil {
				method.Return = m.Return.Ref
			}
			decl.Methods = append(decl.Methods, method)
		}
		reg.AddClass(decl)
	}
	return reg
}

func toTypeParams(params []TypeParamIR) []model.TypeParam {
	var out []model.TypeParam
	for _, tp := range params {
		p := model.TypeParam{Name: tp.Name}
		if tp.Bound != nil {
			p.Bound = tp.Bound.Ref
		}
		out = append(out, p)
	}
	return out
}

const snapshotSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["version", "classes"],
  "properties": {
    "version": {"type": "string"},
    "classes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "name", "kind", "evidence"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "package": {"type": "string"},
          "name": {"type": "string", "minLength": 1},
          "kind": {"enum": ["class", "interface"]},
          "type_params": {"type": "array", "items": {"$ref": "#/$defs/typeParam"}},
          "superclass": {"$ref": "#/$defs/ref"},
          "interfaces": {"type": "array", "items": {"$ref": "#/$defs/ref"}},
          "methods": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["id", "name", "class_name"],
              "properties": {
                "id": {"type": "string", "minLength": 1},
                "name": {"type": "string", "minLength": 1},
                "class_name": {"type": "string", "minLength": 1},
                "type_params": {"type": "array", "items": {"$ref": "#/$defs/typeParam"}},
                "params": {"type": "array", "items": {"$ref": "#/$defs/ref"}},
                "return": {"$ref": "#/$defs/ref"}
              }
            }
          },
          "evidence": {
            "type": "object",
            "required": ["filepath"],
            "properties": {
              "filepath": {"type": "string"},
              "start_line": {"type": "integer"},
              "end_line": {"type": "integer"}
            }
          }
        }
      }
    }
  },
  "$defs": {
    "typeParam": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "bound": {"$ref": "#/$defs/ref"}
      }
    },
    "ref": {
      "type": "object",
      "required": ["kind"],
      "properties": {
        "kind": {"enum": ["concrete", "parameterized", "variable", "generic_array", "wildcard"]}
      }
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// ValidateSnapshot checks a raw snapshot document against the schema.
func ValidateSnapshot(data []byte) error {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("snapshot.schema.json", snapshotSchema)
	})
	if schemaErr != nil {
		return fmt.Errorf("failed to compile snapshot schema: %w", schemaErr)
	}

	var doc interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("snapshot is not valid JSON: %w", err)
	}

	if err := compiledSchema.Validate(doc); err != nil {
		return fmt.Errorf("snapshot does not match schema: %w", err)
	}
	return nil
}
