package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"typelens/internal/model"
	"typelens/internal/typeref"
)

// JavaExtractor implements LanguageExtractor for Java. It lowers class and
// interface declarations, together with their generic signatures, into the
// registry model.
type JavaExtractor struct{}

func (j *JavaExtractor) GetLanguage() *sitter.Language {
	return java.GetLanguage()
}

func (j *JavaExtractor) GetQuery() string {
	return `
		(class_declaration) @class
		(interface_declaration) @interface
	`
}

func (j *JavaExtractor) DetectPackage(root *sitter.Node, sourceCode []byte) string {
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "package_declaration" {
			continue
		}
		if name := child.NamedChild(0); name != nil {
			return name.Content(sourceCode)
		}
	}
	return ""
}

func (j *JavaExtractor) ExtractDecl(captureName string, node *sitter.Node, sourceCode []byte, filepath string, packageName string) *model.ClassDecl {
	var kind model.DeclKind
	switch captureName {
	case "class":
		kind = model.KindClass
	case "interface":
		kind = model.KindInterface
	default:
		return nil
	}

	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(sourceCode)

	decl := &model.ClassDecl{
		Name:      name,
		Package:   packageName,
		Kind:      kind,
		Filepath:  filepath,
		StartLine: int(node.StartPoint().Row + 1),
		EndLine:   int(node.EndPoint().Row + 1),
	}

	owner := typeref.Owner{Kind: typeref.OwnerClass, Name: name}
	classScope := map[string]typeref.Variable{}
	decl.TypeParams = j.extractTypeParams(node.ChildByFieldName("type_parameters"), sourceCode, owner, classScope)

	if superNode := node.ChildByFieldName("superclass"); superNode != nil {
		if t := superNode.NamedChild(0); t != nil {
			decl.Superclass = j.parseType(t, sourceCode, classScope)
		}
	}
	decl.Interfaces = j.extractSupertypeList(node, sourceCode, classScope)

	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			if member.Type() != "method_declaration" {
				continue
			}
			if m := j.extractMethod(member, sourceCode, name, classScope); m != nil {
				decl.Methods = append(decl.Methods, m)
			}
		}
	}

	return decl
}

// extractSupertypeList collects implemented/extended generic supertypes:
// the super_interfaces clause of a class and the extends_interfaces clause
// of an interface.
func (j *JavaExtractor) extractSupertypeList(node *sitter.Node, sourceCode []byte, scope map[string]typeref.Variable) []typeref.Ref {
	var clause *sitter.Node
	if ifc := node.ChildByFieldName("interfaces"); ifc != nil {
		clause = ifc
	} else {
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if child.Type() == "extends_interfaces" || child.Type() == "super_interfaces" {
				clause = child
				break
			}
		}
	}
	if clause == nil {
		return nil
	}

	var refs []typeref.Ref
	var collect func(n *sitter.Node)
	collect = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() == "type_list" {
				collect(child)
				continue
			}
			refs = append(refs, j.parseType(child, sourceCode, scope))
		}
	}
	collect(clause)
	return refs
}

func (j *JavaExtractor) extractMethod(node *sitter.Node, sourceCode []byte, className string, classScope map[string]typeref.Variable) *model.MethodDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := nameNode.Content(sourceCode)

	method := &model.MethodDecl{
		Name:      name,
		ClassName: className,
		StartLine: int(node.StartPoint().Row + 1),
		EndLine:   int(node.EndPoint().Row + 1),
	}

	// Method scope shadows the class scope for same-named parameters.
	scope := make(map[string]typeref.Variable, len(classScope))
	for k, v := range classScope {
		scope[k] = v
	}

	owner := typeref.Owner{Kind: typeref.OwnerMethod, Name: className + "#" + name}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "type_parameters" {
			method.TypeParams = j.extractTypeParams(child, sourceCode, owner, scope)
			break
		}
	}

	if ret := node.ChildByFieldName("type"); ret != nil {
		method.Return = j.parseType(ret, sourceCode, scope)
	}

	if params := node.ChildByFieldName("parameters"); params != nil {
		for i := 0; i < int(params.NamedChildCount()); i++ {
			p := params.NamedChild(i)
			switch p.Type() {
			case "formal_parameter":
				if t := p.ChildByFieldName("type"); t != nil {
					method.Params = append(method.Params, j.parseType(t, sourceCode, scope))
				}
			case "spread_parameter":
				if t := p.NamedChild(0); t != nil {
					method.Params = append(method.Params, j.parseType(t, sourceCode, scope))
				}
			}
		}
	}

	return method
}

// extractTypeParams lowers a type_parameters clause, registering each
// parameter in scope so later type references resolve to variables.
// Bounds are parsed without the scope: only their erasure matters.
func (j *JavaExtractor) extractTypeParams(node *sitter.Node, sourceCode []byte, owner typeref.Owner, scope map[string]typeref.Variable) []model.TypeParam {
	if node == nil {
		return nil
	}

	var params []model.TypeParam
	for i := 0; i < int(node.NamedChildCount()); i++ {
		tp := node.NamedChild(i)
		if tp.Type() != "type_parameter" {
			continue
		}

		var name string
		var bound typeref.Ref
		for k := 0; k < int(tp.NamedChildCount()); k++ {
			child := tp.NamedChild(k)
			switch child.Type() {
			case "type_identifier":
				if name == "" {
					name = child.Content(sourceCode)
				}
			case "type_bound":
				if first := child.NamedChild(0); first != nil {
					bound = j.parseType(first, sourceCode, map[string]typeref.Variable{})
				}
			}
		}
		if name == "" {
			continue
		}

		params = append(params, model.TypeParam{Name: name, Bound: bound})
		scope[name] = typeref.Variable{Name: name, Owner: owner, Bound: bound}
	}
	return params
}

// parseType lowers a source type node into a Ref. Identifiers found in
// scope become variables of their declaring construct; everything else is
// concrete.
func (j *JavaExtractor) parseType(node *sitter.Node, sourceCode []byte, scope map[string]typeref.Variable) typeref.Ref {
	switch node.Type() {
	case "type_identifier":
		name := node.Content(sourceCode)
		if v, ok := scope[name]; ok {
			return v
		}
		return typeref.Concrete{Name: name}

	case "scoped_type_identifier":
		return typeref.Concrete{Name: node.Content(sourceCode)}

	case "generic_type":
		base := ""
		var args []typeref.Ref
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			switch child.Type() {
			case "type_identifier", "scoped_type_identifier":
				base = child.Content(sourceCode)
			case "type_arguments":
				for k := 0; k < int(child.NamedChildCount()); k++ {
					args = append(args, j.parseType(child.NamedChild(k), sourceCode, scope))
				}
			}
		}
		return typeref.Parameterized{Base: typeref.Concrete{Name: base}, Args: args}

	case "array_type":
		var elem typeref.Ref = typeref.Concrete{Name: node.Content(sourceCode)}
		if el := node.ChildByFieldName("element"); el != nil {
			elem = j.parseType(el, sourceCode, scope)
		}
		if c, ok := elem.(typeref.Concrete); ok {
			return typeref.Concrete{Name: c.Name + "[]"}
		}
		return typeref.GenericArray{Elem: elem}

	case "wildcard":
		return j.parseWildcard(node, sourceCode, scope)

	default:
		// Primitive and void types, and anything the grammar surprises
		// us with, degrade to an opaque concrete name.
		return typeref.Concrete{Name: node.Content(sourceCode)}
	}
}

func (j *JavaExtractor) parseWildcard(node *sitter.Node, sourceCode []byte, scope map[string]typeref.Variable) typeref.Ref {
	w := typeref.Wildcard{}
	mode := ""
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "extends":
			mode = "extends"
		case "super":
			mode = "super"
		default:
			if !child.IsNamed() {
				continue
			}
			bound := j.parseType(child, sourceCode, scope)
			if mode == "super" {
				w.Lower = bound
			} else if mode == "extends" {
				w.Upper = bound
			}
		}
	}
	return w
}
