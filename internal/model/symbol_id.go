package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// BuildStableSymbolID creates a deterministic ID for a declaration.
// The ID is derived from identity fields and a canonical signature hash,
// so it survives moves within a file.
func BuildStableSymbolID(decl *ClassDecl) string {
	if decl == nil {
		return ""
	}

	pkg := decl.Package
	if pkg == "" {
		pkg = "_"
	}

	fingerprint := strings.Join([]string{
		"java",
		pkg,
		string(decl.Kind),
		decl.Name,
		classSignature(decl),
	}, "|")

	sum := sha256.Sum256([]byte(fingerprint))
	short := hex.EncodeToString(sum[:8])
	return fmt.Sprintf("java/%s:%s:%s:%s", pkg, decl.Kind, decl.Name, short)
}

// BuildStableMethodID creates a deterministic ID for a method declaration.
func BuildStableMethodID(m *MethodDecl) string {
	if m == nil {
		return ""
	}

	fingerprint := strings.Join([]string{
		"java",
		m.ClassName,
		"method",
		m.Name,
		methodSignature(m),
	}, "|")

	sum := sha256.Sum256([]byte(fingerprint))
	short := hex.EncodeToString(sum[:8])
	return fmt.Sprintf("java/%s:method:%s:%s", m.ClassName, m.Name, short)
}

func classSignature(decl *ClassDecl) string {
	var parts []string
	for _, tp := range decl.TypeParams {
		if tp.Bound != nil {
			parts = append(parts, tp.Name+" extends "+tp.Bound.String())
		} else {
			parts = append(parts, tp.Name)
		}
	}
	for _, super := range decl.Supertypes() {
		parts = append(parts, super.String())
	}
	return strings.Join(parts, ",")
}

func methodSignature(m *MethodDecl) string {
	var parts []string
	for _, p := range m.Params {
		parts = append(parts, p.String())
	}
	ret := ""
	if m.Return != nil {
		ret = m.Return.String()
	}
	return ret + "(" + strings.Join(parts, ",") + ")"
}
