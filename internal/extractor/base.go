package extractor

import (
	sitter "github.com/smacker/go-tree-sitter"

	"typelens/internal/model"
)

// LanguageExtractor defines the interface that each language frontend must
// implement to lower source declarations into the registry model.
type LanguageExtractor interface {
	GetLanguage() *sitter.Language
	GetQuery() string
	ExtractDecl(captureName string, node *sitter.Node, sourceCode []byte, filepath string, packageName string) *model.ClassDecl
	DetectPackage(root *sitter.Node, sourceCode []byte) string
}
