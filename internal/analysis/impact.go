package analysis

import (
	"sort"

	"typelens/internal/git"
	"typelens/internal/model"
)

// ImpactReport summarizes the declarations affected by changes.
type ImpactReport struct {
	DirectlyAffected   []*model.ClassDecl
	IndirectlyAffected []*model.ClassDecl
}

// Analyzer performs impact analysis on the declaration registry.
type Analyzer struct {
	reg *model.Registry
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(reg *model.Registry) *Analyzer {
	return &Analyzer{reg: reg}
}

// AnalyzeImpact identifies which declarations are affected by the given
// changes. Directly affected means the declaration's source lines overlap
// the diff; indirectly affected means a subtype inherits from a directly
// affected declaration, transitively.
func (a *Analyzer) AnalyzeImpact(changes []git.ChangedFile) (*ImpactReport, error) {
	report := &ImpactReport{
		DirectlyAffected:   []*model.ClassDecl{},
		IndirectlyAffected: []*model.ClassDecl{},
	}

	seenDirect := make(map[string]bool)
	seenIndirect := make(map[string]bool)

	for _, change := range changes {
		for _, decl := range a.reg.FindByFile(change.Path) {
			if !isAffected(decl, change.ChangedLines) {
				continue
			}
			key := decl.QualifiedName()
			if !seenDirect[key] {
				report.DirectlyAffected = append(report.DirectlyAffected, decl)
				seenDirect[key] = true
			}
		}
	}

	// Subtypes of a changed supertype can see different resolved type
	// arguments, so walk the subtype closure.
	queue := append([]*model.ClassDecl{}, report.DirectlyAffected...)
	for len(queue) > 0 {
		decl := queue[0]
		queue = queue[1:]

		for _, sub := range a.reg.SubtypesOf(decl.Name) {
			key := sub.QualifiedName()
			if seenDirect[key] || seenIndirect[key] {
				continue
			}
			report.IndirectlyAffected = append(report.IndirectlyAffected, sub)
			seenIndirect[key] = true
			queue = append(queue, sub)
		}
	}

	sortDecls(report.DirectlyAffected)
	sortDecls(report.IndirectlyAffected)
	return report, nil
}

func isAffected(decl *model.ClassDecl, lines []int) bool {
	// A declaration with no recorded span counts as affected whenever its
	// file changed.
	if decl.StartLine == 0 && decl.EndLine == 0 {
		return true
	}
	for _, line := range lines {
		if line >= decl.StartLine && line <= decl.EndLine {
			return true
		}
	}
	return false
}

func sortDecls(decls []*model.ClassDecl) {
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].QualifiedName() < decls[j].QualifiedName()
	})
}
