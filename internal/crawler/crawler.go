package crawler

import (
	"io/fs"
	"path/filepath"
	"strings"

	"typelens/internal/extractor"
	"typelens/internal/model"
)

// Crawler scans a directory for source files.
type Crawler struct {
	extractor *extractor.Extractor
	ignored   []string
}

// NewCrawler creates a new crawler instance.
func NewCrawler(ext *extractor.Extractor) *Crawler {
	return &Crawler{
		extractor: ext,
		ignored:   []string{".git", "build", "target", "out", "node_modules"},
	}
}

// ScanProject walks the root directory and processes all relevant files.
// It uses a callback to stream declarations, preventing large memory buildup.
func (c *Crawler) ScanProject(root string, onDecl func(*model.ClassDecl)) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), ".java") {
			return nil
		}

		// Extract declarations from file
		decls, err := c.extractor.ExtractFromFile(path)
		if err != nil {
			// Log and continue instead of failing the whole scan
			return nil
		}

		// Stream results back
		for _, decl := range decls {
			onDecl(decl)
		}

		return nil
	})
}
