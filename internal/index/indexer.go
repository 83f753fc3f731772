package index

import (
	"encoding/json"
	"fmt"
	"os"

	"typelens/internal/crawler"
	"typelens/internal/ir"
	"typelens/internal/model"
)

// Indexer orchestrates codebase indexing and registry management.
type Indexer struct {
	crawler *crawler.Crawler
}

// NewIndexer creates a new indexer.
func NewIndexer(c *crawler.Crawler) *Indexer {
	return &Indexer{
		crawler: c,
	}
}

// BuildRegistry scans the project root and constructs the declaration
// registry.
func (i *Indexer) BuildRegistry(root string) (*model.Registry, error) {
	reg := model.NewRegistry()

	err := i.crawler.ScanProject(root, func(decl *model.ClassDecl) {
		reg.AddClass(decl)
	})
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return reg, nil
}

// SaveSnapshot persists the registry to a JSON snapshot file.
func (i *Indexer) SaveSnapshot(reg *model.Registry, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(ir.FromRegistry(reg)); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot loads a registry from a JSON snapshot file, validating it
// against the snapshot schema first.
func (i *Indexer) LoadSnapshot(path string) (*model.Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	if err := ir.ValidateSnapshot(data); err != nil {
		return nil, fmt.Errorf("snapshot failed schema validation: %w", err)
	}

	var snap ir.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	return ir.ToRegistry(&snap), nil
}
