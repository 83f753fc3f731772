package storage

import (
	"context"

	"typelens/internal/model"
)

// Store defines operations for persisting the declaration registry.
type Store interface {
	// SaveClass upserts a single declaration into the database.
	SaveClass(ctx context.Context, decl *model.ClassDecl) error

	// SaveRegistry persists the entire registry (classes and methods).
	SaveRegistry(ctx context.Context, reg *model.Registry) error

	// LoadRegistry rebuilds the registry from the database.
	LoadRegistry(ctx context.Context) (*model.Registry, error)

	// FindClassesByFile retrieves declarations extracted from a file.
	FindClassesByFile(ctx context.Context, filepath string) ([]*model.ClassDecl, error)

	Close() error
}
