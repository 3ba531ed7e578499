package book

import (
	"context"

	"library-backend/internal/domains/user"
)

// Service implements the catalog use-cases. Mutating operations are
// restricted to staff roles.
type Service interface {
	Create(ctx context.Context, requestingRole user.Role, req CreateRequest) (*Book, error)
	Update(ctx context.Context, requestingRole user.Role, id string, req UpdateRequest) (*Book, error)
	Delete(ctx context.Context, requestingRole user.Role, id string) (*DeleteResult, error)
	Get(ctx context.Context, id string) (*Book, error)
	Search(ctx context.Context, query SearchQuery) ([]*Book, error)
}
