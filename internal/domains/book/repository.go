package book

import "context"

// SearchCriteria filters the catalog. Title and Author match as
// substrings, the rest match exactly. Empty fields are ignored.
type SearchCriteria struct {
	Title         string
	Author        string
	ISBN          string
	Category      string
	Status        Status
	AvailableOnly bool
}

// Repository persists books. Lookups return (nil, nil) when no row matches.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Book, error)
	FindByISBN(ctx context.Context, isbn string) (*Book, error)
	FindAll(ctx context.Context) ([]*Book, error)
	FindAvailable(ctx context.Context) ([]*Book, error)
	Search(ctx context.Context, criteria SearchCriteria) ([]*Book, error)
	Create(ctx context.Context, b *Book) error
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, id string) error

	// UpdateAvailableCopies moves the available-copy count by delta in a
	// single atomic statement and recomputes the derived status. It
	// reports false when the movement would leave the count outside
	// [0, total_copies], which is how concurrent borrowers of the last
	// copy are serialized: exactly one of them sees true.
	UpdateAvailableCopies(ctx context.Context, id string, delta int) (bool, error)
}
