package loan

import (
	"context"
	"time"
)

// Repository persists loans. Lookups return (nil, nil) when no row matches.
type Repository interface {
	FindByID(ctx context.Context, id string) (*Loan, error)
	FindByUser(ctx context.Context, userID string) ([]*Loan, error)
	FindByStatus(ctx context.Context, status Status) ([]*Loan, error)
	Create(ctx context.Context, l *Loan) error
	Delete(ctx context.Context, id string) error

	// Return closes an active loan: sets the return date and flips the
	// status to returned.
	Return(ctx context.Context, id string, returnDate time.Time) error

	// Renew moves the due date and increments the renewal counter.
	Renew(ctx context.Context, id string, newDueDate time.Time) error

	// MarkOverdue flips an active loan to overdue. Used by the sweep
	// that external schedulers run past the due date.
	MarkOverdue(ctx context.Context, id string) error

	// GetActiveLoanForBook returns any single active loan of a book.
	GetActiveLoanForBook(ctx context.Context, bookID string) (*Loan, error)

	// GetUserActiveLoans returns the loans a user currently holds.
	GetUserActiveLoans(ctx context.Context, userID string) ([]*Loan, error)

	// GetUserLoansWithBookInfo returns a user's loans joined with their
	// books, newest first. Loans whose book was deleted keep a nil Book.
	GetUserLoansWithBookInfo(ctx context.Context, userID string) ([]*LoanWithBook, error)
}
