package loan

import "context"

// Service implements the loan lifecycle use-cases.
type Service interface {
	// BorrowBook checks availability and limits, creates an active loan
	// and takes one copy off the shelf. Of two concurrent borrowers of
	// the last copy exactly one succeeds.
	BorrowBook(ctx context.Context, req BorrowRequest) (*BorrowResult, error)

	// ReturnBook closes an active loan and puts the copy back.
	ReturnBook(ctx context.Context, req ReturnRequest) (*ReturnResult, error)

	// RenewLoan extends an active, not yet overdue loan.
	RenewLoan(ctx context.Context, req RenewRequest) (*RenewResult, error)

	// GetUserLoans lists a user's loans with a per-state summary.
	GetUserLoans(ctx context.Context, query ListQuery) (*UserLoansResult, error)

	// GetUserLoansWithBooks is GetUserLoans joined with book details,
	// with active-past-due loans projected as overdue for display.
	GetUserLoansWithBooks(ctx context.Context, query ListQuery) (*UserLoansWithBooksResult, error)
}
