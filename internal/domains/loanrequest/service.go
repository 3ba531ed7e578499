package loanrequest

import (
	"context"
	"time"
)

// Service implements the loan-request workflow.
type Service interface {
	// RequestLoan records a pending request and emails the librarian a
	// review link. A failed email voids the request.
	RequestLoan(ctx context.Context, req CreateRequest) (*CreateResult, error)

	// Approve transitions a pending request to approved, takes a copy
	// off the shelf and notifies the requester. dueDate nil means the
	// policy default.
	Approve(ctx context.Context, token, reviewedBy string, dueDate *time.Time) (*ReviewResult, error)

	// Reject transitions a pending request to rejected and notifies the
	// requester. Inventory is untouched.
	Reject(ctx context.Context, token, reviewedBy, reason string) (*ReviewResult, error)

	// GetByToken resolves a review link to the request plus the book
	// and requester it concerns.
	GetByToken(ctx context.Context, token string) (*TokenView, error)

	// ListPending returns requests awaiting review, oldest first, with
	// their review tokens for the staff dashboard.
	ListPending(ctx context.Context) ([]*PendingItem, error)
}
