package loanrequest

import (
	"context"
	"time"
)

// Repository persists loan requests. Lookups return (nil, nil) when no
// row matches.
type Repository interface {
	FindByID(ctx context.Context, id string) (*LoanRequest, error)
	FindByToken(ctx context.Context, token string) (*LoanRequest, error)
	FindPending(ctx context.Context) ([]*LoanRequest, error)
	Create(ctx context.Context, lr *LoanRequest) error
	Delete(ctx context.Context, id string) error

	// Approve transitions a pending request to approved. It affects
	// only rows still pending and reports ErrRequestNotFound otherwise,
	// which makes the transition single-shot under concurrency.
	Approve(ctx context.Context, id, reviewedBy string, reviewDate, dueDate time.Time) error

	// Reject is the symmetric rejected transition.
	Reject(ctx context.Context, id, reviewedBy string, reviewDate time.Time, reason string) error
}
