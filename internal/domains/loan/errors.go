package loan

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrIDsRequired    = errors.New("User ID and Book ID are required")
	ErrLoanIDRequired = errors.New("Loan ID is required")
	ErrUserIDRequired = errors.New("User ID is required")
)

// Ownership errors. Each operation names itself so the message tells
// the member exactly what was refused.
var (
	ErrBorrowNotSelf = errors.New("Members can only borrow books for themselves")
	ErrReturnNotSelf = errors.New("Members can only return their own books")
	ErrRenewNotSelf  = errors.New("Members can only renew their own loans")
	ErrViewNotSelf   = errors.New("Members can only view their own loans")
)

// Business errors.
var (
	ErrLoanNotFound        = errors.New("Loan not found")
	ErrLoanNotActive       = errors.New("Loan is not active")
	ErrBookNotAvailable    = errors.New("Book is not available for borrowing")
	ErrBookBorrowed        = errors.New("Book is currently borrowed")
	ErrOnlyActiveRenewable = errors.New("Only active loans can be renewed")
	ErrOverdueNotRenewable = errors.New("Overdue loans cannot be renewed")
)

// Internal failures surfaced with stable messages.
var (
	ErrRenewFailed    = errors.New("Failed to renew loan")
	ErrLoansWithBooks = errors.New("Failed to get user loans with book information")
)

// LimitReachedError is returned when a user already holds the maximum
// number of active loans for their role.
type LimitReachedError struct {
	Limit int
}

func (e *LimitReachedError) Error() string {
	return fmt.Sprintf("User has reached maximum loan limit (%d)", e.Limit)
}

// RenewalLimitError is returned when a loan has been renewed as many
// times as the policy allows.
type RenewalLimitError struct {
	Limit int
}

func (e *RenewalLimitError) Error() string {
	return fmt.Sprintf("Maximum number of renewals reached (%d)", e.Limit)
}
