package loan

import (
	"time"

	"library-backend/internal/domains/book"
	"library-backend/internal/domains/user"
)

// Policy is the lending policy the loan service enforces.
type Policy struct {
	BorrowDays      int
	RenewalDays     int
	RenewalLimit    int
	MemberLoanLimit int
	StaffLoanLimit  int
}

// MaxLoansFor returns the active-loan ceiling for a role.
func (p Policy) MaxLoansFor(role user.Role) int {
	if role.IsStaff() {
		return p.StaffLoanLimit
	}
	return p.MemberLoanLimit
}

// BorrowRequest is the borrow payload. RequestingUserID and
// RequestingRole identify the caller; UserID names the borrower, which
// only staff may set to someone else.
type BorrowRequest struct {
	UserID           string `json:"userId"`
	BookID           string `json:"bookId"`
	LoanDurationDays int    `json:"loanDurationDays"`

	RequestingUserID string    `json:"-"`
	RequestingRole   user.Role `json:"-"`
}

type ReturnRequest struct {
	LoanID string `json:"loanId"`

	RequestingUserID string    `json:"-"`
	RequestingRole   user.Role `json:"-"`
}

// RenewRequest extends an active loan. RenewalDays overrides the
// policy default when positive.
type RenewRequest struct {
	LoanID      string `json:"loanId"`
	RenewalDays int    `json:"renewalDays"`

	RequestingUserID string    `json:"-"`
	RequestingRole   user.Role `json:"-"`
}

// ListQuery filters a user's loans. An explicit Status wins over
// ActiveOnly; with neither set the full history is returned.
type ListQuery struct {
	UserID     string `form:"-" json:"-"`
	Status     string `form:"status"`
	ActiveOnly bool   `form:"activeOnly"`

	RequestingUserID string    `form:"-" json:"-"`
	RequestingRole   user.Role `form:"-" json:"-"`
}

type BorrowResult struct {
	Loan    *Loan     `json:"loan"`
	DueDate time.Time `json:"dueDate"`
}

type ReturnResult struct {
	Loan        *Loan `json:"loan"`
	WasOverdue  bool  `json:"wasOverdue"`
	DaysOverdue int   `json:"daysOverdue"`
}

type RenewResult struct {
	Loan              *Loan     `json:"loan"`
	NewDueDate        time.Time `json:"newDueDate"`
	RenewalsRemaining int       `json:"renewalsRemaining"`
}

// LoanWithBook pairs a loan with the book it concerns for display.
type LoanWithBook struct {
	Loan
	Book *book.Book `json:"book,omitempty"`
}

// Summary counts a user's loans by state.
type Summary struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Returned int `json:"returned"`
	Overdue  int `json:"overdue"`
}

type UserLoansResult struct {
	Loans   []*Loan `json:"loans"`
	Summary Summary `json:"summary"`
}

type UserLoansWithBooksResult struct {
	Loans   []*LoanWithBook `json:"loans"`
	Summary Summary         `json:"summary"`
}
