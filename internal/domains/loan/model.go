package loan

import (
	"math"
	"time"
)

// Status of a loan.
type Status string

const (
	StatusActive   Status = "active"
	StatusReturned Status = "returned"
	StatusOverdue  Status = "overdue"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusReturned, StatusOverdue:
		return true
	}
	return false
}

type Loan struct {
	ID           string     `json:"id"`
	UserID       string     `json:"userId"`
	BookID       string     `json:"bookId"`
	LoanDate     time.Time  `json:"loanDate"`
	DueDate      time.Time  `json:"dueDate"`
	ReturnDate   *time.Time `json:"returnDate,omitempty"`
	Status       Status     `json:"status"`
	RenewalCount int        `json:"renewalCount"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// IsOverdue reports whether an active loan has passed its due date.
// Returned loans are never overdue, whatever their dates say.
func (l *Loan) IsOverdue(now time.Time) bool {
	if l.Status == StatusReturned {
		return false
	}
	return now.After(l.DueDate)
}

// DaysOverdue counts late days rounded up, zero when on time.
func (l *Loan) DaysOverdue(now time.Time) int {
	if !now.After(l.DueDate) {
		return 0
	}
	return int(math.Ceil(now.Sub(l.DueDate).Hours() / 24))
}
