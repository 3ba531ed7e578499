package loanrequest

import "time"

// Status of a loan request. A request transitions away from pending
// exactly once.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

type LoanRequest struct {
	ID              string     `json:"id"`
	UserID          string     `json:"userId"`
	BookID          string     `json:"bookId"`
	Status          Status     `json:"status"`
	RequestDate     time.Time  `json:"requestDate"`
	ReviewDate      *time.Time `json:"reviewDate,omitempty"`
	ReviewedBy      *string    `json:"reviewedBy,omitempty"`
	DueDate         *time.Time `json:"dueDate,omitempty"`
	RejectionReason *string    `json:"rejectionReason,omitempty"`

	// Token is the credential of the review link. Whoever holds it can
	// approve or reject the request, so it never serializes with the
	// request; it travels only in the librarian email and the staff
	// review queue.
	Token string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
