package loanrequest

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"library-backend/internal/domains/book"
	"library-backend/internal/domains/user"
)

// CreateRequest is the submission payload. RequestingUserID and
// RequestingRole identify the caller.
type CreateRequest struct {
	UserID string `json:"userId"`
	BookID string `json:"bookId"`

	RequestingUserID string    `json:"-"`
	RequestingRole   user.Role `json:"-"`
}

// ApproveRequest is the review payload for approval. DueDate is
// optional; when empty the policy default applies.
type ApproveRequest struct {
	ReviewedBy string `json:"reviewedBy"`
	DueDate    string `json:"dueDate"`
}

func (r ApproveRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DueDate, validation.Date(time.RFC3339)),
	)
}

// ParsedDueDate returns the optional due date, nil when absent.
func (r ApproveRequest) ParsedDueDate() *time.Time {
	if r.DueDate == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, r.DueDate)
	if err != nil {
		return nil
	}
	return &t
}

type RejectRequest struct {
	ReviewedBy string `json:"reviewedBy"`
	Reason     string `json:"reason"`
}

// RequestSummary is the requester-facing acknowledgement of a
// submitted request. The review token is deliberately absent: the
// approve and reject routes are token-addressed, so handing the token
// back to the requester would let them review their own request.
type RequestSummary struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	BookID      string    `json:"bookId"`
	Status      Status    `json:"status"`
	RequestDate time.Time `json:"requestDate"`
}

type CreateResult struct {
	Message string          `json:"message"`
	Request *RequestSummary `json:"request"`
}

// PendingItem is a row of the staff review queue. The token appears
// here so the dashboard can link to the review page; the route serving
// it sits behind the staff gate.
type PendingItem struct {
	*LoanRequest
	Token string `json:"token"`
}

type ReviewResult struct {
	Message string       `json:"message"`
	Request *LoanRequest `json:"request"`
}

// TokenView is what the review page renders: the request together with
// the book and requester it concerns.
type TokenView struct {
	Message string       `json:"message"`
	Request *LoanRequest `json:"request"`
	Book    *book.Book   `json:"book"`
	User    *user.User   `json:"user"`
}
