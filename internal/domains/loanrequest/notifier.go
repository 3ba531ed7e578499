package loanrequest

import (
	"context"
	"time"
)

// RequestNotification is sent to the librarian inbox when a member
// submits a request. Token builds the review link.
type RequestNotification struct {
	UserName    string
	UserEmail   string
	BookTitle   string
	BookAuthor  string
	Token       string
	RequestDate time.Time
}

type ApprovalNotification struct {
	UserName  string
	UserEmail string
	BookTitle string
	DueDate   time.Time
}

type RejectionNotification struct {
	UserName  string
	UserEmail string
	BookTitle string
	Reason    string
}

// Notifier delivers the workflow emails. Implementations report
// success as a bool instead of an error: the service decides per
// operation whether a failed delivery aborts the flow.
type Notifier interface {
	SendLoanRequest(ctx context.Context, n RequestNotification) bool
	SendApproval(ctx context.Context, n ApprovalNotification) bool
	SendRejection(ctx context.Context, n RejectionNotification) bool
}
