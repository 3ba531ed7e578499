package service

import (
	"context"
	"strings"
	"time"

	"library-backend/internal/domains/book"
	"library-backend/internal/domains/loanrequest"
	"library-backend/internal/domains/user"
	"library-backend/pkg/clock"
	"library-backend/pkg/logger"
)

// TokenFunc generates review-link tokens. Injected so tests can pin them.
type TokenFunc func() string

type requestService struct {
	requests loanrequest.Repository
	users    user.Repository
	books    book.Repository
	notifier loanrequest.Notifier
	clk      clock.Clock
	newToken TokenFunc

	// approvalDays is the default loan length granted on approval.
	approvalDays int
}

func NewLoanRequestService(
	requests loanrequest.Repository,
	users user.Repository,
	books book.Repository,
	notifier loanrequest.Notifier,
	clk clock.Clock,
	newToken TokenFunc,
	approvalDays int,
) loanrequest.Service {
	return &requestService{
		requests:     requests,
		users:        users,
		books:        books,
		notifier:     notifier,
		clk:          clk,
		newToken:     newToken,
		approvalDays: approvalDays,
	}
}

func (s *requestService) RequestLoan(ctx context.Context, req loanrequest.CreateRequest) (*loanrequest.CreateResult, error) {
	// 1. VALIDATE INPUT
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.BookID) == "" {
		return nil, loanrequest.ErrIDsRequired
	}

	// 2. RESOLVE REQUESTER
	requester, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		logger.Error("loan request user lookup failed", err)
		return nil, loanrequest.ErrProcessFailed
	}
	if requester == nil {
		return nil, user.ErrUserNotFound
	}

	// 3. OWNERSHIP
	if !user.CanActOnBehalfOf(req.RequestingRole, req.RequestingUserID, req.UserID) {
		return nil, loanrequest.ErrRequestNotSelf
	}

	// 4. RESOLVE BOOK
	b, err := s.books.FindByID(ctx, req.BookID)
	if err != nil {
		logger.Error("loan request book lookup failed", err)
		return nil, loanrequest.ErrProcessFailed
	}
	if b == nil {
		return nil, book.ErrBookNotFound
	}
	if b.Status == book.StatusMaintenance {
		return nil, loanrequest.ErrBookInMaintenance
	}

	// 5. PERSIST PENDING REQUEST
	// The row must exist before the email goes out: the token in the
	// review link has to resolve the moment the librarian clicks it.
	now := s.clk.Now().UTC()
	pending := &loanrequest.LoanRequest{
		UserID:      req.UserID,
		BookID:      req.BookID,
		Status:      loanrequest.StatusPending,
		RequestDate: now,
		Token:       s.newToken(),
	}
	if err := s.requests.Create(ctx, pending); err != nil {
		logger.Error("loan request insert failed", err)
		return nil, loanrequest.ErrProcessFailed
	}

	// 6. NOTIFY LIBRARIAN
	// A request nobody hears about is dead weight, so a failed email
	// voids the row and the member is asked to retry.
	sent := s.notifier.SendLoanRequest(ctx, loanrequest.RequestNotification{
		UserName:    requester.FullName(),
		UserEmail:   requester.Email,
		BookTitle:   b.Title,
		BookAuthor:  b.Author,
		Token:       pending.Token,
		RequestDate: now,
	})
	if !sent {
		if err := s.requests.Delete(ctx, pending.ID); err != nil {
			logger.Error("failed to void unsent loan request", err)
		}
		return nil, loanrequest.ErrEmailFailed
	}

	// The acknowledgement is a summary: the token must never reach the
	// requester, or they could approve their own request.
	return &loanrequest.CreateResult{
		Message: loanrequest.MsgRequestSent,
		Request: &loanrequest.RequestSummary{
			ID:          pending.ID,
			UserID:      pending.UserID,
			BookID:      pending.BookID,
			Status:      pending.Status,
			RequestDate: pending.RequestDate,
		},
	}, nil
}

func (s *requestService) Approve(ctx context.Context, token, reviewedBy string, dueDate *time.Time) (*loanrequest.ReviewResult, error) {
	// 1. VALIDATE INPUT
	if strings.TrimSpace(token) == "" || strings.TrimSpace(reviewedBy) == "" {
		return nil, loanrequest.ErrTokenReviewerRequired
	}

	// 2. RESOLVE REQUEST
	request, err := s.requests.FindByToken(ctx, token)
	if err != nil {
		logger.Error("loan request token lookup failed", err)
		return nil, loanrequest.ErrApproveFailed
	}
	if request == nil {
		return nil, loanrequest.ErrRequestNotFound
	}
	if request.Status != loanrequest.StatusPending {
		return nil, loanrequest.ErrAlreadyProcessed
	}

	// 3. CHECK BOOK AND REQUESTER STILL EXIST
	b, err := s.books.FindByID(ctx, request.BookID)
	if err != nil {
		logger.Error("loan request book lookup failed", err)
		return nil, loanrequest.ErrApproveFailed
	}
	if b == nil || b.AvailableCopies <= 0 {
		return nil, loanrequest.ErrBookUnavailable
	}
	requester, err := s.users.FindByID(ctx, request.UserID)
	if err != nil {
		logger.Error("loan request user lookup failed", err)
		return nil, loanrequest.ErrApproveFailed
	}
	if requester == nil {
		return nil, loanrequest.ErrUserNotFound
	}

	// 4. TAKE THE COPY FIRST
	// The atomic decrement is the real availability check; the request
	// stays pending when the last copy vanished since step 3.
	ok, err := s.books.UpdateAvailableCopies(ctx, request.BookID, -1)
	if err != nil {
		logger.Error("copy decrement failed on approval", err)
		return nil, loanrequest.ErrApproveFailed
	}
	if !ok {
		return nil, loanrequest.ErrBookUnavailable
	}

	// 5. TRANSITION
	now := s.clk.Now().UTC()
	due := now.AddDate(0, 0, s.approvalDays)
	if dueDate != nil {
		due = dueDate.UTC()
	}
	if err := s.requests.Approve(ctx, request.ID, reviewedBy, now, due); err != nil {
		if _, restoreErr := s.books.UpdateAvailableCopies(ctx, request.BookID, +1); restoreErr != nil {
			logger.Error("failed to restore copy after approval failure", restoreErr)
		}
		logger.Error("loan request approval failed", err)
		return nil, loanrequest.ErrApproveFailed
	}
	request.Status = loanrequest.StatusApproved
	request.ReviewedBy = &reviewedBy
	request.ReviewDate = &now
	request.DueDate = &due

	// 6. NOTIFY REQUESTER (BEST EFFORT)
	if !s.notifier.SendApproval(ctx, loanrequest.ApprovalNotification{
		UserName:  requester.FullName(),
		UserEmail: requester.Email,
		BookTitle: b.Title,
		DueDate:   due,
	}) {
		logger.Warn("approval email not delivered", map[string]interface{}{
			"requestId": request.ID, "email": requester.Email,
		})
	}

	return &loanrequest.ReviewResult{
		Message: loanrequest.MsgApproved,
		Request: request,
	}, nil
}

func (s *requestService) Reject(ctx context.Context, token, reviewedBy, reason string) (*loanrequest.ReviewResult, error) {
	// 1. VALIDATE INPUT
	if strings.TrimSpace(token) == "" || strings.TrimSpace(reviewedBy) == "" {
		return nil, loanrequest.ErrTokenReviewerRequired
	}

	// 2. RESOLVE REQUEST
	request, err := s.requests.FindByToken(ctx, token)
	if err != nil {
		logger.Error("loan request token lookup failed", err)
		return nil, loanrequest.ErrRejectFailed
	}
	if request == nil {
		return nil, loanrequest.ErrRequestNotFound
	}
	if request.Status != loanrequest.StatusPending {
		return nil, loanrequest.ErrAlreadyProcessed
	}

	// 3. TRANSITION
	// Rejection never touches inventory.
	now := s.clk.Now().UTC()
	if err := s.requests.Reject(ctx, request.ID, reviewedBy, now, reason); err != nil {
		logger.Error("loan request rejection failed", err)
		return nil, loanrequest.ErrRejectFailed
	}
	request.Status = loanrequest.StatusRejected
	request.ReviewedBy = &reviewedBy
	request.ReviewDate = &now
	if reason != "" {
		request.RejectionReason = &reason
	}

	// 4. NOTIFY REQUESTER (BEST EFFORT)
	requester, userErr := s.users.FindByID(ctx, request.UserID)
	b, bookErr := s.books.FindByID(ctx, request.BookID)
	if userErr == nil && bookErr == nil && requester != nil && b != nil {
		if !s.notifier.SendRejection(ctx, loanrequest.RejectionNotification{
			UserName:  requester.FullName(),
			UserEmail: requester.Email,
			BookTitle: b.Title,
			Reason:    reason,
		}) {
			logger.Warn("rejection email not delivered", map[string]interface{}{
				"requestId": request.ID, "email": requester.Email,
			})
		}
	}

	return &loanrequest.ReviewResult{
		Message: loanrequest.MsgRejected,
		Request: request,
	}, nil
}

func (s *requestService) GetByToken(ctx context.Context, token string) (*loanrequest.TokenView, error) {
	// 1. VALIDATE INPUT
	if strings.TrimSpace(token) == "" {
		return nil, loanrequest.ErrTokenRequired
	}

	// 2. RESOLVE REQUEST
	request, err := s.requests.FindByToken(ctx, token)
	if err != nil {
		logger.Error("loan request token lookup failed", err)
		return nil, loanrequest.ErrInternal
	}
	if request == nil {
		return nil, loanrequest.ErrRequestNotFound
	}

	// 3. JOIN BOOK AND REQUESTER
	b, err := s.books.FindByID(ctx, request.BookID)
	if err != nil {
		logger.Error("loan request book lookup failed", err)
		return nil, loanrequest.ErrInternal
	}
	if b == nil {
		return nil, loanrequest.ErrBookNotFound
	}
	requester, err := s.users.FindByID(ctx, request.UserID)
	if err != nil {
		logger.Error("loan request user lookup failed", err)
		return nil, loanrequest.ErrInternal
	}
	if requester == nil {
		return nil, loanrequest.ErrInfoNotFound
	}

	return &loanrequest.TokenView{
		Message: loanrequest.MsgRequestFound,
		Request: request,
		Book:    b,
		User:    requester.Sanitize(),
	}, nil
}

func (s *requestService) ListPending(ctx context.Context) ([]*loanrequest.PendingItem, error) {
	pending, err := s.requests.FindPending(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*loanrequest.PendingItem, 0, len(pending))
	for _, lr := range pending {
		out = append(out, &loanrequest.PendingItem{LoanRequest: lr, Token: lr.Token})
	}
	return out, nil
}
