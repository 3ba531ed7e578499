package service

import (
	"context"
	"strings"
	"time"

	"library-backend/internal/domains/book"
	"library-backend/internal/domains/loan"
	"library-backend/internal/domains/user"
	"library-backend/pkg/clock"
	"library-backend/pkg/logger"
)

type loanService struct {
	loans  loan.Repository
	users  user.Repository
	books  book.Repository
	policy loan.Policy
	clk    clock.Clock
}

func NewLoanService(loans loan.Repository, users user.Repository, books book.Repository, policy loan.Policy, clk clock.Clock) loan.Service {
	return &loanService{
		loans:  loans,
		users:  users,
		books:  books,
		policy: policy,
		clk:    clk,
	}
}

func (s *loanService) BorrowBook(ctx context.Context, req loan.BorrowRequest) (*loan.BorrowResult, error) {
	// 1. VALIDATE INPUT
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.BookID) == "" {
		return nil, loan.ErrIDsRequired
	}

	// 2. RESOLVE BORROWER
	borrower, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if borrower == nil {
		return nil, user.ErrUserNotFound
	}

	// 3. OWNERSHIP
	if !user.CanActOnBehalfOf(req.RequestingRole, req.RequestingUserID, req.UserID) {
		return nil, loan.ErrBorrowNotSelf
	}

	// 4. RESOLVE BOOK AND AVAILABILITY
	b, err := s.books.FindByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, book.ErrBookNotFound
	}
	if !b.Borrowable() {
		return nil, loan.ErrBookNotAvailable
	}

	// 5. LAST COPY GUARD
	// When someone already holds a copy and only one remains on the
	// shelf, the book is reported as borrowed rather than available.
	existing, err := s.loans.GetActiveLoanForBook(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if existing != nil && b.AvailableCopies <= 1 {
		return nil, loan.ErrBookBorrowed
	}

	// 6. LOAN LIMIT
	// The limit follows the borrower's stored role, not the caller's.
	activeLoans, err := s.loans.GetUserActiveLoans(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	maxLoans := s.policy.MaxLoansFor(borrower.Role)
	if len(activeLoans) >= maxLoans {
		return nil, &loan.LimitReachedError{Limit: maxLoans}
	}

	// 7. TAKE THE COPY
	// The decrement is atomic and bounded, so of two concurrent
	// borrowers of the last copy exactly one passes this point.
	ok, err := s.books.UpdateAvailableCopies(ctx, req.BookID, -1)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, loan.ErrBookNotAvailable
	}

	// 8. CREATE LOAN
	now := s.clk.Now().UTC()
	durationDays := req.LoanDurationDays
	if durationDays <= 0 {
		durationDays = s.policy.BorrowDays
	}
	newLoan := &loan.Loan{
		UserID:       req.UserID,
		BookID:       req.BookID,
		LoanDate:     now,
		DueDate:      now.AddDate(0, 0, durationDays),
		Status:       loan.StatusActive,
		RenewalCount: 0,
	}
	if err := s.loans.Create(ctx, newLoan); err != nil {
		// Put the copy back so the failed borrow does not leak inventory.
		if _, restoreErr := s.books.UpdateAvailableCopies(ctx, req.BookID, +1); restoreErr != nil {
			logger.Error("failed to restore copy after loan insert failure", restoreErr)
		}
		return nil, err
	}

	return &loan.BorrowResult{
		Loan:    newLoan,
		DueDate: newLoan.DueDate,
	}, nil
}

func (s *loanService) ReturnBook(ctx context.Context, req loan.ReturnRequest) (*loan.ReturnResult, error) {
	// 1. VALIDATE INPUT
	if strings.TrimSpace(req.LoanID) == "" {
		return nil, loan.ErrLoanIDRequired
	}

	// 2. RESOLVE LOAN
	current, err := s.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, loan.ErrLoanNotFound
	}
	if current.Status != loan.StatusActive {
		return nil, loan.ErrLoanNotActive
	}

	// 3. OWNERSHIP
	if !user.CanActOnBehalfOf(req.RequestingRole, req.RequestingUserID, current.UserID) {
		return nil, loan.ErrReturnNotSelf
	}

	// 4. CLOSE THE LOAN
	returnDate := s.clk.Now().UTC()
	if err := s.loans.Return(ctx, current.ID, returnDate); err != nil {
		return nil, err
	}
	current.Status = loan.StatusReturned
	current.ReturnDate = &returnDate

	// 5. PUT THE COPY BACK
	// The book may have been deleted meanwhile; the return still stands.
	if ok, err := s.books.UpdateAvailableCopies(ctx, current.BookID, +1); err != nil || !ok {
		logger.Warn("could not restore copy on return", map[string]interface{}{
			"loanId": current.ID, "bookId": current.BookID,
		})
	}

	wasOverdue := returnDate.After(current.DueDate)
	return &loan.ReturnResult{
		Loan:        current,
		WasOverdue:  wasOverdue,
		DaysOverdue: current.DaysOverdue(returnDate),
	}, nil
}

func (s *loanService) RenewLoan(ctx context.Context, req loan.RenewRequest) (*loan.RenewResult, error) {
	// 1. VALIDATE INPUT
	if strings.TrimSpace(req.LoanID) == "" {
		return nil, loan.ErrLoanIDRequired
	}

	// 2. RESOLVE LOAN
	current, err := s.loans.FindByID(ctx, req.LoanID)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, loan.ErrLoanNotFound
	}
	if current.Status != loan.StatusActive {
		return nil, loan.ErrOnlyActiveRenewable
	}

	// 3. OWNERSHIP
	if !user.CanActOnBehalfOf(req.RequestingRole, req.RequestingUserID, current.UserID) {
		return nil, loan.ErrRenewNotSelf
	}

	// 4. POLICY
	if current.RenewalCount >= s.policy.RenewalLimit {
		return nil, &loan.RenewalLimitError{Limit: s.policy.RenewalLimit}
	}
	now := s.clk.Now().UTC()
	if now.After(current.DueDate) {
		return nil, loan.ErrOverdueNotRenewable
	}

	// 5. EXTEND
	renewalDays := req.RenewalDays
	if renewalDays <= 0 {
		renewalDays = s.policy.RenewalDays
	}
	newDueDate := current.DueDate.AddDate(0, 0, renewalDays)
	if err := s.loans.Renew(ctx, current.ID, newDueDate); err != nil {
		logger.Error("loan renewal failed", err)
		return nil, loan.ErrRenewFailed
	}
	current.DueDate = newDueDate
	current.RenewalCount++

	return &loan.RenewResult{
		Loan:              current,
		NewDueDate:        newDueDate,
		RenewalsRemaining: s.policy.RenewalLimit - current.RenewalCount,
	}, nil
}

func (s *loanService) GetUserLoans(ctx context.Context, query loan.ListQuery) (*loan.UserLoansResult, error) {
	if strings.TrimSpace(query.UserID) == "" {
		return nil, loan.ErrUserIDRequired
	}
	if !user.CanActOnBehalfOf(query.RequestingRole, query.RequestingUserID, query.UserID) {
		return nil, loan.ErrViewNotSelf
	}

	all, err := s.loans.FindByUser(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now().UTC()
	summary := summarize(all, now)

	filtered := make([]*loan.Loan, 0, len(all))
	for _, l := range all {
		displayed := displayStatus(l, now)
		switch {
		case query.Status != "":
			if string(displayed) == query.Status {
				filtered = append(filtered, l)
			}
		case query.ActiveOnly:
			if l.Status == loan.StatusActive {
				filtered = append(filtered, l)
			}
		default:
			filtered = append(filtered, l)
		}
	}

	return &loan.UserLoansResult{Loans: filtered, Summary: summary}, nil
}

func (s *loanService) GetUserLoansWithBooks(ctx context.Context, query loan.ListQuery) (*loan.UserLoansWithBooksResult, error) {
	if strings.TrimSpace(query.UserID) == "" {
		return nil, loan.ErrUserIDRequired
	}
	if !user.CanActOnBehalfOf(query.RequestingRole, query.RequestingUserID, query.UserID) {
		return nil, loan.ErrViewNotSelf
	}

	joined, err := s.loans.GetUserLoansWithBookInfo(ctx, query.UserID)
	if err != nil {
		logger.Error("loans with book info query failed", err)
		return nil, loan.ErrLoansWithBooks
	}

	now := s.clk.Now().UTC()
	plain := make([]*loan.Loan, len(joined))
	for i := range joined {
		plain[i] = &joined[i].Loan
	}
	summary := summarize(plain, now)

	// Overdue is projected for display only. The stored status stays
	// active until the overdue sweep rewrites it.
	out := make([]*loan.LoanWithBook, 0, len(joined))
	for _, item := range joined {
		displayed := displayStatus(&item.Loan, now)
		if query.Status != "" && string(displayed) != query.Status {
			continue
		}
		if query.Status == "" && query.ActiveOnly && item.Loan.Status != loan.StatusActive {
			continue
		}
		clone := *item
		clone.Loan.Status = displayed
		out = append(out, &clone)
	}

	return &loan.UserLoansWithBooksResult{Loans: out, Summary: summary}, nil
}

// displayStatus projects an active loan past its due date as overdue.
func displayStatus(l *loan.Loan, now time.Time) loan.Status {
	if l.Status == loan.StatusActive && l.IsOverdue(now) {
		return loan.StatusOverdue
	}
	return l.Status
}

func summarize(loans []*loan.Loan, now time.Time) loan.Summary {
	s := loan.Summary{Total: len(loans)}
	for _, l := range loans {
		switch displayStatus(l, now) {
		case loan.StatusActive:
			s.Active++
		case loan.StatusReturned:
			s.Returned++
		case loan.StatusOverdue:
			s.Overdue++
		}
	}
	return s
}
