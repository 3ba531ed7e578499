package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/loanrequest"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/clock"
)

const requestColumns = `id, user_id, book_id, status, request_date, review_date, reviewed_by, due_date, rejection_reason, token, created_at, updated_at`

type sqliteRepository struct {
	db  *database.DB
	clk clock.Clock
}

func NewSQLiteRepository(db *database.DB, clk clock.Clock) loanrequest.Repository {
	return &sqliteRepository{db: db, clk: clk}
}

func (r *sqliteRepository) FindByID(ctx context.Context, id string) (*loanrequest.LoanRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM loan_requests WHERE id = ?`, id)
	return scanRequest(row)
}

func (r *sqliteRepository) FindByToken(ctx context.Context, token string) (*loanrequest.LoanRequest, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM loan_requests WHERE token = ?`, token)
	return scanRequest(row)
}

func (r *sqliteRepository) FindPending(ctx context.Context) ([]*loanrequest.LoanRequest, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+requestColumns+` FROM loan_requests
		 WHERE status = ? ORDER BY request_date ASC`,
		loanrequest.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending requests: %w", err)
	}
	defer rows.Close()

	var out []*loanrequest.LoanRequest
	for rows.Next() {
		lr, err := scanRequestRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lr)
	}
	return out, rows.Err()
}

func (r *sqliteRepository) Create(ctx context.Context, lr *loanrequest.LoanRequest) error {
	now := r.clk.Now().UTC()
	if lr.ID == "" {
		lr.ID = uuid.NewString()
	}
	lr.CreatedAt = now
	lr.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO loan_requests (`+requestColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		lr.ID, lr.UserID, lr.BookID, lr.Status, lr.RequestDate,
		nullableTime(lr.ReviewDate), nullableString(lr.ReviewedBy),
		nullableTime(lr.DueDate), nullableString(lr.RejectionReason),
		lr.Token, lr.CreatedAt, lr.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert loan request: %w", err)
	}
	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loan_requests WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return loanrequest.ErrRequestNotFound
	}
	return nil
}

func (r *sqliteRepository) Approve(ctx context.Context, id, reviewedBy string, reviewDate, dueDate time.Time) error {
	// Guarded on pending so a request can only be processed once even
	// when two reviewers race on the same link.
	res, err := r.db.ExecContext(ctx,
		`UPDATE loan_requests
		 SET status = ?, reviewed_by = ?, review_date = ?, due_date = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		loanrequest.StatusApproved, reviewedBy, reviewDate.UTC(), dueDate.UTC(),
		r.clk.Now().UTC(), id, loanrequest.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to approve loan request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return loanrequest.ErrRequestNotFound
	}
	return nil
}

func (r *sqliteRepository) Reject(ctx context.Context, id, reviewedBy string, reviewDate time.Time, reason string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE loan_requests
		 SET status = ?, reviewed_by = ?, review_date = ?, rejection_reason = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		loanrequest.StatusRejected, reviewedBy, reviewDate.UTC(), nullIfEmpty(reason),
		r.clk.Now().UTC(), id, loanrequest.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to reject loan request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return loanrequest.ErrRequestNotFound
	}
	return nil
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row *sql.Row) (*loanrequest.LoanRequest, error) {
	lr, err := scanRequestRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return lr, err
}

func scanRequestRow(row rowScanner) (*loanrequest.LoanRequest, error) {
	var (
		lr         loanrequest.LoanRequest
		reviewDate sql.NullTime
		reviewedBy sql.NullString
		dueDate    sql.NullTime
		reason     sql.NullString
	)
	err := row.Scan(&lr.ID, &lr.UserID, &lr.BookID, &lr.Status, &lr.RequestDate,
		&reviewDate, &reviewedBy, &dueDate, &reason, &lr.Token, &lr.CreatedAt, &lr.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan loan request: %w", err)
	}
	if reviewDate.Valid {
		t := reviewDate.Time
		lr.ReviewDate = &t
	}
	if reviewedBy.Valid {
		s := reviewedBy.String
		lr.ReviewedBy = &s
	}
	if dueDate.Valid {
		t := dueDate.Time
		lr.DueDate = &t
	}
	if reason.Valid {
		s := reason.String
		lr.RejectionReason = &s
	}
	return &lr, nil
}
