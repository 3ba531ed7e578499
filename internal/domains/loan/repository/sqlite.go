package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/book"
	"library-backend/internal/domains/loan"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/clock"
)

const loanColumns = `id, user_id, book_id, loan_date, due_date, return_date, status, renewal_count, created_at, updated_at`

type sqliteRepository struct {
	db  *database.DB
	clk clock.Clock
}

func NewSQLiteRepository(db *database.DB, clk clock.Clock) loan.Repository {
	return &sqliteRepository{db: db, clk: clk}
}

func (r *sqliteRepository) FindByID(ctx context.Context, id string) (*loan.Loan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE id = ?`, id)
	return scanLoan(row)
}

func (r *sqliteRepository) FindByUser(ctx context.Context, userID string) ([]*loan.Loan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE user_id = ? ORDER BY loan_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans by user: %w", err)
	}
	defer rows.Close()
	return collectLoans(rows)
}

func (r *sqliteRepository) FindByStatus(ctx context.Context, status loan.Status) ([]*loan.Loan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loans WHERE status = ? ORDER BY loan_date DESC`, status)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans by status: %w", err)
	}
	defer rows.Close()
	return collectLoans(rows)
}

func (r *sqliteRepository) Create(ctx context.Context, l *loan.Loan) error {
	now := r.clk.Now().UTC()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	l.CreatedAt = now
	l.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO loans (`+loanColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.UserID, l.BookID, l.LoanDate, l.DueDate, nullableTime(l.ReturnDate),
		l.Status, l.RenewalCount, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert loan: %w", err)
	}
	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete loan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return loan.ErrLoanNotFound
	}
	return nil
}

func (r *sqliteRepository) Return(ctx context.Context, id string, returnDate time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE loans SET status = ?, return_date = ?, updated_at = ?
		 WHERE id = ? AND status != ?`,
		loan.StatusReturned, returnDate.UTC(), r.clk.Now().UTC(), id, loan.StatusReturned)
	if err != nil {
		return fmt.Errorf("failed to return loan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return loan.ErrLoanNotFound
	}
	return nil
}

func (r *sqliteRepository) Renew(ctx context.Context, id string, newDueDate time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE loans SET due_date = ?, renewal_count = renewal_count + 1, updated_at = ?
		 WHERE id = ? AND status = ?`,
		newDueDate.UTC(), r.clk.Now().UTC(), id, loan.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to renew loan: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return loan.ErrLoanNotFound
	}
	return nil
}

func (r *sqliteRepository) MarkOverdue(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE loans SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		loan.StatusOverdue, r.clk.Now().UTC(), id, loan.StatusActive)
	if err != nil {
		return fmt.Errorf("failed to mark loan overdue: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return loan.ErrLoanNotFound
	}
	return nil
}

func (r *sqliteRepository) GetActiveLoanForBook(ctx context.Context, bookID string) (*loan.Loan, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+loanColumns+` FROM loans
		 WHERE book_id = ? AND status = ? LIMIT 1`,
		bookID, loan.StatusActive)
	return scanLoan(row)
}

func (r *sqliteRepository) GetUserActiveLoans(ctx context.Context, userID string) ([]*loan.Loan, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+loanColumns+` FROM loans
		 WHERE user_id = ? AND status = ? ORDER BY loan_date DESC`,
		userID, loan.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query active loans: %w", err)
	}
	defer rows.Close()
	return collectLoans(rows)
}

func (r *sqliteRepository) GetUserLoansWithBookInfo(ctx context.Context, userID string) ([]*loan.LoanWithBook, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT l.id, l.user_id, l.book_id, l.loan_date, l.due_date, l.return_date,
		        l.status, l.renewal_count, l.created_at, l.updated_at,
		        b.id, b.title, b.author, b.isbn, b.category, b.published_year,
		        b.total_copies, b.available_copies, b.status, b.created_at, b.updated_at
		 FROM loans l
		 LEFT JOIN books b ON b.id = l.book_id
		 WHERE l.user_id = ?
		 ORDER BY l.loan_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans with books: %w", err)
	}
	defer rows.Close()

	var out []*loan.LoanWithBook
	for rows.Next() {
		var (
			item       loan.LoanWithBook
			returnDate sql.NullTime

			bookID        sql.NullString
			title         sql.NullString
			author        sql.NullString
			isbn          sql.NullString
			category      sql.NullString
			publishedYear sql.NullInt64
			totalCopies   sql.NullInt64
			available     sql.NullInt64
			bookStatus    sql.NullString
			bookCreated   sql.NullTime
			bookUpdated   sql.NullTime
		)
		err := rows.Scan(
			&item.ID, &item.UserID, &item.BookID, &item.LoanDate, &item.DueDate, &returnDate,
			&item.Status, &item.RenewalCount, &item.CreatedAt, &item.UpdatedAt,
			&bookID, &title, &author, &isbn, &category, &publishedYear,
			&totalCopies, &available, &bookStatus, &bookCreated, &bookUpdated)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan with book: %w", err)
		}
		if returnDate.Valid {
			t := returnDate.Time
			item.ReturnDate = &t
		}
		if bookID.Valid {
			item.Book = &book.Book{
				ID:              bookID.String,
				Title:           title.String,
				Author:          author.String,
				ISBN:            isbn.String,
				Category:        category.String,
				PublishedYear:   int(publishedYear.Int64),
				TotalCopies:     int(totalCopies.Int64),
				AvailableCopies: int(available.Int64),
				Status:          book.Status(bookStatus.String),
				CreatedAt:       bookCreated.Time,
				UpdatedAt:       bookUpdated.Time,
			}
		}
		out = append(out, &item)
	}
	return out, rows.Err()
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}

func scanLoan(row *sql.Row) (*loan.Loan, error) {
	var (
		l          loan.Loan
		returnDate sql.NullTime
	)
	err := row.Scan(&l.ID, &l.UserID, &l.BookID, &l.LoanDate, &l.DueDate, &returnDate,
		&l.Status, &l.RenewalCount, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan loan: %w", err)
	}
	if returnDate.Valid {
		t := returnDate.Time
		l.ReturnDate = &t
	}
	return &l, nil
}

func collectLoans(rows *sql.Rows) ([]*loan.Loan, error) {
	var loans []*loan.Loan
	for rows.Next() {
		var (
			l          loan.Loan
			returnDate sql.NullTime
		)
		if err := rows.Scan(&l.ID, &l.UserID, &l.BookID, &l.LoanDate, &l.DueDate, &returnDate,
			&l.Status, &l.RenewalCount, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		if returnDate.Valid {
			t := returnDate.Time
			l.ReturnDate = &t
		}
		loans = append(loans, &l)
	}
	return loans, rows.Err()
}
