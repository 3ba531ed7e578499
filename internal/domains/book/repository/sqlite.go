package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/book"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/cache"
	"library-backend/pkg/clock"
	"library-backend/pkg/logger"
)

const bookColumns = `id, title, author, isbn, category, published_year, total_copies, available_copies, status, created_at, updated_at`

const bookCacheTTL = 5 * time.Minute

type sqliteRepository struct {
	db    *database.DB
	cache cache.Cache
	clk   clock.Clock
}

// NewSQLiteRepository builds the book repository. cache may be nil when
// Redis is unavailable; lookups then always hit SQLite.
func NewSQLiteRepository(db *database.DB, c cache.Cache, clk clock.Clock) book.Repository {
	return &sqliteRepository{db: db, cache: c, clk: clk}
}

func bookCacheKey(id string) string {
	return "book:" + id
}

func (r *sqliteRepository) FindByID(ctx context.Context, id string) (*book.Book, error) {
	if r.cache != nil {
		var cached book.Book
		hit, err := r.cache.Get(ctx, bookCacheKey(id), &cached)
		if err != nil {
			logger.Warn("book cache read failed", map[string]interface{}{"id": id, "error": err.Error()})
		} else if hit {
			return &cached, nil
		}
	}

	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)
	found, err := scanBook(row)
	if err != nil || found == nil {
		return found, err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, bookCacheKey(id), found, bookCacheTTL); err != nil {
			logger.Warn("book cache write failed", map[string]interface{}{"id": id, "error": err.Error()})
		}
	}
	return found, nil
}

func (r *sqliteRepository) FindByISBN(ctx context.Context, isbn string) (*book.Book, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE isbn = ?`, isbn)
	return scanBook(row)
}

func (r *sqliteRepository) FindAll(ctx context.Context) ([]*book.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY title ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()
	return collectBooks(rows)
}

func (r *sqliteRepository) FindAvailable(ctx context.Context) ([]*book.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books
		 WHERE available_copies > 0 AND status = ? ORDER BY title ASC`,
		book.StatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to query available books: %w", err)
	}
	defer rows.Close()
	return collectBooks(rows)
}

func (r *sqliteRepository) Search(ctx context.Context, criteria book.SearchCriteria) ([]*book.Book, error) {
	var (
		conditions []string
		args       []interface{}
	)
	if criteria.Title != "" {
		conditions = append(conditions, `title LIKE ?`)
		args = append(args, "%"+criteria.Title+"%")
	}
	if criteria.Author != "" {
		conditions = append(conditions, `author LIKE ?`)
		args = append(args, "%"+criteria.Author+"%")
	}
	if criteria.ISBN != "" {
		conditions = append(conditions, `isbn = ?`)
		args = append(args, criteria.ISBN)
	}
	if criteria.Category != "" {
		conditions = append(conditions, `category = ?`)
		args = append(args, criteria.Category)
	}
	// An explicit status filter wins over the availability shortcut.
	if criteria.Status != "" {
		conditions = append(conditions, `status = ?`)
		args = append(args, criteria.Status)
	} else if criteria.AvailableOnly {
		conditions = append(conditions, `available_copies > 0 AND status = ?`)
		args = append(args, book.StatusAvailable)
	}

	query := `SELECT ` + bookColumns + ` FROM books`
	if len(conditions) > 0 {
		query += ` WHERE ` + strings.Join(conditions, ` AND `)
	}
	query += ` ORDER BY title ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search books: %w", err)
	}
	defer rows.Close()
	return collectBooks(rows)
}

func (r *sqliteRepository) Create(ctx context.Context, b *book.Book) error {
	now := r.clk.Now().UTC()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO books (`+bookColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.Title, b.Author, b.ISBN, b.Category, b.PublishedYear,
		b.TotalCopies, b.AvailableCopies, b.Status, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert book: %w", err)
	}
	return nil
}

func (r *sqliteRepository) Update(ctx context.Context, b *book.Book) error {
	b.UpdatedAt = r.clk.Now().UTC()
	res, err := r.db.ExecContext(ctx,
		`UPDATE books SET title = ?, author = ?, isbn = ?, category = ?, published_year = ?,
		        total_copies = ?, available_copies = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		b.Title, b.Author, b.ISBN, b.Category, b.PublishedYear,
		b.TotalCopies, b.AvailableCopies, b.Status, b.UpdatedAt, b.ID)
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return book.ErrBookNotFound
	}
	r.invalidate(ctx, b.ID)
	return nil
}

func (r *sqliteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return book.ErrBookNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *sqliteRepository) UpdateAvailableCopies(ctx context.Context, id string, delta int) (bool, error) {
	// Guard and mutation happen in one statement so two borrowers of the
	// last copy cannot both pass a read-then-write check.
	res, err := r.db.ExecContext(ctx,
		`UPDATE books
		 SET available_copies = available_copies + ?,
		     status = CASE
		         WHEN status IN (?, ?) THEN status
		         WHEN available_copies + ? > 0 THEN ?
		         ELSE ?
		     END,
		     updated_at = ?
		 WHERE id = ?
		   AND available_copies + ? >= 0
		   AND available_copies + ? <= total_copies`,
		delta,
		book.StatusReserved, book.StatusMaintenance,
		delta, book.StatusAvailable, book.StatusBorrowed,
		r.clk.Now().UTC(),
		id, delta, delta)
	if err != nil {
		return false, fmt.Errorf("failed to update available copies: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n > 0 {
		r.invalidate(ctx, id)
	}
	return n > 0, nil
}

func (r *sqliteRepository) invalidate(ctx context.Context, id string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Delete(ctx, bookCacheKey(id)); err != nil {
		logger.Warn("book cache invalidation failed", map[string]interface{}{"id": id, "error": err.Error()})
	}
}

func scanBook(row *sql.Row) (*book.Book, error) {
	var b book.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Category, &b.PublishedYear,
		&b.TotalCopies, &b.AvailableCopies, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan book: %w", err)
	}
	return &b, nil
}

func collectBooks(rows *sql.Rows) ([]*book.Book, error) {
	var books []*book.Book
	for rows.Next() {
		var b book.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Category, &b.PublishedYear,
			&b.TotalCopies, &b.AvailableCopies, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, &b)
	}
	return books, rows.Err()
}
