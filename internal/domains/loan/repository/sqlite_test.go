package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bookrepo "library-backend/internal/domains/book/repository"

	"library-backend/internal/domains/book"
	"library-backend/internal/domains/loan"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/clock"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRepos(t *testing.T) (loan.Repository, book.Repository) {
	t.Helper()
	db := openTestDB(t)
	clk := clock.Fixed{T: testNow}
	return NewSQLiteRepository(db, clk), bookrepo.NewSQLiteRepository(db, nil, clk)
}

func seedLoan(t *testing.T, repo loan.Repository, l *loan.Loan) *loan.Loan {
	t.Helper()
	if l.Status == "" {
		l.Status = loan.StatusActive
	}
	if l.LoanDate.IsZero() {
		l.LoanDate = testNow
	}
	if l.DueDate.IsZero() {
		l.DueDate = testNow.AddDate(0, 0, 14)
	}
	require.NoError(t, repo.Create(context.Background(), l))
	return l
}

func TestLoanLifecycle(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepos(t)

	created := seedLoan(t, repo, &loan.Loan{UserID: "user-1", BookID: "book-1"})

	t.Run("round trip", func(t *testing.T) {
		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, loan.StatusActive, found.Status)
		assert.Nil(t, found.ReturnDate)
		assert.Equal(t, 0, found.RenewalCount)
	})

	t.Run("renew bumps due date and counter for active loans only", func(t *testing.T) {
		newDue := created.DueDate.AddDate(0, 0, 14)
		require.NoError(t, repo.Renew(ctx, created.ID, newDue))

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.RenewalCount)
		assert.True(t, found.DueDate.Equal(newDue))
	})

	t.Run("return closes the loan once", func(t *testing.T) {
		returnedAt := testNow.AddDate(0, 0, 3)
		require.NoError(t, repo.Return(ctx, created.ID, returnedAt))

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, loan.StatusReturned, found.Status)
		require.NotNil(t, found.ReturnDate)
		assert.True(t, found.ReturnDate.Equal(returnedAt))

		// Closed loans cannot be returned or renewed again.
		assert.ErrorIs(t, repo.Return(ctx, created.ID, returnedAt), loan.ErrLoanNotFound)
		assert.ErrorIs(t, repo.Renew(ctx, created.ID, returnedAt), loan.ErrLoanNotFound)
	})
}

func TestMarkOverdue(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepos(t)

	active := seedLoan(t, repo, &loan.Loan{UserID: "user-1", BookID: "book-1"})
	returned := seedLoan(t, repo, &loan.Loan{UserID: "user-1", BookID: "book-2", Status: loan.StatusReturned})

	require.NoError(t, repo.MarkOverdue(ctx, active.ID))
	assert.ErrorIs(t, repo.MarkOverdue(ctx, returned.ID), loan.ErrLoanNotFound)

	found, err := repo.FindByID(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, loan.StatusOverdue, found.Status)

	overdue, err := repo.FindByStatus(ctx, loan.StatusOverdue)
	require.NoError(t, err)
	assert.Len(t, overdue, 1)
}

func TestActiveLoanQueries(t *testing.T) {
	ctx := context.Background()
	repo, _ := newTestRepos(t)

	seedLoan(t, repo, &loan.Loan{UserID: "user-1", BookID: "book-1"})
	seedLoan(t, repo, &loan.Loan{UserID: "user-1", BookID: "book-2", Status: loan.StatusReturned})
	seedLoan(t, repo, &loan.Loan{UserID: "user-2", BookID: "book-1"})

	t.Run("active loan for a book", func(t *testing.T) {
		found, err := repo.GetActiveLoanForBook(ctx, "book-1")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, loan.StatusActive, found.Status)

		none, err := repo.GetActiveLoanForBook(ctx, "book-2")
		require.NoError(t, err)
		assert.Nil(t, none)
	})

	t.Run("active loans per user", func(t *testing.T) {
		active, err := repo.GetUserActiveLoans(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, active, 1)
	})

	t.Run("all loans per user", func(t *testing.T) {
		all, err := repo.FindByUser(ctx, "user-1")
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})
}

func TestGetUserLoansWithBookInfo(t *testing.T) {
	ctx := context.Background()
	repo, books := newTestRepos(t)

	b := &book.Book{
		Title: "Dune", Author: "Frank Herbert", ISBN: "isbn-1",
		Category: "Science Fiction", PublishedYear: 1965,
		TotalCopies: 2, AvailableCopies: 1, Status: book.StatusAvailable,
	}
	require.NoError(t, books.Create(ctx, b))

	seedLoan(t, repo, &loan.Loan{UserID: "user-1", BookID: b.ID})
	seedLoan(t, repo, &loan.Loan{UserID: "user-1", BookID: "vanished-book"})

	joined, err := repo.GetUserLoansWithBookInfo(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, joined, 2)

	byBook := map[string]*loan.LoanWithBook{}
	for _, item := range joined {
		byBook[item.BookID] = item
	}

	require.NotNil(t, byBook[b.ID].Book)
	assert.Equal(t, "Dune", byBook[b.ID].Book.Title)

	// A loan whose book was deleted still lists, without book details.
	assert.Nil(t, byBook["vanished-book"].Book)
}
