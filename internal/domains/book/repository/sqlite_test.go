package repository

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/clock"
)

func openTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestRepo(t *testing.T) book.Repository {
	t.Helper()
	clk := clock.Fixed{T: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewSQLiteRepository(openTestDB(t), nil, clk)
}

func seedBook(t *testing.T, repo book.Repository, b *book.Book) *book.Book {
	t.Helper()
	if b.Status == "" {
		b.Status = book.StatusAvailable
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}

func TestBookCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created := seedBook(t, repo, &book.Book{
		Title: "Dune", Author: "Frank Herbert", ISBN: "9780441172719",
		Category: "Science Fiction", PublishedYear: 1965,
		TotalCopies: 3, AvailableCopies: 3,
	})
	require.NotEmpty(t, created.ID)

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "Dune", found.Title)
		assert.Equal(t, 3, found.AvailableCopies)
	})

	t.Run("find by isbn", func(t *testing.T) {
		found, err := repo.FindByISBN(ctx, "9780441172719")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("missing rows come back nil without error", func(t *testing.T) {
		found, err := repo.FindByID(ctx, "ghost")
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("update persists changed fields", func(t *testing.T) {
		created.Title = "Dune (Anniversary Edition)"
		require.NoError(t, repo.Update(ctx, created))

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Dune (Anniversary Edition)", found.Title)
	})

	t.Run("delete removes the row", func(t *testing.T) {
		victim := seedBook(t, repo, &book.Book{
			Title: "Ephemeral", Author: "Nobody", ISBN: "0000000000000",
			Category: "Test", PublishedYear: 2000, TotalCopies: 1, AvailableCopies: 1,
		})
		require.NoError(t, repo.Delete(ctx, victim.ID))

		found, err := repo.FindByID(ctx, victim.ID)
		require.NoError(t, err)
		assert.Nil(t, found)
	})

	t.Run("deleting a missing row reports not found", func(t *testing.T) {
		assert.ErrorIs(t, repo.Delete(ctx, "ghost"), book.ErrBookNotFound)
	})
}

func TestBookSearch(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	seedBook(t, repo, &book.Book{
		Title: "Dune", Author: "Frank Herbert", ISBN: "isbn-1",
		Category: "Science Fiction", PublishedYear: 1965, TotalCopies: 2, AvailableCopies: 2,
	})
	seedBook(t, repo, &book.Book{
		Title: "Children of Dune", Author: "Frank Herbert", ISBN: "isbn-2",
		Category: "Science Fiction", PublishedYear: 1976, TotalCopies: 1, AvailableCopies: 0,
		Status: book.StatusBorrowed,
	})
	seedBook(t, repo, &book.Book{
		Title: "El Aleph", Author: "Jorge Luis Borges", ISBN: "isbn-3",
		Category: "Fiction", PublishedYear: 1949, TotalCopies: 1, AvailableCopies: 1,
	})

	t.Run("title matches as substring, ordered by title", func(t *testing.T) {
		results, err := repo.Search(ctx, book.SearchCriteria{Title: "Dune"})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Children of Dune", results[0].Title)
		assert.Equal(t, "Dune", results[1].Title)
	})

	t.Run("author matches as substring", func(t *testing.T) {
		results, err := repo.Search(ctx, book.SearchCriteria{Author: "Borges"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "El Aleph", results[0].Title)
	})

	t.Run("isbn matches exactly", func(t *testing.T) {
		results, err := repo.Search(ctx, book.SearchCriteria{ISBN: "isbn-1"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Dune", results[0].Title)
	})

	t.Run("status filter wins over availableOnly", func(t *testing.T) {
		results, err := repo.Search(ctx, book.SearchCriteria{
			Status: book.StatusBorrowed, AvailableOnly: true,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Children of Dune", results[0].Title)
	})

	t.Run("availableOnly hides exhausted books", func(t *testing.T) {
		results, err := repo.Search(ctx, book.SearchCriteria{
			Category: "Science Fiction", AvailableOnly: true,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Dune", results[0].Title)
	})

	t.Run("FindAvailable lists only borrowable books", func(t *testing.T) {
		results, err := repo.FindAvailable(ctx)
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})
}

func TestUpdateAvailableCopies(t *testing.T) {
	ctx := context.Background()

	t.Run("decrementing to zero flips status to borrowed", func(t *testing.T) {
		repo := newTestRepo(t)
		b := seedBook(t, repo, &book.Book{
			Title: "Solo", Author: "A", ISBN: "solo-1", Category: "C",
			PublishedYear: 2000, TotalCopies: 1, AvailableCopies: 1,
		})

		ok, err := repo.UpdateAvailableCopies(ctx, b.ID, -1)
		require.NoError(t, err)
		assert.True(t, ok)

		found, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, found.AvailableCopies)
		assert.Equal(t, book.StatusBorrowed, found.Status)
	})

	t.Run("incrementing from zero flips status back to available", func(t *testing.T) {
		repo := newTestRepo(t)
		b := seedBook(t, repo, &book.Book{
			Title: "Solo", Author: "A", ISBN: "solo-2", Category: "C",
			PublishedYear: 2000, TotalCopies: 1, AvailableCopies: 0,
			Status: book.StatusBorrowed,
		})

		ok, err := repo.UpdateAvailableCopies(ctx, b.ID, +1)
		require.NoError(t, err)
		assert.True(t, ok)

		found, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, found.AvailableCopies)
		assert.Equal(t, book.StatusAvailable, found.Status)
	})

	t.Run("never goes below zero", func(t *testing.T) {
		repo := newTestRepo(t)
		b := seedBook(t, repo, &book.Book{
			Title: "Solo", Author: "A", ISBN: "solo-3", Category: "C",
			PublishedYear: 2000, TotalCopies: 1, AvailableCopies: 0,
			Status: book.StatusBorrowed,
		})

		ok, err := repo.UpdateAvailableCopies(ctx, b.ID, -1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("never exceeds total copies", func(t *testing.T) {
		repo := newTestRepo(t)
		b := seedBook(t, repo, &book.Book{
			Title: "Solo", Author: "A", ISBN: "solo-4", Category: "C",
			PublishedYear: 2000, TotalCopies: 2, AvailableCopies: 2,
		})

		ok, err := repo.UpdateAvailableCopies(ctx, b.ID, +1)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("maintenance status survives copy movements", func(t *testing.T) {
		repo := newTestRepo(t)
		b := seedBook(t, repo, &book.Book{
			Title: "Shelved", Author: "A", ISBN: "solo-5", Category: "C",
			PublishedYear: 2000, TotalCopies: 2, AvailableCopies: 2,
			Status: book.StatusMaintenance,
		})

		ok, err := repo.UpdateAvailableCopies(ctx, b.ID, -1)
		require.NoError(t, err)
		assert.True(t, ok)

		found, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, book.StatusMaintenance, found.Status)
	})

	t.Run("concurrent borrowers of the last copy produce exactly one winner", func(t *testing.T) {
		repo := newTestRepo(t)
		b := seedBook(t, repo, &book.Book{
			Title: "Contested", Author: "A", ISBN: "race-1", Category: "C",
			PublishedYear: 2000, TotalCopies: 1, AvailableCopies: 1,
		})

		const borrowers = 8
		var (
			wg   sync.WaitGroup
			wins atomic.Int32
		)
		for i := 0; i < borrowers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := repo.UpdateAvailableCopies(ctx, b.ID, -1)
				if err == nil && ok {
					wins.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, int32(1), wins.Load())

		found, err := repo.FindByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, found.AvailableCopies)
	})
}
