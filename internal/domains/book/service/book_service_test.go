package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book"
	"library-backend/internal/domains/loan"
	"library-backend/internal/domains/user"
	"library-backend/pkg/clock"
)

type fakeBookRepo struct {
	books map[string]*book.Book

	lastSearch    *book.SearchCriteria
	listedAll     bool
	listedAvail   bool
	failingUpdate bool
}

func (f *fakeBookRepo) FindByID(_ context.Context, id string) (*book.Book, error) {
	if b, ok := f.books[id]; ok {
		clone := *b
		return &clone, nil
	}
	return nil, nil
}

func (f *fakeBookRepo) FindByISBN(_ context.Context, isbn string) (*book.Book, error) {
	for _, b := range f.books {
		if b.ISBN == isbn {
			clone := *b
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeBookRepo) FindAll(context.Context) ([]*book.Book, error) {
	f.listedAll = true
	return nil, nil
}

func (f *fakeBookRepo) FindAvailable(context.Context) ([]*book.Book, error) {
	f.listedAvail = true
	return nil, nil
}

func (f *fakeBookRepo) Search(_ context.Context, criteria book.SearchCriteria) ([]*book.Book, error) {
	f.lastSearch = &criteria
	return nil, nil
}

func (f *fakeBookRepo) Create(_ context.Context, b *book.Book) error {
	if b.ID == "" {
		b.ID = "book-" + b.ISBN
	}
	clone := *b
	f.books[b.ID] = &clone
	return nil
}

func (f *fakeBookRepo) Update(_ context.Context, b *book.Book) error {
	if f.failingUpdate {
		return errors.New("disk full")
	}
	clone := *b
	f.books[b.ID] = &clone
	return nil
}

func (f *fakeBookRepo) Delete(_ context.Context, id string) error {
	delete(f.books, id)
	return nil
}

func (f *fakeBookRepo) UpdateAvailableCopies(_ context.Context, id string, delta int) (bool, error) {
	b, ok := f.books[id]
	if !ok {
		return false, nil
	}
	next := b.AvailableCopies + delta
	if next < 0 || next > b.TotalCopies {
		return false, nil
	}
	b.AvailableCopies = next
	return true, nil
}

type fakeLoanProbe struct {
	active *loan.Loan
	err    error
}

func (f *fakeLoanProbe) GetActiveLoanForBook(context.Context, string) (*loan.Loan, error) {
	return f.active, f.err
}

func newTestBookService() (book.Service, *fakeBookRepo, *fakeLoanProbe) {
	repo := &fakeBookRepo{books: map[string]*book.Book{}}
	probe := &fakeLoanProbe{}
	clk := clock.Fixed{T: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewBookService(repo, probe, clk), repo, probe
}

func validCreate() book.CreateRequest {
	return book.CreateRequest{
		Title:         "Dune",
		Author:        "Frank Herbert",
		ISBN:          "9780441172719",
		Category:      "Science Fiction",
		PublishedYear: 1965,
		TotalCopies:   3,
	}
}

func TestCreateBook(t *testing.T) {
	ctx := context.Background()

	t.Run("every copy of a new book starts available", func(t *testing.T) {
		svc, _, _ := newTestBookService()

		created, err := svc.Create(ctx, user.RoleLibrarian, validCreate())
		require.NoError(t, err)

		assert.Equal(t, 3, created.TotalCopies)
		assert.Equal(t, 3, created.AvailableCopies)
		assert.Equal(t, book.StatusAvailable, created.Status)
	})

	t.Run("members cannot create books", func(t *testing.T) {
		svc, _, _ := newTestBookService()

		_, err := svc.Create(ctx, user.RoleMember, validCreate())
		assert.ErrorIs(t, err, book.ErrCreateForbidden)
	})

	t.Run("admins can create books", func(t *testing.T) {
		svc, _, _ := newTestBookService()

		_, err := svc.Create(ctx, user.RoleAdmin, validCreate())
		assert.NoError(t, err)
	})

	t.Run("requires the core fields", func(t *testing.T) {
		svc, _, _ := newTestBookService()

		req := validCreate()
		req.ISBN = "  "
		_, err := svc.Create(ctx, user.RoleLibrarian, req)
		assert.ErrorIs(t, err, book.ErrFieldsRequired)
	})

	t.Run("rejects implausible years", func(t *testing.T) {
		svc, _, _ := newTestBookService()

		for _, year := range []int{999, 0, 2026} {
			req := validCreate()
			req.PublishedYear = year
			_, err := svc.Create(ctx, user.RoleLibrarian, req)
			assert.ErrorIs(t, err, book.ErrInvalidYear, "year %d", year)
		}
	})

	t.Run("requires at least one copy", func(t *testing.T) {
		svc, _, _ := newTestBookService()

		req := validCreate()
		req.TotalCopies = 0
		_, err := svc.Create(ctx, user.RoleLibrarian, req)
		assert.ErrorIs(t, err, book.ErrInvalidCopies)
	})

	t.Run("rejects a duplicate ISBN", func(t *testing.T) {
		svc, _, _ := newTestBookService()

		_, err := svc.Create(ctx, user.RoleLibrarian, validCreate())
		require.NoError(t, err)

		_, err = svc.Create(ctx, user.RoleLibrarian, validCreate())
		assert.ErrorIs(t, err, book.ErrDuplicateISBN)
	})
}

func TestUpdateBook(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, svc book.Service) *book.Book {
		t.Helper()
		created, err := svc.Create(ctx, user.RoleLibrarian, validCreate())
		require.NoError(t, err)
		return created
	}

	strPtr := func(s string) *string { return &s }
	intPtr := func(i int) *int { return &i }

	t.Run("applies only the provided fields", func(t *testing.T) {
		svc, _, _ := newTestBookService()
		created := create(t, svc)

		updated, err := svc.Update(ctx, user.RoleLibrarian, created.ID, book.UpdateRequest{
			Title: strPtr("  Dune Messiah  "),
		})
		require.NoError(t, err)

		assert.Equal(t, "Dune Messiah", updated.Title)
		assert.Equal(t, created.Author, updated.Author)
		assert.Equal(t, created.ISBN, updated.ISBN)
	})

	t.Run("members cannot update books", func(t *testing.T) {
		svc, _, _ := newTestBookService()
		created := create(t, svc)

		_, err := svc.Update(ctx, user.RoleMember, created.ID, book.UpdateRequest{})
		assert.ErrorIs(t, err, book.ErrUpdateForbidden)
	})

	t.Run("rejects an unknown book", func(t *testing.T) {
		svc, _, _ := newTestBookService()

		_, err := svc.Update(ctx, user.RoleLibrarian, "ghost", book.UpdateRequest{})
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})

	t.Run("rejects blank required fields", func(t *testing.T) {
		svc, _, _ := newTestBookService()
		created := create(t, svc)

		_, err := svc.Update(ctx, user.RoleLibrarian, created.ID, book.UpdateRequest{Title: strPtr(" ")})
		assert.ErrorIs(t, err, book.ErrTitleEmpty)

		_, err = svc.Update(ctx, user.RoleLibrarian, created.ID, book.UpdateRequest{Author: strPtr("")})
		assert.ErrorIs(t, err, book.ErrAuthorEmpty)

		_, err = svc.Update(ctx, user.RoleLibrarian, created.ID, book.UpdateRequest{Category: strPtr("")})
		assert.ErrorIs(t, err, book.ErrCategoryEmpty)
	})

	t.Run("rejects changing to a taken ISBN", func(t *testing.T) {
		svc, _, _ := newTestBookService()
		created := create(t, svc)

		other := validCreate()
		other.ISBN = "9780553283686"
		_, err := svc.Create(ctx, user.RoleLibrarian, other)
		require.NoError(t, err)

		_, err = svc.Update(ctx, user.RoleLibrarian, created.ID, book.UpdateRequest{
			ISBN: strPtr("9780553283686"),
		})
		assert.ErrorIs(t, err, book.ErrDuplicateISBN)
	})

	t.Run("growing the holdings grows the shelf count", func(t *testing.T) {
		svc, _, _ := newTestBookService()
		created := create(t, svc)

		updated, err := svc.Update(ctx, user.RoleLibrarian, created.ID, book.UpdateRequest{
			TotalCopies: intPtr(5),
		})
		require.NoError(t, err)

		assert.Equal(t, 5, updated.TotalCopies)
		assert.Equal(t, 5, updated.AvailableCopies)
	})

	t.Run("shrinking below the loaned-out count clamps at zero", func(t *testing.T) {
		svc, repo, _ := newTestBookService()
		created := create(t, svc)
		repo.books[created.ID].AvailableCopies = 1 // two copies out on loan

		updated, err := svc.Update(ctx, user.RoleLibrarian, created.ID, book.UpdateRequest{
			TotalCopies: intPtr(1),
		})
		require.NoError(t, err)

		assert.Equal(t, 1, updated.TotalCopies)
		assert.Equal(t, 0, updated.AvailableCopies)
	})

	t.Run("persistence failure reports the stable message", func(t *testing.T) {
		svc, repo, _ := newTestBookService()
		created := create(t, svc)
		repo.failingUpdate = true

		_, err := svc.Update(ctx, user.RoleLibrarian, created.ID, book.UpdateRequest{})
		assert.ErrorIs(t, err, book.ErrUpdateFailed)
	})
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, svc book.Service) *book.Book {
		t.Helper()
		created, err := svc.Create(ctx, user.RoleLibrarian, validCreate())
		require.NoError(t, err)
		return created
	}

	t.Run("deletes and confirms", func(t *testing.T) {
		svc, repo, _ := newTestBookService()
		created := create(t, svc)

		result, err := svc.Delete(ctx, user.RoleLibrarian, created.ID)
		require.NoError(t, err)

		assert.Equal(t, "Book deleted successfully", result.Message)
		assert.NotContains(t, repo.books, created.ID)
	})

	t.Run("members cannot delete books", func(t *testing.T) {
		svc, _, _ := newTestBookService()
		created := create(t, svc)

		_, err := svc.Delete(ctx, user.RoleMember, created.ID)
		assert.ErrorIs(t, err, book.ErrDeleteForbidden)
	})

	t.Run("refuses while a copy is out on loan", func(t *testing.T) {
		svc, repo, probe := newTestBookService()
		created := create(t, svc)
		probe.active = &loan.Loan{ID: "loan-1", BookID: created.ID, Status: loan.StatusActive}

		_, err := svc.Delete(ctx, user.RoleLibrarian, created.ID)
		assert.ErrorIs(t, err, book.ErrHasActiveLoans)
		assert.Contains(t, repo.books, created.ID)
	})

	t.Run("a failing loan probe does not block deletion", func(t *testing.T) {
		svc, repo, probe := newTestBookService()
		created := create(t, svc)
		probe.err = errors.New("loans table unreachable")

		_, err := svc.Delete(ctx, user.RoleLibrarian, created.ID)
		assert.NoError(t, err)
		assert.NotContains(t, repo.books, created.ID)
	})

	t.Run("rejects an unknown book", func(t *testing.T) {
		svc, _, _ := newTestBookService()

		_, err := svc.Delete(ctx, user.RoleLibrarian, "ghost")
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

func TestGetBook(t *testing.T) {
	ctx := context.Background()

	t.Run("requires an id", func(t *testing.T) {
		svc, _, _ := newTestBookService()

		_, err := svc.Get(ctx, " ")
		assert.ErrorIs(t, err, book.ErrIDRequired)
	})

	t.Run("rejects an unknown book", func(t *testing.T) {
		svc, _, _ := newTestBookService()

		_, err := svc.Get(ctx, "ghost")
		assert.ErrorIs(t, err, book.ErrBookNotFound)
	})
}

func TestSearchBooks(t *testing.T) {
	ctx := context.Background()

	t.Run("no criteria lists the whole catalog", func(t *testing.T) {
		svc, repo, _ := newTestBookService()

		_, err := svc.Search(ctx, book.SearchQuery{})
		require.NoError(t, err)
		assert.True(t, repo.listedAll)
	})

	t.Run("availableOnly without criteria takes the shortcut", func(t *testing.T) {
		svc, repo, _ := newTestBookService()

		_, err := svc.Search(ctx, book.SearchQuery{AvailableOnly: true})
		require.NoError(t, err)
		assert.True(t, repo.listedAvail)
		assert.False(t, repo.listedAll)
	})

	t.Run("an explicit status supersedes availableOnly", func(t *testing.T) {
		svc, repo, _ := newTestBookService()

		_, err := svc.Search(ctx, book.SearchQuery{
			Status:        string(book.StatusMaintenance),
			AvailableOnly: true,
		})
		require.NoError(t, err)
		require.NotNil(t, repo.lastSearch)
		assert.Equal(t, book.StatusMaintenance, repo.lastSearch.Status)
	})

	t.Run("trims criteria before matching", func(t *testing.T) {
		svc, repo, _ := newTestBookService()

		_, err := svc.Search(ctx, book.SearchQuery{Title: "  dune  "})
		require.NoError(t, err)
		require.NotNil(t, repo.lastSearch)
		assert.Equal(t, "dune", repo.lastSearch.Title)
	})
}
