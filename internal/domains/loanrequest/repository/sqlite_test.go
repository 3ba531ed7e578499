package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/loanrequest"
	"library-backend/internal/infrastructure/database"
	"library-backend/pkg/clock"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestRepo(t *testing.T) loanrequest.Repository {
	t.Helper()
	db, err := database.Connect(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLiteRepository(db, clock.Fixed{T: testNow})
}

func seedRequest(t *testing.T, repo loanrequest.Repository, token string) *loanrequest.LoanRequest {
	t.Helper()
	lr := &loanrequest.LoanRequest{
		UserID:      "user-1",
		BookID:      "book-1",
		Status:      loanrequest.StatusPending,
		RequestDate: testNow,
		Token:       token,
	}
	require.NoError(t, repo.Create(context.Background(), lr))
	return lr
}

func TestLoanRequestRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created := seedRequest(t, repo, "token-abc")

	found, err := repo.FindByToken(ctx, "token-abc")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, loanrequest.StatusPending, found.Status)
	assert.Nil(t, found.ReviewedBy)
	assert.Nil(t, found.DueDate)

	missing, err := repo.FindByToken(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestApproveIsSingleShot(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created := seedRequest(t, repo, "token-1")
	due := testNow.AddDate(0, 0, 15)

	require.NoError(t, repo.Approve(ctx, created.ID, "librarian-1", testNow, due))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, loanrequest.StatusApproved, found.Status)
	require.NotNil(t, found.ReviewedBy)
	assert.Equal(t, "librarian-1", *found.ReviewedBy)
	require.NotNil(t, found.DueDate)
	assert.True(t, found.DueDate.Equal(due))

	// The pending guard makes a second transition a no-op.
	assert.ErrorIs(t, repo.Approve(ctx, created.ID, "librarian-2", testNow, due), loanrequest.ErrRequestNotFound)
	assert.ErrorIs(t, repo.Reject(ctx, created.ID, "librarian-2", testNow, "late"), loanrequest.ErrRequestNotFound)
}

func TestReject(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created := seedRequest(t, repo, "token-2")

	require.NoError(t, repo.Reject(ctx, created.ID, "librarian-1", testNow, "Fuera de catálogo"))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, loanrequest.StatusRejected, found.Status)
	require.NotNil(t, found.RejectionReason)
	assert.Equal(t, "Fuera de catálogo", *found.RejectionReason)

	t.Run("empty reason stays null", func(t *testing.T) {
		other := seedRequest(t, repo, "token-3")
		require.NoError(t, repo.Reject(ctx, other.ID, "librarian-1", testNow, ""))

		found, err := repo.FindByID(ctx, other.ID)
		require.NoError(t, err)
		assert.Nil(t, found.RejectionReason)
	})
}

func TestFindPending(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first := seedRequest(t, repo, "token-1")
	second := seedRequest(t, repo, "token-2")
	require.NoError(t, repo.Approve(ctx, second.ID, "librarian-1", testNow, testNow.AddDate(0, 0, 15)))

	pending, err := repo.FindPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)
}

func TestDeleteRequest(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	created := seedRequest(t, repo, "token-1")
	require.NoError(t, repo.Delete(ctx, created.ID))

	found, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	assert.ErrorIs(t, repo.Delete(ctx, created.ID), loanrequest.ErrRequestNotFound)
}
