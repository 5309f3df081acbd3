package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/services/audit"
	"go.uber.org/zap"
)

var producer = audit.Caller{Subject: "auth0|producer", RequestID: "req-1"}

type movieFixture struct {
	repo    *MockMovieRepository
	txMgr   *MockTransactionManager
	auditor *MockAuditor
	service *MovieService
}

func newMovieFixture() *movieFixture {
	f := &movieFixture{
		repo:    new(MockMovieRepository),
		txMgr:   new(MockTransactionManager),
		auditor: new(MockAuditor),
	}
	f.service = NewMovieService(f.repo, f.txMgr, f.auditor, zap.NewNop())
	return f
}

func strPtr(s string) *string { return &s }

func TestMovieService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("returns movies", func(t *testing.T) {
		f := newMovieFixture()
		movies := []*models.Movie{{ID: 1, Title: "Heat", Release: "1995"}}
		f.repo.On("List", ctx).Return(movies, nil)

		got, err := f.service.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, movies, got)
	})

	t.Run("empty catalogue is not found", func(t *testing.T) {
		f := newMovieFixture()
		f.repo.On("List", ctx).Return([]*models.Movie{}, nil)

		_, err := f.service.List(ctx)
		assert.ErrorIs(t, err, ErrMovieNotFound)
	})

	t.Run("repository failure is internal", func(t *testing.T) {
		f := newMovieFixture()
		f.repo.On("List", ctx).Return(nil, errors.New("connection reset"))

		_, err := f.service.List(ctx)
		assert.True(t, IsInternalError(err))
	})
}

func TestMovieService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("stores and audits the movie", func(t *testing.T) {
		f := newMovieFixture()
		f.repo.On("Create", ctx, mock.AnythingOfType("*models.Movie")).
			Run(func(args mock.Arguments) { args.Get(1).(*models.Movie).ID = 9 }).
			Return(nil)
		f.auditor.On("Record", producer, models.AuditActionMovieCreated, "movie", int64(9), mock.Anything).Return(nil)

		movie, err := f.service.Create(ctx, producer, CreateMovieRequest{Title: "Heat", Release: "next week"})
		require.NoError(t, err)
		assert.Equal(t, &models.Movie{ID: 9, Title: "Heat", Release: "next week"}, movie)
		f.repo.AssertExpectations(t)
		f.auditor.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		f := newMovieFixture()

		_, err := f.service.Create(ctx, producer, CreateMovieRequest{Title: "Heat"})
		assert.ErrorIs(t, err, ErrMissingFields)
		assert.Contains(t, GetErrorDetails(err), "release")
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("oversized title is invalid input", func(t *testing.T) {
		f := newMovieFixture()
		long := make([]byte, 300)
		for i := range long {
			long[i] = 'a'
		}

		_, err := f.service.Create(ctx, producer, CreateMovieRequest{Title: string(long), Release: "2025"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("release longer than its column is invalid input", func(t *testing.T) {
		f := newMovieFixture()

		_, err := f.service.Create(ctx, producer, CreateMovieRequest{Title: "Heat", Release: strings.Repeat("9", 121)})
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, GetErrorDetails(err), "release")
		f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("release at the column width is stored", func(t *testing.T) {
		f := newMovieFixture()
		release := strings.Repeat("9", 120)
		f.repo.On("Create", ctx, &models.Movie{Title: "Heat", Release: release}).Return(nil)
		f.auditor.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

		_, err := f.service.Create(ctx, producer, CreateMovieRequest{Title: "Heat", Release: release})
		require.NoError(t, err)
		f.repo.AssertExpectations(t)
	})

	t.Run("audit failure does not fail the request", func(t *testing.T) {
		f := newMovieFixture()
		f.repo.On("Create", ctx, mock.Anything).Return(nil)
		f.auditor.On("Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(errors.New("audit event buffer full"))

		_, err := f.service.Create(ctx, producer, CreateMovieRequest{Title: "Heat", Release: "1995"})
		assert.NoError(t, err)
	})
}

func TestMovieService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("patches within a transaction", func(t *testing.T) {
		f := newMovieFixture()
		tx := expectTransaction(f.txMgr, txContext())
		tx.On("Commit").Return(nil)
		f.repo.On("GetByID", inTx, int64(1)).Return(&models.Movie{ID: 1, Title: "Heat", Release: "1995"}, nil)
		f.repo.On("Update", inTx, &models.Movie{ID: 1, Title: "Heat", Release: "1996"}).Return(nil)
		req := UpdateMovieRequest{Release: strPtr("1996")}
		f.auditor.On("Record", producer, models.AuditActionMovieUpdated, "movie", int64(1), req).Return(nil)

		movie, err := f.service.Update(ctx, producer, 1, req)
		require.NoError(t, err)
		assert.Equal(t, "Heat", movie.Title)
		assert.Equal(t, "1996", movie.Release)
		assert.True(t, tx.committed)
		f.repo.AssertExpectations(t)
		f.auditor.AssertExpectations(t)
	})

	t.Run("empty body is missing fields", func(t *testing.T) {
		f := newMovieFixture()
		tx := expectTransaction(f.txMgr, txContext())
		tx.On("Rollback").Return(nil)
		f.repo.On("GetByID", inTx, int64(1)).Return(&models.Movie{ID: 1, Title: "Heat", Release: "1995"}, nil)

		_, err := f.service.Update(ctx, producer, 1, UpdateMovieRequest{})
		assert.ErrorIs(t, err, ErrMissingFields)
		assert.True(t, tx.rolledback)
		f.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("empty body on unknown id is not found", func(t *testing.T) {
		f := newMovieFixture()
		tx := expectTransaction(f.txMgr, txContext())
		tx.On("Rollback").Return(nil)
		f.repo.On("GetByID", inTx, int64(404)).Return(nil, repositories.ErrNotFound)

		_, err := f.service.Update(ctx, producer, 404, UpdateMovieRequest{})
		assert.ErrorIs(t, err, ErrMovieNotFound)
	})

	t.Run("blank title is invalid input", func(t *testing.T) {
		f := newMovieFixture()

		_, err := f.service.Update(ctx, producer, 1, UpdateMovieRequest{Title: strPtr("")})
		assert.ErrorIs(t, err, ErrInvalidInput)
		f.txMgr.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("release longer than its column is invalid input", func(t *testing.T) {
		f := newMovieFixture()

		_, err := f.service.Update(ctx, producer, 1, UpdateMovieRequest{Release: strPtr(strings.Repeat("9", 121))})
		assert.ErrorIs(t, err, ErrInvalidInput)
		f.txMgr.AssertNotCalled(t, "Begin", mock.Anything)
	})

	t.Run("unknown id is not found and rolls back", func(t *testing.T) {
		f := newMovieFixture()
		tx := expectTransaction(f.txMgr, txContext())
		tx.On("Rollback").Return(nil)
		f.repo.On("GetByID", inTx, int64(404)).Return(nil, repositories.ErrNotFound)

		_, err := f.service.Update(ctx, producer, 404, UpdateMovieRequest{Title: strPtr("Ronin")})
		assert.ErrorIs(t, err, ErrMovieNotFound)
		assert.True(t, tx.rolledback)
		f.auditor.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("update failure is internal", func(t *testing.T) {
		f := newMovieFixture()
		tx := expectTransaction(f.txMgr, txContext())
		tx.On("Rollback").Return(nil)
		f.repo.On("GetByID", inTx, int64(1)).Return(&models.Movie{ID: 1, Title: "Heat", Release: "1995"}, nil)
		f.repo.On("Update", inTx, mock.Anything).Return(errors.New("deadlock detected"))

		_, err := f.service.Update(ctx, producer, 1, UpdateMovieRequest{Title: strPtr("Ronin")})
		assert.True(t, IsInternalError(err))
	})
}

func TestMovieService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes and audits", func(t *testing.T) {
		f := newMovieFixture()
		f.repo.On("Delete", ctx, int64(3)).Return(nil)
		f.auditor.On("Record", producer, models.AuditActionMovieDeleted, "movie", int64(3), nil).Return(nil)

		require.NoError(t, f.service.Delete(ctx, producer, 3))
		f.auditor.AssertExpectations(t)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		f := newMovieFixture()
		f.repo.On("Delete", ctx, int64(3)).Return(repositories.ErrNotFound)

		err := f.service.Delete(ctx, producer, 3)
		assert.ErrorIs(t, err, ErrMovieNotFound)
		assert.True(t, IsNotFoundError(err))
	})
}
