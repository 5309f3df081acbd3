package services

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/services/audit"
)

// MockTransactionManager is a mock implementation of TransactionManager
type MockTransactionManager struct {
	mock.Mock
}

func (m *MockTransactionManager) Begin(ctx context.Context) (repositories.Transaction, error) {
	args := m.Called(ctx)
	if tx := args.Get(0); tx != nil {
		return tx.(repositories.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionManager) InTransaction(ctx context.Context, fn func(ctx context.Context, tx repositories.Transaction) error) error {
	args := m.Called(ctx, fn)
	return args.Error(0)
}

// MockTransaction is a mock implementation of Transaction
type MockTransaction struct {
	mock.Mock
	committed  bool
	rolledback bool
}

func (m *MockTransaction) Commit() error {
	args := m.Called()
	m.committed = true
	return args.Error(0)
}

func (m *MockTransaction) Rollback() error {
	args := m.Called()
	m.rolledback = true
	return args.Error(0)
}

func (m *MockTransaction) Context() context.Context {
	args := m.Called()
	return args.Get(0).(context.Context)
}

// expectTransaction wires a transaction whose context is ctx
func expectTransaction(txMgr *MockTransactionManager, ctx context.Context) *MockTransaction {
	tx := new(MockTransaction)
	txMgr.On("Begin", mock.Anything).Return(tx, nil)
	tx.On("Context").Return(ctx)
	return tx
}

// MockMovieRepository is a mock implementation of MovieRepository
type MockMovieRepository struct {
	mock.Mock
}

func (m *MockMovieRepository) List(ctx context.Context) ([]*models.Movie, error) {
	args := m.Called(ctx)
	if movies := args.Get(0); movies != nil {
		return movies.([]*models.Movie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	args := m.Called(ctx, id)
	if movie := args.Get(0); movie != nil {
		return movie.(*models.Movie), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockMovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *MockMovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	return m.Called(ctx, movie).Error(0)
}

func (m *MockMovieRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockActorRepository is a mock implementation of ActorRepository
type MockActorRepository struct {
	mock.Mock
}

func (m *MockActorRepository) List(ctx context.Context) ([]*models.Actor, error) {
	args := m.Called(ctx)
	if actors := args.Get(0); actors != nil {
		return actors.([]*models.Actor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockActorRepository) GetByID(ctx context.Context, id int64) (*models.Actor, error) {
	args := m.Called(ctx, id)
	if actor := args.Get(0); actor != nil {
		return actor.(*models.Actor), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockActorRepository) Create(ctx context.Context, actor *models.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockActorRepository) Update(ctx context.Context, actor *models.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockActorRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

// MockAuditor records audit calls
type MockAuditor struct {
	mock.Mock
}

func (m *MockAuditor) Record(caller audit.Caller, action models.AuditAction, resourceType string, resourceID int64, details interface{}) error {
	return m.Called(caller, action, resourceType, resourceID, details).Error(0)
}

type txContextKey struct{}

// txContext marks a context as belonging to a test transaction
func txContext() context.Context {
	return context.WithValue(context.Background(), txContextKey{}, "tx")
}

// inTx matches contexts produced by txContext
var inTx = mock.MatchedBy(func(ctx context.Context) bool {
	return ctx.Value(txContextKey{}) == "tx"
})
