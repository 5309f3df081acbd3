package repositories

import (
	"context"
	"errors"

	"github.com/upb/casting-agency/models"
)

// ErrNotFound is returned when a row does not exist
var ErrNotFound = errors.New("record not found")

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction
	// Automatically commits if function succeeds, rolls back on error
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// MovieRepository handles movie data operations
type MovieRepository interface {
	// List returns every movie ordered by ID
	List(ctx context.Context) ([]*models.Movie, error)

	// GetByID retrieves a movie by ID
	GetByID(ctx context.Context, id int64) (*models.Movie, error)

	// Create inserts a movie and sets its ID
	Create(ctx context.Context, movie *models.Movie) error

	// Update saves every field of movie
	Update(ctx context.Context, movie *models.Movie) error

	// Delete removes a movie
	Delete(ctx context.Context, id int64) error
}

// ActorRepository handles actor data operations
type ActorRepository interface {
	List(ctx context.Context) ([]*models.Actor, error)
	GetByID(ctx context.Context, id int64) (*models.Actor, error)
	Create(ctx context.Context, actor *models.Actor) error
	Update(ctx context.Context, actor *models.Actor) error
	Delete(ctx context.Context, id int64) error
}

// AuditRepository handles audit log data operations
type AuditRepository interface {
	// Insert inserts a new audit log entry
	Insert(ctx context.Context, log *models.AuditLog) error
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Movies    MovieRepository
	Actors    ActorRepository
	AuditLogs AuditRepository
}
