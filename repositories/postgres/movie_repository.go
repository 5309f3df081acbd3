package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"go.uber.org/zap"
)

// MovieRepository implements the repositories.MovieRepository interface
type MovieRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewMovieRepository creates a new movie repository
func NewMovieRepository(db *DB, logger *zap.Logger) repositories.MovieRepository {
	return &MovieRepository{
		db:     db,
		logger: logger,
	}
}

// List returns every movie ordered by ID
func (r *MovieRepository) List(ctx context.Context) ([]*models.Movie, error) {
	query := `SELECT id, title, release FROM movies ORDER BY id`

	executor := GetExecutor(ctx, r.db)
	rows, err := executor.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list movies: %w", err)
	}
	defer rows.Close()

	movies := make([]*models.Movie, 0)
	for rows.Next() {
		movie := &models.Movie{}
		if err := rows.Scan(&movie.ID, &movie.Title, &movie.Release); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate movies: %w", err)
	}

	return movies, nil
}

// GetByID retrieves a movie by ID
func (r *MovieRepository) GetByID(ctx context.Context, id int64) (*models.Movie, error) {
	query := `SELECT id, title, release FROM movies WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	movie := &models.Movie{}

	err := executor.QueryRowContext(ctx, query, id).Scan(&movie.ID, &movie.Title, &movie.Release)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("movie %d: %w", id, repositories.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}

	return movie, nil
}

// Create inserts a movie and sets its ID
func (r *MovieRepository) Create(ctx context.Context, movie *models.Movie) error {
	query := `INSERT INTO movies (title, release) VALUES ($1, $2) RETURNING id`

	executor := GetExecutor(ctx, r.db)
	if err := executor.QueryRowContext(ctx, query, movie.Title, movie.Release).Scan(&movie.ID); err != nil {
		return fmt.Errorf("failed to create movie: %w", err)
	}

	r.logger.Debug("movie created", zap.Int64("id", movie.ID), zap.String("title", movie.Title))
	return nil
}

// Update saves every field of movie
func (r *MovieRepository) Update(ctx context.Context, movie *models.Movie) error {
	query := `UPDATE movies SET title = $2, release = $3 WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, movie.ID, movie.Title, movie.Release)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}

	if err := expectOneRow(result, "movie", movie.ID); err != nil {
		return err
	}

	r.logger.Debug("movie updated", zap.Int64("id", movie.ID))
	return nil
}

// Delete removes a movie
func (r *MovieRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM movies WHERE id = $1`

	executor := GetExecutor(ctx, r.db)
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}

	if err := expectOneRow(result, "movie", id); err != nil {
		return err
	}

	r.logger.Debug("movie deleted", zap.Int64("id", id))
	return nil
}

// expectOneRow turns a write that touched no rows into ErrNotFound
func expectOneRow(result sql.Result, entity string, id int64) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s %d: %w", entity, id, repositories.ErrNotFound)
	}
	return nil
}
