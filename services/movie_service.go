package services

import (
	"context"
	"errors"

	"github.com/upb/casting-agency/models"
	"github.com/upb/casting-agency/repositories"
	"github.com/upb/casting-agency/services/audit"
	"go.uber.org/zap"
)

const resourceMovie = "movie"

// CreateMovieRequest is the body of POST /movies. Length limits follow the
// movies table columns.
type CreateMovieRequest struct {
	Title   string `json:"title" validate:"required,max=255"`
	Release string `json:"release" validate:"required,max=120"`
}

// UpdateMovieRequest is the body of PATCH /movies/{id}. Absent fields are kept.
type UpdateMovieRequest struct {
	Title   *string `json:"title" validate:"omitempty,min=1,max=255"`
	Release *string `json:"release" validate:"omitempty,min=1,max=120"`
}

func (r UpdateMovieRequest) patch() models.MoviePatch {
	return models.MoviePatch{Title: r.Title, Release: r.Release}
}

// MovieService implements the movie catalogue operations
type MovieService struct {
	movies  repositories.MovieRepository
	txMgr   repositories.TransactionManager
	auditor Auditor
	logger  *zap.Logger
}

// NewMovieService creates a new MovieService
func NewMovieService(movies repositories.MovieRepository, txMgr repositories.TransactionManager, auditor Auditor, logger *zap.Logger) *MovieService {
	return &MovieService{
		movies:  movies,
		txMgr:   txMgr,
		auditor: auditor,
		logger:  logger,
	}
}

// List returns every movie. An empty catalogue is ErrMovieNotFound.
func (s *MovieService) List(ctx context.Context) ([]*models.Movie, error) {
	movies, err := s.movies.List(ctx)
	if err != nil {
		return nil, WrapInternal("failed to list movies", err)
	}
	if len(movies) == 0 {
		return nil, notFound(ErrMovieNotFound, nil)
	}
	return movies, nil
}

// Create validates req and stores a new movie
func (s *MovieService) Create(ctx context.Context, caller audit.Caller, req CreateMovieRequest) (*models.Movie, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}

	movie := models.NewMovie(req.Title, req.Release)
	if err := s.movies.Create(ctx, movie); err != nil {
		return nil, WrapInternal("failed to create movie", err)
	}

	s.logger.Info("movie created",
		zap.Int64("movie_id", movie.ID),
		zap.String("subject", caller.Subject))
	record(s.auditor, s.logger, caller, models.AuditActionMovieCreated, resourceMovie, movie.ID, movie)

	return movie, nil
}

// Update applies the fields present in req to movie id
func (s *MovieService) Update(ctx context.Context, caller audit.Caller, id int64, req UpdateMovieRequest) (*models.Movie, error) {
	if err := validate(&req); err != nil {
		return nil, err
	}
	patch := req.patch()

	movie, err := WithTransactionResult(ctx, s.txMgr, func(ctx context.Context) (*models.Movie, error) {
		movie, err := s.movies.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		// an unknown id wins over an empty body
		if patch.IsEmpty() {
			return nil, missingFields(map[string]string{"title": "one of title, release is required"})
		}
		patch.Apply(movie)
		if err := s.movies.Update(ctx, movie); err != nil {
			return nil, err
		}
		return movie, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrNotFound):
			return nil, notFound(ErrMovieNotFound, err)
		case GetErrorType(err) != "":
			return nil, err
		}
		return nil, WrapInternal("failed to update movie", err)
	}

	record(s.auditor, s.logger, caller, models.AuditActionMovieUpdated, resourceMovie, movie.ID, req)

	return movie, nil
}

// Delete removes movie id
func (s *MovieService) Delete(ctx context.Context, caller audit.Caller, id int64) error {
	if err := s.movies.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return notFound(ErrMovieNotFound, err)
		}
		return WrapInternal("failed to delete movie", err)
	}

	s.logger.Info("movie deleted",
		zap.Int64("movie_id", id),
		zap.String("subject", caller.Subject))
	record(s.auditor, s.logger, caller, models.AuditActionMovieDeleted, resourceMovie, id, nil)

	return nil
}
