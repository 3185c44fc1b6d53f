package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type MovieRepository struct {
	repo[Movie]
}

func NewMovieRepository(ext sqlx.ExtContext, log *zap.Logger) *MovieRepository {
	return &MovieRepository{newRepo[Movie](ext, log, "movies", []string{"id", "name"}, nil)}
}

// Create inserts m, assigning a new ID when it has none
func (r *MovieRepository) Create(ctx context.Context, m *Movie) error {
	m.ID = newID(m.ID)
	return r.create(ctx, m.ID, m)
}

func (r *MovieRepository) FindByID(ctx context.Context, id uuid.UUID) (*Movie, error) {
	return r.findByID(ctx, id)
}

func (r *MovieRepository) List(ctx context.Context) ([]Movie, error) {
	return r.list(ctx, "", "name")
}

// Delete removes the movie with its shows and their pricing and seats
func (r *MovieRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, id)
}

type ShowRepository struct {
	repo[Show]
}

func NewShowRepository(ext sqlx.ExtContext, log *zap.Logger) *ShowRepository {
	return &ShowRepository{newRepo[Show](ext, log, "shows", []string{"id", "movie_id", "start_time"}, nil)}
}

func (r *ShowRepository) Create(ctx context.Context, s *Show) error {
	s.ID = newID(s.ID)
	return r.create(ctx, s.ID, s)
}

func (r *ShowRepository) FindByID(ctx context.Context, id uuid.UUID) (*Show, error) {
	return r.findByID(ctx, id)
}

// ListByMovie returns the shows of a movie ordered by start time
func (r *ShowRepository) ListByMovie(ctx context.Context, movieID uuid.UUID) ([]Show, error) {
	return r.list(ctx, "movie_id = ?", "start_time", movieID)
}

// Delete removes the show with its pricing and seats
func (r *ShowRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, id)
}
