package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type CinemaRepository struct {
	repo[Cinema]
}

func NewCinemaRepository(ext sqlx.ExtContext, log *zap.Logger) *CinemaRepository {
	return &CinemaRepository{newRepo[Cinema](ext, log, "cinemas", []string{"id", "name"}, nil)}
}

func (r *CinemaRepository) Create(ctx context.Context, c *Cinema) error {
	c.ID = newID(c.ID)
	return r.create(ctx, c.ID, c)
}

func (r *CinemaRepository) FindByID(ctx context.Context, id uuid.UUID) (*Cinema, error) {
	return r.findByID(ctx, id)
}

func (r *CinemaRepository) List(ctx context.Context) ([]Cinema, error) {
	return r.list(ctx, "", "name")
}

// Delete removes the cinema with its showrooms and their seats
func (r *CinemaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, id)
}

type ShowroomRepository struct {
	repo[Showroom]
}

func NewShowroomRepository(ext sqlx.ExtContext, log *zap.Logger) *ShowroomRepository {
	return &ShowroomRepository{newRepo[Showroom](ext, log, "showrooms", []string{"id", "cinema_id", "name"}, nil)}
}

func (r *ShowroomRepository) Create(ctx context.Context, s *Showroom) error {
	s.ID = newID(s.ID)
	return r.create(ctx, s.ID, s)
}

func (r *ShowroomRepository) FindByID(ctx context.Context, id uuid.UUID) (*Showroom, error) {
	return r.findByID(ctx, id)
}

func (r *ShowroomRepository) ListByCinema(ctx context.Context, cinemaID uuid.UUID) ([]Showroom, error) {
	return r.list(ctx, "cinema_id = ?", "name", cinemaID)
}

// Delete removes the showroom with its seats
func (r *ShowroomRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, id)
}
