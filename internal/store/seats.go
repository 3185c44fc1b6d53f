package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

type PricingRepository struct {
	repo[Pricing]
}

func NewPricingRepository(ext sqlx.ExtContext, log *zap.Logger) *PricingRepository {
	return &PricingRepository{newRepo[Pricing](ext, log, "pricing", []string{"id", "show_id", "seat_type", "price"}, nil)}
}

// Create inserts p. A show has at most one price per seat type.
func (r *PricingRepository) Create(ctx context.Context, p *Pricing) error {
	p.ID = newID(p.ID)
	return r.create(ctx, p.ID, p)
}

func (r *PricingRepository) FindByID(ctx context.Context, id uuid.UUID) (*Pricing, error) {
	return r.findByID(ctx, id)
}

func (r *PricingRepository) ListByShow(ctx context.Context, showID uuid.UUID) ([]Pricing, error) {
	return r.list(ctx, "show_id = ?", "seat_type", showID)
}

func (r *PricingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, id)
}

type SeatRepository struct {
	repo[Seat]
}

func NewSeatRepository(ext sqlx.ExtContext, log *zap.Logger) *SeatRepository {
	columns := []string{"id", "show_id", "room_id", "seat_number", "seat_type", "is_booked"}
	return &SeatRepository{newRepo[Seat](ext, log, "seats", columns, columns[:5])}
}

// Create inserts s unbooked; is_booked is left to its column default
func (r *SeatRepository) Create(ctx context.Context, s *Seat) error {
	s.ID = newID(s.ID)
	s.IsBooked = false
	return r.create(ctx, s.ID, s)
}

func (r *SeatRepository) FindByID(ctx context.Context, id uuid.UUID) (*Seat, error) {
	return r.findByID(ctx, id)
}

func (r *SeatRepository) ListByShow(ctx context.Context, showID uuid.UUID) ([]Seat, error) {
	return r.list(ctx, "show_id = ?", "seat_number", showID)
}

func (r *SeatRepository) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]Seat, error) {
	return r.list(ctx, "room_id = ?", "seat_number", roomID)
}

// ListAvailableByShow returns the unbooked seats of a show
func (r *SeatRepository) ListAvailableByShow(ctx context.Context, showID uuid.UUID) ([]Seat, error) {
	return r.list(ctx, "show_id = ? AND is_booked = ?", "seat_number", showID, false)
}

// MarkBooked flips a seat from free to booked. It is a single conditional
// update; it does not hold or lock seats.
func (r *SeatRepository) MarkBooked(ctx context.Context, id uuid.UUID) error {
	query := r.ext.Rebind("UPDATE seats SET is_booked = ? WHERE id = ? AND is_booked = ?")

	result, err := r.ext.ExecContext(ctx, query, true, id, false)
	if err != nil {
		r.log.Error("Failed to book seat", zap.Error(err), zap.String("seat_id", id.String()))
		return fmt.Errorf("book seat: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("book seat: %w", err)
	}
	if n == 1 {
		r.log.Info("Seat booked", zap.String("seat_id", id.String()))
		return nil
	}

	seat, err := r.findByID(ctx, id)
	if err != nil {
		return err
	}
	if seat == nil {
		return fmt.Errorf("book seat %s: %w", id, ErrNotFound)
	}
	return fmt.Errorf("book seat %s: %w", id, ErrAlreadyBooked)
}

func (r *SeatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.delete(ctx, id)
}
