// Package store reads and writes rows of the cinema tables.
package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Movie struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name" validate:"required,max=255"`
}

type Show struct {
	ID        uuid.UUID `db:"id"`
	MovieID   uuid.UUID `db:"movie_id" validate:"required"`
	StartTime time.Time `db:"start_time" validate:"required"`
}

type Cinema struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name" validate:"required,max=255"`
}

type Showroom struct {
	ID       uuid.UUID `db:"id"`
	CinemaID uuid.UUID `db:"cinema_id" validate:"required"`
	Name     string    `db:"name" validate:"required,max=255"`
}

// Pricing is the price of one seat type for one show. Price maps onto a
// DECIMAL(10,2) column.
type Pricing struct {
	ID       uuid.UUID       `db:"id"`
	ShowID   uuid.UUID       `db:"show_id" validate:"required"`
	SeatType string          `db:"seat_type" validate:"required,max=255"`
	Price    decimal.Decimal `db:"price" validate:"price"`
}

// Seat is a seat in a showroom for one show
type Seat struct {
	ID         uuid.UUID `db:"id"`
	ShowID     uuid.UUID `db:"show_id" validate:"required"`
	RoomID     uuid.UUID `db:"room_id" validate:"required"`
	SeatNumber int       `db:"seat_number" validate:"gt=0"`
	SeatType   string    `db:"seat_type" validate:"required,max=255"`
	IsBooked   bool      `db:"is_booked"`
}
