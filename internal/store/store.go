package store

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Store groups the repositories of every cinema table
type Store struct {
	Movies    *MovieRepository
	Shows     *ShowRepository
	Cinemas   *CinemaRepository
	Showrooms *ShowroomRepository
	Pricing   *PricingRepository
	Seats     *SeatRepository
}

// New binds every repository to ext, which may be a *sqlx.DB or a *sqlx.Tx
func New(ext sqlx.ExtContext, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		Movies:    NewMovieRepository(ext, log),
		Shows:     NewShowRepository(ext, log),
		Cinemas:   NewCinemaRepository(ext, log),
		Showrooms: NewShowroomRepository(ext, log),
		Pricing:   NewPricingRepository(ext, log),
		Seats:     NewSeatRepository(ext, log),
	}
}
