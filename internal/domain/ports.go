package domain

import "context"

type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (User, error)
	GetUserByID(ctx context.Context, id int64) (User, error)
	AddUser(ctx context.Context, u NewUser) (User, error)
}

type ReservationRepository interface {
	GetReservationsForGuest(ctx context.Context, guestID int64, limit int) ([]GuestReservation, error)
}

// PropertyStore serves both search and writes so a backend is the single
// source of truth for property data.
type PropertyStore interface {
	SearchProperties(ctx context.Context, f PropertyFilter, limit int) ([]PropertyListing, error)
	AddProperty(ctx context.Context, p Property) (Property, error)
}

// Store is everything a storage backend provides.
type Store interface {
	UserRepository
	ReservationRepository
	PropertyStore
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
}

// FixtureSource yields the raw bytes of a named seed file. Optional files
// that do not exist return ErrNotFound.
type FixtureSource interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

// SeedWriter inserts fixture rows with their original ids.
type SeedWriter interface {
	SeedUser(ctx context.Context, u User) error
	SeedProperty(ctx context.Context, p Property) error
	SeedReservation(ctx context.Context, r Reservation) error
	SeedReview(ctx context.Context, r PropertyReview) error
	ResetSequences(ctx context.Context) error
}
