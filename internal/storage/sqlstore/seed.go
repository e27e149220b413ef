package sqlstore

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"lightbnb/internal/domain"
)

// Seed writers insert fixture rows with their original ids. They exist for
// cmd/seeder only; rows that are already present are left untouched.

func (r *Repo) insertIgnore(ctx context.Context, op, table, cols string, arg any) error {
	var q string
	if r.bindType == sqlx.DOLLAR {
		q = "INSERT INTO " + table + " " + cols + " ON CONFLICT (id) DO NOTHING"
	} else {
		q = "INSERT IGNORE INTO " + table + " " + cols
	}
	_, err := r.db.NamedExecContext(ctx, q, arg)
	return wrapErr(op, err)
}

func (r *Repo) SeedUser(ctx context.Context, u domain.User) error {
	return r.insertIgnore(ctx, "seed_user", "users", seedUserCols, u)
}

func (r *Repo) SeedProperty(ctx context.Context, p domain.Property) error {
	return r.insertIgnore(ctx, "seed_property", "properties", seedPropertyCols, p)
}

func (r *Repo) SeedReservation(ctx context.Context, rv domain.Reservation) error {
	return r.insertIgnore(ctx, "seed_reservation", "reservations", seedReservationCols, rv)
}

func (r *Repo) SeedReview(ctx context.Context, rv domain.PropertyReview) error {
	return r.insertIgnore(ctx, "seed_review", "property_reviews", seedReviewCols, rv)
}

// ResetSequences moves the Postgres id sequences past the seeded ids so
// AddUser/AddProperty keep generating fresh ids. MySQL does this itself.
func (r *Repo) ResetSequences(ctx context.Context) error {
	if r.bindType != sqlx.DOLLAR {
		return nil
	}
	for _, table := range []string{"users", "properties", "reservations", "property_reviews"} {
		if _, err := r.db.ExecContext(ctx, fmt.Sprintf(resetSequenceSQL, table)); err != nil {
			return wrapErr("reset_sequence_"+table, err)
		}
	}
	return nil
}
