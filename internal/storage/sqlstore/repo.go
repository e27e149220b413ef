package sqlstore

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"lightbnb/internal/adapters/observability"
	"lightbnb/internal/domain"
)

// Repo implements domain.Store on a relational database. It works with the
// pgx (Postgres) and mysql drivers; statements are rebound to the driver's
// placeholder style.
type Repo struct {
	db        *sqlx.DB
	bindType  int
	returning bool // INSERT ... RETURNING is available
}

func New(db *sqlx.DB) *Repo {
	bt := sqlx.BindType(db.DriverName())
	return &Repo{db: db, bindType: bt, returning: bt == sqlx.DOLLAR}
}

// observe records the duration and outcome of one statement.
func observe(op string, start time.Time, err error) {
	observability.ObserveQuery(op, outcome(err), time.Since(start))
}

func (r *Repo) GetUserByEmail(ctx context.Context, email string) (u domain.User, err error) {
	const op = "get_user_by_email"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	err = r.db.GetContext(ctx, &u, r.db.Rebind(getUserByEmailSQL), email)
	return u, wrapErr(op, err)
}

func (r *Repo) GetUserByID(ctx context.Context, id int64) (u domain.User, err error) {
	const op = "get_user_by_id"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	err = r.db.GetContext(ctx, &u, r.db.Rebind(getUserByIDSQL), id)
	return u, wrapErr(op, err)
}

func (r *Repo) AddUser(ctx context.Context, nu domain.NewUser) (u domain.User, err error) {
	const op = "add_user"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	if r.returning {
		err = r.db.GetContext(ctx, &u, r.db.Rebind(insertUserReturningSQL), nu.Name, nu.Email, nu.Password)
		return u, wrapErr(op, err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(insertUserSQL), nu.Name, nu.Email, nu.Password)
	if err != nil {
		return domain.User{}, wrapErr(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, wrapErr(op, err)
	}
	err = r.db.GetContext(ctx, &u, r.db.Rebind(getUserByIDSQL), id)
	return u, wrapErr(op, err)
}

// reservationRow is the flat shape of guestReservationsSQL.
type reservationRow struct {
	ReservationID int64     `db:"reservation_id"`
	GuestID       int64     `db:"guest_id"`
	PropertyID    int64     `db:"property_id"`
	StartDate     time.Time `db:"start_date"`
	EndDate       time.Time `db:"end_date"`
	domain.Property
	AverageRating float64 `db:"average_rating"`
}

func (r *Repo) GetReservationsForGuest(ctx context.Context, guestID int64, limit int) (out []domain.GuestReservation, err error) {
	const op = "get_reservations_for_guest"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	var rows []reservationRow
	err = r.db.SelectContext(ctx, &rows, r.db.Rebind(guestReservationsSQL), guestID, domain.NormalizeLimit(limit))
	if err != nil {
		return nil, wrapErr(op, err)
	}
	out = make([]domain.GuestReservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.GuestReservation{
			Reservation: domain.Reservation{
				ID:         row.ReservationID,
				GuestID:    row.GuestID,
				PropertyID: row.PropertyID,
				StartDate:  row.StartDate,
				EndDate:    row.EndDate,
			},
			Property:      row.Property,
			AverageRating: row.AverageRating,
		})
	}
	return out, nil
}

func (r *Repo) SearchProperties(ctx context.Context, f domain.PropertyFilter, limit int) (out []domain.PropertyListing, err error) {
	const op = "search_properties"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	q, args := BuildSearch(r.bindType, f, limit)
	out = []domain.PropertyListing{}
	if err = r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, wrapErr(op, err)
	}
	return out, nil
}

func (r *Repo) AddProperty(ctx context.Context, p domain.Property) (out domain.Property, err error) {
	const op = "add_property"
	defer func(start time.Time) { observe(op, start, err) }(time.Now())

	args := []any{
		p.OwnerID, p.Title, p.Description, p.ThumbnailPhotoURL, p.CoverPhotoURL, p.CostPerNight,
		p.ParkingSpaces, p.NumberOfBathrooms, p.NumberOfBedrooms, p.Country, p.Street, p.City,
		p.Province, p.PostCode, p.Active,
	}
	if r.returning {
		err = r.db.GetContext(ctx, &out, r.db.Rebind(insertPropertyReturningSQL), args...)
		return out, wrapErr(op, err)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(insertPropertySQL), args...)
	if err != nil {
		return domain.Property{}, wrapErr(op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Property{}, wrapErr(op, err)
	}
	err = r.db.GetContext(ctx, &out, r.db.Rebind(getPropertyByIDSQL), id)
	return out, wrapErr(op, err)
}
