package domain

import "time"

type Reservation struct {
	ID         int64     `json:"id" db:"id"`
	GuestID    int64     `json:"guest_id" db:"guest_id"`
	PropertyID int64     `json:"property_id" db:"property_id"`
	StartDate  time.Time `json:"start_date" db:"start_date"`
	EndDate    time.Time `json:"end_date" db:"end_date"`
}

type PropertyReview struct {
	ID            int64  `json:"id" db:"id"`
	GuestID       int64  `json:"guest_id" db:"guest_id"`
	PropertyID    int64  `json:"property_id" db:"property_id"`
	ReservationID int64  `json:"reservation_id" db:"reservation_id"`
	Rating        int    `json:"rating" db:"rating"`
	Message       string `json:"message" db:"message"`
}

// GuestReservation is a past reservation joined with its property and the
// property's average rating.
type GuestReservation struct {
	Reservation   Reservation `json:"reservation"`
	Property      Property    `json:"property"`
	AverageRating float64     `json:"average_rating"`
}
