package domain

// Dataset is the legacy seed data: the fixture files decoded into rows.
type Dataset struct {
	Users        []User
	Properties   []Property
	Reservations []Reservation
	Reviews      []PropertyReview
}
