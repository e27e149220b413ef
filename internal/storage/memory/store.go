// Package memory is an in-process storage backend with the same semantics as
// the relational one. It serves demos and tests from fixture data.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"lightbnb/internal/domain"
)

type Option func(*Store)

// WithClock overrides the clock used to decide which reservations are past.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

type Store struct {
	mu           sync.RWMutex
	users        map[int64]domain.User
	properties   map[int64]domain.Property
	reservations []domain.Reservation
	reviews      []domain.PropertyReview
	now          func() time.Time
}

func New(ds domain.Dataset, opts ...Option) *Store {
	s := &Store{
		users:        make(map[int64]domain.User, len(ds.Users)),
		properties:   make(map[int64]domain.Property, len(ds.Properties)),
		reservations: append([]domain.Reservation(nil), ds.Reservations...),
		reviews:      append([]domain.PropertyReview(nil), ds.Reviews...),
		now:          time.Now,
	}
	for _, u := range ds.Users {
		s.users[u.ID] = u
	}
	for _, p := range ds.Properties {
		s.properties[p.ID] = p
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (s *Store) GetUserByID(_ context.Context, id int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (s *Store) AddUser(_ context.Context, nu domain.NewUser) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for id, u := range s.users {
		if u.Email == nu.Email {
			return domain.User{}, domain.ErrConflict
		}
		maxID = max(maxID, id)
	}
	u := domain.User{ID: maxID + 1, Name: nu.Name, Email: nu.Email, Password: nu.Password}
	s.users[u.ID] = u
	return u, nil
}

// AddProperty assigns max(id)+1 and stores p where SearchProperties reads.
func (s *Store) AddProperty(_ context.Context, p domain.Property) (domain.Property, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for id := range s.properties {
		maxID = max(maxID, id)
	}
	p.ID = maxID + 1
	s.properties[p.ID] = p
	return p, nil
}

// averageRatings must be called with mu held.
func (s *Store) averageRatings() map[int64]float64 {
	sums := map[int64]int{}
	counts := map[int64]int{}
	for _, rv := range s.reviews {
		sums[rv.PropertyID] += rv.Rating
		counts[rv.PropertyID]++
	}
	out := make(map[int64]float64, len(counts))
	for id, n := range counts {
		out[id] = float64(sums[id]) / float64(n)
	}
	return out
}

func (s *Store) SearchProperties(_ context.Context, f domain.PropertyFilter, limit int) ([]domain.PropertyListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ratings := s.averageRatings()
	out := []domain.PropertyListing{}
	for _, p := range s.properties {
		avg, reviewed := ratings[p.ID]
		if !reviewed {
			continue
		}
		if f.City != "" && !strings.Contains(p.City, f.City) {
			continue
		}
		if f.OwnerID != nil && p.OwnerID != *f.OwnerID {
			continue
		}
		if f.HasPriceRange() {
			lo, hi := domain.MinorUnits(*f.MinimumPricePerNight), domain.MinorUnits(*f.MaximumPricePerNight)
			if p.CostPerNight < lo || p.CostPerNight > hi {
				continue
			}
		}
		if f.MinimumRating != nil && avg < *f.MinimumRating {
			continue
		}
		out = append(out, domain.PropertyListing{Property: p, AverageRating: avg})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CostPerNight != out[j].CostPerNight {
			return out[i].CostPerNight < out[j].CostPerNight
		}
		return out[i].ID < out[j].ID
	})
	if n := domain.NormalizeLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *Store) GetReservationsForGuest(_ context.Context, guestID int64, limit int) ([]domain.GuestReservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	ratings := s.averageRatings()

	out := []domain.GuestReservation{}
	for _, r := range s.reservations {
		if r.GuestID != guestID {
			continue
		}
		end := r.EndDate.UTC()
		if !time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).Before(today) {
			continue
		}
		p, ok := s.properties[r.PropertyID]
		if !ok {
			continue
		}
		avg, reviewed := ratings[p.ID]
		if !reviewed {
			continue
		}
		out = append(out, domain.GuestReservation{Reservation: r, Property: p, AverageRating: avg})
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Reservation, out[j].Reservation
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		return a.ID < b.ID
	})
	if n := domain.NormalizeLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}
