// Package fixtures loads the legacy seed files (users.json, properties.json
// and the optional reservations.json / property_reviews.json) from a local
// directory or an HTTP base URL.
package fixtures

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"lightbnb/internal/domain"
)

const (
	UsersFile        = "users.json"
	PropertiesFile   = "properties.json"
	ReservationsFile = "reservations.json"
	ReviewsFile      = "property_reviews.json"

	dateLayout = "2006-01-02"
)

// DirSource reads fixture files from a directory.
type DirSource struct{ dir string }

func NewDirSource(dir string) *DirSource { return &DirSource{dir: dir} }

func (s *DirSource) Fetch(_ context.Context, name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrNotFound)
	}
	return b, err
}

// legacy files store users keyed by id and keep the password in clear.
type userFixture struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type reservationFixture struct {
	ID         int64  `json:"id"`
	GuestID    int64  `json:"guest_id"`
	PropertyID int64  `json:"property_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
}

// Load fetches and decodes every fixture file. users.json and
// properties.json are required; the other two may be absent.
func Load(ctx context.Context, src domain.FixtureSource) (domain.Dataset, error) {
	var ds domain.Dataset

	var users map[string]userFixture
	if err := fetchJSON(ctx, src, UsersFile, &users); err != nil {
		return ds, err
	}
	for key, u := range users {
		if u.ID == 0 {
			id, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				return ds, fmt.Errorf("%s: key %q is not an id", UsersFile, key)
			}
			u.ID = id
		}
		ds.Users = append(ds.Users, domain.User(u))
	}
	sort.Slice(ds.Users, func(i, j int) bool { return ds.Users[i].ID < ds.Users[j].ID })

	var props map[string]domain.Property
	if err := fetchJSON(ctx, src, PropertiesFile, &props); err != nil {
		return ds, err
	}
	for key, p := range props {
		if p.ID == 0 {
			id, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				return ds, fmt.Errorf("%s: key %q is not an id", PropertiesFile, key)
			}
			p.ID = id
		}
		ds.Properties = append(ds.Properties, p)
	}
	sort.Slice(ds.Properties, func(i, j int) bool { return ds.Properties[i].ID < ds.Properties[j].ID })

	var rs []reservationFixture
	if err := fetchJSON(ctx, src, ReservationsFile, &rs); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return ds, err
	}
	for _, r := range rs {
		start, err := time.Parse(dateLayout, r.StartDate)
		if err != nil {
			return ds, fmt.Errorf("%s: reservation %d start_date: %w", ReservationsFile, r.ID, err)
		}
		end, err := time.Parse(dateLayout, r.EndDate)
		if err != nil {
			return ds, fmt.Errorf("%s: reservation %d end_date: %w", ReservationsFile, r.ID, err)
		}
		ds.Reservations = append(ds.Reservations, domain.Reservation{
			ID: r.ID, GuestID: r.GuestID, PropertyID: r.PropertyID, StartDate: start, EndDate: end,
		})
	}

	if err := fetchJSON(ctx, src, ReviewsFile, &ds.Reviews); err != nil && !errors.Is(err, domain.ErrNotFound) {
		return ds, err
	}
	return ds, nil
}

func fetchJSON(ctx context.Context, src domain.FixtureSource, name string, dst any) error {
	b, err := src.Fetch(ctx, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// NewSource prefers an HTTP base URL and falls back to a directory.
func NewSource(dir, baseURL string, rps int) (domain.FixtureSource, error) {
	if baseURL != "" {
		return NewHTTPSource(baseURL, rps)
	}
	if dir == "" {
		return nil, errors.New("fixtures: a directory or base URL is required")
	}
	return NewDirSource(dir), nil
}
