package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"lightbnb/internal/app"
	"lightbnb/internal/domain"
)

// ---- fakes ----

type fakeStore struct {
	users     map[int64]domain.User
	listings  []domain.PropertyListing
	added     []domain.Property
	err       error // returned by every call when set
	calls     int
	lastLimit int
}

func (f *fakeStore) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	f.calls++
	if f.err != nil {
		return domain.User{}, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrNotFound
}

func (f *fakeStore) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	f.calls++
	if f.err != nil {
		return domain.User{}, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) AddUser(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	f.calls++
	if f.err != nil {
		return domain.User{}, f.err
	}
	u := domain.User{ID: int64(len(f.users) + 100), Name: nu.Name, Email: nu.Email, Password: nu.Password}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetReservationsForGuest(ctx context.Context, guestID int64, limit int) ([]domain.GuestReservation, error) {
	f.calls++
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return []domain.GuestReservation{}, nil
}

func (f *fakeStore) SearchProperties(ctx context.Context, flt domain.PropertyFilter, limit int) ([]domain.PropertyListing, error) {
	f.calls++
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.listings, nil
}

func (f *fakeStore) AddProperty(ctx context.Context, p domain.Property) (domain.Property, error) {
	f.calls++
	if f.err != nil {
		return domain.Property{}, f.err
	}
	p.ID = 9
	f.added = append(f.added, p)
	return p, nil
}

// fakeCache round-trips through JSON like the Redis adapter does.
type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	c.store[key] = b
	return err
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[int64]domain.User{
		1: {ID: 1, Name: "Ana", Email: "ana@example.com", Password: "secret"},
	}}
}

func ptr[T any](v T) *T { return &v }

var errDriver = fmt.Errorf("get_user_by_id: %w: %w", domain.ErrStorage, errors.New("connection reset"))

// ---- tests ----

func TestGetUserByID_CacheMissThenHit(t *testing.T) {
	store := newFakeStore()
	cache := &fakeCache{}
	s := app.NewService(store, cache, 10*time.Minute)

	u, err := s.GetUserByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if u.Name != "Ana" {
		t.Fatalf("unexpected user: %+v", u)
	}

	// Mutate store to ensure the second read comes from cache
	store.users[1] = domain.User{ID: 1, Name: "SHOULD NOT SEE THIS"}

	u2, err := s.GetUserByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if u2.Name != "Ana" || u2.Password != "secret" {
		t.Fatalf("expected cached user with password, got %+v", u2)
	}
	if store.calls != 1 {
		t.Fatalf("expected one store call, got %d", store.calls)
	}

	// populated under the email key too
	if _, err := s.GetUserByEmail(context.Background(), "ana@example.com"); err != nil || store.calls != 1 {
		t.Fatalf("expected email lookup from cache, calls=%d err=%v", store.calls, err)
	}
}

func TestGetUserByEmail_CacheKeyKeepsCase(t *testing.T) {
	store := newFakeStore()
	cache := &fakeCache{}
	s := app.NewService(store, cache, time.Minute)

	if _, err := s.GetUserByEmail(context.Background(), " ana@example.com "); err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if _, ok := cache.store["user:email:ana@example.com"]; !ok {
		t.Fatalf("expected trimmed email key, got %v", cache.store)
	}

	// the store matches exactly, so a differently cased email must not be served from cache
	if _, err := s.GetUserByEmail(context.Background(), "ANA@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a differently cased email, got %v", err)
	}
}

func TestGetUserByEmail_NotFoundVsStorageFailure(t *testing.T) {
	store := newFakeStore()
	s := app.NewService(store, nil, 0)

	_, err := s.GetUserByEmail(context.Background(), "a@b.com")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	store.err = errDriver
	_, err = s.GetUserByEmail(context.Background(), "a@b.com")
	if !errors.Is(err, domain.ErrStorage) || errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected a storage failure distinct from not found, got %v", err)
	}
}

func TestGetUserByEmail_TrimsAndRequires(t *testing.T) {
	s := app.NewService(newFakeStore(), nil, 0)

	u, err := s.GetUserByEmail(context.Background(), "  ana@example.com ")
	if err != nil || u.ID != 1 {
		t.Fatalf("GetUserByEmail = %+v, %v", u, err)
	}
	if _, err := s.GetUserByEmail(context.Background(), "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAddUser(t *testing.T) {
	store := newFakeStore()
	cache := &fakeCache{}
	s := app.NewService(store, cache, time.Minute)

	u, err := s.AddUser(context.Background(), domain.NewUser{Name: " Bo ", Email: "bo@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("AddUser: %v", err)
	}
	if u.ID == 0 || u.Name != "Bo" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if _, ok := cache.store["user:id:"+fmt.Sprint(u.ID)]; !ok {
		t.Fatal("new user should be cached by id")
	}

	calls := store.calls
	for _, bad := range []domain.NewUser{
		{Name: "", Email: "x@example.com", Password: "pw"},
		{Name: "X", Email: "not-an-email", Password: "pw"},
		{Name: "X", Email: "x@example.com", Password: ""},
	} {
		if _, err := s.AddUser(context.Background(), bad); !errors.Is(err, domain.ErrInvalidInput) {
			t.Fatalf("AddUser(%+v): expected ErrInvalidInput, got %v", bad, err)
		}
	}
	if store.calls != calls {
		t.Fatal("invalid users must not reach the store")
	}
}

func TestSearchProperties_InvalidFilterFailsFast(t *testing.T) {
	store := newFakeStore()
	s := app.NewService(store, nil, 0)

	bad := []domain.PropertyFilter{
		{MinimumPricePerNight: ptr(50.0)},
		{MaximumPricePerNight: ptr(150.0)},
		{MinimumPricePerNight: ptr(200.0), MaximumPricePerNight: ptr(100.0)},
		{MinimumPricePerNight: ptr(-1.0), MaximumPricePerNight: ptr(100.0)},
		{MinimumRating: ptr(6.0)},
		{OwnerID: ptr(int64(0))},
	}
	for _, f := range bad {
		if _, err := s.SearchProperties(context.Background(), f, 10); !errors.Is(err, domain.ErrInvalidFilter) {
			t.Fatalf("filter %+v: expected ErrInvalidFilter, got %v", f, err)
		}
	}
	if store.calls != 0 {
		t.Fatalf("no statement may run for invalid filters, got %d calls", store.calls)
	}
}

func TestSearchProperties_DefaultLimitAndErrors(t *testing.T) {
	store := newFakeStore()
	store.listings = []domain.PropertyListing{{Property: domain.Property{ID: 1}, AverageRating: 4}}
	s := app.NewService(store, nil, 0)

	out, err := s.SearchProperties(context.Background(), domain.PropertyFilter{City: "Van"}, 0)
	if err != nil || len(out) != 1 {
		t.Fatalf("SearchProperties = %+v, %v", out, err)
	}
	if store.lastLimit != domain.DefaultLimit {
		t.Fatalf("limit = %d, want %d", store.lastLimit, domain.DefaultLimit)
	}

	store.err = errDriver
	if _, err := s.SearchProperties(context.Background(), domain.PropertyFilter{}, 5); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage failure, got %v", err)
	}
}

func TestGetReservationsForGuest_Errors(t *testing.T) {
	store := newFakeStore()
	s := app.NewService(store, nil, 0)

	out, err := s.GetReservationsForGuest(context.Background(), 1, 0)
	if err != nil || out == nil || len(out) != 0 {
		t.Fatalf("expected empty list, got %+v, %v", out, err)
	}
	if store.lastLimit != domain.DefaultLimit {
		t.Fatalf("limit = %d, want %d", store.lastLimit, domain.DefaultLimit)
	}

	store.err = errDriver
	if _, err := s.GetReservationsForGuest(context.Background(), 1, 10); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected storage failure, got %v", err)
	}
}

func TestAddProperty(t *testing.T) {
	store := newFakeStore()
	s := app.NewService(store, nil, 0)

	p, err := s.AddProperty(context.Background(), domain.NewProperty{
		OwnerID: 1, Title: "Loft", City: "Vancouver", CostPerNight: 120.5,
	})
	if err != nil {
		t.Fatalf("AddProperty: %v", err)
	}
	if p.ID != 9 || p.CostPerNight != 12050 || !p.Active {
		t.Fatalf("unexpected property: %+v", p)
	}

	if _, err := s.AddProperty(context.Background(), domain.NewProperty{OwnerID: 1, Title: "x", City: "y"}); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("zero price: expected ErrInvalidInput, got %v", err)
	}
	if len(store.added) != 1 {
		t.Fatalf("invalid property reached the store")
	}
}
