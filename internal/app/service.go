package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"lightbnb/internal/domain"
)

// Service is the entry point for the route layer. Not-found results come back
// as domain.ErrNotFound, storage faults as errors wrapping domain.ErrStorage.
type Service struct {
	store    domain.Store
	cache    domain.Cache // optional
	cacheTTL time.Duration
	validate *validator.Validate
}

func NewService(s domain.Store, c domain.Cache, ttl time.Duration) *Service {
	return &Service{store: s, cache: c, cacheTTL: ttl, validate: validator.New()}
}

// fail logs storage faults once, here, and passes every error through.
func (s *Service) fail(op string, err error) error {
	if errors.Is(err, domain.ErrStorage) {
		log.Error().Err(err).Str("op", op).Msg("storage failure")
	}
	return err
}

// cachedUser keeps the password, which domain.User hides from JSON.
type cachedUser struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func userIDKey(id int64) string        { return fmt.Sprintf("user:id:%d", id) }
func userEmailKey(email string) string { return "user:email:" + email }

func (s *Service) lookupUser(ctx context.Context, key string) (domain.User, bool) {
	if s.cache == nil {
		return domain.User{}, false
	}
	var cu cachedUser
	if ok, _ := s.cache.Get(ctx, key, &cu); !ok {
		return domain.User{}, false
	}
	return domain.User(cu), true
}

// rememberUser caches u under both keys. Users are never updated or deleted
// by this service, so entries only expire.
func (s *Service) rememberUser(ctx context.Context, u domain.User) {
	if s.cache == nil {
		return
	}
	ttl := int(s.cacheTTL.Seconds())
	_ = s.cache.Set(ctx, userIDKey(u.ID), cachedUser(u), ttl)
	_ = s.cache.Set(ctx, userEmailKey(u.Email), cachedUser(u), ttl)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.User{}, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if u, ok := s.lookupUser(ctx, userEmailKey(email)); ok {
		return u, nil
	}
	u, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		return domain.User{}, s.fail("get_user_by_email", err)
	}
	s.rememberUser(ctx, u)
	return u, nil
}

func (s *Service) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	if id <= 0 {
		return domain.User{}, domain.ErrNotFound
	}
	if u, ok := s.lookupUser(ctx, userIDKey(id)); ok {
		return u, nil
	}
	u, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		return domain.User{}, s.fail("get_user_by_id", err)
	}
	s.rememberUser(ctx, u)
	return u, nil
}

// AddUser stores a new user and returns it with its generated id.
func (s *Service) AddUser(ctx context.Context, nu domain.NewUser) (domain.User, error) {
	nu.Name = strings.TrimSpace(nu.Name)
	nu.Email = strings.TrimSpace(nu.Email)
	if err := s.validate.Struct(nu); err != nil {
		return domain.User{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	u, err := s.store.AddUser(ctx, nu)
	if err != nil {
		return domain.User{}, s.fail("add_user", err)
	}
	s.rememberUser(ctx, u)
	return u, nil
}

// GetReservationsForGuest returns the guest's past reservations, oldest
// first. An empty list means the guest has none.
func (s *Service) GetReservationsForGuest(ctx context.Context, guestID int64, limit int) ([]domain.GuestReservation, error) {
	out, err := s.store.GetReservationsForGuest(ctx, guestID, domain.NormalizeLimit(limit))
	if err != nil {
		return nil, s.fail("get_reservations_for_guest", err)
	}
	return out, nil
}

// SearchProperties validates f before any statement is issued.
func (s *Service) SearchProperties(ctx context.Context, f domain.PropertyFilter, limit int) ([]domain.PropertyListing, error) {
	f.City = strings.TrimSpace(f.City)
	if err := f.Validate(); err != nil {
		return nil, err
	}
	out, err := s.store.SearchProperties(ctx, f, domain.NormalizeLimit(limit))
	if err != nil {
		return nil, s.fail("search_properties", err)
	}
	return out, nil
}

func (s *Service) AddProperty(ctx context.Context, np domain.NewProperty) (domain.Property, error) {
	np.Title = strings.TrimSpace(np.Title)
	np.City = strings.TrimSpace(np.City)
	if err := s.validate.Struct(np); err != nil {
		return domain.Property{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	p, err := s.store.AddProperty(ctx, np.Property())
	if err != nil {
		return domain.Property{}, s.fail("add_property", err)
	}
	return p, nil
}
