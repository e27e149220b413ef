package domain

import (
	"fmt"
	"math"
)

const (
	DefaultLimit = 10
	MaxRating    = 5
)

// PropertyFilter holds the optional search constraints. Zero values mean
// "not set" for City; pointer fields are set only when the caller supplied them.
type PropertyFilter struct {
	City                 string   `json:"city,omitempty"`
	OwnerID              *int64   `json:"owner_id,omitempty"`
	MinimumPricePerNight *float64 `json:"minimum_price_per_night,omitempty"`
	MaximumPricePerNight *float64 `json:"maximum_price_per_night,omitempty"`
	MinimumRating        *float64 `json:"minimum_rating,omitempty"`
}

// HasPriceRange reports whether both bounds are present. A single bound
// never filters anything.
func (f PropertyFilter) HasPriceRange() bool {
	return f.MinimumPricePerNight != nil && f.MaximumPricePerNight != nil
}

// Validate rejects malformed filter combinations before any query runs.
func (f PropertyFilter) Validate() error {
	if (f.MinimumPricePerNight == nil) != (f.MaximumPricePerNight == nil) {
		return fmt.Errorf("%w: minimum_price_per_night and maximum_price_per_night must be given together", ErrInvalidFilter)
	}
	if f.HasPriceRange() {
		lo, hi := *f.MinimumPricePerNight, *f.MaximumPricePerNight
		if lo < 0 || hi < 0 {
			return fmt.Errorf("%w: prices must not be negative", ErrInvalidFilter)
		}
		if lo > hi {
			return fmt.Errorf("%w: minimum_price_per_night is above maximum_price_per_night", ErrInvalidFilter)
		}
	}
	if f.OwnerID != nil && *f.OwnerID <= 0 {
		return fmt.Errorf("%w: owner_id must be positive", ErrInvalidFilter)
	}
	if f.MinimumRating != nil && (*f.MinimumRating < 0 || *f.MinimumRating > MaxRating) {
		return fmt.Errorf("%w: minimum_rating must be between 0 and %d", ErrInvalidFilter, MaxRating)
	}
	return nil
}

// MinorUnits converts a currency amount to integer cents.
func MinorUnits(v float64) int64 { return int64(math.Round(v * 100)) }

// NormalizeLimit maps non-positive limits to DefaultLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
