package domain

type Property struct {
	ID                int64  `json:"id" db:"id"`
	OwnerID           int64  `json:"owner_id" db:"owner_id"`
	Title             string `json:"title" db:"title"`
	Description       string `json:"description" db:"description"`
	ThumbnailPhotoURL string `json:"thumbnail_photo_url" db:"thumbnail_photo_url"`
	CoverPhotoURL     string `json:"cover_photo_url" db:"cover_photo_url"`
	CostPerNight      int64  `json:"cost_per_night" db:"cost_per_night"` // minor units
	ParkingSpaces     int    `json:"parking_spaces" db:"parking_spaces"`
	NumberOfBathrooms int    `json:"number_of_bathrooms" db:"number_of_bathrooms"`
	NumberOfBedrooms  int    `json:"number_of_bedrooms" db:"number_of_bedrooms"`
	Country           string `json:"country" db:"country"`
	Street            string `json:"street" db:"street"`
	City              string `json:"city" db:"city"`
	Province          string `json:"province" db:"province"`
	PostCode          string `json:"post_code" db:"post_code"`
	Active            bool   `json:"active" db:"active"`
}

// PropertyListing is a search result row.
type PropertyListing struct {
	Property
	AverageRating float64 `json:"average_rating" db:"average_rating"`
}

// NewProperty is the input to AddProperty. CostPerNight is in currency
// units and is converted to minor units before it is stored.
type NewProperty struct {
	OwnerID           int64   `json:"owner_id" validate:"required,gt=0"`
	Title             string  `json:"title" validate:"required,max=255"`
	Description       string  `json:"description"`
	ThumbnailPhotoURL string  `json:"thumbnail_photo_url" validate:"omitempty,url"`
	CoverPhotoURL     string  `json:"cover_photo_url" validate:"omitempty,url"`
	CostPerNight      float64 `json:"cost_per_night" validate:"gt=0"`
	ParkingSpaces     int     `json:"parking_spaces" validate:"gte=0"`
	NumberOfBathrooms int     `json:"number_of_bathrooms" validate:"gte=0"`
	NumberOfBedrooms  int     `json:"number_of_bedrooms" validate:"gte=0"`
	Country           string  `json:"country"`
	Street            string  `json:"street"`
	City              string  `json:"city" validate:"required"`
	Province          string  `json:"province"`
	PostCode          string  `json:"post_code"`
}

// Property converts the input into a storable row without an id.
func (p NewProperty) Property() Property {
	return Property{
		OwnerID:           p.OwnerID,
		Title:             p.Title,
		Description:       p.Description,
		ThumbnailPhotoURL: p.ThumbnailPhotoURL,
		CoverPhotoURL:     p.CoverPhotoURL,
		CostPerNight:      MinorUnits(p.CostPerNight),
		ParkingSpaces:     p.ParkingSpaces,
		NumberOfBathrooms: p.NumberOfBathrooms,
		NumberOfBedrooms:  p.NumberOfBedrooms,
		Country:           p.Country,
		Street:            p.Street,
		City:              p.City,
		Province:          p.Province,
		PostCode:          p.PostCode,
		Active:            true,
	}
}
