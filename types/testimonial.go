package types

import "time"

// Maximum field lengths enforced on testimonial input.
const (
	MaxTestimonialQuoteLen   = 1000
	MaxTestimonialAuthorLen  = 100
	MaxTestimonialRoleLen    = 100
	MaxTestimonialCompanyLen = 100
)

// Rating bounds for testimonials.
const (
	MinRating     = 1
	MaxRating     = 5
	DefaultRating = 5
)

// Testimonial is a client quote shown on the marketing site.
type Testimonial struct {
	ID      int    `json:"id" db:"id"`
	Quote   string `json:"quote" db:"quote"`
	Author  string `json:"author" db:"author"`
	Role    string `json:"role" db:"role"`
	Company string `json:"company" db:"company"`

	// Avatar is the display URL; AvatarKey is the object-storage key backing
	// it, empty for externally hosted avatars.
	Avatar    string `json:"avatar,omitempty" db:"avatar"`
	AvatarKey string `json:"avatar_key,omitempty" db:"avatar_key"`

	Rating   int    `json:"rating" db:"rating"`
	Featured bool   `json:"featured" db:"featured"`
	Status   string `json:"status" db:"status"`
	Order    int    `json:"order" db:"display_order"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
