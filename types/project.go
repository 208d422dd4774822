package types

import "time"

// Resource status values shared by all content records.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Maximum field lengths enforced on project input.
const (
	MaxProjectTitleLen       = 100
	MaxProjectDescriptionLen = 500
)

// Project is a portfolio entry shown on the marketing site.
type Project struct {
	ID          int        `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Tech        StringList `json:"tech" db:"tech"`

	// Image is the display URL. ImageKey is the object-storage key backing
	// it; empty when the URL points at an external host, in which case there
	// is nothing for us to delete.
	Image    string `json:"image" db:"image"`
	ImageKey string `json:"image_key,omitempty" db:"image_key"`

	Link     string `json:"link" db:"link"`
	Featured bool   `json:"featured" db:"featured"`
	Status   string `json:"status" db:"status"`

	// Order controls display sequence, ascending. Not unique.
	Order int `json:"order" db:"display_order"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
