package types

import "time"

// Maximum field lengths enforced on team member input.
const (
	MaxTeamNameLen     = 100
	MaxTeamRoleLen     = 100
	MaxTeamLocationLen = 100
	MaxTeamBioLen      = 500
)

// TeamMember is a staff profile shown on the marketing site.
type TeamMember struct {
	ID         int    `json:"id" db:"id"`
	Name       string `json:"name" db:"name"`
	Role       string `json:"role" db:"role"`
	Email      string `json:"email" db:"email"`
	Location   string `json:"location" db:"location"`
	JoinedYear string `json:"joined_year" db:"joined_year"`
	Bio        string `json:"bio" db:"bio"`

	// Avatar is the display URL; AvatarKey is the object-storage key backing
	// it, empty for externally hosted avatars.
	Avatar    string `json:"avatar,omitempty" db:"avatar"`
	AvatarKey string `json:"avatar_key,omitempty" db:"avatar_key"`

	Linkedin  string `json:"linkedin,omitempty" db:"linkedin"`
	Twitter   string `json:"twitter,omitempty" db:"twitter"`
	Github    string `json:"github,omitempty" db:"github"`
	Portfolio string `json:"portfolio,omitempty" db:"portfolio"`

	Skills StringList `json:"skills" db:"skills"`

	Status string `json:"status" db:"status"`
	Order  int    `json:"order" db:"display_order"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
