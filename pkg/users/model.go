package users

import "time"

const (
	RoleFounder  = "founder"
	RoleInvestor = "investor"
	RoleAdmin    = "admin"
)

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID            int64      `json:"id"`
	UUID          string     `json:"uuid"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Role          Role       `json:"role"`
	ProfilePicURL string     `json:"profile_pic_url"`
	Bio           string     `json:"bio"`
	Location      string     `json:"location"`
	Followers     []string   `json:"followers"`
	Following     []string   `json:"following"`
	VerifiedAt    *time.Time `json:"verified_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type UserList struct {
	Items []User `json:"items"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

// Tab selects which slice of the directory a listing shows.
type Tab string

const (
	TabAll       Tab = "all"
	TabFounders  Tab = "founders"
	TabInvestors Tab = "investors"
)

// Roles returns the role names a tab lists. Admin accounts never appear in the directory.
func (t Tab) Roles() []string {
	switch t {
	case TabFounders:
		return []string{RoleFounder}
	case TabInvestors:
		return []string{RoleInvestor}
	default:
		return []string{RoleFounder, RoleInvestor}
	}
}

func (t Tab) Valid() bool {
	return t == TabAll || t == TabFounders || t == TabInvestors
}

type CreateUserInput struct {
	Name          string
	Email         string
	Role          string
	Password      string
	ProfilePicURL string
	Bio           string
	Location      string
	UUID          string
}

// NewUser is what the repository persists; the password is already hashed.
type NewUser struct {
	UUID          string
	Name          string
	Email         string
	Role          string
	PasswordHash  string
	ProfilePicURL string
	Bio           string
	Location      string
}

type UserUpdate struct {
	Name          string
	ProfilePicURL string
	Bio           string
	Location      string
}

type ListFilter struct {
	Roles  []string
	Search string
	Limit  int
	Offset int
}

// AuthResult is returned by signup and login.
type AuthResult struct {
	User      User      `json:"user"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
