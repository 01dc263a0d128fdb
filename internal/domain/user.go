package domain

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a registered account. Role is assigned by the server.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	FirstName    string
	LastName     string
	Phone        string
	Address      string
	CardLast4    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileUpdate lists the fields an owner may change. Nil means unchanged.
type ProfileUpdate struct {
	Username  *string
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string
	Address   *string
	CardLast4 *string
}
