package entity

import (
	"strings"
	"time"
)

// Gender is stored as its ordinal: Male=0, Female=1, Unknown=2.
type Gender int

const (
	GenderMale Gender = iota
	GenderFemale
	GenderUnknown
)

func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	default:
		return "Unknown"
	}
}

// Valid reports whether g is one of the three known values.
func (g Gender) Valid() bool {
	return g >= GenderMale && g <= GenderUnknown
}

// User is the aggregate root of the account domain.
// Password holds a bcrypt hash, never the plain secret.
//
// RevokedOn and RevokedBy are set and cleared together; a non-nil
// RevokedOn means the account is soft-deleted.
type User struct {
	ID         string
	Login      string
	Password   string
	Name       string
	Gender     Gender
	Birthday   *time.Time
	Role       Role
	CreatedOn  time.Time
	CreatedBy  string
	ModifiedOn time.Time
	ModifiedBy string
	RevokedOn  *time.Time
	RevokedBy  *string
}

func (u *User) IsAdmin() bool { return u.Role.IsAdmin() }

func (u *User) IsRevoked() bool { return u.RevokedOn != nil }

// Touch stamps the modification audit pair.
func (u *User) Touch(by string, at time.Time) {
	u.ModifiedBy = by
	u.ModifiedOn = at
}

// NormalizeLogin folds a login to its canonical, case-insensitive form.
func NormalizeLogin(login string) string {
	return strings.ToLower(strings.TrimSpace(login))
}
