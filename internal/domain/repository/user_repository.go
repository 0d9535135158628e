package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrDuplicateLogin is returned when a write would violate login uniqueness.
	ErrDuplicateLogin = errors.New("login already taken")
	// ErrRevocationState is returned by Revoke and Unrevoke when the stored
	// record is not in the state the transition starts from.
	ErrRevocationState = errors.New("revocation state changed")
)

// UserRepository is the credential store. Logins passed in are already
// normalized; implementations enforce uniqueness with a unique index so a
// racing write fails with ErrDuplicateLogin instead of duplicating a login.
//
// Writes after Create touch only the columns their operation owns, so a
// record loaded earlier in a request can never roll back a concurrent
// revocation or rename.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByLogin(ctx context.Context, login string) (*entity.User, error)
	LoginExists(ctx context.Context, login string) (bool, error)
	// UpdateProfile writes name, gender, birthday and the modification stamps.
	UpdateProfile(ctx context.Context, u *entity.User) error
	// UpdatePassword writes the password hash and the modification stamps.
	UpdatePassword(ctx context.Context, u *entity.User) error
	// UpdateLogin writes the login and the modification stamps.
	UpdateLogin(ctx context.Context, u *entity.User) error
	// Revoke sets the revoked pair only while the stored record is active.
	Revoke(ctx context.Context, u *entity.User) error
	// Unrevoke clears the revoked pair only while the stored record is revoked.
	Unrevoke(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	ListWithBirthday(ctx context.Context) ([]*entity.User, error)
	ListActive(ctx context.Context) ([]*entity.User, error)
	Ping(ctx context.Context) error
}
