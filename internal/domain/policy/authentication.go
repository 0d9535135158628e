package policy

import (
	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

const (
	MsgUserDoesNotExist = "user does not exist"
	MsgUserDeleted      = "user was deleted"
	MsgInvalidPassword  = "invalid password"
)

// PasswordMatcher compares a stored hash with a candidate password.
type PasswordMatcher func(hash, plain string) bool

// Authenticate checks a login attempt against the stored user u (nil when the
// login is unknown). The three failures stay distinct: unknown user, revoked
// account (even with the right password) and password mismatch.
func Authenticate(u *entity.User, password string, matches PasswordMatcher) error {
	if u == nil {
		return apperror.New(apperror.KindAuthentication, MsgUserDoesNotExist)
	}
	if u.IsRevoked() {
		return apperror.New(apperror.KindState, MsgUserDeleted)
	}
	if !matches(u.Password, password) {
		return apperror.New(apperror.KindAuthentication, MsgInvalidPassword)
	}
	return nil
}
