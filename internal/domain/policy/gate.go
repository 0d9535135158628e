// Package policy holds the account authorization and lifecycle rules.
// The functions here are pure: they take already-loaded users and decide,
// leaving loading and persistence to the application layer.
//
// An actor is the user resolved from the caller's token. A nil actor means
// the caller is anonymous or the token login matches no stored user.
package policy

import (
	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

const (
	MsgAdminRequired   = "administrator rights are required to access this information"
	MsgLoginRequired   = "please log in or register"
	MsgAccountBlocked  = "your account is blocked"
	MsgNotEnoughRights = "you do not have enough rights to make changes"
)

// RequireAdmin lets only an existing admin through. It guards listings,
// lookup by login, delete and unrevoke.
func RequireAdmin(actor *entity.User) error {
	if actor == nil || !actor.IsAdmin() {
		return apperror.New(apperror.KindAuthorization, MsgAdminRequired)
	}
	return nil
}

// AuthorizeMutation guards profile, password and login updates of targetLogin.
// Admins may modify anyone, revoked targets included. A non-admin may modify
// only their own record, and only while it is not revoked.
func AuthorizeMutation(actor *entity.User, targetLogin string) error {
	if actor == nil {
		return apperror.New(apperror.KindAuthentication, MsgLoginRequired)
	}
	if actor.IsAdmin() {
		return nil
	}
	if actor.Login != targetLogin {
		return apperror.New(apperror.KindAuthorization, MsgNotEnoughRights)
	}
	if actor.IsRevoked() {
		return apperror.New(apperror.KindAuthorization, MsgAccountBlocked)
	}
	return nil
}
