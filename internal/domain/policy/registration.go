package policy

import (
	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

const (
	MsgOnlyAdminGrantsAdmin = "only an administrator can create another administrator"
	MsgLoginTaken           = "a user with this login already exists"
)

// AuthorizeRegistration decides whether actor may create newLogin with the
// requested role and returns the login to stamp into the created/modified
// audit pairs: the actor's login when admin-assisted, else newLogin itself.
func AuthorizeRegistration(actor *entity.User, newLogin string, role entity.Role) (string, error) {
	if actor == nil {
		if role.IsAdmin() {
			return "", apperror.New(apperror.KindAuthorization, MsgOnlyAdminGrantsAdmin)
		}
		return newLogin, nil
	}
	if role.IsAdmin() && !actor.IsAdmin() {
		return "", apperror.New(apperror.KindAuthorization, MsgOnlyAdminGrantsAdmin)
	}
	return actor.Login, nil
}
