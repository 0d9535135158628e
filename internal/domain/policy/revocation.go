package policy

import (
	"time"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

const (
	MsgAlreadyRevoked = "user was already soft deleted"
	MsgNotRevoked     = "cannot unblock user, the user is already active"
)

// Revoke moves target from Active to Revoked.
func Revoke(target *entity.User, by string, at time.Time) error {
	if target.IsRevoked() {
		return apperror.New(apperror.KindState, MsgAlreadyRevoked)
	}
	revokedBy := by
	target.RevokedOn = &at
	target.RevokedBy = &revokedBy
	return nil
}

// Unrevoke moves target from Revoked back to Active. Both audit fields must be
// set for the account to count as revoked.
func Unrevoke(target *entity.User) error {
	if target.RevokedOn == nil || target.RevokedBy == nil {
		return apperror.New(apperror.KindState, MsgNotRevoked)
	}
	target.RevokedOn = nil
	target.RevokedBy = nil
	return nil
}
