// Package events describes the account lifecycle messages published after
// successful writes and consumed by the directory worker.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

type Type string

const (
	TypeRegistered      Type = "account.registered"
	TypeProfileUpdated  Type = "account.profile_updated"
	TypePasswordUpdated Type = "account.password_updated"
	TypeLoginRenamed    Type = "account.login_renamed"
	TypeRevoked         Type = "account.revoked"
	TypeUnrevoked       Type = "account.unrevoked"
	TypeDeleted         Type = "account.deleted"
)

var ErrUnknownType = errors.New("unknown account event type")

func (t Type) Valid() bool {
	switch t {
	case TypeRegistered, TypeProfileUpdated, TypePasswordUpdated, TypeLoginRenamed,
		TypeRevoked, TypeUnrevoked, TypeDeleted:
		return true
	}
	return false
}

// Profile is the directory view of an account. It never carries the password hash.
type Profile struct {
	Login     string     `json:"login"`
	Name      string     `json:"name"`
	Gender    string     `json:"gender"`
	Birthday  *time.Time `json:"birthday,omitempty"`
	Admin     bool       `json:"admin"`
	Active    bool       `json:"active"`
	CreatedOn time.Time  `json:"created_on"`
}

func ProfileOf(u *entity.User) Profile {
	return Profile{
		Login:     u.Login,
		Name:      u.Name,
		Gender:    u.Gender.String(),
		Birthday:  u.Birthday,
		Admin:     u.IsAdmin(),
		Active:    !u.IsRevoked(),
		CreatedOn: u.CreatedOn,
	}
}

type AccountEvent struct {
	Type          Type      `json:"type"`
	UserID        string    `json:"user_id"`
	Login         string    `json:"login"`
	PreviousLogin string    `json:"previous_login,omitempty"`
	Actor         string    `json:"actor"`
	OccurredAt    time.Time `json:"occurred_at"`
	Profile       *Profile  `json:"profile,omitempty"`
}

// New builds an event for u. Deleted events carry no profile.
func New(t Type, u *entity.User, actor string, at time.Time) AccountEvent {
	ev := AccountEvent{
		Type:       t,
		UserID:     u.ID,
		Login:      u.Login,
		Actor:      actor,
		OccurredAt: at.UTC(),
	}
	if t != TypeDeleted {
		p := ProfileOf(u)
		ev.Profile = &p
	}
	return ev
}

func Decode(body []byte) (AccountEvent, error) {
	var ev AccountEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return AccountEvent{}, fmt.Errorf("decode account event: %w", err)
	}
	if !ev.Type.Valid() {
		return AccountEvent{}, fmt.Errorf("%w: %q", ErrUnknownType, ev.Type)
	}
	if ev.UserID == "" {
		return AccountEvent{}, errors.New("account event without user id")
	}
	return ev, nil
}

type Publisher interface {
	Publish(ctx context.Context, ev AccountEvent) error
}

// Nop discards events. It is used when no broker is configured.
type Nop struct{}

func (Nop) Publish(context.Context, AccountEvent) error { return nil }
