package application

import (
	"context"
	"errors"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	repo "github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/internal/events"
)

// EnsureAdmin creates a self-stamped administrator when login is free. An
// existing account with that login is left untouched and created is false.
// Registration cannot produce the first admin, so fresh stores start here.
func (s *Service) EnsureAdmin(ctx context.Context, login, password, name string) (created bool, err error) {
	login = entity.NormalizeLogin(login)
	if login == "" || password == "" {
		return false, errors.New("bootstrap admin needs a login and a password")
	}

	existing, err := s.findUser(ctx, login)
	if err != nil {
		return false, err
	}
	if existing != nil {
		return false, nil
	}

	hash, err := s.hash(password)
	if err != nil {
		return false, err
	}
	now := s.Now()
	u := &entity.User{
		ID:         s.NewID(),
		Login:      login,
		Password:   hash,
		Name:       name,
		Gender:     entity.GenderUnknown,
		Role:       entity.RoleAdmin,
		CreatedOn:  now,
		CreatedBy:  login,
		ModifiedOn: now,
		ModifiedBy: login,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		// lost a race with another seeder
		if errors.Is(err, repo.ErrDuplicateLogin) {
			return false, nil
		}
		return false, s.writeErr(err, "", login)
	}
	s.publish(ctx, events.New(events.TypeRegistered, u, login, now))
	return true, nil
}
