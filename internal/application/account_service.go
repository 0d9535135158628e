package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/policy"
	repo "github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/internal/events"
	"github.com/oksasatya/go-account-service/internal/infrastructure/directory"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

const (
	MsgInvalidLogin     = "invalid user name"
	MsgLoginUnavailable = "this login is already taken, try another one"
	MsgSaveFailed       = "failed to save changes"
	MsgSearchDisabled   = "user search is not available"
	MsgPasswordTooLong  = "password must be at most 72 bytes"
)

// Hasher hashes new passwords and checks login attempts.
type Hasher interface {
	Hash(plain string) (string, error)
	Matches(hash, plain string) bool
}

type Service struct {
	Repo      repo.UserRepository
	JWT       *helpers.JWTManager
	Hasher    Hasher
	Events    events.Publisher
	Directory *directory.Directory
	Logger    logrus.FieldLogger

	Now   func() time.Time
	NewID func() string
}

func NewService(r repo.UserRepository, jwt *helpers.JWTManager, hasher Hasher, pub events.Publisher, dir *directory.Directory, logger logrus.FieldLogger) *Service {
	if pub == nil {
		pub = events.Nop{}
	}
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &Service{
		Repo:      r,
		JWT:       jwt,
		Hasher:    hasher,
		Events:    pub,
		Directory: dir,
		Logger:    logger,
		Now:       func() time.Time { return time.Now().UTC() },
		NewID:     uuid.NewString,
	}
}

type RegisterInput struct {
	Login    string
	Password string
	Name     string
	Gender   entity.Gender
	Birthday *time.Time
	Admin    bool
}

// AuthResult is the public profile returned by registration and login
// together with a freshly issued token.
type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// UserDetails is the admin lookup view of one account.
type UserDetails struct {
	Name     string
	Gender   entity.Gender
	Birthday *time.Time
	Active   bool
}

type UpdateProfileInput struct {
	Login    string
	Name     string
	Gender   entity.Gender
	Birthday *time.Time
}

// Register creates an account. actorLogin is empty for anonymous callers.
func (s *Service) Register(ctx context.Context, actorLogin string, in RegisterInput) (*AuthResult, error) {
	login := entity.NormalizeLogin(in.Login)
	actor, err := s.resolveActor(ctx, actorLogin)
	if err != nil {
		return nil, err
	}
	by, err := policy.AuthorizeRegistration(actor, login, entity.RoleFromFlag(in.Admin))
	if err != nil {
		return nil, err
	}

	taken, err := s.Repo.LoginExists(ctx, login)
	if err != nil {
		return nil, s.persistenceErr(err, "login lookup failed", login)
	}
	if taken {
		return nil, apperror.New(apperror.KindConflict, policy.MsgLoginTaken)
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	u := &entity.User{
		ID:         s.NewID(),
		Login:      login,
		Password:   hash,
		Name:       in.Name,
		Gender:     in.Gender,
		Birthday:   in.Birthday,
		Role:       entity.RoleFromFlag(in.Admin),
		CreatedOn:  now,
		CreatedBy:  by,
		ModifiedOn: now,
		ModifiedBy: by,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, s.writeErr(err, policy.MsgLoginTaken, u.Login)
	}

	res, err := s.issue(u)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, events.New(events.TypeRegistered, u, by, now))
	return res, nil
}

func (s *Service) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	u, err := s.findUser(ctx, entity.NormalizeLogin(login))
	if err != nil {
		return nil, err
	}
	if err := policy.Authenticate(u, password, s.Hasher.Matches); err != nil {
		return nil, err
	}
	return s.issue(u)
}

// ListOlderThan returns users whose month-granular age is strictly greater
// than age. Revoked users are included.
func (s *Service) ListOlderThan(ctx context.Context, actorLogin string, age int) ([]*entity.User, error) {
	if _, err := s.requireAdmin(ctx, actorLogin); err != nil {
		return nil, err
	}
	users, err := s.Repo.ListWithBirthday(ctx)
	if err != nil {
		return nil, s.persistenceErr(err, "list users failed", "")
	}
	return policy.OlderThan(users, age, s.Now()), nil
}

func (s *Service) GetByLogin(ctx context.Context, actorLogin, login string) (*UserDetails, error) {
	if _, err := s.requireAdmin(ctx, actorLogin); err != nil {
		return nil, err
	}
	u, err := s.loadTarget(ctx, login, MsgInvalidLogin)
	if err != nil {
		return nil, err
	}
	return &UserDetails{Name: u.Name, Gender: u.Gender, Birthday: u.Birthday, Active: !u.IsRevoked()}, nil
}

// ListActive returns non-revoked users ordered by creation time.
func (s *Service) ListActive(ctx context.Context, actorLogin string) ([]*entity.User, error) {
	if _, err := s.requireAdmin(ctx, actorLogin); err != nil {
		return nil, err
	}
	users, err := s.Repo.ListActive(ctx)
	if err != nil {
		return nil, s.persistenceErr(err, "list active users failed", "")
	}
	return users, nil
}

// Delete revokes the account when soft is set and removes it otherwise.
// A hard delete works from either state.
func (s *Service) Delete(ctx context.Context, actorLogin, login string, soft bool) error {
	actor, err := s.requireAdmin(ctx, actorLogin)
	if err != nil {
		return err
	}
	u, err := s.loadTarget(ctx, login, policy.MsgUserDoesNotExist)
	if err != nil {
		return err
	}

	now := s.Now()
	if !soft {
		if err := s.Repo.Delete(ctx, u.ID); err != nil {
			return s.writeErr(err, policy.MsgUserDoesNotExist, u.Login)
		}
		s.publish(ctx, events.New(events.TypeDeleted, u, actor.Login, now))
		return nil
	}

	if err := policy.Revoke(u, actor.Login, now); err != nil {
		return err
	}
	if err := s.Repo.Revoke(ctx, u); err != nil {
		return s.writeErr(err, policy.MsgAlreadyRevoked, u.Login)
	}
	s.publish(ctx, events.New(events.TypeRevoked, u, actor.Login, now))
	return nil
}

func (s *Service) Unrevoke(ctx context.Context, actorLogin, login string) error {
	actor, err := s.requireAdmin(ctx, actorLogin)
	if err != nil {
		return err
	}
	u, err := s.loadTarget(ctx, login, policy.MsgUserDoesNotExist)
	if err != nil {
		return err
	}
	if err := policy.Unrevoke(u); err != nil {
		return err
	}
	if err := s.Repo.Unrevoke(ctx, u.ID); err != nil {
		return s.writeErr(err, policy.MsgNotRevoked, u.Login)
	}
	s.publish(ctx, events.New(events.TypeUnrevoked, u, actor.Login, s.Now()))
	return nil
}

// UpdateProfile replaces name, gender and birthday of in.Login.
func (s *Service) UpdateProfile(ctx context.Context, actorLogin string, in UpdateProfileInput) error {
	actor, u, err := s.authorizeMutation(ctx, actorLogin, in.Login)
	if err != nil {
		return err
	}
	u.Name = in.Name
	u.Gender = in.Gender
	u.Birthday = in.Birthday
	now := s.Now()
	u.Touch(actor.Login, now)

	if err := s.Repo.UpdateProfile(ctx, u); err != nil {
		return s.writeErr(err, policy.MsgUserDoesNotExist, u.Login)
	}
	s.publish(ctx, events.New(events.TypeProfileUpdated, u, actor.Login, now))
	return nil
}

func (s *Service) UpdatePassword(ctx context.Context, actorLogin, login, password string) error {
	actor, u, err := s.authorizeMutation(ctx, actorLogin, login)
	if err != nil {
		return err
	}
	hash, err := s.hash(password)
	if err != nil {
		return err
	}
	u.Password = hash
	now := s.Now()
	u.Touch(actor.Login, now)

	if err := s.Repo.UpdatePassword(ctx, u); err != nil {
		return s.writeErr(err, policy.MsgUserDoesNotExist, u.Login)
	}
	s.publish(ctx, events.New(events.TypePasswordUpdated, u, actor.Login, now))
	return nil
}

// UpdateLogin renames login to newLogin. The free-login check runs first and
// the store's unique index settles races between concurrent renames: the
// losing write comes back as a conflict.
//
// modifiedBy is stamped with the new login rather than the actor.
func (s *Service) UpdateLogin(ctx context.Context, actorLogin, login, newLogin string) error {
	actor, u, err := s.authorizeMutation(ctx, actorLogin, login)
	if err != nil {
		return err
	}
	newLogin = entity.NormalizeLogin(newLogin)

	taken, err := s.Repo.LoginExists(ctx, newLogin)
	if err != nil {
		return s.persistenceErr(err, "login lookup failed", newLogin)
	}
	if taken {
		return apperror.New(apperror.KindConflict, MsgLoginUnavailable)
	}

	previous := u.Login
	u.Login = newLogin
	now := s.Now()
	u.Touch(newLogin, now)

	if err := s.Repo.UpdateLogin(ctx, u); err != nil {
		return s.writeErr(err, MsgLoginUnavailable, newLogin)
	}
	ev := events.New(events.TypeLoginRenamed, u, actor.Login, now)
	ev.PreviousLogin = previous
	s.publish(ctx, ev)
	return nil
}

// SearchUsers queries the user directory by login and name.
func (s *Service) SearchUsers(ctx context.Context, actorLogin, q string, size int) ([]directory.Document, error) {
	if _, err := s.requireAdmin(ctx, actorLogin); err != nil {
		return nil, err
	}
	if !s.Directory.Enabled() {
		return nil, apperror.New(apperror.KindState, MsgSearchDisabled)
	}
	docs, err := s.Directory.Search(ctx, q, size)
	if err != nil {
		helpers.LogError(s.Logger, "directory search failed", err, logrus.Fields{"q": q})
		return nil, apperror.Wrap(apperror.KindPersistence, MsgSearchDisabled, err)
	}
	return docs, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.Repo.Ping(ctx)
}

// resolveActor loads the caller. An empty login or one matching no stored
// user yields a nil actor.
func (s *Service) resolveActor(ctx context.Context, actorLogin string) (*entity.User, error) {
	if actorLogin == "" {
		return nil, nil
	}
	return s.findUser(ctx, entity.NormalizeLogin(actorLogin))
}

// findUser returns nil without error when login is unknown.
func (s *Service) findUser(ctx context.Context, login string) (*entity.User, error) {
	u, err := s.Repo.GetByLogin(ctx, login)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.persistenceErr(err, "user lookup failed", login)
	}
	return u, nil
}

func (s *Service) requireAdmin(ctx context.Context, actorLogin string) (*entity.User, error) {
	actor, err := s.resolveActor(ctx, actorLogin)
	if err != nil {
		return nil, err
	}
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return actor, nil
}

func (s *Service) loadTarget(ctx context.Context, login, notFoundMsg string) (*entity.User, error) {
	u, err := s.findUser(ctx, entity.NormalizeLogin(login))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.New(apperror.KindNotFound, notFoundMsg)
	}
	return u, nil
}

func (s *Service) authorizeMutation(ctx context.Context, actorLogin, targetLogin string) (*entity.User, *entity.User, error) {
	actor, err := s.resolveActor(ctx, actorLogin)
	if err != nil {
		return nil, nil, err
	}
	target := entity.NormalizeLogin(targetLogin)
	if err := policy.AuthorizeMutation(actor, target); err != nil {
		return nil, nil, err
	}
	u, err := s.loadTarget(ctx, target, policy.MsgUserDoesNotExist)
	if err != nil {
		return nil, nil, err
	}
	return actor, u, nil
}

func (s *Service) issue(u *entity.User) (*AuthResult, error) {
	token, exp, err := s.JWT.GenerateAccessToken(u.ID, u.Login)
	if err != nil {
		helpers.LogError(s.Logger, "generate access token failed", err, logrus.Fields{"user_id": u.ID})
		return nil, err
	}
	return &AuthResult{User: u, Token: token, ExpiresAt: exp}, nil
}

func (s *Service) hash(password string) (string, error) {
	hash, err := s.Hasher.Hash(password)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		return "", apperror.Wrap(apperror.KindValidation, MsgPasswordTooLong, err)
	}
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// writeErr maps store write failures onto the error taxonomy. msg is used for
// conflicts: a taken login, or a revocation state changed by another request.
func (s *Service) writeErr(err error, msg, login string) error {
	switch {
	case errors.Is(err, repo.ErrDuplicateLogin):
		return apperror.Wrap(apperror.KindConflict, msg, err)
	case errors.Is(err, repo.ErrRevocationState):
		return apperror.Wrap(apperror.KindState, msg, err)
	case errors.Is(err, repo.ErrNotFound):
		return apperror.Wrap(apperror.KindNotFound, policy.MsgUserDoesNotExist, err)
	default:
		return s.persistenceErr(err, "user write failed", login)
	}
}

func (s *Service) persistenceErr(err error, msg, login string) error {
	fields := logrus.Fields{}
	if login != "" {
		fields["login"] = login
	}
	helpers.LogError(s.Logger, msg, err, fields)
	return apperror.Wrap(apperror.KindPersistence, MsgSaveFailed, err)
}

// publish never fails the caller; the write has already been committed.
func (s *Service) publish(ctx context.Context, ev events.AccountEvent) {
	if err := s.Events.Publish(ctx, ev); err != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"event":   ev.Type,
			"user_id": ev.UserID,
		}).Warn("publish account event failed")
	}
}
