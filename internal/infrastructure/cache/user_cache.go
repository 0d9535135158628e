// Package cache provides a Redis read-through decorator for the credential store.
package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
	"github.com/oksasatya/go-account-service/pkg/helpers"
)

const DefaultTTL = 30 * time.Second

func loginKey(login string) string { return "user:login:" + login }

// UserCache caches GetByLogin lookups. Every write goes to the wrapped
// repository first and then drops the affected keys; uniqueness checks and
// id lookups always hit the store.
type UserCache struct {
	next   repository.UserRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger logrus.FieldLogger
}

// Wrap returns next unchanged when rdb is nil.
func Wrap(next repository.UserRepository, rdb *redis.Client, ttl time.Duration, logger logrus.FieldLogger) repository.UserRepository {
	if rdb == nil {
		return next
	}
	return NewUserCache(next, rdb, ttl, logger)
}

func NewUserCache(next repository.UserRepository, rdb *redis.Client, ttl time.Duration, logger logrus.FieldLogger) *UserCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	return &UserCache{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *UserCache) GetByLogin(ctx context.Context, login string) (*entity.User, error) {
	key := loginKey(login)
	var rec record
	found, err := helpers.RedisGetJSON(ctx, c.rdb, key, &rec)
	if err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("user cache read failed")
	}
	if found {
		return rec.toEntity(), nil
	}

	u, err := c.next.GetByLogin(ctx, login)
	if err != nil {
		return nil, err
	}
	if err := helpers.RedisSetJSON(ctx, c.rdb, key, fromEntity(u), c.ttl); err != nil {
		c.logger.WithError(err).WithField("key", key).Warn("user cache write failed")
	}
	return u, nil
}

func (c *UserCache) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return c.next.GetByID(ctx, id)
}

func (c *UserCache) LoginExists(ctx context.Context, login string) (bool, error) {
	return c.next.LoginExists(ctx, login)
}

func (c *UserCache) Create(ctx context.Context, u *entity.User) error {
	if err := c.next.Create(ctx, u); err != nil {
		return err
	}
	c.invalidate(ctx, u.Login)
	return nil
}

func (c *UserCache) UpdateProfile(ctx context.Context, u *entity.User) error {
	return c.write(ctx, u.ID, []string{u.Login}, func() error { return c.next.UpdateProfile(ctx, u) })
}

func (c *UserCache) UpdatePassword(ctx context.Context, u *entity.User) error {
	return c.write(ctx, u.ID, []string{u.Login}, func() error { return c.next.UpdatePassword(ctx, u) })
}

func (c *UserCache) UpdateLogin(ctx context.Context, u *entity.User) error {
	keys := []string{u.Login}
	if prev, err := c.next.GetByID(ctx, u.ID); err == nil {
		keys = append(keys, prev.Login)
	}
	return c.write(ctx, u.ID, keys, func() error { return c.next.UpdateLogin(ctx, u) })
}

func (c *UserCache) Revoke(ctx context.Context, u *entity.User) error {
	return c.write(ctx, u.ID, []string{u.Login}, func() error { return c.next.Revoke(ctx, u) })
}

func (c *UserCache) Unrevoke(ctx context.Context, id string) error {
	var keys []string
	if prev, err := c.next.GetByID(ctx, id); err == nil {
		keys = append(keys, prev.Login)
	}
	return c.write(ctx, id, keys, func() error { return c.next.Unrevoke(ctx, id) })
}

// write drops the keys before and after fn, adding the login the store holds
// once fn has run. The second pass evicts a record a concurrent reader cached
// while the write was in flight.
func (c *UserCache) write(ctx context.Context, id string, logins []string, fn func() error) error {
	c.invalidate(ctx, logins...)
	if err := fn(); err != nil {
		return err
	}
	if cur, err := c.next.GetByID(ctx, id); err == nil {
		logins = append(logins, cur.Login)
	}
	c.invalidate(ctx, logins...)
	return nil
}

func (c *UserCache) Delete(ctx context.Context, id string) error {
	prev, lookupErr := c.next.GetByID(ctx, id)
	if err := c.next.Delete(ctx, id); err != nil {
		return err
	}
	if lookupErr == nil {
		c.invalidate(ctx, prev.Login)
	}
	return nil
}

func (c *UserCache) ListWithBirthday(ctx context.Context) ([]*entity.User, error) {
	return c.next.ListWithBirthday(ctx)
}

func (c *UserCache) ListActive(ctx context.Context) ([]*entity.User, error) {
	return c.next.ListActive(ctx)
}

func (c *UserCache) Ping(ctx context.Context) error {
	if err := c.next.Ping(ctx); err != nil {
		return err
	}
	return c.rdb.Ping(ctx).Err()
}

func (c *UserCache) invalidate(ctx context.Context, logins ...string) {
	keys := make([]string, 0, len(logins))
	for _, l := range logins {
		keys = append(keys, loginKey(l))
	}
	if err := helpers.RedisDel(ctx, c.rdb, keys...); err != nil {
		c.logger.WithError(err).WithField("keys", keys).Warn("user cache invalidation failed")
	}
}

var _ repository.UserRepository = (*UserCache)(nil)
