package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

func TestMapWriteErr(t *testing.T) {
	assert.NoError(t, mapWriteErr(nil))

	dup := &pgconn.PgError{Code: "23505", ConstraintName: "users_login_lower_key"}
	assert.ErrorIs(t, mapWriteErr(dup), repository.ErrDuplicateLogin)

	other := &pgconn.PgError{Code: "23502"}
	err := mapWriteErr(other)
	assert.False(t, errors.Is(err, repository.ErrDuplicateLogin))
	assert.Contains(t, err.Error(), "db error")

	down := errors.New("connection refused")
	assert.ErrorIs(t, mapWriteErr(down), down)
}

func TestToDate(t *testing.T) {
	assert.False(t, toDate(nil).Valid)

	b := time.Date(1990, time.May, 17, 0, 0, 0, 0, time.UTC)
	d := toDate(&b)
	assert.True(t, d.Valid)
	assert.Equal(t, b, d.Time)
}

type fakeRow struct{ err error }

func (r fakeRow) Scan(...any) error { return r.err }

// fakeDB answers every Exec with a fixed row count and every QueryRow with row.
type fakeDB struct {
	affected int64
	row      fakeRow
	execs    []string
}

func (f *fakeDB) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", f.affected)), nil
}

func (f *fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeDB) QueryRow(context.Context, string, ...any) pgx.Row { return f.row }

func (f *fakeDB) Ping(context.Context) error { return nil }

func revokable() *entity.User {
	at, by := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), "root"
	return &entity.User{ID: "id-1", Login: "alice", RevokedOn: &at, RevokedBy: &by}
}

func TestRevoke_OnlyFromActive(t *testing.T) {
	ctx := context.Background()

	db := &fakeDB{affected: 1}
	require.NoError(t, NewUserRepository(db).Revoke(ctx, revokable()))
	require.Len(t, db.execs, 1)
	assert.Contains(t, db.execs[0], "revoked_on IS NULL")
	assert.NotContains(t, db.execs[0], "name =")

	db = &fakeDB{affected: 0}
	assert.ErrorIs(t, NewUserRepository(db).Revoke(ctx, revokable()), repository.ErrRevocationState)

	db = &fakeDB{affected: 0, row: fakeRow{err: pgx.ErrNoRows}}
	assert.ErrorIs(t, NewUserRepository(db).Revoke(ctx, revokable()), repository.ErrNotFound)

	assert.Error(t, NewUserRepository(&fakeDB{affected: 1}).Revoke(ctx, &entity.User{ID: "id-1"}))
}

func TestUnrevoke_OnlyFromRevoked(t *testing.T) {
	ctx := context.Background()

	db := &fakeDB{affected: 1}
	require.NoError(t, NewUserRepository(db).Unrevoke(ctx, "id-1"))
	assert.Contains(t, db.execs[0], "revoked_on IS NOT NULL")

	db = &fakeDB{affected: 0}
	assert.ErrorIs(t, NewUserRepository(db).Unrevoke(ctx, "id-1"), repository.ErrRevocationState)
}

func TestProfileWrite_TouchesOnlyProfileColumns(t *testing.T) {
	db := &fakeDB{affected: 1}
	require.NoError(t, NewUserRepository(db).UpdateProfile(context.Background(), revokable()))
	assert.NotContains(t, db.execs[0], "revoked_on")
	assert.NotContains(t, db.execs[0], "login =")

	db = &fakeDB{affected: 0}
	assert.ErrorIs(t, NewUserRepository(db).UpdatePassword(context.Background(), revokable()), repository.ErrNotFound)
}
