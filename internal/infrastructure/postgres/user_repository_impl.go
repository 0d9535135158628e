package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool the repository needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, login, password_hash, name, gender, birthday, is_admin,
	created_on, created_by, modified_on, modified_by, revoked_on, revoked_by`

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, u.ID, u.Login, u.Password, u.Name, int16(u.Gender), toDate(u.Birthday), u.IsAdmin(),
		u.CreatedOn, u.CreatedBy, u.ModifiedOn, u.ModifiedBy, u.RevokedOn, u.RevokedBy)
	return mapWriteErr(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanOne(row)
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*entity.User, error) {
	row := r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(login) = lower($1)`, login)
	return scanOne(row)
}

func (r *UserRepository) LoginExists(ctx context.Context, login string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE lower(login) = lower($1))`, login).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users SET name = $1, gender = $2, birthday = $3, modified_on = $4, modified_by = $5
		WHERE id = $6
	`, u.Name, int16(u.Gender), toDate(u.Birthday), u.ModifiedOn, u.ModifiedBy, u.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	return expectOne(res)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, u *entity.User) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users SET password_hash = $1, modified_on = $2, modified_by = $3
		WHERE id = $4
	`, u.Password, u.ModifiedOn, u.ModifiedBy, u.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	return expectOne(res)
}

func (r *UserRepository) UpdateLogin(ctx context.Context, u *entity.User) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users SET login = $1, modified_on = $2, modified_by = $3
		WHERE id = $4
	`, u.Login, u.ModifiedOn, u.ModifiedBy, u.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	return expectOne(res)
}

func (r *UserRepository) Revoke(ctx context.Context, u *entity.User) error {
	if u.RevokedOn == nil || u.RevokedBy == nil {
		return fmt.Errorf("revoke %s: revoked pair not set", u.ID)
	}
	res, err := r.db.Exec(ctx, `
		UPDATE users SET revoked_on = $1, revoked_by = $2
		WHERE id = $3 AND revoked_on IS NULL
	`, *u.RevokedOn, *u.RevokedBy, u.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	return r.expectTransition(ctx, res, u.ID)
}

func (r *UserRepository) Unrevoke(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users SET revoked_on = NULL, revoked_by = NULL
		WHERE id = $1 AND revoked_on IS NOT NULL AND revoked_by IS NOT NULL
	`, id)
	if err != nil {
		return mapWriteErr(err)
	}
	return r.expectTransition(ctx, res, id)
}

// expectTransition tells a missing record from one in the wrong revocation state.
func (r *UserRepository) expectTransition(ctx context.Context, res pgconn.CommandTag, id string) error {
	if res.RowsAffected() > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return repository.ErrRevocationState
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOne(res)
}

func (r *UserRepository) ListWithBirthday(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE birthday IS NOT NULL ORDER BY created_on`)
}

func (r *UserRepository) ListActive(ctx context.Context) ([]*entity.User, error) {
	return r.list(ctx, `SELECT `+userColumns+` FROM users WHERE revoked_on IS NULL ORDER BY created_on ASC`)
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *UserRepository) list(ctx context.Context, query string) ([]*entity.User, error) {
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	users := make([]*entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return users, nil
}

func scanOne(row pgx.Row) (*entity.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var (
		u        entity.User
		gender   int16
		birthday pgtype.Date
		isAdmin  bool
	)
	if err := row.Scan(&u.ID, &u.Login, &u.Password, &u.Name, &gender, &birthday, &isAdmin,
		&u.CreatedOn, &u.CreatedBy, &u.ModifiedOn, &u.ModifiedBy, &u.RevokedOn, &u.RevokedBy); err != nil {
		return nil, err
	}
	u.Gender = entity.Gender(gender)
	u.Role = entity.RoleFromFlag(isAdmin)
	if birthday.Valid {
		b := birthday.Time
		u.Birthday = &b
	}
	return &u, nil
}

func expectOne(res pgconn.CommandTag) error {
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func toDate(t *time.Time) pgtype.Date {
	if t == nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: *t, Valid: true}
}

// mapWriteErr turns a unique violation into repository.ErrDuplicateLogin.
func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicateLogin
	}
	return fmt.Errorf("db error: %w", err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
