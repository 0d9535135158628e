package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/domain/repository"
)

const userColumns = `id, login, password_hash, name, gender, birthday, is_admin,
	created_on, created_by, modified_on, modified_by, revoked_on, revoked_by`

// UserRepository implements repository.UserRepository on database/sql.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Login, u.Password, u.Name, int(u.Gender), nullTime(u.Birthday), u.IsAdmin(),
		u.CreatedOn.UTC(), u.CreatedBy, u.ModifiedOn.UTC(), u.ModifiedBy, nullTime(u.RevokedOn), nullString(u.RevokedBy))
	return mapWriteErr(err)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanOne(row)
}

func (r *UserRepository) GetByLogin(ctx context.Context, login string) (*entity.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE lower(login) = lower(?)`, login)
	return scanOne(row)
}

func (r *UserRepository) LoginExists(ctx context.Context, login string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE lower(login) = lower(?)`, login).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return n > 0, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *entity.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET name = ?, gender = ?, birthday = ?, modified_on = ?, modified_by = ?
		WHERE id = ?
	`, u.Name, int(u.Gender), nullTime(u.Birthday), u.ModifiedOn.UTC(), u.ModifiedBy, u.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	return expectOne(res)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, u *entity.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, modified_on = ?, modified_by = ?
		WHERE id = ?
	`, u.Password, u.ModifiedOn.UTC(), u.ModifiedBy, u.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	return expectOne(res)
}

func (r *UserRepository) UpdateLogin(ctx context.Context, u *entity.User) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET login = ?, modified_on = ?, modified_by = ?
		WHERE id = ?
	`, u.Login, u.ModifiedOn.UTC(), u.ModifiedBy, u.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	return expectOne(res)
}

func (r *UserRepository) Revoke(ctx context.Context, u *entity.User) error {
	if u.RevokedOn == nil || u.RevokedBy == nil {
		return fmt.Errorf("revoke %s: revoked pair not set", u.ID)
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET revoked_on = ?, revoked_by = ?
		WHERE id = ? AND revoked_on IS NULL
	`, u.RevokedOn.UTC(), *u.RevokedBy, u.ID)
	if err != nil {
		return mapWriteErr(err)
	}
	return r.expectTransition(ctx, res, u.ID)
}

func (r *UserRepository) Unrevoke(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET revoked_on = NULL, revoked_by = NULL
		WHERE id = ? AND revoked_on IS NOT NULL AND revoked_by IS NOT NULL
	`, id)
	if err != nil {
		return mapWriteErr(err)
	}
	return r.expectTransition(ctx, res, id)
}

// expectTransition tells a missing record from one in the wrong revocation state.
func (r *UserRepository) expectTransition(ctx context.Context, res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n > 0 {
		return nil
	}
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return repository.ErrRevocationState
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
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
	return r.db.PingContext(ctx)
}

// Close closes the underlying database.
func (r *UserRepository) Close() error {
	return r.db.Close()
}

func (r *UserRepository) list(ctx context.Context, query string) ([]*entity.User, error) {
	rows, err := r.db.QueryContext(ctx, query)
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

type scanner interface {
	Scan(dest ...any) error
}

func scanOne(row scanner) (*entity.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func scanUser(row scanner) (*entity.User, error) {
	var (
		u         entity.User
		gender    int
		birthday  sql.NullTime
		isAdmin   bool
		revokedOn sql.NullTime
		revokedBy sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Login, &u.Password, &u.Name, &gender, &birthday, &isAdmin,
		&u.CreatedOn, &u.CreatedBy, &u.ModifiedOn, &u.ModifiedBy, &revokedOn, &revokedBy); err != nil {
		return nil, err
	}
	u.Gender = entity.Gender(gender)
	u.Role = entity.RoleFromFlag(isAdmin)
	if birthday.Valid {
		b := birthday.Time.UTC()
		u.Birthday = &b
	}
	if revokedOn.Valid {
		at := revokedOn.Time.UTC()
		u.RevokedOn = &at
	}
	if revokedBy.Valid {
		by := revokedBy.String
		u.RevokedBy = &by
	}
	u.CreatedOn = u.CreatedOn.UTC()
	u.ModifiedOn = u.ModifiedOn.UTC()
	return &u, nil
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
		return repository.ErrDuplicateLogin
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return repository.ErrDuplicateLogin
	}
	return fmt.Errorf("db error: %w", err)
}

var _ repository.UserRepository = (*UserRepository)(nil)
