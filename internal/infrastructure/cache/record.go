package cache

import (
	"time"

	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

// record is the cached JSON shape of a user.
type record struct {
	ID         string     `json:"id"`
	Login      string     `json:"login"`
	Password   string     `json:"password_hash"`
	Name       string     `json:"name"`
	Gender     int        `json:"gender"`
	Birthday   *time.Time `json:"birthday,omitempty"`
	Admin      bool       `json:"admin"`
	CreatedOn  time.Time  `json:"created_on"`
	CreatedBy  string     `json:"created_by"`
	ModifiedOn time.Time  `json:"modified_on"`
	ModifiedBy string     `json:"modified_by"`
	RevokedOn  *time.Time `json:"revoked_on,omitempty"`
	RevokedBy  *string    `json:"revoked_by,omitempty"`
}

func fromEntity(u *entity.User) record {
	return record{
		ID:         u.ID,
		Login:      u.Login,
		Password:   u.Password,
		Name:       u.Name,
		Gender:     int(u.Gender),
		Birthday:   u.Birthday,
		Admin:      u.IsAdmin(),
		CreatedOn:  u.CreatedOn,
		CreatedBy:  u.CreatedBy,
		ModifiedOn: u.ModifiedOn,
		ModifiedBy: u.ModifiedBy,
		RevokedOn:  u.RevokedOn,
		RevokedBy:  u.RevokedBy,
	}
}

func (r record) toEntity() *entity.User {
	return &entity.User{
		ID:         r.ID,
		Login:      r.Login,
		Password:   r.Password,
		Name:       r.Name,
		Gender:     entity.Gender(r.Gender),
		Birthday:   r.Birthday,
		Role:       entity.RoleFromFlag(r.Admin),
		CreatedOn:  r.CreatedOn,
		CreatedBy:  r.CreatedBy,
		ModifiedOn: r.ModifiedOn,
		ModifiedBy: r.ModifiedBy,
		RevokedOn:  r.RevokedOn,
		RevokedBy:  r.RevokedBy,
	}
}
