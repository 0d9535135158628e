package handlers

import (
	"time"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
)

const dateLayout = "2006-01-02"

type registerRequest struct {
	Login    string `json:"login" binding:"required,login"`
	Password string `json:"password" binding:"required,max=72,secret"`
	Name     string `json:"name" binding:"required,personname"`
	Gender   *int   `json:"gender" binding:"required,gender"`
	Birthday string `json:"birthday" binding:"omitempty,isodate"`
	Admin    bool   `json:"admin"`
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type updateProfileRequest struct {
	Login    string `json:"login" binding:"required"`
	Name     string `json:"name" binding:"required,personname"`
	Gender   *int   `json:"gender" binding:"required,gender"`
	Birthday string `json:"birthday" binding:"omitempty,isodate"`
}

type updatePasswordRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required,max=72,secret"`
}

type updateLoginRequest struct {
	Login    string `json:"login" binding:"required"`
	NewLogin string `json:"new_login" binding:"required,login"`
}

type ageQuery struct {
	Age int `form:"age"`
}

type deleteQuery struct {
	SoftDelete bool `form:"softDelete"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"omitempty,min=1,max=50"`
}

// profileResponse is returned by register and login.
type profileResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	Gender    string    `json:"gender"`
	Birthday  *string   `json:"birthday"`
	Admin     bool      `json:"admin"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type userResponse struct {
	ID         string     `json:"id"`
	Login      string     `json:"login"`
	Name       string     `json:"name"`
	Gender     string     `json:"gender"`
	Birthday   *string    `json:"birthday"`
	Admin      bool       `json:"admin"`
	CreatedOn  time.Time  `json:"created_on"`
	CreatedBy  string     `json:"created_by"`
	ModifiedOn time.Time  `json:"modified_on"`
	ModifiedBy string     `json:"modified_by"`
	RevokedOn  *time.Time `json:"revoked_on"`
	RevokedBy  *string    `json:"revoked_by"`
}

type detailsResponse struct {
	Name     string  `json:"name"`
	Gender   string  `json:"gender"`
	Birthday *string `json:"birthday"`
	Active   bool    `json:"active"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

// parseDate expects input already checked by the isodate rule.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

func toProfile(res *application.AuthResult) profileResponse {
	u := res.User
	return profileResponse{
		ID:        u.ID,
		Login:     u.Login,
		Name:      u.Name,
		Gender:    u.Gender.String(),
		Birthday:  formatDate(u.Birthday),
		Admin:     u.IsAdmin(),
		Token:     res.Token,
		ExpiresAt: res.ExpiresAt,
	}
}

func toUsers(users []*entity.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{
			ID:         u.ID,
			Login:      u.Login,
			Name:       u.Name,
			Gender:     u.Gender.String(),
			Birthday:   formatDate(u.Birthday),
			Admin:      u.IsAdmin(),
			CreatedOn:  u.CreatedOn,
			CreatedBy:  u.CreatedBy,
			ModifiedOn: u.ModifiedOn,
			ModifiedBy: u.ModifiedBy,
			RevokedOn:  u.RevokedOn,
			RevokedBy:  u.RevokedBy,
		})
	}
	return out
}
