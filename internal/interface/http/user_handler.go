package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-account-service/internal/application"
	"github.com/oksasatya/go-account-service/internal/domain/apperror"
	"github.com/oksasatya/go-account-service/internal/domain/entity"
	"github.com/oksasatya/go-account-service/internal/interface/middleware"
	"github.com/oksasatya/go-account-service/pkg/response"
	"github.com/oksasatya/go-account-service/pkg/validation"
)

type UserHandler struct {
	Svc    *application.Service
	Logger logrus.FieldLogger
}

func NewUserHandler(svc *application.Service, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

func invalidPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

func (h *UserHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.Register(c.Request.Context(), middleware.ActorLogin(c), application.RegisterInput{
		Login:    req.Login,
		Password: req.Password,
		Name:     req.Name,
		Gender:   entity.Gender(*req.Gender),
		Birthday: parseDate(req.Birthday),
		Admin:    req.Admin,
	})
	if err != nil {
		// privilege violations on registration are client errors, not 401
		if apperror.Is(err, apperror.KindAuthorization) {
			response.FromErrorWithStatus(c, http.StatusBadRequest, err)
			return
		}
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProfile(res), "user registered", nil)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	res, err := h.Svc.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProfile(res), "login successful", map[string]any{"expires_at": res.ExpiresAt})
}

func (h *UserHandler) ListOlderThan(c *gin.Context) {
	var q ageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", map[string]string{"age": "must be an integer"})
		return
	}
	users, err := h.Svc.ListOlderThan(c.Request.Context(), middleware.ActorLogin(c), q.Age)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUsers(users), "users", map[string]any{"count": len(users)})
}

func (h *UserHandler) GetByLogin(c *gin.Context) {
	d, err := h.Svc.GetByLogin(c.Request.Context(), middleware.ActorLogin(c), c.Param("login"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, detailsResponse{
		Name:     d.Name,
		Gender:   d.Gender.String(),
		Birthday: formatDate(d.Birthday),
		Active:   d.Active,
	}, "user", nil)
}

func (h *UserHandler) ListActive(c *gin.Context) {
	users, err := h.Svc.ListActive(c.Request.Context(), middleware.ActorLogin(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUsers(users), "active users", map[string]any{"count": len(users)})
}

func (h *UserHandler) Delete(c *gin.Context) {
	var q deleteQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid query", map[string]string{"softDelete": "must be a boolean"})
		return
	}
	login := c.Param("login")
	if err := h.Svc.Delete(c.Request.Context(), middleware.ActorLogin(c), login, q.SoftDelete); err != nil {
		response.FromError(c, err)
		return
	}
	msg := "user deleted"
	if q.SoftDelete {
		msg = "user revoked"
	}
	response.Success[any](c, http.StatusOK, nil, msg, nil)
}

func (h *UserHandler) Unrevoke(c *gin.Context) {
	if err := h.Svc.Unrevoke(c.Request.Context(), middleware.ActorLogin(c), c.Param("login")); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	err := h.Svc.UpdateProfile(c.Request.Context(), middleware.ActorLogin(c), application.UpdateProfileInput{
		Login:    req.Login,
		Name:     req.Name,
		Gender:   entity.Gender(*req.Gender),
		Birthday: parseDate(req.Birthday),
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) UpdatePassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	if err := h.Svc.UpdatePassword(c.Request.Context(), middleware.ActorLogin(c), req.Login, req.Password); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) UpdateLogin(c *gin.Context) {
	var req updateLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	if err := h.Svc.UpdateLogin(c.Request.Context(), middleware.ActorLogin(c), req.Login, req.NewLogin); err != nil {
		response.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search queries the user directory. Admin only.
func (h *UserHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		invalidPayload(c, err)
		return
	}
	docs, err := h.Svc.SearchUsers(c.Request.Context(), middleware.ActorLogin(c), q.Q, q.Size)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, docs, "search results", map[string]any{"count": len(docs)})
}
