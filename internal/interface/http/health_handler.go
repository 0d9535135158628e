package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-account-service/pkg/response"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Store Pinger
}

func NewHealthHandler(store Pinger) *HealthHandler {
	return &HealthHandler{Store: store}
}

// Healthz reports 503 when the credential store does not answer a ping.
func (h *HealthHandler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		_ = c.Error(err)
		response.Error[any](c, http.StatusServiceUnavailable, "store unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"status": "ok"}, "healthy", nil)
}
