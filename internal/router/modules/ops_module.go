package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	handlers "github.com/oksasatya/go-account-service/internal/interface/http"
)

// OpsModule serves /healthz and, when a gatherer is set, /metrics.
type OpsModule struct {
	Health   *handlers.HealthHandler
	Gatherer prometheus.Gatherer
}

func NewOpsModule(h *handlers.HealthHandler, g prometheus.Gatherer) *OpsModule {
	return &OpsModule{Health: h, Gatherer: g}
}

func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.Health.Healthz)
	if m.Gatherer != nil {
		rg.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{})))
	}
}
