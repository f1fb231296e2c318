package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/evidly-backend/internal/http/handlers"
	httpMW "github.com/yungbote/evidly-backend/internal/http/middleware"
	"github.com/yungbote/evidly-backend/internal/observability"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	HealthHandler  *httpH.HealthHandler
	ScoringHandler *httpH.ScoringHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Compliance scoring
		if cfg.ScoringHandler != nil {
			api.POST("/compliance/score", cfg.ScoringHandler.CalculateScore)
			api.GET("/locations/:id/compliance-score", cfg.ScoringHandler.GetLocationScore)
			api.GET("/locations/:id/score-snapshots", cfg.ScoringHandler.ListSnapshots)
			api.GET("/violation-catalog", cfg.ScoringHandler.ListViolationCatalog)
		}
	}

	return r
}
