package app

import (
	httpx "github.com/yungbote/evidly-backend/internal/http"
	"github.com/yungbote/evidly-backend/internal/observability"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *httpx.Server {
	return httpx.NewServer(httpx.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    cfg.ServiceName,
		CORSOrigins:    cfg.CORSOrigins,
		HealthHandler:  handlers.Health,
		ScoringHandler: handlers.Scoring,
	})
}
