package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/evidly-backend/internal/http/handlers"
	"github.com/yungbote/evidly-backend/internal/platform/logger"
)

type Handlers struct {
	Health  *httpH.HealthHandler
	Scoring *httpH.ScoringHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(dbPinger(db)),
		Scoring: httpH.NewScoringHandler(services.Scoring, services.Catalog),
	}
}

func dbPinger(db *gorm.DB) httpH.Pinger {
	if db == nil {
		return nil
	}
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
