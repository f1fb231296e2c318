package app

import (
	"fmt"

	temporalsdkclient "go.temporal.io/sdk/client"

	"github.com/yungbote/evidly-backend/internal/platform/logger"
	"github.com/yungbote/evidly-backend/internal/realtime/bus"
	"github.com/yungbote/evidly-backend/internal/temporalx"
)

// Clients holds the optional external connections. A nil field means the
// integration is not configured.
type Clients struct {
	ScoreBus bus.ScoreBus
	Temporal temporalsdkclient.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var out Clients

	// Redis
	if cfg.RedisAddr != "" {
		sb, err := bus.NewScoreBus(log, bus.Config{Addr: cfg.RedisAddr, Channel: cfg.RedisScoreChannel})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis score bus: %w", err)
		}
		out.ScoreBus = sb
	} else {
		log.Info("REDIS_ADDR not set; score events disabled")
	}

	// Temporal
	if cfg.Temporal.Enabled() {
		tc, err := temporalx.NewClient(log, cfg.Temporal)
		if err != nil {
			out.Close()
			return Clients{}, fmt.Errorf("init temporal client: %w", err)
		}
		out.Temporal = tc
	}

	return out, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.ScoreBus != nil {
		_ = c.ScoreBus.Close()
	}
	if c.Temporal != nil {
		c.Temporal.Close()
	}
}
