package temporalx

import "strings"

const (
	DefaultNamespace         = "evidly"
	DefaultTaskQueue         = "evidly-scoring"
	DefaultDailySnapshotCron = "0 4 * * *"
)

type Config struct {
	Address   string
	Namespace string
	TaskQueue string

	// DailySnapshotCron drives the daily snapshot schedule. Empty disables it.
	DailySnapshotCron string
	AutoRegister      bool

	ClientCertPath string
	ClientKeyPath  string
	ClientCAPath   string
}

// Normalize trims every field and fills namespace and task queue defaults.
func (c Config) Normalize() Config {
	c.Address = strings.TrimSpace(c.Address)
	c.Namespace = stringsOr(c.Namespace, DefaultNamespace)
	c.TaskQueue = stringsOr(c.TaskQueue, DefaultTaskQueue)
	c.DailySnapshotCron = strings.TrimSpace(c.DailySnapshotCron)
	c.ClientCertPath = strings.TrimSpace(c.ClientCertPath)
	c.ClientKeyPath = strings.TrimSpace(c.ClientKeyPath)
	c.ClientCAPath = strings.TrimSpace(c.ClientCAPath)
	return c
}

func (c Config) Enabled() bool { return strings.TrimSpace(c.Address) != "" }

func (c Config) tlsEnabled() bool {
	return c.ClientCertPath != "" || c.ClientKeyPath != "" || c.ClientCAPath != ""
}

func stringsOr(v, def string) string {
	if v = strings.TrimSpace(v); v == "" {
		return def
	}
	return v
}
