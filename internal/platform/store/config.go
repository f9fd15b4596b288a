package store

import (
	"time"

	"insightbff/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	// AppName tags pg connections and clickhouse client info
	AppName string

	PG  PGConfig
	CH  CHConfig
	RDS RedisConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs; zero values fall back to defaults in openPG
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled bool
	URL     string
	// Role and Tag end up in the clickhouse client info (e.g. "api", "v1.2.0")
	Role string
	Tag  string
}

// RedisConfig configures redis connectivity
type RedisConfig struct {
	Enabled bool
	URL     string
}

// LoadConfig reads SERVICE_PGSQL_*, SERVICE_CLICKHOUSE_* and SERVICE_REDIS_* from root
// Postgres is always on; the other backends are opt-in
func LoadConfig(root config.Conf, appName string) Config {
	pgc := root.Prefix("SERVICE_PGSQL_")
	chc := root.Prefix("SERVICE_CLICKHOUSE_")
	rdc := root.Prefix("SERVICE_REDIS_")

	return Config{
		AppName: appName,
		PG: PGConfig{
			Enabled:        true,
			URL:            pgc.MustString("DBURL"),
			MaxConns:       int32(pgc.MayPositiveInt("MAX_CONNS", 16)),
			LogSQL:         pgc.MayBool("LOG_SQL", false),
			SlowQueryMs:    pgc.MayInt("SLOW_MS", 200),
			ConnectRetries: pgc.MayPositiveInt("CONNECT_RETRIES", 20),
			PingTimeout:    pgc.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			Enabled: chc.MayBool("ENABLED", false),
			URL:     chc.MayString("DBURL", ""),
			Role:    appName,
		},
		RDS: RedisConfig{
			Enabled: rdc.MayBool("ENABLED", false),
			URL:     rdc.MayString("URL", "redis://localhost:6379/0"),
		},
	}
}
