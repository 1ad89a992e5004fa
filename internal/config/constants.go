package config

import "time"

// Logging defaults
const (
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultEnvironment = "dev"
	DefaultVersion     = "dev"
	DefaultServiceName = "killwatch"
)

// Database pool defaults
const (
	DefaultDBMaxConns    = 10
	DefaultDBMaxConnIdle = 5 * time.Minute
	DefaultDBMaxConnLife = time.Hour
)

// RedisQ defaults
const (
	DefaultRedisQURL         = "https://zkillredisq.stream"
	DefaultRedisQTTW         = 10
	DefaultRedisQMinInterval = 500 * time.Millisecond
	DefaultBackoffInitial    = time.Second
	DefaultBackoffMax        = 2 * time.Minute
	DefaultUserAgent         = "killwatch/1.0 (+https://github.com/osse101/killwatch)"
)

// ESI defaults
const (
	DefaultESIURL            = "https://esi.evetech.net/latest"
	DefaultESITimeout        = 10 * time.Second
	DefaultDetailConcurrency = 4
)

// Alert defaults
const (
	DefaultAlertWorkers   = 2
	DefaultAlertQueueSize = 256
	DefaultAlertTimeout   = 10 * time.Second
)

// DefaultSweepInterval is how often idle battles and dormant conflicts are aged
const DefaultSweepInterval = time.Minute
