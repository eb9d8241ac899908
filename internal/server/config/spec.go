package config

import "time"

// ServerConfig is the root configuration for memkv-server.
type ServerConfig struct {
	Server  ServerSection  `koanf:"server"`
	Storage StorageSection `koanf:"storage"`
	Log     LogSection     `koanf:"log"`
}

// ServerSection configures server endpoints.
type ServerSection struct {
	Redis RedisConfig `koanf:"redis"`
	Admin AdminConfig `koanf:"admin"`
}

// RedisConfig configures the key-value protocol listener.
type RedisConfig struct {
	Addr string `koanf:"addr"`

	// IdleTimeout closes connections that send nothing for this long.
	// Zero keeps idle connections open forever.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// WriteTimeout bounds each reply write. Zero disables it.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// RateLimit is the per-connection command rate (commands/second).
	// Zero disables rate limiting.
	RateLimit int `koanf:"rate_limit"`
	RateBurst int `koanf:"rate_burst"`

	// MaxBulkLen and MaxArrayLen cap declared frame lengths. Zero means
	// unlimited.
	MaxBulkLen  int `koanf:"max_bulk_len"`
	MaxArrayLen int `koanf:"max_array_len"`

	// ReplyErrors answers bad commands with an error frame instead of
	// closing the connection.
	ReplyErrors bool `koanf:"reply_errors"`
}

// AdminConfig configures the admin HTTP listener (metrics and health).
type AdminConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"`

	// AuthToken, when set, is required as a bearer token on /metrics.
	AuthToken string `koanf:"auth_token"`
}

// StorageSection configures the in-memory store.
type StorageSection struct {
	// Shards is the number of lock shards (a power of two).
	Shards int `koanf:"shards"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
