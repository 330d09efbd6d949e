package config

import "time"

// GathererConfig is the root configuration for a gatherer instance.
type GathererConfig struct {
	Instance InstanceConfig `yaml:"instance"`
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Stream   StreamConfig   `yaml:"stream"`
	Writers  WritersConfig  `yaml:"writers"`
	Poller   PollerConfig   `yaml:"poller"`
	Registry RegistryConfig `yaml:"registry"`
	Health   HealthConfig   `yaml:"health"`
}

// InstanceConfig identifies this gatherer.
type InstanceConfig struct {
	ID string `yaml:"id"`
}

// APIConfig holds Backpack API settings. APIKey and APISecret are only
// needed for the signed (account/history) endpoints; market-data capture
// works without them.
type APIConfig struct {
	RestURL   string        `yaml:"rest_url"`
	WSURL     string        `yaml:"ws_url"`
	APIKey    string        `yaml:"api_key"`    // base64 ED25519 verifying key
	APISecret string        `yaml:"api_secret"` // base64 ED25519 signing seed
	Timeout   time.Duration `yaml:"timeout"`
}

// DatabaseConfig holds the TimescaleDB connection for time-series data.
// Market metadata lives in-memory (market registry), so there is no
// relational database.
type DatabaseConfig struct {
	Timescale DBConfig `yaml:"timescale"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// StreamConfig holds WebSocket capture settings.
type StreamConfig struct {
	Symbols            []string      `yaml:"symbols"`
	ReconnectBaseDelay time.Duration `yaml:"reconnect_base_delay"`
	ReconnectMaxDelay  time.Duration `yaml:"reconnect_max_delay"`
	PingTimeout        time.Duration `yaml:"ping_timeout"`
	WriteTimeout       time.Duration `yaml:"write_timeout"`
	BufferSize         int           `yaml:"buffer_size"`
}

// WritersConfig holds batch writer settings.
type WritersConfig struct {
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	BufferSize    int           `yaml:"buffer_size"`
}

// PollerConfig holds depth snapshot poller settings.
type PollerConfig struct {
	Interval    time.Duration `yaml:"interval"`
	Concurrency int           `yaml:"concurrency"`
}

// RegistryConfig holds market registry settings.
type RegistryConfig struct {
	SyncInterval time.Duration `yaml:"sync_interval"`
}

// HealthConfig holds the health endpoint settings.
type HealthConfig struct {
	Port int `yaml:"port"`
}
