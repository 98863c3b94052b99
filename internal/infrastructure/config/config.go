package config

import "time"

// Config holds all configuration for the application
type Config struct {
	Environment string         `mapstructure:"environment"`
	Server      ServerConfig   `mapstructure:"server"`
	Database    DatabaseConfig `mapstructure:"database"`
	Redis       RedisConfig    `mapstructure:"redis"`
	Amqp        AmqpConfig     `mapstructure:"amqp"`
	Lock        LockConfig     `mapstructure:"lock"`
	Presence    PresenceConfig `mapstructure:"presence"`
	Logger      LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"readTimeout"`       // seconds
	WriteTimeout      time.Duration `mapstructure:"writeTimeout"`      // seconds
	IdleTimeout       time.Duration `mapstructure:"idleTimeout"`       // seconds
	ReadHeaderTimeout time.Duration `mapstructure:"readHeaderTimeout"` // seconds
	ShutdownTimeout   time.Duration `mapstructure:"shutdownTimeout"`   // seconds
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslMode"`
	MaxOpenConns    int           `mapstructure:"maxOpenConns"`
	MaxIdleConns    int           `mapstructure:"maxIdleConns"`
	ConnMaxLifetime time.Duration `mapstructure:"connMaxLifetime"` // minutes
	ConnMaxIdleTime time.Duration `mapstructure:"connMaxIdleTime"` // minutes
	QueryTimeout    time.Duration `mapstructure:"queryTimeout"`    // seconds
	RetryAttempts   int           `mapstructure:"retryAttempts"`
	RetryDelay      time.Duration `mapstructure:"retryDelay"` // seconds
}

// RedisConfig contains settings for the realtime pub/sub backend
type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db"`
	DialTimeout time.Duration `mapstructure:"dialTimeout"` // seconds
}

// AmqpConfig contains settings for the audit event broker
type AmqpConfig struct {
	URL     string `mapstructure:"url"`
	Enabled bool   `mapstructure:"enabled"`
}

// LockConfig contains invoice lock lifecycle settings
type LockConfig struct {
	StaleThreshold time.Duration `mapstructure:"staleThresholdMinutes"` // minutes
	PollInterval   time.Duration `mapstructure:"pollIntervalSeconds"`   // seconds
	FeedSilence    time.Duration `mapstructure:"feedSilenceSeconds"`    // seconds
	SweepInterval  time.Duration `mapstructure:"sweepIntervalSeconds"`  // seconds
}

// PresenceConfig contains presence tracking settings
type PresenceConfig struct {
	DebounceMs         time.Duration `mapstructure:"debounceMs"`                // milliseconds
	RosterSyncInterval time.Duration `mapstructure:"rosterSyncIntervalSeconds"` // seconds
	EntryTTL           time.Duration `mapstructure:"entryTtlSeconds"`           // seconds
}

// LoggerConfig contains logger settings
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	CallerInfo bool   `mapstructure:"callerInfo"`
}
