package config

import "time"

type Config struct {
	Service     *ServiceConfig
	Redis       *RedisConfig
	Postgres    *PostgresConfig
	Messaging   *MessagingConfig
	Tracer      *TracerConfig
	Logger      *LoggerConfig
	SecretToken string
}

type ServiceConfig struct {
	Name string
	Env  string
	Add  string
}

type RedisConfig struct {
	URL          string
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int
	MinIdleConns int
	PingTimeout  time.Duration
}

type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	Migrate         bool
}

// Backend selects the persistence/notification provider: "postgres" pairs
// Postgres repositories with Redis pub/sub, "memory" keeps everything in
// process.
type MessagingConfig struct {
	Backend         string
	OpTimeout       time.Duration
	ProfileCacheTTL time.Duration
	InboundRate     float64
	InboundBurst    int
}

type TracerConfig struct {
	Enabled bool
	Address string
}

type LoggerConfig struct {
	Level  string
	Format string
}
