// Package config loads the settings shared by the api_gateway and event_processor binaries.
package config

import (
	"errors"
	"strings"
	"time"
)

// Config is validated once at startup; a binary never sees a partially valid Config.
type Config struct {
	Application ApplicationConfig
	Logging     LoggingConfig
	Server      ServerConfig
	Kafka       KafkaConfig
	Postgres    PostgresConfig
	MongoDB     MongoDBConfig
	Outbox      OutboxConfig
	WorkerPool  WorkerPoolConfig
	Reporting   ReportingConfig
}

// ApplicationConfig contains general application configuration
type ApplicationConfig struct {
	Env  string
	Name string
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string
}

// ServerConfig contains HTTP server configuration settings
type ServerConfig struct {
	Port            int           // Port to listen on
	ShutdownTimeout time.Duration // Grace period for server shutdown
	ReadTimeout     time.Duration // Maximum duration for reading entire request
	WriteTimeout    time.Duration // Maximum duration for writing response
	IdleTimeout     time.Duration // Maximum duration to wait for next request
}

// KafkaConfig contains Kafka configuration
type KafkaConfig struct {
	Brokers           string
	LedgerEventsTopic string // Topic receiving ledger events relayed from the outbox
	NumPartitions     int // Number of partitions for topics
	ReplicationFactor int // Replication factor for topics
	ConsumerGroup     string
	MinBytes          int
	MaxBytes          int
	MaxWait           time.Duration
	StartOffset       int64
	DLQTopic          string // Topic for Dead Letter Queue
}

// PostgresConfig contains PostgreSQL configuration
type PostgresConfig struct {
	URL             string        // Database connection string
	MaxConns        int32         // Maximum number of open connections
	MinConns        int32         // Maximum number of idle connections
	ConnMaxLifetime time.Duration // Maximum lifetime of a connection
	ConnMaxIdleTime time.Duration // Maximum idle time of a connection
	MigrationsPath  string        // Path to migration files
}

// MongoDBConfig contains MongoDB configuration
type MongoDBConfig struct {
	URI             string
	Database        string
	Timeout         time.Duration
	MaxPoolSize     uint64
	MinPoolSize     uint64
	MaxConnIdleTime time.Duration
}

// OutboxConfig contains outbox pattern configuration
type OutboxConfig struct {
	PollingInterval  time.Duration
	BatchSize        int
	MaxRetryAttempts int // Maximum number of retry attempts for outbox messages
}

// WorkerPoolConfig contains worker pool configuration
type WorkerPoolConfig struct {
	Size int // Maximum number of workers in the pool
}

// ReportingConfig contains dashboard defaults
type ReportingConfig struct {
	DefaultCurrency      string // Currency used when a dashboard request omits one
	DefaultCategoryLimit int    // Number of categories returned when a request omits the limit
}

// problems accumulates validation failures in the order they are found
type problems []string

func (p *problems) require(ok bool, msg string) {
	if !ok {
		*p = append(*p, msg)
	}
}

func (p *problems) positive(key string, value int64) {
	p.require(value > 0, key+" must be greater than 0")
}

func (p *problems) present(key, value string) {
	p.require(value != "", key+" is required")
}

// validate collects every violation so a misconfigured deployment is fixed in one pass
func (c *Config) validate() error {
	var p problems

	p.positive("SERVER_PORT", int64(c.Server.Port))
	p.positive("SERVER_SHUTDOWN_TIMEOUT", int64(c.Server.ShutdownTimeout))
	p.positive("SERVER_READ_TIMEOUT", int64(c.Server.ReadTimeout))
	p.positive("SERVER_WRITE_TIMEOUT", int64(c.Server.WriteTimeout))
	p.positive("SERVER_IDLE_TIMEOUT", int64(c.Server.IdleTimeout))

	p.present("KAFKA_BROKERS", c.Kafka.Brokers)
	p.present("KAFKA_LEDGER_EVENTS_TOPIC", c.Kafka.LedgerEventsTopic)
	p.present("KAFKA_CONSUMER_GROUP", c.Kafka.ConsumerGroup)
	p.positive("KAFKA_CONSUMER_MIN_BYTES", int64(c.Kafka.MinBytes))
	p.positive("KAFKA_CONSUMER_MAX_BYTES", int64(c.Kafka.MaxBytes))
	p.require(c.Kafka.MinBytes <= c.Kafka.MaxBytes, "KAFKA_CONSUMER_MIN_BYTES must not exceed KAFKA_CONSUMER_MAX_BYTES")
	p.positive("KAFKA_CONSUMER_MAX_WAIT", int64(c.Kafka.MaxWait))
	p.present("KAFKA_DLQ_TOPIC", c.Kafka.DLQTopic)
	p.require(c.Kafka.DLQTopic != c.Kafka.LedgerEventsTopic, "KAFKA_DLQ_TOPIC must differ from KAFKA_LEDGER_EVENTS_TOPIC")

	p.present("POSTGRES_URL", c.Postgres.URL)
	p.positive("POSTGRES_MAX_CONNS", int64(c.Postgres.MaxConns))
	p.positive("POSTGRES_MIN_CONNS", int64(c.Postgres.MinConns))
	p.positive("POSTGRES_MAX_CONN_LIFETIME", int64(c.Postgres.ConnMaxLifetime))
	p.positive("POSTGRES_MAX_CONN_IDLE_TIME", int64(c.Postgres.ConnMaxIdleTime))

	p.present("MONGO_URI", c.MongoDB.URI)
	p.present("MONGO_DATABASE", c.MongoDB.Database)
	p.positive("MONGO_TIMEOUT", int64(c.MongoDB.Timeout))
	p.positive("MONGO_MAX_POOL_SIZE", int64(c.MongoDB.MaxPoolSize))
	p.positive("MONGO_MIN_POOL_SIZE", int64(c.MongoDB.MinPoolSize))
	p.positive("MONGO_MAX_CONN_IDLE_TIME", int64(c.MongoDB.MaxConnIdleTime))

	p.positive("OUTBOX_POLLING_INTERVAL", int64(c.Outbox.PollingInterval))
	p.positive("OUTBOX_BATCH_SIZE", int64(c.Outbox.BatchSize))
	p.positive("OUTBOX_MAX_RETRY_ATTEMPTS", int64(c.Outbox.MaxRetryAttempts))

	p.positive("WORKER_POOL_SIZE", int64(c.WorkerPool.Size))

	p.require(len(c.Reporting.DefaultCurrency) == 3, "REPORT_DEFAULT_CURRENCY must be a 3-letter code")
	p.require(c.Reporting.DefaultCategoryLimit >= 1 && c.Reporting.DefaultCategoryLimit <= 50,
		"REPORT_DEFAULT_CATEGORY_LIMIT must be between 1 and 50")

	if len(p) > 0 {
		return errors.New(strings.Join(p, ", "))
	}
	return nil
}
