package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Mongo    MongoConfig    `yaml:"mongo"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Query    QueryConfig    `yaml:"query"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// MongoConfig configures the event details store.
// MaxBatchSize caps how many ids a single batch-get sends per call; larger
// id sets are split transparently by the repository.
type MongoConfig struct {
	URI          string `yaml:"uri"`
	Database     string `yaml:"database"`
	Collection   string `yaml:"collection"`
	MaxBatchSize int    `yaml:"max_batch_size"`
}

type RabbitMQConfig struct {
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	VHost    string `yaml:"vhost"`
}

// IngestConfig configures the AMQP create-event consumer.
type IngestConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Queue         string `yaml:"queue"`
	PrefetchCount int    `yaml:"prefetch_count"`
}

// QueryConfig bounds the caller-facing limit parameter.
type QueryConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// Load builds the configuration from an optional YAML file (CONFIG_FILE)
// overridden by environment variables. Required settings missing from both
// sources are reported together.
func Load() (*Config, error) {
	config := &Config{
		Mongo:  MongoConfig{MaxBatchSize: 100},
		Ingest: IngestConfig{PrefetchCount: 10},
		Query:  QueryConfig{DefaultLimit: 50, MaxLimit: 1000},
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	overlay := func(key string, dst *string) {
		if val := os.Getenv(key); val != "" {
			*dst = val
		}
	}

	overlay("SERVER_HOST", &config.Server.Host)
	overlay("SERVER_PORT", &config.Server.Port)

	overlay("DB_HOST", &config.Database.Host)
	overlay("DB_PORT", &config.Database.Port)
	overlay("DB_USER", &config.Database.User)
	overlay("DB_PASSWORD", &config.Database.Password)
	overlay("DB_NAME", &config.Database.DBName)
	overlay("DB_SSLMODE", &config.Database.SSLMode)

	overlay("MONGO_URI", &config.Mongo.URI)
	overlay("MONGO_DATABASE", &config.Mongo.Database)
	overlay("MONGO_COLLECTION", &config.Mongo.Collection)
	if err := overlayInt("MONGO_MAX_BATCH_SIZE", &config.Mongo.MaxBatchSize); err != nil {
		return nil, err
	}

	overlay("RABBITMQ_URL", &config.RabbitMQ.URL)
	overlay("RABBITMQ_HOST", &config.RabbitMQ.Host)
	overlay("RABBITMQ_PORT", &config.RabbitMQ.Port)
	overlay("RABBITMQ_USER", &config.RabbitMQ.User)
	overlay("RABBITMQ_PASSWORD", &config.RabbitMQ.Password)
	overlay("RABBITMQ_VHOST", &config.RabbitMQ.VHost)

	if val := os.Getenv("INGEST_ENABLED"); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return nil, fmt.Errorf("invalid INGEST_ENABLED value %q: %w", val, err)
		}
		config.Ingest.Enabled = enabled
	}
	overlay("INGEST_QUEUE", &config.Ingest.Queue)
	if err := overlayInt("INGEST_PREFETCH_COUNT", &config.Ingest.PrefetchCount); err != nil {
		return nil, err
	}

	if err := overlayInt("QUERY_DEFAULT_LIMIT", &config.Query.DefaultLimit); err != nil {
		return nil, err
	}
	if err := overlayInt("QUERY_MAX_LIMIT", &config.Query.MaxLimit); err != nil {
		return nil, err
	}

	if missing := config.missingKeys(); len(missing) > 0 {
		return nil, fmt.Errorf("missing required configuration: %v", missing)
	}

	return config, nil
}

func overlayInt(key string, dst *int) error {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fmt.Errorf("invalid %s value %q: %w", key, val, err)
	}
	*dst = parsed
	return nil
}

// missingKeys reports required settings that ended up empty. RabbitMQ
// settings are only required when the ingest consumer is enabled.
func (c *Config) missingKeys() []string {
	var missing []string

	require := func(key, val string) {
		if val == "" {
			missing = append(missing, key)
		}
	}

	require("SERVER_HOST", c.Server.Host)
	require("SERVER_PORT", c.Server.Port)
	require("DB_HOST", c.Database.Host)
	require("DB_PORT", c.Database.Port)
	require("DB_USER", c.Database.User)
	require("DB_PASSWORD", c.Database.Password)
	require("DB_NAME", c.Database.DBName)
	require("DB_SSLMODE", c.Database.SSLMode)
	require("MONGO_URI", c.Mongo.URI)
	require("MONGO_DATABASE", c.Mongo.Database)
	require("MONGO_COLLECTION", c.Mongo.Collection)

	if c.Ingest.Enabled {
		require("INGEST_QUEUE", c.Ingest.Queue)
		if c.RabbitMQ.URL == "" {
			require("RABBITMQ_HOST", c.RabbitMQ.Host)
			require("RABBITMQ_PORT", c.RabbitMQ.Port)
			require("RABBITMQ_USER", c.RabbitMQ.User)
			require("RABBITMQ_PASSWORD", c.RabbitMQ.Password)
			require("RABBITMQ_VHOST", c.RabbitMQ.VHost)
		}
	}

	return missing
}

// ConnectionString returns a DSN string for GORM
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.Host, c.User, c.Password, c.DBName, c.Port, c.SSLMode)
}

// MigrationURL returns a postgres:// URL for golang-migrate
func (c *DatabaseConfig) MigrationURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

func (c *RabbitMQConfig) ConnectionURL() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("amqp://%s:%s@%s:%s%s",
		c.User, c.Password, c.Host, c.Port, c.VHost)
}
