package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// Config is the interface that all service configs must implement.
type Config interface {
	Validate() error
}

// BaseConfig contains configuration shared by every journal binary.
type BaseConfig struct {
	Service  ServiceConfig  `koanf:"service"`
	Database DatabaseConfig `koanf:"database"`
	Logger   LoggerConfig   `koanf:"logger"`
	Auth     AuthConfig     `koanf:"auth"`
	Events   EventsConfig   `koanf:"events"`
	Storage  StorageConfig  `koanf:"storage"`
}

// ServiceConfig contains service metadata and listen ports.
type ServiceConfig struct {
	Name            string        `koanf:"name"`
	Version         string        `koanf:"version"`
	Environment     string        `koanf:"environment"` // dev, staging, production
	Port            int           `koanf:"port"`
	GRPCPort        int           `koanf:"grpc_port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// AuthConfig configures the identity boundary.
type AuthConfig struct {
	JWTSecret     string        `koanf:"jwt_secret"`
	JWTIssuer     string        `koanf:"jwt_issuer"`
	TokenDuration time.Duration `koanf:"token_duration"`
	SessionSecret string        `koanf:"session_secret"`
	SessionName   string        `koanf:"session_name"`
	SessionMaxAge time.Duration `koanf:"session_max_age"`
	SecureCookies bool          `koanf:"secure_cookies"`
}

// DatabaseConfig contains database connection settings.
// Driver is "postgres" or "sqlite"; SQLitePath is used only by the latter.
type DatabaseConfig struct {
	Driver          string        `koanf:"driver"`
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Database        string        `koanf:"database"`
	SSLMode         string        `koanf:"ssl_mode"`
	SQLitePath      string        `koanf:"sqlite_path"`
	MaxConnections  int           `koanf:"max_connections"`
	MinConnections  int           `koanf:"min_connections"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`
	SlowQuery       time.Duration `koanf:"slow_query"`
}

// LoggerConfig contains logging configuration.
type LoggerConfig struct {
	Level       string `koanf:"level"`  // debug, info, warn, error
	Format      string `koanf:"format"` // json, console
	Development bool   `koanf:"development"`
	OutputPath  string `koanf:"output_path"` // stdout, stderr, or file path
}

// EventsConfig selects where journal events are published.
// Driver is one of none, local, nats, kafka.
type EventsConfig struct {
	Driver string      `koanf:"driver"`
	NATS   NATSConfig  `koanf:"nats"`
	Kafka  KafkaConfig `koanf:"kafka"`
}

// NATSConfig configures the JetStream publisher.
type NATSConfig struct {
	URL           string        `koanf:"url"`
	StreamName    string        `koanf:"stream_name"`
	SubjectPrefix string        `koanf:"subject_prefix"`
	MaxAge        time.Duration `koanf:"max_age"`
}

// KafkaConfig configures the Kafka publisher.
type KafkaConfig struct {
	Brokers  []string `koanf:"brokers"`
	Topic    string   `koanf:"topic"`
	ClientID string   `koanf:"client_id"`
}

// StorageConfig selects where uploaded poster and gallery images go.
// Type is "local" or "s3".
type StorageConfig struct {
	Type           string   `koanf:"type"`
	LocalPath      string   `koanf:"local_path"`
	PublicBaseURL  string   `koanf:"public_base_url"`
	MaxUploadBytes int64    `koanf:"max_upload_bytes"`
	AllowedTypes   []string `koanf:"allowed_types"`
	S3             S3Config `koanf:"s3"`
}

// S3Config configures the S3 image store.
type S3Config struct {
	Bucket        string `koanf:"bucket"`
	Region        string `koanf:"region"`
	Prefix        string `koanf:"prefix"`
	Endpoint      string `koanf:"endpoint"`
	UsePathStyle  bool   `koanf:"use_path_style"`
	PublicBaseURL string `koanf:"public_base_url"`
}

// Manager handles configuration loading and parsing.
type Manager struct {
	k           *koanf.Koanf
	serviceName string
	configPaths []string
}

// NewManager creates a new configuration manager.
func NewManager(serviceName string) *Manager {
	return &Manager{
		k:           koanf.New("."),
		serviceName: serviceName,
		configPaths: getDefaultConfigPaths(serviceName),
	}
}

// WithPaths replaces the config file search list.
func (m *Manager) WithPaths(paths ...string) *Manager {
	m.configPaths = paths
	return m
}

// LoadConfig loads configuration from all sources. Later sources win:
// struct defaults, then config files, then environment variables.
func (m *Manager) LoadConfig(cfg Config) error {
	if err := m.loadDefaults(cfg); err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}

	for _, path := range m.configPaths {
		if err := m.loadFromFile(path); err != nil {
			if !os.IsNotExist(err) {
				return fmt.Errorf("failed to load config from %s: %w", path, err)
			}
		}
	}

	if err := m.loadFromEnv(); err != nil {
		return fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := m.k.Unmarshal("", cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	return nil
}

// GetString returns a string value for the given key.
func (m *Manager) GetString(key string) string {
	return m.k.String(key)
}

func (m *Manager) loadDefaults(cfg Config) error {
	return m.k.Load(structs.Provider(cfg, "koanf"), nil)
}

func (m *Manager) loadFromFile(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}

	var parser koanf.Parser
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return fmt.Errorf("unsupported config file format: %s", ext)
	}

	return m.k.Load(file.Provider(path), parser)
}

// loadFromEnv maps JOURNAL_DATABASE_SQLITE_PATH onto database.sqlite_path by
// matching against the keys the defaults already defined. Unknown variables
// are ignored.
func (m *Manager) loadFromEnv() error {
	prefix := strings.ToUpper(m.serviceName) + "_"

	known := make(map[string]string)
	for _, key := range m.k.Keys() {
		known[envName(key)] = key
	}

	return m.k.Load(env.Provider(prefix, ".", func(s string) string {
		return known[strings.TrimPrefix(s, prefix)]
	}), nil)
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func getDefaultConfigPaths(serviceName string) []string {
	paths := []string{
		"config.yaml",
		"config.json",
		fmt.Sprintf("%s.yaml", serviceName),
		fmt.Sprintf("%s.json", serviceName),
		fmt.Sprintf("configs/%s.yaml", serviceName),
		fmt.Sprintf("configs/%s.json", serviceName),
		fmt.Sprintf("configs/%s.%s.yaml", serviceName, getEnvironment(serviceName)),
	}

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		paths = append([]string{configPath}, paths...)
	}

	return paths
}

func getEnvironment(serviceName string) string {
	if env := os.Getenv(strings.ToUpper(serviceName) + "_SERVICE_ENVIRONMENT"); env != "" {
		return env
	}
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "dev"
}

// Validate validates the base configuration.
func (c *BaseConfig) Validate() error {
	if c.Service.Name == "" {
		return errors.New("service name is required")
	}
	if c.Service.Port <= 0 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid service port: %d", c.Service.Port)
	}
	if c.Service.GRPCPort < 0 || c.Service.GRPCPort > 65535 {
		return fmt.Errorf("invalid grpc port: %d", c.Service.GRPCPort)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return errors.New("database host is required")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("invalid database port: %d", c.Database.Port)
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("database sqlite_path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported database driver: %q", c.Database.Driver)
	}

	if c.Auth.JWTSecret == "" {
		return errors.New("JWT secret is required (set JOURNAL_AUTH_JWT_SECRET)")
	}
	if c.Auth.SessionSecret == "" {
		return errors.New("session secret is required (set JOURNAL_AUTH_SESSION_SECRET)")
	}

	switch c.Events.Driver {
	case EventsNone, EventsLocal:
	case EventsNATS:
		if c.Events.NATS.URL == "" {
			return errors.New("events.nats.url is required for the nats driver")
		}
	case EventsKafka:
		if len(c.Events.Kafka.Brokers) == 0 || c.Events.Kafka.Topic == "" {
			return errors.New("events.kafka.brokers and events.kafka.topic are required for the kafka driver")
		}
	default:
		return fmt.Errorf("unsupported events driver: %q", c.Events.Driver)
	}

	switch c.Storage.Type {
	case StorageLocal:
		if c.Storage.LocalPath == "" {
			return errors.New("storage.local_path is required for local storage")
		}
	case StorageS3:
		if c.Storage.S3.Bucket == "" {
			return errors.New("storage.s3.bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unsupported storage type: %q", c.Storage.Type)
	}
	if c.Storage.MaxUploadBytes <= 0 {
		return errors.New("storage.max_upload_bytes must be positive")
	}

	return nil
}

// GetDefaults returns default configuration values.
func GetDefaults() *BaseConfig {
	return &BaseConfig{
		Service: ServiceConfig{
			Environment:     "dev",
			Port:            DefaultHTTPPort,
			GRPCPort:        DefaultGRPCPort,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            DefaultPostgresPort,
			User:            "journal",
			Password:        "journal_dev",
			Database:        "journal_dev",
			SSLMode:         "disable",
			SQLitePath:      "journal.db",
			MaxConnections:  DefaultMaxConnections,
			MinConnections:  DefaultMinConnections,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: DefaultMaxConnIdleTime,
			SlowQuery:       DefaultSlowQuery,
		},
		Logger: LoggerConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
		},
		Auth: AuthConfig{
			JWTIssuer:     "reeljournal",
			TokenDuration: DefaultTokenDuration,
			SessionName:   "journal_session",
			SessionMaxAge: DefaultSessionMaxAge,
		},
		Events: EventsConfig{
			Driver: EventsLocal,
			NATS: NATSConfig{
				StreamName:    "JOURNAL",
				SubjectPrefix: "journal",
				MaxAge:        7 * 24 * time.Hour,
			},
			Kafka: KafkaConfig{
				Topic:    "journal-events",
				ClientID: "reeljournal",
			},
		},
		Storage: StorageConfig{
			Type:           StorageLocal,
			LocalPath:      "data/media",
			PublicBaseURL:  "/media",
			MaxUploadBytes: DefaultMaxUploadBytes,
			AllowedTypes:   []string{"image/jpeg", "image/png", "image/webp", "image/gif"},
		},
	}
}
