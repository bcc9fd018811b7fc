package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadServiceConfig is a generic helper to load service configuration
func LoadServiceConfig[T Config](serviceName string, cfg T) error {
	manager := NewManager(serviceName)
	return manager.LoadConfig(cfg)
}

// LoadDotEnv loads a .env file if one is present. A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// GetServiceVersion returns the service version from config or environment
func GetServiceVersion(cfg *ServiceConfig) string {
	if cfg.Version != "" {
		return cfg.Version
	}
	if version := os.Getenv("SERVICE_VERSION"); version != "" {
		return version
	}
	return "dev"
}

// IsProduction returns true if running in production environment
func IsProduction(cfg *ServiceConfig) bool {
	return cfg.Environment == "production" || cfg.Environment == "prod"
}

// GetListenAddress returns the formatted listen address for HTTP server
func GetListenAddress(cfg *ServiceConfig) string {
	return fmt.Sprintf(":%d", cfg.Port)
}

// GetGRPCListenAddress returns the formatted listen address for gRPC server
func GetGRPCListenAddress(cfg *ServiceConfig) string {
	return fmt.Sprintf(":%d", cfg.GRPCPort)
}

// MustLoadServiceConfig loads config and panics on error (for main functions)
func MustLoadServiceConfig[T Config](serviceName string, cfg T) T {
	if err := LoadServiceConfig(serviceName, cfg); err != nil {
		panic(fmt.Sprintf("failed to load %s config: %v", serviceName, err))
	}
	return cfg
}
