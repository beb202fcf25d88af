// Package container provides dependency injection and lifecycle management
// for the claims service: storage first, then the workflow, then publishers.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Server configuration
	Server ServerConfig

	// Workflow configuration
	Workflow WorkflowConfig

	// Events configuration
	Events EventsConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Mode         string
}

// WorkflowConfig holds claim workflow settings.
type WorkflowConfig struct {
	// TransactionTimeout bounds each claim action
	TransactionTimeout time.Duration
}

// EventsConfig holds RabbitMQ publishing settings.
type EventsConfig struct {
	// AMQPURL enables publishing when set
	AMQPURL string

	// Queue receives every claim event
	Queue string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:            "data/claims.db",
			MaxOpenConns:    10,
			MaxIdleConns:    10,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			Mode:         "release",
		},
		Workflow: WorkflowConfig{
			TransactionTimeout: 5 * time.Second,
		},
		Events: EventsConfig{
			Queue: "claim_events",
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Workflow.TransactionTimeout < 0 {
		return fmt.Errorf("workflow.transaction_timeout must not be negative")
	}
	if c.Events.AMQPURL != "" && c.Events.Queue == "" {
		return fmt.Errorf("events.queue is required when events.amqp_url is set")
	}

	return nil
}
