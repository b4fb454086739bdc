/*
 * Copyright 2025 tomoncle.
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/mongo"
	"gopkg.in/yaml.v3"
)

// Supported backends.
const (
	BackendMongo    = "mongodb"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMySQL    = "mysql"
)

// AbstractDatabaseManager defines the operations for managing the single
// connection of a run.
type AbstractDatabaseManager interface {
	Backend() string
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error
	HealthCheck(ctx context.Context) *HealthStatus
	Config() *ConnectionConfig
	SetLogger(logger Logger)
}

// SQLDatabaseManager is a manager backed by Bun over database/sql.
type SQLDatabaseManager interface {
	AbstractDatabaseManager
	GetDB() *bun.DB
}

// MongoDatabaseManager is a manager backed by the MongoDB driver.
type MongoDatabaseManager interface {
	AbstractDatabaseManager
	GetClient() *mongo.Client
	GetDatabase() *mongo.Database
}

// AbstractDatabaseConfigProvider exposes configuration loading.
type AbstractDatabaseConfigProvider interface {
	ConfigLoader() *Config
}

// HealthStatus holds the result of a health check against the database.
type HealthStatus struct {
	Healthy       bool          `json:"healthy"`
	Connected     bool          `json:"connected"`
	Backend       string        `json:"backend"`
	ResponseTime  time.Duration `json:"response_time"`
	LastError     string        `json:"last_error,omitempty"`
	LastCheckTime time.Time     `json:"last_check_time"`
}

// ConnectionConfig describes where the collection lives and how to reach it.
// URI takes precedence over Host/Port/Username/Password when set; for SQLite
// it is the database file path (or ":memory:").
type ConnectionConfig struct {
	Type           string        `json:"type" yaml:"type" env:"BOOKSEED_BACKEND"` // mongodb, sqlite, postgres, mysql
	URI            string        `json:"uri" yaml:"uri" env:"BOOKSEED_URI"`
	Host           string        `json:"host" yaml:"host" env:"DB_HOST"`
	Port           int           `json:"port" yaml:"port" env:"DB_PORT"`
	Username       string        `json:"username" yaml:"username" env:"DB_USERNAME"`
	Password       string        `json:"-" yaml:"password" env:"DB_PASSWORD"`
	DBName         string        `json:"dbname" yaml:"dbname" env:"DB_NAME"`
	Collection     string        `json:"collection" yaml:"collection" env:"DB_COLLECTION"`
	SSLMode        string        `json:"sslmode" yaml:"sslmode" env:"DB_SSLMODE"`
	AppName        string        `json:"app_name" yaml:"app_name" env:"DB_APP_NAME"`
	MaxOpenConns   int           `json:"max_open_conns" yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	ConnectTimeout time.Duration `json:"connect_timeout" yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT"`
	ReadTimeout    time.Duration `json:"read_timeout" yaml:"read_timeout" env:"DB_READ_TIMEOUT"`
	WriteTimeout   time.Duration `json:"write_timeout" yaml:"write_timeout" env:"DB_WRITE_TIMEOUT"`
	EnableQueryLog bool          `json:"enable_query_log" yaml:"enable_query_log" env:"DB_ENABLE_QUERY_LOG"`
	SlowQueryTime  time.Duration `json:"slow_query_time" yaml:"slow_query_time" env:"DB_SLOW_QUERY_TIME"`
}

// SeedConfig selects what a run writes and whether the query catalog runs
// afterwards.
type SeedConfig struct {
	Sets       []string `json:"sets" yaml:"sets" env:"BOOKSEED_SETS" envSeparator:","`
	RunCatalog bool     `json:"run_catalog" yaml:"run_catalog" env:"BOOKSEED_RUN_CATALOG"`
	Step       string   `json:"step" yaml:"step" env:"BOOKSEED_STEP"`
}

// EventsConfig enables the reseed notification. An empty URL disables it.
type EventsConfig struct {
	AMQPURL  string `json:"-" yaml:"amqp_url" env:"BOOKSEED_AMQP_URL"`
	Exchange string `json:"exchange" yaml:"exchange" env:"BOOKSEED_AMQP_EXCHANGE"`
}

// CatalogConfig overrides the query catalog parameters. Zero values keep the
// catalog defaults.
type CatalogConfig struct {
	Genre      string  `json:"genre" yaml:"genre" env:"CATALOG_GENRE"`
	Year       int     `json:"year" yaml:"year" env:"CATALOG_YEAR"`
	Author     string  `json:"author" yaml:"author" env:"CATALOG_AUTHOR"`
	Title      string  `json:"title" yaml:"title" env:"CATALOG_TITLE"`
	NewPrice   float64 `json:"new_price" yaml:"new_price" env:"CATALOG_NEW_PRICE"`
	PageSize   int     `json:"page_size" yaml:"page_size" env:"CATALOG_PAGE_SIZE"`
	Pages      int     `json:"pages" yaml:"pages" env:"CATALOG_PAGES"`
	TopAuthors int     `json:"top_authors" yaml:"top_authors" env:"CATALOG_TOP_AUTHORS"`
}

// LogConfig configures the package loggers.
type LogConfig struct {
	Level  string `json:"level" yaml:"level" env:"LOG_LEVEL"`
	Format string `json:"format" yaml:"format" env:"CONSOLE_LOG_FORMAT"`
}

// Config aggregates connection, seeding, events and logging settings.
type Config struct {
	ConnectionConfig ConnectionConfig `json:"connection_config" yaml:"connection"`
	SeedConfig       SeedConfig       `json:"seed_config" yaml:"seed"`
	EventsConfig     EventsConfig     `json:"events_config" yaml:"events"`
	CatalogConfig    CatalogConfig    `json:"catalog_config" yaml:"catalog"`
	LogConfig        LogConfig        `json:"log_config" yaml:"log"`
}

// ConfigLoader returns the config itself so a *Config satisfies
// AbstractDatabaseConfigProvider.
func (c *Config) ConfigLoader() *Config { return c }

// DefaultConnectionConfig returns a connection config with sensible defaults:
// a local MongoDB, database plp_bookstore, collection books.
func DefaultConnectionConfig() *ConnectionConfig {
	return &ConnectionConfig{
		Type:           BackendMongo,
		URI:            "mongodb://localhost:27017",
		DBName:         "plp_bookstore",
		Collection:     "books",
		AppName:        "bookseed",
		MaxOpenConns:   1,
		ConnectTimeout: time.Second * 10,
		ReadTimeout:    time.Second * 30,
		WriteTimeout:   time.Second * 30,
		EnableQueryLog: false,
		SlowQueryTime:  time.Second * 2,
	}
}

// DefaultConfig returns defaults for every section.
func DefaultConfig() *Config {
	return &Config{
		ConnectionConfig: *DefaultConnectionConfig(),
		EventsConfig:     EventsConfig{Exchange: "bookseed"},
		LogConfig:        LogConfig{Level: "info", Format: "text"},
	}
}

// LoadConfigFile overlays the YAML file at path onto the defaults. Keys
// absent from the file keep their default values.
func LoadConfigFile(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// ExportConfig writes cfg as YAML to path.
func ExportConfig(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
