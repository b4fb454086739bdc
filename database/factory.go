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
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

var supportedBackends = []string{BackendMongo, BackendSQLite, BackendPostgres, BackendMySQL}

// BaseDatabaseFactory builds the manager for the configured backend.
type BaseDatabaseFactory struct {
	logger Logger
}

// NewDatabaseFactory returns a new database factory using the global logger.
func NewDatabaseFactory() *BaseDatabaseFactory {
	return &BaseDatabaseFactory{
		logger: GetLogger(),
	}
}

// NormalizeBackend maps aliases to a supported backend name.
func NormalizeBackend(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "mongo", BackendMongo:
		return BackendMongo, nil
	case BackendSQLite, "sqlite3":
		return BackendSQLite, nil
	case BackendPostgres, "postgresql", "pg":
		return BackendPostgres, nil
	case BackendMySQL, "mariadb":
		return BackendMySQL, nil
	default:
		return "", fmt.Errorf("%w: %s, supported types: %v", ErrUnsupportedBackend, name, supportedBackends)
	}
}

// CreateFromConfig constructs a manager from the given connection config.
// The config is used as given; apply OverrideFromEnv first to honour the
// environment.
func (f *BaseDatabaseFactory) CreateFromConfig(cfg *ConnectionConfig) (AbstractDatabaseManager, error) {
	if cfg == nil {
		return nil, ErrEmptyConfig
	}

	backend, err := NormalizeBackend(cfg.Type)
	if err != nil {
		return nil, err
	}
	cfg.Type = backend

	var manager AbstractDatabaseManager
	if backend == BackendMongo {
		manager = NewMongoDatabaseManager(cfg)
	} else {
		manager = NewSQLDatabaseManager(cfg)
	}
	manager.SetLogger(f.logger)
	return manager, nil
}

// OverrideFromEnv overlays environment variables onto cfg. Unset variables
// leave the current values untouched.
func OverrideFromEnv(cfg *Config) error {
	if cfg == nil {
		return ErrEmptyConfig
	}
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
