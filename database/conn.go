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
)

// NewManager builds the manager for cfg without connecting.
func NewManager(cfg *ConnectionConfig) (AbstractDatabaseManager, error) {
	if cfg == nil {
		return nil, ErrEmptyConfig
	}
	manager, err := NewDatabaseFactory().CreateFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database manager: %w", err)
	}
	return manager, nil
}

// EngineName is the human name of a backend as printed in operator reports.
func EngineName(backend string) string {
	switch backend {
	case BackendMongo:
		return "MongoDB"
	case BackendSQLite:
		return "SQLite"
	case BackendPostgres:
		return "PostgreSQL"
	case BackendMySQL:
		return "MySQL"
	default:
		return strings.ToUpper(backend)
	}
}
