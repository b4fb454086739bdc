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
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

type sqlDatabaseManager struct {
	config    *ConnectionConfig
	db        *bun.DB
	sqlDB     *sql.DB
	logger    Logger
	mu        sync.RWMutex
	connected bool
	lastError error
}

// NewSQLDatabaseManager returns a manager for sqlite, postgres or mysql.
// If config is nil, the defaults are used with the sqlite backend.
func NewSQLDatabaseManager(config *ConnectionConfig) SQLDatabaseManager {
	if config == nil {
		config = DefaultConnectionConfig()
		config.Type = BackendSQLite
		config.URI = ""
	}
	return &sqlDatabaseManager{
		config: config,
		logger: GetLogger(),
	}
}

func (dm *sqlDatabaseManager) Backend() string { return dm.config.Type }

func (dm *sqlDatabaseManager) Config() *ConnectionConfig { return dm.config }

func (dm *sqlDatabaseManager) Connect(ctx context.Context) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.connected && dm.db != nil {
		return nil
	}

	var err error
	dm.sqlDB, dm.db, err = dm.createConnection()
	if err != nil {
		dm.lastError = err
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	dm.configureConnectionPool()

	ctxTimeout, cancel := context.WithTimeout(ctx, dm.config.ConnectTimeout)
	defer cancel()

	if err := dm.db.PingContext(ctxTimeout); err != nil {
		dm.lastError = err
		_ = dm.db.Close()
		dm.db, dm.sqlDB = nil, nil
		return fmt.Errorf("database connection test failed: %w", err)
	}

	dm.connected = true
	dm.lastError = nil

	if dm.logger != nil {
		dm.logger.Info("Database connected successfully", "type", dm.config.Type, "target", dm.target())
	}
	return nil
}

func (dm *sqlDatabaseManager) createConnection() (*sql.DB, *bun.DB, error) {
	var sqlDB *sql.DB
	var db *bun.DB
	var err error

	if dm.config.ConnectTimeout <= 0 {
		dm.config.ConnectTimeout = 10 * time.Second
	}

	switch dm.config.Type {
	case BackendMySQL:
		sqlDB, db, err = dm.createMySQLConnection()
	case BackendPostgres, "postgresql":
		sqlDB, db, err = dm.createPostgreSQLConnection()
	case BackendSQLite, "sqlite3":
		sqlDB, db, err = dm.createSQLiteConnection()
	default:
		return nil, nil, fmt.Errorf("%w: %s", ErrUnsupportedBackend, dm.config.Type)
	}

	if err != nil {
		return nil, nil, err
	}

	if dm.config.EnableQueryLog {
		db.AddQueryHook(bundebug.NewQueryHook(
			bundebug.WithVerbose(true),
			bundebug.FromEnv("BUNDEBUG"),
		))
	} else {
		db.AddQueryHook(NewQueryHook(false, false))
	}

	if dm.config.SlowQueryTime > 0 {
		db.AddQueryHook(&slowQueryHook{
			slowTime: dm.config.SlowQueryTime,
			logger:   dm.logger,
		})
	}

	return sqlDB, db, nil
}

func (dm *sqlDatabaseManager) createMySQLConnection() (*sql.DB, *bun.DB, error) {
	dsn := dm.config.URI
	if dsn == "" {
		port := dm.config.Port
		if port == 0 {
			port = 3306
		}
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%s&readTimeout=%s&writeTimeout=%s",
			dm.config.Username,
			dm.config.Password,
			dm.config.Host,
			port,
			dm.config.DBName,
			dm.config.ConnectTimeout,
			dm.config.ReadTimeout,
			dm.config.WriteTimeout,
		)
	}

	sqlDB, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, nil, err
	}

	return sqlDB, bun.NewDB(sqlDB, mysqldialect.New()), nil
}

func (dm *sqlDatabaseManager) createPostgreSQLConnection() (*sql.DB, *bun.DB, error) {
	dsn := dm.config.URI
	if dsn == "" {
		sslMode := dm.config.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		port := dm.config.Port
		if port == 0 {
			port = 5432
		}
		dsn = fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s&connect_timeout=%d",
			dm.config.Username,
			dm.config.Password,
			dm.config.Host,
			port,
			dm.config.DBName,
			sslMode,
			int(dm.config.ConnectTimeout.Seconds()),
		)
	}

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, err
	}

	return sqlDB, bun.NewDB(sqlDB, pgdialect.New()), nil
}

func (dm *sqlDatabaseManager) createSQLiteConnection() (*sql.DB, *bun.DB, error) {
	sqlDB, err := sql.Open(sqliteshim.ShimName, sqliteDSN(dm.config))
	if err != nil {
		return nil, nil, err
	}

	return sqlDB, bun.NewDB(sqlDB, sqlitedialect.New()), nil
}

// sqliteDSN maps the config to a file path. ":memory:" becomes a shared
// in-memory database named after DBName so it survives pool reconnects.
func sqliteDSN(cfg *ConnectionConfig) string {
	switch {
	case cfg.URI == ":memory:":
		return fmt.Sprintf("file:%s?mode=memory&cache=shared", cfg.DBName)
	case cfg.URI != "" && !strings.HasPrefix(cfg.URI, "mongodb"):
		return cfg.URI
	default:
		return fmt.Sprintf("%s.db", cfg.DBName)
	}
}

func (dm *sqlDatabaseManager) configureConnectionPool() {
	if dm.sqlDB == nil {
		return
	}
	maxOpen := dm.config.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 1
	}
	dm.sqlDB.SetMaxOpenConns(maxOpen)
	dm.sqlDB.SetMaxIdleConns(maxOpen)
}

func (dm *sqlDatabaseManager) target() string {
	switch dm.config.Type {
	case BackendSQLite, "sqlite3":
		return sqliteDSN(dm.config)
	default:
		if dm.config.Host != "" {
			return fmt.Sprintf("%s:%d/%s", dm.config.Host, dm.config.Port, dm.config.DBName)
		}
		return dm.config.DBName
	}
}

func (dm *sqlDatabaseManager) Disconnect(ctx context.Context) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if dm.db == nil {
		return nil
	}

	err := dm.db.Close()
	dm.db = nil
	dm.sqlDB = nil
	dm.connected = false

	if dm.logger != nil {
		if err != nil {
			dm.logger.Error("Failed to close database connection", "error", err)
		} else {
			dm.logger.Info("Database connection closed")
		}
	}
	return err
}

func (dm *sqlDatabaseManager) Ping(ctx context.Context) error {
	dm.mu.RLock()
	db := dm.db
	dm.mu.RUnlock()

	if db == nil {
		return ErrNotConnected
	}

	return db.PingContext(ctx)
}

func (dm *sqlDatabaseManager) GetDB() *bun.DB {
	dm.mu.RLock()
	defer dm.mu.RUnlock()
	return dm.db
}

func (dm *sqlDatabaseManager) HealthCheck(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{
		LastCheckTime: start,
		Backend:       dm.config.Type,
	}

	err := dm.Ping(ctx)
	status.ResponseTime = time.Since(start)
	if err != nil {
		status.LastError = err.Error()
		return status
	}
	status.Healthy = true
	status.Connected = true
	return status
}

func (dm *sqlDatabaseManager) SetLogger(logger Logger) {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	dm.logger = logger
}
