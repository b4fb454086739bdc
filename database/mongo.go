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
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type mongoDatabaseManager struct {
	config    *ConnectionConfig
	client    *mongo.Client
	logger    Logger
	mu        sync.RWMutex
	connected bool
}

// NewMongoDatabaseManager returns a manager for a MongoDB deployment. If
// config is nil, the defaults are used.
func NewMongoDatabaseManager(config *ConnectionConfig) MongoDatabaseManager {
	if config == nil {
		config = DefaultConnectionConfig()
	}
	return &mongoDatabaseManager{
		config: config,
		logger: GetLogger(),
	}
}

func (m *mongoDatabaseManager) Backend() string { return BackendMongo }

func (m *mongoDatabaseManager) Config() *ConnectionConfig { return m.config }

// clientOptions builds driver options from the config. ConnectTimeout bounds
// both the dial and server selection.
func (m *mongoDatabaseManager) clientOptions() *options.ClientOptions {
	uri := m.config.URI
	if uri == "" {
		port := m.config.Port
		if port == 0 {
			port = 27017
		}
		host := m.config.Host
		if host == "" {
			host = "localhost"
		}
		uri = fmt.Sprintf("mongodb://%s:%d", host, port)
	}

	opts := options.Client().
		ApplyURI(uri).
		SetConnectTimeout(m.config.ConnectTimeout).
		SetServerSelectionTimeout(m.config.ConnectTimeout).
		SetMaxPoolSize(uint64(max(m.config.MaxOpenConns, 1))).
		SetMonitor(newCommandMonitor(m.logger, m.config.EnableQueryLog, m.config.SlowQueryTime))
	if m.config.AppName != "" {
		opts.SetAppName(m.config.AppName)
	}
	if m.config.Username != "" {
		opts.SetAuth(options.Credential{
			Username: m.config.Username,
			Password: m.config.Password,
		})
	}
	return opts
}

func (m *mongoDatabaseManager) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.connected && m.client != nil {
		return nil
	}
	if m.config.ConnectTimeout <= 0 {
		m.config.ConnectTimeout = 10 * time.Second
	}

	client, err := mongo.Connect(ctx, m.clientOptions())
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, m.config.ConnectTimeout)
	defer cancel()

	if err := client.Ping(ctxTimeout, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("database connection test failed: %w", err)
	}

	m.client = client
	m.connected = true
	if m.logger != nil {
		m.logger.Info("Database connected successfully", "type", BackendMongo, "database", m.config.DBName)
	}
	return nil
}

func (m *mongoDatabaseManager) Disconnect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.client == nil {
		return nil
	}

	err := m.client.Disconnect(ctx)
	m.client = nil
	m.connected = false

	if m.logger != nil {
		if err != nil {
			m.logger.Error("Failed to close database connection", "error", err)
		} else {
			m.logger.Info("Database connection closed")
		}
	}
	return err
}

func (m *mongoDatabaseManager) Ping(ctx context.Context) error {
	m.mu.RLock()
	client := m.client
	m.mu.RUnlock()

	if client == nil {
		return ErrNotConnected
	}
	return client.Ping(ctx, readpref.Primary())
}

func (m *mongoDatabaseManager) HealthCheck(ctx context.Context) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{
		LastCheckTime: start,
		Backend:       BackendMongo,
	}

	ctxTimeout, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := m.Ping(ctxTimeout)
	status.ResponseTime = time.Since(start)
	if err != nil {
		status.LastError = err.Error()
		return status
	}
	status.Healthy = true
	status.Connected = true
	return status
}

func (m *mongoDatabaseManager) GetClient() *mongo.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.client
}

// GetDatabase returns the configured database, or nil before Connect.
func (m *mongoDatabaseManager) GetDatabase() *mongo.Database {
	client := m.GetClient()
	if client == nil {
		return nil
	}
	return client.Database(m.config.DBName)
}

func (m *mongoDatabaseManager) SetLogger(logger Logger) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logger = logger
}
