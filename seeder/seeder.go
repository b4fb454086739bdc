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

// Package seeder resets a books collection to a known state: connect, drop
// whatever is there, bulk-insert the seed records, list them back, close.
package seeder

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/tomoncle/bookseed/database"
	"github.com/tomoncle/bookseed/model"
	"github.com/tomoncle/bookseed/repository"
	"github.com/tomoncle/bookseed/utils"
)

// Connection is the part of a database manager the seeder drives.
type Connection interface {
	Backend() string
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
}

// healthChecker is implemented by the database managers.
type healthChecker interface {
	HealthCheck(ctx context.Context) *database.HealthStatus
}

// RepositoryFunc opens the collection once the connection is up.
type RepositoryFunc func() (repository.BookRepository, error)

// Result summarizes one run.
type Result struct {
	Dropped  int64
	Inserted int
	Books    []*model.Book
}

// FollowUpFunc runs against the freshly seeded collection before the
// connection closes.
type FollowUpFunc func(ctx context.Context, repo repository.BookRepository) error

// Seeder runs the reset-and-insert sequence against one collection.
type Seeder struct {
	conn     Connection
	open     RepositoryFunc
	books    []*model.Book
	out      io.Writer
	logger   database.Logger
	followUp []FollowUpFunc
}

// Option configures a Seeder.
type Option func(*Seeder)

// WithOutput sends the operator report to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(s *Seeder) { s.out = w }
}

// WithLogger replaces the package logger.
func WithLogger(logger database.Logger) Option {
	return func(s *Seeder) { s.logger = logger }
}

// WithFollowUp queues fn to run after a successful seed on the same
// connection. Follow-ups run in the order given.
func WithFollowUp(fn FollowUpFunc) Option {
	return func(s *Seeder) { s.followUp = append(s.followUp, fn) }
}

// New returns a Seeder that writes books through the repository returned by open.
func New(conn Connection, open RepositoryFunc, books []*model.Book, opts ...Option) *Seeder {
	s := &Seeder{
		conn:   conn,
		open:   open,
		books:  books,
		out:    os.Stdout,
		logger: database.GetLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ForManager builds a Seeder over a database manager and the named collection.
func ForManager(manager database.AbstractDatabaseManager, collection string, books []*model.Book, opts ...Option) *Seeder {
	open := func() (repository.BookRepository, error) {
		return repository.ForManager(manager, collection)
	}
	return New(manager, open, books, opts...)
}

func (s *Seeder) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}

// Run executes the sequence once. The connection is closed on every path; a
// close failure is logged and never replaces an earlier error. A failure after
// the drop leaves the collection empty.
func (s *Seeder) Run(ctx context.Context) (result *Result, err error) {
	start := time.Now()
	defer func() {
		if cerr := s.conn.Disconnect(context.WithoutCancel(ctx)); cerr != nil {
			s.logger.Error("Failed to close connection", "backend", s.conn.Backend(), "error", cerr)
			if err == nil {
				err = fmt.Errorf("close connection: %w", cerr)
			}
			return
		}
		s.printf("Connection closed\n")
	}()

	if err = s.conn.Connect(ctx); err != nil {
		s.logger.Error("Failed to connect", "backend", s.conn.Backend(), "error", err)
		return nil, fmt.Errorf("connect: %w", err)
	}
	s.printf("Connected to %s server\n", database.EngineName(s.conn.Backend()))
	if hc, ok := s.conn.(healthChecker); ok {
		status := hc.HealthCheck(ctx)
		s.logger.Debug("Connection health", "backend", status.Backend, "healthy", status.Healthy,
			"response_time", status.ResponseTime, "error", status.LastError)
	}

	repo, err := s.open()
	if err != nil {
		s.logger.Error("Failed to open collection", "error", err)
		return nil, fmt.Errorf("open collection: %w", err)
	}

	result = &Result{}
	if result.Dropped, err = s.reset(ctx, repo); err != nil {
		return result, err
	}

	if result.Inserted, err = repo.InsertMany(ctx, s.books...); err != nil {
		s.logger.Error("Failed to insert books", "collection", repo.Name(), "count", len(s.books), "error", err)
		return result, fmt.Errorf("insert books: %w", err)
	}
	s.printf("%d books were successfully inserted into the database\n", result.Inserted)

	if result.Books, err = repo.FindAll(ctx); err != nil {
		s.logger.Error("Failed to read back books", "collection", repo.Name(), "error", err)
		return result, fmt.Errorf("read books: %w", err)
	}
	s.printf("\nInserted books:\n")
	for i, b := range result.Books {
		s.printf("%d. %s\n", i+1, b)
	}

	for _, fn := range s.followUp {
		if err = fn(ctx, repo); err != nil {
			return result, err
		}
	}

	s.logger.Debug("Seed finished", "collection", repo.Name(), "dropped", result.Dropped,
		"inserted", result.Inserted, "elapsed", utils.Since(start))
	return result, nil
}

// reset drops the collection when it holds anything and returns how many
// documents were there.
func (s *Seeder) reset(ctx context.Context, repo repository.BookRepository) (int64, error) {
	count, err := repo.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count documents", "collection", repo.Name(), "error", err)
		return 0, fmt.Errorf("count documents: %w", err)
	}
	if count == 0 {
		return 0, nil
	}

	s.printf("Collection already contains %d documents. Dropping collection...\n", count)
	if err := repo.Drop(ctx); err != nil {
		s.logger.Error("Failed to drop collection", "collection", repo.Name(), "error", err)
		return 0, fmt.Errorf("drop collection: %w", err)
	}
	s.printf("Collection dropped successfully\n")
	return count, nil
}

