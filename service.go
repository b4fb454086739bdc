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

// Package bookseed resets a books collection to a fixed seed and optionally
// runs the example query catalog against it.
package bookseed

import (
	"context"
	"io"
	"os"

	"github.com/tomoncle/bookseed/catalog"
	"github.com/tomoncle/bookseed/database"
	"github.com/tomoncle/bookseed/events"
	"github.com/tomoncle/bookseed/repository"
	"github.com/tomoncle/bookseed/seeder"
)

// Service wires the configuration to a manager, a seeder and, when asked
// for, the query catalog and the reseed notification.
type Service struct {
	cfg    *database.Config
	out    io.Writer
	logger database.Logger
}

// NewService returns a service for the config supplied by provider.
func NewService(provider database.AbstractDatabaseConfigProvider) *Service {
	cfg := provider.ConfigLoader()
	if cfg == nil {
		cfg = database.DefaultConfig()
	}
	return &Service{
		cfg:    cfg,
		out:    os.Stdout,
		logger: database.GetLogger(),
	}
}

// SetOutput redirects the operator report.
func (s *Service) SetOutput(w io.Writer) { s.out = w }

// SetLogger replaces the package logger.
func (s *Service) SetLogger(logger database.Logger) { s.logger = logger }

func (s *Service) collection() string {
	if c := s.cfg.ConnectionConfig.Collection; c != "" {
		return c
	}
	return "books"
}

func (s *Service) catalogParams() catalog.Params {
	c := s.cfg.CatalogConfig
	return catalog.Params{
		Genre:      c.Genre,
		Year:       c.Year,
		Author:     c.Author,
		Title:      c.Title,
		NewPrice:   c.NewPrice,
		PageSize:   c.PageSize,
		Pages:      c.Pages,
		TopAuthors: c.TopAuthors,
	}
}

// catalogSets are seeded when the catalog runs and no set was named, since
// the catalog parameters target books outside the classics.
var catalogSets = []string{seeder.SetClassics, seeder.SetContemporary, seeder.SetEditions}

func (s *Service) runsCatalog() bool {
	return s.cfg.SeedConfig.RunCatalog || s.cfg.SeedConfig.Step != ""
}

// seedSets resolves the configured sets. Empty means the classics alone, or
// every set when the catalog runs.
func (s *Service) seedSets() []string {
	if sets := s.cfg.SeedConfig.Sets; len(sets) > 0 {
		return sets
	}
	if s.runsCatalog() {
		return catalogSets
	}
	return []string{seeder.DefaultSet}
}

// runCatalog runs one step when Step is set, otherwise the whole catalog.
func (s *Service) runCatalog(ctx context.Context, repo repository.BookRepository) error {
	cat := catalog.New(repo, s.catalogParams())
	cat.SetOutput(s.out)
	cat.SetLogger(s.logger)
	if step := s.cfg.SeedConfig.Step; step != "" {
		return cat.RunStep(ctx, step)
	}
	return cat.Run(ctx)
}

// Run seeds the collection and returns what was dropped and inserted.
func (s *Service) Run(ctx context.Context) (*seeder.Result, error) {
	sets := s.seedSets()
	books, err := seeder.Books(sets...)
	if err != nil {
		return nil, err
	}
	manager, err := database.NewManager(&s.cfg.ConnectionConfig)
	if err != nil {
		return nil, err
	}
	manager.SetLogger(s.logger)

	opts := []seeder.Option{seeder.WithOutput(s.out), seeder.WithLogger(s.logger)}
	if s.runsCatalog() {
		opts = append(opts, seeder.WithFollowUp(s.runCatalog))
	}

	result, err := seeder.ForManager(manager, s.collection(), books, opts...).Run(ctx)
	if err != nil {
		return result, err
	}
	s.notify(ctx, sets, result)
	return result, nil
}

// notify publishes the reseed event. Failures are logged only.
func (s *Service) notify(ctx context.Context, sets []string, result *seeder.Result) {
	ev := s.cfg.EventsConfig
	if ev.AMQPURL == "" {
		return
	}
	publisher, err := events.NewPublisher(ev.AMQPURL, ev.Exchange)
	if err != nil {
		s.logger.Warn("Reseed event not sent", "error", err)
		return
	}
	defer func() { _ = publisher.Close() }()

	conn := s.cfg.ConnectionConfig
	err = publisher.PublishReseeded(ctx, events.Reseeded{
		Backend:    conn.Type,
		Database:   conn.DBName,
		Collection: s.collection(),
		Sets:       sets,
		Dropped:    result.Dropped,
		Inserted:   result.Inserted,
	})
	if err != nil {
		s.logger.Warn("Reseed event not sent", "exchange", ev.Exchange, "error", err)
		return
	}
	s.logger.Info("Reseed event sent", "exchange", ev.Exchange, "routing_key", events.RoutingKeyReseeded)
}
