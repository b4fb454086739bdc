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

// Package catalog runs the example queries against a seeded books
// collection. Each query is a named step printing a heading and its result.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tomoncle/bookseed/database"
	"github.com/tomoncle/bookseed/model"
	"github.com/tomoncle/bookseed/repository"
	"github.com/tomoncle/bookseed/types"
)

// ErrUnknownStep is returned when a step name is not in the catalog.
var ErrUnknownStep = errors.New("unknown catalog step")

// Params are the values the steps query with.
type Params struct {
	Genre      string
	Year       int
	Author     string
	Title      string
	NewPrice   float64
	PageSize   int
	Pages      int
	TopAuthors int
}

// DefaultParams match the contemporary seed set.
func DefaultParams() Params {
	return Params{
		Genre:      "Mystery",
		Year:       2010,
		Author:     "Matt Haig",
		Title:      "The Midnight Library",
		NewPrice:   14.50,
		PageSize:   5,
		Pages:      3,
		TopAuthors: 1,
	}
}

// withDefaults fills zero values from DefaultParams.
func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Genre == "" {
		p.Genre = d.Genre
	}
	if p.Year == 0 {
		p.Year = d.Year
	}
	if p.Author == "" {
		p.Author = d.Author
	}
	if p.Title == "" {
		p.Title = d.Title
	}
	if p.NewPrice == 0 {
		p.NewPrice = d.NewPrice
	}
	if p.PageSize < 1 {
		p.PageSize = d.PageSize
	}
	if p.Pages < 1 {
		p.Pages = d.Pages
	}
	if p.TopAuthors < 1 {
		p.TopAuthors = d.TopAuthors
	}
	return p
}

// Step is one named query.
type Step struct {
	Name  string
	Title string
	run   func(ctx context.Context, c *Catalog) error
}

// Catalog runs steps against one repository.
type Catalog struct {
	repo   repository.BookRepository
	params Params
	out    io.Writer
	logger database.Logger
}

// New returns a catalog writing its report to stdout.
func New(repo repository.BookRepository, params Params) *Catalog {
	return &Catalog{
		repo:   repo,
		params: params.withDefaults(),
		out:    os.Stdout,
		logger: database.GetLogger(),
	}
}

// SetOutput redirects the report.
func (c *Catalog) SetOutput(w io.Writer) { c.out = w }

// SetLogger replaces the package logger.
func (c *Catalog) SetLogger(logger database.Logger) { c.logger = logger }

// Params returns the effective parameters.
func (c *Catalog) Params() Params { return c.params }

// StepNames lists the steps in run order.
func StepNames() []string {
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.Name
	}
	return names
}

// Run executes every step in order and stops at the first failure.
func (c *Catalog) Run(ctx context.Context) error {
	for _, s := range steps {
		if err := c.runStep(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// RunStep executes the single step called name.
func (c *Catalog) RunStep(ctx context.Context, name string) error {
	for _, s := range steps {
		if s.Name == name {
			return c.runStep(ctx, s)
		}
	}
	return fmt.Errorf("%w: %q, available: %s", ErrUnknownStep, name, strings.Join(StepNames(), ", "))
}

func (c *Catalog) runStep(ctx context.Context, s Step) error {
	c.printf("\n== %s ==\n", s.Title)
	if err := s.run(ctx, c); err != nil {
		c.logger.Error("Catalog step failed", "step", s.Name, "collection", c.repo.Name(), "error", err)
		return fmt.Errorf("step %s: %w", s.Name, err)
	}
	return nil
}

func (c *Catalog) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Catalog) printBooks(books []*model.Book) {
	if len(books) == 0 {
		c.printf("(no books)\n")
		return
	}
	for _, b := range books {
		raw, err := json.Marshal(b)
		if err != nil {
			c.printf("%s\n", b)
			continue
		}
		c.printf("%s\n", raw)
	}
}

func (c *Catalog) printDocuments(docs types.Documents) {
	if len(docs) == 0 {
		c.printf("(no books)\n")
		return
	}
	for _, d := range docs {
		c.printf("%s\n", d)
	}
}
