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

package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomoncle/bookseed/catalog"
	"github.com/tomoncle/bookseed/database"
	"github.com/tomoncle/bookseed/repository"
	"github.com/tomoncle/bookseed/seeder"
)

func newCatalog(t *testing.T, params catalog.Params) (*catalog.Catalog, *bytes.Buffer) {
	t.Helper()
	cfg := database.DefaultConnectionConfig()
	cfg.Type = database.BackendSQLite
	cfg.URI = ":memory:"
	cfg.DBName = strings.ReplaceAll(t.Name(), "/", "_")

	manager := database.NewSQLDatabaseManager(cfg)
	manager.SetLogger(database.NopLogger())
	ctx := context.Background()
	if err := manager.Connect(ctx); err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = manager.Disconnect(ctx) })

	repo, err := repository.ForManager(manager, "books")
	if err != nil {
		t.Fatalf("repository: %v", err)
	}
	books, _ := seeder.Books(seeder.SetClassics, seeder.SetContemporary, seeder.SetEditions)
	if _, err := repo.InsertMany(ctx, books...); err != nil {
		t.Fatalf("insert: %v", err)
	}

	out := &bytes.Buffer{}
	c := catalog.New(repo, params)
	c.SetOutput(out)
	c.SetLogger(database.NopLogger())
	return c, out
}

func TestRunAllSteps(t *testing.T) {
	c, out := newCatalog(t, catalog.Params{})
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	report := out.String()

	for _, want := range []string{
		"== All books ==",
		"44 books",
		"Where the Crawdads Sing",
		`"The Midnight Library" price -> 14.50: matched 1, modified 1`,
		`"The Midnight Library": deleted 1`,
		"-- price ascending",
		"-- page 3 (skip 10, limit 5)",
		"J.R.R. Tolkien: 4 books",
		"1810s: 2",
		"index books_title_asc_idx ready",
		"index books_author_asc_published_year_desc_idx ready",
		`"executionStats"`,
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if got := strings.Count(report, "\n== "); got != len(catalog.StepNames()) {
		t.Errorf("headings = %d, want %d", got, len(catalog.StepNames()))
	}
}

func TestRunStep(t *testing.T) {
	c, out := newCatalog(t, catalog.Params{Author: "Andy Weir"})
	if err := c.RunStep(context.Background(), "by-author"); err != nil {
		t.Fatalf("run step: %v", err)
	}
	report := out.String()
	for _, title := range []string{"Project Hail Mary", "The Martian", "Artemis"} {
		if !strings.Contains(report, title) {
			t.Errorf("by-author missing %q:\n%s", title, report)
		}
	}
	if strings.Contains(report, "== All books ==") {
		t.Errorf("other steps ran:\n%s", report)
	}
}

func TestRunStepUnknown(t *testing.T) {
	c, _ := newCatalog(t, catalog.Params{})
	err := c.RunStep(context.Background(), "drop-everything")
	if !errors.Is(err, catalog.ErrUnknownStep) {
		t.Fatalf("err = %v, want ErrUnknownStep", err)
	}
}

func TestParamsDefaults(t *testing.T) {
	c, _ := newCatalog(t, catalog.Params{Year: 1950})
	p := c.Params()
	if p.Year != 1950 {
		t.Errorf("year override lost: %d", p.Year)
	}
	d := catalog.DefaultParams()
	if p.Genre != d.Genre || p.Title != d.Title || p.PageSize != 5 || p.Pages != 3 {
		t.Errorf("defaults not applied: %+v", p)
	}
}

func TestStepNamesAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, name := range catalog.StepNames() {
		if seen[name] {
			t.Fatalf("duplicate step %q", name)
		}
		seen[name] = true
	}
	if len(seen) != 16 {
		t.Fatalf("steps = %d, want 16", len(seen))
	}
}
