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

package seeder

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/tomoncle/bookseed/database"
	"github.com/tomoncle/bookseed/model"
	"github.com/tomoncle/bookseed/repository"
)

type fakeConn struct {
	connectErr error
	closeErr   error
	connects   int
	closes     int
}

func (c *fakeConn) Backend() string { return database.BackendMongo }

func (c *fakeConn) Connect(context.Context) error {
	c.connects++
	return c.connectErr
}

func (c *fakeConn) Disconnect(context.Context) error {
	c.closes++
	return c.closeErr
}

// memoryRepo keeps books in a slice. Operations the seeder never calls are
// left to the embedded nil interface.
type memoryRepo struct {
	repository.BookRepository
	books     []*model.Book
	countErr  error
	dropErr   error
	insertErr error
	drops     int
}

func (r *memoryRepo) Name() string { return "books" }

func (r *memoryRepo) Count(context.Context) (int64, error) {
	return int64(len(r.books)), r.countErr
}

func (r *memoryRepo) Drop(context.Context) error {
	if r.dropErr != nil {
		return r.dropErr
	}
	r.drops++
	r.books = nil
	return nil
}

func (r *memoryRepo) InsertMany(_ context.Context, books ...*model.Book) (int, error) {
	if r.insertErr != nil {
		return 0, r.insertErr
	}
	r.books = append(r.books, books...)
	return len(books), nil
}

func (r *memoryRepo) FindAll(context.Context) ([]*model.Book, error) {
	return r.books, nil
}

func newTestSeeder(conn *fakeConn, repo *memoryRepo, out *bytes.Buffer) *Seeder {
	books, _ := Books()
	open := func() (repository.BookRepository, error) { return repo, nil }
	return New(conn, open, books, WithOutput(out), WithLogger(database.NopLogger()))
}

func TestRunOnEmptyCollection(t *testing.T) {
	conn, repo, out := &fakeConn{}, &memoryRepo{}, &bytes.Buffer{}

	res, err := newTestSeeder(conn, repo, out).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Dropped != 0 || res.Inserted != 12 || len(res.Books) != 12 {
		t.Fatalf("result = %+v", res)
	}
	if repo.drops != 0 {
		t.Fatalf("empty collection was dropped")
	}

	report := out.String()
	for _, line := range []string{
		"Connected to MongoDB server\n",
		"12 books were successfully inserted into the database\n",
		"\nInserted books:\n",
		"1. \"To Kill a Mockingbird\" by Harper Lee (1960)\n",
		"12. \"Wuthering Heights\" by Emily Brontë (1847)\n",
	} {
		if !strings.Contains(report, line) {
			t.Errorf("report missing %q:\n%s", line, report)
		}
	}
	if strings.Contains(report, "Dropping collection") {
		t.Errorf("report mentions a drop:\n%s", report)
	}
	if !strings.HasSuffix(report, "Connection closed\n") {
		t.Errorf("report does not end with the close line:\n%s", report)
	}
	if conn.closes != 1 {
		t.Fatalf("closes = %d, want 1", conn.closes)
	}
}

func TestRunTwiceIsIdempotent(t *testing.T) {
	repo := &memoryRepo{}
	for i := 0; i < 2; i++ {
		out := &bytes.Buffer{}
		res, err := newTestSeeder(&fakeConn{}, repo, out).Run(context.Background())
		if err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
		if res.Inserted != 12 || len(repo.books) != 12 {
			t.Fatalf("run %d: inserted %d, stored %d", i+1, res.Inserted, len(repo.books))
		}
		if i == 1 {
			if res.Dropped != 12 {
				t.Fatalf("second run dropped %d, want 12", res.Dropped)
			}
			report := out.String()
			if !strings.Contains(report, "Collection already contains 12 documents. Dropping collection...\n") ||
				!strings.Contains(report, "Collection dropped successfully\n") {
				t.Fatalf("second run report:\n%s", report)
			}
		}
	}
}

func TestRunResetsForeignDocuments(t *testing.T) {
	repo := &memoryRepo{books: []*model.Book{{Title: "Stray"}, {Title: "Other"}, {Title: "Third"}}}

	res, err := newTestSeeder(&fakeConn{}, repo, &bytes.Buffer{}).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Dropped != 3 || len(repo.books) != 12 {
		t.Fatalf("dropped %d, stored %d", res.Dropped, len(repo.books))
	}
	for _, b := range repo.books {
		if b.Title == "Stray" {
			t.Fatalf("pre-existing document survived the reset")
		}
	}
}

func TestRunErrorsStillClose(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		conn    *fakeConn
		repo    *memoryRepo
		wantMsg string
	}{
		{"connect", &fakeConn{connectErr: boom}, &memoryRepo{}, "connect"},
		{"count", &fakeConn{}, &memoryRepo{countErr: boom}, "count documents"},
		{"drop", &fakeConn{}, &memoryRepo{books: []*model.Book{{}}, dropErr: boom}, "drop collection"},
		{"insert", &fakeConn{}, &memoryRepo{insertErr: boom}, "insert books"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			_, err := newTestSeeder(tt.conn, tt.repo, out).Run(context.Background())
			if !errors.Is(err, boom) {
				t.Fatalf("err = %v, want wrapped boom", err)
			}
			if !strings.HasPrefix(err.Error(), tt.wantMsg) {
				t.Fatalf("err = %q, want prefix %q", err, tt.wantMsg)
			}
			if tt.conn.closes != 1 {
				t.Fatalf("closes = %d, want 1", tt.conn.closes)
			}
			if strings.Contains(out.String(), "successfully inserted") {
				t.Fatalf("failed run reported success:\n%s", out)
			}
		})
	}
}

func TestCloseErrorDoesNotMaskRunError(t *testing.T) {
	insertErr := errors.New("insert failed")
	conn := &fakeConn{closeErr: errors.New("close failed")}

	_, err := newTestSeeder(conn, &memoryRepo{insertErr: insertErr}, &bytes.Buffer{}).Run(context.Background())
	if !errors.Is(err, insertErr) {
		t.Fatalf("err = %v, want the insert error", err)
	}

	_, err = newTestSeeder(&fakeConn{closeErr: errors.New("close failed")}, &memoryRepo{}, &bytes.Buffer{}).Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "close connection") {
		t.Fatalf("close failure on an otherwise clean run = %v", err)
	}
}

func TestFollowUpRunsBeforeClose(t *testing.T) {
	conn, repo, out := &fakeConn{}, &memoryRepo{}, &bytes.Buffer{}
	var seen int
	followUp := func(ctx context.Context, r repository.BookRepository) error {
		if conn.closes != 0 {
			t.Errorf("follow-up ran after close")
		}
		n, _ := r.Count(ctx)
		seen = int(n)
		return nil
	}

	books, _ := Books(SetClassics, SetEditions)
	open := func() (repository.BookRepository, error) { return repo, nil }
	s := New(conn, open, books, WithOutput(out), WithLogger(database.NopLogger()), WithFollowUp(followUp))
	if _, err := s.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if seen != 29 {
		t.Fatalf("follow-up saw %d books, want 29", seen)
	}
}

type checkedConn struct {
	fakeConn
	checks int
}

func (c *checkedConn) HealthCheck(context.Context) *database.HealthStatus {
	c.checks++
	return &database.HealthStatus{Healthy: true, Connected: true, Backend: c.Backend()}
}

type debugLog struct {
	database.Logger
	messages []string
}

func (l *debugLog) Debug(msg string, fields ...interface{}) {
	l.messages = append(l.messages, msg)
}

func TestRunLogsHealthAfterConnect(t *testing.T) {
	conn, repo, out := &checkedConn{}, &memoryRepo{}, &bytes.Buffer{}
	log := &debugLog{Logger: database.NopLogger()}
	books, _ := Books()
	open := func() (repository.BookRepository, error) { return repo, nil }

	if _, err := New(conn, open, books, WithOutput(out), WithLogger(log)).Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if conn.checks != 1 {
		t.Fatalf("health checks = %d, want 1", conn.checks)
	}
	if len(log.messages) == 0 || log.messages[0] != "Connection health" {
		t.Fatalf("debug messages = %v", log.messages)
	}
}
