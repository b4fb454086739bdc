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

package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestNilPublisherIsNoop(t *testing.T) {
	p, err := NewPublisher("", "bookseed")
	if err != nil || p != nil {
		t.Fatalf("NewPublisher(\"\") = %v, %v", p, err)
	}
	if err := p.PublishReseeded(context.Background(), Reseeded{Inserted: 12}); err != nil {
		t.Fatalf("publish on nil publisher: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close nil publisher: %v", err)
	}
}

func TestNewPublisherBadURL(t *testing.T) {
	if _, err := NewPublisher("not-a-url", "bookseed"); err == nil {
		t.Fatalf("dial with an invalid url succeeded")
	}
}

func TestReseededJSON(t *testing.T) {
	msg := Reseeded{
		Backend:    "mongodb",
		Database:   "plp_bookstore",
		Collection: "books",
		Sets:       []string{"classics"},
		Dropped:    12,
		Inserted:   12,
		Timestamp:  time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if got["collection"] != "books" || got["inserted"] != float64(12) || got["timestamp"] != "2025-01-02T03:04:05Z" {
		t.Fatalf("message = %s", raw)
	}
}
