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
	"errors"
	"testing"
)

func TestBooksSets(t *testing.T) {
	tests := []struct {
		sets []string
		want int
	}{
		{nil, 12},
		{[]string{SetClassics}, 12},
		{[]string{SetContemporary}, 15},
		{[]string{SetEditions}, 17},
		{[]string{SetClassics, SetContemporary, SetEditions}, 44},
		{[]string{" Classics "}, 12},
	}
	for _, tt := range tests {
		books, err := Books(tt.sets...)
		if err != nil {
			t.Fatalf("Books(%v): %v", tt.sets, err)
		}
		if len(books) != tt.want {
			t.Errorf("Books(%v) = %d books, want %d", tt.sets, len(books), tt.want)
		}
	}
}

func TestBooksReturnsCopies(t *testing.T) {
	first, _ := Books(SetClassics)
	first[0].Price = 0
	first[0].ID = 99

	second, _ := Books(SetClassics)
	if second[0].Price != 12.99 || second[0].ID != 0 {
		t.Fatalf("seed data was mutated through a returned book: %+v", second[0])
	}
}

func TestBooksUnknownSet(t *testing.T) {
	if _, err := Books("classics", "poetry"); !errors.Is(err, ErrUnknownSet) {
		t.Fatalf("err = %v, want ErrUnknownSet", err)
	}
}

func TestDuplicateTitlesAreKept(t *testing.T) {
	books, _ := Books(SetClassics, SetContemporary)
	var alchemist int
	for _, b := range books {
		if b.Title == "The Alchemist" {
			alchemist++
		}
	}
	if alchemist != 2 {
		t.Fatalf("The Alchemist appears %d times, want 2", alchemist)
	}
}
