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

package types

import (
	"strings"
	"testing"
)

func TestPageRequest(t *testing.T) {
	tests := []struct {
		page, size         int
		wantPage, wantSize int
		wantOffset         int
	}{
		{1, 5, 1, 5, 0},
		{2, 5, 2, 5, 5},
		{3, 5, 3, 5, 10},
		{0, 0, 1, 10, 0},
		{-2, 20, 1, 20, 0},
	}
	for _, tt := range tests {
		p := NewDefaultPageRequest(tt.page, tt.size)
		if p.GetPage() != tt.wantPage || p.GetPageSize() != tt.wantSize || p.GetOffset() != tt.wantOffset {
			t.Errorf("page(%d,%d) = page %d size %d offset %d", tt.page, tt.size, p.GetPage(), p.GetPageSize(), p.GetOffset())
		}
	}
}

func TestPageRequestFindOptions(t *testing.T) {
	filter := NewQueryFilter(Eq("in_stock", true))
	p := NewPageRequest(2, 5, filter, []SortField{Asc("price")})
	opts := p.FindOptions()
	if opts.Skip != 5 || opts.Limit != 5 || opts.Filter != filter || len(opts.Sort) != 1 {
		t.Fatalf("FindOptions() = %+v", opts)
	}
}

func TestPaginationPages(t *testing.T) {
	p := NewDefaultPagination[struct{}](1, 5)
	if p.Pages() != 0 {
		t.Fatalf("empty pages = %d", p.Pages())
	}
	for total, want := range map[int]int{1: 1, 5: 1, 6: 2, 12: 3, 15: 3} {
		p.Total = total
		if got := p.Pages(); got != want {
			t.Errorf("Pages() with total %d = %d, want %d", total, got, want)
		}
	}
}

func TestQueryFilter(t *testing.T) {
	var nilFilter *QueryFilter
	if !nilFilter.IsEmpty() || nilFilter.String() != "{}" {
		t.Fatalf("nil filter not empty")
	}
	f := NewQueryFilter(Eq("in_stock", true)).And(Gt("published_year", 2010))
	if f.IsEmpty() || len(f.Conditions) != 2 {
		t.Fatalf("conditions = %v", f.Conditions)
	}
	if got := f.String(); got != "in_stock = true AND published_year > 2010" {
		t.Fatalf("String() = %q", got)
	}
}

func TestOperator(t *testing.T) {
	for op, sql := range map[Operator]string{OpEq: "=", OpNe: "<>", OpGt: ">", OpGte: ">=", OpLt: "<", OpLte: "<="} {
		if !op.IsValid() || op.Desc() != sql {
			t.Errorf("%s: valid %v desc %q", op, op.IsValid(), op.Desc())
		}
	}
	bad := Operator("$regex")
	if bad.IsValid() || bad.Number() != IllegalValue || bad.String() != IllegalName {
		t.Fatalf("$regex accepted")
	}
}

func TestSortDirection(t *testing.T) {
	if Ascending.String() != "ASC" || Descending.String() != "DESC" {
		t.Fatalf("directions = %s %s", Ascending, Descending)
	}
	if Descending.Number() != -1 || SortDirection(0).IsValid() {
		t.Fatalf("direction numbers wrong")
	}
}

func TestIndexName(t *testing.T) {
	single := NewIndexSpec(IndexKey{"title", Ascending})
	if got := single.IndexName(); got != "title_1" {
		t.Fatalf("single = %q", got)
	}
	compound := NewIndexSpec(IndexKey{"author", Ascending}, IndexKey{"published_year", Descending})
	if got := compound.IndexName(); got != "author_1_published_year_-1" {
		t.Fatalf("compound = %q", got)
	}
	compound.Name = "by_author"
	if compound.IndexName() != "by_author" {
		t.Fatalf("explicit name ignored")
	}
}

func TestDocumentOnly(t *testing.T) {
	d := Document{"title": []byte("Dune"), "price": 14.75, "_id": "x"}
	only := d.Only("title", "price", "author")
	if len(only) != 2 || only["title"] != "Dune" {
		t.Fatalf("Only() = %v", only)
	}
	if got := only.String(); got != `{"price":14.75,"title":"Dune"}` {
		t.Fatalf("String() = %s", got)
	}
	if !strings.Contains(Documents{only}.String(), `"title":"Dune"`) {
		t.Fatalf("Documents.String() = %s", Documents{only})
	}
}
