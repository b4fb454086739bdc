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

package repository

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/tomoncle/bookseed/database"
	"github.com/tomoncle/bookseed/model"
	"github.com/tomoncle/bookseed/types"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMongoFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter *types.QueryFilter
		want   bson.D
	}{
		{"nil", nil, bson.D{}},
		{"eq", types.NewQueryFilter(types.Eq(model.FieldGenre, "Mystery")),
			bson.D{{Key: "genre", Value: "Mystery"}}},
		{"gt", types.NewQueryFilter(types.Gt(model.FieldPublishedYear, 2010)),
			bson.D{{Key: "published_year", Value: bson.D{{Key: "$gt", Value: 2010}}}}},
		{"and", types.NewQueryFilter(types.Eq(model.FieldInStock, true), types.Gt(model.FieldPublishedYear, 2010)),
			bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "in_stock", Value: true}},
				bson.D{{Key: "published_year", Value: bson.D{{Key: "$gt", Value: 2010}}}},
			}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mongoFilter(tt.filter); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("mongoFilter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMongoSortAddsIDTiebreak(t *testing.T) {
	got := mongoSort([]types.SortField{types.Asc(model.FieldPrice), types.Desc(model.FieldTitle)})
	want := bson.D{{Key: "price", Value: 1}, {Key: "title", Value: -1}, {Key: "_id", Value: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("mongoSort() = %v, want %v", got, want)
	}
}

func TestMongoFindOptions(t *testing.T) {
	opts := mongoFindOptions(types.NewPageRequestWithOrders(3, 5, types.Asc(model.FieldPrice)).FindOptions())
	if opts.Skip == nil || *opts.Skip != 10 {
		t.Fatalf("skip = %v, want 10", opts.Skip)
	}
	if opts.Limit == nil || *opts.Limit != 5 {
		t.Fatalf("limit = %v, want 5", opts.Limit)
	}

	opts = mongoFindOptions(types.FindOptions{})
	if opts.Skip != nil || opts.Limit != nil || opts.Sort != nil {
		t.Fatalf("empty find options set %+v", opts)
	}
}

func TestSQLIndexName(t *testing.T) {
	spec := types.NewIndexSpec(
		types.IndexKey{Field: model.FieldAuthor, Direction: types.Ascending},
		types.IndexKey{Field: model.FieldPublishedYear, Direction: types.Descending},
	)
	if got := sqlIndexName("books", spec); got != "books_author_asc_published_year_desc_idx" {
		t.Fatalf("sqlIndexName() = %q", got)
	}
	spec.Name = "by_author"
	if got := sqlIndexName("books", spec); got != "by_author" {
		t.Fatalf("explicit name ignored: %q", got)
	}
}

// newMongoRepository connects to BOOKSEED_TEST_MONGO_URI and uses a throwaway
// database that is dropped afterwards.
func newMongoRepository(t *testing.T) BookRepository {
	t.Helper()
	uri := os.Getenv("BOOKSEED_TEST_MONGO_URI")
	if uri == "" {
		t.Skip("BOOKSEED_TEST_MONGO_URI not set")
	}
	cfg := database.DefaultConnectionConfig()
	cfg.URI = uri
	cfg.DBName = fmt.Sprintf("bookseed_test_%d", time.Now().UnixNano())
	cfg.ConnectTimeout = 5 * time.Second

	manager := database.NewMongoDatabaseManager(cfg)
	manager.SetLogger(database.NopLogger())
	ctx := context.Background()
	if err := manager.Connect(ctx); err != nil {
		t.Fatalf("connect mongodb: %v", err)
	}
	t.Cleanup(func() {
		_ = manager.GetDatabase().Drop(ctx)
		_ = manager.Disconnect(ctx)
	})
	return NewMongoRepository(manager.GetDatabase().Collection("books"))
}

func mongoTestBooks() []*model.Book {
	return []*model.Book{
		{Title: "1984", Author: "George Orwell", Genre: "Dystopian", PublishedYear: 1949, Price: 10.99, InStock: true, Pages: 328},
		{Title: "Animal Farm", Author: "George Orwell", Genre: "Political Satire", PublishedYear: 1945, Price: 8.50, Pages: 112},
		{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1937, Price: 14.99, InStock: true, Pages: 310},
		{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", PublishedYear: 1965, Price: 14.75, InStock: true, Pages: 412},
		{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", PublishedYear: 1965, Price: 9.75, InStock: true, Pages: 412},
	}
}

func TestMongoRepository(t *testing.T) {
	repo := newMongoRepository(t)
	ctx := context.Background()

	if n, err := repo.Count(ctx); err != nil || n != 0 {
		t.Fatalf("count on empty collection = %d, %v", n, err)
	}
	if err := repo.Drop(ctx); err != nil {
		t.Fatalf("drop missing collection: %v", err)
	}

	n, err := repo.InsertMany(ctx, mongoTestBooks()...)
	if err != nil || n != 5 {
		t.Fatalf("insert = %d, %v", n, err)
	}

	books, err := repo.Find(ctx, types.FindOptions{Filter: types.NewQueryFilter(
		types.Eq(model.FieldInStock, true),
		types.Gt(model.FieldPublishedYear, 1940),
	)})
	if err != nil || len(books) != 3 {
		t.Fatalf("in stock after 1940 = %d, %v", len(books), err)
	}

	docs, err := repo.FindProjected(ctx, types.FindOptions{Sort: []types.SortField{types.Asc(model.FieldPrice)}},
		model.FieldTitle, model.FieldPrice)
	if err != nil || len(docs) != 5 {
		t.Fatalf("projected = %d, %v", len(docs), err)
	}
	if _, ok := docs[0]["_id"]; ok || docs[0][model.FieldTitle] != "Animal Farm" {
		t.Fatalf("first projected = %v", docs[0])
	}

	res, err := repo.UpdatePriceByTitle(ctx, "Dune", 12.00)
	if err != nil || res.Matched != 1 {
		t.Fatalf("update = %+v, %v", res, err)
	}
	if deleted, err := repo.DeleteByTitle(ctx, "Dune"); err != nil || deleted != 1 {
		t.Fatalf("delete = %d, %v", deleted, err)
	}

	top, err := repo.TopAuthors(ctx, 1)
	if err != nil || len(top) != 1 || top[0].Author != "George Orwell" {
		t.Fatalf("top authors = %+v, %v", top, err)
	}
	decades, err := repo.CountByDecade(ctx)
	if err != nil || len(decades) == 0 || decades[0].Decade != 1930 {
		t.Fatalf("decades = %+v, %v", decades, err)
	}

	spec := types.NewIndexSpec(types.IndexKey{Field: model.FieldTitle, Direction: types.Ascending})
	for i := 0; i < 2; i++ {
		name, err := repo.CreateIndex(ctx, spec)
		if err != nil || name != "title_1" {
			t.Fatalf("create index attempt %d = %q, %v", i+1, name, err)
		}
	}
	plan, err := repo.Explain(ctx, types.FindOptions{Filter: types.NewQueryFilter(types.Eq(model.FieldTitle, "1984"))})
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if _, ok := plan["executionStats"]; !ok {
		t.Fatalf("explain has no executionStats: %v", plan.Keys())
	}
}
