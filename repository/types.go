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

	"github.com/tomoncle/bookseed/model"
	"github.com/tomoncle/bookseed/types"
)

// UpdateResult reports how many documents an update matched and changed.
type UpdateResult struct {
	Matched  int64
	Modified int64
}

// CollectionRepository manages the collection as a whole.
type CollectionRepository interface {
	// Name returns the collection (table) name.
	Name() string

	// EnsureCollection creates the collection if the engine needs it to exist
	// before inserts.
	EnsureCollection(ctx context.Context) error

	// Count returns the number of documents; a missing collection counts as 0.
	Count(ctx context.Context) (int64, error)

	// Drop removes the collection and every document in it.
	Drop(ctx context.Context) error
}

// CrudRepository defines inserts, reads and single-document writes.
type CrudRepository interface {
	// InsertMany writes all books in one request and returns how many were inserted.
	InsertMany(ctx context.Context, books ...*model.Book) (int, error)

	// FindAll returns every document in engine order.
	FindAll(ctx context.Context) ([]*model.Book, error)

	// Find returns the documents matching opts.
	Find(ctx context.Context, opts types.FindOptions) ([]*model.Book, error)

	// FindProjected returns only the named fields of matching documents,
	// without the engine identifier.
	FindProjected(ctx context.Context, opts types.FindOptions, fields ...string) (types.Documents, error)

	// UpdatePriceByTitle sets the price of the first document with title.
	UpdatePriceByTitle(ctx context.Context, title string, price float64) (*UpdateResult, error)

	// DeleteByTitle removes the first document with title.
	DeleteByTitle(ctx context.Context, title string) (int64, error)
}

// PageQueryRepository defines pagination functionality for listing books.
type PageQueryRepository interface {
	Page(ctx context.Context, page *types.PageRequest) (*types.Pagination[model.Book], error)
}

// AggregateRepository defines the grouping reports.
type AggregateRepository interface {
	AveragePriceByGenre(ctx context.Context) ([]*model.GenreAverage, error)
	TopAuthors(ctx context.Context, limit int) ([]*model.AuthorCount, error)
	CountByDecade(ctx context.Context) ([]*model.DecadeCount, error)
}

// IndexRepository defines index creation and query plans.
type IndexRepository interface {
	// CreateIndex creates spec and returns the index name. An index that
	// already exists is not an error.
	CreateIndex(ctx context.Context, spec types.IndexSpec) (string, error)

	// Explain returns the engine's plan and execution statistics for a find.
	Explain(ctx context.Context, opts types.FindOptions) (types.Document, error)
}

// BookRepository combines every operation on the books collection.
type BookRepository interface {
	CollectionRepository
	CrudRepository
	PageQueryRepository
	AggregateRepository
	IndexRepository
}
