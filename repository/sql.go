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
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/tomoncle/bookseed/database"
	"github.com/tomoncle/bookseed/model"
	"github.com/tomoncle/bookseed/types"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

const (
	sqlIDColumn = "id"
	sqlAlias    = "b"
)

type bunBookRepository struct {
	db    *bun.DB
	table string
}

// NewSQLRepository returns a BookRepository storing documents as rows of
// table, one column per Book field plus a surrogate id.
func NewSQLRepository(db *bun.DB, table string) BookRepository {
	if table == "" {
		table = "books"
	}
	return &bunBookRepository{db: db, table: table}
}

func (r *bunBookRepository) Name() string { return r.table }

func (r *bunBookRepository) ident() bun.Ident { return bun.Ident(r.table) }

func (r *bunBookRepository) selectBooks(dest *[]*model.Book) *bun.SelectQuery {
	return r.db.NewSelect().Model(dest).ModelTableExpr("? AS ?", r.ident(), bun.Ident(sqlAlias))
}

func (r *bunBookRepository) EnsureCollection(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*model.Book)(nil)).
		ModelTableExpr("?", r.ident()).
		IfNotExists().
		Exec(ctx)
	if err != nil && !database.IsKind(err, database.ExistTableErr) {
		return fmt.Errorf("create table %s: %w", r.table, err)
	}
	return nil
}

func (r *bunBookRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.db.NewSelect().TableExpr("?", r.ident()).Count(ctx)
	if err != nil {
		if database.IsKind(err, database.NoTableErr) {
			return 0, nil
		}
		return 0, err
	}
	return int64(n), nil
}

func (r *bunBookRepository) Drop(ctx context.Context) error {
	_, err := r.db.NewDropTable().Table(r.table).IfExists().Exec(ctx)
	return err
}

func (r *bunBookRepository) InsertMany(ctx context.Context, books ...*model.Book) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}
	if err := r.EnsureCollection(ctx); err != nil {
		return 0, err
	}
	// ids are assigned by the table, so callers may insert the same books twice.
	entities := make([]*model.Book, len(books))
	for i, b := range books {
		c := *b
		c.ID = 0
		entities[i] = &c
	}
	res, err := r.db.NewInsert().Model(&entities).ModelTableExpr("?", r.ident()).Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return len(entities), nil
	}
	return int(n), nil
}

func (r *bunBookRepository) FindAll(ctx context.Context) ([]*model.Book, error) {
	var books []*model.Book
	err := r.selectBooks(&books).OrderExpr("? ASC", bun.Ident(sqlIDColumn)).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bunBookRepository) Find(ctx context.Context, opts types.FindOptions) ([]*model.Book, error) {
	if err := validateFindOptions(opts); err != nil {
		return nil, err
	}
	var books []*model.Book
	if err := applyFind(r.selectBooks(&books), opts).Scan(ctx); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *bunBookRepository) FindProjected(ctx context.Context, opts types.FindOptions, fields ...string) (types.Documents, error) {
	if len(fields) == 0 {
		return nil, ErrEmptyProjection
	}
	if err := validateFields(fields...); err != nil {
		return nil, err
	}
	if err := validateFindOptions(opts); err != nil {
		return nil, err
	}

	q := r.db.NewSelect().TableExpr("? AS ?", r.ident(), bun.Ident(sqlAlias))
	for _, f := range fields {
		q = q.ColumnExpr("?", bun.Ident(f))
	}
	rows := make([]map[string]interface{}, 0)
	if err := applyFind(q, opts).Scan(ctx, &rows); err != nil {
		return nil, err
	}

	docs := make(types.Documents, len(rows))
	for i, row := range rows {
		docs[i] = normalizeRow(types.Document(row).Only(fields...))
	}
	return docs, nil
}

func (r *bunBookRepository) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[model.Book], error) {
	opts := pageRequest.FindOptions()
	if err := validateFindOptions(opts); err != nil {
		return nil, err
	}
	pagination := types.NewDefaultPagination[model.Book](pageRequest.GetPage(), pageRequest.GetPageSize())

	total, err := applyFilter(r.db.NewSelect().TableExpr("? AS ?", r.ident(), bun.Ident(sqlAlias)), opts.Filter).Count(ctx)
	if err != nil || total == 0 {
		return pagination, err
	}

	var books []*model.Book
	if err := applyFind(r.selectBooks(&books), opts).Scan(ctx); err != nil {
		return nil, err
	}
	pagination.Total = total
	pagination.Items = books
	return pagination, nil
}

// firstIDByTitle picks the lowest id among rows with title, giving the
// update/delete-one operations a stable target.
func (r *bunBookRepository) firstIDByTitle(ctx context.Context, title string) (int64, error) {
	var id int64
	err := r.db.NewSelect().
		TableExpr("?", r.ident()).
		ColumnExpr("?", bun.Ident(sqlIDColumn)).
		Where("? = ?", bun.Ident(model.FieldTitle), title).
		OrderExpr("? ASC", bun.Ident(sqlIDColumn)).
		Limit(1).
		Scan(ctx, &id)
	return id, err
}

func (r *bunBookRepository) UpdatePriceByTitle(ctx context.Context, title string, price float64) (*UpdateResult, error) {
	id, err := r.firstIDByTitle(ctx, title)
	if errors.Is(err, sql.ErrNoRows) {
		return &UpdateResult{}, nil
	}
	if err != nil {
		return nil, err
	}

	res, err := r.db.NewUpdate().
		TableExpr("?", r.ident()).
		Set("? = ?", bun.Ident(model.FieldPrice), price).
		Where("? = ?", bun.Ident(sqlIDColumn), id).
		Exec(ctx)
	if err != nil {
		return nil, err
	}
	modified, _ := res.RowsAffected()
	return &UpdateResult{Matched: 1, Modified: modified}, nil
}

func (r *bunBookRepository) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	id, err := r.firstIDByTitle(ctx, title)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	res, err := r.db.NewDelete().
		TableExpr("?", r.ident()).
		Where("? = ?", bun.Ident(sqlIDColumn), id).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *bunBookRepository) AveragePriceByGenre(ctx context.Context) ([]*model.GenreAverage, error) {
	rows := make([]*model.GenreAverage, 0)
	err := r.db.NewSelect().
		TableExpr("?", r.ident()).
		ColumnExpr("? AS genre", bun.Ident(model.FieldGenre)).
		ColumnExpr("AVG(?) AS average_price", bun.Ident(model.FieldPrice)).
		GroupExpr("?", bun.Ident(model.FieldGenre)).
		OrderExpr("? ASC", bun.Ident(model.FieldGenre)).
		Scan(ctx, &rows)
	return rows, err
}

func (r *bunBookRepository) TopAuthors(ctx context.Context, limit int) ([]*model.AuthorCount, error) {
	rows := make([]*model.AuthorCount, 0)
	q := r.db.NewSelect().
		TableExpr("?", r.ident()).
		ColumnExpr("? AS author", bun.Ident(model.FieldAuthor)).
		ColumnExpr("COUNT(*) AS book_count").
		GroupExpr("?", bun.Ident(model.FieldAuthor)).
		OrderExpr("book_count DESC").
		OrderExpr("? ASC", bun.Ident(model.FieldAuthor))
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(ctx, &rows)
	return rows, err
}

func (r *bunBookRepository) CountByDecade(ctx context.Context) ([]*model.DecadeCount, error) {
	const decadeExpr = "(? - (? % 10))"
	year := bun.Ident(model.FieldPublishedYear)
	rows := make([]*model.DecadeCount, 0)
	err := r.db.NewSelect().
		TableExpr("?", r.ident()).
		ColumnExpr(decadeExpr+" AS decade", year, year).
		ColumnExpr("COUNT(*) AS book_count").
		GroupExpr(decadeExpr, year, year).
		OrderExpr("decade ASC").
		Scan(ctx, &rows)
	return rows, err
}

// sqlIndexName is unique per database, since PostgreSQL scopes index names
// to the schema rather than the table.
func sqlIndexName(table string, spec types.IndexSpec) string {
	if spec.Name != "" {
		return spec.Name
	}
	parts := []string{table}
	for _, k := range spec.Keys {
		parts = append(parts, k.Field, strings.ToLower(k.Direction.String()))
	}
	return strings.Join(append(parts, "idx"), "_")
}

func (r *bunBookRepository) CreateIndex(ctx context.Context, spec types.IndexSpec) (string, error) {
	if err := validateIndex(spec); err != nil {
		return "", err
	}
	if err := r.EnsureCollection(ctx); err != nil {
		return "", err
	}
	name := sqlIndexName(r.table, spec)
	q := r.db.NewCreateIndex().TableExpr("?", r.ident()).Index(name)
	if r.db.Dialect().Name() != dialect.MySQL {
		q = q.IfNotExists()
	}
	for _, k := range spec.Keys {
		q = q.ColumnExpr("? "+k.Direction.String(), bun.Ident(k.Field))
	}
	if _, err := q.Exec(ctx); err != nil {
		if database.IsKind(err, database.ExistIndexErr) {
			return name, nil
		}
		return "", fmt.Errorf("create index %s: %w", name, err)
	}
	return name, nil
}

func (r *bunBookRepository) explainPrefix() string {
	switch r.db.Dialect().Name() {
	case dialect.SQLite:
		return "EXPLAIN QUERY PLAN"
	case dialect.PG:
		return "EXPLAIN ANALYZE"
	default:
		return "EXPLAIN"
	}
}

func (r *bunBookRepository) Explain(ctx context.Context, opts types.FindOptions) (types.Document, error) {
	if err := validateFindOptions(opts); err != nil {
		return nil, err
	}
	start := time.Now()
	found, err := r.Find(ctx, opts)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	var books []*model.Book
	query := applyFind(r.selectBooks(&books), opts).String()
	plan, err := r.queryPlan(ctx, query)
	if err != nil {
		return nil, err
	}

	steps := make(types.Documents, len(plan))
	for i, row := range plan {
		steps[i] = normalizeRow(types.Document(row).Only(types.Document(row).Keys()...))
	}
	return types.Document{
		"engine": r.db.Dialect().Name().String(),
		"query":  query,
		"plan":   steps,
		"executionStats": types.Document{
			"nReturned":           len(found),
			"executionTimeMillis": elapsed.Milliseconds(),
		},
	}, nil
}

func (r *bunBookRepository) queryPlan(ctx context.Context, query string) ([]map[string]interface{}, error) {
	rows, err := r.db.QueryContext(ctx, r.explainPrefix()+" "+query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	plan := make([]map[string]interface{}, 0)
	if err := r.db.ScanRows(ctx, rows, &plan); err != nil {
		return nil, err
	}
	return plan, rows.Err()
}

func applyFilter(q *bun.SelectQuery, f *types.QueryFilter) *bun.SelectQuery {
	if f.IsEmpty() {
		return q
	}
	for _, c := range f.Conditions {
		q = q.Where("? "+c.Op.Desc()+" ?", bun.Ident(c.Field), c.Value)
	}
	return q
}

// applyFind adds filter, sort, skip and limit. A sorted query is tie-broken
// by id so consecutive pages neither repeat nor skip rows.
func applyFind(q *bun.SelectQuery, opts types.FindOptions) *bun.SelectQuery {
	q = applyFilter(q, opts.Filter)
	for _, s := range opts.Sort {
		q = q.OrderExpr("? "+s.Direction.String(), bun.Ident(s.Field))
	}
	if len(opts.Sort) > 0 {
		q = q.OrderExpr("? ASC", bun.Ident(sqlIDColumn))
	}
	switch {
	case opts.Limit > 0:
		q = q.Limit(opts.Limit)
	case opts.Skip > 0:
		q = q.Limit(math.MaxInt32)
	}
	if opts.Skip > 0 {
		q = q.Offset(opts.Skip)
	}
	return q
}

// normalizeRow maps SQL storage types back to document types: SQLite and
// MySQL keep booleans as integers.
func normalizeRow(doc types.Document) types.Document {
	if v, ok := doc[model.FieldInStock]; ok {
		switch n := v.(type) {
		case int64:
			doc[model.FieldInStock] = n != 0
		case int:
			doc[model.FieldInStock] = n != 0
		}
	}
	return doc
}
