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

	"github.com/tomoncle/bookseed/database"
	"github.com/tomoncle/bookseed/model"
	"github.com/tomoncle/bookseed/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoBookRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository returns a BookRepository backed by a MongoDB collection.
func NewMongoRepository(coll *mongo.Collection) BookRepository {
	return &mongoBookRepository{coll: coll}
}

func (r *mongoBookRepository) Name() string { return r.coll.Name() }

// EnsureCollection is a no-op: the first insert creates the collection.
func (r *mongoBookRepository) EnsureCollection(context.Context) error { return nil }

func (r *mongoBookRepository) Count(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

func (r *mongoBookRepository) Drop(ctx context.Context) error {
	err := r.coll.Drop(ctx)
	if err != nil && database.IsKind(err, database.NoTableErr) {
		return nil
	}
	return err
}

func (r *mongoBookRepository) InsertMany(ctx context.Context, books ...*model.Book) (int, error) {
	if len(books) == 0 {
		return 0, nil
	}
	docs := make([]interface{}, len(books))
	for i, b := range books {
		docs[i] = b
	}
	res, err := r.coll.InsertMany(ctx, docs)
	if err != nil {
		return 0, err
	}
	return len(res.InsertedIDs), nil
}

func (r *mongoBookRepository) FindAll(ctx context.Context) ([]*model.Book, error) {
	return r.find(ctx, bson.D{}, options.Find())
}

func (r *mongoBookRepository) Find(ctx context.Context, opts types.FindOptions) ([]*model.Book, error) {
	if err := validateFindOptions(opts); err != nil {
		return nil, err
	}
	return r.find(ctx, mongoFilter(opts.Filter), mongoFindOptions(opts))
}

func (r *mongoBookRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]*model.Book, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	books := make([]*model.Book, 0)
	if err := cursor.All(ctx, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (r *mongoBookRepository) FindProjected(ctx context.Context, opts types.FindOptions, fields ...string) (types.Documents, error) {
	if len(fields) == 0 {
		return nil, ErrEmptyProjection
	}
	if err := validateFields(fields...); err != nil {
		return nil, err
	}
	if err := validateFindOptions(opts); err != nil {
		return nil, err
	}

	projection := bson.D{{Key: "_id", Value: 0}}
	for _, f := range fields {
		projection = append(projection, bson.E{Key: f, Value: 1})
	}
	cursor, err := r.coll.Find(ctx, mongoFilter(opts.Filter), mongoFindOptions(opts).SetProjection(projection))
	if err != nil {
		return nil, err
	}
	var rows []bson.M
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	docs := make(types.Documents, len(rows))
	for i, row := range rows {
		docs[i] = types.Document(row).Only(fields...)
	}
	return docs, nil
}

func (r *mongoBookRepository) Page(ctx context.Context, pageRequest *types.PageRequest) (*types.Pagination[model.Book], error) {
	opts := pageRequest.FindOptions()
	if err := validateFindOptions(opts); err != nil {
		return nil, err
	}
	pagination := types.NewDefaultPagination[model.Book](pageRequest.GetPage(), pageRequest.GetPageSize())

	filter := mongoFilter(opts.Filter)
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil || total == 0 {
		return pagination, err
	}
	books, err := r.find(ctx, filter, mongoFindOptions(opts))
	if err != nil {
		return nil, err
	}
	pagination.Total = int(total)
	pagination.Items = books
	return pagination, nil
}

func (r *mongoBookRepository) UpdatePriceByTitle(ctx context.Context, title string, price float64) (*UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: model.FieldTitle, Value: title}},
		bson.D{{Key: "$set", Value: bson.D{{Key: model.FieldPrice, Value: price}}}},
	)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (r *mongoBookRepository) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.D{{Key: model.FieldTitle, Value: title}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *mongoBookRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (r *mongoBookRepository) AveragePriceByGenre(ctx context.Context) ([]*model.GenreAverage, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + model.FieldGenre},
			{Key: "averagePrice", Value: bson.D{{Key: "$avg", Value: "$" + model.FieldPrice}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	rows := make([]*model.GenreAverage, 0)
	return rows, r.aggregate(ctx, pipeline, &rows)
}

func (r *mongoBookRepository) TopAuthors(ctx context.Context, limit int) ([]*model.AuthorCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + model.FieldAuthor},
			{Key: "bookCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "bookCount", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}
	rows := make([]*model.AuthorCount, 0)
	return rows, r.aggregate(ctx, pipeline, &rows)
}

func (r *mongoBookRepository) CountByDecade(ctx context.Context) ([]*model.DecadeCount, error) {
	decade := bson.D{{Key: "$multiply", Value: bson.A{
		bson.D{{Key: "$floor", Value: bson.D{{Key: "$divide", Value: bson.A{"$" + model.FieldPublishedYear, 10}}}}},
		10,
	}}}
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: decade},
			{Key: "bookCount", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "decade", Value: bson.D{{Key: "$toInt", Value: "$_id"}}},
			{Key: "bookCount", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "decade", Value: 1}}}},
	}
	rows := make([]*model.DecadeCount, 0)
	return rows, r.aggregate(ctx, pipeline, &rows)
}

func (r *mongoBookRepository) CreateIndex(ctx context.Context, spec types.IndexSpec) (string, error) {
	if err := validateIndex(spec); err != nil {
		return "", err
	}
	keys := bson.D{}
	for _, k := range spec.Keys {
		keys = append(keys, bson.E{Key: k.Field, Value: k.Direction.Number()})
	}
	name := spec.IndexName()
	created, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    keys,
		Options: options.Index().SetName(name),
	})
	if err != nil {
		if database.IsKind(err, database.ExistIndexErr) {
			return name, nil
		}
		return "", fmt.Errorf("create index %s: %w", name, err)
	}
	return created, nil
}

func (r *mongoBookRepository) Explain(ctx context.Context, opts types.FindOptions) (types.Document, error) {
	if err := validateFindOptions(opts); err != nil {
		return nil, err
	}
	find := bson.D{
		{Key: "find", Value: r.coll.Name()},
		{Key: "filter", Value: mongoFilter(opts.Filter)},
	}
	if len(opts.Sort) > 0 {
		find = append(find, bson.E{Key: "sort", Value: mongoSort(opts.Sort)})
	}
	if opts.Skip > 0 {
		find = append(find, bson.E{Key: "skip", Value: opts.Skip})
	}
	if opts.Limit > 0 {
		find = append(find, bson.E{Key: "limit", Value: opts.Limit})
	}

	var raw bson.M
	err := r.coll.Database().RunCommand(ctx, bson.D{
		{Key: "explain", Value: find},
		{Key: "verbosity", Value: "executionStats"},
	}).Decode(&raw)
	if err != nil {
		return nil, err
	}
	doc := types.Document(raw)
	doc["engine"] = database.BackendMongo
	return doc, nil
}

// mongoFilter renders a conjunction: one condition stays a plain field
// match, several are wrapped in $and.
func mongoFilter(f *types.QueryFilter) bson.D {
	if f.IsEmpty() {
		return bson.D{}
	}
	parts := make(bson.A, 0, len(f.Conditions))
	for _, c := range f.Conditions {
		parts = append(parts, mongoCondition(c))
	}
	if len(parts) == 1 {
		return parts[0].(bson.D)
	}
	return bson.D{{Key: "$and", Value: parts}}
}

func mongoCondition(c types.Condition) bson.D {
	if c.Op == types.OpEq {
		return bson.D{{Key: c.Field, Value: c.Value}}
	}
	return bson.D{{Key: c.Field, Value: bson.D{{Key: string(c.Op), Value: c.Value}}}}
}

// mongoSort appends _id so equal keys keep a stable order between pages.
func mongoSort(sort []types.SortField) bson.D {
	out := make(bson.D, 0, len(sort)+1)
	for _, s := range sort {
		out = append(out, bson.E{Key: s.Field, Value: s.Direction.Number()})
	}
	return append(out, bson.E{Key: "_id", Value: 1})
}

func mongoFindOptions(opts types.FindOptions) *options.FindOptions {
	fo := options.Find()
	if len(opts.Sort) > 0 {
		fo.SetSort(mongoSort(opts.Sort))
	}
	if opts.Skip > 0 {
		fo.SetSkip(int64(opts.Skip))
	}
	if opts.Limit > 0 {
		fo.SetLimit(int64(opts.Limit))
	}
	return fo
}
