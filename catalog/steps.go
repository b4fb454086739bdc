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

package catalog

import (
	"context"

	"github.com/tomoncle/bookseed/model"
	"github.com/tomoncle/bookseed/types"
)

var projectedFields = []string{model.FieldTitle, model.FieldAuthor, model.FieldPrice}

var steps = []Step{
	{Name: "find-all", Title: "All books", run: findAll},
	{Name: "by-genre", Title: "Books in a genre", run: byGenre},
	{Name: "after-year", Title: "Books published after a year", run: afterYear},
	{Name: "by-author", Title: "Books by an author", run: byAuthor},
	{Name: "update-price", Title: "Update the price of a book", run: updatePrice},
	{Name: "delete-by-title", Title: "Delete a book by title", run: deleteByTitle},
	{Name: "in-stock-after-year", Title: "In stock and published after a year", run: inStockAfterYear},
	{Name: "projection", Title: "In stock and published after a year, title/author/price only", run: projection},
	{Name: "sort-price", Title: "Books sorted by price", run: sortPrice},
	{Name: "paginate", Title: "Books by price, page by page", run: paginate},
	{Name: "avg-price-by-genre", Title: "Average price by genre", run: avgPriceByGenre},
	{Name: "top-author", Title: "Author with the most books", run: topAuthor},
	{Name: "count-by-decade", Title: "Books per publication decade", run: countByDecade},
	{Name: "index-title", Title: "Index on title", run: indexTitle},
	{Name: "index-author-year", Title: "Compound index on author and newest year", run: indexAuthorYear},
	{Name: "explain-title", Title: "Execution stats for a title lookup", run: explainTitle},
}

func (c *Catalog) findAndPrint(ctx context.Context, conds ...types.Condition) error {
	books, err := c.repo.Find(ctx, types.FindOptions{Filter: types.NewQueryFilter(conds...)})
	if err != nil {
		return err
	}
	c.printBooks(books)
	return nil
}

func (c *Catalog) inStockAfterYear() *types.QueryFilter {
	return types.NewQueryFilter(
		types.Eq(model.FieldInStock, true),
		types.Gt(model.FieldPublishedYear, c.params.Year),
	)
}

func findAll(ctx context.Context, c *Catalog) error {
	books, err := c.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	c.printBooks(books)
	c.printf("%d books\n", len(books))
	return nil
}

func byGenre(ctx context.Context, c *Catalog) error {
	c.printf("genre = %q\n", c.params.Genre)
	return c.findAndPrint(ctx, types.Eq(model.FieldGenre, c.params.Genre))
}

func afterYear(ctx context.Context, c *Catalog) error {
	c.printf("published_year > %d\n", c.params.Year)
	return c.findAndPrint(ctx, types.Gt(model.FieldPublishedYear, c.params.Year))
}

func byAuthor(ctx context.Context, c *Catalog) error {
	c.printf("author = %q\n", c.params.Author)
	return c.findAndPrint(ctx, types.Eq(model.FieldAuthor, c.params.Author))
}

func updatePrice(ctx context.Context, c *Catalog) error {
	res, err := c.repo.UpdatePriceByTitle(ctx, c.params.Title, c.params.NewPrice)
	if err != nil {
		return err
	}
	c.printf("%q price -> %.2f: matched %d, modified %d\n", c.params.Title, c.params.NewPrice, res.Matched, res.Modified)
	return c.findAndPrint(ctx, types.Eq(model.FieldTitle, c.params.Title))
}

func deleteByTitle(ctx context.Context, c *Catalog) error {
	n, err := c.repo.DeleteByTitle(ctx, c.params.Title)
	if err != nil {
		return err
	}
	c.printf("%q: deleted %d\n", c.params.Title, n)
	return c.findAndPrint(ctx, types.Eq(model.FieldTitle, c.params.Title))
}

func inStockAfterYear(ctx context.Context, c *Catalog) error {
	filter := c.inStockAfterYear()
	c.printf("%s\n", filter)
	books, err := c.repo.Find(ctx, types.FindOptions{Filter: filter})
	if err != nil {
		return err
	}
	c.printBooks(books)
	return nil
}

func projection(ctx context.Context, c *Catalog) error {
	docs, err := c.repo.FindProjected(ctx, types.FindOptions{Filter: c.inStockAfterYear()}, projectedFields...)
	if err != nil {
		return err
	}
	c.printDocuments(docs)
	return nil
}

func sortPrice(ctx context.Context, c *Catalog) error {
	for _, s := range []types.SortField{types.Asc(model.FieldPrice), types.Desc(model.FieldPrice)} {
		c.printf("-- price %s\n", s.Direction.Name())
		docs, err := c.repo.FindProjected(ctx, types.FindOptions{Sort: []types.SortField{s}}, projectedFields...)
		if err != nil {
			return err
		}
		c.printDocuments(docs)
	}
	return nil
}

func paginate(ctx context.Context, c *Catalog) error {
	for page := 1; page <= c.params.Pages; page++ {
		req := types.NewPageRequestWithOrders(page, c.params.PageSize, types.Asc(model.FieldPrice))
		docs, err := c.repo.FindProjected(ctx, req.FindOptions(), projectedFields...)
		if err != nil {
			return err
		}
		c.printf("-- page %d (skip %d, limit %d)\n", page, req.GetOffset(), req.GetPageSize())
		c.printDocuments(docs)
	}
	return nil
}

func avgPriceByGenre(ctx context.Context, c *Catalog) error {
	rows, err := c.repo.AveragePriceByGenre(ctx)
	if err != nil {
		return err
	}
	for _, r := range rows {
		c.printf("%-24s %.2f\n", r.Genre, r.AveragePrice)
	}
	return nil
}

func topAuthor(ctx context.Context, c *Catalog) error {
	rows, err := c.repo.TopAuthors(ctx, c.params.TopAuthors)
	if err != nil {
		return err
	}
	for _, r := range rows {
		c.printf("%s: %d books\n", r.Author, r.BookCount)
	}
	return nil
}

func countByDecade(ctx context.Context, c *Catalog) error {
	rows, err := c.repo.CountByDecade(ctx)
	if err != nil {
		return err
	}
	for _, r := range rows {
		c.printf("%ds: %d\n", r.Decade, r.BookCount)
	}
	return nil
}

func (c *Catalog) createIndex(ctx context.Context, keys ...types.IndexKey) error {
	name, err := c.repo.CreateIndex(ctx, types.NewIndexSpec(keys...))
	if err != nil {
		return err
	}
	c.printf("index %s ready\n", name)
	return nil
}

func indexTitle(ctx context.Context, c *Catalog) error {
	return c.createIndex(ctx, types.IndexKey{Field: model.FieldTitle, Direction: types.Ascending})
}

func indexAuthorYear(ctx context.Context, c *Catalog) error {
	return c.createIndex(ctx,
		types.IndexKey{Field: model.FieldAuthor, Direction: types.Ascending},
		types.IndexKey{Field: model.FieldPublishedYear, Direction: types.Descending},
	)
}

func explainTitle(ctx context.Context, c *Catalog) error {
	plan, err := c.repo.Explain(ctx, types.FindOptions{Filter: types.NewQueryFilter(types.Eq(model.FieldTitle, c.params.Title))})
	if err != nil {
		return err
	}
	c.printf("%s\n", plan.Indent())
	return nil
}
