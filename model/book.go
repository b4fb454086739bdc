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

package model

import (
	"fmt"

	"github.com/uptrace/bun"
)

// Stored field names of a Book document.
const (
	FieldTitle         = "title"
	FieldAuthor        = "author"
	FieldGenre         = "genre"
	FieldPublishedYear = "published_year"
	FieldPrice         = "price"
	FieldInStock       = "in_stock"
	FieldPages         = "pages"
	FieldPublisher     = "publisher"
)

var bookFields = []string{
	FieldTitle,
	FieldAuthor,
	FieldGenre,
	FieldPublishedYear,
	FieldPrice,
	FieldInStock,
	FieldPages,
	FieldPublisher,
}

// Book is a single record of the books collection. ID is only populated by
// the SQL backends; the document engine keeps its own _id.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b" bson:"-" json:"-" yaml:"-"`

	ID            int64   `bun:"id,pk,autoincrement" bson:"-" json:"-" yaml:"-"`
	Title         string  `bun:"title,notnull" bson:"title" json:"title" yaml:"title"`
	Author        string  `bun:"author,notnull" bson:"author" json:"author" yaml:"author"`
	Genre         string  `bun:"genre" bson:"genre" json:"genre" yaml:"genre"`
	PublishedYear int     `bun:"published_year" bson:"published_year" json:"published_year" yaml:"published_year"`
	Price         float64 `bun:"price" bson:"price" json:"price" yaml:"price"`
	InStock       bool    `bun:"in_stock" bson:"in_stock" json:"in_stock" yaml:"in_stock"`
	Pages         int     `bun:"pages" bson:"pages" json:"pages" yaml:"pages"`
	Publisher     string  `bun:"publisher" bson:"publisher" json:"publisher" yaml:"publisher"`
}

// String renders the one-line listing used by the seeder report.
func (b *Book) String() string {
	return fmt.Sprintf("%q by %s (%d)", b.Title, b.Author, b.PublishedYear)
}

// Fields returns the stored field names in declaration order.
func Fields() []string {
	out := make([]string, len(bookFields))
	copy(out, bookFields)
	return out
}

// IsField reports whether name is a stored Book field.
func IsField(name string) bool {
	for _, f := range bookFields {
		if f == name {
			return true
		}
	}
	return false
}
