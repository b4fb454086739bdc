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

// GenreAverage is one row of the average-price-by-genre aggregation.
type GenreAverage struct {
	Genre        string  `bun:"genre" bson:"_id" json:"genre"`
	AveragePrice float64 `bun:"average_price" bson:"averagePrice" json:"average_price"`
}

// AuthorCount is one row of the books-per-author aggregation.
type AuthorCount struct {
	Author    string `bun:"author" bson:"_id" json:"author"`
	BookCount int64  `bun:"book_count" bson:"bookCount" json:"book_count"`
}

// DecadeCount is one row of the books-per-decade aggregation. Decade is the
// first year of the decade, e.g. 1950.
type DecadeCount struct {
	Decade    int   `bun:"decade" bson:"decade" json:"decade"`
	BookCount int64 `bun:"book_count" bson:"bookCount" json:"book_count"`
}
