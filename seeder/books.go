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
	"fmt"
	"sort"
	"strings"

	"github.com/tomoncle/bookseed/model"
)

// Names of the built-in seed sets.
const (
	SetClassics     = "classics"
	SetContemporary = "contemporary"
	SetEditions     = "editions"
)

// DefaultSet is seeded when no set is named.
const DefaultSet = SetClassics

// ErrUnknownSet is returned for a set name that is not built in.
var ErrUnknownSet = errors.New("unknown seed set")

var seedSets = map[string][]model.Book{
	SetClassics:     classics,
	SetContemporary: contemporary,
	SetEditions:     editions,
}

var classics = []model.Book{
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Fiction", PublishedYear: 1960, Price: 12.99, InStock: true, Pages: 336, Publisher: "J. B. Lippincott & Co."},
	{Title: "1984", Author: "George Orwell", Genre: "Dystopian", PublishedYear: 1949, Price: 10.99, InStock: true, Pages: 328, Publisher: "Secker & Warburg"},
	{Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Genre: "Fiction", PublishedYear: 1925, Price: 9.99, InStock: true, Pages: 180, Publisher: "Charles Scribner's Sons"},
	{Title: "Brave New World", Author: "Aldous Huxley", Genre: "Dystopian", PublishedYear: 1932, Price: 11.50, InStock: false, Pages: 311, Publisher: "Chatto & Windus"},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1937, Price: 14.99, InStock: true, Pages: 310, Publisher: "George Allen & Unwin"},
	{Title: "The Catcher in the Rye", Author: "J.D. Salinger", Genre: "Fiction", PublishedYear: 1951, Price: 8.99, InStock: true, Pages: 224, Publisher: "Little, Brown and Company"},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance", PublishedYear: 1813, Price: 7.99, InStock: true, Pages: 432, Publisher: "T. Egerton, Whitehall"},
	{Title: "The Lord of the Rings", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1954, Price: 19.99, InStock: true, Pages: 1178, Publisher: "Allen & Unwin"},
	{Title: "Animal Farm", Author: "George Orwell", Genre: "Political Satire", PublishedYear: 1945, Price: 8.50, InStock: false, Pages: 112, Publisher: "Secker & Warburg"},
	{Title: "The Alchemist", Author: "Paulo Coelho", Genre: "Fiction", PublishedYear: 1988, Price: 10.99, InStock: true, Pages: 197, Publisher: "HarperOne"},
	{Title: "Moby Dick", Author: "Herman Melville", Genre: "Adventure", PublishedYear: 1851, Price: 12.50, InStock: false, Pages: 635, Publisher: "Harper & Brothers"},
	{Title: "Wuthering Heights", Author: "Emily Brontë", Genre: "Gothic Fiction", PublishedYear: 1847, Price: 9.99, InStock: true, Pages: 342, Publisher: "Thomas Cautley Newby"},
}

// contemporary repeats the classics copy of "The Alchemist" with another
// genre, page count and publisher. Seeding both sets keeps both copies.
var contemporary = []model.Book{
	{Title: "The Midnight Library", Author: "Matt Haig", Genre: "Fantasy", PublishedYear: 2020, Price: 15.99, InStock: true, Pages: 304, Publisher: "Canongate Books"},
	{Title: "Project Hail Mary", Author: "Andy Weir", Genre: "Science Fiction", PublishedYear: 2021, Price: 18.50, InStock: true, Pages: 496, Publisher: "Ballantine Books"},
	{Title: "Atomic Habits", Author: "James Clear", Genre: "Self-Help", PublishedYear: 2018, Price: 12.00, InStock: false, Pages: 320, Publisher: "Avery"},
	{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", PublishedYear: 1965, Price: 14.75, InStock: true, Pages: 412, Publisher: "Chilton Books"},
	{Title: "The Henna Artist", Author: " Alka Joshi", Genre: "Historical Fiction", PublishedYear: 2020, Price: 16.25, InStock: true, Pages: 368, Publisher: "Mira Books"},
	{Title: "Sapiens: A Brief History of Humankind", Author: "Yuval Noah Harari", Genre: "History", PublishedYear: 2014, Price: 20.00, InStock: true, Pages: 443, Publisher: "Harper"},
	{Title: "Circe", Author: "Madeline Miller", Genre: "Mythology", PublishedYear: 2018, Price: 17.50, InStock: true, Pages: 393, Publisher: "Little, Brown and Company"},
	{Title: "The Vanishing Half", Author: "Brit Bennett", Genre: "Fiction", PublishedYear: 2020, Price: 15.00, InStock: false, Pages: 352, Publisher: "Riverhead Books"},
	{Title: "Educated", Author: "Tara Westover", Genre: "Memoir", PublishedYear: 2018, Price: 13.99, InStock: true, Pages: 334, Publisher: "Random House"},
	{Title: "The Alchemist", Author: "Paulo Coelho", Genre: "Philosophical Fiction", PublishedYear: 1988, Price: 10.99, InStock: true, Pages: 208, Publisher: "HarperCollins"},
	{Title: "Where the Crawdads Sing", Author: "Delia Owens", Genre: "Mystery", PublishedYear: 2018, Price: 16.99, InStock: true, Pages: 384, Publisher: "G.P. Putnam's Sons"},
	{Title: "The Silent Patient", Author: "Alex Michaelides", Genre: "Thriller", PublishedYear: 2019, Price: 14.00, InStock: false, Pages: 336, Publisher: "Celadon Books"},
	{Title: "Pachinko", Author: "Min Jin Lee", Genre: "Historical Fiction", PublishedYear: 2017, Price: 17.00, InStock: true, Pages: 490, Publisher: "Grand Central Publishing"},
	{Title: "Becoming", Author: "Michelle Obama", Genre: "Memoir", PublishedYear: 2018, Price: 21.50, InStock: true, Pages: 426, Publisher: "Crown"},
	{Title: "The Book Thief", Author: "Markus Zusak", Genre: "Historical Fiction", PublishedYear: 2005, Price: 11.50, InStock: true, Pages: 552, Publisher: "Alfred A. Knopf"},
}

// editions adds second printings and more titles by authors already present,
// so the grouping reports have something to group.
var editions = []model.Book{
	{Title: "1984", Author: "George Orwell", Genre: "Dystopian", PublishedYear: 1949, Price: 10.50, InStock: true, Pages: 328, Publisher: "Secker & Warburg"},
	{Title: "Brave New World", Author: "Aldous Huxley", Genre: "Dystopian", PublishedYear: 1932, Price: 9.99, InStock: true, Pages: 311, Publisher: "Chatto & Windus"},
	{Title: "The Lord of the Rings", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1954, Price: 25.00, InStock: true, Pages: 1178, Publisher: "George Allen & Unwin"},
	{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy", PublishedYear: 1937, Price: 14.99, InStock: true, Pages: 310, Publisher: "George Allen & Unwin"},
	{Title: "To Kill a Mockingbird", Author: "Harper Lee", Genre: "Classic", PublishedYear: 1960, Price: 11.25, InStock: true, Pages: 281, Publisher: "J. B. Lippincott & Co."},
	{Title: "Pride and Prejudice", Author: "Jane Austen", Genre: "Romance", PublishedYear: 1813, Price: 8.75, InStock: true, Pages: 279, Publisher: "T. Egerton, Whitehall"},
	{Title: "The Hitchhiker's Guide to the Galaxy", Author: "Douglas Adams", Genre: "Science Fiction", PublishedYear: 1979, Price: 13.00, InStock: true, Pages: 193, Publisher: "Pan Books"},
	{Title: "Good Omens", Author: "Terry Pratchett", Genre: "Fantasy", PublishedYear: 1990, Price: 16.00, InStock: true, Pages: 491, Publisher: "Victor Gollancz Ltd"},
	{Title: "Neuromancer", Author: "William Gibson", Genre: "Cyberpunk", PublishedYear: 1984, Price: 12.50, InStock: false, Pages: 271, Publisher: "Ace Books"},
	{Title: "Foundation", Author: "Isaac Asimov", Genre: "Science Fiction", PublishedYear: 1951, Price: 11.75, InStock: true, Pages: 255, Publisher: "Gnome Press"},
	{Title: "The Martian", Author: "Andy Weir", Genre: "Science Fiction", PublishedYear: 2011, Price: 14.50, InStock: true, Pages: 369, Publisher: "Crown Publishing Group"},
	{Title: "Artemis", Author: "Andy Weir", Genre: "Science Fiction", PublishedYear: 2017, Price: 13.75, InStock: true, Pages: 305, Publisher: "Crown Publishing Group"},
	{Title: "The Da Vinci Code", Author: "Dan Brown", Genre: "Thriller", PublishedYear: 2003, Price: 10.99, InStock: true, Pages: 454, Publisher: "Doubleday"},
	{Title: "Angels & Demons", Author: "Dan Brown", Genre: "Thriller", PublishedYear: 2000, Price: 9.99, InStock: true, Pages: 736, Publisher: "Pocket Books"},
	{Title: "Gone Girl", Author: "Gillian Flynn", Genre: "Thriller", PublishedYear: 2012, Price: 13.50, InStock: false, Pages: 419, Publisher: "Crown"},
	{Title: "The Girl with the Dragon Tattoo", Author: "Stieg Larsson", Genre: "Crime", PublishedYear: 2005, Price: 12.00, InStock: true, Pages: 464, Publisher: "Norstedts Förlag"},
	{Title: "Educated (Paperback)", Author: "Tara Westover", Genre: "Memoir", PublishedYear: 2018, Price: 10.99, InStock: true, Pages: 334, Publisher: "Random House"},
}

// SetNames returns the built-in set names sorted alphabetically.
func SetNames() []string {
	names := make([]string, 0, len(seedSets))
	for name := range seedSets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Books returns fresh copies of the named sets concatenated in order. No names
// means DefaultSet.
func Books(names ...string) ([]*model.Book, error) {
	if len(names) == 0 {
		names = []string{DefaultSet}
	}
	var books []*model.Book
	for _, name := range names {
		set, ok := seedSets[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("%w: %q, available: %s", ErrUnknownSet, name, strings.Join(SetNames(), ", "))
		}
		for i := range set {
			b := set[i]
			books = append(books, &b)
		}
	}
	return books, nil
}
