// Package repository provides the book collection abstraction used by the
// seeder and the query catalog, with a MongoDB implementation and a Bun
// implementation for SQLite, PostgreSQL and MySQL.
package repository
