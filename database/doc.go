// Package database provides configuration loading, backend selection,
// connection management for MongoDB and for SQL engines through Bun, engine
// error classification, query logging hooks and the package logger.
package database
