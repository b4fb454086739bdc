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

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/uptrace/bun"
	"go.mongodb.org/mongo-driver/event"
)

const (
	ansiReset     = "\x1b[0m"
	ansiRed       = "\x1b[31m"
	ansiYellow    = "\x1b[33m"
	ansiGreen     = "\x1b[32m"
	ansiBlue      = "\x1b[34m"
	ansiMagenta   = "\x1b[35m"
	ansiCyan      = "\x1b[36m"
	ansiBGGreen   = "\x1b[42;97m"
	ansiBGYellow  = "\x1b[43;97m"
	ansiBGBlue    = "\x1b[44;97m"
	ansiBGMagenta = "\x1b[45;97m"
	ansiBGRed     = "\x1b[41;97m"
)

func colorWrap(s, code string) string { return fmt.Sprintf("%s%s%s", code, s, ansiReset) }

// QueryHook prints every SQL statement to writer. The env variable named by
// envName overrides enabled: "0" or empty disables, "2" also prints
// successful statements.
type QueryHook struct {
	envName string
	enabled bool
	verbose bool
	writer  io.Writer
}

var _ bun.QueryHook = (*QueryHook)(nil)

// NewQueryHook returns a hook writing to stderr, controlled by BOOKSEED_SQL_LOG.
func NewQueryHook(enabled, verbose bool) *QueryHook {
	return &QueryHook{envName: "BOOKSEED_SQL_LOG", enabled: enabled, verbose: verbose, writer: os.Stderr}
}

func (h *QueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	enabled := h.enabled
	verbose := h.verbose
	if env, ok := os.LookupEnv(h.envName); ok {
		enabled = env != "" && env != "0"
		verbose = env == "2"
	}

	if !enabled {
		return
	}

	if !verbose {
		switch {
		case event.Err == nil, errors.Is(event.Err, sql.ErrNoRows), errors.Is(event.Err, sql.ErrTxDone):
			return
		}
	}

	now := time.Now()
	dur := now.Sub(event.StartTime)

	args := []interface{}{
		now.Format("2006-01-02 15:04:05.000"),
		colorWrap(fmt.Sprintf("%10s", "[BUN]"), ansiCyan),
		fmt.Sprintf("%17s", dur.Round(time.Microsecond)),
		"  ", formatOperation(event.Operation(), event.Query, false),
	}

	if event.Err != nil {
		typ := reflect.TypeOf(event.Err).String()
		args = append(args,
			"\t",
			color.New(color.BgRed).Sprintf(" %s ", typ+": "+event.Err.Error()),
		)
	}
	_, _ = fmt.Fprintln(h.writer, args...)
}

// formatOperation colours a statement by its verb.
func formatOperation(operation, query string, background bool) string {
	var fg, bg string
	switch strings.ToUpper(operation) {
	case "SELECT":
		fg, bg = ansiGreen, ansiBGGreen
	case "INSERT":
		fg, bg = ansiBlue, ansiBGBlue
	case "UPDATE":
		fg, bg = ansiYellow, ansiBGYellow
	case "DELETE":
		fg, bg = ansiMagenta, ansiBGMagenta
	default:
		fg, bg = ansiRed, ansiBGRed
	}
	if background {
		return colorWrap(query, bg)
	}
	return colorWrap(query, fg)
}

// slowQueryHook warns through the package logger when a statement runs
// longer than slowTime.
type slowQueryHook struct {
	slowTime time.Duration
	logger   Logger
}

var _ bun.QueryHook = (*slowQueryHook)(nil)

func (h *slowQueryHook) BeforeQuery(ctx context.Context, event *bun.QueryEvent) context.Context {
	return ctx
}

func (h *slowQueryHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	if event.Err != nil || h.logger == nil {
		return
	}
	duration := time.Since(event.StartTime)
	if duration > h.slowTime {
		h.logger.Warn("Slow query detected",
			"duration", duration,
			"slow_threshold", h.slowTime,
			"query", formatOperation(event.Operation(), event.Query, true),
		)
	}
}

// newCommandMonitor logs MongoDB commands: successes at debug level when
// verbose, slow commands and failures at warn level.
func newCommandMonitor(logger Logger, verbose bool, slowTime time.Duration) *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(_ context.Context, e *event.CommandSucceededEvent) {
			if logger == nil {
				return
			}
			if slowTime > 0 && e.Duration > slowTime {
				logger.Warn("Slow command detected",
					"command", e.CommandName,
					"database", e.DatabaseName,
					"duration", e.Duration,
					"slow_threshold", slowTime,
				)
				return
			}
			if verbose {
				logger.Debug("Command succeeded",
					"command", e.CommandName,
					"database", e.DatabaseName,
					"duration", e.Duration,
				)
			}
		},
		Failed: func(_ context.Context, e *event.CommandFailedEvent) {
			if logger == nil {
				return
			}
			logger.Warn("Command failed",
				"command", e.CommandName,
				"database", e.DatabaseName,
				"duration", e.Duration,
				"failure", e.Failure,
			)
		},
	}
}
