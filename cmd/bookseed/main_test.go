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

package main

import (
	"reflect"
	"testing"

	"github.com/tomoncle/bookseed/database"
)

func TestSplitList(t *testing.T) {
	got := splitList(" classics, ,editions ,")
	if !reflect.DeepEqual(got, []string{"classics", "editions"}) {
		t.Fatalf("splitList() = %v", got)
	}
	if splitList("") != nil {
		t.Fatalf("empty list not nil")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BOOKSEED_BACKEND", "sqlite3")
	t.Setenv("BOOKSEED_SETS", "contemporary")

	cfg, err := loadConfig(options{envFile: "does-not-exist.env"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ConnectionConfig.Type != database.BackendSQLite {
		t.Fatalf("backend = %q", cfg.ConnectionConfig.Type)
	}
	if !reflect.DeepEqual(cfg.SeedConfig.Sets, []string{"contemporary"}) {
		t.Fatalf("sets = %v", cfg.SeedConfig.Sets)
	}
}

func TestLoadConfigRejectsBackend(t *testing.T) {
	t.Setenv("BOOKSEED_BACKEND", "cassandra")
	if _, err := loadConfig(options{envFile: "does-not-exist.env"}); err == nil {
		t.Fatalf("unsupported backend accepted")
	}
}
