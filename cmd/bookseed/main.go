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

// Package main is the bookseed command: it resets a books collection to the
// built-in seed sets and can run the example query catalog afterwards.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/tomoncle/bookseed"
	"github.com/tomoncle/bookseed/catalog"
	"github.com/tomoncle/bookseed/database"
	"github.com/tomoncle/bookseed/seeder"
	"github.com/tomoncle/bookseed/utils"
)

type options struct {
	configPath   string
	envFile      string
	exportConfig string
	list         bool

	backend    string
	uri        string
	db         string
	collection string
	sets       string
	runCatalog bool
	step       string
	logLevel   string
}

func main() {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "YAML config file")
	flag.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded into the environment when present")
	flag.StringVar(&opts.exportConfig, "export-config", "", "write the effective config as YAML to this path and exit")
	flag.BoolVar(&opts.list, "list", false, "list seed sets and catalog steps")
	flag.StringVar(&opts.backend, "backend", "", "database backend (mongodb, sqlite, postgres, mysql)")
	flag.StringVar(&opts.uri, "uri", "", "connection URI or DSN")
	flag.StringVar(&opts.db, "db", "", "database name")
	flag.StringVar(&opts.collection, "collection", "", "collection (table) name")
	flag.StringVar(&opts.sets, "sets", "", "comma separated seed sets (default: classics, or every set with -catalog or -step)")
	flag.BoolVar(&opts.runCatalog, "catalog", false, "run the query catalog after seeding (seeds every set unless -sets is given)")
	flag.StringVar(&opts.step, "step", "", "run a single catalog step after seeding (seeds every set unless -sets is given)")
	flag.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flag.Parse()

	if opts.list {
		printList()
		return
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.exportConfig != "" {
		if err := database.ExportConfig(cfg, opts.exportConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	utils.ConfigureConsoleLogFormat(cfg.LogConfig.Format)
	utils.ConfigureLogLevel(cfg.LogConfig.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	if _, err := bookseed.NewService(cfg).Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error occurred: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

// loadConfig layers defaults, the YAML file, the environment and the flags
// that were set explicitly.
func loadConfig(opts options) (*database.Config, error) {
	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", opts.envFile, err)
	}

	cfg, err := database.LoadConfigFile(opts.configPath)
	if err != nil {
		return nil, err
	}
	if err := database.OverrideFromEnv(cfg); err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.ConnectionConfig.Type = opts.backend
		case "uri":
			cfg.ConnectionConfig.URI = opts.uri
		case "db":
			cfg.ConnectionConfig.DBName = opts.db
		case "collection":
			cfg.ConnectionConfig.Collection = opts.collection
		case "sets":
			cfg.SeedConfig.Sets = splitList(opts.sets)
		case "catalog":
			cfg.SeedConfig.RunCatalog = opts.runCatalog
		case "step":
			cfg.SeedConfig.Step = opts.step
		case "log-level":
			cfg.LogConfig.Level = opts.logLevel
		}
	})

	backend, err := database.NormalizeBackend(cfg.ConnectionConfig.Type)
	if err != nil {
		return nil, err
	}
	cfg.ConnectionConfig.Type = backend
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func printList() {
	fmt.Println("Seed sets:")
	for _, name := range seeder.SetNames() {
		books, _ := seeder.Books(name)
		fmt.Printf("  %-14s %d books\n", name, len(books))
	}
	fmt.Println("\nCatalog steps:")
	for _, name := range catalog.StepNames() {
		fmt.Printf("  %s\n", name)
	}
}
