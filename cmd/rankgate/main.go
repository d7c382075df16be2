// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/rankgate"
	"github.com/poiesic/rankgate/config"
	"github.com/poiesic/rankgate/core"
	"github.com/poiesic/rankgate/guardrail"
	"github.com/poiesic/rankgate/stats"
	statsbadger "github.com/poiesic/rankgate/stats/badger"
)

func main() {
	app := &cli.App{
		Name:  "rankgate",
		Usage: "Retrieval ranking and answerability gate for document QA",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "rank",
				Usage:  "Rank a candidate set for a query and print the verdict",
				Action: rankCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "input",
						Aliases:  []string{"i"},
						Usage:    "Path to a JSON file with the query and candidates",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "tenant",
						Aliases: []string{"t"},
						Usage:   "Path to a tenant YAML configuration (defaults apply if omitted)",
					},
					&cli.StringFlag{
						Name:    "stats-db",
						Aliases: []string{"d"},
						Usage:   "Path to the corpus statistics BadgerDB directory",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print the full response as JSON instead of a summary",
					},
				},
			},
			{
				Name:   "seed-stats",
				Usage:  "Load a JSON corpus statistics dump into the statistics store",
				Action: seedStatsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "db",
						Aliases:  []string{"d"},
						Usage:    "Path to the corpus statistics BadgerDB directory",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "dump",
						Usage:    "Path to the JSON statistics dump",
						Required: true,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// rankInput is the JSON shape the rank command consumes.
type rankInput struct {
	Query      string            `json:"query"`
	Candidates []*core.Candidate `json:"candidates"`
}

func rankCommand(c *cli.Context) error {
	ctx := context.Background()

	tenant := config.Default()
	if path := c.String("tenant"); path != "" {
		loaded, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		tenant = loaded
	}

	corpus := core.CorpusStats{}
	if dbPath := c.String("stats-db"); dbPath != "" {
		loaded, err := loadCorpus(ctx, dbPath)
		if err != nil {
			return err
		}
		corpus = loaded
	}

	data, err := os.ReadFile(c.String("input"))
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	var input rankInput
	if err := json.Unmarshal(data, &input); err != nil {
		return fmt.Errorf("failed to parse input file: %w", err)
	}

	engine, err := rankgate.NewEngine(tenant, corpus,
		rankgate.WithAuditSink(guardrail.NewSlogAuditSink(slog.Default())))
	if err != nil {
		return err
	}
	defer engine.Close()

	resp, err := engine.Rank(ctx, input.Query, input.Candidates)
	if err != nil {
		return err
	}

	if c.Bool("json") {
		out, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}
	printSummary(resp)
	return nil
}

func printSummary(resp *rankgate.Response) {
	for _, res := range resp.Results {
		fmt.Printf("%3d. %-30s fused=%.4f raw=%.4f norm=%.4f vector=%.4f\n",
			res.Rank, res.Candidate.ID,
			res.Components.Fused, res.Components.RawKeyword,
			res.Components.KeywordNorm, res.Candidate.VectorScore)
	}

	d := resp.Decision
	fmt.Printf("\nanswerable=%t confidence=%.3f (tier %s)\n", d.Answerable, d.Confidence, d.Profile.Tier)
	if d.Refusal != nil {
		fmt.Printf("refusal: [%s] %s\n", d.Refusal.Reason, d.Refusal.Message)
		for _, s := range d.Refusal.Suggestions {
			fmt.Printf("  - %s\n", s)
		}
	}
}

func loadCorpus(ctx context.Context, dbPath string) (core.CorpusStats, error) {
	backend, err := statsbadger.OpenBackend(dbPath, false)
	if err != nil {
		return core.CorpusStats{}, fmt.Errorf("failed to open statistics store: %w", err)
	}
	defer backend.Close()

	repo, err := statsbadger.NewRepository(backend)
	if err != nil {
		return core.CorpusStats{}, err
	}
	defer repo.Close()

	return repo.LoadAll(ctx)
}

func seedStatsCommand(c *cli.Context) error {
	ctx := context.Background()

	backend, err := statsbadger.OpenBackend(c.String("db"), false)
	if err != nil {
		return fmt.Errorf("failed to open statistics store: %w", err)
	}
	defer backend.Close()

	repo, err := statsbadger.NewRepository(backend)
	if err != nil {
		return err
	}
	defer repo.Close()

	dump, err := os.Open(c.String("dump"))
	if err != nil {
		return fmt.Errorf("failed to open dump file: %w", err)
	}
	defer dump.Close()

	n, err := stats.Seed(ctx, repo, dump)
	if err != nil {
		return err
	}

	slog.Info("statistics seeded", "entries", n, "db", c.String("db"))
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	// Configure slog with the specified level
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
