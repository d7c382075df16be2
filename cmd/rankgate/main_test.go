package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func testApp() *cli.App {
	return &cli.App{
		Name: "rankgate",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "info"},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "rank",
				Action: rankCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Required: true},
					&cli.StringFlag{Name: "tenant", Aliases: []string{"t"}},
					&cli.StringFlag{Name: "stats-db", Aliases: []string{"d"}},
					&cli.BoolFlag{Name: "json"},
				},
			},
			{
				Name:   "seed-stats",
				Action: seedStatsCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "db", Aliases: []string{"d"}, Required: true},
					&cli.StringFlag{Name: "dump", Required: true},
				},
			},
		},
	}
}

func TestRankCommandRequiresInput(t *testing.T) {
	err := testApp().Run([]string{"rankgate", "rank"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input")
}

func TestSeedStatsCommandRequiresFlags(t *testing.T) {
	err := testApp().Run([]string{"rankgate", "seed-stats", "--db", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "dump")
}

func TestRankCommandRunsWithDefaults(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(input, []byte(`{
		"query": "database replication lag",
		"candidates": [
			{"ID": "a", "Content": "replication lag on the primary database", "VectorScore": 0.8},
			{"ID": "b", "Content": "cooking pasta", "VectorScore": 0.4}
		]
	}`), 0o644))

	err := testApp().Run([]string{"rankgate", "rank", "--input", input, "--json"})
	assert.NoError(t, err)
}

func TestRankCommandRejectsMalformedInput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(input, []byte("{not json"), 0o644))

	err := testApp().Run([]string{"rankgate", "rank", "--input", input})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestRankCommandRejectsBadTenantFile(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"query": "q", "candidates": []}`), 0o644))
	tenant := filepath.Join(dir, "tenant.yaml")
	require.NoError(t, os.WriteFile(tenant, []byte("fusion:\n  strategy: psychic\n"), 0o644))

	err := testApp().Run([]string{"rankgate", "rank", "--input", input, "--tenant", tenant})
	assert.Error(t, err)
}

func TestSetupLoggerLevels(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	for _, level := range []string{"debug", "info", "warn", "error"} {
		err := testApp().Run([]string{"rankgate", "--log-level", level})
		assert.NoError(t, err, "level %s", level)
	}

	err := testApp().Run([]string{"rankgate", "--log-level", "loud"})
	assert.Error(t, err)
}
