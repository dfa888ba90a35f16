// Package main is the profilectl maintenance tool. It seeds candidate
// profiles, re-runs legacy field normalization, and exports journey data.
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/debbielamxy/WanderTogether/internal/journey"
	"github.com/debbielamxy/WanderTogether/internal/match"
	"github.com/debbielamxy/WanderTogether/internal/middleware"
	"github.com/debbielamxy/WanderTogether/internal/profile"
	"github.com/debbielamxy/WanderTogether/internal/survey"
)

const usage = `WanderTogether profile maintenance tool

Usage: profilectl <command> [options]

Commands:
  seed       load candidate profiles from a JSON file into the database
  normalize  canonicalize legacy fields on all stored profiles
  journeys   list recorded journeys
  export     write recorded journeys as CSV to stdout
  clear      delete all recorded journeys
  weights    derive a weight calibration file from survey factor counts

Environment:
  DATABASE_URL  Postgres connection string (required)
`

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}

	logger := middleware.NewLogger(os.Getenv("ENV"))
	slog.SetDefault(logger)

	// The weights command works on local files only and needs no database.
	if flag.Arg(0) == "weights" {
		if err := runWeights(flag.Args()[1:]); err != nil {
			logger.Error("command failed", "command", "weights", "error", err)
			os.Exit(1)
		}
		return
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	profiles := profile.NewPostgresRepository(db, logger)
	journeys := journey.NewPostgresRepository(db, logger)

	var runErr error
	switch cmd := flag.Arg(0); cmd {
	case "seed":
		runErr = runSeed(ctx, profiles, flag.Args()[1:])
	case "normalize":
		runErr = runNormalize(ctx, profiles)
	case "journeys":
		runErr = runJourneys(ctx, journeys, flag.Args()[1:])
	case "export":
		runErr = journey.ExportCSV(ctx, journeys, os.Stdout)
	case "clear":
		runErr = journeys.Clear(ctx)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}

	if runErr != nil {
		logger.Error("command failed", "command", flag.Arg(0), "error", runErr)
		os.Exit(1)
	}
}

// runSeed loads candidates from a JSON array file and upserts each one.
// Legacy fields are normalized before writing.
func runSeed(ctx context.Context, repo profile.Repository, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	path := fs.String("file", "", "path to a JSON file with an array of candidate profiles")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *path == "" {
		return fmt.Errorf("seed: -file is required")
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		return fmt.Errorf("read seed file: %w", err)
	}
	var candidates []profile.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return fmt.Errorf("parse seed file: %w", err)
	}

	for i := range candidates {
		c := &candidates[i]
		profile.NormalizeCandidate(c)
		if err := repo.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert candidate %d: %w", c.ID, err)
		}
	}

	slog.Info("seeded candidate profiles", "count", len(candidates))
	return nil
}

// runNormalize canonicalizes legacy fields on every stored profile and
// writes back only the ones that changed.
func runNormalize(ctx context.Context, repo profile.Repository) error {
	candidates, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list candidates: %w", err)
	}

	changed := 0
	for i := range candidates {
		c := &candidates[i]
		if !profile.NormalizeCandidate(c) {
			continue
		}
		if err := repo.Upsert(ctx, c); err != nil {
			return fmt.Errorf("upsert candidate %d: %w", c.ID, err)
		}
		changed++
	}

	slog.Info("normalized candidate profiles", "total", len(candidates), "changed", changed)
	return nil
}

// runWeights derives engine weights from survey factor counts and prints
// them as a calibration file for the CALIBRATION_PATH setting. Without a
// counts file it prints the reference survey weights.
func runWeights(args []string) error {
	fs := flag.NewFlagSet("weights", flag.ExitOnError)
	path := fs.String("counts", "", "path to a JSON file of survey factor counts (optional)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	weights := survey.ReferenceWeights()
	if *path != "" {
		data, err := os.ReadFile(*path)
		if err != nil {
			return fmt.Errorf("read counts file: %w", err)
		}
		var counts survey.FactorCounts
		if err := json.Unmarshal(data, &counts); err != nil {
			return fmt.Errorf("parse counts file: %w", err)
		}
		weights, err = survey.DeriveWeights(counts)
		if err != nil {
			return err
		}
	}

	out := struct {
		Version string        `json:"version"`
		Weights match.Weights `json:"weights"`
	}{
		Version: time.Now().UTC().Format("2006-01-02"),
		Weights: weights,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// runJourneys prints recorded journeys, newest first.
func runJourneys(ctx context.Context, repo journey.Repository, args []string) error {
	fs := flag.NewFlagSet("journeys", flag.ExitOnError)
	limit := fs.Int("limit", 0, "maximum number of journeys to print (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	journeys, err := repo.List(ctx, *limit)
	if err != nil {
		return fmt.Errorf("list journeys: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	for _, j := range journeys {
		if err := enc.Encode(j); err != nil {
			return fmt.Errorf("encode journey %s: %w", j.ID, err)
		}
	}

	slog.Info("listed journeys", "count", len(journeys))
	return nil
}
