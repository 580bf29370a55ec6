// Command solve loads a profile and recipe pool, runs the search, and shows
// the resulting plan (or failure report) in an interactive terminal viewer.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mealplansolver/internal/config"
	"mealplansolver/internal/db"
	"mealplansolver/internal/reference"
	"mealplansolver/internal/search"
	"mealplansolver/internal/solverlog"
	"mealplansolver/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (defaults to ./configs/config.yaml)")
	profileID := flag.String("profile", "demo", "profile id to solve for")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	logger := solverlog.New(cfg.Log.Level)
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	database, err := db.Connect(ctx, db.Config{
		DatabaseURL:     cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer database.Close()

	recipeStore := store.NewRecipeStore(database.DB)
	profileStore := store.NewProfileStore(database.DB)

	pool, err := recipeStore.ListAll(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading recipe pool: %v\n", err)
		os.Exit(1)
	}
	profile, err := profileStore.Get(ctx, *profileID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading profile %q: %v\n", *profileID, err)
		os.Exit(1)
	}

	resolvedUL := reference.ResolveUpperLimits(profile.Demographic, profile.UpperLimitOverrides)

	opts := search.Options{
		MaxAttempts:               cfg.Solver.MaxAttempts,
		EnableCarbDownscaling:     cfg.Solver.EnableCarbDownscaling,
		CarbDownscaleStepFraction: cfg.Solver.CarbDownscaleStepFraction,
		CarbDownscaleMaxVariants:  cfg.Solver.CarbDownscaleMaxVariants,
		Sink:                      solverlog.NewSink(logger),
	}

	outcome, err := search.Solve(profile, pool, resolvedUL, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid profile: %v\n", err)
		os.Exit(1)
	}

	if err := recordRun(ctx, database, *profileID, outcome); err != nil {
		logger.Sugar().Warnf("recording solve run: %v", err)
	}

	p := tea.NewProgram(newModel(profile, pool, outcome), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "running viewer: %v\n", err)
		os.Exit(1)
	}
}

func recordRun(ctx context.Context, database *db.DB, profileID string, outcome search.Outcome) error {
	runStore := store.NewSolveRunStore(database.DB)
	return runStore.Record(ctx, store.RunRecord{
		ProfileID:   profileID,
		Success:     outcome.Success,
		FailureMode: string(outcome.FailureMode),
		Termination: string(outcome.Termination),
		Report:      outcome.Report,
		Stats:       outcome.Stats,
	})
}
