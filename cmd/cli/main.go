package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pmarrero/ihtp/internal/config"
	"github.com/pmarrero/ihtp/pkg/core/engine"
	"github.com/pmarrero/ihtp/pkg/instance"
	"github.com/pmarrero/ihtp/pkg/search"
	"github.com/pmarrero/ihtp/pkg/store"
	"github.com/pmarrero/ihtp/pkg/utils/logging"
)

// App holds the application dependencies
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	ctx    context.Context
}

var app *App

func main() {
	rootCmd := &cobra.Command{
		Use:   "ihtp",
		Short: "Integrated healthcare timetabler - evaluate and search patient/nurse schedules",
		Long: `A CLI tool for the integrated healthcare timetabling problem: evaluate
encoded candidate solutions, search for good schedules and export the
decoded timetables.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Name())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil && app.logger != nil {
				app.logger.Sync()
			}
		},
	}

	rootCmd.AddCommand(solveCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(randomCmd())
	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(runsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger and config
func initApp(command string) error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	app.logger, err = logging.InitLogger(command)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	return nil
}

// Command definitions

func solveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solve <instance> <encoded>",
		Short: "Evaluate an encoded candidate against an instance",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("out")

			inst, err := instance.Load(args[0])
			if err != nil {
				return err
			}
			enc, err := instance.LoadEncoded(args[1])
			if err != nil {
				return err
			}

			eng := engine.New(inst)
			score, err := eng.Solve(enc)
			if err != nil {
				return fmt.Errorf("failed to evaluate candidate: %w", err)
			}

			printScore(eng.Solution(), score)

			if out != "" {
				if err := instance.WriteSolution(out, eng.Solution()); err != nil {
					return err
				}
				app.logger.Info("Solution written", zap.String("path", out))
			}
			return nil
		},
	}

	cmd.Flags().String("out", "", "Write the decoded solution to this file")
	return cmd
}

func searchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <instance>",
		Short: "Run the genetic search over an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], "genetic", search.Genetic)
		},
	}
	addSearchFlags(cmd)
	return cmd
}

func randomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random <instance>",
		Short: "Run the random-sampling baseline over an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args[0], "random", search.Random)
		},
	}
	addSearchFlags(cmd)
	return cmd
}

func addSearchFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("seed", 0, "Seed for the random number generator (0 = time-based)")
	cmd.Flags().Duration("time-limit", 0, "Wall-clock budget (overrides config)")
	cmd.Flags().String("out", "", "Write the decoded best solution to this file")
	cmd.Flags().String("out-encoded", "", "Write the best encoded candidate to this file")
	cmd.Flags().String("database-url", "", "Record the run in this Postgres database (overrides config)")
}

type searchFunc func(*engine.Engine, search.Parameters, *zap.Logger) (*search.Result, error)

func runSearch(cmd *cobra.Command, instancePath, algorithm string, run searchFunc) error {
	seed, _ := cmd.Flags().GetInt64("seed")
	timeLimit, _ := cmd.Flags().GetDuration("time-limit")
	out, _ := cmd.Flags().GetString("out")
	outEncoded, _ := cmd.Flags().GetString("out-encoded")
	databaseURL, _ := cmd.Flags().GetString("database-url")
	if databaseURL == "" {
		databaseURL = app.cfg.DatabaseURL
	}

	inst, err := instance.Load(instancePath)
	if err != nil {
		return err
	}

	params, err := searchParameters(app.cfg, seed, timeLimit)
	if err != nil {
		return err
	}

	app.logger.Info("Starting search",
		zap.String("algorithm", algorithm),
		zap.String("instance", instancePath),
		zap.Int64("seed", params.Seed),
		zap.Duration("time_limit", params.TimeLimit),
	)

	eng := engine.New(inst)
	result, err := run(eng, params, app.logger)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	app.logger.Info("Search finished",
		zap.Int("hard", result.Score.Hard),
		zap.Int("soft", result.Score.Soft),
		zap.Int("evaluations", result.Evaluations),
		zap.Duration("elapsed", result.Elapsed),
	)

	// Re-decode the best candidate so the exported solution matches it.
	if _, err := eng.Solve(result.Best); err != nil {
		return fmt.Errorf("failed to re-evaluate best candidate: %w", err)
	}
	printScore(eng.Solution(), result.Score)

	if out == "" {
		base := strings.TrimSuffix(filepath.Base(instancePath), filepath.Ext(instancePath))
		out = filepath.Join(app.cfg.OutputDir, fmt.Sprintf("sol_%s.json", base))
	}
	if err := instance.WriteSolution(out, eng.Solution()); err != nil {
		return err
	}
	app.logger.Info("Solution written", zap.String("path", out))

	if outEncoded != "" {
		if err := instance.WriteEncoded(outEncoded, result.Best); err != nil {
			return err
		}
		app.logger.Info("Encoded candidate written", zap.String("path", outEncoded))
	}

	return recordRun(databaseURL, instancePath, algorithm, params.Seed, result)
}

// searchParameters merges the config defaults with command-line overrides
func searchParameters(cfg *config.Config, seed int64, timeLimit time.Duration) (search.Parameters, error) {
	limit, err := cfg.Search.TimeLimitDuration()
	if err != nil {
		return search.Parameters{}, err
	}
	if timeLimit > 0 {
		limit = timeLimit
	}
	if seed == 0 {
		seed = cfg.Search.Seed
	}
	return search.Parameters{
		PopulationSize: cfg.Search.PopulationSize,
		MaxGenerations: cfg.Search.MaxGenerations,
		CrossoverRate:  cfg.Search.CrossoverRate,
		MutationRate:   cfg.Search.MutationRate,
		EliteCount:     cfg.Search.EliteCount,
		TournamentSize: cfg.Search.TournamentSize,
		TimeLimit:      limit,
		Seed:           seed,
	}, nil
}

// recordRun persists the run result when a database is configured
func recordRun(databaseURL, instancePath, algorithm string, seed int64, result *search.Result) error {
	if databaseURL == "" {
		app.logger.Debug("No database configured, skipping run record")
		return nil
	}

	db, err := store.NewDB(app.ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(app.ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	run := store.RunRecord{
		ID:          uuid.New(),
		Instance:    filepath.Base(instancePath),
		Algorithm:   algorithm,
		Seed:        seed,
		Hard:        result.Score.Hard,
		Soft:        result.Score.Soft,
		Evaluations: result.Evaluations,
		Elapsed:     result.Elapsed,
	}
	if err := db.RecordRun(app.ctx, run); err != nil {
		return err
	}

	app.logger.Info("Run recorded", zap.String("run_id", run.ID.String()))
	return nil
}

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs <instance>",
		Short: "List recorded search runs for an instance, best first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			databaseURL, _ := cmd.Flags().GetString("database-url")
			if databaseURL == "" {
				databaseURL = app.cfg.DatabaseURL
			}
			if databaseURL == "" {
				return fmt.Errorf("no database configured: set databaseURL in the config or pass --database-url")
			}

			db, err := store.NewDB(app.ctx, databaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer db.Close()

			runs, err := db.ListRuns(app.ctx, filepath.Base(args[0]))
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Println("No recorded runs for this instance.")
				return nil
			}

			fmt.Printf("\n%-10s %8s %6s %8s %12s %10s  %s\n",
				"algorithm", "hard", "soft", "evals", "elapsed", "seed", "run id")
			for _, r := range runs {
				fmt.Printf("%-10s %8d %6d %8d %12s %10d  %s\n",
					r.Algorithm, r.Hard, r.Soft, r.Evaluations, r.Elapsed, r.Seed, r.ID)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().String("database-url", "", "Postgres database to read runs from (overrides config)")
	return cmd
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <instance>",
		Short: "Print a summary of an instance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, err := instance.Load(args[0])
			if err != nil {
				return err
			}

			mandatory := 0
			for _, p := range inst.Patients {
				if p.Mandatory {
					mandatory++
				}
			}
			beds := 0
			for _, r := range inst.Rooms {
				beds += r.Capacity
			}

			fmt.Printf("\nInstance: %s\n\n", args[0])
			fmt.Printf("Days:          %d\n", inst.Days)
			fmt.Printf("Shift types:   %s\n", strings.Join(inst.ShiftTypes, ", "))
			fmt.Printf("Skill levels:  %d\n", inst.SkillLevels)
			fmt.Printf("Age groups:    %s\n", strings.Join(inst.AgeGroups, ", "))
			fmt.Printf("Patients:      %d (%d mandatory, %d optional)\n", len(inst.Patients), mandatory, len(inst.Patients)-mandatory)
			fmt.Printf("Occupants:     %d\n", len(inst.Occupants))
			fmt.Printf("Rooms:         %d (%d beds)\n", len(inst.Rooms), beds)
			fmt.Printf("Theaters:      %d\n", len(inst.OperatingTheaters))
			fmt.Printf("Surgeons:      %d\n", len(inst.Surgeons))
			fmt.Printf("Nurses:        %d (%d working shifts)\n", len(inst.Nurses), inst.TotalNurseBlocks())
			fmt.Println()

			return nil
		},
	}
}

// printScore prints the cost breakdown of a decoded solution
func printScore(sol *engine.Solution, score engine.Score) {
	placed, unplaced := 0, 0
	for _, pa := range sol.Patients {
		if pa.Placed() {
			placed++
		} else {
			unplaced++
		}
	}

	labels := [...]string{
		engine.SoftAgeGroupMix:         "Age group mix",
		engine.SoftMinimumSkill:        "Minimum skill",
		engine.SoftContinuityOfCare:    "Continuity of care",
		engine.SoftExcessiveWorkload:   "Excessive workload",
		engine.SoftOpenTheaters:        "Open theaters",
		engine.SoftSurgeonTransfer:     "Surgeon transfer",
		engine.SoftAdmissionDelay:      "Admission delay",
		engine.SoftUnscheduledOptional: "Unscheduled optional",
	}

	fmt.Printf("\nHard violations: %d\n", score.Hard)
	fmt.Printf("Soft penalty:    %d\n", score.Soft)
	fmt.Printf("Patients:        %d placed, %d unplaced\n\n", placed, unplaced)
	for i, label := range labels {
		fmt.Printf("  %-22s %d\n", label, sol.SoftCosts[i])
	}
	fmt.Println()
}
