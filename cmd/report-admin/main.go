package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/readykit/report-api/config"
	"github.com/readykit/report-api/internal/bootstrap"
	"github.com/readykit/report-api/internal/data"
	"github.com/readykit/report-api/internal/devseed"
	"github.com/readykit/report-api/internal/domain/model"
)

type commandFn func(ctx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx    context.Context
	Logger *slog.Logger
	Config config.AppConfig
}

const defaultCommandTimeout = 5 * time.Minute

func main() {
	logger := bootstrap.InitLogger()

	if len(os.Args) < 2 {
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when no command is provided
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		if err := writef(os.Stderr, "unknown command %q\n\n", cmdName); err != nil {
			logger.Error("print unknown command message failed", "error", err)
		}
		if err := printUsage(); err != nil {
			logger.Error("print usage failed", "error", err)
		}
		os.Exit(2) //nolint:forbidigo // CLI must exit with failure status when command is unknown
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		logger.ErrorContext(context.Background(), "load config", "error", err)
		os.Exit(1) //nolint:forbidigo // CLI must signal configuration load failure to shell scripts
	}

	cmdCtx := &commandContext{
		Ctx:    context.Background(),
		Logger: logger,
		Config: cfg,
	}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		logger.ErrorContext(cmdCtx.Ctx, "command failed", "command", cmdName, "error", runErr)
		os.Exit(1) //nolint:forbidigo // CLI must propagate command execution failure to callers
	}
}

func commands() map[string]command {
	return map[string]command{
		"migrate": {
			name:        "migrate",
			description: "Run database migrations",
			run:         runMigrations,
		},
		"expire-jobs": {
			name:        "expire-jobs",
			description: "Fail generation jobs stuck pending past the TTL",
			run:         runExpireJobs,
		},
		"purge-callbacks": {
			name:        "purge-callbacks",
			description: "Delete callback deliveries older than the retention window",
			run:         runPurgeCallbacks,
		},
		"usage-summary": {
			name:        "usage-summary",
			description: "Print recent model usage rows for a feature",
			run:         runUsageSummary,
		},
		"db-seed": {
			name:        "db-seed",
			description: "Seed development data (migrates first)",
			run:         runDBSeed,
		},
	}
}

func printUsage() error {
	if err := writef(os.Stdout, "Usage: report-admin <command> [flags]\n\n"); err != nil {
		return err
	}
	if err := writef(os.Stdout, "Available commands:\n"); err != nil {
		return err
	}
	for _, c := range commands() {
		if err := writef(os.Stdout, "  %-18s %s\n", c.name, c.description); err != nil {
			return err
		}
	}
	return nil
}

type migrateOptions struct {
	Timeout time.Duration
}

type expireJobsOptions struct {
	PendingTTL time.Duration
	BatchSize  int
}

type purgeCallbacksOptions struct {
	OlderThan time.Duration
	DryRun    bool
}

type usageSummaryOptions struct {
	Feature string
	Limit   int
}

type dbSeedOptions struct {
	Timeout     time.Duration
	AllowNonDev bool
}

func runMigrations(cmdCtx *commandContext, args []string) error {
	opts, err := parseMigrateFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		cmdCtx.Logger.Info("migrations completed successfully")
		return nil
	})
}

func runExpireJobs(cmdCtx *commandContext, args []string) error {
	opts, err := parseExpireJobsFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewJobRepo(db)
		cutoff := time.Now().Add(-opts.PendingTTL)

		total := 0
		for {
			ids, expireErr := repo.ExpireStale(ctx, cutoff, opts.BatchSize)
			if expireErr != nil {
				return fmt.Errorf("expire stale jobs: %w", expireErr)
			}
			total += len(ids)
			for _, id := range ids {
				if printErr := writef(os.Stdout, "expired %s\n", id); printErr != nil {
					return printErr
				}
			}
			if len(ids) < opts.BatchSize {
				break
			}
		}

		cmdCtx.Logger.Info("expire jobs complete", "jobs_expired", total, "cutoff", cutoff)
		return nil
	})
}

func runPurgeCallbacks(cmdCtx *commandContext, args []string) error {
	opts, err := parsePurgeCallbacksFlags(args)
	if err != nil {
		return err
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		cutoff := time.Now().Add(-opts.OlderThan)

		if opts.DryRun {
			var count int
			row := db.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM callbacks WHERE received_at < $1`, cutoff)
			if scanErr := row.Scan(&count); scanErr != nil {
				return fmt.Errorf("count callbacks: %w", scanErr)
			}
			cmdCtx.Logger.Info("dry run: callbacks eligible for purge", "count", count, "cutoff", cutoff)
			return nil
		}

		res, execErr := db.ExecContext(ctx,
			`DELETE FROM callbacks WHERE received_at < $1`, cutoff)
		if execErr != nil {
			return fmt.Errorf("purge callbacks: %w", execErr)
		}
		rows, _ := res.RowsAffected()
		cmdCtx.Logger.Info("purge callbacks complete", "rows_deleted", rows, "cutoff", cutoff)
		return nil
	})
}

func runUsageSummary(cmdCtx *commandContext, args []string) error {
	opts, err := parseUsageSummaryFlags(args)
	if err != nil {
		return err
	}

	feature := model.Feature(opts.Feature)
	if !feature.Valid() {
		return fmt.Errorf("unknown feature %q", opts.Feature)
	}

	return withDatabase(cmdCtx, defaultCommandTimeout, func(ctx context.Context, db *sql.DB) error {
		repo := data.NewUsageRepo(db)
		records, listErr := repo.ListByFeature(ctx, feature, opts.Limit)
		if listErr != nil {
			return fmt.Errorf("list usage: %w", listErr)
		}

		if len(records) == 0 {
			return writeln(os.Stdout, "(no usage recorded)")
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		if _, werr := fmt.Fprintln(w, "CREATED\tMODEL\tIN\tOUT\tCOST\tOK"); werr != nil {
			return werr
		}
		var totalCost float64
		for _, rec := range records {
			totalCost += rec.EstimatedCostUSD
			if _, werr := fmt.Fprintf(w, "%s\t%s\t%d\t%d\t$%.4f\t%t\n",
				rec.CreatedAt.Format(time.RFC3339),
				rec.Model,
				rec.InputTokens,
				rec.OutputTokens,
				rec.EstimatedCostUSD,
				rec.Success,
			); werr != nil {
				return werr
			}
		}
		if flushErr := w.Flush(); flushErr != nil {
			return flushErr
		}

		return writef(os.Stdout, "\nTotal rows: %d, estimated cost: $%.4f\n", len(records), totalCost)
	})
}

func runDBSeed(cmdCtx *commandContext, args []string) error {
	opts, err := parseDBSeedFlags(args)
	if err != nil {
		return err
	}

	if !cmdCtx.Config.IsDev && !opts.AllowNonDev {
		return errors.New("db-seed targets a non-development environment; pass --allow-non-dev to proceed")
	}

	return withDatabase(cmdCtx, opts.Timeout, func(ctx context.Context, db *sql.DB) error {
		cmdCtx.Logger.Info("ensuring database migrations are current")
		if migrateErr := bootstrap.RunMigrations(ctx, db, cmdCtx.Logger); migrateErr != nil {
			return fmt.Errorf("run migrations: %w", migrateErr)
		}

		cmdCtx.Logger.Info("seeding development data")
		if seedErr := devseed.Run(ctx, devseed.NewServices(db), cmdCtx.Logger); seedErr != nil {
			return fmt.Errorf("seed data: %w", seedErr)
		}

		cmdCtx.Logger.Info("database seeding completed successfully")
		return nil
	})
}

func parseMigrateFlags(args []string) (migrateOptions, error) {
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := migrateOptions{
		Timeout: defaultCommandTimeout,
	}

	fs.DurationVar(
		&opts.Timeout,
		"timeout",
		defaultCommandTimeout,
		"Maximum duration to wait for migrations to complete",
	)

	if err := fs.Parse(args); err != nil {
		return migrateOptions{}, err
	}

	if opts.Timeout <= 0 {
		return migrateOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func parseExpireJobsFlags(args []string) (expireJobsOptions, error) {
	fs := flag.NewFlagSet("expire-jobs", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := expireJobsOptions{}
	fs.DurationVar(&opts.PendingTTL, "pending-ttl", 30*time.Minute, "Fail jobs pending longer than this duration")
	fs.IntVar(&opts.BatchSize, "batch-size", 100, "Jobs expired per round trip")

	if err := fs.Parse(args); err != nil {
		return expireJobsOptions{}, err
	}

	if opts.PendingTTL <= 0 {
		return expireJobsOptions{}, errors.New("--pending-ttl must be greater than zero")
	}
	if opts.BatchSize <= 0 {
		return expireJobsOptions{}, errors.New("--batch-size must be greater than zero")
	}

	return opts, nil
}

func parsePurgeCallbacksFlags(args []string) (purgeCallbacksOptions, error) {
	fs := flag.NewFlagSet("purge-callbacks", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := purgeCallbacksOptions{}
	fs.DurationVar(&opts.OlderThan, "older-than", 30*24*time.Hour, "Delete callbacks received before now minus this duration")
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Count matching rows without deleting")

	if err := fs.Parse(args); err != nil {
		return purgeCallbacksOptions{}, err
	}

	if opts.OlderThan <= 0 {
		return purgeCallbacksOptions{}, errors.New("--older-than must be greater than zero")
	}

	return opts, nil
}

func parseUsageSummaryFlags(args []string) (usageSummaryOptions, error) {
	fs := flag.NewFlagSet("usage-summary", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := usageSummaryOptions{}
	fs.StringVar(&opts.Feature, "feature", "", "Feature to report usage for (required)")
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum rows to print")

	if err := fs.Parse(args); err != nil {
		return usageSummaryOptions{}, err
	}

	if opts.Feature == "" {
		return usageSummaryOptions{}, errors.New("--feature is required")
	}
	if opts.Limit <= 0 {
		return usageSummaryOptions{}, errors.New("--limit must be greater than zero")
	}

	return opts, nil
}

func parseDBSeedFlags(args []string) (dbSeedOptions, error) {
	fs := flag.NewFlagSet("db-seed", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	opts := dbSeedOptions{
		Timeout: defaultCommandTimeout,
	}
	fs.DurationVar(&opts.Timeout, "timeout", defaultCommandTimeout, "Maximum duration to wait for seeding to complete")
	fs.BoolVar(&opts.AllowNonDev, "allow-non-dev", false, "Permit seeding when the environment is not development")

	if err := fs.Parse(args); err != nil {
		return dbSeedOptions{}, err
	}

	if opts.Timeout <= 0 {
		return dbSeedOptions{}, errors.New("--timeout must be greater than zero")
	}

	return opts, nil
}

func withDatabase(
	cmdCtx *commandContext,
	timeout time.Duration,
	f func(context.Context, *sql.DB) error,
) error {
	ctx, stop := signal.NotifyContext(cmdCtx.Ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	db, err := bootstrap.ConnectDB(bootstrap.DatabaseConfig{
		DBConfig: cmdCtx.Config.Postgres,
		Logger:   cmdCtx.Logger,
	})
	if err != nil {
		return fmt.Errorf("connect db: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			cmdCtx.Logger.Warn("db close failed", "error", cerr)
		}
	}()

	return f(ctx, db)
}

func writef(w io.Writer, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func writeln(w io.Writer, args ...any) error {
	if _, err := fmt.Fprintln(w, args...); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
