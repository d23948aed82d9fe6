// Command regctl is the operator CLI for the training registration service:
// schema migrations, CSV export and table queries against the configured store.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/TrainingReg/internal/app"
	"github.com/JonMunkholm/TrainingReg/internal/config"
	"github.com/JonMunkholm/TrainingReg/internal/logging"
	"github.com/JonMunkholm/TrainingReg/internal/review"
	"github.com/JonMunkholm/TrainingReg/internal/store"
)

const appName = "regctl"

var errNoDatabase = errors.New("DATABASE_URL is not set")

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is shared by every subcommand once PersistentPreRunE has run.
type env struct {
	cfg    *config.Config
	logger *slog.Logger
}

func rootCmd(out io.Writer) *cobra.Command {
	var (
		envFile  string
		logLevel string
		e        env
	)

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Operate the training registration service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			if envFile != "" {
				if err := godotenv.Overload(envFile); err != nil {
					return fmt.Errorf("load %s: %w", envFile, err)
				}
			} else {
				_ = godotenv.Load()
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			level := cfg.Logging.Level
			if logLevel != "" {
				level = logLevel
			}
			e.cfg = cfg
			e.logger = logging.New(os.Stderr, level, cfg.Logging.Format)
			return nil
		},
	}
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment from this file (default .env if present)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")

	cmd.AddCommand(
		migrateCmd(&e),
		exportCmd(&e),
		listCmd(&e),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, app.Version)
			},
		},
	)
	return cmd
}

func migrateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back the registrations schema",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if !e.cfg.UsesDatabase() {
					return errNoDatabase
				}
				return store.MigrateUp(e.cfg.Database.URL, e.logger)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration, dropping all registrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				if !e.cfg.UsesDatabase() {
					return errNoDatabase
				}
				return store.MigrateDown(e.cfg.Database.URL, e.logger)
			},
		},
	)
	return cmd
}

func exportCmd(e *env) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every registration to a CSV file",
		Long: `Reads all registrations from the configured store and writes the same
CSV the HR panel offers for download. The file is named after the export
date unless --out is given; --out - writes to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, closeFn, err := loadPipeline(cmd.Context(), e)
			if err != nil {
				return err
			}
			defer closeFn()

			doc, err := pipeline.Export()
			if err != nil {
				return err
			}

			switch outPath {
			case "-":
				_, err = cmd.OutOrStdout().Write(doc.Data)
				return err
			case "":
				outPath = doc.Name
			}
			if err := os.WriteFile(outPath, doc.Data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			e.logger.Info("export written", "path", outPath, "rows", doc.Rows)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output path, or - for stdout")
	return cmd
}

func listCmd(e *env) *cobra.Command {
	var (
		search string
		sortBy string
		desc   bool
		page   int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the HR table as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			key := review.SortCreatedAt
			if sortBy != "" {
				k, ok := review.ParseSortKey(sortBy)
				if !ok {
					return fmt.Errorf("unknown sort key %q", sortBy)
				}
				key = k
			}
			dir := review.Asc
			if desc {
				dir = review.Desc
			}

			pipeline, closeFn, err := loadPipeline(cmd.Context(), e)
			if err != nil {
				return err
			}
			defer closeFn()

			result := pipeline.Derive(review.RestoreView(search, key, dir, page))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "Case-insensitive text filter")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort column (default created_at)")
	cmd.Flags().BoolVar(&desc, "desc", false, "Sort descending")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")
	return cmd
}

// loadPipeline opens the store and performs one reload.
func loadPipeline(ctx context.Context, e *env) (*review.Pipeline, func(), error) {
	if ctx == nil {
		ctx = context.Background()
	}
	backend, err := app.Open(ctx, e.cfg, e.logger)
	if err != nil {
		return nil, nil, err
	}
	opts, err := app.ReviewOptions(e.cfg)
	if err != nil {
		backend.Close()
		return nil, nil, err
	}
	opts.Logger = e.logger

	pipeline := review.NewPipeline(backend.Store, opts)
	if err := pipeline.Reload(ctx); err != nil {
		backend.Close()
		return nil, nil, err
	}
	return pipeline, backend.Close, nil
}
