package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/requirement-resolver/internal/config"
	"github.com/jonathan/requirement-resolver/internal/decision"
	"github.com/jonathan/requirement-resolver/internal/engine"
	"github.com/jonathan/requirement-resolver/internal/llm"
	"github.com/jonathan/requirement-resolver/internal/logger"
	"github.com/jonathan/requirement-resolver/internal/observability"
	"github.com/jonathan/requirement-resolver/internal/store"
	"github.com/jonathan/requirement-resolver/internal/types"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a requirement list against a resume document",
	Long: `Runs the full resolution pass: deterministic matching first, then the
constrained decision loop for every requirement the rules could not settle.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values.`,
	RunE: runResolveCmd,
}

var (
	resolveConfigPath   string
	resolveRequirements string
	resolveResume       string
	resolveProfiles     string
	resolveOutput       string
	resolveAPIKey       string
	resolveModel        string
	resolveDatabaseURL  string
	resolveVerbose      bool
)

func init() {
	resolveCmd.Flags().StringVar(&resolveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	resolveCmd.Flags().StringVarP(&resolveRequirements, "requirements", "r", "", "Path to requirements JSON file")
	resolveCmd.Flags().StringVar(&resolveResume, "resume", "", "Path to resume document JSON file")
	resolveCmd.Flags().StringVar(&resolveProfiles, "profiles", "", "Path to element profiles JSON file")
	resolveCmd.Flags().StringVarP(&resolveOutput, "output", "o", "", "Path to write the result JSON to (default stdout)")
	resolveCmd.Flags().StringVar(&resolveModel, "model", "", "Model tier: lite, standard, advanced (default advanced)")
	resolveCmd.Flags().BoolVarP(&resolveVerbose, "verbose", "v", false, "Print detailed debug information")

	// API key can be passed as a flag, or read from env var GEMINI_API_KEY
	resolveCmd.Flags().StringVar(&resolveAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")

	// Database URL for run history persistence
	resolveCmd.Flags().StringVar(&resolveDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(resolveCmd)
}

func runResolveCmd(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	var cfg config.Config
	if resolveConfigPath != "" {
		loadedCfg, err := config.LoadConfig(resolveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loadedCfg.Validate(); err != nil {
			return err
		}
		cfg = *loadedCfg
	}

	// CLI overrides take priority over config file values.
	if cmd.Flags().Changed("requirements") {
		cfg.Requirements = resolveRequirements
	}
	if cmd.Flags().Changed("resume") {
		cfg.Resume = resolveResume
	}
	if cmd.Flags().Changed("profiles") {
		cfg.Profiles = resolveProfiles
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = resolveOutput
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = resolveAPIKey
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = resolveModel
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = resolveDatabaseURL
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = resolveVerbose
	}

	if cfg.Requirements == "" || cfg.Resume == "" || cfg.Profiles == "" {
		return fmt.Errorf("--requirements, --resume, and --profiles are required (via flags or --config)")
	}

	// Environment variables backfill secrets left unset by flags and config.
	cfg = cfg.MergeWithDefaults(config.Config{
		APIKey:      os.Getenv("GEMINI_API_KEY"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
	})
	if cfg.APIKey == "" {
		return fmt.Errorf("API key is required: pass --api-key or set GEMINI_API_KEY")
	}

	in, err := loadInput(cfg)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	tier := llm.TierAdvanced
	if cfg.Model != "" {
		tier = llm.ModelTier(cfg.Model)
	}

	llmConfig := llm.DefaultConfig()
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		llmConfig = llmConfig.WithModel(tier, model)
	}

	client, err := llm.NewClient(ctx, llmConfig, cfg.APIKey)
	if err != nil {
		return fmt.Errorf("failed to create generation client: %w", err)
	}
	defer client.Close() //nolint:errcheck

	eng := engine.New(decision.NewDecider(client, tier, log), log)

	printer := observability.NewPrinter(os.Stdout)
	if cfg.Verbose {
		printer.PrintRequirements(in.Requirements)
	}

	var progress engine.ProgressFunc
	if cfg.Verbose {
		progress = func(ev types.ProgressEvent) {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s: %s\n", ev.Completed, ev.Total, ev.Canonical, ev.Status)
		}
	}

	var runs *store.Store
	if cfg.DatabaseURL != "" {
		runs, err = store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer runs.Close()
	}

	var runID *uuid.UUID
	if runs != nil {
		id, err := runs.CreateRun(ctx, len(in.Requirements))
		if err != nil {
			return err
		}
		runID = &id
	}

	result, resolveErr := eng.Resolve(ctx, in, progress)
	if runs != nil {
		if err := runs.CompleteRun(ctx, *runID, result); err != nil {
			log.Warn("failed to record run", zap.Error(err))
		}
	}
	if resolveErr != nil {
		return resolveErr
	}

	if cfg.Verbose {
		printer.PrintReport(result.Report)
	}
	printer.PrintOperations(result.Operations)
	printer.PrintTransientNotice(result)

	return writeResult(cfg.Output, result)
}

func loadInput(cfg config.Config) (engine.Input, error) {
	var in engine.Input
	if err := readJSONFile(cfg.Requirements, &in.Requirements); err != nil {
		return in, fmt.Errorf("failed to load requirements: %w", err)
	}
	in.Document = &types.ResumeDocument{}
	if err := readJSONFile(cfg.Resume, in.Document); err != nil {
		return in, fmt.Errorf("failed to load resume: %w", err)
	}
	if err := readJSONFile(cfg.Profiles, &in.Profiles); err != nil {
		return in, fmt.Errorf("failed to load profiles: %w", err)
	}
	return in, nil
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

func writeResult(output string, result *types.ResolveResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}

	if output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
