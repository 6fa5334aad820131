package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amara/inkflow/internal/agents"
	"github.com/amara/inkflow/internal/artifacts"
	"github.com/amara/inkflow/internal/calendar"
	"github.com/amara/inkflow/internal/config"
	"github.com/amara/inkflow/internal/history"
	"github.com/amara/inkflow/internal/logger"
	"github.com/amara/inkflow/internal/models"
	"github.com/amara/inkflow/internal/notion"
	"github.com/amara/inkflow/internal/pipeline"
	"github.com/amara/inkflow/internal/stage"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <topic>...",
		Short: "Run the full content pipeline for a topic",
		Long: `Run the full pipeline for one topic: research, draft, evaluate,
repurpose, save and schedule.

Configuration is loaded from .inkflow/config.yaml if present.
CLI flags override configuration file settings. Provider credentials come
from the config file or the environment (OPENAI_API_KEY, TAVILY_API_KEY,
NOTION_API_KEY, NOTION_DATABASE_ID, GOOGLE_CALENDAR_TOKEN).

Examples:
  inkflow run "Remote work productivity"
  inkflow run --max-rounds 5 "AI agents in 2025"
  inkflow run --dry-run "Topic"              # Validate config without calling providers
  inkflow run --output-dir ./out "Topic"
  inkflow run --config custom.yaml "Topic"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .inkflow/config.yaml)")
	cmd.Flags().String("output-dir", "", "Directory for run artifacts")
	cmd.Flags().Int("max-rounds", 0, "Maximum draft-evaluate rounds (0 = use config)")
	cmd.Flags().Int("max-attempts", 0, "Retry budget per stage call (0 = use config)")
	cmd.Flags().Float64("threshold", 0, "Approval threshold on the 0-10 scale (0 = use config)")
	cmd.Flags().String("timezone", "", "IANA timezone for scheduling")
	cmd.Flags().String("samples", "", "Path to the creator's writing samples file")
	cmd.Flags().Bool("dry-run", false, "Validate configuration without calling providers")
	cmd.Flags().Bool("verbose", false, "Show detailed execution information")

	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	level := cfg.LogLevel
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = "debug"
	}
	log := logger.NewConsoleLogger(cmd.OutOrStdout(), level)

	topic := strings.TrimSpace(strings.Join(args, " "))
	if topic == "" {
		return fmt.Errorf("topic is empty")
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		return printDryRun(cmd, cfg, topic)
	}

	coord, err := buildCoordinator(cfg, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("starting pipeline for %q", topic)
	rec, runErr := coord.Run(ctx, topic)
	if rec == nil {
		return runErr
	}

	archiveRun(cfg, log, rec)

	writer := artifacts.NewWriter(cfg.OutputDir)
	written, err := writer.WriteRun(rec)
	if err != nil {
		log.Errorf("writing artifacts: %v", err)
	}

	printSummary(cmd, rec, written)
	return runErr
}

func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
		}
	} else {
		cfg, err = config.LoadConfigFromDir(".")
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir, _ = cmd.Flags().GetString("output-dir")
	}
	if cmd.Flags().Changed("max-rounds") {
		cfg.MaxRounds, _ = cmd.Flags().GetInt("max-rounds")
	}
	if cmd.Flags().Changed("max-attempts") {
		cfg.MaxAttempts, _ = cmd.Flags().GetInt("max-attempts")
	}
	if cmd.Flags().Changed("threshold") {
		cfg.ApprovalThreshold, _ = cmd.Flags().GetFloat64("threshold")
	}
	if cmd.Flags().Changed("timezone") {
		cfg.Timezone, _ = cmd.Flags().GetString("timezone")
	}
	if cmd.Flags().Changed("samples") {
		cfg.WritingSamplesPath, _ = cmd.Flags().GetString("samples")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// buildCoordinator wires the provider clients and stages into a Coordinator.
// Stages whose credentials are missing degrade to a stage that reports the
// gap, so a partially configured setup still produces the draft.
func buildCoordinator(cfg *config.Config, log pipeline.Logger) (*pipeline.Coordinator, error) {
	runtime, err := agents.NewOpenAIRuntime(cfg.Credentials.OpenAIAPIKey, cfg.Credentials.OpenAIBaseURL)
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	tavily, err := agents.NewTavilyClient(cfg.Credentials.TavilyAPIKey)
	if err != nil {
		return nil, fmt.Errorf("tavily: %w", err)
	}

	samples, found := agents.LoadWritingSamples(cfg.WritingSamplesPath)
	if !found {
		log.Warnf("writing samples not found at %s, drafting without voice examples", cfg.WritingSamplesPath)
	}

	inv := stage.NewInvoker()
	if cfg.BackoffBase > 0 {
		inv.BaseDelay = cfg.BackoffBase
	}

	coord := pipeline.NewCoordinator(inv, cfg, log)
	coord.Research = &agents.ResearchStage{Client: tavily}
	coord.Write = agents.NewWriteStage(runtime, cfg.Models.Writer, samples)
	coord.Evaluate = agents.NewEvaluateStage(runtime, cfg.Models.Evaluator, samples)
	coord.Social = agents.NewSocialStage(runtime, cfg.Models.Social, samples)

	if notionClient, err := notion.NewClient(cfg.Credentials.NotionAPIKey, cfg.Credentials.NotionDatabaseID); err != nil {
		log.Warnf("notion not configured: %v", err)
		coord.Storage = unconfiguredStage(models.StageStorage, "notion")
	} else {
		coord.Storage = &notion.StorageStage{Saver: notionClient}
	}

	if calClient, err := calendar.NewClient(cfg.Credentials.CalendarToken, cfg.Credentials.CalendarID); err != nil {
		log.Warnf("calendar not configured: %v", err)
		coord.Schedule = unconfiguredStage(models.StageSchedule, "calendar")
	} else {
		loc, err := time.LoadLocation(cfg.Timezone)
		if err != nil {
			return nil, fmt.Errorf("timezone %q: %w", cfg.Timezone, err)
		}
		coord.Schedule = calendar.NewScheduleStage(calClient, loc)
	}

	return coord, nil
}

func unconfiguredStage(name models.StageName, provider string) stage.Stage {
	return stage.StageFunc{
		StageName: name,
		Fn: func(context.Context, string) (string, error) {
			return "", fmt.Errorf("%s credentials not configured", provider)
		},
	}
}

func archiveRun(cfg *config.Config, log pipeline.Logger, rec *models.RunRecord) {
	store, err := history.NewStore(cfg.HistoryDBPath)
	if err != nil {
		log.Warnf("history unavailable: %v", err)
		return
	}
	defer store.Close()
	if err := store.RecordRun(context.Background(), rec); err != nil {
		log.Warnf("archiving run: %v", err)
	}
}

func printDryRun(cmd *cobra.Command, cfg *config.Config, topic string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Dry run for %q\n\n", topic)
	fmt.Fprintf(out, "  Max rounds: %d\n", cfg.MaxRounds)
	fmt.Fprintf(out, "  Max attempts per stage: %d\n", cfg.MaxAttempts)
	fmt.Fprintf(out, "  Approval threshold: %.1f/10\n", cfg.ApprovalThreshold)
	fmt.Fprintf(out, "  Timezone: %s\n", cfg.Timezone)
	fmt.Fprintf(out, "  Output directory: %s\n", cfg.OutputDir)
	fmt.Fprintf(out, "\nCredentials:\n")
	fmt.Fprintf(out, "  OpenAI: %s\n", present(cfg.Credentials.OpenAIAPIKey))
	fmt.Fprintf(out, "  Tavily: %s\n", present(cfg.Credentials.TavilyAPIKey))
	fmt.Fprintf(out, "  Notion: %s\n", present(cfg.Credentials.NotionAPIKey))
	fmt.Fprintf(out, "  Calendar: %s\n", present(cfg.Credentials.CalendarToken))
	return nil
}

func present(secret string) string {
	if secret == "" {
		return "missing"
	}
	return "configured"
}

func printSummary(cmd *cobra.Command, rec *models.RunRecord, written []string) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "Run Summary:\n")
	fmt.Fprintf(out, "  Topic: %s\n", rec.Topic)
	if rec.Evaluation != nil {
		fmt.Fprintf(out, "  Score: %.1f/10 (approved: %v)\n", rec.Evaluation.OverallScore, rec.Evaluation.Approved)
	}
	fmt.Fprintf(out, "  Duration: %s\n", rec.Duration().Round(time.Second))
	fmt.Fprintf(out, "  Stages:\n")
	for _, name := range []models.StageName{
		models.StageResearch, models.StageWrite, models.StageEvaluate,
		models.StageSocial, models.StageStorage, models.StageSchedule,
	} {
		fmt.Fprintf(out, "    %-10s %s\n", name, rec.StageStatus(name))
	}
	if rec.FailureReason != "" {
		fmt.Fprintf(out, "  Failure: %s\n", rec.FailureReason)
	}
	if len(written) > 0 {
		fmt.Fprintf(out, "  Artifacts:\n")
		for _, path := range written {
			fmt.Fprintf(out, "    %s\n", path)
		}
	}
}
