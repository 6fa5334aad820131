package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/amara/inkflow/internal/config"
	"github.com/amara/inkflow/internal/history"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past pipeline runs",
		Long: `Show archived pipeline runs, newest first.

Examples:
  inkflow history
  inkflow history --limit 50
  inkflow history --topic "Remote work productivity"`,
		RunE: historyCommand,
	}

	cmd.Flags().String("config", "", "Path to config file (default: .inkflow/config.yaml)")
	cmd.Flags().Int("limit", 20, "Maximum number of runs to show")
	cmd.Flags().String("topic", "", "Show only runs for this topic")

	return cmd
}

func historyCommand(cmd *cobra.Command, _ []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(".")
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	store, err := history.NewStore(cfg.HistoryDBPath)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer store.Close()

	topic, _ := cmd.Flags().GetString("topic")
	limit, _ := cmd.Flags().GetInt("limit")

	var runs []*history.Run
	if topic != "" {
		runs, err = store.TopicRuns(cmd.Context(), topic)
	} else {
		runs, err = store.RecentRuns(cmd.Context(), limit)
	}
	if err != nil {
		return fmt.Errorf("reading history: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		status := "aborted"
		switch {
		case run.Approved:
			status = "approved"
		case run.OverallScore > 0:
			status = "best-effort"
		}
		fmt.Fprintf(out, "%s  %-12s %.1f/10  %s\n",
			run.StartedAt.Format(time.DateTime), status, run.OverallScore, run.Topic)
		if run.FailureReason != "" {
			fmt.Fprintf(out, "%21s %s\n", "", run.FailureReason)
		}
	}
	return nil
}
