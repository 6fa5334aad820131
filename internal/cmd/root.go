// Package cmd contains the inkflow CLI commands.
package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for inkflow
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inkflow",
		Short: "Agent-driven content pipeline",
		Long: `Inkflow turns a topic into published-ready content.

It researches the topic, drafts long-form content in the creator's voice,
scores each draft against an approval threshold with bounded rewrite
rounds, repurposes the winner for TikTok, LinkedIn and Instagram, saves
everything to Notion and schedules posting reminders on Google Calendar.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewRunCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
