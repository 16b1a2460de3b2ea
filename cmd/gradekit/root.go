package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gradekit",
		Short: "Gradekit - grade student assignments with language models",
		Long: `Gradekit grades student solutions against an ideal solution and
grading instructions, using local or hosted language models.

It provides a grading REST server, one-shot and batch grading from the
command line, and model catalog tools.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newGradeCommand())
	cmd.AddCommand(newBatchCommand())
	cmd.AddCommand(newModelsCommand())
	cmd.AddCommand(newSetupCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
