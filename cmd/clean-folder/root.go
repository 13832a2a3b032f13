package main

import (
	"github.com/spf13/cobra"

	"cleanfolder/internal/report"
	"cleanfolder/internal/workflow"
)

func newRootCommand() *cobra.Command {
	var (
		configFlag    string
		logLevelFlag  string
		logFormatFlag string
		dryRun        bool
		noJournal     bool
	)

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)

	rootCmd := &cobra.Command{
		Use:   "clean-folder <root>",
		Short: "Sort a directory into category folders",
		Long: "clean-folder walks <root>, moves files into Images, Video, Documents, Audio,\n" +
			"Archives, and Unknown folders under normalized names, unpacks archives,\n" +
			"removes emptied subfolders, and prints a report.\n\n" +
			"A root named like a subcommand (config, history) must be given as a path,\n" +
			"for example: clean-folder ./history",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if noJournal {
				cfg.Journal.Enabled = false
			}
			logger, err := ctx.newLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			runner := workflow.NewRunner(cfg, logger)
			summary, runErr := runner.Run(cmd.Context(), args[0], workflow.RunOptions{DryRun: dryRun})
			if summary == nil || summary.Result == nil {
				return runErr
			}

			out := cmd.OutOrStdout()
			if err := report.Render(out, report.Summary{
				RunID:  summary.RunID,
				Root:   summary.Root,
				Result: summary.Result,
				Pruned: len(summary.Pruned.Removed),
			}, report.OptionsFor(out)); err != nil {
				return err
			}
			return runErr
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Log format override (console, json)")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would be moved without changing anything")
	rootCmd.Flags().BoolVar(&noJournal, "no-journal", false, "Do not record this run in the history journal")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
