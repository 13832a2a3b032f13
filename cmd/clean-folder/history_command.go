package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cleanfolder/internal/journal"
)

const shortIDLength = 8

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded cleanup runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(ctx, func(store *journal.Store) error {
				runs, err := store.ListRuns(cmd.Context(), limit)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(runs) == 0 {
					fmt.Fprintln(out, "No runs recorded")
					return nil
				}
				rows := make([][]string, 0, len(runs))
				for _, run := range runs {
					rows = append(rows, []string{
						shortID(run.ID),
						formatStarted(run.StartedAt),
						runStatusLabel(run),
						strconv.Itoa(run.Moved),
						strconv.Itoa(run.Failed),
						humanize.IBytes(uint64(run.Bytes)),
						run.Root,
					})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"Run", "Started", "Status", "Moved", "Failed", "Size", "Root"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of runs to show (0 for all)")
	cmd.AddCommand(newHistoryShowCommand(ctx))
	return cmd
}

func newHistoryShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show the operations of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withJournal(ctx, func(store *journal.Store) error {
				run, err := store.GetRun(cmd.Context(), args[0])
				if err != nil {
					if errors.Is(err, journal.ErrRunNotFound) || errors.Is(err, journal.ErrAmbiguousRun) {
						return err
					}
					return fmt.Errorf("load run: %w", err)
				}
				ops, err := store.Operations(cmd.Context(), run.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run:      %s\n", run.ID)
				fmt.Fprintf(out, "Root:     %s\n", run.Root)
				fmt.Fprintf(out, "Started:  %s\n", formatStarted(run.StartedAt))
				fmt.Fprintf(out, "Status:   %s\n", runStatusLabel(*run))
				if d := run.Duration(); d > 0 {
					fmt.Fprintf(out, "Duration: %s\n", d.Round(time.Millisecond))
				}
				fmt.Fprintf(out, "Moved:    %d (%s), failed: %d, pruned: %d\n",
					run.Moved, humanize.IBytes(uint64(run.Bytes)), run.Failed, run.Pruned)
				if run.Error != "" {
					fmt.Fprintf(out, "Error:    %s\n", run.Error)
				}
				if len(ops) == 0 {
					return nil
				}

				rows := make([][]string, 0, len(ops))
				for _, op := range ops {
					detail := op.Dest
					if op.Status == journal.OperationFailed {
						detail = op.ErrorMessage
					}
					rows = append(rows, []string{
						strconv.Itoa(op.Seq),
						string(op.Status),
						op.Action,
						op.Source,
						detail,
					})
				}
				fmt.Fprintln(out)
				fmt.Fprintln(out, renderTable(out,
					[]string{"#", "Status", "Action", "Source", "Destination / Error"},
					rows,
					[]columnAlignment{alignRight},
				))
				return nil
			})
		},
	}
}

func withJournal(ctx *commandContext, fn func(*journal.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := journal.Open(cfg)
	if err != nil {
		return fmt.Errorf("open run journal: %w", err)
	}
	defer store.Close()
	return fn(store)
}

func shortID(id string) string {
	if len(id) <= shortIDLength {
		return id
	}
	return id[:shortIDLength]
}

func formatStarted(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s (%s)", t.Local().Format("2006-01-02 15:04:05"), humanize.Time(t))
}

func runStatusLabel(run journal.Run) string {
	label := string(run.Status)
	if run.DryRun {
		label += " (dry run)"
	}
	return label
}
