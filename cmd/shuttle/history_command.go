package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"shuttle/internal/requestlog"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var failuresOnly bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent translation requests from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			store, err := requestlog.OpenReadOnly(cfg.Paths.JournalPath)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					fmt.Fprintln(out, "No journal yet; run a translation first")
					return nil
				}
				return fmt.Errorf("open journal: %w", err)
			}
			defer store.Close()

			var records []requestlog.Record
			if failuresOnly {
				records, err = store.RecentFailures(cmd.Context(), limit)
			} else {
				records, err = store.Recent(cmd.Context(), limit)
			}
			if err != nil {
				return fmt.Errorf("read journal: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(out, "No journal entries")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				status := rec.Status
				if status == "" {
					status = "pending"
				}
				duration := ""
				if rec.Duration > 0 {
					duration = rec.Duration.Round(time.Millisecond).String()
				}
				rows = append(rows, []string{
					rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					rec.Model,
					fmt.Sprintf("%d/%d", rec.ChunkIndex+1, rec.ChunkTotal),
					strconv.Itoa(rec.Attempt),
					strconv.Itoa(rec.SegmentCount),
					status,
					duration,
					rec.Detail,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Created", "Model", "Chunk", "Attempt", "Segments", "Status", "Duration", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show")
	cmd.Flags().BoolVar(&failuresOnly, "failures", false, "Show only failed requests")

	return cmd
}
