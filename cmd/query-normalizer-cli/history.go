package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/shopsense-ai/query-normalizer/cmd/query-normalizer-cli/ui"
)

// newHistoryCmd creates the history subcommand with list, show, and purge.
func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse and manage stored normalization sessions",
	}

	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistoryPurgeCmd())

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent sessions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			db, store, err := openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			sessions, err := store.Recent(ctx, limit)
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(sessions)
			}

			if len(sessions) == 0 {
				ui.Info("No sessions recorded yet")
				return nil
			}

			for _, s := range sessions {
				status := "valid"
				if !s.IsValid {
					status = "invalid"
				}
				fmt.Printf("%s  %-10s %-8s conf=%.0f%%  %s\n",
					s.CreatedAt.Format("2006-01-02 15:04:05"),
					s.ProductType, status, s.Confidence*100, s.Query)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum sessions to list")

	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show one session's full normalization result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid session id: %w", err)
			}

			db, store, err := openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			session, err := store.GetByID(ctx, id)
			if err != nil {
				return err
			}

			result, err := session.DecodeResult()
			if err != nil {
				return fmt.Errorf("decode stored result: %w", err)
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"id":         session.ID.String(),
					"query":      session.Query,
					"created_at": session.CreatedAt.Format(time.RFC3339),
					"result":     result,
				})
			}

			ui.KeyValue("Session", session.ID.String())
			ui.KeyValue("Recorded", session.CreatedAt.Format(time.RFC3339))
			printResult(session.Query, result)
			return nil
		},
	}
}

func newHistoryPurgeCmd() *cobra.Command {
	var (
		retentionDays int
		dryRun        bool
	)

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete sessions older than the retention period",
		Long: `Purge deletes stored sessions that exceed the retention period
(default 30 days). Use --dry-run to preview how many would be removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()

			if retentionDays <= 0 {
				retentionDays = 30
			}
			cutoff := time.Now().AddDate(0, 0, -retentionDays)

			db, store, err := openHistory()
			if err != nil {
				return err
			}
			defer db.Close()

			if err := store.Migrate(ctx); err != nil {
				return err
			}

			if dryRun {
				count, err := store.CountOlderThan(ctx, cutoff)
				if err != nil {
					return err
				}
				fmt.Printf("DRY RUN: would delete %d sessions older than %s\n",
					count, cutoff.Format(time.RFC3339))
				return nil
			}

			deleted, err := store.PurgeOlderThan(ctx, cutoff)
			if err != nil {
				return fmt.Errorf("purge failed: %w", err)
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"retention_days": retentionDays,
					"cutoff":         cutoff.Format(time.RFC3339),
					"deleted":        deleted,
				})
			}

			ui.Success("Purged %d sessions older than %s", deleted, cutoff.Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().IntVar(&retentionDays, "retention-days", 30, "retention period in days")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "preview deletions without executing")

	return cmd
}
