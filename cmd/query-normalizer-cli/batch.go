package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopsense-ai/query-normalizer/cmd/query-normalizer-cli/ui"
	"github.com/shopsense-ai/query-normalizer/internal/history"
	"github.com/shopsense-ai/query-normalizer/internal/schema"
)

// batchLine is one entry in the JSON-lines batch output.
type batchLine struct {
	Query  string                   `json:"query"`
	Error  string                   `json:"error,omitempty"`
	Result *schema.NormalizedResult `json:"result,omitempty"`
}

// newBatchCmd creates the batch subcommand.
func newBatchCmd() *cobra.Command {
	var (
		input  string
		output string
		record bool
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Normalize a file of queries",
		Long: `Batch reads queries from a file, one per line, normalizes each without
clarification answers, and writes JSON-lines results. Blank lines and
lines starting with # are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()

			queries, err := readQueries(input)
			if err != nil {
				return err
			}
			if len(queries) == 0 {
				return fmt.Errorf("no queries found in %s", input)
			}

			out := os.Stdout
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer file.Close()
				out = file
			}

			n := buildNormalizer()

			var store *history.Store
			if record {
				db, s, err := openHistory()
				if err != nil {
					return err
				}
				defer db.Close()
				if err := s.Migrate(ctx); err != nil {
					return err
				}
				store = s
			}

			var bar *ui.ProgressBar
			if output != "" || !outputJSON {
				bar = ui.NewProgressBar(int64(len(queries)), "Normalizing")
			}

			enc := json.NewEncoder(out)
			var failures int
			for _, query := range queries {
				line := batchLine{Query: query}

				result, err := n.Normalize(ctx, query, nil)
				if err != nil {
					line.Error = err.Error()
					failures++
				} else {
					line.Result = &result
					if store != nil {
						if session, err := history.NewSession(query, result); err == nil {
							if err := store.Record(ctx, session); err != nil {
								logger.Warn().Err(err).Str("query", query).Msg("Session not recorded")
							}
						}
					}
				}

				if err := enc.Encode(line); err != nil {
					return fmt.Errorf("write result: %w", err)
				}
				if bar != nil {
					bar.Add(1)
				}
			}

			if bar != nil {
				bar.Finish()
			}

			if output != "" {
				ui.Success("Normalized %d queries (%d failed), results in %s",
					len(queries), failures, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "file of queries, one per line (required)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&record, "record", false, "store each result in session history")

	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// readQueries loads non-empty, non-comment lines from a query file.
func readQueries(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open query file: %w", err)
	}
	defer file.Close()

	var queries []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		queries = append(queries, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read query file: %w", err)
	}
	return queries, nil
}
