package main

import (
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

// newNormalizeCmd creates the normalize subcommand.
func newNormalizeCmd() *cobra.Command {
	var (
		answers []string
		record  bool
	)

	cmd := &cobra.Command{
		Use:   "normalize <query>",
		Short: "Normalize a free-text product query",
		Long: `Normalize parses a query, detects ambiguities, applies any clarification
answers, and validates the result.

Answers target ambiguous fields and are ignored for fields that were already
clear. Repeat --answer for each field:

  query-normalizer-cli normalize "best headphones" \
    --answer price_range=5000 --answer usage_context=gym`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			query := args[0]
			responses, err := parseAnswers(answers)
			if err != nil {
				return err
			}

			n := buildNormalizer()

			var spin *ui.Spinner
			if !outputJSON {
				spin = ui.NewSpinner("Normalizing query...")
				spin.Start()
			}

			result, err := n.Normalize(ctx, query, responses)

			if spin != nil {
				spin.Stop()
			}
			if err != nil {
				return fmt.Errorf("normalize failed: %w", err)
			}

			if record {
				if err := recordSession(ctx, query, result); err != nil {
					ui.Warning("Session not recorded: %v", err)
				}
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			printResult(query, result)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&answers, "answer", "a", nil, "clarification answer as field=value (repeatable)")
	cmd.Flags().BoolVar(&record, "record", false, "store the result in session history")

	return cmd
}

// parseAnswers converts field=value pairs into a response map.
func parseAnswers(answers []string) (map[string]string, error) {
	if len(answers) == 0 {
		return nil, nil
	}

	responses := make(map[string]string, len(answers))
	for _, a := range answers {
		field, value, ok := strings.Cut(a, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid answer %q, expected field=value", a)
		}
		responses[strings.TrimSpace(field)] = strings.TrimSpace(value)
	}
	return responses, nil
}

// recordSession persists a normalization result in the history store.
func recordSession(ctx context.Context, query string, result schema.NormalizedResult) error {
	db, store, err := openHistory()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := store.Migrate(ctx); err != nil {
		return err
	}

	session, err := history.NewSession(query, result)
	if err != nil {
		return err
	}
	return store.Record(ctx, session)
}

// printResult renders a normalization result for humans.
func printResult(query string, result schema.NormalizedResult) {
	ui.Section("Normalized Query")
	ui.KeyValue("Query", query)
	ui.KeyValue("Product", result.ParsedQuery.ProductType)

	if result.ParsedQuery.PriceRange != nil {
		ui.KeyValue("Price", result.ParsedQuery.PriceRange.String())
	} else {
		ui.KeyValue("Price", "not specified")
	}

	if len(result.ParsedQuery.UsageContext) > 0 {
		contexts := make([]string, len(result.ParsedQuery.UsageContext))
		for i, c := range result.ParsedQuery.UsageContext {
			contexts[i] = string(c)
		}
		ui.KeyValue("Contexts", strings.Join(contexts, ", "))
	} else {
		ui.KeyValue("Contexts", "not specified")
	}

	if len(result.ParsedQuery.FeaturePreferences) > 0 {
		ui.KeyValue("Features", strings.Join(result.ParsedQuery.FeaturePreferences, ", "))
	} else {
		ui.KeyValue("Features", "not specified")
	}

	ui.KeyValue("Confidence", fmt.Sprintf("%.0f%%", result.ParsedQuery.ConfidenceScore*100))
	ui.Newline()

	if result.IsValid {
		ui.Success("Query is valid")
	} else {
		for _, msg := range result.ValidationErrors {
			ui.Error("%s", msg)
		}
	}

	for _, msg := range result.ValidationWarnings {
		ui.Warning("%s", msg)
	}

	if len(result.ClarificationsMade) > 0 {
		ui.Newline()
		ui.Info("Clarifications applied:")
		for _, req := range result.ClarificationsMade {
			fmt.Printf("    %s: %s\n", req.FieldLabel, req.Question)
		}
	}

	if !result.ParsedQuery.IsComplete {
		ui.Newline()
		ui.Info("Query is incomplete (missing: %s); run the ambiguities command for questions",
			strings.Join(result.ParsedQuery.MissingFields, ", "))
	}
}
