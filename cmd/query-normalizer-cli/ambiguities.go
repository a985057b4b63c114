package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shopsense-ai/query-normalizer/cmd/query-normalizer-cli/ui"
)

// newAmbiguitiesCmd creates the ambiguities subcommand.
func newAmbiguitiesCmd() *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "ambiguities <query>",
		Short: "Show the clarification questions a query would trigger",
		Long: `Ambiguities parses a query and lists every clarification question it
would raise, without running validation. Use --summary for a full digest
of the parse alongside the questions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := args[0]
			n := buildNormalizer()

			if summary && !outputJSON {
				fmt.Print(n.Summary(query))
				return nil
			}

			requests := n.Ambiguities(query)

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"query":       query,
					"ambiguous":   len(requests) > 0,
					"ambiguities": requests,
				})
			}

			if len(requests) == 0 {
				ui.Success("Query is unambiguous")
				return nil
			}

			ui.Info("%d clarification(s) needed:", len(requests))
			ui.Newline()
			for i, req := range requests {
				ui.Question("%d. [%s] %s", i+1, req.FieldName, req.Question)
				if req.CurrentValue != "" {
					fmt.Printf("     current: %s\n", req.CurrentValue)
				}
				if len(req.Options) > 0 {
					fmt.Printf("     options: %s\n", strings.Join(req.Options, ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&summary, "summary", false, "print a full parse digest")

	return cmd
}
