package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/shopsense-ai/query-normalizer/cmd/query-normalizer-cli/ui"
	"github.com/shopsense-ai/query-normalizer/internal/schema"
)

// newCheckCmd creates the check subcommand.
func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate an externally produced normalization payload",
		Long: `Check reads a normalization payload, extracts the first JSON object from
any surrounding text, and verifies it carries every required field with a
structurally sound price range. Reads from stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(os.Stdin)
			}
			if err != nil {
				return fmt.Errorf("read payload: %w", err)
			}

			payload, err := schema.ValidateEnvelope(string(raw))
			if err != nil {
				if outputJSON {
					fmt.Printf("{\"valid\": false, \"error\": %q}\n", err.Error())
					return nil
				}
				return fmt.Errorf("payload rejected: %w", err)
			}

			if outputJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(map[string]interface{}{
					"valid":   true,
					"payload": payload,
				})
			}

			ui.Success("Payload carries all required fields")
			return nil
		},
	}

	return cmd
}
