package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/shopsense-ai/query-normalizer/cmd/query-normalizer-cli/ui"
	"github.com/shopsense-ai/query-normalizer/internal/validate"
)

// newDemoCmd creates the demo subcommand.
func newDemoCmd() *cobra.Command {
	var interactive bool

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Walk through normalization scenarios",
		Long: `Run scripted scenarios showing how queries are parsed, clarified, and
validated. Use --interactive to type your own queries afterwards.

Example:
  query-normalizer-cli demo
  query-normalizer-cli demo --interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "I", false, "enter an interactive query loop after the scenarios")

	return cmd
}

func runDemo(interactive bool) error {
	ctx := context.Background()
	n := buildNormalizer()

	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════════════════╗")
	fmt.Println("║     🔎 Product Query Normalizer Demo                             ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════╝")

	// Scenario 1: a query that parses well but still needs feature input.
	ui.Section("Scenario 1: Clarifying a vague query")
	query := "Best headphones around 4k for gym"
	fmt.Printf("User query: %q\n\n", query)

	result, err := n.Normalize(ctx, query, nil)
	if err != nil {
		return err
	}
	printResult(query, result)

	ambiguities := n.Ambiguities(query)
	if len(ambiguities) > 0 {
		ui.Newline()
		ui.Info("%d clarification(s) needed:", len(ambiguities))
		for i, amb := range ambiguities {
			ui.Question("%d. %s", i+1, amb.Question)
			if len(amb.Options) > 0 && len(amb.Options) <= 5 {
				fmt.Printf("     options: %s\n", strings.Join(amb.Options, ", "))
			}
		}
	}

	ui.Newline()
	fmt.Println("User answers: feature_preferences = noise-cancelling, waterproof")
	result, err = n.Normalize(ctx, query, map[string]string{
		"feature_preferences": "noise-cancelling, waterproof",
	})
	if err != nil {
		return err
	}
	printResult(query, result)

	// Scenario 2: an incomplete query and the questions it raises.
	ui.Section("Scenario 2: Incomplete query")
	query = "gaming laptop"
	fmt.Printf("User query: %q\n\n", query)

	result, err = n.Normalize(ctx, query, nil)
	if err != nil {
		return err
	}
	printResult(query, result)

	ambiguities = n.Ambiguities(query)
	ui.Newline()
	ui.Info("Clarifications needed (%d):", len(ambiguities))
	for _, amb := range ambiguities {
		ui.Question("%s", amb.Question)
	}

	// Scenario 3: budget sanity against the product category.
	ui.Section("Scenario 3: Budget validation")
	query = "laptop under 2000"
	fmt.Printf("User query: %q\n\n", query)

	result, err = n.Normalize(ctx, query, nil)
	if err != nil {
		return err
	}
	printResult(query, result)
	ui.Newline()
	ui.Info("%s", validate.New().BudgetRecommendation(result.ParsedQuery.ProductType))

	// Scenario 4: a fully specified query sails straight through.
	ui.Section("Scenario 4: Complete query")
	query = "Wireless noise cancelling headphones under 5000 rupees for gym with good bass"
	fmt.Printf("User query: %q\n\n", query)

	result, err = n.Normalize(ctx, query, nil)
	if err != nil {
		return err
	}
	printResult(query, result)

	if !interactive {
		return nil
	}

	ui.Section("Interactive Mode")
	fmt.Println("Type product queries to normalize them.")
	fmt.Println("Type 'quit' or 'exit' to leave.")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("❓ Your query: ")
		if !scanner.Scan() {
			break
		}

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		if query == "quit" || query == "exit" {
			fmt.Println("\n👋 Done.")
			break
		}

		start := time.Now()
		result, err := n.Normalize(ctx, query, nil)
		if err != nil {
			ui.Error("%v", err)
			continue
		}

		printResult(query, result)
		fmt.Printf("\n(normalized in %v)\n\n", time.Since(start).Round(time.Millisecond))
	}

	return scanner.Err()
}
