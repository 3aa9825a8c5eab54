package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zen-swap/config"
	"zen-swap/pkg/types"
)

var filterSymbol string

var tokensCmd = &cobra.Command{
	Use:     "tokens",
	Aliases: []string{"list-tokens", "ls"},
	Short:   "List selectable tokens",
	Long: `List the tokens you can swap between and the address sent to the
quote service for each. Addresses can be overridden with tokens.<SYMBOL>
in the config file.

Examples:
  zen-swap tokens
  zen-swap tokens --symbol USD`,
	Run: runListTokens,
}

func init() {
	rootCmd.AddCommand(tokensCmd)

	tokensCmd.Flags().StringVar(&filterSymbol, "symbol", "", "Filter by token symbol")
}

func runListTokens(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	filtered := cfg.Tokens
	if filterSymbol != "" {
		var temp []types.TokenInfo
		for _, token := range filtered {
			if strings.Contains(strings.ToUpper(token.Symbol), strings.ToUpper(filterSymbol)) {
				temp = append(temp, token)
			}
		}
		filtered = temp
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(filtered, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayTokens(filtered)
}

func displayTokens(tokens []types.TokenInfo) {
	if len(tokens) == 0 {
		fmt.Println("\nNo tokens found matching the criteria.")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        SUPPORTED TOKENS")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Println()

	for _, token := range tokens {
		address := token.Address
		if address == "" {
			address = "(native, sent by symbol)"
		}
		fmt.Printf("  %-10s  %s\n",
			color.YellowString(token.Symbol),
			color.HiBlackString(address))
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Printf("\nTotal: %d tokens\n\n", len(tokens))
}
