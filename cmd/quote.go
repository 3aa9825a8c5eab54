package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zen-swap/pkg/parser"
	"zen-swap/pkg/swap"
	"zen-swap/pkg/types"
)

var quoteSlippage string

var quoteCmd = &cobra.Command{
	Use:   "quote <amount> <source-token> to <dest-token>",
	Short: "Simulate a swap without recording it",
	Long: `Fetch a quote and show the simulated swap: price impact, minimum
received after slippage, gas cost and route.

Examples:
  zen-swap quote 1 ZTC to ETH
  zen-swap quote 250 USDT to BTC --slippage 1.5`,
	Args: cobra.MinimumNArgs(1),
	Run:  runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().StringVarP(&quoteSlippage, "slippage", "s", "", "Slippage tolerance in percent (default from config)")
}

func runQuote(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, req, err := prepareSwap(cmd, args, quoteSlippage)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	result, err := simulate(a.workflow, jsonOutput)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printSimulationJSON(result, "quote_generated", nil)
		return
	}

	displaySimulation(result, req)
}

// prepareSwap parses the swap command and builds an app around it
func prepareSwap(cmd *cobra.Command, args []string, slippage string) (*app, *types.SwapRequest, error) {
	req, err := parser.ParseSwapCommand(strings.Join(args, " "))
	if err != nil {
		return nil, nil, err
	}

	a, err := newApp(cmd, *req)
	if err != nil {
		return nil, nil, err
	}

	if slippage == "" {
		slippage = a.cfg.DefaultSlippage.String()
	}
	if err := a.workflow.SetSlippage(slippage); err != nil {
		a.Close()
		return nil, nil, err
	}

	for _, symbol := range []string{req.FromToken, req.ToToken} {
		if !knownToken(a.cfg, symbol) {
			a.log.WithField("token", symbol).Warn("Token is not in the token list, forwarding symbol as-is")
		}
	}

	state := a.workflow.State()
	return a, &state.Request, nil
}

func simulate(workflow *swap.Workflow, jsonOutput bool) (*types.SimulationResult, error) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Fetching quote..."
		s.Start()
	}

	result, err := workflow.Simulate(context.Background())
	if !jsonOutput {
		s.Stop()
	}
	return result, err
}

func displaySimulation(result *types.SimulationResult, req *types.SwapRequest) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	color.Green("                   SIMULATED SWAP")
	fmt.Println(strings.Repeat("=", 60))

	fmt.Printf("\n  From:              %s %s\n", req.Amount, color.YellowString(req.FromToken))
	fmt.Printf("  To:                %s\n", color.YellowString(req.ToToken))
	fmt.Printf("  Price Impact:      %s\n", result.PriceImpactDisplay())
	fmt.Printf("  Min Received:      %s %s\n", color.CyanString(result.MinReceivedDisplay()), req.ToToken)
	fmt.Printf("  Slippage:          %s%%\n", req.Slippage.String())
	fmt.Printf("  Gas Cost:          %s\n", result.GasCostDisplay())
	fmt.Printf("  Route:             %s\n", result.Route)

	fmt.Println("\n" + strings.Repeat("=", 60) + "\n")
}

func printSimulationJSON(result *types.SimulationResult, status string, record *types.TransactionRecord) {
	output := map[string]interface{}{
		"from_token":    result.Request.FromToken,
		"to_token":      result.Request.ToToken,
		"amount":        result.Request.Amount,
		"slippage":      result.Request.Slippage.String(),
		"price_impact":  result.PriceImpactDisplay(),
		"min_received":  result.MinReceived.String(),
		"gas_cost_gwei": result.GasCost.String(),
		"route":         result.Route,
		"status":        status,
	}
	if record != nil {
		output["record"] = record
	}
	jsonData, _ := json.MarshalIndent(output, "", "  ")
	fmt.Println(string(jsonData))
}
