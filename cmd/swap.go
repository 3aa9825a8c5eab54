package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	swapSlippage string
	noConfirm    bool
)

var swapCmd = &cobra.Command{
	Use:   "swap <amount> <source-token> to <dest-token>",
	Short: "Simulate a swap and record it after confirmation",
	Long: `Fetch a quote, show the simulated swap and, once confirmed, record it
in the local history. The wallet must be connected (see zen-swap connect).

IMPORTANT:
  - No transaction is submitted on-chain; confirming only records the swap.
  - With --json there is no prompt; the swap is recorded only with --yes.

Examples:
  zen-swap swap 1 ZTC to ETH
  zen-swap swap 0.5 ETH to USDT --slippage 1
  zen-swap swap 100 USDC to POL --yes`,
	Args: cobra.MinimumNArgs(1),
	Run:  runSwap,
}

func init() {
	rootCmd.AddCommand(swapCmd)

	swapCmd.Flags().StringVarP(&swapSlippage, "slippage", "s", "", "Slippage tolerance in percent (default from config)")
	swapCmd.Flags().BoolVarP(&noConfirm, "yes", "y", false, "Skip confirmation prompt")
}

func runSwap(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")
	ctx := context.Background()

	a, req, err := prepareSwap(cmd, args, swapSlippage)
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	// Pick up an already authorized account
	if _, ok, err := a.workflow.CheckConnection(ctx); err != nil || !ok {
		if _, err := a.workflow.ConnectWallet(ctx); err != nil {
			printError(err)
			os.Exit(1)
		}
	}

	result, err := simulate(a.workflow, jsonOutput)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if !jsonOutput {
		displaySimulation(result, req)
	}

	a.workflow.RequestConfirmation()

	// Ask for confirmation
	if !shouldConfirm(noConfirm, jsonOutput, confirmSwap) {
		a.workflow.Cancel()
		if jsonOutput {
			printSimulationJSON(result, "quote_generated", nil)
			return
		}
		fmt.Println("\nSwap cancelled.")
		return
	}

	if a.workflow.SimulationStale() && !jsonOutput {
		color.Yellow("Inputs changed since the quote was fetched; recording the current inputs.")
	}

	record, err := a.workflow.Confirm(ctx)
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		printSimulationJSON(result, "recorded", record)
		return
	}

	fmt.Printf("  Recorded:          %s %s -> %s at %s\n",
		record.Amount, record.From, record.To, color.HiBlackString(record.Date))
	printSuccess(fmt.Sprintf("Swap saved to %s", a.store.FilePath()))
}

// shouldConfirm reports whether the swap may be recorded. --yes skips the
// prompt; JSON output never prompts, so it records only with --yes.
func shouldConfirm(noConfirm, jsonOutput bool, prompt func() bool) bool {
	if noConfirm {
		return true
	}
	if jsonOutput {
		return false
	}
	return prompt()
}

func confirmSwap() bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Print("\nProceed with swap? (y/N): ")

	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes"
}
