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

	"zen-swap/pkg/types"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the connected wallet account and chain",
	Long: `Show the wallet account that is already authorized, without prompting,
and the chain the wallet is currently on.

Examples:
  zen-swap status
  zen-swap status --json`,
	Args: cobra.NoArgs,
	Run:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

type walletStatus struct {
	Connected     bool   `json:"connected"`
	Account       string `json:"account,omitempty"`
	WalletChainID string `json:"wallet_chain_id,omitempty"`
	ChainID       string `json:"chain_id"`
	ChainName     string `json:"chain"`
	HistoryFile   string `json:"history_file"`
	Swaps         int    `json:"swaps"`
	Error         string `json:"error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd, types.SwapRequest{})
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Checking wallet..."
		s.Start()
	}

	ctx := context.Background()
	status := walletStatus{
		ChainID:     a.cfg.Chain.ChainID,
		ChainName:   a.cfg.Chain.ChainName,
		HistoryFile: a.store.FilePath(),
		Swaps:       a.store.Count(),
	}

	account, ok, err := a.workflow.CheckConnection(ctx)
	if err != nil {
		status.Error = err.Error()
	} else if ok {
		status.Connected = true
		status.Account = account.Hex()
		if id, err := a.connector.ChainID(ctx); err == nil {
			status.WalletChainID = fmt.Sprintf("0x%X", id)
		}
	}

	if !jsonOutput {
		s.Stop()
	}

	if jsonOutput {
		jsonData, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayStatus(status)
}

func displayStatus(status walletStatus) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("                        WALLET STATUS")
	fmt.Println(strings.Repeat("=", 70))

	switch {
	case status.Error != "":
		fmt.Printf("\n  Wallet:          %s\n", color.RedString("UNAVAILABLE"))
		fmt.Printf("  Reason:          %s\n", color.HiBlackString(status.Error))
	case status.Connected:
		fmt.Printf("\n  Wallet:          %s\n", color.GreenString("CONNECTED"))
		fmt.Printf("  Account:         %s\n", color.CyanString(status.Account))
	default:
		fmt.Printf("\n  Wallet:          %s\n", color.YellowString("NOT CONNECTED"))
	}

	fmt.Printf("  Target Chain:    %s (%s)\n", status.ChainName, status.ChainID)
	if status.WalletChainID != "" {
		chain := status.WalletChainID
		if !strings.EqualFold(chain, status.ChainID) {
			chain = color.YellowString(chain + " (switch network in your wallet)")
		}
		fmt.Printf("  Wallet Chain:    %s\n", chain)
	}
	fmt.Printf("  History:         %d swaps in %s\n", status.Swaps, status.HistoryFile)

	if !status.Connected {
		fmt.Println("\nConnect your wallet with:")
		color.Cyan("  zen-swap connect\n")
	}

	fmt.Println("\n" + strings.Repeat("=", 70) + "\n")
}
