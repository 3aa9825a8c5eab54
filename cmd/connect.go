package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zen-swap/pkg/types"
)

var connectCmd = &cobra.Command{
	Use:   "connect",
	Short: "Connect your wallet and add ZenChain to it",
	Long: `Request account access from the wallet and ask it to add the
configured chain (ZenChain Testnet by default).

The wallet is reached over JSON-RPC at wallet_rpc_url.

Examples:
  zen-swap connect
  ZEN_SWAP_WALLET_RPC_URL=http://127.0.0.1:1248 zen-swap connect`,
	Args: cobra.NoArgs,
	Run:  runConnect,
}

func init() {
	rootCmd.AddCommand(connectCmd)
}

func runConnect(cmd *cobra.Command, args []string) {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	a, err := newApp(cmd, types.SwapRequest{})
	if err != nil {
		printError(err)
		os.Exit(1)
	}
	defer a.Close()

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	if !jsonOutput {
		s.Suffix = " Waiting for wallet approval..."
		s.Start()
	}

	account, err := a.workflow.ConnectWallet(context.Background())
	if !jsonOutput {
		s.Stop()
	}

	if err != nil {
		printError(err)
		os.Exit(1)
	}

	if jsonOutput {
		output := map[string]interface{}{
			"account":  account.Hex(),
			"chain_id": a.cfg.Chain.ChainID,
			"chain":    a.cfg.Chain.ChainName,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	fmt.Printf("\n  Account: %s\n", color.CyanString(account.Hex()))
	fmt.Printf("  Chain:   %s (%s)\n", a.cfg.Chain.ChainName, a.cfg.Chain.ChainID)
	printSuccess("Wallet is ready.")
}
