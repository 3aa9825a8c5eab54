package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"zen-swap/config"
	"zen-swap/pkg/client"
	"zen-swap/pkg/history"
	"zen-swap/pkg/logger"
	"zen-swap/pkg/swap"
	"zen-swap/pkg/types"
	"zen-swap/pkg/wallet"
)

var rootCmd = &cobra.Command{
	Use:   "zen-swap",
	Short: "Quote and record token swaps on ZenChain",
	Long: `zen-swap connects to your wallet, fetches a swap quote from the
aggregator API, shows the simulated result and records confirmed swaps in a
local history file. No transaction is sent on-chain.

Examples:
  zen-swap connect
  zen-swap quote 1 ZTC to ETH
  zen-swap swap 0.5 ETH to USDT --slippage 1
  zen-swap history`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func printError(err error) {
	fmt.Printf("\nError: %v\n\n", err)
}

func printSuccess(message string) {
	fmt.Printf("\n%s\n\n", message)
}

// app bundles everything a command needs
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	store     *history.Store
	connector *wallet.Connector
	workflow  *swap.Workflow
}

func (a *app) Close() {
	a.connector.Close()
}

// consoleNotifier prints workflow notifications; quiet suppresses them for
// JSON output.
type consoleNotifier struct {
	quiet bool
}

func (n consoleNotifier) Success(message string) {
	if !n.quiet {
		color.Green("✓ %s", message)
	}
}

func (n consoleNotifier) Failure(message string) {
	if !n.quiet {
		color.Red("✗ %s", message)
	}
}

// newApp loads the configuration and wires the workflow
func newApp(cmd *cobra.Command, initial types.SwapRequest) (*app, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat, verbose)

	store, err := history.NewStore(cfg.HistoryFile, log)
	if err != nil {
		return nil, err
	}

	quotes := client.NewQuoteClient(cfg.QuoteBaseURL, cfg.QuoteTimeout, cfg.Tokens, log)
	connector := wallet.NewConnector(cfg.WalletRPCURL, cfg.Chain, nil, log)

	workflow := swap.NewWorkflow(quotes, connector, store, consoleNotifier{quiet: jsonOutput}, initial, log)

	return &app{
		cfg:       cfg,
		log:       log,
		store:     store,
		connector: connector,
		workflow:  workflow,
	}, nil
}

func knownToken(cfg *config.Config, symbol string) bool {
	for _, token := range cfg.Tokens {
		if strings.EqualFold(token.Symbol, symbol) {
			return true
		}
	}
	return false
}
