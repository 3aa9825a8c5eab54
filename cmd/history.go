package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zen-swap/config"
	"zen-swap/pkg/history"
	"zen-swap/pkg/logger"
	"zen-swap/pkg/types"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded swaps",
	Long: `List the swaps recorded in the local history file, oldest first.

Examples:
  zen-swap history
  zen-swap history --limit 10
  zen-swap history --json`,
	Args: cobra.NoArgs,
	Run:  runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "Show only the most recent N swaps")
}

func runHistory(cmd *cobra.Command, args []string) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	cfg, err := config.Load()
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	store, err := history.NewStore(cfg.HistoryFile, logger.New(cfg.LogLevel, cfg.LogFormat, verbose))
	if err != nil {
		printError(err)
		os.Exit(1)
	}

	records := store.Records()
	if historyLimit > 0 && len(records) > historyLimit {
		records = records[len(records)-historyLimit:]
	}

	if jsonOutput {
		output := map[string]interface{}{
			"transactions": records,
		}
		jsonData, _ := json.MarshalIndent(output, "", "  ")
		fmt.Println(string(jsonData))
		return
	}

	displayHistory(records, store.FilePath())
}

func displayHistory(records []types.TransactionRecord, path string) {
	if len(records) == 0 {
		color.Yellow("No swaps recorded yet.\n")
		fmt.Println("\nRecord one with:")
		color.Cyan("  zen-swap swap <amount> <token> to <token>\n")
		return
	}

	fmt.Println("\n" + strings.Repeat("=", 80))
	color.Green("                                SWAP HISTORY")
	fmt.Println(strings.Repeat("=", 80))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nDATE\tFROM\tTO\tAMOUNT")
	fmt.Fprintln(w, strings.Repeat("-", 80))

	for _, r := range records {
		date := r.Date
		if t, err := r.Time(); err == nil {
			date = t.Local().Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", date, r.From, r.To, r.Amount)
	}

	w.Flush()
	fmt.Println("\n" + strings.Repeat("=", 80))
	fmt.Printf("\nTotal: %d swaps (%s)\n\n", len(records), path)
}
