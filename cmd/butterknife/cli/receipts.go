package cli

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/majorcontext/butterknife/internal/ledger"
	"github.com/majorcontext/butterknife/internal/toolsurface"
	"github.com/majorcontext/butterknife/internal/ui"
	"github.com/spf13/cobra"
)

var receiptsChainCmd = &cobra.Command{
	Use:   "receipts",
	Short: "Show the full receipt chain",
	Args:  cobra.NoArgs,
	RunE:  runReceiptsChain,
}

var receiptsRecentCmd = &cobra.Command{
	Use:   "recent <n>",
	Short: "Show the n most recent receipts",
	Args:  cobra.ExactArgs(1),
	RunE:  runReceiptsRecent,
}

var receiptsVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the receipt chain's hash links",
	Args:  cobra.NoArgs,
	RunE:  runReceiptsVerify,
}

var receiptsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Summarize total spend and per-provider cost",
	Args:  cobra.NoArgs,
	RunE:  runReceiptsSummary,
}

func init() {
	receiptsChainCmd.AddCommand(receiptsRecentCmd)
	receiptsChainCmd.AddCommand(receiptsVerifyCmd)
	receiptsChainCmd.AddCommand(receiptsSummaryCmd)
	rootCmd.AddCommand(receiptsChainCmd)
}

func runReceiptsChain(cmd *cobra.Command, args []string) error {
	params := toolsurface.ReceiptsParams{Action: toolsurface.ReceiptsActionChain}
	if err := params.Validate(); err != nil {
		return err
	}
	return printReceipts(broker.Ledger.Chain())
}

func runReceiptsRecent(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("parsing %q as an integer: %w", args[0], err)
	}
	params := toolsurface.ReceiptsParams{Action: toolsurface.ReceiptsActionRecent, N: n}
	if err := params.Validate(); err != nil {
		return err
	}
	return printReceipts(broker.Ledger.Recent(n))
}

func runReceiptsVerify(cmd *cobra.Command, args []string) error {
	params := toolsurface.ReceiptsParams{Action: toolsurface.ReceiptsActionVerify}
	if err := params.Validate(); err != nil {
		return err
	}
	result := broker.Ledger.Verify()
	if jsonOut {
		return printJSON(result)
	}
	if result.Valid {
		fmt.Printf("%s chain valid\n", ui.OKTag())
		return nil
	}
	fmt.Printf("%s chain broken at receipt %d: %s\n", ui.FailTag(), result.BrokenAt, result.Reason)
	return nil
}

func runReceiptsSummary(cmd *cobra.Command, args []string) error {
	params := toolsurface.ReceiptsParams{Action: toolsurface.ReceiptsActionSummary}
	if err := params.Validate(); err != nil {
		return err
	}
	summary := broker.Ledger.Summary()
	if jsonOut {
		return printJSON(summary)
	}
	fmt.Printf("total_receipts=%d total_cost=%d chain_valid=%v\n", summary.TotalReceipts, summary.TotalCost, summary.ChainValid)
	for provider, s := range summary.ByProvider {
		fmt.Printf("  %s: count=%d cost=%d\n", provider, s.Count, s.Cost)
	}
	return nil
}

func printReceipts(receipts []ledger.Receipt) error {
	if jsonOut {
		return printJSON(receipts)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RECEIPT_ID\tPROVIDER\tCOST\tTIMESTAMP")
	for _, r := range receipts {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", r.ReceiptID, r.ProviderID, r.Cost, r.Timestamp)
	}
	return w.Flush()
}
