package cli

import (
	"fmt"

	"github.com/majorcontext/butterknife/internal/toolsurface"
	"github.com/majorcontext/butterknife/internal/ui"
	"github.com/spf13/cobra"
)

var walletCmd = &cobra.Command{
	Use:   "wallet",
	Short: "Inspect or manage the budget",
	Args:  cobra.NoArgs,
	RunE:  runWalletState,
}

var walletSetBudgetCmd = &cobra.Command{
	Use:   "set-budget <microdollars>",
	Short: "Set the total budget",
	Args:  cobra.ExactArgs(1),
	RunE:  runWalletSetBudget,
}

var walletResetSpendCmd = &cobra.Command{
	Use:   "reset-spend",
	Short: "Reset spend and per-provider totals to zero",
	Args:  cobra.NoArgs,
	RunE:  runWalletResetSpend,
}

func init() {
	walletCmd.AddCommand(walletSetBudgetCmd)
	walletCmd.AddCommand(walletResetSpendCmd)
	rootCmd.AddCommand(walletCmd)
}

func runWalletState(cmd *cobra.Command, args []string) error {
	params := toolsurface.WalletParams{Action: toolsurface.WalletActionState}
	if err := params.Validate(); err != nil {
		return err
	}
	state := broker.Wallet.State()
	if jsonOut {
		return printJSON(state)
	}
	fmt.Printf("total_budget=%d spent=%d remaining=%d\n", state.TotalBudget, state.Spent, state.TotalBudget-state.Spent)
	for provider, cost := range state.ByProvider {
		fmt.Printf("  %s: %d\n", provider, cost)
	}
	return nil
}

func runWalletSetBudget(cmd *cobra.Command, args []string) error {
	var microdollars int64
	if _, err := fmt.Sscanf(args[0], "%d", &microdollars); err != nil {
		return fmt.Errorf("parsing %q as an integer: %w", args[0], err)
	}
	params := toolsurface.WalletParams{Action: toolsurface.WalletActionSetBudget, Budget: microdollars}
	if err := params.Validate(); err != nil {
		return err
	}
	if err := broker.Wallet.SetBudget(params.Budget); err != nil {
		return err
	}
	fmt.Printf("%s budget set to %d\n", ui.OKTag(), params.Budget)
	return nil
}

func runWalletResetSpend(cmd *cobra.Command, args []string) error {
	params := toolsurface.WalletParams{Action: toolsurface.WalletActionResetSpend}
	if err := params.Validate(); err != nil {
		return err
	}
	if err := broker.Wallet.ResetSpend(); err != nil {
		return err
	}
	fmt.Printf("%s spend reset\n", ui.OKTag())
	return nil
}
