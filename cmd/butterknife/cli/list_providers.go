package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listProvidersCmd = &cobra.Command{
	Use:   "list-providers",
	Short: "List every registered provider",
	Long: `Lists all providers known to the broker, including ones without a
stored credential yet (§9: list_providers is not filtered by credential
presence — use store-credential to fill the gap).`,
	Args: cobra.NoArgs,
	RunE: runListProviders,
}

func init() {
	rootCmd.AddCommand(listProvidersCmd)
}

func runListProviders(cmd *cobra.Command, args []string) error {
	providers := broker.Registry.List()

	if jsonOut {
		return printJSON(providers)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tAUTH\tCOST_PER_UNIT\tCOST_UNIT\tCREDENTIAL")
	for _, p := range providers {
		credential := "no"
		if broker.Vault.Has(p.ID) {
			credential = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%s\n", p.ID, p.Name, p.AuthMethod, p.CostPerUnit, p.CostUnit, credential)
	}
	return w.Flush()
}
