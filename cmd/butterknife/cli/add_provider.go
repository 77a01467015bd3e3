package cli

import (
	"fmt"

	"github.com/majorcontext/butterknife/internal/provider"
	"github.com/majorcontext/butterknife/internal/toolsurface"
	"github.com/majorcontext/butterknife/internal/ui"
	"github.com/spf13/cobra"
)

var (
	addProviderName        string
	addProviderBaseURL     string
	addProviderAuthMethod  string
	addProviderAuthField   string
	addProviderAuthPrefix  string
	addProviderCostPerUnit int64
	addProviderCostUnit    string
)

var addProviderCmd = &cobra.Command{
	Use:   "add-provider <id>",
	Short: "Register a custom provider",
	Long: `Registers (or replaces) a provider descriptor. Re-registering an
existing id keeps its position in list-providers but replaces its
descriptor wholesale.

Example:
  butterknife add-provider acme --base-url https://api.acme.example/v1 \
      --auth-method header --auth-field Authorization --auth-prefix "Bearer " \
      --cost-per-unit 2000 --cost-unit per_1k_tokens`,
	Args: cobra.ExactArgs(1),
	RunE: runAddProvider,
}

func init() {
	addProviderCmd.Flags().StringVar(&addProviderName, "name", "", "human-readable name")
	addProviderCmd.Flags().StringVar(&addProviderBaseURL, "base-url", "", "API base URL")
	addProviderCmd.Flags().StringVar(&addProviderAuthMethod, "auth-method", "header", "one of header, query, body")
	addProviderCmd.Flags().StringVar(&addProviderAuthField, "auth-field", "", "header name, query parameter, or body field for the credential")
	addProviderCmd.Flags().StringVar(&addProviderAuthPrefix, "auth-prefix", "", "prefix prepended to the credential (e.g. \"Bearer \")")
	addProviderCmd.Flags().Int64Var(&addProviderCostPerUnit, "cost-per-unit", 0, "cost in microdollars per cost-unit")
	addProviderCmd.Flags().StringVar(&addProviderCostUnit, "cost-unit", "per_request", "one of per_request, per_1k_tokens, per_1k_chars")
	rootCmd.AddCommand(addProviderCmd)
}

func runAddProvider(cmd *cobra.Command, args []string) error {
	params := toolsurface.AddProviderParams{
		ID:          args[0],
		Name:        addProviderName,
		BaseURL:     addProviderBaseURL,
		AuthMethod:  provider.AuthMethod(addProviderAuthMethod),
		AuthField:   addProviderAuthField,
		AuthPrefix:  addProviderAuthPrefix,
		CostPerUnit: addProviderCostPerUnit,
		CostUnit:    provider.CostUnit(addProviderCostUnit),
	}
	if err := params.Validate(); err != nil {
		return err
	}

	broker.Registry.Add(params.ToConfig())

	if jsonOut {
		return printJSON(params.ToConfig())
	}
	fmt.Printf("%s registered provider %s\n", ui.OKTag(), params.ID)
	return nil
}
