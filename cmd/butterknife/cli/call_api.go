package cli

import (
	"fmt"

	"github.com/majorcontext/butterknife/internal/pipeline"
	"github.com/majorcontext/butterknife/internal/toolsurface"
	"github.com/majorcontext/butterknife/internal/ui"
	"github.com/spf13/cobra"
)

var (
	callAPIMethod  string
	callAPIPath    string
	callAPIBody    string
	callAPIHeaders []string
	callAPIQuery   []string
)

var callAPICmd = &cobra.Command{
	Use:   "call-api <provider>",
	Short: "Call a provider's API through the broker",
	Long: `Resolves the named provider, checks the budget, injects the stored
credential, dispatches the request, and mints a receipt for it.

Examples:
  butterknife call-api openai --method POST --path /chat/completions \
      --body '{"model":"gpt-4o-mini","messages":[]}'`,
	Args: cobra.ExactArgs(1),
	RunE: runCallAPI,
}

func init() {
	callAPICmd.Flags().StringVar(&callAPIMethod, "method", "GET", "HTTP method")
	callAPICmd.Flags().StringVar(&callAPIPath, "path", "/", "request path, relative to the provider's base URL")
	callAPICmd.Flags().StringVar(&callAPIBody, "body", "", "request body as a JSON string")
	callAPICmd.Flags().StringArrayVar(&callAPIHeaders, "header", nil, "extra header as key=value (repeatable)")
	callAPICmd.Flags().StringArrayVar(&callAPIQuery, "query", nil, "extra query parameter as key=value (repeatable)")
	rootCmd.AddCommand(callAPICmd)
}

func runCallAPI(cmd *cobra.Command, args []string) error {
	headers, err := parseKeyValues(callAPIHeaders)
	if err != nil {
		return err
	}
	query, err := parseKeyValues(callAPIQuery)
	if err != nil {
		return err
	}
	body, err := parseBody(callAPIBody)
	if err != nil {
		return err
	}

	params := toolsurface.CallAPIParams{
		ProviderID:  args[0],
		Method:      callAPIMethod,
		Path:        callAPIPath,
		Headers:     headers,
		QueryParams: query,
		Body:        body,
	}
	if err := params.Validate(); err != nil {
		return err
	}

	resp, berr := broker.Pipeline.Call(cmd.Context(), pipeline.Request{
		ProviderID:  params.ProviderID,
		Method:      params.Method,
		Path:        params.Path,
		Headers:     params.Headers,
		QueryParams: params.QueryParams,
		Body:        params.Body,
	})
	if berr != nil {
		return berr
	}

	if jsonOut {
		return printJSON(resp)
	}

	fmt.Printf("%s status=%d cost=%d remaining_budget=%d receipt=%s\n",
		ui.OKTag(), resp.Status, resp.Cost, resp.RemainingBudget, resp.Receipt.ReceiptID)
	fmt.Printf("%+v\n", resp.Data)
	return nil
}
