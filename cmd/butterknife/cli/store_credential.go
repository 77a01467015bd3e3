package cli

import (
	"fmt"

	"github.com/majorcontext/butterknife/internal/provider/util"
	"github.com/majorcontext/butterknife/internal/secret"
	"github.com/majorcontext/butterknife/internal/toolsurface"
	"github.com/majorcontext/butterknife/internal/ui"
	"github.com/spf13/cobra"
)

var storeCredentialFromEnv []string

var storeCredentialCmd = &cobra.Command{
	Use:   "store-credential <provider> [credential]",
	Short: "Store (or replace) a provider's credential",
	Long: `Stores credential under provider, overwriting any previously stored
credential for it. The raw value is never logged or echoed back.

The credential can be given on the command line, or sourced from the
environment with --from-env (the first of the listed variables that is
set wins):

  butterknife store-credential openai --from-env OPENAI_API_KEY`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runStoreCredential,
}

func init() {
	storeCredentialCmd.Flags().StringArrayVar(&storeCredentialFromEnv, "from-env", nil, "read the credential from the first of these environment variables that is set (repeatable)")
	rootCmd.AddCommand(storeCredentialCmd)
}

func runStoreCredential(cmd *cobra.Command, args []string) error {
	credential, err := resolveCredential(args)
	if err != nil {
		return err
	}

	params := toolsurface.StoreCredentialParams{ProviderID: args[0], Credential: credential}
	if err := params.Validate(); err != nil {
		return err
	}
	warnOnUnexpectedFormat(params.ProviderID, params.Credential)

	entry, err := broker.Vault.Store(params.ProviderID, secret.New(params.Credential))
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(entry)
	}
	fmt.Printf("%s stored credential for %s (fingerprint ...%s)\n", ui.OKTag(), entry.ProviderID, entry.Fingerprint)
	return nil
}

// resolveCredential prefers an explicit command-line argument; if one isn't
// given, it falls back to the first set variable named by --from-env.
func resolveCredential(args []string) (string, error) {
	if len(args) == 2 {
		return args[1], nil
	}
	if len(storeCredentialFromEnv) == 0 {
		return "", fmt.Errorf("credential argument or --from-env is required")
	}
	value, name := util.CheckEnvVarWithName(storeCredentialFromEnv...)
	if name == "" {
		return "", fmt.Errorf("none of %v is set in the environment", storeCredentialFromEnv)
	}
	return value, nil
}

// tokenPrefixes names the expected credential prefix for built-in providers
// whose tokens carry a recognizable one. A mismatch is a warning, not a
// rejection: custom providers and rotated key formats aren't in this list.
var tokenPrefixes = map[string]string{
	"openai":     "sk-",
	"anthropic":  "sk-ant-",
	"groq":       "gsk_",
	"fireworks":  "fw_",
	"perplexity": "pplx-",
}

func warnOnUnexpectedFormat(providerID, credential string) {
	prefix, ok := tokenPrefixes[providerID]
	if !ok {
		return
	}
	if err := util.ValidateTokenPrefix(credential, prefix, providerID+" credential"); err != nil {
		ui.Warn(err.Error())
	}
}
