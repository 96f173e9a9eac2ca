package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/sdi-client/internal/app"
	"github.com/samvad-hq/sdi-client/internal/config"
	"github.com/samvad-hq/sdi-client/internal/logger"
	"github.com/samvad-hq/sdi-client/pkg/sdi"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "sdictl",
	Short: "Query and submit documents on the SDI interchange service",
	Long: "sdictl calls the SDI interchange API with the credential from the\n" +
		"environment (SDI_ENDPOINT, SDI_USERNAME, SDI_API_TOKEN) or flags.\n" +
		"Records are printed as JSON; files are written raw.",
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

// flagBindings maps config keys to the persistent flags overriding them.
var flagBindings = map[string]string{
	"sdi_endpoint":                "endpoint",
	"sdi_username":                "username",
	"sdi_api_token":               "token",
	"sdi_timeout_seconds":         "timeout",
	"sdi_connect_timeout_seconds": "connect-timeout",
	"sdi_insecure_skip_verify":    "insecure",
	"log_level":                   "log-level",
}

// newClient builds the SDI client for a command invocation.
var newClient = func(cmd *cobra.Command) (*sdi.Client, error) {
	cfg, err := config.LoadWithFlags(cmd.Flags(), flagBindings)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log, err := logger.InitWriter(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return app.NewSDIClient(cfg, log)
}

func init() {
	f := rootCmd.PersistentFlags()
	f.String("endpoint", "", "API base URL without trailing slash (env SDI_ENDPOINT)")
	f.String("username", "", "account username (env SDI_USERNAME)")
	f.String("token", "", "API token (env SDI_API_TOKEN)")
	f.Int64("timeout", 0, "total request timeout in seconds (env SDI_TIMEOUT_SECONDS)")
	f.Int64("connect-timeout", 0, "connect timeout in seconds (env SDI_CONNECT_TIMEOUT_SECONDS)")
	f.Bool("insecure", false, "skip TLS certificate verification (env SDI_INSECURE_SKIP_VERIFY)")
	f.String("log-level", "", "log level written to stderr (env LOG_LEVEL)")

	rootCmd.AddCommand(sentCmd)
	rootCmd.AddCommand(receivedCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
