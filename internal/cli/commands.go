package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/geoplatform/arcrest/pkg/arcgis"
)

var (
	// Global flags
	jsonOutput bool
	configFile string
	insecure   bool
)

var ErrAlreadyHandled = errors.New("already handled")

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "arcrest [command] [flags]",
	Short: "arcrest - a command line client for ArcGIS Server REST deployments",
	Long: `arcrest is a command line client for ArcGIS Server REST deployments.
It validates connectivity and credentials, obtains and caches tokens, and
enumerates the services published by a deployment.

Examples:
  # Check connectivity against the configured deployment
  arcrest ping

  # Obtain a token and store it in the config file
  arcrest login --passwd=mypassword

  # Walk the folder hierarchy and list all published services
  arcrest discover`,
	PersistentPreRunE: preRunLoadConfig,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&insecure, "insecure", "k", false, "Skip TLS certificate validation")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newPingCmd())
	rootCmd.AddCommand(newDiscoverCmd())
}

func preRunLoadConfig(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}
	return LoadConfig(configFile)
}

// newGateway builds a gateway from the loaded configuration.
func newGateway(extra ...arcgis.Option) (*arcgis.Gateway, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, fmt.Errorf("no configuration loaded")
	}

	var opts []arcgis.Option
	if cfg.Username != "" {
		opts = append(opts, arcgis.WithCredential(cfg.Credential()))
	}
	// reuse the token persisted by login while it is still valid
	if tok := cfg.Token(); tok.Value != "" && !tok.IsExpired() {
		opts = append(opts, arcgis.WithToken(tok))
	}
	if insecure {
		opts = append(opts, arcgis.WithInsecureSkipVerify())
	}
	opts = append(opts, extra...)
	return arcgis.New(cfg.RootURL, opts...)
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	err := rootCmd.Execute()
	if err != nil {
		if errors.Is(err, ErrAlreadyHandled) {
			os.Exit(1)
		}
		errorLabel.Fprintln(os.Stderr, "Error:", err.Error())
		os.Exit(1)
	}
}
