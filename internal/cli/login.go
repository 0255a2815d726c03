package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Obtain a token from the deployment's token service",
		Long: `Login exchanges the configured username and password for a token and
stores it in the configuration file. Later commands reuse the stored
token while it is valid and fall back to the credential on expiry.

Example:
  arcrest login --passwd=mypassword
  arcrest login  # uses password from config file or ARCREST_PASSWORD`,
		RunE: runLogin,
	}

	cmd.Flags().String("passwd", "", "Password for authentication")
	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}
	if cfg.Username == "" {
		return fmt.Errorf("no username configured. Set username in the config file or ARCREST_USERNAME")
	}

	passwd, _ := cmd.Flags().GetString("passwd")
	if passwd != "" {
		cfg.Password = passwd
	}
	if cfg.Password == "" {
		return fmt.Errorf("no password provided. Use --passwd or set password in the config file")
	}

	gw, err := newGateway()
	if err != nil {
		return err
	}
	defer gw.Close()

	token, err := gw.CurrentToken(cmd.Context())
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cfg.CurrentToken = token.Value
	cfg.TokenExpiry = token.Expires

	configPath := configFile
	if configPath == "" {
		configPath, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}
	if err := cfg.WriteConfig(configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	expiry := time.UnixMilli(token.Expires).UTC()
	if jsonOutput {
		out, _ := json.Marshal(map[string]any{
			"status":  "success",
			"expires": expiry.Format(time.RFC3339),
		})
		fmt.Println(string(out))
		return nil
	}

	okLabel.Print("Login successful. ")
	fmt.Printf("Token expires at %s\n", expiry.Format(time.RFC3339))
	return nil
}
