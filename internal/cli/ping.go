package cli

import (
	"encoding/json"
	"fmt"
	"time"

	retry "github.com/avast/retry-go/v4"
	"github.com/spf13/cobra"

	"github.com/geoplatform/arcrest/pkg/arcgis"
)

// newPingCmd creates and returns a new ping command
func newPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ping [endpoint]",
		Short: "Check connectivity and credentials against the deployment",
		Long: `Ping issues a GET against the given endpoint (the deployment root by
default) and reports whether the server answered. The gateway itself
never retries; ping retries a few times with backoff on its own.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runPing,
	}
	return cmd
}

func runPing(cmd *cobra.Command, args []string) error {
	gw, err := newGateway()
	if err != nil {
		return err
	}
	defer gw.Close()

	endpoint := ""
	if len(args) > 0 {
		endpoint = args[0]
	}

	start := time.Now()
	err = retry.Do(func() error {
		_, err := gw.Ping(cmd.Context(), arcgis.NewEndpoint(endpoint))
		return err
	},
		retry.Attempts(3),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(cmd.Context()),
	)
	if err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	elapsed := time.Since(start).Round(time.Millisecond)
	if jsonOutput {
		out, _ := json.Marshal(map[string]any{
			"status":     "success",
			"elapsed_ms": elapsed.Milliseconds(),
		})
		fmt.Println(string(out))
		return nil
	}

	okLabel.Print("OK. ")
	fmt.Printf("Server answered in %s\n", elapsed)
	return nil
}
