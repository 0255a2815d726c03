package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoplatform/arcrest/pkg/arcgis"
)

// newDiscoverCmd creates and returns a new discover command
func newDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "List every service published by the deployment",
		Long: `Discover walks the deployment's folder hierarchy and lists every
published service together with the highest server version reported.
Folders the credential cannot access are skipped.`,
		RunE: runDiscover,
	}

	cmd.Flags().Int("max-depth", 0, "Maximum folder depth to walk (0 = default)")
	return cmd
}

func runDiscover(cmd *cobra.Command, args []string) error {
	var opts []arcgis.Option
	if maxDepth, _ := cmd.Flags().GetInt("max-depth"); maxDepth > 0 {
		opts = append(opts, arcgis.WithMaxDiscoveryDepth(maxDepth))
	}

	gw, err := newGateway(opts...)
	if err != nil {
		return err
	}
	defer gw.Close()

	desc, err := gw.DescribeSite(cmd.Context())
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	if jsonOutput {
		resources := make([]string, len(desc.Resources))
		for i, ep := range desc.Resources {
			resources[i] = ep.RelativeURL()
		}
		out, _ := json.Marshal(map[string]any{
			"version":   desc.Version,
			"resources": resources,
		})
		fmt.Println(string(out))
		return nil
	}

	if desc.Version != "" {
		fmt.Printf("Server version: %s\n", desc.Version)
	}
	fmt.Printf("Services (%d):\n", len(desc.Resources))
	for _, ep := range desc.Resources {
		fmt.Printf("  %s\n", ep.RelativeURL())
	}
	return nil
}
