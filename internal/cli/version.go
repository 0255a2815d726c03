package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the current version of the CLI.
const Version = "0.1.0"

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the arcrest version",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				out, _ := json.Marshal(map[string]string{"version": Version})
				fmt.Println(string(out))
				return
			}
			fmt.Println("arcrest", Version)
		},
	}
}
