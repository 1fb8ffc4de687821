package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriAgent/internal/core"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the agent topology as a Mermaid diagram",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), core.AgentGraph().Mermaid())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
