package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ashokkumar81090/Hackathon/internal/version"
)

func newMCPCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve search and ask as MCP tools over stdio",
		Long: `Starts a Model Context Protocol server on stdin/stdout exposing the
search_incidents and ask_incidents tools. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := c.openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return a.MCPServer().Serve(cmd.Context())
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "incidentctl %s\n", version.String())
		},
	}
}
