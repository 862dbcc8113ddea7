package cli

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"step-bot/internal/api/mcptools"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve analysis tools over MCP (stdio)",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := buildRuntime(true, true)
		if err != nil {
			return err
		}
		defer rt.close()

		srv := mcp.NewServer(&mcp.Implementation{Name: "stepbot", Version: version}, nil)
		mcptools.New(rt.container.AnalysisService).RegisterMCP(srv)

		ctx, stop := signalContext()
		defer stop()

		rt.logger.Info("mcp server running on stdio")
		return srv.Run(ctx, &mcp.StdioTransport{})
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
