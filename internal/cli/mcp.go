package cli

import (
	"github.com/spf13/cobra"

	"github.com/arishali16742/SOW/internal/infra/mcp"
)

func newMCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the auditor as an MCP server over stdio",
		Long: `Start a Model Context Protocol server on stdin/stdout so an assistant can run
scans, ask questions and read insights. Logs go to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := loadApp(ctx, true)
			if err != nil {
				return err
			}
			defer app.Close()

			server := mcp.NewServer(mcp.Config{
				Services: mcp.Services{
					Checks:     app.Checks,
					Scans:      app.Scans,
					Advisor:    app.AI,
					Insights:   app.Insights,
					Reconciler: app.Reconciler,
				},
				Version: version,
				Logger:  app.Logger.With("component", "mcp"),
			})
			app.Logger.Info("mcp server listening on stdio", "version", version)
			return mcp.RunStdio(ctx, server)
		},
	}
}
