package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	serveradapter "github.com/farran/tavla/internal/adapters/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API, MCP endpoint, and metrics over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd)
		if err != nil {
			return err
		}
		defer rt.close()

		bind, _ := cmd.Flags().GetString("bind")
		if bind == "" {
			bind = rt.cfg.Server.Bind
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		serveCfg := serveradapter.Config{
			HTTPBind:        bind,
			APIEndpoint:     rt.cfg.Server.APIEndpoint,
			MCPEndpoint:     rt.cfg.Server.MCPEndpoint,
			MetricsEndpoint: rt.cfg.Server.MetricsEndpoint,
			ServerName:      "tavla",
			ServerVersion:   version,
		}
		rt.logger.Info("server starting",
			"bind", serveCfg.HTTPBind,
			"api", serveCfg.APIEndpoint,
			"mcp", serveCfg.MCPEndpoint,
			"metrics", serveCfg.MetricsEndpoint)
		if err := serveradapter.Run(ctx, serveCfg, serveradapter.Dependencies{Boards: rt.svc}); err != nil {
			rt.logger.Error("server stopped with error", "err", err)
			return err
		}
		rt.logger.Info("server stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("bind", "", "listen address (overrides config)")
}
