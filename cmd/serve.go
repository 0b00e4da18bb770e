package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/felipe-codebit/prototipo-zap/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio, exposing Ane's conversation as tools.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// zap writes to stderr, stdout stays reserved for the protocol.
		logger, err := newLogger(cfg, false)
		if err != nil {
			return err
		}
		defer logger.Sync()

		a, err := buildAssistant(cfg, logger.Logger)
		if err != nil {
			return err
		}
		defer a.close()

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "ane MCP server started on stdio (provider=%s, model=%s)\n", cfg.Provider, cfg.Model)

		return mcpserver.NewServer(a.controller).Serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
