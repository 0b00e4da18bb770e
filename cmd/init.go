package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felipe-codebit/prototipo-zap/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks for the LLM provider, quality, port and archive, and writes the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
