package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felipe-codebit/prototipo-zap/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ane",
	Short: "Ane, a conversational assistant for teachers",
	Long: `Ane talks with teachers in Portuguese, collects what she needs through
conversation and writes lesson plans and weekly schedules. She also answers
pedagogical questions, speaks and listens, and exports plans as PDF.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
