package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

var chatSession string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to Ane in the terminal",
	Long:  `Opens an interactive conversation with Ane. Press Ctrl+C or Ctrl+D to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, err := newLogger(cfg, true)
		if err != nil {
			return err
		}
		defer logger.Sync()

		a, err := buildAssistant(cfg, logger.Logger)
		if err != nil {
			return err
		}
		defer a.close()

		sessionID := chatSession
		if sessionID == "" {
			sessionID = uuid.NewString()
		}

		fmt.Println("Converse com a Ane. Ctrl+C para sair.")
		fmt.Println()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		prompt := promptui.Prompt{Label: "Você"}
		for {
			line, err := prompt.Run()
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			if strings.TrimSpace(line) == "" {
				continue
			}

			reply := a.controller.ProcessMessage(ctx, sessionID, line)
			fmt.Printf("\nAne: %s\n", reply.Text)
			if reply.SideEffects.PDF != nil {
				fmt.Printf("     (PDF disponível em %s no servidor HTTP)\n", reply.SideEffects.PDF.URL)
			}
			fmt.Println()
		}
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSession, "session", "", "resume a session id (default: a new one)")
	rootCmd.AddCommand(chatCmd)
}
