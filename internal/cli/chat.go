package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleberfarias/chatia-core/internal/models"
	"github.com/cleberfarias/chatia-core/internal/orchestrator"
)

var (
	chatUserID   string
	chatUserName string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive conversation session",
	Long: `Start an interactive session against the orchestration pipeline.
Each line is handled as a customer message; mention a persona with @name to
talk to it directly. Exit with "sair" or Ctrl+D.

Example:
  chatia chat --name "João"`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVarP(&chatUserID, "user", "u", "cli", "user id")
	chatCmd.Flags().StringVar(&chatUserName, "name", "Você", "user display name")
}

func runChat(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	ctx := context.Background()
	fmt.Println("chatia: digite uma mensagem, \"sair\" encerra a sessão.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "sair" || line == "exit" {
			break
		}

		out, err := svc.HandleMessage(ctx, orchestrator.InboundMessage{
			UserID:   chatUserID,
			UserName: chatUserName,
			Text:     line,
			Speaker:  models.SpeakerCustomer,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "erro: %v\n", err)
			continue
		}
		printOutcome(out)
		fmt.Println()
	}

	printSessionStats(svc.Metrics().Snapshot())
	return scanner.Err()
}
