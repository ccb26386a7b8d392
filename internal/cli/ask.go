package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleberfarias/chatia-core/internal/models"
	"github.com/cleberfarias/chatia-core/internal/orchestrator"
)

var (
	askUserID   string
	askUserName string
	askContact  string
	askSpeaker  string
	askRemote   bool
)

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Run one message through the orchestration pipeline",
	Long: `Run a single message through the full pipeline: entity extraction,
intent classification, handover evaluation and persona reply. Address a
persona directly with an @mention, or let the classifier route the message.

Examples:
  chatia ask "quero agendar uma reunião amanhã às 14h"
  chatia ask "@guru como funciona defer em Go?"
  chatia ask "verificar pedido 123" --speaker operator`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askUserID, "user", "u", "cli", "user id")
	askCmd.Flags().StringVar(&askUserName, "name", "Você", "user display name")
	askCmd.Flags().StringVar(&askContact, "contact", "", "contact id for conversation context")
	askCmd.Flags().StringVar(&askSpeaker, "speaker", "customer", "speaker role (customer|operator)")
	askCmd.Flags().BoolVar(&askRemote, "remote", false, "prefer the LLM classification strategy")
}

func runAsk(cmd *cobra.Command, args []string) error {
	svc, err := newService()
	if err != nil {
		return err
	}

	out, err := svc.HandleMessage(context.Background(), orchestrator.InboundMessage{
		UserID:       askUserID,
		UserName:     askUserName,
		ContactID:    askContact,
		Text:         args[0],
		Speaker:      models.Speaker(askSpeaker),
		PreferRemote: askRemote,
	})
	if err != nil {
		return err
	}

	printOutcome(out)
	return nil
}

func printOutcome(out orchestrator.Outcome) {
	switch out.Kind {
	case orchestrator.OutcomeHandover:
		fmt.Println(out.Handover.CustomerNotice)
		fmt.Println()
		fmt.Println(out.Handover.OperatorNotice)
	case orchestrator.OutcomeSuggestion:
		fmt.Printf("Sugestão (%s): %s\n", out.Intent.Name, out.Suggestion)
	default:
		if out.Persona != "" && verbose {
			fmt.Printf("[%s]\n", out.Persona)
		}
		fmt.Println(out.Reply)
	}
}
