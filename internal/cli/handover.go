package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cleberfarias/chatia-core/internal/entities"
	"github.com/cleberfarias/chatia-core/internal/handover"
	"github.com/cleberfarias/chatia-core/internal/models"
)

var handoverTurns int

var handoverCheckCmd = &cobra.Command{
	Use:   "handover-check <text>",
	Short: "Evaluate the handover rules against a message",
	Long: `Classify a message, extract its entities and report whether the
escalation rules would transfer the conversation to a human, with the
priority and department the transfer would get.

Examples:
  chatia handover-check "quero falar com atendente"
  chatia handover-check "não sei o que fazer" --turns 12`,
	Args: cobra.ExactArgs(1),
	RunE: runHandoverCheck,
}

func init() {
	handoverCheckCmd.Flags().IntVar(&handoverTurns, "turns", 1, "messages already exchanged in the conversation")
}

func runHandoverCheck(cmd *cobra.Command, args []string) error {
	text := args[0]

	found := entities.Extract(text, nil)
	intent := newClassifier().Classify(context.Background(), text, models.SpeakerCustomer, false)

	fmt.Printf("Intent:     %s (%.2f)\n", intent.Name, intent.Confidence)

	should, reason := handover.ShouldHandover(intent.Name, intent.Confidence, found, handoverTurns)
	if !should {
		fmt.Println("Handover:   no")
		return nil
	}

	priority := handover.Priority(reason, found)
	fmt.Println("Handover:   yes")
	fmt.Printf("Reason:     %s\n", reason)
	fmt.Printf("Priority:   %d\n", priority)
	fmt.Printf("Department: %s\n", handover.SuggestDepartment(intent.Name, reason, found))
	fmt.Printf("Customer:   %s\n", handover.CustomerMessage(reason))

	return nil
}
