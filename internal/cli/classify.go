package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleberfarias/chatia-core/internal/models"
	"github.com/cleberfarias/chatia-core/internal/nlu"
)

var (
	classifySpeaker string
	classifyRemote  bool
)

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Classify the intent of a message",
	Long: `Classify the intent of a message against the keyword catalogue, or via
the configured LLM provider with --remote. Remote failures fall back to the
local catalogue transparently.

Examples:
  chatia classify "quero comprar o plano anual"
  chatia classify "verificar pedido do cliente" --speaker operator
  chatia classify "o app trava quando abro o relatório" --remote`,
	Args: cobra.ExactArgs(1),
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().StringVar(&classifySpeaker, "speaker", "customer", "speaker role (customer|operator)")
	classifyCmd.Flags().BoolVar(&classifyRemote, "remote", false, "prefer the LLM classification strategy")
}

func runClassify(cmd *cobra.Command, args []string) error {
	speaker := models.Speaker(classifySpeaker)
	if speaker != models.SpeakerCustomer && speaker != models.SpeakerOperator {
		return fmt.Errorf("invalid speaker %q, use customer or operator", classifySpeaker)
	}

	intent := newClassifier().Classify(context.Background(), args[0], speaker, classifyRemote)

	fmt.Printf("Intent:     %s\n", intent.Name)
	fmt.Printf("Confidence: %.2f\n", intent.Confidence)
	fmt.Printf("Method:     %s\n", intent.Method)
	if len(intent.MatchedSignals) > 0 {
		fmt.Printf("Signals:    %s\n", strings.Join(intent.MatchedSignals, ", "))
	}
	if intent.SuggestedPersona != "" {
		fmt.Printf("Persona:    %s\n", intent.SuggestedPersona)
	}
	if intent.SuggestedAction != "" {
		fmt.Printf("Action:     %s\n", intent.SuggestedAction)
	}
	if speaker == models.SpeakerOperator {
		if tpl := nlu.SuggestTemplate(intent); tpl != "" {
			fmt.Printf("Template:   %s\n", tpl)
		}
	}

	return nil
}
