package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleberfarias/chatia-core/internal/models"
)

var (
	personasUserID string

	createEmoji        string
	createInstructions string
	createSpecialties  []string
)

var personasCmd = &cobra.Command{
	Use:   "personas",
	Short: "Manage AI personas",
	Long: `List the available AI personas, or manage custom ones for a user.
Custom personas are private to their owner and shadow builtins with the
same name.`,
	RunE: runPersonasList,
}

var personasCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a custom persona",
	Long: `Create a custom persona owned by --user.

Example:
  chatia personas create "Chef Mario" --emoji 👨‍🍳 \
    --instructions "Você é um chef italiano apaixonado por massas." \
    --specialties "Culinária italiana,Receitas,Harmonização"`,
	Args: cobra.ExactArgs(1),
	RunE: runPersonasCreate,
}

var personasDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a custom persona",
	Args:  cobra.ExactArgs(1),
	RunE:  runPersonasDelete,
}

func init() {
	personasCmd.PersistentFlags().StringVarP(&personasUserID, "user", "u", "cli", "user id")

	personasCreateCmd.Flags().StringVar(&createEmoji, "emoji", "🤖", "persona emoji")
	personasCreateCmd.Flags().StringVar(&createInstructions, "instructions", "", "system instructions (required)")
	personasCreateCmd.Flags().StringSliceVar(&createSpecialties, "specialties", nil, "specialty list")

	personasCmd.AddCommand(personasCreateCmd)
	personasCmd.AddCommand(personasDeleteCmd)
}

func runPersonasList(cmd *cobra.Command, args []string) error {
	registry, err := newRegistry()
	if err != nil {
		return err
	}
	fmt.Println(registry.ListAll(context.Background(), personasUserID))
	return nil
}

func runPersonasCreate(cmd *cobra.Command, args []string) error {
	if strings.TrimSpace(createInstructions) == "" {
		return fmt.Errorf("--instructions is required")
	}

	registry, err := newRegistry()
	if err != nil {
		return err
	}

	p, err := registry.CreateCustom(context.Background(), models.PersonaRecord{
		UserID:       personasUserID,
		Name:         args[0],
		Emoji:        createEmoji,
		Instructions: createInstructions,
		Specialties:  createSpecialties,
	})
	if err != nil {
		return fmt.Errorf("create persona: %w", err)
	}

	fmt.Printf("✅ Persona %s criada! Mencione com @%s\n", p.DisplayName(), p.Key())
	return nil
}

func runPersonasDelete(cmd *cobra.Command, args []string) error {
	registry, err := newRegistry()
	if err != nil {
		return err
	}

	deleted, err := registry.DeleteCustom(context.Background(), personasUserID, args[0])
	if err != nil {
		return fmt.Errorf("delete persona: %w", err)
	}
	if !deleted {
		fmt.Printf("Persona %q não encontrada entre as personalizadas de %s.\n", args[0], personasUserID)
		return nil
	}

	fmt.Printf("🗑️ Persona %q removida.\n", args[0])
	return nil
}
