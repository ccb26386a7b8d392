package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cleberfarias/chatia-core/internal/entities"
)

var extractJSON bool

var extractCmd = &cobra.Command{
	Use:   "extract <text>",
	Short: "Extract structured entities from a message",
	Long: `Extract Brazilian-format entities (CPF, phone, CEP, email, URL, date,
time, money, quantity, product) from a message.

Examples:
  chatia extract "meu cpf é 529.982.247-25 e meu email joao@empresa.com"
  chatia extract "quero 2 unidades do produto X por R$ 1.500,00" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "output as JSON")
}

func runExtract(cmd *cobra.Command, args []string) error {
	found := entities.Extract(args[0], nil)

	if extractJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(found)
	}

	if len(found) == 0 {
		fmt.Println("No entities found.")
		return nil
	}

	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Printf("Found %d entities:\n\n", len(found))
	for _, name := range names {
		entity := found[name]
		status := "✓"
		if !entity.Valid {
			status = "✗"
		}
		fmt.Printf("  %s %-10s %s", status, entity.Type, entity.Value)
		if entity.Normalized != "" && entity.Normalized != entity.Value {
			fmt.Printf("  → %s", entity.Normalized)
		}
		fmt.Println()
	}

	return nil
}
