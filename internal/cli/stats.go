package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleberfarias/chatia-core/internal/metrics"
	"github.com/cleberfarias/chatia-core/internal/models"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the pending handover queue",
	Long: `Show pending handover requests ordered by priority, the way an
operator dashboard would render the escalation queue.

Example:
  chatia stats`,
	RunE: runStats,
}

var priorityMarkers = map[int]string{
	models.PriorityLow:    "🟢",
	models.PriorityMedium: "🟡",
	models.PriorityHigh:   "🟠",
	models.PriorityUrgent: "🔴",
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	pending, err := dbClient.Handovers().ListPending(ctx)
	if err != nil {
		return fmt.Errorf("list pending handovers: %w", err)
	}

	if len(pending) == 0 {
		fmt.Println("Fila de transferências vazia.")
		return nil
	}

	fmt.Printf("Fila de transferências (%d pendentes)\n", len(pending))
	fmt.Printf("═══════════════════════════════════════\n\n")

	for _, req := range pending {
		marker := priorityMarkers[req.Priority]
		age := time.Since(req.CreatedAt).Round(time.Minute)
		fmt.Printf("%s %-20s %-12s %-10s há %s\n",
			marker, req.CustomerName, req.Reason, req.Department, age)
	}

	return nil
}

// printSessionStats renders the in-memory pipeline metrics collected during
// an interactive session.
func printSessionStats(snap metrics.Snapshot) {
	fmt.Printf("\nEstatísticas da sessão (%.1fs)\n", snap.UptimeSeconds)
	fmt.Printf("═══════════════════════════════════════\n")

	printOpStats("Extração", snap.Extract)
	printOpStats("Classificação local", snap.ClassifyPattern)
	printOpStats("Classificação remota", snap.ClassifyRemote)
	printOpStats("Geração", snap.Generate)

	if snap.Handovers > 0 {
		fmt.Printf("Transferências: %d\n", snap.Handovers)
	}
}

func printOpStats(label string, op *metrics.OperationSnapshot) {
	if op == nil {
		return
	}
	fmt.Printf("%-22s %4d ops  avg %.1fms  min %dms  max %dms\n",
		label, op.Count, op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
}
