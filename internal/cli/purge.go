package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/triage/internal/control"
	"github.com/vietddude/triage/internal/infra/storage/postgres"
)

var olderThan time.Duration

var purgeCmd = &cobra.Command{
	Use:     "purge",
	Short:   "Delete incidents older than a given age",
	Example: `  triage purge --older-than 720h`,
	Run:     runPurge,
}

func init() {
	purgeCmd.Flags().DurationVar(&olderThan, "older-than", 0, "delete incidents created before now minus this duration")
	_ = purgeCmd.MarkFlagRequired("older-than")
	rootCmd.AddCommand(purgeCmd)
}

func runPurge(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	if olderThan <= 0 {
		slog.Error("--older-than must be positive")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	db, err := control.OpenDB(ctx, cfg)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	cutoff := time.Now().Add(-olderThan)
	n, err := postgres.NewIncidentRepo(db).DeleteOlderThan(ctx, cutoff)
	if err != nil {
		slog.Error("Purge failed", "error", err)
		os.Exit(1)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d incidents created before %s\n", n, cutoff.Format(time.RFC3339))
}
