package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vietddude/triage/internal/client"
	"github.com/vietddude/triage/internal/control"
	"github.com/vietddude/triage/internal/core/domain"
	"github.com/vietddude/triage/internal/infra/storage/postgres"
	"github.com/vietddude/triage/internal/ingest"
)

var (
	listLimit    int
	listSeverity string
)

var incidentsCmd = &cobra.Command{
	Use:   "incidents",
	Short: "List stored incidents, newest first",
	Run:   runIncidents,
}

func init() {
	incidentsCmd.Flags().IntVar(&listLimit, "limit", ingest.DefaultLimit, "maximum number of incidents")
	incidentsCmd.Flags().StringVar(&listSeverity, "severity", "", "only show this severity (critical, high, medium, low)")
	incidentsCmd.Flags().StringVar(&serverURL, "server", "", "read from a running triage server instead of the database")
	rootCmd.AddCommand(incidentsCmd)
}

func runIncidents(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sev := domain.Severity(listSeverity)
	if sev != "" && !sev.Valid() {
		slog.Error("Unknown severity", "severity", listSeverity)
		os.Exit(1)
	}

	var incidents []domain.Incident
	if serverURL != "" {
		var err error
		incidents, err = client.New(serverURL, 10*time.Second).Incidents(ctx, listLimit, sev)
		if err != nil {
			slog.Error("Failed to list incidents", "error", err)
			os.Exit(1)
		}
	} else {
		db, err := control.OpenDB(ctx, cfg)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer func() {
			_ = db.Close()
		}()

		svc := ingest.NewService(nil, postgres.NewIncidentRepo(db), nil)
		list, err := svc.List(ctx, ingest.Filter{Limit: listLimit, Severity: sev})
		if err != nil {
			slog.Error("Failed to list incidents", "error", err)
			os.Exit(1)
		}
		for _, inc := range list {
			incidents = append(incidents, *inc)
		}
	}

	renderIncidents(cmd.OutOrStdout(), incidents)
}

func renderIncidents(w io.Writer, incidents []domain.Incident) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Created", "Severity", "Category", "Action", "Message"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, inc := range incidents {
		table.Append([]string{
			inc.CreatedAt.Local().Format(time.DateTime),
			string(inc.Severity),
			string(inc.Category),
			string(inc.Action),
			truncate(inc.Message, 60),
		})
	}
	table.Render()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
