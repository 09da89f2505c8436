package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/vietddude/triage/internal/client"
	"github.com/vietddude/triage/internal/control"
	"github.com/vietddude/triage/internal/core/domain"
)

var (
	serverURL string
	noColor   bool
)

var predictCmd = &cobra.Command{
	Use:   "predict TEXT...",
	Short: "Classify incident texts locally or against a running server",
	Example: `  triage predict "database connection failed"
  triage predict --server http://localhost:5000 "SSL certificate expired"`,
	Args: cobra.MinimumNArgs(1),
	Run:  runPredict,
}

func init() {
	predictCmd.Flags().StringVar(&serverURL, "server", "", "base URL of a running triage server (default: train locally)")
	predictCmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var predict func(text string) (domain.Verdict, error)
	if serverURL != "" {
		c := client.New(serverURL, 10*time.Second)
		predict = func(text string) (domain.Verdict, error) { return c.Predict(ctx, text) }
	} else {
		eng, err := control.TrainEngine(ctx, cfg.Model)
		if err != nil {
			slog.Error("Failed to train model", "error", err)
			os.Exit(1)
		}
		predict = func(text string) (domain.Verdict, error) { return eng.Predict(text), nil }
	}

	for _, text := range args {
		v, err := predict(text)
		if err != nil {
			slog.Error("Prediction failed", "error", err)
			os.Exit(1)
		}
		printVerdict(cmd.OutOrStdout(), text, v, !noColor)
	}
}

var severityStyles = map[domain.Severity]color.Style{
	domain.SeverityCritical: color.New(color.FgRed, color.OpBold),
	domain.SeverityHigh:     color.New(color.FgYellow, color.OpBold),
	domain.SeverityMedium:   color.New(color.FgCyan),
	domain.SeverityLow:      color.New(color.FgGreen),
}

func renderSeverity(sev domain.Severity, colored bool) string {
	label := strings.ToUpper(string(sev))
	style, ok := severityStyles[sev]
	if !colored || !ok {
		return label
	}
	return style.Render(label)
}

func printVerdict(w io.Writer, text string, v domain.Verdict, colored bool) {
	fmt.Fprintf(w, "%-8s  %-10s  %s  (%s)\n",
		renderSeverity(v.Severity, colored),
		v.Category,
		text,
		domain.ActionFor(v.Severity),
	)
}
