package cli

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/vietddude/triage/internal/core/config"
	"github.com/vietddude/triage/internal/core/domain"
)

func TestPrintVerdict(t *testing.T) {
	var buf bytes.Buffer
	printVerdict(&buf, "server overheating",
		domain.Verdict{Category: "infra", Severity: domain.SeverityCritical}, false)

	out := buf.String()
	assert.Contains(t, out, "CRITICAL")
	assert.Contains(t, out, "infra")
	assert.Contains(t, out, "server overheating")
	assert.Contains(t, out, string(domain.ActionEscalate))
}

func TestRenderSeverityUnknownIsPlain(t *testing.T) {
	assert.Equal(t, "URGENT", renderSeverity("urgent", true))
	assert.Equal(t, "LOW", renderSeverity(domain.SeverityLow, false))
}

func TestRenderIncidents(t *testing.T) {
	var buf bytes.Buffer
	renderIncidents(&buf, []domain.Incident{{
		ID:        uuid.New(),
		Message:   strings.Repeat("disk almost full ", 10),
		Category:  "storage",
		Severity:  domain.SeverityMedium,
		Action:    domain.ActionNone,
		CreatedAt: time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC),
	}})

	out := buf.String()
	assert.Contains(t, out, "SEVERITY")
	assert.Contains(t, out, "storage")
	assert.Contains(t, out, "…")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}

func TestLogLevel(t *testing.T) {
	isDebug = false
	assert.Equal(t, slog.LevelWarn, logLevel(config.LoggingConfig{Level: "warn"}))
	assert.Equal(t, slog.LevelInfo, logLevel(config.LoggingConfig{Level: "nonsense"}))

	isDebug = true
	defer func() { isDebug = false }()
	assert.Equal(t, slog.LevelDebug, logLevel(config.LoggingConfig{Level: "error"}))
}
