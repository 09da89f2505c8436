package corpus

import "github.com/vietddude/triage/internal/core/domain"

// Default returns the built-in training corpus. Each call returns fresh
// slices and maps so callers may modify them.
func Default() Corpus {
	return Corpus{
		Samples: []Sample{
			{Text: "database connection failed", Category: "database"},
			{Text: "database timeout", Category: "database"},
			{Text: "postgres not responding", Category: "database"},
			{Text: "user login failed", Category: "auth"},
			{Text: "invalid credentials", Category: "auth"},
			{Text: "authentication error", Category: "auth"},
			{Text: "payment API timeout", Category: "api"},
			{Text: "API request failed", Category: "api"},
			{Text: "service unavailable", Category: "api"},
			{Text: "server overheating", Category: "infra"},
			{Text: "cpu usage high", Category: "infra"},
			{Text: "disk almost full", Category: "storage"},
			{Text: "low storage warning", Category: "storage"},
			{Text: "unauthorized access attempt", Category: "security"},
			{Text: "SSL certificate expired", Category: "security"},
		},
		Severities: domain.DefaultSeverityTable(),
	}
}
