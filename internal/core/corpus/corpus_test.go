package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/triage/internal/core/domain"
)

func TestDefaultCorpus(t *testing.T) {
	c := Default()

	require.NoError(t, c.Validate())
	assert.Len(t, c.Samples, 15)
	assert.Equal(t,
		[]domain.Category{"api", "auth", "database", "infra", "security", "storage"},
		c.Categories())
	assert.Empty(t, c.MissingSeverities(), "every default category needs a severity")
}

func TestDefaultCorpusIsCopy(t *testing.T) {
	a := Default()
	a.Samples[0].Text = "changed"
	a.Severities["database"] = domain.SeverityLow

	b := Default()
	assert.Equal(t, "database connection failed", b.Samples[0].Text)
	assert.Equal(t, domain.SeverityHigh, b.Severities["database"])
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		corpus  Corpus
		wantErr error
	}{
		{
			name:    "empty",
			corpus:  Corpus{},
			wantErr: ErrEmpty,
		},
		{
			name: "single category",
			corpus: Corpus{Samples: []Sample{
				{Text: "disk full", Category: "storage"},
				{Text: "disk almost full", Category: "storage"},
			}},
			wantErr: ErrTooFewCategories,
		},
		{
			name: "blank text",
			corpus: Corpus{Samples: []Sample{
				{Text: "  ", Category: "storage"},
				{Text: "login failed", Category: "auth"},
			}},
			wantErr: ErrBlankSample,
		},
		{
			name: "blank category",
			corpus: Corpus{Samples: []Sample{
				{Text: "disk full", Category: ""},
				{Text: "login failed", Category: "auth"},
			}},
			wantErr: ErrBlankSample,
		},
		{
			name: "two categories",
			corpus: Corpus{Samples: []Sample{
				{Text: "disk full", Category: "storage"},
				{Text: "login failed", Category: "auth"},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.corpus.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMissingSeverities(t *testing.T) {
	c := Corpus{
		Samples: []Sample{
			{Text: "disk full", Category: "storage"},
			{Text: "packet loss", Category: "network"},
		},
		Severities: domain.SeverityTable{"storage": domain.SeverityMedium},
	}
	assert.Equal(t, []domain.Category{"network"}, c.MissingSeverities())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("with severities", func(t *testing.T) {
		path := filepath.Join(dir, "corpus.yaml")
		content := `
samples:
  - text: "packet loss on uplink"
    category: network
  - text: "disk almost full"
    category: storage
severities:
  network: high
  storage: medium
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		c, err := LoadFile(path)
		require.NoError(t, err)
		require.Len(t, c.Samples, 2)
		assert.Equal(t, domain.Category("network"), c.Samples[0].Category)
		assert.Equal(t, domain.SeverityHigh, c.Severities["network"])
		assert.NoError(t, c.Validate())
	})

	t.Run("default severities", func(t *testing.T) {
		path := filepath.Join(dir, "bare.yaml")
		content := `
samples:
  - text: "token expired"
    category: auth
  - text: "query timeout"
    category: database
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		c, err := LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, domain.DefaultSeverityTable(), c.Severities)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("samples: [oops"), 0o600))
		_, err := LoadFile(path)
		assert.Error(t, err)
	})
}
