package engine

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietddude/triage/internal/core/corpus"
	"github.com/vietddude/triage/internal/core/domain"
)

func trainDefault(t *testing.T) *Engine {
	t.Helper()
	e, err := Train(context.Background(), corpus.Default(), DefaultOptions())
	require.NoError(t, err)
	return e
}

func TestTrainingSamplesClassifiedCorrectly(t *testing.T) {
	e := trainDefault(t)
	table := domain.DefaultSeverityTable()

	for _, s := range corpus.Default().Samples {
		got := e.Predict(s.Text)
		assert.Equal(t, s.Category, got.Category, "text %q", s.Text)
		assert.Equal(t, table[s.Category], got.Severity, "text %q", s.Text)
	}
}

func TestPredictExamples(t *testing.T) {
	e := trainDefault(t)

	tests := []struct {
		text string
		want domain.Verdict
	}{
		{"database connection failed", domain.Verdict{Category: "database", Severity: domain.SeverityHigh}},
		{"unauthorized access attempt", domain.Verdict{Category: "security", Severity: domain.SeverityCritical}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.Predict(tt.text))
	}
}

func TestPredictAlwaysReturnsTrainedCategory(t *testing.T) {
	e := trainDefault(t)
	trained := e.Categories()

	for _, text := range []string{"", "   ", "?!", "x", "kernel panic on node 7", "Überlastung 💥"} {
		v := e.Predict(text)
		assert.Contains(t, trained, v.Category, "text %q", text)
		assert.True(t, v.Severity.Valid(), "text %q", text)
	}
}

func TestPredictDeterministic(t *testing.T) {
	a := trainDefault(t)
	b := trainDefault(t)

	for _, text := range []string{"", "database timeout", "cpu usage high", "random words here"} {
		assert.Equal(t, a.Predict(text), a.Predict(text))
		assert.Equal(t, a.Predict(text), b.Predict(text))
	}
}

func TestPredictConcurrent(t *testing.T) {
	e := trainDefault(t)
	want := e.Predict("disk almost full")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				assert.Equal(t, want, e.Predict("disk almost full"))
			}
		}()
	}
	wg.Wait()
}

func TestUnmappedCategoryDefaultsToLow(t *testing.T) {
	c := corpus.Corpus{
		Samples: []corpus.Sample{
			{Text: "packet loss on uplink", Category: "network"},
			{Text: "dns resolution failed", Category: "network"},
			{Text: "disk almost full", Category: "storage"},
			{Text: "low storage warning", Category: "storage"},
		},
		Severities: domain.SeverityTable{"storage": domain.SeverityMedium},
	}

	e, err := Train(context.Background(), c, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t,
		domain.Verdict{Category: "network", Severity: domain.SeverityLow},
		e.Predict("packet loss on uplink"))
	assert.Equal(t,
		domain.Verdict{Category: "storage", Severity: domain.SeverityMedium},
		e.Predict("disk almost full"))
}

func TestTrainRejectsDegenerateCorpus(t *testing.T) {
	tests := []struct {
		name    string
		corpus  corpus.Corpus
		wantErr error
	}{
		{"empty", corpus.Corpus{}, corpus.ErrEmpty},
		{"single category", corpus.Corpus{Samples: []corpus.Sample{
			{Text: "disk full", Category: "storage"},
		}}, corpus.ErrTooFewCategories},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Train(context.Background(), tt.corpus, DefaultOptions())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTrainNoVocabulary(t *testing.T) {
	c := corpus.Corpus{Samples: []corpus.Sample{
		{Text: "a", Category: "x"},
		{Text: "b", Category: "y"},
	}}
	_, err := Train(context.Background(), c, DefaultOptions())
	assert.Error(t, err)
}

func TestTrainCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Train(ctx, corpus.Default(), DefaultOptions())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAccessors(t *testing.T) {
	e := trainDefault(t)

	assert.Equal(t,
		[]domain.Category{"api", "auth", "database", "infra", "security", "storage"},
		e.Categories())
	assert.Positive(t, e.VocabularySize())
	assert.False(t, e.TrainedAt().IsZero())

	cats := e.Categories()
	cats[0] = "mutated"
	assert.Equal(t, domain.Category("api"), e.Categories()[0])
}
