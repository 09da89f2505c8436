// Package engine fits the incident classifier and serves predictions.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/triage/internal/core/corpus"
	"github.com/vietddude/triage/internal/core/domain"
	"github.com/vietddude/triage/internal/engine/classifier"
	"github.com/vietddude/triage/internal/engine/vectorizer"
	"github.com/vietddude/triage/internal/metrics"
)

// Options configures training.
type Options = classifier.Options

// DefaultOptions returns the standard training options.
func DefaultOptions() Options {
	return classifier.DefaultOptions()
}

// Engine is a fitted vectorizer, classifier and severity table. It is
// read-only after Train and safe for concurrent use.
type Engine struct {
	vec        *vectorizer.TFIDF
	model      *classifier.Model
	severities domain.SeverityTable
	categories []domain.Category
	trainedAt  time.Time
}

// Train validates c and fits the engine on it.
func Train(ctx context.Context, c corpus.Corpus, opts Options) (*Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid corpus: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, cat := range c.MissingSeverities() {
		slog.Warn("Category has no severity, defaulting",
			"category", cat,
			"severity", domain.DefaultSeverity,
		)
	}

	start := time.Now()

	vec, err := vectorizer.Fit(c.Texts())
	if err != nil {
		return nil, fmt.Errorf("failed to fit vectorizer: %w", err)
	}
	model, err := classifier.Fit(vec.TransformAll(c.Texts()), c.Labels(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}

	elapsed := time.Since(start)
	metrics.ModelTrainingSeconds.Set(elapsed.Seconds())
	metrics.ModelVocabularySize.Set(float64(vec.Size()))

	e := &Engine{
		vec:        vec,
		model:      model,
		severities: c.Severities.Clone(),
		categories: c.Categories(),
		trainedAt:  time.Now(),
	}

	slog.Info("Model trained",
		"samples", len(c.Samples),
		"categories", len(e.categories),
		"vocabulary", vec.Size(),
		"converged", model.Converged(),
		"duration", elapsed,
	)
	return e, nil
}

// Predict classifies text. Any string is accepted; text without known
// terms still yields a trained category.
func (e *Engine) Predict(text string) domain.Verdict {
	start := time.Now()

	// the vector always matches the model width, so Predict cannot fail
	label, _ := e.model.Predict(e.vec.Transform(text))
	category := domain.Category(label)
	v := domain.Verdict{
		Category: category,
		Severity: e.severities.Resolve(category),
	}

	metrics.PredictionLatency.Observe(time.Since(start).Seconds())
	return v
}

// Categories returns the trained categories, sorted.
func (e *Engine) Categories() []domain.Category {
	out := make([]domain.Category, len(e.categories))
	copy(out, e.categories)
	return out
}

// VocabularySize returns the number of terms the vectorizer knows.
func (e *Engine) VocabularySize() int {
	return e.vec.Size()
}

// TrainedAt returns when training finished.
func (e *Engine) TrainedAt() time.Time {
	return e.trainedAt
}

// Converged reports whether the optimizer met its convergence criteria.
func (e *Engine) Converged() bool {
	return e.model.Converged()
}
