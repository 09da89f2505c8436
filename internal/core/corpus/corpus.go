// Package corpus holds the labeled training data the classification engine
// is fitted on.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/samber/lo"
	"gopkg.in/yaml.v2"

	"github.com/vietddude/triage/internal/core/domain"
)

var (
	// ErrEmpty is returned when a corpus has no samples.
	ErrEmpty = errors.New("corpus has no samples")
	// ErrTooFewCategories is returned when a corpus has fewer than two distinct categories.
	ErrTooFewCategories = errors.New("corpus needs at least two distinct categories")
	// ErrBlankSample is returned when a sample has a blank text or category.
	ErrBlankSample = errors.New("corpus sample has blank text or category")
)

// Sample is one labeled training text.
type Sample struct {
	Text     string          `yaml:"text"`
	Category domain.Category `yaml:"category"`
}

// Corpus is the training set together with the severity table for its categories.
type Corpus struct {
	Samples    []Sample             `yaml:"samples"`
	Severities domain.SeverityTable `yaml:"severities"`
}

// Texts returns the sample texts in order.
func (c Corpus) Texts() []string {
	return lo.Map(c.Samples, func(s Sample, _ int) string { return s.Text })
}

// Labels returns the sample categories in order.
func (c Corpus) Labels() []string {
	return lo.Map(c.Samples, func(s Sample, _ int) string { return string(s.Category) })
}

// Categories returns the distinct categories, sorted.
func (c Corpus) Categories() []domain.Category {
	cats := lo.Uniq(lo.Map(c.Samples, func(s Sample, _ int) domain.Category { return s.Category }))
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Validate checks that the corpus can train a well-defined classifier.
func (c Corpus) Validate() error {
	if len(c.Samples) == 0 {
		return ErrEmpty
	}
	for i, s := range c.Samples {
		if strings.TrimSpace(s.Text) == "" || strings.TrimSpace(string(s.Category)) == "" {
			return fmt.Errorf("%w: sample %d", ErrBlankSample, i)
		}
	}
	if n := len(c.Categories()); n < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewCategories, n)
	}
	return nil
}

// MissingSeverities lists categories that have no severity entry and will
// resolve to the default severity.
func (c Corpus) MissingSeverities() []domain.Category {
	return lo.Filter(c.Categories(), func(cat domain.Category, _ int) bool {
		_, ok := c.Severities[cat]
		return !ok
	})
}

// LoadFile reads a YAML corpus. When the file has no severities section the
// default table is used.
func LoadFile(path string) (Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Corpus{}, fmt.Errorf("failed to read corpus file: %w", err)
	}

	var c Corpus
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Corpus{}, fmt.Errorf("failed to parse corpus file: %w", err)
	}
	if len(c.Severities) == 0 {
		c.Severities = domain.DefaultSeverityTable()
	}
	return c, nil
}
