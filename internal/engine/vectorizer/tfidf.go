// Package vectorizer turns incident texts into L2-normalized TF-IDF vectors.
package vectorizer

import (
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrEmptyCorpus     = errors.New("vectorizer: no documents to fit")
	ErrEmptyVocabulary = errors.New("vectorizer: no terms found in documents")
)

// tokenPattern matches runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize lowercases text and splits it into terms.
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// TFIDF is a fitted vocabulary with smoothed inverse document frequencies.
// It is immutable after Fit and safe for concurrent use.
type TFIDF struct {
	index map[string]int
	terms []string
	idf   []float64
}

// Fit builds the vocabulary and IDF weights from docs.
func Fit(docs []string) (*TFIDF, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, tok := range Tokenize(doc) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v := &TFIDF{
		index: make(map[string]int, len(terms)),
		terms: terms,
		idf:   make([]float64, len(terms)),
	}
	for i, term := range terms {
		v.index[term] = i
		v.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}
	return v, nil
}

// Size returns the number of vocabulary terms.
func (v *TFIDF) Size() int {
	return len(v.terms)
}

// Terms returns a copy of the vocabulary in column order.
func (v *TFIDF) Terms() []string {
	out := make([]string, len(v.terms))
	copy(out, v.terms)
	return out
}

// IDF returns the weight of term and whether it is in the vocabulary.
func (v *TFIDF) IDF(term string) (float64, bool) {
	i, ok := v.index[term]
	if !ok {
		return 0, false
	}
	return v.idf[i], true
}

// Transform maps text to a dense vector of length Size. Unknown terms are
// ignored; a text without known terms yields the zero vector.
func (v *TFIDF) Transform(text string) []float64 {
	vec := make([]float64, len(v.terms))
	for _, tok := range Tokenize(text) {
		if i, ok := v.index[tok]; ok {
			vec[i]++
		}
	}
	floats.Mul(vec, v.idf)
	if norm := floats.Norm(vec, 2); norm > 0 {
		floats.Scale(1/norm, vec)
	}
	return vec
}

// TransformAll returns a len(docs) x Size matrix with one row per document.
func (v *TFIDF) TransformAll(docs []string) *mat.Dense {
	m := mat.NewDense(len(docs), len(v.terms), nil)
	for i, doc := range docs {
		m.SetRow(i, v.Transform(doc))
	}
	return m
}
