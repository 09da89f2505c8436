// Package classifier implements an L2-regularized multinomial logistic
// regression fitted with L-BFGS.
package classifier

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

var (
	ErrNoSamples         = errors.New("classifier: no training samples")
	ErrSingleClass       = errors.New("classifier: need at least two distinct labels")
	ErrDimensionMismatch = errors.New("classifier: dimension mismatch")
	ErrNotConverged      = errors.New("classifier: optimizer found no finite solution")
)

// Options controls training.
type Options struct {
	// C is the inverse regularization strength.
	C float64
	// MaxIterations bounds the L-BFGS major iterations.
	MaxIterations int
}

// DefaultOptions returns C=1 and 500 iterations.
func DefaultOptions() Options {
	return Options{C: 1.0, MaxIterations: 500}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.C <= 0 {
		o.C = d.C
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	return o
}

// Model is a fitted classifier. It is immutable and safe for concurrent use.
type Model struct {
	classes   []string
	weights   *mat.Dense // classes x features
	intercept []float64
	converged bool
}

// Fit trains on the rows of x with one label per row.
func Fit(x mat.Matrix, labels []string, opts Options) (*Model, error) {
	n, d := x.Dims()
	if n == 0 || len(labels) == 0 {
		return nil, ErrNoSamples
	}
	if n != len(labels) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrDimensionMismatch, n, len(labels))
	}
	if d == 0 {
		return nil, fmt.Errorf("%w: zero features", ErrDimensionMismatch)
	}
	opts = opts.withDefaults()

	classes := distinctSorted(labels)
	if len(classes) < 2 {
		return nil, ErrSingleClass
	}
	k := len(classes)
	classIdx := make(map[string]int, k)
	for i, c := range classes {
		classIdx[c] = i
	}

	// one-hot targets
	y := mat.NewDense(n, k, nil)
	for i, l := range labels {
		y.Set(i, classIdx[l], 1)
	}

	obj := &objective{x: x, y: y, n: n, d: d, k: k, lambda: 1 / (opts.C * float64(n))}
	problem := optimize.Problem{Func: obj.value, Grad: obj.gradient}
	settings := &optimize.Settings{
		MajorIterations:   opts.MaxIterations,
		GradientThreshold: 1e-6,
	}

	res, err := optimize.Minimize(problem, make([]float64, k*d+k), settings, &optimize.LBFGS{})
	if res == nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConverged, err)
	}
	if !finite(res.F) || !allFinite(res.X) {
		return nil, fmt.Errorf("%w: status %s", ErrNotConverged, res.Status)
	}

	converged := err == nil && res.Status != optimize.IterationLimit
	m := &Model{
		classes:   classes,
		weights:   mat.NewDense(k, d, append([]float64(nil), res.X[:k*d]...)),
		intercept: append([]float64(nil), res.X[k*d:]...),
		converged: converged,
	}
	if !converged {
		slog.Warn("Classifier stopped before convergence",
			"status", res.Status.String(),
			"iterations", res.Stats.MajorIterations,
			"loss", res.F,
			"error", err,
		)
	} else {
		slog.Debug("Classifier converged",
			"status", res.Status.String(),
			"iterations", res.Stats.MajorIterations,
			"loss", res.F,
		)
	}
	return m, nil
}

// Classes returns the labels in the order used for tie-breaking.
func (m *Model) Classes() []string {
	out := make([]string, len(m.classes))
	copy(out, m.classes)
	return out
}

// Features returns the expected input dimension.
func (m *Model) Features() int {
	_, d := m.weights.Dims()
	return d
}

// Converged reports whether the optimizer met its convergence criteria.
func (m *Model) Converged() bool {
	return m.converged
}

// Scores returns the per-class logits for vec.
func (m *Model) Scores(vec []float64) ([]float64, error) {
	if len(vec) != m.Features() {
		return nil, fmt.Errorf("%w: got %d features, want %d", ErrDimensionMismatch, len(vec), m.Features())
	}
	scores := make([]float64, len(m.classes))
	out := mat.NewVecDense(len(scores), scores)
	out.MulVec(m.weights, mat.NewVecDense(len(vec), vec))
	floats.Add(scores, m.intercept)
	return scores, nil
}

// Predict returns the label with the highest score. Ties go to the label
// that sorts first.
func (m *Model) Predict(vec []float64) (string, error) {
	scores, err := m.Scores(vec)
	if err != nil {
		return "", err
	}
	best := 0
	for i := 1; i < len(scores); i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	return m.classes[best], nil
}

// objective is the mean softmax cross-entropy plus lambda/2 * ||W||^2.
// Parameters are laid out as W (k x d, row-major) followed by the k intercepts.
type objective struct {
	x       mat.Matrix
	y       *mat.Dense
	n, d, k int
	lambda  float64
}

// probabilities returns the n x k softmax matrix and the summed log-likelihood.
func (o *objective) probabilities(params []float64) (*mat.Dense, float64) {
	w := mat.NewDense(o.k, o.d, params[:o.k*o.d])
	b := params[o.k*o.d:]

	z := mat.NewDense(o.n, o.k, nil)
	z.Mul(o.x, w.T())

	var loglik float64
	for i := 0; i < o.n; i++ {
		row := z.RawRowView(i)
		floats.Add(row, b)
		lse := floats.LogSumExp(row)
		for j := range row {
			loglik += o.y.At(i, j) * (row[j] - lse)
			row[j] = math.Exp(row[j] - lse)
		}
	}
	return z, loglik
}

func (o *objective) value(params []float64) float64 {
	_, loglik := o.probabilities(params)
	w := params[:o.k*o.d]
	return -loglik/float64(o.n) + 0.5*o.lambda*floats.Dot(w, w)
}

func (o *objective) gradient(grad, params []float64) {
	p, _ := o.probabilities(params)
	p.Sub(p, o.y)

	gw := mat.NewDense(o.k, o.d, grad[:o.k*o.d])
	gw.Mul(p.T(), o.x)
	gw.Scale(1/float64(o.n), gw)
	floats.AddScaled(grad[:o.k*o.d], o.lambda, params[:o.k*o.d])

	gb := grad[o.k*o.d:]
	for j := 0; j < o.k; j++ {
		gb[j] = floats.Sum(mat.Col(nil, j, p)) / float64(o.n)
	}
}

func distinctSorted(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	var out []string
	for _, l := range labels {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func allFinite(xs []float64) bool {
	for _, v := range xs {
		if !finite(v) {
			return false
		}
	}
	return true
}
