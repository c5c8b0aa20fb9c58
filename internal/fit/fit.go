// Package fit minimizes the chi-squared distance between an experimental
// scattering curve and the Debye transform of a composite histogram,
// factoring the fit into an outer search over the nuisance scaling/damping
// parameters and an inner closed-form linear (a,b) regression at each
// trial point.
//
// MATHEMATICIAN: this mirrors HydrationFitter's separation of concerns -
// the outer minimizer only ever sees chi2(params), which itself resolves
// the best-fit intensity scale and background analytically rather than
// treating them as free search dimensions.
package fit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/sarat-asymmetrica/saxskit/internal/axis"
	"github.com/sarat-asymmetrica/saxskit/internal/histogram"
	"github.com/sarat-asymmetrica/saxskit/internal/kernel"
	"github.com/sarat-asymmetrica/saxskit/internal/saxserr"
)

// Parameters holds the nuisance values a fit searches over: the water
// scaling factor, the excluded-volume scaling factor, and the two
// Debye-Waller widths.
type Parameters struct {
	Cw, Cx, SigmaA, SigmaX float64
}

// Bounds constrains the search range for each free parameter; a field left
// at its zero value with Max <= Min is treated as unbounded.
type Bounds struct {
	CwMin, CwMax     float64
	CxMin, CxMax     float64
	SigmaAMin, SigmaAMax float64
	SigmaXMin, SigmaXMax float64
}

// Dataset is an experimental scattering curve: intensity I(q) with
// per-point uncertainty Sigma.
type Dataset struct {
	Q, I, Sigma []float64
}

// FreeParam names one of the four nuisance parameters a Fit may search
// over.
type FreeParam int

const (
	FreeCw FreeParam = iota
	FreeCx
	FreeSigmaA
	FreeSigmaX
)

// FitOptions configures a Fit call: which parameters are free (the rest
// are held at their Parameters starting value), the search bounds, a
// convergence tolerance, and an evaluation budget.
type FitOptions struct {
	Free          []FreeParam
	Bounds        Bounds
	Start         Parameters
	Tol           float64
	MaxEvaluations int
}

// TracePoint records one outer-iteration evaluation, for diagnostic
// plotting of the minimizer's path.
type TracePoint struct {
	Params Parameters
	Chi2   float64
}

// FitResult is the outcome of a Fit call: the best-fit nuisance
// parameters, the inner linear regression's slope/intercept, the
// achieved chi-squared, degrees of freedom, convergence status, the
// evaluation trace, and whether a covariance estimate could be formed.
type FitResult struct {
	Params              Parameters
	A, B                float64
	Chi2                float64
	DoF                 int
	Model               []float64 // a*modelI+b at each Dataset.Q, aligned with Data.Q/Data.I/Data.Sigma
	Converged           bool
	Trace               []TracePoint
	CovarianceAvailable bool
}

// Fitter binds an experimental dataset to the model machinery (composite
// histogram, sinc table, form-factor products) needed to evaluate chi2 at
// an arbitrary parameter point.
type Fitter struct {
	Data Dataset
	Hist *histogram.CompositeHistogram
	Sinc *kernel.SincTable
	FF   *kernel.FormFactorProductTable

	FitExv bool
	FitDW  bool
}

// Chi2 evaluates the objective at a flat parameter vector in
// [Cw, Cx, SigmaA, SigmaX] order (missing trailing entries default to
// zero), matching the signature gonum/optimize's Problem.Func expects.
// It returns +Inf if the inner linear solve fails.
func (f *Fitter) Chi2(params []float64) float64 {
	var p Parameters
	if len(params) > 0 {
		p.Cw = params[0]
	}
	if len(params) > 1 {
		p.Cx = params[1]
	}
	if len(params) > 2 {
		p.SigmaA = params[2]
	}
	if len(params) > 3 {
		p.SigmaX = params[3]
	}
	chi2, _, _, _, err := f.chi2At(p)
	if err != nil {
		return math.Inf(1)
	}
	return chi2
}

// chi2At applies params to the composite histogram, Debye-transforms and
// interpolates the model onto the experimental q-axis, solves the inner
// (a,b) linear regression via gonum/mat, and returns the resulting
// chi-squared along with the regression coefficients.
func (f *Fitter) chi2At(params Parameters) (chi2, a, b float64, modelI []float64, err error) {
	f.Hist.ApplyWaterScalingFactor(params.Cw)
	if f.FitExv {
		f.Hist.ApplyExcludedVolumeScalingFactor(params.Cx)
	}
	if f.FitDW {
		f.Hist.ApplyAtomicDebyeWallerFactor(params.SigmaA)
		f.Hist.ApplyExvDebyeWallerFactor(params.SigmaX)
	}

	profile := f.Hist.DebyeTransform(sincQAxis(f.Sinc), f.Sinc, f.FF)

	modelI = interpolate(profile.Q, profile.Total, f.Data.Q)

	a, b, err = solveLinear(modelI, f.Data.I, f.Data.Sigma)
	if err != nil {
		return 0, 0, 0, nil, saxserr.Wrap(saxserr.KindNumeric, "fit", err)
	}

	var chi float64
	for i := range f.Data.Q {
		v := (f.Data.I[i] - (a*modelI[i] + b)) / f.Data.Sigma[i]
		chi += v * v
	}
	return chi, a, b, modelI, nil
}

// sincQAxis recovers the q-axis a SincTable was built against, since
// DebyeTransform needs it to drive the interpolation loop.
func sincQAxis(sinc *kernel.SincTable) axis.Axis {
	n := len(sinc.QValues())
	if n == 0 {
		return axis.Axis{}
	}
	q := sinc.QValues()
	return axis.NewLinearAxis(q[0], q[n-1], n)
}

// interpolate linearly resamples (xs, ys) onto the points in at, clamping
// to the nearest endpoint outside the source range - ground: the
// teacher's geometry interpolation helpers, which use the same clamped
// linear scheme for resampling intensity curves onto a shared axis.
func interpolate(xs, ys, at []float64) []float64 {
	out := make([]float64, len(at))
	for i, x := range at {
		out[i] = interpolateOne(xs, ys, x)
	}
	return out
}

func interpolateOne(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 0 {
		return 0
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[n-1] {
		return ys[n-1]
	}
	lo, hi := 0, n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	t := (x - xs[lo]) / (xs[hi] - xs[lo])
	return ys[lo] + t*(ys[hi]-ys[lo])
}

// solveLinear fits I_i = a*model_i + b over the weighted least-squares
// normal equations, solved as a 2x2 system via gonum/mat.
func solveLinear(model, observed, sigma []float64) (a, b float64, err error) {
	n := len(model)
	if n < 2 {
		return 0, 0, fmt.Errorf("need at least 2 points to fit a line, got %d", n)
	}

	var sWxx, sWx, sW, sWxy, sWy float64
	for i := 0; i < n; i++ {
		w := 1.0 / (sigma[i] * sigma[i])
		x := model[i]
		y := observed[i]
		sWxx += w * x * x
		sWx += w * x
		sW += w
		sWxy += w * x * y
		sWy += w * y
	}

	amat := mat.NewDense(2, 2, []float64{sWxx, sWx, sWx, sW})
	bvec := mat.NewDense(2, 1, []float64{sWxy, sWy})
	var xvec mat.Dense
	if err := xvec.Solve(amat, bvec); err != nil {
		return 0, 0, fmt.Errorf("normal equations are singular: %w", err)
	}
	return xvec.At(0, 0), xvec.At(1, 0), nil
}

// Fit searches over opts.Free, holding every other parameter at its
// opts.Start value, and returns the best-fit result. A single free
// parameter uses a bounded 1-D Brent search; more than one uses
// Nelder-Mead, with each trial point projected back into bounds before
// evaluation.
func (f *Fitter) Fit(opts FitOptions) (*FitResult, error) {
	if len(opts.Free) == 0 {
		return nil, saxserr.Wrap(saxserr.KindConfiguration, "fit", fmt.Errorf("no free parameters specified"))
	}
	tol := opts.Tol
	if tol <= 0 {
		tol = 1e-8
	}
	maxEval := opts.MaxEvaluations
	if maxEval <= 0 {
		maxEval = 2000
	}

	var trace []TracePoint

	project := func(p Parameters) Parameters {
		p.Cw = clamp(p.Cw, opts.Bounds.CwMin, opts.Bounds.CwMax)
		p.Cx = clamp(p.Cx, opts.Bounds.CxMin, opts.Bounds.CxMax)
		p.SigmaA = clamp(p.SigmaA, opts.Bounds.SigmaAMin, opts.Bounds.SigmaAMax)
		p.SigmaX = clamp(p.SigmaX, opts.Bounds.SigmaXMin, opts.Bounds.SigmaXMax)
		return p
	}

	toParams := func(x []float64) Parameters {
		p := opts.Start
		for i, fp := range opts.Free {
			switch fp {
			case FreeCw:
				p.Cw = x[i]
			case FreeCx:
				p.Cx = x[i]
			case FreeSigmaA:
				p.SigmaA = x[i]
			case FreeSigmaX:
				p.SigmaX = x[i]
			}
		}
		return project(p)
	}

	objective := func(x []float64) float64 {
		p := toParams(x)
		chi, _, _, _, err := f.chi2At(p)
		if err != nil {
			return math.Inf(1)
		}
		trace = append(trace, TracePoint{Params: p, Chi2: chi})
		return chi
	}

	problem := optimize.Problem{Func: objective}
	x0 := make([]float64, len(opts.Free))
	for i, fp := range opts.Free {
		switch fp {
		case FreeCw:
			x0[i] = opts.Start.Cw
		case FreeCx:
			x0[i] = opts.Start.Cx
		case FreeSigmaA:
			x0[i] = opts.Start.SigmaA
		case FreeSigmaX:
			x0[i] = opts.Start.SigmaX
		}
	}

	settings := &optimize.Settings{
		FuncEvaluations: maxEval,
		FunctionConverge: &optimize.FunctionConverge{
			Relative:   tol,
			Iterations: 3,
		},
	}

	var method optimize.Method
	if len(opts.Free) == 1 {
		lo, hi := freeBounds(opts.Free[0], opts.Bounds)
		method = &optimize.Brent{Min: lo, Max: hi}
	} else {
		method = &optimize.NelderMead{}
	}

	result, err := optimize.Minimize(problem, x0, settings, method)
	if err != nil {
		return nil, saxserr.Wrap(saxserr.KindConvergence, "fit", err)
	}

	best := toParams(result.X)
	chi2, a, b, modelI, err := f.chi2At(best)
	if err != nil {
		return nil, saxserr.Wrap(saxserr.KindNumeric, "fit", err)
	}
	model := make([]float64, len(modelI))
	for i, v := range modelI {
		model[i] = a*v + b
	}

	converged := result.Status == optimize.FunctionConvergence
	dof := len(f.Data.Q) - len(opts.Free) - 2

	return &FitResult{
		Params:              best,
		A:                   a,
		B:                   b,
		Chi2:                chi2,
		DoF:                 dof,
		Model:               model,
		Converged:           converged,
		Trace:               trace,
		CovarianceAvailable: len(opts.Free) == 1 || simplexSpread(trace) > tol,
	}, nil
}

func freeBounds(fp FreeParam, b Bounds) (lo, hi float64) {
	switch fp {
	case FreeCw:
		return boundedOrDefault(b.CwMin, b.CwMax)
	case FreeCx:
		return boundedOrDefault(b.CxMin, b.CxMax)
	case FreeSigmaA:
		return boundedOrDefault(b.SigmaAMin, b.SigmaAMax)
	case FreeSigmaX:
		return boundedOrDefault(b.SigmaXMin, b.SigmaXMax)
	}
	return 0, 1
}

func boundedOrDefault(lo, hi float64) (float64, float64) {
	if hi <= lo {
		return 0, 1
	}
	return lo, hi
}

func clamp(x, lo, hi float64) float64 {
	if hi <= lo {
		return x
	}
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// simplexSpread estimates whether the tail of the trace shows a collapsed
// Nelder-Mead simplex (near-zero chi2 variation across the last few
// evaluations), in which case no meaningful covariance can be read off the
// search history.
func simplexSpread(trace []TracePoint) float64 {
	n := len(trace)
	if n < 4 {
		return math.Inf(1)
	}
	tail := trace[n-4:]
	var min, max float64 = math.Inf(1), math.Inf(-1)
	for _, t := range tail {
		if t.Chi2 < min {
			min = t.Chi2
		}
		if t.Chi2 > max {
			max = t.Chi2
		}
	}
	return max - min
}
