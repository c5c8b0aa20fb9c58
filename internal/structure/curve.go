package structure

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
)

// Curve holds an experimental or computed scattering profile: q values,
// intensities, and (optionally) intensity uncertainties.
type Curve struct {
	Q     []float64
	I     []float64
	Sigma []float64 // empty if the source had no error column
}

// Len returns the number of points in the curve.
func (c Curve) Len() int { return len(c.Q) }

// ReadCurve reads a whitespace/comma-delimited (q, I[, sigma]) curve,
// autodetecting the column count by majority vote across data lines (lines
// that tokenize entirely as numbers), skipping header/comment lines, and
// autodetecting nm^-1 vs Angstrom^-1 q units the way a DAT/XVG reader does:
// an explicit "[nm]"/"[A]" header marker wins, otherwise q > 1 anywhere in
// the file is taken as nm^-1 and divided by 10 to convert to Angstrom^-1.
func ReadCurve(r io.Reader) (Curve, error) {
	scanner := bufio.NewScanner(r)
	var rows [][]float64
	colCounts := map[int]int{}
	nmUnitHeader, angUnitHeader := false, false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tokens := splitFields(line)
		if len(tokens) == 0 {
			continue
		}
		vals, ok := parseAllFloats(tokens)
		if !ok {
			upper := strings.ToLower(line)
			if strings.Contains(upper, "[nm]") || strings.Contains(upper, "[nm^-1]") {
				nmUnitHeader = true
			} else if strings.Contains(upper, "[a]") || strings.Contains(upper, "[a^-1]") {
				angUnitHeader = true
			}
			continue
		}
		rows = append(rows, vals)
		colCounts[len(vals)]++
	}
	if err := scanner.Err(); err != nil {
		return Curve{}, fmt.Errorf("structure: error reading curve stream: %w", err)
	}
	if len(rows) == 0 {
		return Curve{}, fmt.Errorf("structure: no numeric data rows found")
	}

	mode := modeOf(colCounts)
	if mode < 2 {
		return Curve{}, fmt.Errorf("structure: curve needs at least 2 columns (q, I), detected %d", mode)
	}

	var c Curve
	for _, row := range rows {
		if len(row) != mode {
			continue
		}
		c.Q = append(c.Q, row[0])
		c.I = append(c.I, row[1])
		if mode >= 3 {
			if row[2] <= 0 {
				return Curve{}, fmt.Errorf("structure: curve has non-positive sigma at q=%.6g", row[0])
			}
			c.Sigma = append(c.Sigma, row[2])
		}
	}
	if len(c.Q) == 0 {
		return Curve{}, fmt.Errorf("structure: no valid data rows survived filtering")
	}

	useNM := nmUnitHeader
	if !nmUnitHeader && !angUnitHeader {
		maxQ := c.Q[0]
		for _, q := range c.Q {
			if q > maxQ {
				maxQ = q
			}
		}
		useNM = maxQ > 1
	}
	if useNM {
		for i := range c.Q {
			c.Q[i] /= 10
		}
	}

	sort.Sort(byQ(c))
	return c, nil
}

type byQ Curve

func (c byQ) Len() int      { return len(c.Q) }
func (c byQ) Swap(i, j int) {
	c.Q[i], c.Q[j] = c.Q[j], c.Q[i]
	c.I[i], c.I[j] = c.I[j], c.I[i]
	if len(c.Sigma) > 0 {
		c.Sigma[i], c.Sigma[j] = c.Sigma[j], c.Sigma[i]
	}
}
func (c byQ) Less(i, j int) bool { return c.Q[i] < c.Q[j] }

func splitFields(line string) []string {
	return strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
}

func parseAllFloats(tokens []string) ([]float64, bool) {
	vals := make([]float64, 0, len(tokens))
	for _, tok := range tokens {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, false
		}
		vals = append(vals, v)
	}
	return vals, true
}

func modeOf(counts map[int]int) int {
	best, bestCount := 0, -1
	for n, count := range counts {
		if count > bestCount {
			best, bestCount = n, count
		}
	}
	return best
}

// FitReport summarizes a completed fit for WriteReport: the fitted
// parameters and chi2/DoF, plus the per-point curve the fit was run
// against (Q/Obs/Sigma) alongside the model's own prediction at each of
// those points (Model), so the report captures exactly what was fit and
// how well the model tracked it.
type FitReport struct {
	Parameters map[string]float64
	Chi2       float64
	DoF        int

	Q     []float64
	Obs   []float64
	Sigma []float64
	Model []float64
}

// WriteReport writes a line-oriented UTF-8 fit report: the summary
// statistics and sorted parameters, followed by one "q I_obs sigma
// I_model" line per point in FitReport.Q (skipped if Q is empty, so
// reports built without per-point data still write cleanly).
func WriteReport(w io.Writer, fit FitReport) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "chi2 = %.6g\n", fit.Chi2)
	fmt.Fprintf(bw, "dof = %d\n", fit.DoF)
	if fit.DoF > 0 {
		fmt.Fprintf(bw, "chi2/dof = %.6g\n", fit.Chi2/float64(fit.DoF))
	}
	names := make([]string, 0, len(fit.Parameters))
	for name := range fit.Parameters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(bw, "%s = %.6g\n", name, fit.Parameters[name])
	}
	for i := range fit.Q {
		sigma := 0.0
		if i < len(fit.Sigma) {
			sigma = fit.Sigma[i]
		}
		model := 0.0
		if i < len(fit.Model) {
			model = fit.Model[i]
		}
		obs := 0.0
		if i < len(fit.Obs) {
			obs = fit.Obs[i]
		}
		fmt.Fprintf(bw, "%.6g %.6g %.6g %.6g\n", fit.Q[i], obs, sigma, model)
	}
	return bw.Flush()
}

// WriteCurve writes a Curve back out in ReadCurve's own format (q I[
// sigma], space-separated, one row per point), so saving a curve and
// reloading it with ReadCurve reproduces Q/I/Sigma exactly.
func WriteCurve(w io.Writer, c Curve) error {
	bw := bufio.NewWriter(w)
	hasSigma := len(c.Sigma) == len(c.Q) && len(c.Sigma) > 0
	fmtF := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	for i := range c.Q {
		if hasSigma {
			fmt.Fprintf(bw, "%s %s %s\n", fmtF(c.Q[i]), fmtF(c.I[i]), fmtF(c.Sigma[i]))
		} else {
			fmt.Fprintf(bw, "%s %s\n", fmtF(c.Q[i]), fmtF(c.I[i]))
		}
	}
	return bw.Flush()
}
