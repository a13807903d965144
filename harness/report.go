package harness

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// Row holds the aggregated samples of one provider across all forks.
type Row struct {
	Name    string
	OneShot bool
	Stats
}

// Report is the final result table.
type Report struct {
	Unit string
	Rows []Row
}

// Aggregate merges the measurement samples of several trials per provider,
// keeping the provider order of the first trial.
func Aggregate(results []*TrialResult, unit time.Duration) *Report {
	var order []string
	samples := make(map[string][]float64)
	oneShot := make(map[string]bool)
	for _, res := range results {
		for _, p := range res.Providers {
			if _, ok := samples[p.Name]; !ok {
				order = append(order, p.Name)
			}
			samples[p.Name] = append(samples[p.Name], p.Samples...)
			oneShot[p.Name] = p.OneShot
		}
	}

	report := &Report{Unit: UnitLabel(unit)}
	for _, name := range order {
		report.Rows = append(report.Rows, Row{
			Name:    name,
			OneShot: oneShot[name],
			Stats:   Summarize(samples[name]),
		})
	}
	return report
}

// WriteTo renders the report as a text table.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	tw := tabwriter.NewWriter(cw, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Benchmark\tMode\tCnt\tScore\t\tError\tUnits\t")
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\tthrpt\t%d\t%.3f\t±\t%.3f\t%s\t\n",
			row.Name, row.N, row.Mean, row.StdDev, r.Unit)
	}
	if err := tw.Flush(); err != nil {
		return cw.n, err
	}
	return cw.n, cw.err
}

type countingWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	if err != nil && c.err == nil {
		c.err = err
	}
	return n, err
}
