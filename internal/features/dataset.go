package features

import (
    "errors"
    "math"

    "go.uber.org/multierr"

    "ecgrhythm/internal/data"
)

// Dataset is the cleaned, fully numeric form of a metadata table. X rows are
// aligned to Columns; Y holds data.NoLabel where the diagnosis was unknown.
type Dataset struct {
    Columns  []string
    Target   string
    X        [][]float64
    Y        []int
    Encoding *Encoding
    gaps     error
}

func (d *Dataset) Len() int { return len(d.X) }

// Record returns row i as a field-name mapping, the target included.
func (d *Dataset) Record(i int) map[string]float64 {
    rec := make(map[string]float64, len(d.Columns)+1)
    for j, c := range d.Columns { rec[c] = d.X[i][j] }
    if d.Y[i] == data.NoLabel {
        rec[d.Target] = math.NaN()
    } else {
        rec[d.Target] = float64(d.Y[i])
    }
    return rec
}

// Subset returns the rows at idx, in idx order. Rows are shared, not copied.
func (d *Dataset) Subset(idx []int) *Dataset {
    out := &Dataset{
        Columns:  d.Columns,
        Target:   d.Target,
        X:        make([][]float64, len(idx)),
        Y:        make([]int, len(idx)),
        Encoding: d.Encoding,
    }
    for k, i := range idx {
        out.X[k] = d.X[i]
        out.Y[k] = d.Y[i]
    }
    return out
}

// Labeled drops rows whose target is missing and reports how many were dropped.
func (d *Dataset) Labeled() (*Dataset, int) {
    keep := make([]int, 0, len(d.Y))
    for i, y := range d.Y {
        if y != data.NoLabel { keep = append(keep, i) }
    }
    out := d.Subset(keep)
    out.gaps = d.gaps
    return out, len(d.Y) - len(keep)
}

// Gaps lists every ImputationGap recorded while cleaning.
func (d *Dataset) Gaps() []error { return multierr.Errors(d.gaps) }

// ImputationGaps is Gaps narrowed to the gap type, in row order of discovery.
func (d *Dataset) ImputationGaps() []*ImputationGap {
    var out []*ImputationGap
    for _, err := range d.Gaps() {
        var g *ImputationGap
        if errors.As(err, &g) { out = append(out, g) }
    }
    return out
}

// Unresolved counts numeric cells of the imputed columns that are still missing.
func (d *Dataset) Unresolved() int {
    n := 0
    for j, c := range d.Columns {
        if c != data.ColAge && c != data.ColHeight && c != data.ColWeight { continue }
        for i := range d.X {
            if math.IsNaN(d.X[i][j]) { n++ }
        }
    }
    return n
}
