package features

import (
    "fmt"
    "math"
    "sort"

    "gonum.org/v1/gonum/stat"
)

// Donor window for age imputation.
const (
    heightWindow = 2.5
    weightWindow = 2.0
)

// bin is a right-closed age interval (Low, High].
type bin struct {
    Low, High float64
    Label     string
}

var heightBins = []bin{
    {-1, 4, "0-4"}, {4, 9, "5-9"}, {9, 19, "10-19"}, {19, math.Inf(1), "20+"},
}

var weightBins = []bin{
    {-1, 4, "0-4"}, {4, 9, "5-9"}, {9, 19, "10-19"}, {19, 29, "20-29"},
    {29, 39, "30-39"}, {39, 49, "40-49"}, {49, 59, "50-59"}, {59, 69, "60-69"},
    {69, 79, "70-79"}, {79, 89, "80-89"}, {89, math.Inf(1), "90+"},
}

func binOf(age float64, bins []bin) (string, bool) {
    if math.IsNaN(age) { return "", false }
    for _, b := range bins {
        if age > b.Low && age <= b.High { return b.Label, true }
    }
    return "", false
}

// ImputationGap is a missing cell that had no donor value to impute from.
type ImputationGap struct {
    Row      int
    Column   string
    Group    string
    // Fallback is set when the cell was filled with the column's global mean.
    Fallback bool
}

func (g *ImputationGap) Error() string {
    where := g.Group
    if where == "" { where = "no group" }
    msg := fmt.Sprintf("no donor for %s at row %d (%s)", g.Column, g.Row, where)
    if g.Fallback { msg += ", filled with global mean" }
    return msg
}

// roundHalfUp adds one half and truncates.
func roundHalfUp(v float64) float64 { return math.Trunc(v + 0.5) }

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func median(vs []float64) float64 {
    s := append([]float64(nil), vs...)
    sort.Float64s(s)
    n := len(s)
    if n%2 == 1 { return s[n/2] }
    return (s[n/2-1] + s[n/2]) / 2
}

func known(vs []float64) []float64 {
    out := make([]float64, 0, len(vs))
    for _, v := range vs {
        if !math.IsNaN(v) { out = append(out, v) }
    }
    return out
}

// Donor is a training record with known age, height and weight.
type Donor struct {
    Age    float64 `json:"age"`
    Height float64 `json:"height"`
    Weight float64 `json:"weight"`
}

// Imputation holds the statistics a training table was imputed from. Later
// tables are imputed from the same statistics, never from their own rows, so a
// record gets the same values alone or inside any batch.
type Imputation struct {
    Donors []Donor `json:"donors"`
    // AgeMean is the rounded mean of the known training ages, nil if none was known.
    AgeMean     *float64           `json:"age_mean,omitempty"`
    HeightMeans map[string]float64 `json:"height_means"`
    WeightMeans map[string]float64 `json:"weight_means"`
    // ColumnMeans are the post-imputation global means used as the last fallback.
    ColumnMeans map[string]float64 `json:"column_means"`
}

// fitAge collects the age donors of a training table. Only ages known before
// imputation started count.
func (im *Imputation) fitAge(age, height, weight []float64) {
    im.Donors = im.Donors[:0]
    for i := range age {
        if math.IsNaN(age[i]) || math.IsNaN(height[i]) || math.IsNaN(weight[i]) { continue }
        im.Donors = append(im.Donors, Donor{Age: age[i], Height: height[i], Weight: weight[i]})
    }
    im.AgeMean = nil
    if ages := known(age); len(ages) > 0 {
        m := roundHalfUp(stat.Mean(ages, nil))
        im.AgeMean = &m
    }
}

// imputeAge fills missing ages from donors of similar height and weight.
// Without any donor in the window the rounded global mean age is used.
func (im *Imputation) imputeAge(age, height, weight []float64) ([]float64, []*ImputationGap) {
    out := append([]float64(nil), age...)
    var gaps []*ImputationGap
    for i := range age {
        if !math.IsNaN(age[i]) { continue }
        var window []float64
        h, w := height[i], weight[i]
        if !math.IsNaN(h) && !math.IsNaN(w) {
            for _, d := range im.Donors {
                if d.Height >= h-heightWindow && d.Height <= h+heightWindow &&
                    d.Weight >= w-weightWindow && d.Weight <= w+weightWindow {
                    window = append(window, d.Age)
                }
            }
        }
        switch {
        case len(window) > 0:
            out[i] = roundHalfUp(median(window))
        case im.AgeMean != nil:
            out[i] = *im.AgeMean
        default:
            gaps = append(gaps, &ImputationGap{Row: i, Column: "age"})
        }
    }
    return out, gaps
}

func groupKey(age, sex float64, bins []bin) string {
    label, ok := binOf(age, bins)
    if !ok || math.IsNaN(sex) { return "" }
    return label + "/" + formatNumber(sex)
}

// groupMeans averages the present values of every (age bin, sex) group,
// rounded to one decimal. Groups without a present value are absent.
func groupMeans(values, age, sex []float64, bins []bin) map[string]float64 {
    type acc struct{ sum float64; n int }
    groups := map[string]*acc{}
    for i := range values {
        key := groupKey(age[i], sex[i], bins)
        if key == "" || math.IsNaN(values[i]) { continue }
        g := groups[key]
        if g == nil { g = &acc{}; groups[key] = g }
        g.sum += values[i]
        g.n++
    }
    out := make(map[string]float64, len(groups))
    for k, g := range groups { out[k] = round1(g.sum / float64(g.n)) }
    return out
}

// imputeByGroup fills missing values with the mean of their (age bin, sex) group.
func imputeByGroup(column string, values, age, sex []float64, bins []bin, means map[string]float64) ([]float64, []*ImputationGap) {
    out := append([]float64(nil), values...)
    var gaps []*ImputationGap
    for i := range values {
        if !math.IsNaN(values[i]) { continue }
        key := groupKey(age[i], sex[i], bins)
        if m, ok := means[key]; ok && key != "" {
            out[i] = m
            continue
        }
        gaps = append(gaps, &ImputationGap{Row: i, Column: column, Group: key})
    }
    return out, gaps
}

func columnMeans(cols map[string][]float64, names ...string) map[string]float64 {
    out := make(map[string]float64, len(names))
    for _, c := range names {
        if m := known(cols[c]); len(m) > 0 { out[c] = round1(stat.Mean(m, nil)) }
    }
    return out
}
