package features

import (
    "errors"
    "math"
    "strconv"
    "strings"

    "go.uber.org/multierr"
    "go.uber.org/zap"

    "ecgrhythm/internal/data"
    "ecgrhythm/pkg/utils"
)

// GapPolicy decides what happens to a cell no donor group could fill.
type GapPolicy int

const (
    // GapGlobalMean fills the cell with the column's global mean (one decimal).
    GapGlobalMean GapPolicy = iota
    // GapLeave keeps the cell missing (NaN).
    GapLeave
    // GapFail aborts cleaning.
    GapFail
)

func ParseGapPolicy(s string) (GapPolicy, error) {
    switch strings.ToLower(s) {
    case "", "mean", "global_mean":
        return GapGlobalMean, nil
    case "leave", "nan":
        return GapLeave, nil
    case "fail", "error":
        return GapFail, nil
    }
    return 0, errors.New("unknown gap policy " + strconv.Quote(s))
}

// ErrUnresolved is returned under GapFail when an imputation gap remains.
var ErrUnresolved = errors.New("unresolved imputation gaps")

// PacemakerToken marks pacemaker presence ("ja", yes) in the raw field.
const PacemakerToken = "ja"

// Preprocessor turns a raw metadata table into a numeric Dataset.
type Preprocessor struct {
    Target string
    Drop   []string
    Gaps   GapPolicy
    Logger *zap.Logger
}

func NewPreprocessor() *Preprocessor {
    return &Preprocessor{Target: data.ColDiagnosis, Drop: data.DropColumns, Gaps: GapGlobalMean}
}

// Clean prepares a training table, builds its heart-axis encoding from the
// values it contains in first-seen order and records the imputation statistics.
// A sex value outside 0/1 (or m/f) is a SchemaError.
func (p *Preprocessor) Clean(t *data.Table) (*Dataset, error) {
    return p.run(t, nil)
}

// Apply prepares a table with an encoding built earlier by Clean. Missing
// numerics are imputed from the encoding's training statistics only. The target
// column is optional here; rows without it get data.NoLabel.
func (p *Preprocessor) Apply(t *data.Table, enc *Encoding) (*Dataset, error) {
    if enc == nil { return nil, errors.New("apply: nil encoding") }
    return p.run(t, enc)
}

func (p *Preprocessor) required(withTarget bool) []string {
    cols := []string{data.ColAge, data.ColHeight, data.ColWeight, data.ColSex, data.ColHeartAxis, data.ColPacemaker}
    if withTarget { cols = append(cols, p.target()) }
    return cols
}

func (p *Preprocessor) target() string {
    if p.Target == "" { return data.ColDiagnosis }
    return p.Target
}

func (p *Preprocessor) run(t *data.Table, frozen *Encoding) (*Dataset, error) {
    log := utils.OrNop(p.Logger)
    if err := t.Require(p.required(frozen == nil)...); err != nil { return nil, err }

    drop := make(map[string]bool, len(p.Drop))
    for _, c := range p.Drop { drop[c] = true }
    var columns []string
    for _, h := range t.Header {
        if drop[h] || h == p.target() { continue }
        columns = append(columns, h)
    }

    im := &Imputation{}
    if frozen != nil {
        if frozen.Imputation == nil { return nil, errors.New("apply: encoding has no imputation statistics") }
        im = frozen.Imputation
    }

    n := t.Len()
    numeric := make(map[string][]float64, len(columns))
    for _, c := range columns {
        if c == data.ColHeartAxis || c == data.ColPacemaker { continue }
        col := make([]float64, n)
        for i := 0; i < n; i++ {
            raw := t.Get(i, c)
            if c != data.ColSex { col[i] = parseNumber(raw); continue }
            v, ok := parseSex(raw)
            if !ok { return nil, &data.SchemaError{Column: c, Row: i, Value: raw} }
            col[i] = v
        }
        numeric[c] = col
    }

    var gaps []*ImputationGap
    sex := numeric[data.ColSex]
    if frozen == nil { im.fitAge(numeric[data.ColAge], numeric[data.ColHeight], numeric[data.ColWeight]) }
    age, g := im.imputeAge(numeric[data.ColAge], numeric[data.ColHeight], numeric[data.ColWeight])
    gaps = append(gaps, g...)
    if frozen == nil {
        im.HeightMeans = groupMeans(numeric[data.ColHeight], age, sex, heightBins)
        im.WeightMeans = groupMeans(numeric[data.ColWeight], age, sex, weightBins)
    }
    height, g := imputeByGroup(data.ColHeight, numeric[data.ColHeight], age, sex, heightBins, im.HeightMeans)
    gaps = append(gaps, g...)
    weight, g := imputeByGroup(data.ColWeight, numeric[data.ColWeight], age, sex, weightBins, im.WeightMeans)
    gaps = append(gaps, g...)
    numeric[data.ColAge], numeric[data.ColHeight], numeric[data.ColWeight] = age, height, weight
    if frozen == nil { im.ColumnMeans = columnMeans(numeric, data.ColAge, data.ColHeight, data.ColWeight) }

    var gapErr error
    for _, gp := range gaps {
        if p.Gaps == GapGlobalMean {
            if m, ok := im.ColumnMeans[gp.Column]; ok {
                numeric[gp.Column][gp.Row] = m
                gp.Fallback = true
            }
        }
        gapErr = multierr.Append(gapErr, gp)
    }
    if len(gaps) > 0 {
        log.Warn("imputation gaps", zap.Int("count", len(gaps)), zap.Int("policy", int(p.Gaps)))
        if p.Gaps == GapFail {
            return nil, errors.Join(ErrUnresolved, gapErr)
        }
    }

    enc := frozen
    if enc == nil { enc = &Encoding{Imputation: im} }
    axis := make([]float64, n)
    pacemaker := make([]float64, n)
    for i := 0; i < n; i++ {
        a := t.Get(i, data.ColHeartAxis)
        if isMissing(a) { a = MissingCategory }
        if frozen == nil {
            axis[i] = float64(enc.add(a))
        } else {
            axis[i] = float64(enc.Code(a))
        }
        pm := t.Get(i, data.ColPacemaker)
        if isMissing(pm) { pm = MissingCategory }
        if strings.Contains(pm, PacemakerToken) { pacemaker[i] = 1 }
    }
    numeric[data.ColHeartAxis], numeric[data.ColPacemaker] = axis, pacemaker

    ds := &Dataset{Columns: columns, Target: p.target(), X: make([][]float64, n), Y: make([]int, n), Encoding: enc, gaps: gapErr}
    unknown := 0
    for i := 0; i < n; i++ {
        row := make([]float64, len(columns))
        for j, c := range columns { row[j] = numeric[c][i] }
        ds.X[i] = row
        ds.Y[i] = data.LabelOf(strings.TrimSpace(t.Get(i, p.target())))
        if ds.Y[i] == data.NoLabel { unknown++ }
    }
    log.Info("dataset cleaned",
        zap.Int("records", n),
        zap.Strings("features", columns),
        zap.Int("unknown_targets", unknown),
        zap.Int("heart_axis_categories", len(enc.HeartAxis)),
    )
    return ds, nil
}

func isMissing(s string) bool {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "", "nan", "na", "null", "none":
        return true
    }
    return false
}

func parseNumber(s string) float64 {
    if isMissing(s) { return math.NaN() }
    v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
    if err != nil { return math.NaN() }
    return v
}

// Recognised sex codes: 0 male, 1 female.
var sexCodes = map[string]float64{
    "0": 0, "m": 0, "male": 0, "männlich": 0,
    "1": 1, "f": 1, "female": 1, "w": 1, "weiblich": 1,
}

// parseSex maps a raw sex cell onto 0 or 1. Missing cells give NaN; values
// outside the vocabulary are rejected.
func parseSex(s string) (float64, bool) {
    if isMissing(s) { return math.NaN(), true }
    v := strings.ToLower(strings.TrimSpace(s))
    if c, ok := sexCodes[v]; ok { return c, true }
    if f, err := strconv.ParseFloat(v, 64); err == nil && (f == 0 || f == 1) { return f, true }
    return 0, false
}

func formatNumber(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
