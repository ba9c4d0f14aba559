package training

import (
    "fmt"
    "strconv"
    "strings"
    "time"

    "ecgrhythm/internal/models"
)

// Hyperparameters configure one forest.
type Hyperparameters struct {
    NEstimators     int
    MaxDepth        int // 0 for unlimited
    MinSamplesSplit int
    MaxFeatures     int // models.MaxFeaturesSqrt, models.MaxFeaturesAll or a count
    ClassWeight     Weighting
}

// DefaultHyperparameters is the no-search configuration: 100 fully grown,
// unweighted trees.
func DefaultHyperparameters() Hyperparameters {
    return Hyperparameters{NEstimators: 100, MinSamplesSplit: 2, MaxFeatures: models.MaxFeaturesSqrt}
}

func (h Hyperparameters) String() string {
    depth := "None"
    if h.MaxDepth > 0 { depth = strconv.Itoa(h.MaxDepth) }
    return fmt.Sprintf("n_estimators=%d max_depth=%s min_samples_split=%d max_features=%s class_weight=%s",
        h.NEstimators, depth, h.MinSamplesSplit, maxFeaturesName(h.MaxFeatures), h.ClassWeight)
}

func maxFeaturesName(v int) string {
    switch v {
    case models.MaxFeaturesSqrt:
        return "sqrt"
    case models.MaxFeaturesAll:
        return "None"
    }
    return strconv.Itoa(v)
}

// Plan selects one of the two training paths.
type Plan interface{ plan() }

// Fixed trains a single forest with the given hyperparameters.
type Fixed struct{ Params Hyperparameters }

// SearchOver cross-validates every combination of Grid and refits the best.
type SearchOver struct {
    Grid   Grid
    Folds  int
    Budget Budget
}

func (Fixed) plan()      {}
func (SearchOver) plan() {}

// Budget bounds a search. Zero values mean unbounded.
type Budget struct {
    MaxEvaluations int
    Timeout        time.Duration
}

// DefaultFolds is k of the k-fold cross validation.
const DefaultFolds = 5

// Grid holds candidate values per hyperparameter. An empty list keeps the
// default value for that hyperparameter.
type Grid struct {
    NEstimators     []int
    MaxDepth        []int
    MinSamplesSplit []int
    MaxFeatures     []int
    ClassWeight     []Weighting
}

// Candidates enumerates the grid in a fixed order: class_weight, max_depth,
// max_features, min_samples_split, n_estimators, the last varying fastest.
func (g Grid) Candidates() []Hyperparameters {
    def := DefaultHyperparameters()
    cw := g.ClassWeight
    if len(cw) == 0 { cw = []Weighting{def.ClassWeight} }
    depth := orDefault(g.MaxDepth, def.MaxDepth)
    feats := orDefault(g.MaxFeatures, def.MaxFeatures)
    split := orDefault(g.MinSamplesSplit, def.MinSamplesSplit)
    trees := orDefault(g.NEstimators, def.NEstimators)

    var out []Hyperparameters
    for _, w := range cw {
        for _, d := range depth {
            for _, f := range feats {
                for _, s := range split {
                    for _, n := range trees {
                        out = append(out, Hyperparameters{NEstimators: n, MaxDepth: d, MinSamplesSplit: s, MaxFeatures: f, ClassWeight: w})
                    }
                }
            }
        }
    }
    return out
}

func orDefault(vs []int, def int) []int {
    if len(vs) == 0 { return []int{def} }
    return vs
}

// ParseGrid converts a decoded configuration mapping (name → candidates)
// into a Grid. "None"/null stand for an unlimited depth, all features, or no
// class weighting.
func ParseGrid(raw map[string][]any) (Grid, error) {
    var g Grid
    for name, values := range raw {
        for _, v := range values {
            var err error
            switch name {
            case "n_estimators":
                var n int
                n, err = positive(name, v)
                g.NEstimators = append(g.NEstimators, n)
            case "max_depth":
                var n int
                if !isNone(v) { n, err = positive(name, v) }
                g.MaxDepth = append(g.MaxDepth, n)
            case "min_samples_split":
                var n int
                n, err = positive(name, v)
                if err == nil && n < 2 { err = fmt.Errorf("min_samples_split must be >= 2, got %d", n) }
                g.MinSamplesSplit = append(g.MinSamplesSplit, n)
            case "max_features":
                var n int
                switch {
                case isNone(v):
                    n = models.MaxFeaturesAll
                case fmt.Sprint(v) == "sqrt":
                    n = models.MaxFeaturesSqrt
                default:
                    n, err = positive(name, v)
                }
                g.MaxFeatures = append(g.MaxFeatures, n)
            case "class_weight":
                switch s := strings.ToLower(fmt.Sprint(v)); {
                case isNone(v):
                    g.ClassWeight = append(g.ClassWeight, Weighting{Kind: Unweighted})
                case s == "balanced":
                    g.ClassWeight = append(g.ClassWeight, Weighting{Kind: Balanced})
                default:
                    err = fmt.Errorf("unsupported class_weight %q", s)
                }
            default:
                return Grid{}, fmt.Errorf("unknown hyperparameter %q", name)
            }
            if err != nil { return Grid{}, err }
        }
    }
    return g, nil
}

func isNone(v any) bool {
    if v == nil { return true }
    s := strings.ToLower(fmt.Sprint(v))
    return s == "none" || s == "null"
}

func positive(name string, v any) (int, error) {
    var n int
    switch x := v.(type) {
    case int:
        n = x
    case int64:
        n = int(x)
    case uint64:
        n = int(x)
    case float64:
        if x != float64(int(x)) { return 0, fmt.Errorf("%s: %v is not an integer", name, v) }
        n = int(x)
    case string:
        var err error
        if n, err = strconv.Atoi(x); err != nil { return 0, fmt.Errorf("%s: %w", name, err) }
    default:
        return 0, fmt.Errorf("%s: unsupported value %v", name, v)
    }
    if n <= 0 { return 0, fmt.Errorf("%s must be positive, got %d", name, n) }
    return n, nil
}
