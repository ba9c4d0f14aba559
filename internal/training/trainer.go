// Package training fits the rhythm classifier, optionally selecting its
// hyperparameters by cross-validated grid search.
package training

import (
    "context"
    "errors"
    "runtime"
    "sort"

    "go.uber.org/zap"
    "golang.org/x/sync/errgroup"

    "ecgrhythm/internal/models"
    "ecgrhythm/pkg/utils"
)

// DefaultSeed seeds every forest the trainer builds.
const DefaultSeed = 42

type Trainer struct {
    Seed    int64
    Workers int
    // Algorithm names the ensemble, see models.New. Bagging ignores MaxFeatures.
    Algorithm string
    Logger    *zap.Logger
}

func New(logger *zap.Logger) *Trainer {
    return &Trainer{Seed: DefaultSeed, Logger: logger}
}

// Result is the outcome of a training run. Model must be treated as read-only.
type Result struct {
    Model        *models.RandomForest
    Params       Hyperparameters
    ClassWeights ClassWeightMap
    Search       *SearchResult
}

// CandidateScore is the cross-validation outcome of one grid point.
type CandidateScore struct {
    Params     Hyperparameters
    FoldScores []float64
    Mean       float64
    Complete   bool
}

type SearchResult struct {
    Candidates []CandidateScore
    Best       int
    BestScore  float64
}

// Fit trains on the whole training set following plan; a nil plan is the default Fixed plan.
func (t *Trainer) Fit(ctx context.Context, X [][]float64, y []int, plan Plan) (*Result, error) {
    log := utils.OrNop(t.Logger)
    if len(X) == 0 || len(X) != len(y) { return nil, failf("need matching non-empty X and y, got %d rows and %d labels", len(X), len(y)) }
    weights := InverseFrequency(y)
    if len(weights) < 2 { return nil, failf("need at least 2 classes, got %d", len(weights)) }
    if _, err := models.New(t.Algorithm); err != nil { return nil, &TrainingError{Reason: "model", Err: err} }
    log.Info("class weights", zap.Stringer("weights", weights))

    if plan == nil { plan = Fixed{Params: DefaultHyperparameters()} }
    res := &Result{ClassWeights: weights}
    switch p := plan.(type) {
    case Fixed:
        res.Params = p.Params
    case SearchOver:
        sr, err := t.search(ctx, X, y, p, weights)
        if err != nil { return nil, err }
        res.Search = sr
        res.Params = sr.Candidates[sr.Best].Params
        log.Info("training on full dataset with best parameters", zap.Stringer("params", res.Params))
    default:
        return nil, failf("unknown plan %T", plan)
    }

    rf, err := t.forest(res.Params, y, t.Workers)
    if err != nil { return nil, err }
    res.Params.MaxFeatures = rf.MaxFeatures
    if err := rf.FitContext(ctx, X, y); err != nil {
        return nil, &TrainingError{Reason: "fit", Err: err}
    }
    res.Model = rf
    log.Info("model trained", zap.String("model", rf.Name()), zap.Int("trees", len(rf.Trees)), zap.Ints("classes", rf.Classes))
    return res, nil
}

func (t *Trainer) forest(h Hyperparameters, y []int, workers int) (*models.RandomForest, error) {
    rf, err := models.New(t.Algorithm)
    if err != nil { return nil, &TrainingError{Reason: "model", Err: err} }
    rf.NEstimators = h.NEstimators
    rf.MaxDepth = h.MaxDepth
    rf.MinSamples = h.MinSamplesSplit
    if rf.Kind != models.KindBagging { rf.MaxFeatures = h.MaxFeatures }
    rf.ClassWeight = h.ClassWeight.resolve(y)
    rf.Seed = t.Seed
    rf.Workers = workers
    return rf, nil
}

func (t *Trainer) search(ctx context.Context, X [][]float64, y []int, p SearchOver, weights ClassWeightMap) (*SearchResult, error) {
    log := utils.OrNop(t.Logger)
    k := p.Folds
    if k <= 0 { k = DefaultFolds }
    grid := p.Grid
    if len(grid.ClassWeight) > 0 {
        grid.ClassWeight = append(append([]Weighting(nil), grid.ClassWeight...), Weighting{Kind: Custom, Weights: weights})
    }
    folds, err := StratifiedKFold(y, k)
    if err != nil { return nil, err }

    cands := grid.Candidates()
    log.Info("finding best training parameters",
        zap.Int("folds", k), zap.String("scoring", "accuracy"), zap.Int("candidates", len(cands)))

    if p.Budget.Timeout > 0 {
        var cancel context.CancelFunc
        ctx, cancel = context.WithTimeout(ctx, p.Budget.Timeout)
        defer cancel()
    }
    scores := make([][]float64, len(cands))
    done := make([][]bool, len(cands))
    for c := range cands {
        scores[c] = make([]float64, k)
        done[c] = make([]bool, k)
    }

    workers := t.Workers
    if workers <= 0 { workers = runtime.GOMAXPROCS(0) }
    g := new(errgroup.Group)
    g.SetLimit(workers)
    launched := 0
    for c, h := range cands {
        for f, fold := range folds {
            if p.Budget.MaxEvaluations > 0 && launched >= p.Budget.MaxEvaluations { break }
            launched++
            g.Go(func() error {
                if ctx.Err() != nil { return nil }
                rf, err := t.forest(h, subsetLabels(y, fold.Train), 1)
                if err != nil { return err }
                if err := rf.FitContext(ctx, subsetRows(X, fold.Train), subsetLabels(y, fold.Train)); err != nil {
                    if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) { return nil }
                    return err
                }
                scores[c][f] = accuracy(subsetLabels(y, fold.Test), rf.Predict(subsetRows(X, fold.Test)))
                done[c][f] = true
                return nil
            })
        }
    }
    if err := g.Wait(); err != nil { return nil, &TrainingError{Reason: "cross validation", Err: err} }

    sr := &SearchResult{Best: -1}
    for c, h := range cands {
        cs := CandidateScore{Params: h, FoldScores: scores[c], Complete: true}
        for f := range done[c] {
            if !done[c][f] { cs.Complete = false }
        }
        if cs.Complete {
            for _, s := range scores[c] { cs.Mean += s }
            cs.Mean /= float64(k)
            if sr.Best < 0 || cs.Mean > sr.BestScore {
                sr.Best, sr.BestScore = c, cs.Mean
            }
        }
        sr.Candidates = append(sr.Candidates, cs)
    }
    if sr.Best < 0 {
        return nil, failf("search budget exhausted before any of %d candidates completed", len(cands))
    }
    log.Info("best parameters", zap.Stringer("params", cands[sr.Best]), zap.Float64("score", sr.BestScore))
    return sr, nil
}

// Fold is one train/held-out partition of row indices.
type Fold struct {
    Train []int
    Test  []int
}

// StratifiedKFold deals the members of every class round-robin over k folds,
// in row order. Every class must have at least k members so no fold misses a class.
func StratifiedKFold(y []int, k int) ([]Fold, error) {
    if k < 2 { return nil, failf("need at least 2 folds, got %d", k) }
    byClass := map[int][]int{}
    for i, c := range y { byClass[c] = append(byClass[c], i) }
    classes := make([]int, 0, len(byClass))
    for c := range byClass { classes = append(classes, c) }
    sort.Ints(classes)

    assign := make([]int, len(y))
    for _, c := range classes {
        if n := len(byClass[c]); n < k {
            return nil, failf("class %d has %d samples, a %d-fold split would leave a fold without it", c, n, k)
        }
        for j, i := range byClass[c] { assign[i] = j % k }
    }
    folds := make([]Fold, k)
    for i, f := range assign {
        for j := range folds {
            if j == f {
                folds[j].Test = append(folds[j].Test, i)
            } else {
                folds[j].Train = append(folds[j].Train, i)
            }
        }
    }
    return folds, nil
}

func subsetRows(X [][]float64, idx []int) [][]float64 {
    out := make([][]float64, len(idx))
    for k, i := range idx { out[k] = X[i] }
    return out
}

func subsetLabels(y []int, idx []int) []int {
    out := make([]int, len(idx))
    for k, i := range idx { out[k] = y[i] }
    return out
}

func accuracy(y, p []int) float64 {
    if len(y) == 0 { return 0 }
    c := 0
    for i := range y { if y[i] == p[i] { c++ } }
    return float64(c) / float64(len(y))
}
