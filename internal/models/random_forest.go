package models

import (
    "context"
    "math"
    "math/rand"
    "runtime"

    "golang.org/x/sync/errgroup"
)

const (
    // MaxFeaturesSqrt samples floor(sqrt(n)) features per split.
    MaxFeaturesSqrt = 0
    // MaxFeaturesAll tries every feature at every split.
    MaxFeaturesAll = -1
)

// RandomForest averages the class probabilities of bootstrapped trees.
// A fitted forest is read-only and safe for concurrent prediction.
type RandomForest struct {
    Kind        string
    NEstimators int
    MaxDepth    int
    MinSamples  int
    MaxFeatures int
    // ClassWeight scales every sample of a class; nil weighs all classes 1.
    ClassWeight map[int]float64
    Seed        int64
    Workers     int
    Classes     []int
    NFeatures   int
    Trees       []*DecisionTree
    Importances []float64
}

func NewRandomForest() *RandomForest {
    return &RandomForest{Kind: KindRandomForest, NEstimators: 100, MinSamples: 2, MaxFeatures: MaxFeaturesSqrt, Seed: 42}
}

func (rf *RandomForest) Name() string {
    if rf.Kind == "" { return KindRandomForest }
    return rf.Kind
}

func (rf *RandomForest) Labels() []int { return rf.Classes }

func (rf *RandomForest) Width() int { return rf.NFeatures }

// FeatureImportances are aligned to the training columns and sum to 1 once
// any tree has split.
func (rf *RandomForest) FeatureImportances() []float64 { return rf.Importances }

func (rf *RandomForest) Fit(X [][]float64, y []int) error {
    return rf.FitContext(context.Background(), X, y)
}

// FitContext grows the trees concurrently. Every tree draws from its own
// generator derived from Seed, so the result does not depend on Workers.
func (rf *RandomForest) FitContext(ctx context.Context, X [][]float64, y []int) error {
    classes, yi, err := encodeLabels(X, y)
    if err != nil { return err }
    if rf.NEstimators <= 0 { rf.NEstimators = 100 }
    n := len(X)
    rf.Classes = classes
    rf.NFeatures = len(X[0])
    maxFeats := rf.featuresPerSplit()

    classW := make([]float64, len(classes))
    for i, c := range classes {
        classW[i] = 1
        if w, ok := rf.ClassWeight[c]; ok && w > 0 && !math.IsInf(w, 0) { classW[i] = w }
    }

    seeds := make([]int64, rf.NEstimators)
    master := rand.New(rand.NewSource(rf.Seed))
    for k := range seeds { seeds[k] = master.Int63() }

    rf.Trees = make([]*DecisionTree, rf.NEstimators)
    g, gctx := errgroup.WithContext(ctx)
    workers := rf.Workers
    if workers <= 0 { workers = runtime.GOMAXPROCS(0) }
    g.SetLimit(workers)
    for k := 0; k < rf.NEstimators; k++ {
        g.Go(func() error {
            if err := gctx.Err(); err != nil { return err }
            rng := rand.New(rand.NewSource(seeds[k]))
            w := make([]float64, n)
            for i := 0; i < n; i++ { w[rng.Intn(n)]++ }
            for i := range w { w[i] *= classW[yi[i]] }
            dt := &DecisionTree{MaxDepth: rf.MaxDepth, MinSamplesSplit: rf.MinSamples, MaxFeatures: maxFeats, Seed: seeds[k], Classes: classes}
            dt.fit(X, yi, w, len(classes), rng)
            rf.Trees[k] = dt
            return nil
        })
    }
    if err := g.Wait(); err != nil { return err }
    rf.Importances = rf.meanImportances()
    return nil
}

func (rf *RandomForest) featuresPerSplit() int {
    switch {
    case rf.MaxFeatures == MaxFeaturesAll:
        return 0
    case rf.MaxFeatures > 0:
        return rf.MaxFeatures
    }
    return int(math.Max(1, math.Floor(math.Sqrt(float64(rf.NFeatures)))))
}

// meanImportances averages the normalized importances of trees that split at
// least once and renormalizes the mean to sum to 1.
func (rf *RandomForest) meanImportances() []float64 {
    out := make([]float64, rf.NFeatures)
    used := 0
    for _, dt := range rf.Trees {
        if dt.Root == nil || dt.Root.IsLeaf { continue }
        for f, v := range dt.Importances { out[f] += v }
        used++
    }
    total := 0.0
    for _, v := range out { total += v }
    if used == 0 || total <= 0 { return out }
    for f := range out { out[f] /= total }
    return out
}

func (rf *RandomForest) Predict(X [][]float64) []int {
    ps := rf.PredictProba(X)
    out := make([]int, len(ps))
    for i := range ps { out[i] = rf.Classes[argmax(ps[i])] }
    return out
}

func (rf *RandomForest) PredictProba(X [][]float64) [][]float64 {
    k := len(rf.Classes)
    out := make([][]float64, len(X))
    for i := range X {
        acc := make([]float64, k)
        for _, dt := range rf.Trees {
            for c, p := range dt.predictProbaOne(X[i]) { acc[c] += p }
        }
        m := float64(len(rf.Trees))
        for c := range acc { acc[c] /= m }
        out[i] = acc
    }
    return out
}
