package training

import (
    "context"
    "errors"
    "math/rand"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "ecgrhythm/internal/models"
)

func twoClasses(n int, seed int64) ([][]float64, []int) {
    rng := rand.New(rand.NewSource(seed))
    X := make([][]float64, n)
    y := make([]int, n)
    for i := range X {
        y[i] = i % 2
        X[i] = []float64{float64(y[i])*4 + rng.NormFloat64(), rng.NormFloat64()}
    }
    return X, y
}

func TestInverseFrequency(t *testing.T) {
    w := InverseFrequency([]int{0, 0, 0, 1, 3, 3})
    assert.Equal(t, ClassWeightMap{0: 2, 1: 6, 3: 3}, w)
    for _, v := range w { assert.Positive(t, v) }
    assert.Equal(t, "{0:2 1:6 3:3}", w.String())
}

func TestBalancedScalesByClassCount(t *testing.T) {
    w := Weighting{Kind: Balanced}.resolve([]int{0, 0, 0, 1})
    assert.InDelta(t, 4.0/6.0, w[0], 1e-12)
    assert.InDelta(t, 2.0, w[1], 1e-12)
    assert.Nil(t, Weighting{}.resolve([]int{0, 1}))
}

func TestFitNeedsTwoClasses(t *testing.T) {
    _, err := New(nil).Fit(context.Background(), [][]float64{{1}, {2}}, []int{3, 3}, nil)
    var te *TrainingError
    require.True(t, errors.As(err, &te))
    assert.Contains(t, te.Error(), "at least 2 classes")
}

func TestFixedPathIsDeterministic(t *testing.T) {
    X, y := twoClasses(10, 1)
    a, err := New(nil).Fit(context.Background(), X[:8], y[:8], nil)
    require.NoError(t, err)
    b, err := New(nil).Fit(context.Background(), X[:8], y[:8], Fixed{Params: DefaultHyperparameters()})
    require.NoError(t, err)
    assert.Equal(t, a.Model.Predict(X[8:]), b.Model.Predict(X[8:]))
    assert.Equal(t, a.Model.PredictProba(X), b.Model.PredictProba(X))
    assert.Len(t, a.Model.Trees, 100)
    assert.Nil(t, a.Model.ClassWeight)
    assert.Nil(t, a.Search)
}

func TestAlgorithmSelectsBagging(t *testing.T) {
    X, y := twoClasses(40, 2)
    tr := New(nil)
    tr.Algorithm = "bagging"
    res, err := tr.Fit(context.Background(), X, y, Fixed{Params: Hyperparameters{NEstimators: 5, MinSamplesSplit: 2, MaxFeatures: 1}})
    require.NoError(t, err)
    assert.Equal(t, models.KindBagging, res.Model.Name())
    assert.Equal(t, models.MaxFeaturesAll, res.Model.MaxFeatures)
    assert.Equal(t, models.MaxFeaturesAll, res.Params.MaxFeatures)
    assert.Len(t, res.Model.Trees, 5)

    tr.Algorithm = "boosting"
    _, err = tr.Fit(context.Background(), X, y, nil)
    var te *TrainingError
    require.True(t, errors.As(err, &te))
    assert.Equal(t, "model", te.Reason)
}

func TestStratifiedKFold(t *testing.T) {
    y := []int{0, 1, 0, 1, 0, 1, 0, 1, 0, 1, 2, 2, 2, 2, 2}
    folds, err := StratifiedKFold(y, 5)
    require.NoError(t, err)
    require.Len(t, folds, 5)
    for _, f := range folds {
        assert.Equal(t, len(y), len(f.Train)+len(f.Test))
        classes := map[int]bool{}
        for _, i := range f.Test { classes[y[i]] = true }
        assert.Len(t, classes, 3)
    }

    _, err = StratifiedKFold([]int{0, 0, 0, 0, 0, 1, 1}, 5)
    var te *TrainingError
    assert.True(t, errors.As(err, &te))
}

func smallGrid() Grid {
    return Grid{
        NEstimators:     []int{5, 10},
        MaxDepth:        []int{0, 2},
        MinSamplesSplit: []int{2},
        ClassWeight:     []Weighting{{Kind: Balanced}},
    }
}

func TestSearchPicksBestAndRefits(t *testing.T) {
    X, y := twoClasses(60, 2)
    tr := New(nil)
    res, err := tr.Fit(context.Background(), X, y, SearchOver{Grid: smallGrid()})
    require.NoError(t, err)
    require.NotNil(t, res.Search)

    // the computed inverse-frequency weights join the class_weight candidates
    assert.Len(t, res.Search.Candidates, 2*2*2)
    assert.Equal(t, Custom, res.Search.Candidates[len(res.Search.Candidates)-1].Params.ClassWeight.Kind)

    best := res.Search.Candidates[res.Search.Best]
    for i, c := range res.Search.Candidates {
        require.True(t, c.Complete)
        assert.LessOrEqual(t, c.Mean, best.Mean)
        if c.Mean == best.Mean { assert.GreaterOrEqual(t, i, res.Search.Best, "ties keep the first candidate") }
    }
    assert.Equal(t, best.Params, res.Params)
    assert.Len(t, res.Model.Trees, best.Params.NEstimators)
    assert.Equal(t, int64(DefaultSeed), res.Model.Seed)
}

func TestSearchIsIndependentOfWorkers(t *testing.T) {
    X, y := twoClasses(40, 3)
    one := &Trainer{Seed: 7, Workers: 1}
    many := &Trainer{Seed: 7, Workers: 6}
    a, err := one.Fit(context.Background(), X, y, SearchOver{Grid: smallGrid(), Folds: 4})
    require.NoError(t, err)
    b, err := many.Fit(context.Background(), X, y, SearchOver{Grid: smallGrid(), Folds: 4})
    require.NoError(t, err)
    assert.Equal(t, a.Search.Best, b.Search.Best)
    for i := range a.Search.Candidates {
        assert.Equal(t, a.Search.Candidates[i].FoldScores, b.Search.Candidates[i].FoldScores)
    }
}

func TestSearchBudgetExhausted(t *testing.T) {
    X, y := twoClasses(40, 4)
    _, err := New(nil).Fit(context.Background(), X, y, SearchOver{Grid: smallGrid(), Budget: Budget{MaxEvaluations: 3}})
    var te *TrainingError
    require.True(t, errors.As(err, &te))
    assert.Contains(t, te.Reason, "budget")

    _, err = New(nil).Fit(context.Background(), X, y, SearchOver{Grid: smallGrid(), Budget: Budget{Timeout: time.Nanosecond}})
    require.True(t, errors.As(err, &te))
}

func TestSearchPartialBudgetKeepsCompleteCandidates(t *testing.T) {
    X, y := twoClasses(40, 5)
    res, err := New(nil).Fit(context.Background(), X, y, SearchOver{Grid: smallGrid(), Budget: Budget{MaxEvaluations: 7}})
    require.NoError(t, err)
    assert.True(t, res.Search.Candidates[0].Complete)
    assert.False(t, res.Search.Candidates[1].Complete)
    assert.Equal(t, 0, res.Search.Best)
}

func TestCandidatesOrder(t *testing.T) {
    c := Grid{NEstimators: []int{50, 100}, MaxDepth: []int{20, 0}}.Candidates()
    require.Len(t, c, 4)
    assert.Equal(t, 50, c[0].NEstimators)
    assert.Equal(t, 100, c[1].NEstimators)
    assert.Equal(t, 20, c[1].MaxDepth)
    assert.Equal(t, 0, c[2].MaxDepth)
    assert.Equal(t, 2, c[0].MinSamplesSplit)
}

func TestParseGrid(t *testing.T) {
    g, err := ParseGrid(map[string][]any{
        "n_estimators":      {50, uint64(100), 200.0},
        "max_depth":         {20, "30", nil},
        "min_samples_split": {2, 5},
        "max_features":      {"sqrt", "None", 3},
        "class_weight":      {"balanced", "none"},
    })
    require.NoError(t, err)
    assert.Equal(t, []int{50, 100, 200}, g.NEstimators)
    assert.Equal(t, []int{20, 30, 0}, g.MaxDepth)
    assert.Equal(t, []int{2, 5}, g.MinSamplesSplit)
    assert.Equal(t, []int{models.MaxFeaturesSqrt, models.MaxFeaturesAll, 3}, g.MaxFeatures)
    assert.Equal(t, []Weighting{{Kind: Balanced}, {Kind: Unweighted}}, g.ClassWeight)

    for _, bad := range []map[string][]any{
        {"learning_rate": {0.1}},
        {"n_estimators": {0}},
        {"min_samples_split": {1}},
        {"max_depth": {2.5}},
        {"class_weight": {"heavy"}},
    } {
        _, err := ParseGrid(bad)
        assert.Error(t, err, "%v", bad)
    }
}

func TestHyperparametersString(t *testing.T) {
    assert.Equal(t, "n_estimators=100 max_depth=None min_samples_split=2 max_features=sqrt class_weight=none",
        DefaultHyperparameters().String())
}
