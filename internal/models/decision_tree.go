package models

import (
    "errors"
    "fmt"
    "math"
    "math/rand"
    "sort"
)

type DTNode struct {
    Feature   int
    Threshold float64
    Left      *DTNode
    Right     *DTNode
    IsLeaf    bool
    Proba     []float64
    Weight    float64
    Impurity  float64
}

// DecisionTree is a CART classifier using weighted Gini impurity. Missing
// values (NaN) always go to the right child.
type DecisionTree struct {
    MaxDepth        int // 0 grows until leaves are pure
    MinSamplesSplit int
    MaxFeatures     int // features tried per split, 0 for all
    Seed            int64
    Classes         []int
    NFeatures       int
    Root            *DTNode
    Importances     []float64
}

func NewDecisionTree() *DecisionTree {
    return &DecisionTree{MinSamplesSplit: 2}
}

func (dt *DecisionTree) Name() string { return "DecisionTree" }

func (dt *DecisionTree) Labels() []int { return dt.Classes }

func (dt *DecisionTree) Width() int { return dt.NFeatures }

func (dt *DecisionTree) FeatureImportances() []float64 { return dt.Importances }

var (
    ErrEmptyInput = errors.New("empty training set")
    ErrRagged     = errors.New("rows of different width")
)

func (dt *DecisionTree) Fit(X [][]float64, y []int) error {
    classes, yi, err := encodeLabels(X, y)
    if err != nil { return err }
    dt.Classes = classes
    w := make([]float64, len(X))
    for i := range w { w[i] = 1 }
    dt.fit(X, yi, w, len(classes), rand.New(rand.NewSource(dt.Seed)))
    return nil
}

// fit grows the tree on class indices yi with per-row weights; rows of zero
// weight are ignored.
func (dt *DecisionTree) fit(X [][]float64, yi []int, w []float64, nClasses int, rng *rand.Rand) {
    dt.NFeatures = len(X[0])
    dt.Importances = make([]float64, dt.NFeatures)
    idx := make([]int, 0, len(X))
    for i := range X {
        if w[i] > 0 { idx = append(idx, i) }
    }
    b := &builder{dt: dt, X: X, y: yi, w: w, k: nClasses, rng: rng}
    dt.Root = b.build(idx, 0)
    total := 0.0
    for _, v := range dt.Importances { total += v }
    if total > 0 {
        for f := range dt.Importances { dt.Importances[f] /= total }
    }
}

func (dt *DecisionTree) Predict(X [][]float64) []int {
    out := make([]int, len(X))
    for i := range X { out[i] = dt.Classes[argmax(dt.predictProbaOne(X[i]))] }
    return out
}

func (dt *DecisionTree) PredictProba(X [][]float64) [][]float64 {
    out := make([][]float64, len(X))
    for i := range X { out[i] = append([]float64(nil), dt.predictProbaOne(X[i])...) }
    return out
}

func (dt *DecisionTree) predictProbaOne(x []float64) []float64 {
    n := dt.Root
    for !n.IsLeaf {
        if x[n.Feature] <= n.Threshold { n = n.Left } else { n = n.Right }
    }
    return n.Proba
}

type builder struct {
    dt  *DecisionTree
    X   [][]float64
    y   []int
    w   []float64
    k   int
    rng *rand.Rand
}

func (b *builder) distribution(idx []int) ([]float64, float64) {
    counts := make([]float64, b.k)
    total := 0.0
    for _, i := range idx {
        counts[b.y[i]] += b.w[i]
        total += b.w[i]
    }
    return counts, total
}

func (b *builder) build(idx []int, depth int) *DTNode {
    counts, total := b.distribution(idx)
    node := &DTNode{Weight: total, Impurity: gini(counts, total), Proba: normalize(counts, total)}
    minSplit := b.dt.MinSamplesSplit
    if minSplit < 2 { minSplit = 2 }
    if len(idx) < minSplit || (b.dt.MaxDepth > 0 && depth >= b.dt.MaxDepth) || node.Impurity <= 0 {
        node.IsLeaf = true
        return node
    }

    s, ok := b.bestSplit(idx, total)
    if !ok {
        node.IsLeaf = true
        return node
    }
    node.Feature = s.feature
    node.Threshold = s.threshold
    node.Left = b.build(s.left, depth+1)
    node.Right = b.build(s.right, depth+1)
    b.dt.Importances[s.feature] += node.Weight*node.Impurity -
        node.Left.Weight*node.Left.Impurity - node.Right.Weight*node.Right.Impurity
    return node
}

type split struct {
    feature     int
    threshold   float64
    score       float64
    left, right []int
}

// bestSplit sweeps every boundary between distinct sorted values of the
// sampled features and keeps the lowest weighted child impurity. Ties keep
// the first candidate found. When none of the sampled features can split,
// further features are drawn until one can or all were tried.
func (b *builder) bestSplit(idx []int, total float64) (split, bool) {
    best := split{feature: -1, score: math.Inf(1)}
    sorted := make([]int, len(idx))
    left := make([]float64, b.k)
    order, limit := pickFeatures(b.dt.NFeatures, b.dt.MaxFeatures, b.rng)
    for n, f := range order {
        if n >= limit && best.feature >= 0 { break }
        copy(sorted, idx)
        sort.SliceStable(sorted, func(i, j int) bool { return lessNaNLast(b.X[sorted[i]][f], b.X[sorted[j]][f]) })
        for c := range left { left[c] = 0 }
        right, _ := b.distribution(idx)
        wl := 0.0
        for p := 0; p < len(sorted)-1; p++ {
            i := sorted[p]
            left[b.y[i]] += b.w[i]
            right[b.y[i]] -= b.w[i]
            wl += b.w[i]
            v, next := b.X[i][f], b.X[sorted[p+1]][f]
            if math.IsNaN(v) { break }
            if v == next { continue }
            wr := total - wl
            if wl <= 0 || wr <= 0 { continue }
            score := (wl*gini(left, wl) + wr*gini(right, wr)) / total
            if score < best.score {
                thr := v
                if !math.IsNaN(next) { thr = v + (next-v)/2 }
                best = split{feature: f, threshold: thr, score: score}
                best.left = append([]int(nil), sorted[:p+1]...)
                best.right = append([]int(nil), sorted[p+1:]...)
            }
        }
    }
    return best, best.feature >= 0
}

func lessNaNLast(a, b float64) bool {
    if math.IsNaN(a) { return false }
    if math.IsNaN(b) { return true }
    return a < b
}

func gini(counts []float64, total float64) float64 {
    if total <= 0 { return 0 }
    g := 1.0
    for _, c := range counts {
        p := c / total
        g -= p * p
    }
    if g < 0 { return 0 }
    return g
}

func normalize(counts []float64, total float64) []float64 {
    out := make([]float64, len(counts))
    if total <= 0 { return out }
    for i, c := range counts { out[i] = c / total }
    return out
}

func argmax(p []float64) int {
    best := 0
    for i := 1; i < len(p); i++ {
        if p[i] > p[best] { best = i }
    }
    return best
}

// pickFeatures returns the order features are tried in and how many of them
// make up the regular sample.
func pickFeatures(nFeats int, maxFeats int, rng *rand.Rand) ([]int, int) {
    if maxFeats <= 0 || maxFeats >= nFeats {
        out := make([]int, nFeats)
        for i := range out { out[i] = i }
        return out, nFeats
    }
    return rng.Perm(nFeats), maxFeats
}

// encodeLabels validates the training matrix and maps labels onto indices of
// their sorted distinct values.
func encodeLabels(X [][]float64, y []int) ([]int, []int, error) {
    if len(X) == 0 { return nil, nil, ErrEmptyInput }
    if len(X) != len(y) { return nil, nil, fmt.Errorf("%d rows but %d labels", len(X), len(y)) }
    width := len(X[0])
    if width == 0 { return nil, nil, ErrEmptyInput }
    seen := map[int]bool{}
    for i := range X {
        if len(X[i]) != width { return nil, nil, fmt.Errorf("%w: row %d has %d, want %d", ErrRagged, i, len(X[i]), width) }
        seen[y[i]] = true
    }
    classes := make([]int, 0, len(seen))
    for c := range seen { classes = append(classes, c) }
    sort.Ints(classes)
    pos := make(map[int]int, len(classes))
    for i, c := range classes { pos[c] = i }
    yi := make([]int, len(y))
    for i := range y { yi[i] = pos[y[i]] }
    return classes, yi, nil
}
