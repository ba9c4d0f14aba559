package training

import (
    "fmt"
    "sort"
    "strings"
)

// ClassWeightMap maps a class label to the weight of its samples.
type ClassWeightMap map[int]float64

// InverseFrequency weighs class c by total/count(c).
func InverseFrequency(y []int) ClassWeightMap {
    counts := map[int]int{}
    for _, v := range y { counts[v]++ }
    out := make(ClassWeightMap, len(counts))
    for c, n := range counts { out[c] = float64(len(y)) / float64(n) }
    return out
}

// balanced weighs class c by total/(classes·count(c)).
func balanced(y []int) ClassWeightMap {
    out := InverseFrequency(y)
    k := float64(len(out))
    for c := range out { out[c] /= k }
    return out
}

func (m ClassWeightMap) String() string {
    keys := make([]int, 0, len(m))
    for c := range m { keys = append(keys, c) }
    sort.Ints(keys)
    parts := make([]string, len(keys))
    for i, c := range keys { parts[i] = fmt.Sprintf("%d:%.4g", c, m[c]) }
    return "{" + strings.Join(parts, " ") + "}"
}

type WeightKind int

const (
    Unweighted WeightKind = iota
    Balanced
    Custom
)

// Weighting is one candidate value of the class-weight hyperparameter.
type Weighting struct {
    Kind    WeightKind
    Weights ClassWeightMap
}

func (w Weighting) resolve(y []int) map[int]float64 {
    switch w.Kind {
    case Balanced:
        return balanced(y)
    case Custom:
        return w.Weights
    }
    return nil
}

func (w Weighting) String() string {
    switch w.Kind {
    case Balanced:
        return "balanced"
    case Custom:
        return w.Weights.String()
    }
    return "none"
}
