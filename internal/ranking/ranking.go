// Package ranking orders feature columns by the importance a model assigns them.
package ranking

import (
    "errors"
    "fmt"
    "sort"
)

// Importancer is implemented by models exposing one importance per feature.
type Importancer interface {
    FeatureImportances() []float64
}

type Ranked struct {
    Name       string  `json:"name"`
    Importance float64 `json:"importance"`
}

var ErrNoImportances = errors.New("model has no feature importances")

// Rank pairs names with the model's importances and sorts them descending.
// Equal importances keep the input column order.
func Rank(model Importancer, names []string) ([]Ranked, error) {
    imp := model.FeatureImportances()
    if len(imp) == 0 { return nil, ErrNoImportances }
    if len(imp) != len(names) {
        return nil, fmt.Errorf("%d feature names for %d importances", len(names), len(imp))
    }
    out := make([]Ranked, len(names))
    for i := range names { out[i] = Ranked{Name: names[i], Importance: imp[i]} }
    sort.SliceStable(out, func(a, b int) bool { return out[a].Importance > out[b].Importance })
    return out, nil
}

// Top returns at most n entries; n <= 0 returns all of them.
func Top(r []Ranked, n int) []Ranked {
    if n <= 0 || n >= len(r) { return r }
    return r[:n]
}

// Total sums the importances.
func Total(r []Ranked) float64 {
    s := 0.0
    for _, e := range r { s += e.Importance }
    return s
}
