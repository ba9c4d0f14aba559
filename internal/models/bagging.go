package models

import "fmt"

// Model names, as reported by Name.
const (
    KindRandomForest = "RandomForest"
    KindBagging      = "Bagging"
)

// NewBagging returns a forest that considers every feature at each split,
// i.e. plain bootstrap aggregation of CART trees.
func NewBagging() *RandomForest {
    rf := NewRandomForest()
    rf.Kind = KindBagging
    rf.MaxFeatures = MaxFeaturesAll
    return rf
}

// New returns the ensemble named by algo: "random_forest" (or "rf", the
// default when empty) or "bagging".
func New(algo string) (*RandomForest, error) {
    switch algo {
    case "", "random_forest", "rf":
        return NewRandomForest(), nil
    case "bagging":
        return NewBagging(), nil
    }
    return nil, fmt.Errorf("unknown model %q", algo)
}
