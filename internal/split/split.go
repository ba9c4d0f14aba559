// Package split partitions labelled rows into train and test sets per class.
package split

import (
    "errors"
    "fmt"
    "math"
    "math/rand"
    "sort"
)

// DefaultTestFraction and DefaultSeed reproduce the reference 80/20 split.
const (
    DefaultTestFraction = 0.2
    DefaultSeed         = 42
)

// SingletonPolicy decides where a class with a single member goes.
type SingletonPolicy int

const (
    // SingletonTrain keeps single-member classes in the train set.
    SingletonTrain SingletonPolicy = iota
    // SingletonDraw assigns them by the seeded draw, so they may end up in test only.
    SingletonDraw
)

type Options struct {
    TestFraction float64
    Seed         int64
    Singletons   SingletonPolicy
}

func DefaultOptions() Options {
    return Options{TestFraction: DefaultTestFraction, Seed: DefaultSeed, Singletons: SingletonTrain}
}

// Result holds row indices into the input. Train is ascending; Test follows
// the order classes were first seen, then draw order.
type Result struct {
    Train []int
    Test  []int
    // Singletons lists classes that had exactly one member.
    Singletons []int
}

var ErrBadFraction = errors.New("test fraction must be in (0, 1)")

// Stratified selects ceil(fraction·n) rows of every class with n ≥ 2 members
// into the test set, keeping at least one row of that class in train. Each
// class draws from its own generator seeded with opts.Seed, so a class's
// assignment does not depend on which other classes are present.
func Stratified(labels []int, opts Options) (Result, error) {
    if opts.TestFraction <= 0 || opts.TestFraction >= 1 || math.IsNaN(opts.TestFraction) {
        return Result{}, fmt.Errorf("%w: %v", ErrBadFraction, opts.TestFraction)
    }
    var order []int
    byClass := map[int][]int{}
    for i, y := range labels {
        if _, ok := byClass[y]; !ok { order = append(order, y) }
        byClass[y] = append(byClass[y], i)
    }

    var res Result
    inTest := make([]bool, len(labels))
    for _, c := range order {
        idx := byClass[c]
        rng := rand.New(rand.NewSource(opts.Seed))
        perm := rng.Perm(len(idx))
        nTest := testCount(len(idx), opts.TestFraction)
        if len(idx) == 1 {
            res.Singletons = append(res.Singletons, c)
            if opts.Singletons == SingletonDraw && rng.Float64() < opts.TestFraction { nTest = 1 }
        }
        for _, p := range perm[:nTest] {
            res.Test = append(res.Test, idx[p])
            inTest[idx[p]] = true
        }
    }
    for i := range labels {
        if !inTest[i] { res.Train = append(res.Train, i) }
    }
    sort.Ints(res.Train)
    return res, nil
}

func testCount(n int, fraction float64) int {
    if n < 2 { return 0 }
    k := int(math.Ceil(fraction * float64(n)))
    if k < 1 { k = 1 }
    if k > n-1 { k = n - 1 }
    return k
}
