package split

import (
    "math"
    "math/rand"
    "sort"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func labels(counts map[int]int) []int {
    var out []int
    for c := 0; c < 10; c++ {
        for i := 0; i < counts[c]; i++ { out = append(out, c) }
    }
    rand.New(rand.NewSource(1)).Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
    return out
}

func TestStratifiedKeepsClassProportions(t *testing.T) {
    counts := map[int]int{0: 57, 1: 13, 2: 5, 3: 2, 4: 100}
    y := labels(counts)
    res, err := Stratified(y, DefaultOptions())
    require.NoError(t, err)

    testCounts := map[int]int{}
    trainCounts := map[int]int{}
    for _, i := range res.Test { testCounts[y[i]]++ }
    for _, i := range res.Train { trainCounts[y[i]]++ }
    for c, n := range counts {
        want := math.Round(0.2 * float64(n))
        assert.LessOrEqual(t, math.Abs(float64(testCounts[c])-want), 1.0, "class %d", c)
        assert.Positive(t, testCounts[c], "class %d in test", c)
        assert.Positive(t, trainCounts[c], "class %d in train", c)
    }
}

func TestStratifiedPartitionsInput(t *testing.T) {
    y := labels(map[int]int{0: 21, 1: 9, 5: 4})
    res, err := Stratified(y, DefaultOptions())
    require.NoError(t, err)

    seen := make(map[int]int)
    for _, i := range res.Train { seen[i]++ }
    for _, i := range res.Test { seen[i]++ }
    require.Len(t, seen, len(y))
    for i, n := range seen {
        assert.Equal(t, 1, n, "row %d", i)
    }
    assert.True(t, sort.IntsAreSorted(res.Train))
}

func TestStratifiedIsDeterministic(t *testing.T) {
    y := []int{0, 1, 0, 1, 0, 1, 0, 1, 0, 1}
    a, err := Stratified(y, Options{TestFraction: 0.2, Seed: 7})
    require.NoError(t, err)
    b, err := Stratified(y, Options{TestFraction: 0.2, Seed: 7})
    require.NoError(t, err)
    assert.Equal(t, a, b)
    assert.Len(t, a.Train, 8)
    assert.Len(t, a.Test, 2)
}

func TestStratifiedClassDrawIndependentOfOtherClasses(t *testing.T) {
    y := []int{0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
    alone, err := Stratified(y, DefaultOptions())
    require.NoError(t, err)
    mixed, err := Stratified(append(append([]int{}, y...), 1, 1, 1, 1, 1), DefaultOptions())
    require.NoError(t, err)
    assert.Equal(t, alone.Test, mixed.Test[:len(alone.Test)])
}

func TestSingletonPolicy(t *testing.T) {
    y := []int{0, 0, 0, 0, 0, 3}
    res, err := Stratified(y, DefaultOptions())
    require.NoError(t, err)
    assert.Equal(t, []int{3}, res.Singletons)
    assert.Contains(t, res.Train, 5)
    assert.NotContains(t, res.Test, 5)

    drawn, err := Stratified(y, Options{TestFraction: 0.2, Seed: 42, Singletons: SingletonDraw})
    require.NoError(t, err)
    assert.Equal(t, len(y), len(drawn.Train)+len(drawn.Test))
}

func TestStratifiedRejectsBadFraction(t *testing.T) {
    for _, f := range []float64{0, 1, -0.1, math.NaN()} {
        _, err := Stratified([]int{0, 1}, Options{TestFraction: f})
        assert.ErrorIs(t, err, ErrBadFraction)
    }
}
