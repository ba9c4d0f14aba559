package evaluation

import "ecgrhythm/internal/data"

// ConfusionMatrix counts (true, predicted) pairs; rows are true labels and
// columns predicted labels, both in Labels order.
type ConfusionMatrix struct {
    Labels []int   `json:"labels"`
    Counts [][]int `json:"counts"`
}

// NewConfusionMatrix builds the matrix over labels. Pairs involving a label
// outside labels are not counted.
func NewConfusionMatrix(yTrue, yPred []int, labels []int) *ConfusionMatrix {
    pos := make(map[int]int, len(labels))
    for i, l := range labels { pos[l] = i }
    m := &ConfusionMatrix{Labels: append([]int(nil), labels...), Counts: make([][]int, len(labels))}
    for i := range m.Counts { m.Counts[i] = make([]int, len(labels)) }
    for i := range yTrue {
        r, ok1 := pos[yTrue[i]]
        c, ok2 := pos[yPred[i]]
        if ok1 && ok2 { m.Counts[r][c]++ }
    }
    return m
}

// RowSum is the number of samples whose true label is label.
func (m *ConfusionMatrix) RowSum(label int) int {
    for i, l := range m.Labels {
        if l != label { continue }
        s := 0
        for _, v := range m.Counts[i] { s += v }
        return s
    }
    return 0
}

// AxisLabels returns the short diagnosis labels used on plots.
func (m *ConfusionMatrix) AxisLabels() []string {
    out := make([]string, len(m.Labels))
    for i, l := range m.Labels { out[i] = data.ShortLabel(l) }
    return out
}
