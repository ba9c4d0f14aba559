// Package evaluation scores predictions against held-out labels.
package evaluation

import (
    "errors"
    "fmt"
    "sort"
    "strconv"

    "ecgrhythm/internal/data"
)

// Aggregate row keys, as used by Get.
const (
    KeyAccuracy    = "accuracy"
    KeyMacroAvg    = "macro avg"
    KeyWeightedAvg = "weighted avg"
)

type Metrics struct {
    Precision float64 `json:"precision"`
    Recall    float64 `json:"recall"`
    F1        float64 `json:"f1-score"`
    Support   int     `json:"support"`
}

type ClassRow struct {
    Label int    `json:"label"`
    Name  string `json:"name"`
    Metrics
}

// ClassificationReport holds per-class metrics for every label present in
// either the true or the predicted labels, in ascending label order.
type ClassificationReport struct {
    Classes     []ClassRow `json:"classes"`
    MacroAvg    Metrics    `json:"macro avg"`
    WeightedAvg Metrics    `json:"weighted avg"`
    Accuracy    float64    `json:"accuracy"`
}

var ErrLength = errors.New("true and predicted labels differ in length")

// NewReport computes the report. Precision of a class never predicted, and
// recall of a class never present, are 0.
func NewReport(yTrue, yPred []int) (*ClassificationReport, error) {
    if len(yTrue) != len(yPred) { return nil, fmt.Errorf("%w: %d vs %d", ErrLength, len(yTrue), len(yPred)) }
    seen := map[int]bool{}
    for i := range yTrue { seen[yTrue[i]] = true; seen[yPred[i]] = true }
    labels := make([]int, 0, len(seen))
    for l := range seen { labels = append(labels, l) }
    sort.Ints(labels)

    tp := map[int]int{}
    predicted := map[int]int{}
    support := map[int]int{}
    correct := 0
    for i := range yTrue {
        support[yTrue[i]]++
        predicted[yPred[i]]++
        if yTrue[i] == yPred[i] { tp[yTrue[i]]++; correct++ }
    }

    r := &ClassificationReport{}
    total := len(yTrue)
    for _, l := range labels {
        m := Metrics{Support: support[l]}
        if predicted[l] > 0 { m.Precision = float64(tp[l]) / float64(predicted[l]) }
        if support[l] > 0 { m.Recall = float64(tp[l]) / float64(support[l]) }
        if m.Precision+m.Recall > 0 { m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall) }
        r.Classes = append(r.Classes, ClassRow{Label: l, Name: data.LabelName(l), Metrics: m})

        r.MacroAvg.Precision += m.Precision
        r.MacroAvg.Recall += m.Recall
        r.MacroAvg.F1 += m.F1
        w := float64(m.Support)
        r.WeightedAvg.Precision += w * m.Precision
        r.WeightedAvg.Recall += w * m.Recall
        r.WeightedAvg.F1 += w * m.F1
    }
    if k := float64(len(labels)); k > 0 {
        r.MacroAvg.Precision /= k
        r.MacroAvg.Recall /= k
        r.MacroAvg.F1 /= k
    }
    if total > 0 {
        n := float64(total)
        r.WeightedAvg.Precision /= n
        r.WeightedAvg.Recall /= n
        r.WeightedAvg.F1 /= n
        r.Accuracy = float64(correct) / n
    }
    r.MacroAvg.Support = total
    r.WeightedAvg.Support = total
    return r, nil
}

// Get looks a row up by human-readable name, by numeric label, or by one of
// the aggregate keys. The accuracy row carries the score in every metric.
func (r *ClassificationReport) Get(key string) (Metrics, bool) {
    switch key {
    case KeyMacroAvg:
        return r.MacroAvg, true
    case KeyWeightedAvg:
        return r.WeightedAvg, true
    case KeyAccuracy:
        return Metrics{Precision: r.Accuracy, Recall: r.Accuracy, F1: r.Accuracy, Support: r.MacroAvg.Support}, true
    }
    for _, c := range r.Classes {
        if c.Name == key || strconv.Itoa(c.Label) == key { return c.Metrics, true }
    }
    return Metrics{}, false
}

// Keys lists the row keys in report order.
func (r *ClassificationReport) Keys() []string {
    out := make([]string, 0, len(r.Classes)+3)
    for _, c := range r.Classes { out = append(out, c.Name) }
    return append(out, KeyAccuracy, KeyMacroAvg, KeyWeightedAvg)
}
