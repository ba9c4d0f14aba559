package evaluation

import (
    "errors"
    "fmt"

    "ecgrhythm/internal/data"
)

// Classifier is what the evaluator needs from a trained model.
type Classifier interface {
    Predict(X [][]float64) []int
    Width() int
}

var ErrEmptyTest = errors.New("empty test set")

// Evaluate predicts X and scores the predictions against y. The confusion
// matrix spans the whole closed label set, so labels absent from the test set
// give all-zero rows and columns.
func Evaluate(model Classifier, X [][]float64, y []int) (*ClassificationReport, *ConfusionMatrix, error) {
    if len(X) == 0 { return nil, nil, ErrEmptyTest }
    if len(X) != len(y) { return nil, nil, fmt.Errorf("%w: %d rows, %d labels", ErrLength, len(X), len(y)) }
    for _, row := range X {
        if len(row) != model.Width() {
            return nil, nil, &data.SchemaError{Want: model.Width(), Got: len(row)}
        }
    }
    pred := model.Predict(X)
    report, err := NewReport(y, pred)
    if err != nil { return nil, nil, err }
    return report, NewConfusionMatrix(y, pred, data.Labels()), nil
}
