package evaluation

import (
    "bytes"
    "errors"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "ecgrhythm/internal/data"
)

type fixedModel struct {
    preds []int
    width int
}

func (f fixedModel) Predict(X [][]float64) []int { return f.preds[:len(X)] }
func (f fixedModel) Width() int                 { return f.width }

var (
    yTrue = []int{0, 0, 1, 1, 2}
    yPred = []int{0, 1, 1, 1, 0}
)

func TestReportMetrics(t *testing.T) {
    r, err := NewReport(yTrue, yPred)
    require.NoError(t, err)
    require.Len(t, r.Classes, 3)

    sr, ok := r.Get("Sinus Rhythm")
    require.True(t, ok)
    assert.Equal(t, Metrics{Precision: 0.5, Recall: 0.5, F1: 0.5, Support: 2}, sr)

    af, ok := r.Get("1")
    require.True(t, ok)
    assert.InDelta(t, 2.0/3.0, af.Precision, 1e-12)
    assert.InDelta(t, 1.0, af.Recall, 1e-12)
    assert.InDelta(t, 0.8, af.F1, 1e-12)

    sa, _ := r.Get("Sinus Arrhythmia")
    assert.Zero(t, sa.Precision)
    assert.Zero(t, sa.F1)
    assert.Equal(t, 1, sa.Support)

    assert.InDelta(t, 0.6, r.Accuracy, 1e-12)
    assert.InDelta(t, (0.5+2.0/3.0)/3, r.MacroAvg.Precision, 1e-12)
    assert.InDelta(t, (2*0.5+2*2.0/3.0)/5, r.WeightedAvg.Precision, 1e-12)
    assert.Equal(t, 5, r.WeightedAvg.Support)

    acc, ok := r.Get(KeyAccuracy)
    require.True(t, ok)
    assert.InDelta(t, 0.6, acc.F1, 1e-12)
    _, ok = r.Get("nope")
    assert.False(t, ok)
    assert.Equal(t, []string{"Sinus Rhythm", "Atrial Fibrillation", "Sinus Arrhythmia", "accuracy", "macro avg", "weighted avg"}, r.Keys())
}

func TestReportKeepsNumericCodeWithoutName(t *testing.T) {
    r, err := NewReport([]int{0, 12}, []int{0, 12})
    require.NoError(t, err)
    assert.Equal(t, "12", r.Classes[1].Name)
}

func TestReportLengthMismatch(t *testing.T) {
    _, err := NewReport([]int{0}, []int{0, 1})
    assert.ErrorIs(t, err, ErrLength)
}

func TestEvaluateConfusionOverClosedLabelSet(t *testing.T) {
    X := make([][]float64, len(yTrue))
    for i := range X { X[i] = []float64{0, 0} }
    report, cm, err := Evaluate(fixedModel{preds: yPred, width: 2}, X, yTrue)
    require.NoError(t, err)

    require.Len(t, cm.Counts, data.NumClasses)
    for _, row := range cm.Counts { assert.Len(t, row, data.NumClasses) }
    for _, c := range report.Classes {
        assert.Equal(t, c.Support, cm.RowSum(c.Label), c.Name)
    }
    assert.Equal(t, 1, cm.Counts[0][1])
    assert.Equal(t, 0, cm.RowSum(9))
    assert.Equal(t, "NSR", cm.AxisLabels()[0])
}

func TestEvaluateChecksSchemaWidth(t *testing.T) {
    _, _, err := Evaluate(fixedModel{preds: []int{0}, width: 6}, [][]float64{{1, 2}}, []int{0})
    require.ErrorIs(t, err, data.ErrSchema)
    var se *data.SchemaError
    require.True(t, errors.As(err, &se))
    assert.Equal(t, 6, se.Want)
    assert.Equal(t, 2, se.Got)

    _, _, err = Evaluate(fixedModel{width: 1}, nil, nil)
    assert.ErrorIs(t, err, ErrEmptyTest)
}

func TestReportTable(t *testing.T) {
    r, err := NewReport(yTrue, yPred)
    require.NoError(t, err)
    tbl := r.Table()
    require.Len(t, tbl.Rows, 5)
    assert.Equal(t, TableRow{Name: "Atrial Fibrillation", Precision: 66.67, Recall: 100, F1: 80, Support: 2}, tbl.Rows[1])
    assert.Equal(t, "macro avg", tbl.Rows[3].Name)
    assert.Equal(t, 60.0, tbl.Accuracy)

    var buf bytes.Buffer
    require.NoError(t, tbl.WriteCSV(&buf))
    lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
    assert.Equal(t, ",precision (%),recall (%),f1-score (%),support", lines[0])
    assert.Equal(t, "Atrial Fibrillation,66.67,100.00,80.00,2", lines[2])
    assert.Equal(t, ",,,accuracy,60.00%", lines[len(lines)-1])

    buf.Reset()
    require.NoError(t, tbl.WriteText(&buf))
    assert.Contains(t, buf.String(), "Sinus Arrhythmia")
}

func TestConfusionMatrixOutputs(t *testing.T) {
    cm := NewConfusionMatrix(yTrue, yPred, data.Labels())
    var buf bytes.Buffer
    require.NoError(t, cm.WriteText(&buf))
    assert.Contains(t, buf.String(), "TRIGU")

    path := filepath.Join(t.TempDir(), "plots", "confusion.png")
    require.NoError(t, PlotConfusionMatrix(cm, path))
    info, err := os.Stat(path)
    require.NoError(t, err)
    assert.Positive(t, info.Size())

    empty := NewConfusionMatrix(nil, nil, data.Labels())
    assert.NoError(t, PlotConfusionMatrix(empty, filepath.Join(t.TempDir(), "empty.png")))
}
