package artifacts

import (
    "path/filepath"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "ecgrhythm/internal/data"
    "ecgrhythm/internal/evaluation"
    "ecgrhythm/internal/features"
    "ecgrhythm/internal/models"
    "ecgrhythm/internal/ranking"
)

func trained(t *testing.T) (*Bundle, *features.Preprocessor, *data.Table) {
    t.Helper()
    tbl := data.GenerateSynthetic(300, 0.05, 11)
    pre := features.NewPreprocessor()
    ds, err := pre.Clean(tbl)
    require.NoError(t, err)
    ds, _ = ds.Labeled()
    rf := models.NewRandomForest()
    rf.NEstimators = 10
    require.NoError(t, rf.Fit(ds.X, ds.Y))
    return &Bundle{Model: rf, Encoding: ds.Encoding, Columns: ds.Columns, Params: "n_estimators=10"}, pre, tbl
}

func TestModelRoundTrip(t *testing.T) {
    b, pre, tbl := trained(t)
    s, err := Open(filepath.Join(t.TempDir(), "run"))
    require.NoError(t, err)
    require.NoError(t, s.SaveModel(b))
    assert.True(t, s.Exists(ModelFile))

    var enc features.Encoding
    require.NoError(t, s.LoadJSON(EncodingFile, &enc))
    assert.Equal(t, b.Encoding.HeartAxis, enc.HeartAxis)
    assert.Equal(t, b.Encoding.Imputation, enc.Imputation)

    loaded, err := s.LoadModel()
    require.NoError(t, err)
    assert.Equal(t, b.Columns, loaded.Columns)
    assert.Equal(t, b.Params, loaded.Params)
    assert.Equal(t, models.KindRandomForest, loaded.Model.Name())
    assert.Equal(t, b.Encoding.Imputation.AgeMean, loaded.Encoding.Imputation.AgeMean)

    want, err := b.Predict(pre, tbl)
    require.NoError(t, err)
    got, err := loaded.Predict(pre, tbl)
    require.NoError(t, err)
    assert.Equal(t, want.Labels, got.Labels)
}

func TestPredictAlignsColumns(t *testing.T) {
    b, pre, tbl := trained(t)
    want, err := b.Predict(pre, tbl)
    require.NoError(t, err)

    // Same records with the columns reversed.
    n := len(tbl.Header)
    header := make([]string, n)
    for i, h := range tbl.Header { header[n-1-i] = h }
    rows := make([][]string, tbl.Len())
    for r, row := range tbl.Rows {
        rev := make([]string, n)
        for i, v := range row { rev[n-1-i] = v }
        rows[r] = rev
    }
    got, err := b.Predict(pre, data.NewTable(header, rows))
    require.NoError(t, err)
    assert.Equal(t, want.Labels, got.Labels)

    b.Columns = append(b.Columns, "qrs_duration")
    _, err = b.Predict(pre, tbl)
    assert.ErrorIs(t, err, data.ErrSchema)
}

func TestPredictReportsGaps(t *testing.T) {
    b, pre, _ := trained(t)
    header := []string{"age", "sex", "height", "weight", "heart_axis", "pacemaker"}
    tbl := data.NewTable(header, [][]string{
        {"61", "1", "178", "84", "MID", ""},
        {"-5", "0", "", "70", "MID", ""},
    })
    pred, err := b.Predict(pre, tbl)
    require.NoError(t, err)
    require.Len(t, pred.Labels, 2)
    assert.Equal(t, map[int][]string{1: {"height"}}, pred.GapColumns())
    assert.True(t, pred.Gaps[0].Fallback)
}

func TestSaveRun(t *testing.T) {
    s, err := Open(t.TempDir())
    require.NoError(t, err)
    rep, err := evaluation.NewReport([]int{0, 1}, []int{0, 0})
    require.NoError(t, err)
    cm := evaluation.NewConfusionMatrix([]int{0, 1}, []int{0, 0}, data.Labels())
    ranked := []ranking.Ranked{{Name: "age", Importance: 0.7}, {Name: "sex", Importance: 0.3}}
    sum := &Summary{Model: "RandomForest", Report: rep, Table: rep.Table(), TrainSize: 8, TestSize: 2}
    require.NoError(t, s.SaveRun(sum, cm, ranked))

    var back Summary
    require.NoError(t, s.LoadJSON(ReportFile, &back))
    assert.Equal(t, 0.5, back.Report.Accuracy)
    assert.Equal(t, "Atrial Fibrillation", back.Report.Classes[1].Name)
    assert.Nil(t, back.BestCVScore)

    var cmBack evaluation.ConfusionMatrix
    require.NoError(t, s.LoadJSON(ConfusionFile, &cmBack))
    assert.Equal(t, cm.Counts, cmBack.Counts)

    var rBack []ranking.Ranked
    require.NoError(t, s.LoadJSON(RankingFile, &rBack))
    assert.Equal(t, ranked, rBack)
}

func TestLoadModelMissing(t *testing.T) {
    s, err := Open(t.TempDir())
    require.NoError(t, err)
    _, err = s.LoadModel()
    assert.Error(t, err)
    assert.Error(t, s.SaveModel(&Bundle{}))
}
