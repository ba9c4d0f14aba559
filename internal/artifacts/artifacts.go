// Package artifacts reads and writes the files of one training run.
package artifacts

import (
    "encoding/gob"
    "errors"
    "fmt"
    "os"
    "path/filepath"

    "github.com/goccy/go-json"

    "ecgrhythm/internal/data"
    "ecgrhythm/internal/features"
    "ecgrhythm/internal/models"
)

// File names inside a run directory.
const (
    ModelFile      = "model.gob"
    EncodingFile   = "encoding.json"
    ReportFile     = "report.json"
    ConfusionFile  = "confusion.json"
    RankingFile    = "features.json"
    ReportCSV      = "report.csv"
    ConfusionPNG   = "confusion_matrix.png"
    ImportancePNG  = "feature_importances.png"
    CurveCSV       = "learning_curve.csv"
    CurvePNG       = "learning_curve.png"
)

func init() {
    gob.Register(&models.RandomForest{})
}

// Bundle is the persisted model together with what is needed to feed it.
type Bundle struct {
    Model    models.Model
    Encoding *features.Encoding
    Columns  []string
    Params   string
}

// Store is a run directory.
type Store struct{ Dir string }

func Open(dir string) (*Store, error) {
    if err := os.MkdirAll(dir, 0o755); err != nil { return nil, err }
    return &Store{Dir: dir}, nil
}

func (s *Store) Path(name string) string { return filepath.Join(s.Dir, name) }

// SaveModel writes the bundle as gob and the encoding table as JSON.
func (s *Store) SaveModel(b *Bundle) error {
    if b.Model == nil || b.Encoding == nil { return errors.New("save model: incomplete bundle") }
    f, err := os.Create(s.Path(ModelFile))
    if err != nil { return err }
    defer f.Close()
    if err := gob.NewEncoder(f).Encode(b); err != nil { return fmt.Errorf("encode model: %w", err) }
    return s.SaveJSON(EncodingFile, b.Encoding)
}

func (s *Store) LoadModel() (*Bundle, error) {
    f, err := os.Open(s.Path(ModelFile))
    if err != nil { return nil, err }
    defer f.Close()
    var b Bundle
    if err := gob.NewDecoder(f).Decode(&b); err != nil { return nil, fmt.Errorf("decode model: %w", err) }
    if b.Model == nil || b.Model.Width() == 0 { return nil, errors.New("decode model: model was never fitted") }
    return &b, nil
}

func (s *Store) SaveJSON(name string, v any) error {
    raw, err := json.MarshalIndent(v, "", "  ")
    if err != nil { return err }
    return os.WriteFile(s.Path(name), raw, 0o644)
}

func (s *Store) LoadJSON(name string, v any) error {
    raw, err := os.ReadFile(s.Path(name))
    if err != nil { return err }
    return json.Unmarshal(raw, v)
}

func (s *Store) Exists(name string) bool {
    _, err := os.Stat(s.Path(name))
    return err == nil
}

// Prediction holds one label per input row and the imputation gaps met while
// cleaning the input. Gap rows index the input table.
type Prediction struct {
    Labels []int
    Gaps   []*features.ImputationGap
}

// GapColumns lists, per row, the columns that had no donor value.
func (p *Prediction) GapColumns() map[int][]string {
    out := map[int][]string{}
    for _, g := range p.Gaps { out[g.Row] = append(out[g.Row], g.Column) }
    return out
}

// Predict cleans t with the bundle's frozen encoding, aligns its columns to
// the trained ones and predicts every row.
func (b *Bundle) Predict(pre *features.Preprocessor, t *data.Table) (*Prediction, error) {
    ds, err := pre.Apply(t, b.Encoding)
    if err != nil { return nil, err }
    X, err := align(ds, b.Columns)
    if err != nil { return nil, err }
    return &Prediction{Labels: b.Model.Predict(X), Gaps: ds.ImputationGaps()}, nil
}

func align(ds *features.Dataset, columns []string) ([][]float64, error) {
    pos := make(map[string]int, len(ds.Columns))
    for j, c := range ds.Columns { pos[c] = j }
    src := make([]int, len(columns))
    var missing []string
    for i, c := range columns {
        j, ok := pos[c]
        if !ok { missing = append(missing, c); continue }
        src[i] = j
    }
    if len(missing) > 0 { return nil, &data.SchemaError{Missing: missing} }
    X := make([][]float64, ds.Len())
    for i, row := range ds.X {
        out := make([]float64, len(columns))
        for k, j := range src { out[k] = row[j] }
        X[i] = out
    }
    return X, nil
}
