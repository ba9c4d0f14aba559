package models

// Model is a multi-class classifier over dense feature rows.
type Model interface {
    Fit(X [][]float64, y []int) error
    Predict(X [][]float64) []int
    // PredictProba returns one probability per entry of Labels, per row.
    PredictProba(X [][]float64) [][]float64
    Labels() []int
    // Width is the number of features the model was fitted on.
    Width() int
    FeatureImportances() []float64
    Name() string
}
