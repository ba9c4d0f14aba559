package artifacts

import (
    "ecgrhythm/internal/evaluation"
    "ecgrhythm/internal/ranking"
)

// Summary is the content of ReportFile.
type Summary struct {
    Model        string                           `json:"model"`
    Params       string                           `json:"params"`
    ClassWeights map[int]float64                  `json:"class_weights"`
    TrainSize    int                              `json:"train_size"`
    TestSize     int                              `json:"test_size"`
    BestCVScore  *float64                         `json:"best_cv_score,omitempty"`
    Report       *evaluation.ClassificationReport `json:"report"`
    Table        evaluation.ReportTable           `json:"table"`
}

// SaveRun writes the JSON outputs of an evaluated run.
func (s *Store) SaveRun(sum *Summary, cm *evaluation.ConfusionMatrix, ranked []ranking.Ranked) error {
    if err := s.SaveJSON(ReportFile, sum); err != nil { return err }
    if err := s.SaveJSON(ConfusionFile, cm); err != nil { return err }
    return s.SaveJSON(RankingFile, ranked)
}
