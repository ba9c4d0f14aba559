// Package pipeline runs the rhythm classifier end to end: load, clean,
// split, train, evaluate and rank.
package pipeline

import (
    "context"
    "fmt"
    "os"

    "go.uber.org/zap"

    "ecgrhythm/internal/artifacts"
    "ecgrhythm/internal/config"
    "ecgrhythm/internal/data"
    "ecgrhythm/internal/evaluation"
    "ecgrhythm/internal/features"
    "ecgrhythm/internal/ranking"
    "ecgrhythm/internal/split"
    "ecgrhythm/internal/training"
    "ecgrhythm/pkg/utils"
)

// Prepared is a cleaned, labelled dataset and its stratified split.
type Prepared struct {
    Data    *features.Dataset
    Train   *features.Dataset
    Test    *features.Dataset
    Dropped int
}

func Prepare(cfg config.Config, logger *zap.Logger) (*Prepared, error) {
    log := utils.OrNop(logger)
    tbl, err := data.ReadCSV(cfg.Data.Path, cfg.ReadOptions())
    if err != nil { return nil, fmt.Errorf("read %s: %w", cfg.Data.Path, err) }

    pre, err := cfg.Preprocessor()
    if err != nil { return nil, err }
    pre.Logger = logger
    ds, err := pre.Clean(tbl)
    if err != nil { return nil, fmt.Errorf("clean: %w", err) }
    labeled, dropped := ds.Labeled()
    if dropped > 0 { log.Warn("records without a known diagnosis dropped", zap.Int("count", dropped)) }

    sp, err := split.Stratified(labeled.Y, cfg.SplitOptions())
    if err != nil { return nil, fmt.Errorf("split: %w", err) }
    if len(sp.Singletons) > 0 { log.Warn("single-member classes", zap.Ints("classes", sp.Singletons)) }
    log.Info("dataset split", zap.Int("train", len(sp.Train)), zap.Int("test", len(sp.Test)))
    return &Prepared{Data: labeled, Train: labeled.Subset(sp.Train), Test: labeled.Subset(sp.Test), Dropped: dropped}, nil
}

// Outcome is everything one run produces.
type Outcome struct {
    *Prepared
    Training  *training.Result
    Report    *evaluation.ClassificationReport
    Confusion *evaluation.ConfusionMatrix
    Ranking   []ranking.Ranked
}

func Run(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Outcome, error) {
    log := utils.OrNop(logger)
    prep, err := Prepare(cfg, logger)
    if err != nil { return nil, err }
    plan, err := cfg.Plan()
    if err != nil { return nil, err }

    tr := training.New(logger)
    tr.Seed = cfg.Train.Seed
    tr.Workers = cfg.Train.Workers
    tr.Algorithm = cfg.Train.Model
    res, err := tr.Fit(ctx, prep.Train.X, prep.Train.Y, plan)
    if err != nil { return nil, err }

    report, cm, err := evaluation.Evaluate(res.Model, prep.Test.X, prep.Test.Y)
    if err != nil { return nil, fmt.Errorf("evaluate: %w", err) }
    ranked, err := ranking.Rank(res.Model, prep.Data.Columns)
    if err != nil { return nil, fmt.Errorf("rank: %w", err) }

    log.Info("holdout metrics",
        zap.String("model", res.Model.Name()),
        zap.Stringer("params", res.Params),
        zap.Float64("accuracy", report.Accuracy),
        zap.Float64("macro_f1", report.MacroAvg.F1),
        zap.Float64("weighted_f1", report.WeightedAvg.F1),
    )
    return &Outcome{Prepared: prep, Training: res, Report: report, Confusion: cm, Ranking: ranked}, nil
}

// Save writes the model bundle, JSON outputs, the report CSV and, when plot
// is set, the confusion matrix and importance charts.
func (o *Outcome) Save(store *artifacts.Store, plot bool) error {
    res := o.Training
    bundle := &artifacts.Bundle{Model: res.Model, Encoding: o.Data.Encoding, Columns: o.Data.Columns, Params: res.Params.String()}
    if err := store.SaveModel(bundle); err != nil { return err }

    sum := &artifacts.Summary{
        Model:        res.Model.Name(),
        Params:       res.Params.String(),
        ClassWeights: res.ClassWeights,
        TrainSize:    o.Train.Len(),
        TestSize:     o.Test.Len(),
        Report:       o.Report,
        Table:        o.Report.Table(),
    }
    if res.Search != nil { s := res.Search.BestScore; sum.BestCVScore = &s }
    if err := store.SaveRun(sum, o.Confusion, o.Ranking); err != nil { return err }

    f, err := os.Create(store.Path(artifacts.ReportCSV))
    if err != nil { return err }
    if err := sum.Table.WriteCSV(f); err != nil { f.Close(); return err }
    if err := f.Close(); err != nil { return err }

    if !plot { return nil }
    if err := evaluation.PlotConfusionMatrix(o.Confusion, store.Path(artifacts.ConfusionPNG)); err != nil { return err }
    return ranking.PlotBars(o.Ranking, store.Path(artifacts.ImportancePNG))
}
