package main

import (
    "context"
    "encoding/csv"
    "flag"
    "fmt"
    "math"
    "math/rand"
    "os"
    "path/filepath"
    "strconv"

    "gonum.org/v1/plot"
    "gonum.org/v1/plot/plotter"
    "gonum.org/v1/plot/plotutil"
    "gonum.org/v1/plot/vg"

    "go.uber.org/zap"

    "ecgrhythm/internal/artifacts"
    "ecgrhythm/internal/config"
    "ecgrhythm/internal/evaluation"
    "ecgrhythm/internal/features"
    "ecgrhythm/internal/pipeline"
    "ecgrhythm/internal/training"
    "ecgrhythm/pkg/utils"
)

// point is one training-set size of the learning curve.
type point struct {
    Size     int
    TrainAcc float64
    TestAcc  float64
    TrainF1  float64
    TestF1   float64
}

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    cfgPath := flag.String("config", "", "YAML or TOML configuration file")
    dataPath := flag.String("data", "", "Metadata CSV (overrides data.path)")
    outDir := flag.String("out", "", "Run directory (overrides output.dir)")
    points := flag.Int("points", 8, "Points on the curve")
    minSize := flag.Int("min", 100, "Smallest training-set size")
    useLog := flag.Bool("log", true, "Space the sizes logarithmically")
    flag.Parse()

    cfg, err := config.Load(*cfgPath)
    if err != nil { logger.Fatal("load config", zap.Error(err)) }
    if *dataPath != "" { cfg.Data.Path = *dataPath }
    if *outDir != "" { cfg.Output.Dir = *outDir }

    prep, err := pipeline.Prepare(cfg, logger)
    if err != nil { logger.Fatal("prepare dataset", zap.Error(err)) }
    p, err := cfg.Plan()
    if err != nil { logger.Fatal("build training plan", zap.Error(err)) }
    plan := training.Fixed{Params: training.DefaultHyperparameters()}
    if fixed, ok := p.(training.Fixed); ok {
        plan = fixed
    } else {
        logger.Info("search configured, curve uses default parameters", zap.Stringer("params", plan.Params))
    }

    train := shuffled(prep.Train, cfg.Split.Seed)
    tr := training.New(logger)
    tr.Seed = cfg.Train.Seed
    tr.Workers = cfg.Train.Workers
    tr.Algorithm = cfg.Train.Model

    var curve []point
    for _, s := range curveSizes(train.Len(), *points, *minSize, *useLog) {
        sub := train.Subset(seq(s))
        pt, err := measure(tr, plan, sub, prep.Test)
        if err != nil { logger.Warn("skipping curve point", zap.Int("size", s), zap.Error(err)); continue }
        pt.Size = s
        curve = append(curve, pt)
        fmt.Printf("size=%d | train acc=%.3f f1=%.3f | test acc=%.3f f1=%.3f\n", s, pt.TrainAcc, pt.TrainF1, pt.TestAcc, pt.TestF1)
    }
    if len(curve) == 0 { logger.Fatal("no curve point could be trained") }

    store, err := artifacts.Open(cfg.Output.Dir)
    if err != nil { logger.Fatal("open run directory", zap.Error(err)) }
    if err := writeCSV(store.Path(artifacts.CurveCSV), curve); err != nil {
        logger.Warn("save curve CSV", zap.Error(err))
    }
    if err := plotCurve(store.Path(artifacts.CurvePNG), curve); err != nil {
        logger.Warn("save curve PNG", zap.Error(err))
    } else {
        logger.Info("learning curve saved", zap.String("png", store.Path(artifacts.CurvePNG)), zap.String("csv", store.Path(artifacts.CurveCSV)))
    }
}

func measure(tr *training.Trainer, plan training.Plan, train, test *features.Dataset) (point, error) {
    res, err := tr.Fit(context.Background(), train.X, train.Y, plan)
    if err != nil { return point{}, err }
    var pt point
    trRep, _, err := evaluation.Evaluate(res.Model, train.X, train.Y)
    if err != nil { return point{}, err }
    teRep, _, err := evaluation.Evaluate(res.Model, test.X, test.Y)
    if err != nil { return point{}, err }
    pt.TrainAcc, pt.TrainF1 = trRep.Accuracy, trRep.MacroAvg.F1
    pt.TestAcc, pt.TestF1 = teRep.Accuracy, teRep.MacroAvg.F1
    return pt, nil
}

func shuffled(d *features.Dataset, seed int64) *features.Dataset {
    return d.Subset(rand.New(rand.NewSource(seed)).Perm(d.Len()))
}

func seq(n int) []int {
    out := make([]int, n)
    for i := range out { out[i] = i }
    return out
}

// curveSizes spreads points sizes between min and total, strictly increasing
// and always ending at total.
func curveSizes(total, points, min int, useLog bool) []int {
    if total <= 0 { return nil }
    if points <= 1 { points = 2 }
    if min < 10 { min = 10 }
    if min > total { min = int(math.Max(1, float64(total)/2)) }
    sizes := make([]int, 0, points)
    if useLog {
        ratio := math.Pow(float64(total)/float64(min), 1.0/float64(points-1))
        for i := 0; i < points; i++ { sizes = append(sizes, int(math.Round(float64(min)*math.Pow(ratio, float64(i))))) }
    } else {
        step := float64(total-min) / float64(points-1)
        for i := 0; i < points; i++ { sizes = append(sizes, int(math.Round(float64(min)+float64(i)*step))) }
    }
    cleaned := make([]int, 0, len(sizes))
    last := 0
    for _, s := range sizes {
        if s > total { s = total }
        if s > last { cleaned = append(cleaned, s); last = s }
    }
    if cleaned[len(cleaned)-1] != total { cleaned[len(cleaned)-1] = total }
    return cleaned
}

func writeCSV(path string, curve []point) error {
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    f, err := os.Create(path)
    if err != nil { return err }
    defer f.Close()
    w := csv.NewWriter(f)
    if err := w.Write([]string{"size", "train_acc", "test_acc", "train_macro_f1", "test_macro_f1"}); err != nil { return err }
    f6 := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
    for _, p := range curve {
        if err := w.Write([]string{strconv.Itoa(p.Size), f6(p.TrainAcc), f6(p.TestAcc), f6(p.TrainF1), f6(p.TestF1)}); err != nil { return err }
    }
    w.Flush()
    return w.Error()
}

func plotCurve(path string, curve []point) error {
    p := plot.New()
    p.Title.Text = "Learning Curve"
    p.X.Label.Text = "Training records"
    p.Y.Label.Text = "Score"
    p.Y.Min = 0
    p.Y.Max = 1

    toXY := func(get func(point) float64) plotter.XYs {
        pts := make(plotter.XYs, len(curve))
        for i, c := range curve { pts[i].X = float64(c.Size); pts[i].Y = get(c) }
        return pts
    }
    if err := plotutil.AddLinePoints(p,
        "Train (acc)", toXY(func(c point) float64 { return c.TrainAcc }),
        "Test (acc)", toXY(func(c point) float64 { return c.TestAcc }),
        "Train (macro F1)", toXY(func(c point) float64 { return c.TrainF1 }),
        "Test (macro F1)", toXY(func(c point) float64 { return c.TestF1 }),
    ); err != nil { return err }
    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
