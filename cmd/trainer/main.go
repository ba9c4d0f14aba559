package main

import (
    "context"
    "flag"
    "fmt"
    "os"
    "os/signal"
    "syscall"

    "go.uber.org/zap"

    "ecgrhythm/internal/artifacts"
    "ecgrhythm/internal/config"
    "ecgrhythm/internal/data"
    "ecgrhythm/internal/pipeline"
    "ecgrhythm/internal/ranking"
    "ecgrhythm/pkg/utils"
)

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    cfgPath := flag.String("config", "", "YAML or TOML configuration file")
    dataPath := flag.String("data", "", "Metadata CSV (overrides data.path)")
    outDir := flag.String("out", "", "Run directory (overrides output.dir)")
    regen := flag.Bool("regen", false, "Generate a synthetic cohort at the data path first")
    n := flag.Int("n", 5000, "Synthetic records when -regen is set")
    missing := flag.Float64("missing", 0.08, "Missing-cell rate of the synthetic cohort")
    algo := flag.String("algo", "", "Ensemble: random_forest or bagging (overrides train.model)")
    workers := flag.Int("workers", 0, "Parallel workers, 0 for all cores")
    noSearch := flag.Bool("no_search", false, "Ignore the search section and train with fixed parameters")
    noPlot := flag.Bool("no_plot", false, "Skip PNG output")
    top := flag.Int("top", 10, "Features to print")
    flag.Parse()

    cfg, err := config.Load(*cfgPath)
    if err != nil { logger.Fatal("load config", zap.Error(err)) }
    if *dataPath != "" { cfg.Data.Path = *dataPath }
    if *outDir != "" { cfg.Output.Dir = *outDir }
    if *algo != "" { cfg.Train.Model = *algo }
    if *workers > 0 { cfg.Train.Workers = *workers }
    if *noSearch { cfg.Train.Search = nil }
    if *noPlot { cfg.Output.Plot = false }
    if err := cfg.Validate(); err != nil { logger.Fatal("invalid flags", zap.Error(err)) }

    if *regen {
        logger.Info("generating synthetic cohort", zap.Int("n", *n), zap.String("out", cfg.Data.Path))
        tbl := data.GenerateSynthetic(*n, *missing, cfg.Split.Seed)
        if err := data.WriteCSV(cfg.Data.Path, tbl, cfg.ReadOptions().Comma); err != nil {
            logger.Fatal("write synthetic cohort", zap.Error(err))
        }
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    out, err := pipeline.Run(ctx, cfg, logger)
    if err != nil { logger.Fatal("training run failed", zap.Error(err)) }

    store, err := artifacts.Open(cfg.Output.Dir)
    if err != nil { logger.Fatal("open run directory", zap.Error(err)) }
    if err := out.Save(store, cfg.Output.Plot); err != nil { logger.Fatal("save artifacts", zap.Error(err)) }
    logger.Info("artifacts saved", zap.String("dir", store.Dir))

    fmt.Println("Parameters:", out.Training.Params)
    if s := out.Training.Search; s != nil {
        fmt.Printf("Best cross-validation accuracy: %.4f\n", s.BestScore)
    }
    fmt.Println()
    if err := out.Report.Table().WriteText(os.Stdout); err != nil { logger.Fatal("print report", zap.Error(err)) }
    fmt.Println()
    if err := out.Confusion.WriteText(os.Stdout); err != nil { logger.Fatal("print confusion matrix", zap.Error(err)) }
    fmt.Println()
    fmt.Println("Feature importances:")
    for i, r := range ranking.Top(out.Ranking, *top) {
        fmt.Printf("%2d. %-12s %.4f\n", i+1, r.Name, r.Importance)
    }
}
