package main

import (
    "flag"
    "path/filepath"
    "strings"

    "go.uber.org/zap"

    "ecgrhythm/internal/waveform"
    "ecgrhythm/pkg/utils"
)

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    ecgPath := flag.String("ecg", "records/ecg/patient_1.csv", "12-lead recording CSV")
    metaPath := flag.String("meta", "records/meta/patient_1.yaml", "Patient metadata YAML")
    out := flag.String("out", "", "PNG to write (default: the recording name with .png)")
    flag.Parse()

    rec, err := waveform.LoadECG(*ecgPath)
    if err != nil { logger.Fatal("load recording", zap.Error(err)) }
    meta, err := waveform.LoadMetadata(*metaPath)
    if err != nil { logger.Fatal("load metadata", zap.Error(err)) }

    path := *out
    if path == "" { path = strings.TrimSuffix(*ecgPath, filepath.Ext(*ecgPath)) + ".png" }
    if err := waveform.Render(rec, meta, path); err != nil { logger.Fatal("render", zap.Error(err)) }
    logger.Info("recording rendered",
        zap.String("png", path),
        zap.Int("samples", rec.Samples()),
        zap.Float64("seconds", rec.Seconds()),
        zap.String("title", meta.Title()),
    )
}
