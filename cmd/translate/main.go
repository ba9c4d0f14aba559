package main

import (
    "context"
    "flag"
    "os"
    "time"

    "go.uber.org/zap"
    "golang.org/x/text/language"

    "ecgrhythm/internal/data"
    "ecgrhythm/internal/translate"
    "ecgrhythm/pkg/utils"
)

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    in := flag.String("in", "coorteeqsrafva.csv", "Metadata CSV with a free-text report column")
    column := flag.String("column", data.ColReport, "Column to translate")
    endpoint := flag.String("endpoint", getEnv("TRANSLATE_URL", "http://localhost:5000"), "LibreTranslate-compatible service")
    src := flag.String("from", "de", "Source language")
    dst := flag.String("to", "en", "Target language")
    workers := flag.Int("workers", 4, "Concurrent requests")
    timeout := flag.Duration("timeout", 15*time.Second, "Per-request timeout")
    latin1 := flag.Bool("latin1", false, "Input is ISO-8859-1 encoded")
    flag.Parse()

    srcTag, err := language.Parse(*src)
    if err != nil { logger.Fatal("source language", zap.Error(err)) }
    dstTag, err := language.Parse(*dst)
    if err != nil { logger.Fatal("target language", zap.Error(err)) }

    tbl, err := data.ReadCSV(*in, data.ReadOptions{Comma: data.DefaultComma, Latin1: *latin1})
    if err != nil { logger.Fatal("read input", zap.Error(err)) }

    tr := translate.New(translate.NewHTTPClient(*endpoint, os.Getenv("TRANSLATE_API_KEY"), *timeout), logger)
    tr.Source, tr.Target, tr.Workers = srcTag, dstTag, *workers
    if _, err := tr.Column(context.Background(), tbl, *column); err != nil { logger.Fatal("translate", zap.Error(err)) }

    out := translate.OutputPath(*in)
    if err := data.WriteCSV(out, tbl, data.DefaultComma); err != nil { logger.Fatal("write output", zap.Error(err)) }
    logger.Info("translated file written", zap.String("out", out))
}

func getEnv(key, defaultValue string) string {
    if value := os.Getenv(key); value != "" { return value }
    return defaultValue
}
