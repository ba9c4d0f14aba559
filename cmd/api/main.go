package main

import (
    "errors"
    "flag"
    "io/fs"
    "net/http"
    "os"
    "sort"

    "github.com/gin-gonic/gin"
    "go.uber.org/zap"

    "ecgrhythm/internal/artifacts"
    "ecgrhythm/internal/data"
    "ecgrhythm/internal/evaluation"
    "ecgrhythm/internal/features"
    "ecgrhythm/internal/models"
    "ecgrhythm/internal/ranking"
    "ecgrhythm/pkg/utils"
)

type server struct {
    store  *artifacts.Store
    bundle *artifacts.Bundle
    pre    *features.Preprocessor
    logger *zap.Logger
}

func main() {
    logger := utils.Logger()
    defer logger.Sync()

    dir := flag.String("dir", getEnv("ECG_OUT_DIR", "runs/latest"), "Run directory written by the trainer")
    gaps := flag.String("gaps", getEnv("ECG_GAP_POLICY", "mean"), "Unresolved imputation cells: mean, leave or fail")
    flag.Parse()

    store, err := artifacts.Open(*dir)
    if err != nil { logger.Fatal("open run directory", zap.Error(err)) }
    pre := features.NewPreprocessor()
    if pre.Gaps, err = features.ParseGapPolicy(*gaps); err != nil { logger.Fatal("gap policy", zap.Error(err)) }
    s := &server{store: store, pre: pre, logger: logger}
    if b, err := store.LoadModel(); err == nil {
        s.bundle = b
        logger.Info("model loaded", zap.String("model", b.Model.Name()), zap.String("params", b.Params))
    } else {
        logger.Warn("no model in run directory, prediction disabled", zap.Error(err))
    }

    r := newRouter(s)
    port := getEnv("PORT", "8080")
    if err := r.Run(":" + port); err != nil { logger.Fatal("server stopped", zap.Error(err)) }
}

func getEnv(key, defaultValue string) string {
    if value := os.Getenv(key); value != "" { return value }
    return defaultValue
}

func newRouter(s *server) *gin.Engine {
    r := gin.New()
    r.Use(gin.Recovery())

    r.GET("/health", func(c *gin.Context) {
        c.JSON(http.StatusOK, gin.H{"status": "ok", "model": s.bundle != nil})
    })
    for _, name := range []string{artifacts.ConfusionPNG, artifacts.ImportancePNG, artifacts.CurvePNG} {
        if s.store.Exists(name) { r.StaticFile("/static/"+name, s.store.Path(name)) }
    }

    api := r.Group("/api/v1")
    api.GET("/report", s.handleReport)
    api.GET("/confusion", s.handleConfusion)
    api.GET("/features", s.handleFeatures)
    api.GET("/model", s.handleModel)

    guarded := api.Group("/")
    guarded.Use(apiKeyMiddleware)
    guarded.POST("/predict", s.handlePredict)
    return r
}

func apiKeyMiddleware(c *gin.Context) {
    key := os.Getenv("API_KEY")
    if key == "" { c.Next(); return }
    if c.GetHeader("X-API-Key") != key { c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"}); return }
    c.Next()
}

// artifact loads a JSON artifact into v, replying 404 when the run has not
// produced it.
func (s *server) artifact(c *gin.Context, name string, v any) bool {
    err := s.store.LoadJSON(name, v)
    switch {
    case err == nil:
        return true
    case errors.Is(err, fs.ErrNotExist):
        c.JSON(http.StatusNotFound, gin.H{"error": name + " not found"})
    default:
        utils.OrNop(s.logger).Error("read artifact", zap.String("name", name), zap.Error(err))
        c.JSON(http.StatusInternalServerError, gin.H{"error": "unreadable artifact"})
    }
    return false
}

func (s *server) handleReport(c *gin.Context) {
    var sum artifacts.Summary
    if s.artifact(c, artifacts.ReportFile, &sum) { c.JSON(http.StatusOK, sum) }
}

func (s *server) handleConfusion(c *gin.Context) {
    var cm evaluation.ConfusionMatrix
    if !s.artifact(c, artifacts.ConfusionFile, &cm) { return }
    c.JSON(http.StatusOK, gin.H{"labels": cm.Labels, "axis": cm.AxisLabels(), "counts": cm.Counts})
}

type featuresQuery struct {
    Top int `form:"top" binding:"omitempty,min=1,max=1000"`
}

func (s *server) handleFeatures(c *gin.Context) {
    var q featuresQuery
    if err := c.ShouldBindQuery(&q); err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()}); return }
    var ranked []ranking.Ranked
    if !s.artifact(c, artifacts.RankingFile, &ranked) { return }
    c.JSON(http.StatusOK, gin.H{"features": ranking.Top(ranked, q.Top), "total": ranking.Total(ranked)})
}

func (s *server) handleModel(c *gin.Context) {
    if s.bundle == nil { c.JSON(http.StatusNotFound, gin.H{"error": "no model"}); return }
    b := s.bundle
    body := gin.H{
        "model":    b.Model.Name(),
        "params":   b.Params,
        "classes":  b.Model.Labels(),
        "columns":  b.Columns,
        "encoding": b.Encoding.HeartAxis,
    }
    if rf, ok := b.Model.(*models.RandomForest); ok { body["trees"] = len(rf.Trees) }
    c.JSON(http.StatusOK, body)
}

type predictReq struct {
    Records []map[string]string `json:"records" binding:"required,min=1"`
}

func (s *server) handlePredict(c *gin.Context) {
    if s.bundle == nil { c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no model"}); return }
    var req predictReq
    if err := c.ShouldBindJSON(&req); err != nil { c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()}); return }

    tbl := recordsTable(req.Records)
    pred, err := s.bundle.Predict(s.pre, tbl)
    if err != nil {
        if errors.Is(err, data.ErrSchema) || errors.Is(err, features.ErrUnresolved) {
            c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
            return
        }
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }
    gaps := pred.GapColumns()
    out := make([]gin.H, len(pred.Labels))
    for i, l := range pred.Labels {
        out[i] = gin.H{"label": l, "name": data.LabelName(l), "short": data.ShortLabel(l)}
        if cols := gaps[i]; len(cols) > 0 { out[i]["gaps"] = cols }
    }
    c.JSON(http.StatusOK, gin.H{"predictions": out})
}

// recordsTable lays records out under the sorted union of their keys.
func recordsTable(records []map[string]string) *data.Table {
    seen := map[string]bool{}
    var header []string
    for _, rec := range records {
        for k := range rec {
            if !seen[k] { seen[k] = true; header = append(header, k) }
        }
    }
    sort.Strings(header)
    rows := make([][]string, len(records))
    for i, rec := range records {
        row := make([]string, len(header))
        for j, h := range header { row[j] = rec[h] }
        rows[i] = row
    }
    return data.NewTable(header, rows)
}
