package translate

import (
    "context"
    "path/filepath"
    "strings"
    "sync"

    "go.uber.org/zap"
    "golang.org/x/sync/errgroup"
    "golang.org/x/text/language"

    "ecgrhythm/internal/data"
    "ecgrhythm/pkg/utils"
)

// Translator wraps a Client. Translation errors are logged and the input
// text is returned unchanged.
type Translator struct {
    Client  Client
    Source  language.Tag
    Target  language.Tag
    Workers int
    Logger  *zap.Logger
}

// New translates German reports into English.
func New(c Client, logger *zap.Logger) *Translator {
    return &Translator{Client: c, Source: language.German, Target: language.English, Workers: 4, Logger: logger}
}

func (t *Translator) Text(ctx context.Context, s string) string {
    if strings.TrimSpace(s) == "" { return s }
    out, err := t.Client.Translate(ctx, s, t.Source, t.Target)
    if err != nil {
        utils.OrNop(t.Logger).Debug("translation failed, keeping original", zap.String("text", s), zap.Error(err))
        return s
    }
    return out
}

// Column translates every cell of column in place. Identical cells are
// translated once. Only a missing column is an error.
func (t *Translator) Column(ctx context.Context, tbl *data.Table, column string) (int, error) {
    if err := tbl.Require(column); err != nil { return 0, err }
    var unique []string
    seen := map[string]bool{}
    for i := 0; i < tbl.Len(); i++ {
        s := tbl.Get(i, column)
        if !seen[s] { seen[s] = true; unique = append(unique, s) }
    }

    var mu sync.Mutex
    done := make(map[string]string, len(unique))
    g, gctx := errgroup.WithContext(ctx)
    workers := t.Workers
    if workers <= 0 { workers = 1 }
    g.SetLimit(workers)
    for _, s := range unique {
        g.Go(func() error {
            out := t.Text(gctx, s)
            mu.Lock()
            done[s] = out
            mu.Unlock()
            return nil
        })
    }
    _ = g.Wait()

    changed := 0
    for i := 0; i < tbl.Len(); i++ {
        s := tbl.Get(i, column)
        if out := done[s]; out != s { tbl.Set(i, column, out); changed++ }
    }
    utils.OrNop(t.Logger).Info("column translated",
        zap.String("column", column),
        zap.Int("rows", tbl.Len()),
        zap.Int("distinct", len(unique)),
        zap.Int("changed", changed),
    )
    return changed, nil
}

// OutputPath is where the translated copy of input goes: name_en.csv.
func OutputPath(input string) string {
    ext := filepath.Ext(input)
    return strings.TrimSuffix(input, ext) + "_en" + ext
}
