package ranking

import (
    "errors"
    "os"
    "path/filepath"

    "gonum.org/v1/plot"
    "gonum.org/v1/plot/plotter"
    "gonum.org/v1/plot/plotutil"
    "gonum.org/v1/plot/vg"
    "gonum.org/v1/plot/vg/draw"
)

// PlotBars saves a bar chart of the ranked importances, highest first.
func PlotBars(r []Ranked, path string) error {
    if len(r) == 0 { return errors.New("nothing to plot") }
    p := plot.New()
    p.Title.Text = "Feature Importances"
    p.Y.Label.Text = "Importance"

    vals := make(plotter.Values, len(r))
    names := make([]string, len(r))
    for i, e := range r { vals[i] = e.Importance; names[i] = e.Name }

    bars, err := plotter.NewBarChart(vals, vg.Points(18))
    if err != nil { return err }
    bars.LineStyle.Width = vg.Length(0)
    bars.Color = plotutil.Color(0)
    p.Add(bars)
    p.NominalX(names...)
    p.X.Tick.Label.Rotation = 0.8
    p.X.Tick.Label.XAlign = draw.XRight
    p.X.Tick.Label.YAlign = draw.YCenter

    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    width := vg.Length(len(r)) * 0.5 * vg.Inch
    if width < 6*vg.Inch { width = 6 * vg.Inch }
    return p.Save(width, 5*vg.Inch, path)
}
