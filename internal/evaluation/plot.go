package evaluation

import (
    "os"
    "path/filepath"
    "strconv"

    "gonum.org/v1/plot"
    "gonum.org/v1/plot/palette"
    "gonum.org/v1/plot/plotter"
    "gonum.org/v1/plot/vg"
)

// grid adapts the matrix to plotter.GridXYZ with the first label on top.
type grid struct{ m *ConfusionMatrix }

func (g grid) Dims() (c, r int)   { n := len(g.m.Labels); return n, n }
func (g grid) Z(c, r int) float64 { return float64(g.m.Counts[len(g.m.Labels)-1-r][c]) }
func (g grid) X(c int) float64    { return float64(c) }
func (g grid) Y(r int) float64    { return float64(r) }

// PlotConfusionMatrix saves the matrix as a heat map with per-cell counts.
func PlotConfusionMatrix(m *ConfusionMatrix, path string) error {
    n := len(m.Labels)
    p := plot.New()
    p.Title.Text = "Confusion Matrix"
    p.X.Label.Text = "Predicted Label"
    p.Y.Label.Text = "True Label"

    hm := plotter.NewHeatMap(grid{m}, palette.Heat(16, 1))
    if hm.Max <= hm.Min { hm.Max = hm.Min + 1 }
    p.Add(hm)

    labels := m.AxisLabels()
    xt := make([]plot.Tick, n)
    yt := make([]plot.Tick, n)
    cells := plotter.XYLabels{}
    for i := 0; i < n; i++ {
        xt[i] = plot.Tick{Value: float64(i), Label: labels[i]}
        yt[i] = plot.Tick{Value: float64(i), Label: labels[n-1-i]}
        for j := 0; j < n; j++ {
            cells.XYs = append(cells.XYs, plotter.XY{X: float64(j), Y: float64(n - 1 - i)})
            cells.Labels = append(cells.Labels, strconv.Itoa(m.Counts[i][j]))
        }
    }
    p.X.Tick.Marker = plot.ConstantTicks(xt)
    p.Y.Tick.Marker = plot.ConstantTicks(yt)
    text, err := plotter.NewLabels(cells)
    if err != nil { return err }
    p.Add(text)

    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    return p.Save(8*vg.Inch, 7*vg.Inch, path)
}
