package waveform

import (
    "errors"
    "os"
    "path/filepath"

    "gonum.org/v1/plot"
    "gonum.org/v1/plot/plotter"
    "gonum.org/v1/plot/plotutil"
    "gonum.org/v1/plot/vg"
    "gonum.org/v1/plot/vg/draw"
    "gonum.org/v1/plot/vg/vgimg"
)

const (
    panelRows = 6
    panelCols = 2
)

// Panels builds one plot per lead laid out 6x2 in Leads order, row by row.
func Panels(rec Recording) ([][]*plot.Plot, error) {
    if len(rec) == 0 { return nil, errors.New("empty recording") }
    plots := make([][]*plot.Plot, panelRows)
    for r := range plots { plots[r] = make([]*plot.Plot, panelCols) }
    for i, lead := range Leads {
        pts := make(plotter.XYs, len(rec))
        for s, row := range rec { pts[s] = plotter.XY{X: float64(s) / SampleRate, Y: row[i]} }
        line, err := plotter.NewLine(pts)
        if err != nil { return nil, err }
        line.Color = plotutil.Color(i)
        line.Width = vg.Points(0.7)

        p := plot.New()
        p.Title.Text = lead
        p.Add(line)
        p.X.Min = 0
        p.X.Max = rec.Seconds()
        r, c := i/panelCols, i%panelCols
        if r == panelRows-1 { p.X.Label.Text = "Time (s)" }
        plots[r][c] = p
    }
    return plots, nil
}

// Render saves the 12-lead figure with the metadata title as a PNG.
func Render(rec Recording, meta *Metadata, path string) error {
    plots, err := Panels(rec)
    if err != nil { return err }

    img := vgimg.New(12*vg.Inch, 14*vg.Inch)
    dc := draw.New(img)
    head := plot.New().Title.TextStyle
    head.Font.Size = vg.Points(14)
    if meta != nil { dc.FillText(head, vg.Point{X: dc.Center().X, Y: dc.Max.Y - vg.Points(4)}, meta.Title()) }

    tiles := draw.Tiles{
        Rows:      panelRows,
        Cols:      panelCols,
        PadX:      vg.Millimeter * 4,
        PadY:      vg.Millimeter * 3,
        PadTop:    vg.Points(30),
        PadBottom: vg.Millimeter * 2,
        PadLeft:   vg.Millimeter * 2,
        PadRight:  vg.Millimeter * 2,
    }
    canvases := plot.Align(plots, tiles, dc)
    for r := range plots {
        for c := range plots[r] { plots[r][c].Draw(canvases[r][c]) }
    }

    if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { return err }
    f, err := os.Create(path)
    if err != nil { return err }
    if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil { f.Close(); return err }
    return f.Close()
}
