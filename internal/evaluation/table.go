package evaluation

import (
    "encoding/csv"
    "fmt"
    "io"
    "math"
    "strconv"
    "text/tabwriter"
)

// TableColumns is the header of the rendered report.
var TableColumns = []string{"", "precision (%)", "recall (%)", "f1-score (%)", "support"}

type TableRow struct {
    Name      string  `json:"name"`
    Precision float64 `json:"precision"`
    Recall    float64 `json:"recall"`
    F1        float64 `json:"f1-score"`
    Support   int     `json:"support"`
}

// ReportTable is the display form of a report: rates as percentages rounded
// to 2 decimals, supports as counts.
type ReportTable struct {
    Rows     []TableRow `json:"rows"`
    Accuracy float64    `json:"accuracy"`
}

func percent(v float64) float64 { return math.Round(v*100*100) / 100 }

func tableRow(name string, m Metrics) TableRow {
    return TableRow{Name: name, Precision: percent(m.Precision), Recall: percent(m.Recall), F1: percent(m.F1), Support: m.Support}
}

// Table lays the report out per class, then the two averages.
func (r *ClassificationReport) Table() ReportTable {
    t := ReportTable{Accuracy: percent(r.Accuracy)}
    for _, c := range r.Classes { t.Rows = append(t.Rows, tableRow(c.Name, c.Metrics)) }
    t.Rows = append(t.Rows, tableRow(KeyMacroAvg, r.MacroAvg), tableRow(KeyWeightedAvg, r.WeightedAvg))
    return t
}

func (t ReportTable) records() [][]string {
    out := [][]string{TableColumns}
    f := func(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
    for _, r := range t.Rows {
        out = append(out, []string{r.Name, f(r.Precision), f(r.Recall), f(r.F1), strconv.Itoa(r.Support)})
    }
    return append(out, []string{"", "", "", KeyAccuracy, f(t.Accuracy) + "%"})
}

func (t ReportTable) WriteText(w io.Writer) error {
    tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
    for _, rec := range t.records() {
        for i, cell := range rec {
            if i > 0 { fmt.Fprint(tw, "\t") }
            fmt.Fprint(tw, cell)
        }
        fmt.Fprint(tw, "\t\n")
    }
    return tw.Flush()
}

func (t ReportTable) WriteCSV(w io.Writer) error {
    cw := csv.NewWriter(w)
    if err := cw.WriteAll(t.records()); err != nil { return err }
    return cw.Error()
}

// WriteText renders the matrix with true labels down and predictions across.
func (m *ConfusionMatrix) WriteText(w io.Writer) error {
    tw := tabwriter.NewWriter(w, 0, 4, 1, ' ', tabwriter.AlignRight)
    labels := m.AxisLabels()
    fmt.Fprint(tw, "true\\pred\t")
    for _, l := range labels { fmt.Fprintf(tw, "%s\t", l) }
    fmt.Fprint(tw, "\n")
    for i, row := range m.Counts {
        fmt.Fprintf(tw, "%s\t", labels[i])
        for _, v := range row { fmt.Fprintf(tw, "%d\t", v) }
        fmt.Fprint(tw, "\n")
    }
    return tw.Flush()
}
