package data

import (
    "encoding/csv"
    "fmt"
    "io"
    "os"
    "path/filepath"
    "strings"

    "golang.org/x/text/encoding/charmap"
    "golang.org/x/text/transform"
)

// ReadOptions controls how a delimited file is parsed.
type ReadOptions struct {
    Comma rune
    // Latin1 decodes ISO-8859-1 input, as exported by some ECG management systems.
    Latin1 bool
}

// DefaultComma is the delimiter of the cohort exports.
const DefaultComma = ';'

func ReadCSV(path string, opts ReadOptions) (*Table, error) {
    f, err := os.Open(path)
    if err != nil { return nil, fmt.Errorf("open %s: %w", path, err) }
    defer f.Close()
    return Read(f, opts)
}

func Read(r io.Reader, opts ReadOptions) (*Table, error) {
    if opts.Latin1 {
        r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
    }
    cr := csv.NewReader(r)
    cr.Comma = opts.Comma
    if cr.Comma == 0 { cr.Comma = DefaultComma }
    cr.LazyQuotes = true
    cr.FieldsPerRecord = -1
    rows, err := cr.ReadAll()
    if err != nil { return nil, fmt.Errorf("read csv: %w", err) }
    if len(rows) == 0 { return nil, fmt.Errorf("read csv: empty input") }
    header := rows[0]
    for i := range header {
        header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
    }
    return NewTable(header, rows[1:]), nil
}

func WriteCSV(path string, t *Table, comma rune) error {
    if dir := filepath.Dir(path); dir != "." {
        if err := os.MkdirAll(dir, 0o755); err != nil { return err }
    }
    f, err := os.Create(path)
    if err != nil { return err }
    defer f.Close()
    if err := Write(f, t, comma); err != nil { return err }
    return f.Close()
}

func Write(w io.Writer, t *Table, comma rune) error {
    cw := csv.NewWriter(w)
    if comma != 0 { cw.Comma = comma } else { cw.Comma = DefaultComma }
    if err := cw.Write(t.Header); err != nil { return err }
    if err := cw.WriteAll(t.Rows); err != nil { return err }
    return cw.Error()
}
