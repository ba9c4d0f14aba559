package data

import (
    "errors"
    "fmt"
    "sort"
    "strings"
)

// Table is a raw delimited file: a header row plus string cells.
type Table struct {
    Header []string
    Rows   [][]string
    index  map[string]int
}

func NewTable(header []string, rows [][]string) *Table {
    t := &Table{Header: header, Rows: rows}
    t.reindex()
    return t
}

func (t *Table) reindex() {
    t.index = make(map[string]int, len(t.Header))
    for i, h := range t.Header { t.index[h] = i }
}

// Col returns the position of a column, or -1.
func (t *Table) Col(name string) int {
    if t.index == nil { t.reindex() }
    if i, ok := t.index[name]; ok { return i }
    return -1
}

func (t *Table) Has(name string) bool { return t.Col(name) >= 0 }

// Get returns the cell at row i of the named column ("" when the column or cell is absent).
func (t *Table) Get(i int, name string) string {
    c := t.Col(name)
    if c < 0 || c >= len(t.Rows[i]) { return "" }
    return t.Rows[i][c]
}

// Set overwrites a cell of an existing column.
func (t *Table) Set(i int, name, value string) {
    c := t.Col(name)
    if c < 0 { return }
    for len(t.Rows[i]) <= c { t.Rows[i] = append(t.Rows[i], "") }
    t.Rows[i][c] = value
}

func (t *Table) Len() int { return len(t.Rows) }

// Require fails with a SchemaError naming every absent column.
func (t *Table) Require(cols ...string) error {
    var missing []string
    for _, c := range cols {
        if !t.Has(c) { missing = append(missing, c) }
    }
    if len(missing) > 0 {
        sort.Strings(missing)
        return &SchemaError{Missing: missing}
    }
    return nil
}

// ErrSchema matches every SchemaError with errors.Is.
var ErrSchema = errors.New("schema mismatch")

// SchemaError reports required input columns that are absent, a cell whose
// value is outside its column's domain, or a feature width that does not match
// what a model was trained on.
type SchemaError struct {
    Missing []string
    Column  string
    Row     int
    Value   string
    Want    int
    Got     int
}

func (e *SchemaError) Error() string {
    if len(e.Missing) > 0 {
        return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
    }
    if e.Column != "" {
        return fmt.Sprintf("invalid %s value %q at row %d", e.Column, e.Value, e.Row)
    }
    return fmt.Sprintf("feature width %d does not match model width %d", e.Got, e.Want)
}

func (e *SchemaError) Is(target error) bool { return target == ErrSchema }
