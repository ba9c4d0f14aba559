// Package waveform loads 12-lead ECG recordings and renders them.
package waveform

import (
    "encoding/csv"
    "errors"
    "fmt"
    "io"
    "os"
    "strconv"
    "strings"
)

// Leads in column order.
var Leads = []string{"I", "II", "III", "aVF", "aVR", "aVL", "V1", "V2", "V3", "V4", "V5", "V6"}

// SampleRate of the recordings, in Hz.
const SampleRate = 500.0

// Recording holds one row per sample and one column per lead.
type Recording [][]float64

func (r Recording) Samples() int { return len(r) }

// Lead returns the samples of lead i.
func (r Recording) Lead(i int) []float64 {
    out := make([]float64, len(r))
    for s, row := range r { out[s] = row[i] }
    return out
}

// Seconds is the recording length.
func (r Recording) Seconds() float64 { return float64(len(r)) / SampleRate }

func LoadECG(path string) (Recording, error) {
    f, err := os.Open(path)
    if err != nil { return nil, err }
    defer f.Close()
    rec, err := ReadECG(f)
    if err != nil { return nil, fmt.Errorf("%s: %w", path, err) }
    return rec, nil
}

// ReadECG parses comma separated samples, skipping the header row.
func ReadECG(r io.Reader) (Recording, error) {
    cr := csv.NewReader(r)
    cr.ReuseRecord = true
    if _, err := cr.Read(); err != nil {
        if errors.Is(err, io.EOF) { return nil, errors.New("empty recording") }
        return nil, err
    }
    var rec Recording
    for line := 2; ; line++ {
        row, err := cr.Read()
        if errors.Is(err, io.EOF) { break }
        if err != nil { return nil, err }
        if len(row) < len(Leads) { return nil, fmt.Errorf("line %d: %d columns, want %d leads", line, len(row), len(Leads)) }
        sample := make([]float64, len(Leads))
        for i := range sample {
            v, err := strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
            if err != nil { return nil, fmt.Errorf("line %d lead %s: %w", line, Leads[i], err) }
            sample[i] = v
        }
        rec = append(rec, sample)
    }
    if len(rec) == 0 { return nil, errors.New("recording has no samples") }
    return rec, nil
}
