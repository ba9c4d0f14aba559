package waveform

import (
    "fmt"
    "os"

    "github.com/goccy/go-yaml"
)

// Metadata describes the patient of a recording. Any field may be null.
type Metadata struct {
    PatientID any `yaml:"patient_id"`
    Diagnosis any `yaml:"diagnosi"`
    Age       any `yaml:"age"`
    Sex       any `yaml:"sex"`
    Height    any `yaml:"height"`
    Weight    any `yaml:"weight"`
}

func LoadMetadata(path string) (*Metadata, error) {
    raw, err := os.ReadFile(path)
    if err != nil { return nil, err }
    var m Metadata
    if err := yaml.Unmarshal(raw, &m); err != nil { return nil, fmt.Errorf("%s: %w", path, err) }
    return &m, nil
}

func orUnknown(v any, unit string) string {
    if v == nil { return "unknown" }
    return fmt.Sprint(v) + unit
}

// Title is the figure heading, e.g.
// "17, SR, age: 56, sex: 1, height: 163cm, weight: 63kg".
func (m *Metadata) Title() string {
    return fmt.Sprintf("%v, %v, age: %s, sex: %s, height: %s, weight: %s",
        m.PatientID, m.Diagnosis,
        orUnknown(m.Age, ""), orUnknown(m.Sex, ""),
        orUnknown(m.Height, "cm"), orUnknown(m.Weight, "kg"))
}
