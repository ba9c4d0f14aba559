package config

import (
    "fmt"
    "strings"
    "time"

    "ecgrhythm/internal/data"
    "ecgrhythm/internal/features"
    "ecgrhythm/internal/models"
    "ecgrhythm/internal/split"
    "ecgrhythm/internal/training"
)

// Duration decodes "30s"-style strings from either format.
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
    s := strings.TrimSpace(string(b))
    if s == "" { *d = 0; return nil }
    v, err := time.ParseDuration(s)
    if err != nil { return err }
    *d = Duration(v)
    return nil
}

func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

// Plan returns the Fixed plan built from the train section, or SearchOver
// when a search section is present.
func (c Config) Plan() (training.Plan, error) {
    if c.Train.Search == nil {
        return training.Fixed{Params: training.Hyperparameters{
            NEstimators:     c.Train.NEstimators,
            MaxDepth:        c.Train.MaxDepth,
            MinSamplesSplit: c.Train.MinSamplesSplit,
            MaxFeatures:     models.MaxFeaturesSqrt,
        }}, nil
    }
    s := c.Train.Search
    grid, err := training.ParseGrid(s.Grid)
    if err != nil { return nil, fmt.Errorf("search grid: %w", err) }
    return training.SearchOver{
        Grid:   grid,
        Folds:  s.Folds,
        Budget: training.Budget{MaxEvaluations: s.MaxEvaluations, Timeout: time.Duration(s.Timeout)},
    }, nil
}

func (c Config) SplitOptions() split.Options {
    opts := split.Options{TestFraction: c.Split.TestFraction, Seed: c.Split.Seed, Singletons: split.SingletonTrain}
    if c.Split.Singletons == "draw" { opts.Singletons = split.SingletonDraw }
    return opts
}

func (c Config) ReadOptions() data.ReadOptions {
    return data.ReadOptions{Comma: []rune(c.Data.Comma)[0], Latin1: c.Data.Latin1}
}

func (c Config) Preprocessor() (*features.Preprocessor, error) {
    gaps, err := features.ParseGapPolicy(c.Data.GapPolicy)
    if err != nil { return nil, err }
    p := features.NewPreprocessor()
    p.Target = c.Data.Target
    p.Gaps = gaps
    return p, nil
}
