// Package config loads pipeline settings from YAML or TOML plus environment
// overrides.
package config

import (
    "fmt"
    "os"
    "path/filepath"
    "strconv"
    "strings"

    "github.com/go-playground/validator/v10"
    "github.com/goccy/go-yaml"
    "github.com/pelletier/go-toml/v2"

    "ecgrhythm/internal/data"
    "ecgrhythm/internal/split"
    "ecgrhythm/internal/training"
)

type Config struct {
    Data   DataConfig   `yaml:"data" toml:"data"`
    Split  SplitConfig  `yaml:"split" toml:"split"`
    Train  TrainConfig  `yaml:"train" toml:"train"`
    Output OutputConfig `yaml:"output" toml:"output"`
}

type DataConfig struct {
    Path      string `yaml:"path" toml:"path" validate:"required"`
    Comma     string `yaml:"comma" toml:"comma" validate:"len=1"`
    Latin1    bool   `yaml:"latin1" toml:"latin1"`
    Target    string `yaml:"target" toml:"target" validate:"required"`
    GapPolicy string `yaml:"gap_policy" toml:"gap_policy" validate:"omitempty,oneof=mean global_mean leave nan fail error"`
}

type SplitConfig struct {
    TestFraction float64 `yaml:"test_fraction" toml:"test_fraction" validate:"gt=0,lt=1"`
    Seed         int64   `yaml:"seed" toml:"seed"`
    Singletons   string  `yaml:"singletons" toml:"singletons" validate:"oneof=train draw"`
}

type TrainConfig struct {
    Seed            int64         `yaml:"seed" toml:"seed"`
    Model           string        `yaml:"model" toml:"model" validate:"oneof=random_forest bagging"`
    Workers         int           `yaml:"workers" toml:"workers" validate:"gte=0"`
    NEstimators     int           `yaml:"n_estimators" toml:"n_estimators" validate:"gte=1"`
    MaxDepth        int           `yaml:"max_depth" toml:"max_depth" validate:"gte=0"`
    MinSamplesSplit int           `yaml:"min_samples_split" toml:"min_samples_split" validate:"gte=2"`
    Search          *SearchConfig `yaml:"search,omitempty" toml:"search,omitempty"`
}

// SearchConfig enables the grid search. Grid maps a hyperparameter name to
// its candidate values.
type SearchConfig struct {
    Grid           map[string][]any `yaml:"grid" toml:"grid" validate:"required,min=1"`
    Folds          int              `yaml:"folds" toml:"folds" validate:"omitempty,gte=2"`
    MaxEvaluations int              `yaml:"max_evaluations" toml:"max_evaluations" validate:"gte=0"`
    Timeout        Duration         `yaml:"timeout" toml:"timeout"`
}

type OutputConfig struct {
    Dir  string `yaml:"dir" toml:"dir" validate:"required"`
    Plot bool   `yaml:"plot" toml:"plot"`
}

func Default() Config {
    return Config{
        Data:  DataConfig{Path: "data/ecg_metadata.csv", Comma: string(data.DefaultComma), Target: data.ColDiagnosis},
        Split: SplitConfig{TestFraction: split.DefaultTestFraction, Seed: split.DefaultSeed, Singletons: "train"},
        Train: TrainConfig{
            Seed:            training.DefaultSeed,
            Model:           "random_forest",
            NEstimators:     100,
            MinSamplesSplit: 2,
        },
        Output: OutputConfig{Dir: "runs/latest", Plot: true},
    }
}

// Load reads path over the defaults, applies the environment and validates.
// An empty path loads the defaults only.
func Load(path string) (Config, error) {
    cfg := Default()
    if path != "" {
        raw, err := os.ReadFile(path)
        if err != nil { return Config{}, err }
        switch ext := strings.ToLower(filepath.Ext(path)); ext {
        case ".yaml", ".yml":
            err = yaml.Unmarshal(raw, &cfg)
        case ".toml":
            err = toml.Unmarshal(raw, &cfg)
        default:
            return Config{}, fmt.Errorf("config %s: unsupported format %q", path, ext)
        }
        if err != nil { return Config{}, fmt.Errorf("config %s: %w", path, err) }
    }
    if err := cfg.applyEnv(); err != nil { return Config{}, err }
    if err := cfg.Validate(); err != nil { return Config{}, err }
    return cfg, nil
}

func (c *Config) applyEnv() error {
    c.Data.Path = getEnv("ECG_DATA", c.Data.Path)
    c.Output.Dir = getEnv("ECG_OUT_DIR", c.Output.Dir)
    if v := os.Getenv("ECG_SEED"); v != "" {
        seed, err := strconv.ParseInt(v, 10, 64)
        if err != nil { return fmt.Errorf("ECG_SEED: %w", err) }
        c.Split.Seed = seed
        c.Train.Seed = seed
    }
    return nil
}

func getEnv(key, defaultValue string) string {
    if value := os.Getenv(key); value != "" { return value }
    return defaultValue
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
    if err := validate.Struct(c); err != nil { return fmt.Errorf("invalid config: %w", err) }
    return nil
}
