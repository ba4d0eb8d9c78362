// Package tuning holds the externally configurable simulation parameters.
// Values load from a YAML file; every field has a compiled-in default so the
// server runs without one.
package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning is the root configuration document.
type Tuning struct {
	MapWidth  int `yaml:"map_width"`
	MapHeight int `yaml:"map_height"`

	TickMs             int   `yaml:"tick_ms"`
	SnapshotEveryTicks int   `yaml:"snapshot_every_ticks"`
	RandomSeed         int64 `yaml:"random_seed"` // 0 selects a time-based seed

	// Coverage base effects written at station tiles before smoothing.
	PoliceEffect int `yaml:"police_effect"`
	FireEffect   int `yaml:"fire_effect"`

	DisastersEnabled bool `yaml:"disasters_enabled"`
	GameLevel        int  `yaml:"game_level"` // 0 easy, 1 medium, 2 hard

	// MeltdownRisk is the per-difficulty denominator of the per-cadence
	// meltdown roll: a roll of 0 in [0,risk) melts the plant down.
	MeltdownRisk []int `yaml:"meltdown_risk"`
}

// Default returns the production defaults.
func Default() Tuning {
	return Tuning{
		MapWidth:           120,
		MapHeight:          100,
		TickMs:             250,
		SnapshotEveryTicks: 64,
		PoliceEffect:       100,
		FireEffect:         100,
		DisastersEnabled:   true,
		GameLevel:          0,
		MeltdownRisk:       []int{30000, 20000, 10000},
	}
}

// Load reads a tuning file and overlays it on the defaults.
func Load(path string) (Tuning, error) {
	t := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, err
	}
	return t, nil
}

// Validate rejects configurations the engine cannot run with.
func (t Tuning) Validate() error {
	if t.MapWidth <= 0 || t.MapHeight <= 0 {
		return fmt.Errorf("tuning: map size %dx%d invalid", t.MapWidth, t.MapHeight)
	}
	if t.GameLevel < 0 || t.GameLevel >= len(t.MeltdownRisk) {
		return fmt.Errorf("tuning: game_level %d has no meltdown_risk entry", t.GameLevel)
	}
	for i, r := range t.MeltdownRisk {
		if r <= 0 {
			return fmt.Errorf("tuning: meltdown_risk[%d] must be positive", i)
		}
	}
	return nil
}
