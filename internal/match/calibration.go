package match

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// calibrationFile is the JSON structure of a weight calibration file.
// Weights are decoded as a raw map so unknown component keys can be
// rejected instead of silently dropped.
type calibrationFile struct {
	Version string             `json:"version"`
	Weights map[string]float64 `json:"weights"`
}

// LoadCalibration loads weight overrides from a JSON calibration file and
// merges them over the base weights. Only non-zero entries override; keys
// outside the component set fail the load. An empty path returns the base
// unchanged.
//
// Unlike a missing optional file, a present-but-broken calibration file is
// an error: a typo in an override must not quietly ship default weights.
func LoadCalibration(path string, base Weights) (Weights, error) {
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("read calibration file: %w", err)
	}

	var cfg calibrationFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse calibration file %s: %w", path, err)
	}

	merged, err := MergeCalibration(base, cfg.Weights)
	if err != nil {
		return base, fmt.Errorf("calibration file %s: %w", path, err)
	}
	if err := merged.Validate(); err != nil {
		return base, fmt.Errorf("calibration file %s: %w", path, err)
	}

	logCalibrationOverrides(path, base, merged)
	return merged, nil
}

// MergeCalibration applies non-zero overrides onto the base weights.
// Every override key must name a known component.
func MergeCalibration(base Weights, overrides map[string]float64) (Weights, error) {
	merged := base
	for key, v := range overrides {
		if v == 0 {
			continue
		}
		if err := merged.set(Component(key), v); err != nil {
			return base, err
		}
	}
	return merged, nil
}

// logCalibrationOverrides logs which component weights changed from the
// base configuration.
func logCalibrationOverrides(path string, base, merged Weights) {
	var overrides []string
	for _, c := range Components {
		if merged.get(c) != base.get(c) {
			overrides = append(overrides,
				fmt.Sprintf("%s: %.2f -> %.2f", c, base.get(c), merged.get(c)))
		}
	}

	if len(overrides) > 0 {
		slog.Info("loaded weight calibration with overrides",
			"path", path,
			"overrides", overrides)
	} else {
		slog.Info("loaded weight calibration (no overrides)", "path", path)
	}
}
