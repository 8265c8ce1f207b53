package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"go.uber.org/zap"
)

// DefaultAllowancePct is the design growth allowance applied when no value
// has been configured.
const DefaultAllowancePct = 10.0

type allowanceFile struct {
	AllowancePct float64 `json:"allowance_pct"`
}

// LoadAllowance returns the persisted allowance percentage, or the default
// when the config file is absent or unreadable. A broken config file never
// blocks the pipeline; the default keeps it usable, and falling back on a
// file that exists is logged so a configured 10 stays distinguishable from
// a swallowed parse failure.
func LoadAllowance(path string, log *zap.Logger) float64 {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("allowance config unreadable, using default",
				zap.String("path", path),
				zap.Float64("default_pct", DefaultAllowancePct),
				zap.Error(err))
		}
		return DefaultAllowancePct
	}
	var cfg allowanceFile
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Warn("allowance config corrupt, using default",
			zap.String("path", path),
			zap.Float64("default_pct", DefaultAllowancePct),
			zap.Error(err))
		return DefaultAllowancePct
	}
	if cfg.AllowancePct < 0 {
		log.Warn("allowance config negative, using default",
			zap.String("path", path),
			zap.Float64("allowance_pct", cfg.AllowancePct),
			zap.Float64("default_pct", DefaultAllowancePct))
		return DefaultAllowancePct
	}
	return cfg.AllowancePct
}

// SaveAllowance validates and persists the allowance percentage. Negative
// values are rejected before anything touches the file, so a rejected input
// leaves the previous value intact. Zero is a valid allowance.
func SaveAllowance(path string, pct float64) error {
	if pct < 0 {
		return fmt.Errorf("allowance percentage cannot be negative (got %v)", pct)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := json.Marshal(allowanceFile{AllowancePct: pct})
	if err != nil {
		return fmt.Errorf("encode allowance config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write allowance config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace allowance config: %w", err)
	}
	return nil
}

// SetAllowanceFromString parses a user-supplied percentage and persists it.
// Non-numeric input is rejected with a message naming the input.
func SetAllowanceFromString(path, input string) (float64, error) {
	pct, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a valid percentage", input)
	}
	if err := SaveAllowance(path, pct); err != nil {
		return 0, err
	}
	return pct, nil
}
