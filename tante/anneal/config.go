package anneal

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Settings holds the simulated annealing schedule.
type Settings struct {
	NumStates             int     `ini:"n_states"`
	InitAcceptance        float64 `ini:"init_p_acceptance"` // acceptance probability of the worst initial uphill move
	InitTemperatureLogLen int     `ini:"init_t_log_len"`
	CoolingRate           float64 `ini:"cooling_rate"`
	CoolingRoundLen       int     `ini:"cooling_round_len"`
	ProgressPeriod        int     `ini:"progress_update_period"` // 0 disables progress logging
	LogFilename           string  `ini:"log_filename"`           // CSV energy log; empty disables it
}

// DefaultSettings returns the schedule used by the bundled examples.
func DefaultSettings() *Settings {
	return &Settings{
		NumStates:             100000,
		InitAcceptance:        0.97,
		InitTemperatureLogLen: 100,
		CoolingRate:           1 - 1e-4,
		CoolingRoundLen:       1,
		ProgressPeriod:        1000,
	}
}

// LoadSettings reads the [Annealing] section of an INI file.
func LoadSettings(filePath string) (*Settings, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	s := DefaultSettings()
	if err := cfg.Section("Annealing").MapTo(s); err != nil {
		return nil, fmt.Errorf("failed to map [Annealing] section: %w", err)
	}
	s.LogFilename = strings.TrimSpace(s.LogFilename)
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the schedule.
func (s *Settings) Validate() error {
	if s.NumStates <= 0 {
		return fmt.Errorf("config error: n_states must be positive")
	}
	if s.InitAcceptance <= 0 || s.InitAcceptance >= 1 {
		return fmt.Errorf("config error: init_p_acceptance must be between 0 and 1 (exclusive)")
	}
	if s.InitTemperatureLogLen <= 0 {
		return fmt.Errorf("config error: init_t_log_len must be positive")
	}
	if s.CoolingRate <= 0 || s.CoolingRate > 1 {
		return fmt.Errorf("config error: cooling_rate must be in (0, 1]")
	}
	if s.CoolingRoundLen <= 0 {
		return fmt.Errorf("config error: cooling_round_len must be positive")
	}
	if s.ProgressPeriod < 0 {
		return fmt.Errorf("config error: progress_update_period cannot be negative")
	}
	return nil
}
