package tante

import (
	"fmt"
	"strings"

	"gopkg.in/ini.v1"
)

// Settings holds the structural bounds, operator weights and numeric ranges of
// a network.
type Settings struct {
	NumInputs  int `ini:"n_inputs"`
	NumOutputs int `ini:"n_outputs"`
	MaxHidden  int `ini:"max_hidden"`

	ActivationDefault string     `ini:"default_activation"` // name or 'random'
	Activation        Activation `ini:"-"`                  // Derived from ActivationDefault

	MinInitWeight float64 `ini:"min_init_weight"`
	MaxInitWeight float64 `ini:"max_init_weight"`
	MinWeightStep float64 `ini:"min_weight_step"`
	MaxWeightStep float64 `ini:"max_weight_step"`
	MinBiasStep   float64 `ini:"min_bias_step"`
	MaxBiasStep   float64 `ini:"max_bias_step"`

	// Weight reroll always draws from [MinWeight, MaxWeight]; ClampWeight
	// additionally bounds the result of a weight step. Same for bias.
	ClampWeight bool    `ini:"clamp_weight"`
	MinWeight   float64 `ini:"min_weight"`
	MaxWeight   float64 `ini:"max_weight"`
	ClampBias   bool    `ini:"clamp_bias"`
	MinBias     float64 `ini:"min_bias"`
	MaxBias     float64 `ini:"max_bias"`

	MaxRestoreAttempts int  `ini:"max_restore_attempts"`
	MaxChangeAttempts  int  `ini:"max_change_attempts"`
	PruneDangling      bool `ini:"prune_dangling"`

	Weights OperationWeights `ini:"-"` // [OperationWeights] section
}

// OperationWeights holds one non-negative selection weight per operator kind.
type OperationWeights struct {
	InputAdd               int `ini:"input_add"`
	InputRemove            int `ini:"input_remove"`
	InputRerollActivation  int `ini:"input_reroll_activation"`
	OutputAdd              int `ini:"output_add"`
	OutputRemove           int `ini:"output_remove"`
	OutputRerollActivation int `ini:"output_reroll_activation"`
	HiddenAttach           int `ini:"hidden_attach"`
	HiddenRemove           int `ini:"hidden_remove"`
	HiddenRerollActivation int `ini:"hidden_reroll_activation"`
	ConnectionAdd          int `ini:"connection_add"`
	ConnectionRemove       int `ini:"connection_remove"`
	WeightStep             int `ini:"weight_step"`
	WeightReroll           int `ini:"weight_reroll"`
	BiasStep               int `ini:"bias_step"`
	BiasReroll             int `ini:"bias_reroll"`
}

func (w *OperationWeights) field(op Operation) *int {
	switch op {
	case OpInputAdd:
		return &w.InputAdd
	case OpInputRemove:
		return &w.InputRemove
	case OpInputRerollActivation:
		return &w.InputRerollActivation
	case OpOutputAdd:
		return &w.OutputAdd
	case OpOutputRemove:
		return &w.OutputRemove
	case OpOutputRerollActivation:
		return &w.OutputRerollActivation
	case OpHiddenAttach:
		return &w.HiddenAttach
	case OpHiddenRemove:
		return &w.HiddenRemove
	case OpHiddenRerollActivation:
		return &w.HiddenRerollActivation
	case OpConnectionAdd:
		return &w.ConnectionAdd
	case OpConnectionRemove:
		return &w.ConnectionRemove
	case OpWeightStep:
		return &w.WeightStep
	case OpWeightReroll:
		return &w.WeightReroll
	case OpBiasStep:
		return &w.BiasStep
	case OpBiasReroll:
		return &w.BiasReroll
	}
	panic(fmt.Sprintf("unknown operation %d", int(op)))
}

// Weight returns the selection weight configured for op.
func (s *Settings) Weight(op Operation) int { return *s.Weights.field(op) }

// SetWeight sets the selection weight of op.
func (s *Settings) SetWeight(op Operation, w int) { *s.Weights.field(op) = w }

// DefaultSettings returns settings with every operator enabled and the
// numeric ranges used by the bundled examples.
func DefaultSettings(nInputs, nOutputs, maxHidden int) *Settings {
	s := &Settings{
		NumInputs:          nInputs,
		NumOutputs:         nOutputs,
		MaxHidden:          maxHidden,
		ActivationDefault:  "random",
		Activation:         ActivationRandom,
		MinInitWeight:      -1,
		MaxInitWeight:      1,
		MinWeightStep:      -0.1,
		MaxWeightStep:      0.1,
		MinBiasStep:        -0.1,
		MaxBiasStep:        0.1,
		MinWeight:          -10,
		MaxWeight:          10,
		MinBias:            -10,
		MaxBias:            10,
		MaxRestoreAttempts: 100000,
		MaxChangeAttempts:  10000,
		PruneDangling:      true,
	}
	for _, op := range AllOperations {
		s.SetWeight(op, 10)
	}
	return s
}

// LoadSettings loads network settings from an INI file. Keys live in the
// [Network] section; operator weights in [OperationWeights].
func LoadSettings(filePath string) (*Settings, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}
	return settingsFromINI(cfg)
}

func settingsFromINI(cfg *ini.File) (*Settings, error) {
	// Start from defaults so absent keys keep sensible values.
	s := DefaultSettings(0, 0, 0)
	s.Weights = OperationWeights{}
	if err := cfg.Section("Network").MapTo(s); err != nil {
		return nil, fmt.Errorf("failed to map [Network] section: %w", err)
	}
	if err := cfg.Section("OperationWeights").MapTo(&s.Weights); err != nil {
		return nil, fmt.Errorf("failed to map [OperationWeights] section: %w", err)
	}

	s.ActivationDefault = cleanIniString(s.ActivationDefault)
	if s.ActivationDefault == "" {
		s.ActivationDefault = "random"
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the settings and derives Activation from ActivationDefault.
func (s *Settings) Validate() error {
	if s.NumInputs <= 0 {
		return fmt.Errorf("config error: n_inputs must be positive")
	}
	if s.NumOutputs <= 0 {
		return fmt.Errorf("config error: n_outputs must be positive")
	}
	if s.MaxHidden <= 0 {
		return fmt.Errorf("config error: max_hidden must be positive")
	}
	if s.MaxRestoreAttempts <= 0 {
		return fmt.Errorf("config error: max_restore_attempts must be positive")
	}
	if s.MaxChangeAttempts <= 0 {
		return fmt.Errorf("config error: max_change_attempts must be positive")
	}

	ranges := []struct {
		name     string
		min, max float64
	}{
		{"init_weight", s.MinInitWeight, s.MaxInitWeight},
		{"weight_step", s.MinWeightStep, s.MaxWeightStep},
		{"bias_step", s.MinBiasStep, s.MaxBiasStep},
		{"weight", s.MinWeight, s.MaxWeight},
		{"bias", s.MinBias, s.MaxBias},
	}
	for _, r := range ranges {
		if r.min > r.max {
			return fmt.Errorf("config error: min_%s cannot be greater than max_%s", r.name, r.name)
		}
	}

	for _, op := range AllOperations {
		if s.Weight(op) < 0 {
			return fmt.Errorf("config error: weight of %s cannot be negative", op)
		}
	}

	if s.ActivationDefault != "" {
		a, err := ParseActivation(s.ActivationDefault)
		if err != nil {
			return fmt.Errorf("config error: %w", err)
		}
		s.Activation = a
	}
	return nil
}

// cleanIniString removes inline comments and trims whitespace from a string read from INI.
func cleanIniString(s string) string {
	if idx := strings.IndexAny(s, "#;"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
