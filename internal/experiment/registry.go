package experiment

import (
	"fmt"

	"github.com/san-kum/slopefield/internal/config"
)

// Scenario names one built-in preset.
type Scenario struct {
	Kind  string
	Name  string
	Title string
}

// Scenarios lists every preset, grouped by kind.
func Scenarios() []Scenario {
	var out []Scenario
	for _, kind := range config.Kinds() {
		for _, name := range config.ListPresets(kind) {
			cfg := config.GetPreset(kind, name)
			out = append(out, Scenario{Kind: kind, Name: name, Title: cfg.Title})
		}
	}
	return out
}

var defaultScenario = map[string]string{
	config.KindField: "sine",
	config.KindIVP:   "textbook",
}

// Resolve loads path when it is set and otherwise looks name up among the
// presets of kind. An empty name picks the kind's default scenario.
func Resolve(kind, name, path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	if name == "" {
		name = defaultScenario[kind]
	}
	cfg := config.GetPreset(kind, name)
	if cfg == nil {
		return nil, fmt.Errorf("unknown %s scenario: %s (available: %v)", kind, name, config.ListPresets(kind))
	}
	return cfg, nil
}
