package store

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// RateRules is a declarative throttle/debounce rule set, typically
// loaded from session configuration and applied to a slice list before
// store construction.
//
// Example:
//
//	throttle:
//	  - slice: cursor
//	    pattern: "move*"
//	    window: 100ms
//	debounce:
//	  - slice: search
//	    pattern: query
//	    window: 50ms
type RateRules struct {
	Throttle []RuleConfig `yaml:"throttle"`
	Debounce []RuleConfig `yaml:"debounce"`
}

// RuleConfig binds one pattern/window pair to a named slice.
type RuleConfig struct {
	Slice   string   `yaml:"slice"`
	Pattern string   `yaml:"pattern"`
	Window  Duration `yaml:"window"`
}

// Duration is a time.Duration that decodes from YAML strings like
// "100ms" or from plain nanosecond integers.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var asString string
	if err := node.Decode(&asString); err == nil {
		parsed, perr := time.ParseDuration(asString)
		if perr != nil {
			return fmt.Errorf("parse duration %q: %w", asString, perr)
		}
		*d = Duration(parsed)
		return nil
	}

	var asInt int64
	if err := node.Decode(&asInt); err != nil {
		return fmt.Errorf("duration must be a string or integer: %w", err)
	}
	*d = Duration(asInt)
	return nil
}

// ParseRateRules decodes a YAML rule set.
func ParseRateRules(data []byte) (RateRules, error) {
	var rules RateRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RateRules{}, fmt.Errorf("parse rate rules: %w", err)
	}
	return rules, nil
}

// Apply attaches the rules to their slices and returns the updated
// definitions. A rule naming an unregistered slice is a configuration
// error.
func (r RateRules) Apply(defs []SliceDef) ([]SliceDef, error) {
	byName := make(map[string]int, len(defs))
	for i, def := range defs {
		byName[def.Name] = i
	}

	out := make([]SliceDef, len(defs))
	copy(out, defs)
	for i := range out {
		// Detach rule slices so appends never reach into the caller's defs.
		out[i].Throttle = append([]Rule(nil), out[i].Throttle...)
		out[i].Debounce = append([]Rule(nil), out[i].Debounce...)
	}

	for _, rc := range r.Throttle {
		i, ok := byName[rc.Slice]
		if !ok {
			return nil, fmt.Errorf("throttle rule %q: %w: %q", rc.Pattern, ErrUnknownSlice, rc.Slice)
		}
		out[i].Throttle = append(out[i].Throttle, Rule{Pattern: rc.Pattern, Window: time.Duration(rc.Window)})
	}
	for _, rc := range r.Debounce {
		i, ok := byName[rc.Slice]
		if !ok {
			return nil, fmt.Errorf("debounce rule %q: %w: %q", rc.Pattern, ErrUnknownSlice, rc.Slice)
		}
		out[i].Debounce = append(out[i].Debounce, Rule{Pattern: rc.Pattern, Window: time.Duration(rc.Window)})
	}
	return out, nil
}
