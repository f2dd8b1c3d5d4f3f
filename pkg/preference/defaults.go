package preference

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/notifier/pkg/event"
	"github.com/dmitrymomot/notifier/pkg/notification"
)

//go:embed defaults.yaml
var defaultsYAML []byte

type defaultRule struct {
	EventType string `yaml:"event_type"`
	Channel   string `yaml:"channel"`
	Frequency string `yaml:"frequency"`
	Enabled   bool   `yaml:"enabled"`
}

type defaultRuleSet struct {
	Rules []defaultRule `yaml:"rules"`
}

// defaultRules is parsed once at init; a broken embedded rule set is a build
// defect, so failing fast beats limping along with divergent defaults.
var defaultRules = mustParseDefaults()

func mustParseDefaults() []defaultRule {
	var set defaultRuleSet
	if err := yaml.Unmarshal(defaultsYAML, &set); err != nil {
		panic(fmt.Errorf("parse embedded preference defaults: %w", err))
	}
	for _, r := range set.Rules {
		if !event.Type(r.EventType).IsValid() {
			panic(fmt.Errorf("embedded preference defaults: unknown event type %q", r.EventType))
		}
		if !notification.Channel(r.Channel).IsValid() {
			panic(fmt.Errorf("embedded preference defaults: unknown channel %q", r.Channel))
		}
		if !Frequency(r.Frequency).IsValid() {
			panic(fmt.Errorf("embedded preference defaults: unknown frequency %q", r.Frequency))
		}
	}
	return set.Rules
}

// DefaultsFor synthesizes the default rule set for a user: a pure function so
// every call site starts from identical defaults. The returned rules carry no
// id or timestamps until a store persists them.
func DefaultsFor(userID string) []Preference {
	out := make([]Preference, 0, len(defaultRules))
	for _, r := range defaultRules {
		out = append(out, Preference{
			UserID:    userID,
			EventType: event.Type(r.EventType),
			Channel:   notification.Channel(r.Channel),
			Frequency: Frequency(r.Frequency),
			Enabled:   r.Enabled,
		})
	}
	return out
}

// defaultFor returns the synthesized default rule for the tuple, if any.
func defaultFor(userID string, et event.Type, ch notification.Channel) (Preference, bool) {
	for _, p := range DefaultsFor(userID) {
		if p.EventType == et && p.Channel == ch {
			return p, true
		}
	}
	return Preference{}, false
}
