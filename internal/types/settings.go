package types

// Settings is the user-facing runtime configuration. It is loaded at
// startup (defaults merged with stored overrides), mutated by explicit
// update and persisted on every change. Only these keys are recognized;
// unknown keys in the stored copy are dropped on the next save.
type Settings struct {
	MaxAgeDays  float64 `json:"maxAgeDays"`
	MaxSizeGb   float64 `json:"maxSizeGb"`
	RegexSearch bool    `json:"regexSearch"`
}

// DefaultSettings returns the first-run settings.
func DefaultSettings() Settings {
	return Settings{
		MaxAgeDays:  7,
		MaxSizeGb:   10,
		RegexSearch: false,
	}
}

// SettingsUpdate is a partial settings mutation; nil fields are left
// unchanged.
type SettingsUpdate struct {
	MaxAgeDays  *float64 `json:"maxAgeDays,omitempty"`
	MaxSizeGb   *float64 `json:"maxSizeGb,omitempty"`
	RegexSearch *bool    `json:"regexSearch,omitempty"`
}

// Apply merges u into s.
func (u SettingsUpdate) Apply(s *Settings) {
	if u.MaxAgeDays != nil {
		s.MaxAgeDays = *u.MaxAgeDays
	}
	if u.MaxSizeGb != nil {
		s.MaxSizeGb = *u.MaxSizeGb
	}
	if u.RegexSearch != nil {
		s.RegexSearch = *u.RegexSearch
	}
}
