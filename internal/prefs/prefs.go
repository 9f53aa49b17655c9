package prefs

// Preferences is the small typed key/value set the editor persists across
// sessions.
type Preferences struct {
	SchemaVersion   int    `json:"schemaVersion" validate:"gte=0,lte=1"`
	AutosaveEnabled bool   `json:"autosaveEnabled"`
	ReadabilityMode bool   `json:"readabilityMode"`
	SwipeLock       bool   `json:"swipeLock"`
	LastUsedLocator string `json:"lastUsedLocator"`
}

// Defaults returns the preferences used when no file exists yet.
func Defaults() Preferences {
	return Preferences{
		SchemaVersion:   1,
		AutosaveEnabled: true,
	}
}

// Store is the preference port: typed get/set plus change observation.
// Subscribers fire when an external writer modifies the backing file, not
// on local sets.
type Store interface {
	Snapshot() Preferences
	SetAutosaveEnabled(enabled bool) error
	SetReadabilityMode(enabled bool) error
	SetSwipeLock(enabled bool) error
	SetLastUsedLocator(locator string) error
	ClearLastUsedLocator() error
	Subscribe(fn func(Preferences))
}
