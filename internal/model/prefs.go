package model

// Preferences is the UI preference set. It is stored independently of
// session scope, global to the installation.
type Preferences struct {
	DarkMode bool `json:"dark_mode"`

	// Collapsed tracks per-section collapse flags keyed by section name.
	Collapsed map[string]bool `json:"collapsed,omitempty"`
}
