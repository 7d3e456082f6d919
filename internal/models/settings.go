package models

// Preferences represents display settings persisted independently of the session
type Preferences struct {
	DarkMode bool `json:"dark_mode"`
}
