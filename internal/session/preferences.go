package session

import (
	"fmt"

	"github.com/julianstephens/smarthabit/internal/models"
	"github.com/julianstephens/smarthabit/internal/storage"
)

// SetDarkMode persists the theme choice. It is stored apart from the tokens
// and survives logout.
func SetDarkMode(store storage.Provider, dark bool) (models.Preferences, error) {
	prefs, err := store.GetPreferences()
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to read preferences: %w", err)
	}
	prefs.DarkMode = dark
	if err := store.SavePreferences(prefs); err != nil {
		return models.Preferences{}, fmt.Errorf("failed to save preferences: %w", err)
	}
	return prefs, nil
}

// ToggleDarkMode flips and persists the theme.
func ToggleDarkMode(store storage.Provider) (models.Preferences, error) {
	prefs, err := store.GetPreferences()
	if err != nil {
		return models.Preferences{}, fmt.Errorf("failed to read preferences: %w", err)
	}
	return SetDarkMode(store, !prefs.DarkMode)
}
