package models

import (
	"fmt"
	"strconv"

	"github.com/julianstephens/smarthabit/internal/constants"
)

// MapToPreferences converts a map of key-value pairs to a Preferences struct.
func MapToPreferences(data map[string]string) (Preferences, error) {
	prefs := Preferences{DarkMode: constants.DefaultDarkMode}

	for key, value := range data {
		switch key {
		case constants.SettingDarkMode:
			b, err := strconv.ParseBool(value)
			if err != nil {
				return Preferences{}, fmt.Errorf("parsing %s: %w", constants.SettingDarkMode, err)
			}
			prefs.DarkMode = b
		}
	}

	return prefs, nil
}

// PreferencesToMap converts Preferences into the key-value form stored on disk.
func PreferencesToMap(p Preferences) map[string]string {
	return map[string]string{
		constants.SettingDarkMode: strconv.FormatBool(p.DarkMode),
	}
}
