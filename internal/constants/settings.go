package constants

const (
	// State store keys
	SettingDarkMode     = "dark_mode"
	SettingAccessToken  = "access_token"
	SettingRefreshToken = "refresh_token"

	DefaultDarkMode = false
)
