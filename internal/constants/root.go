package constants

const (
	AppName            = "smarthabit"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/smarthabit/state.db"
	DefaultServerURL   = "http://localhost:8000"
	Version            = "v0.2.0"

	// APIBasePath is the fixed prefix of every REST endpoint
	APIBasePath = "/api/auth"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// HeatmapEpoch is the first day rendered by the heatmap
	HeatmapEpoch = "2024-01-01"

	// Keyring users for the session tokens
	KeyringAccessUser  = "access-token"
	KeyringRefreshUser = "refresh-token"

	// Token backends
	TokenBackendKeyring = "keyring"
	TokenBackendState   = "state"

	DefaultProgressStatus = "Not Started"

	// ToastDuration is how long transient notifications stay visible, in milliseconds
	ToastDurationMs = 3000
)

// Route identifies a screen of the interactive shell.
type Route string

const (
	RouteRoot      Route = "/"
	RouteLogin     Route = "/login"
	RouteRegister  Route = "/register"
	RouteDashboard Route = "/dashboard"
)

// SessionState represents the current state of the dashboard screen
type SessionState int

const (
	StateList SessionState = iota
	StateAddHabit
	StateHeatmap
	StateConfirmDelete
)
