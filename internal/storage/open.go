package storage

import (
	"net/url"
	"strings"
)

// IsPostgresConnString reports whether path should be opened with the
// PostgreSQL backend rather than SQLite.
func IsPostgresConnString(path string) bool {
	return strings.HasPrefix(path, "postgres://") || strings.HasPrefix(path, "postgresql://")
}

// HasEmbeddedCredentials reports whether a PostgreSQL URL carries a password.
func HasEmbeddedCredentials(connStr string) bool {
	u, err := url.Parse(connStr)
	if err != nil || u.User == nil {
		return false
	}
	_, set := u.User.Password()
	return set
}
