package session

import (
	"github.com/golang-jwt/jwt/v5"
)

// Username returns the "username" claim of a JWT access token for display.
// The signature is not verified and an unparsable token yields "".
func Username(accessToken string) string {
	if accessToken == "" {
		return ""
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return ""
	}
	name, _ := claims["username"].(string)
	return name
}
