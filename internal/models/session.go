package models

// Session holds the two opaque bearer tokens issued by the server.
type Session struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// Authenticated reports whether an access token is present. No expiry or
// well-formedness check is made.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}
