package api

import (
	"context"
	"net/http"

	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/logger"
)

// TokenPair is the login response.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResult reports the outcome of a registration. Message is never empty.
type RegisterResult struct {
	Success bool
	Message string
	Tokens  TokenPair
}

type AuthClient struct {
	c *Client
}

// Login exchanges credentials for a token pair and persists both tokens. Any
// failure is returned; authentication failures read "Invalid credentials".
func (a *AuthClient) Login(ctx context.Context, username, password string) (TokenPair, error) {
	var pair TokenPair
	body := map[string]string{"username": username, "password": password}
	if err := a.c.do(ctx, http.MethodPost, "/login/", false, body, &pair); err != nil {
		apiErr := Classify(err)
		if apiErr.Kind == KindAuth || apiErr.Kind == KindValidation {
			apiErr.Message = constants.MsgInvalidCredentials
		}
		return TokenPair{}, apiErr
	}
	if err := a.c.tokens.Save(pair.Access, pair.Refresh); err != nil {
		return TokenPair{}, err
	}
	logger.Info("logged in", "username", username)
	return pair, nil
}

// Register creates an account. It never fails: problems are reported through
// the result. Tokens are stored only when the server returns both.
func (a *AuthClient) Register(ctx context.Context, req RegisterRequest) RegisterResult {
	var pair TokenPair
	if err := a.c.do(ctx, http.MethodPost, "/register/", false, req, &pair); err != nil {
		msg := registerMessage(err)
		logger.Warn("registration failed", "username", req.Username, "message", msg)
		return RegisterResult{Success: false, Message: msg}
	}

	if pair.Access != "" && pair.Refresh != "" {
		if err := a.c.tokens.Save(pair.Access, pair.Refresh); err != nil {
			logger.Warn("failed to store tokens returned by registration", "err", err)
		}
	}
	return RegisterResult{Success: true, Message: constants.MsgRegistrationOK, Tokens: pair}
}

// Logout forgets both tokens. The server is not contacted.
func (a *AuthClient) Logout() error {
	return a.c.tokens.Clear()
}

func (a *AuthClient) AccessToken() (string, error) {
	return a.c.tokens.Access()
}

func (a *AuthClient) RefreshToken() (string, error) {
	return a.c.tokens.Refresh()
}

// registerMessage ranks the server's "message" above "detail", then field
// errors, then the transport error text. The field-error step is deliberate:
// a 400 often carries only field errors, and those name the actual problem
// where the bare status text does not.
func registerMessage(err error) string {
	apiErr := Classify(err)
	var msg string
	switch {
	case apiErr.serverMessage != "":
		msg = apiErr.serverMessage
	case apiErr.detail != "":
		msg = apiErr.detail
	case apiErr.FirstFieldError() != "":
		msg = apiErr.FirstFieldError()
	default:
		msg = apiErr.Message
	}
	if msg == "" {
		msg = constants.MsgRegistrationFailed
	}
	return msg
}
