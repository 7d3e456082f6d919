package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/smarthabit/internal/apitest"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/session"
)

func TestLoginPersistsTokens(t *testing.T) {
	srv := apitest.NewServer(t)
	tokens := session.NewMemoryTokenStore()
	auth := New(srv.URL, tokens).Auth()

	pair, err := auth.Login(context.Background(), "ada", "lovelace")
	require.NoError(t, err)
	assert.Equal(t, apitest.AccessToken, pair.Access)

	access, err := auth.AccessToken()
	require.NoError(t, err)
	refresh, err := auth.RefreshToken()
	require.NoError(t, err)
	assert.Equal(t, pair.Access, access)
	assert.Equal(t, pair.Refresh, refresh)

	req := srv.LastRequest()
	require.NotNil(t, req)
	assert.Equal(t, "/api/auth/login/", req.URL.Path)
	assert.Empty(t, req.Header.Get("Authorization"))
	assert.NotEmpty(t, req.Header.Get("X-Request-ID"))
}

func TestLoginFailures(t *testing.T) {
	srv := apitest.NewServer(t)
	tokens := session.NewMemoryTokenStore()
	auth := New(srv.URL, tokens).Auth()

	for _, creds := range [][2]string{{"ada", "wrong"}, {"", ""}, {"nobody", "x"}} {
		_, err := auth.Login(context.Background(), creds[0], creds[1])
		require.Error(t, err)
		assert.Equal(t, constants.MsgInvalidCredentials, err.Error())

		access, _ := auth.AccessToken()
		assert.Empty(t, access)
	}
}

func TestLoginNetworkFailure(t *testing.T) {
	srv := apitest.NewServer(t)
	url := srv.URL
	srv.Close()

	_, err := New(url, session.NewMemoryTokenStore()).Auth().Login(context.Background(), "ada", "lovelace")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
}

func TestRegister(t *testing.T) {
	srv := apitest.NewServer(t)
	tokens := session.NewMemoryTokenStore()
	auth := New(srv.URL, tokens).Auth()

	res := auth.Register(context.Background(), RegisterRequest{Username: "grace", Email: "grace@navy.mil", Password: "hopper123"})
	assert.True(t, res.Success)
	assert.Equal(t, constants.MsgRegistrationOK, res.Message)

	// The server returned no tokens, so none are stored
	access, _ := auth.AccessToken()
	assert.Empty(t, access)
}

func TestRegisterNeverFails(t *testing.T) {
	srv := apitest.NewServer(t)
	auth := New(srv.URL, session.NewMemoryTokenStore()).Auth()

	res := auth.Register(context.Background(), RegisterRequest{Username: "ada", Email: "ada@example.com", Password: "longenough"})
	assert.False(t, res.Success)
	assert.Equal(t, "Username already taken", res.Message)

	res = auth.Register(context.Background(), RegisterRequest{Username: "linus", Email: "l@example.com", Password: "short"})
	assert.False(t, res.Success)
	assert.Equal(t, "Ensure this field has at least 8 characters.", res.Message)

	url := srv.URL
	srv.Close()
	res = New(url, session.NewMemoryTokenStore()).Auth().Register(context.Background(), RegisterRequest{Username: "x"})
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Message)
}

func TestRegisterMessagePrecedence(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"message over detail", 400, `{"message":"m","detail":"d"}`, "m"},
		{"detail over fields", 400, `{"detail":"d","email":["e"]}`, "d"},
		{"first field error", 400, `{"email":["Email already in use"]}`, "Email already in use"},
		{"status text", 500, ``, "Internal Server Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := apitest.Static(t, tt.status, tt.body)
			res := New(url, session.NewMemoryTokenStore()).Auth().Register(context.Background(), RegisterRequest{})
			assert.False(t, res.Success)
			assert.Equal(t, tt.want, res.Message)
		})
	}
}

func TestRegisterStoresTokensOnlyWhenBothPresent(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantAccess string
	}{
		{"both", `{"access":"a","refresh":"r"}`, "a"},
		{"access only", `{"access":"a"}`, ""},
		{"none", `{"username":"u"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			url := apitest.Static(t, http.StatusOK, tt.body)
			tokens := session.NewMemoryTokenStore()
			res := New(url, tokens).Auth().Register(context.Background(), RegisterRequest{})
			assert.True(t, res.Success)
			access, _ := tokens.Access()
			assert.Equal(t, tt.wantAccess, access)
		})
	}
}

func TestLogoutClearsTokens(t *testing.T) {
	tokens := session.NewMemoryTokenStore()
	auth := New("http://unused.invalid", tokens).Auth()

	require.NoError(t, auth.Logout())
	require.NoError(t, tokens.Save("a", "r"))
	require.NoError(t, auth.Logout())

	access, _ := auth.AccessToken()
	refresh, _ := auth.RefreshToken()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestPing(t *testing.T) {
	srv := apitest.NewServer(t)
	c := New(srv.URL, session.NewMemoryTokenStore())

	// The unauthenticated request is rejected but the server answered
	require.NoError(t, c.Ping(context.Background()))

	srv.Close()
	err := c.Ping(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
}
