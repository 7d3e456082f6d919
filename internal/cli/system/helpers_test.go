package system

import (
	"bytes"
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/smarthabit/internal/apitest"
	"github.com/julianstephens/smarthabit/internal/cli"
	"github.com/julianstephens/smarthabit/internal/config"
	"github.com/julianstephens/smarthabit/internal/constants"
	"github.com/julianstephens/smarthabit/internal/storage/sqlite"
)

// setupTestDB returns a context over an uninitialized SQLite state store and
// a running fake server. Tokens are kept in the state store.
func setupTestDB(t *testing.T) (*cli.Context, *apitest.Server, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()

	srv := apitest.NewServer(t)
	dbPath := filepath.Join(t.TempDir(), "state.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	})

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Config: config.Config{Server: srv.URL, State: dbPath, TokenBackend: constants.TokenBackendState},
		Store:  store,
		Out:    out,
	}
	return ctx, srv, out
}

// setupInitializedDB is setupTestDB with the schema applied.
func setupInitializedDB(t *testing.T) (*cli.Context, *apitest.Server, *bytes.Buffer) {
	t.Helper()
	ctx, srv, out := setupTestDB(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	return ctx, srv, out
}
