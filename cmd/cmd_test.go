package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sportsbook/config"
	"sportsbook/models"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewTestConfig()
	config.SetTestConfig(cfg)
	t.Cleanup(config.ResetConfig)
	return cfg
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "sportsbook", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()

	for _, path := range [][]string{{"serve"}, {"migrate"}, {"migrate", "up"}, {"migrate", "down"}, {"migrate", "status"}} {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			sub, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], sub.Name())
		})
	}
}

func TestConfigureLogging(t *testing.T) {
	t.Cleanup(func() { _ = ConfigureLogging("info", "text") })

	require.NoError(t, ConfigureLogging("debug", "json"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
	_, isJSON := log.StandardLogger().Formatter.(*log.JSONFormatter)
	assert.True(t, isJSON)

	assert.Error(t, ConfigureLogging("loud", "text"))
	assert.Error(t, ConfigureLogging("info", "xml"))
}

func TestMigrateCommand_SQLite(t *testing.T) {
	useTestConfig(t)
	path := filepath.Join(t.TempDir(), "migrate.db")

	run := func(args ...string) string {
		t.Helper()
		var out bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetOut(&out)
		cmd.SetArgs(append(append([]string{"migrate"}, args...), "--backend", "sqlite", "--sqlite-path", path))
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	assert.Equal(t, "No migrations applied\n", run("status"))
	run("up")
	assert.Equal(t, "Version 1\n", run("status"))
	run("down")
	assert.Equal(t, "No migrations applied\n", run("status"))
}

func TestMigrateCommand_UnsupportedBackend(t *testing.T) {
	useTestConfig(t)

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"migrate", "status"})

	err := cmd.Execute()
	assert.ErrorContains(t, err, `backend "memory" has no migrations`)
}

func TestNewApp_MemoryBackend(t *testing.T) {
	ctx := context.Background()
	cfg := useTestConfig(t)
	cfg.APIKey = "secret"

	app, err := NewApp(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	account, err := app.Accounts.CreateAccount(ctx, models.AccountPayload{Username: "alice", Balance: 10})
	require.NoError(t, err)
	assert.Equal(t, uint64(1), account.ID)

	req := httptest.NewRequest(http.MethodGet, "/users/1", nil)
	rec := httptest.NewRecorder()
	app.API.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/users/1", nil)
	rec = httptest.NewRecorder()
	app.API.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	scrape := func() string {
		rec := httptest.NewRecorder()
		app.Metrics.Handler(app.Store.Ping).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		return rec.Body.String()
	}
	assert.Contains(t, scrape(), "sportsbook_ids_allocated_total 1")
	// bus handlers run asynchronously
	assert.Eventually(t, func() bool {
		return strings.Contains(scrape(), `sportsbook_domain_events_total{type="account_created"} 1`)
	}, 2*time.Second, 10*time.Millisecond)
}

func TestRun_StopsOnCancel(t *testing.T) {
	cfg := useTestConfig(t)
	cfg.MetricsAddr = "127.0.0.1:0"

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Run(ctx, cfg) }()

	cancel()
	assert.NoError(t, <-done)
}
