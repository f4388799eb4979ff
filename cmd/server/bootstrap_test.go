package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ndemidov/campusforum/internal/app"
	"github.com/ndemidov/campusforum/pkg/logger"
)

func testConfig() *app.Config {
	cfg, _ := app.LoadConfig()
	cfg.Database.Driver = "sqlite"
	cfg.Database.DSN = "file:bootstrap_test?mode=memory&cache=shared"
	cfg.Auth.JWT.Secret = "bootstrap-test-secret"
	cfg.Cache.Redis.Enabled = false
	return cfg
}

func TestEnsureSecretsPresent(t *testing.T) {
	require.Error(t, ensureSecretsPresent(nil))

	cfg := testConfig()
	cfg.Auth.JWT.Secret = "   "
	require.Error(t, ensureSecretsPresent(cfg))

	cfg.Auth.JWT.Secret = " secret "
	require.NoError(t, ensureSecretsPresent(cfg))
	require.Equal(t, "secret", cfg.Auth.JWT.Secret)
}

func TestConvertDatabaseConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = " PostgreSQL "
	cfg.Database.Postgres.Host = "db.example.com"
	cfg.Database.Postgres.Port = 5433
	cfg.Database.Postgres.Database = "forum"

	dbCfg := convertDatabaseConfig(cfg)
	require.Equal(t, "postgres", dbCfg.Driver)
	require.Equal(t, "db.example.com", dbCfg.Host)
	require.Equal(t, 5433, dbCfg.Port)
	require.Equal(t, "forum", dbCfg.Name)

	cfg.Database.Driver = ""
	require.Equal(t, "sqlite", convertDatabaseConfig(cfg).Driver)
}

func TestBootstrapRuntimeServesHealth(t *testing.T) {
	cfg := testConfig()
	log := logger.WithModule("test")

	stack, err := bootstrapRuntime(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = stack.Shutdown(log) })

	require.NotNil(t, stack.DB)
	require.NotNil(t, stack.Router)

	rec := httptest.NewRecorder()
	stack.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
