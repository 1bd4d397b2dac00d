package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/riskibarqy/tournament-portal/internal/config"
	"github.com/riskibarqy/tournament-portal/internal/platform/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		AppEnv:                    config.EnvDev,
		ServiceName:               "tournament-portal-api",
		HTTPAddr:                  ":0",
		ReadTimeout:               time.Second,
		WriteTimeout:              time.Second,
		Location:                  time.UTC,
		CORSAllowedOrigins:        []string{"*"},
		StorageDriver:             config.StorageDriverMemory,
		JWTSecret:                 "test-secret",
		JWTIssuer:                 "tournament-portal",
		JWTTTL:                    time.Hour,
		ResetTokenTTL:             time.Hour,
		BcryptCost:                4,
		AdminEmail:                "root@example.com",
		AdminPassword:             "admin-pass",
		CacheEnabled:              true,
		CacheTTL:                  time.Minute,
		UploadDir:                 t.TempDir(),
		UploadPublicPath:          "/uploads",
		UploadMaxBytes:            1 << 20,
		NotifyChannels:            []string{config.NotifyChannelLog},
		NotifyWorkers:             1,
		NotifySendTimeout:         time.Second,
		NotifyCircuitFailureCount: 3,
		NotifyCircuitOpenTimeout:  time.Second,
		NotifyCircuitHalfOpenMax:  1,
		ReconcilerEnabled:         true,
		ReconcilerInterval:        time.Hour,
	}
}

func TestNew_MemoryStoreServesHealthAndSports(t *testing.T) {
	a, err := New(t.Context(), memoryConfig(t), logging.NewNop())
	require.NoError(t, err)
	a.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = a.Shutdown(ctx)
	})

	rec := httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	a.Server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/sports", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Football")
}

func TestNew_RejectsEmptyAddr(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.HTTPAddr = ""

	_, err := New(t.Context(), cfg, nil)
	require.Error(t, err)
}
