package httpd_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/cover-generator/cmd/common"
	"github.com/jonesrussell/north-cloud/cover-generator/cmd/httpd"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/api"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/config"
	"github.com/jonesrussell/north-cloud/cover-generator/internal/logger"
)

func newDeps(t *testing.T) *common.Deps {
	t.Helper()

	cfg := &config.Config{}
	config.SetDefaults(cfg)
	deps, err := common.Build(cfg, logger.NewNop())
	require.NoError(t, err)
	return deps
}

func TestNewServer_Routes(t *testing.T) {
	server := httpd.NewServer(newDeps(t))

	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	server.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestNewServer_GenerateWithoutCredentials(t *testing.T) {
	server := httpd.NewServer(newDeps(t))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/covers", strings.NewReader(`{"title":"Spring Recipes"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	server.Router().ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp api.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "configuration_missing", resp.Kind)
}
