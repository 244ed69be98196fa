// Package testutils holds fixtures shared by the landing test suites.
package testutils

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/landing/internal/config"
	"github.com/conneroisu/landing/internal/mockapi"
)

// StartMockAPI serves the default generated dataset with the given faults
// installed. The server is closed when the test ends.
func StartMockAPI(t *testing.T, faults map[string]mockapi.Fault) (*mockapi.Server, string) {
	t.Helper()

	mock := mockapi.NewServer(mockapi.NewGenerator(1).Generate(mockapi.DefaultSizes()), nil)
	for resource, fault := range faults {
		mock.SetFault(resource, fault)
	}

	ts := httptest.NewServer(mock.Handler())
	t.Cleanup(ts.Close)

	return mock, ts.URL
}

// CreateTestConfig returns the default configuration pointed at baseURL.
func CreateTestConfig(baseURL string) *config.Config {
	cfg := config.Default()
	cfg.API.BaseURL = baseURL
	return cfg
}

// CreateStaticDir writes files, keyed by relative path, into a fresh
// directory and returns it.
func CreateStaticDir(t *testing.T, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}
