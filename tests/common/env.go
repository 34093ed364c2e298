// Package common provides shared test infrastructure
package common

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	wt "whaletrack/internal/common"
	"whaletrack/internal/interfaces"
	"whaletrack/internal/server"
	"whaletrack/internal/storage"
)

// Env is an isolated in-process test environment: real storage backends
// rooted in a temp directory with the status API served over httptest.
type Env struct {
	t       *testing.T
	Config  *wt.Config
	Logger  *wt.Logger
	Storage interfaces.StorageManager
	httpSrv *httptest.Server
}

// NewEnv creates a new environment. Storage lives under t.TempDir() so
// parallel tests never share state.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	base := t.TempDir()
	config := wt.NewDefaultConfig()
	config.Storage.Data.Path = filepath.Join(base, "store")
	config.Storage.Internal.Path = filepath.Join(base, "internal")
	config.Reports.Dir = filepath.Join(base, "reports")
	config.Reports.Chart = false

	logger := wt.NewSilentLogger()

	mgr, err := storage.NewManager(logger, config)
	if err != nil {
		t.Fatalf("Failed to initialize storage: %v", err)
	}

	srv := server.NewServer(config, mgr.Internal(), logger)

	return &Env{
		t:       t,
		Config:  config,
		Logger:  logger,
		Storage: mgr,
		httpSrv: httptest.NewServer(srv.Handler()),
	}
}

// Cleanup releases the environment's resources.
func (e *Env) Cleanup() {
	e.httpSrv.Close()
	if err := e.Storage.Close(); err != nil {
		e.t.Errorf("Failed to close storage: %v", err)
	}
}

// HTTPGet issues a GET request against the status API.
func (e *Env) HTTPGet(path string) (*http.Response, error) {
	return http.Get(e.httpSrv.URL + path)
}
