package fetcher

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nokicli/internal/config"
	apperrors "nokicli/internal/errors"
)

const csvBody = "session_id,created_at,user_id,step_name,question,answer\ns1,2025-01-01T10:00:00Z,u1,player_select,q,Parent\n"

// newTestServer serves a token endpoint at /token and a CSV export at
// /download_csv, mirroring the remote service's behavior.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		var creds map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&creds))
		if creds["username"] != "tester" || creds["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	})
	mux.HandleFunc("/download_csv", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("deployment_name") != "Scored storms" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(csvBody))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(srv *httptest.Server) config.ServiceConfig {
	return config.ServiceConfig{
		AuthURL:     srv.URL + "/token",
		DownloadURL: srv.URL + "/download_csv",
		Username:    "tester",
		Password:    "secret",
		Deployment:  "Scored storms",
		Timeout:     5 * time.Second,
	}
}

func TestToken(t *testing.T) {
	srv := newTestServer(t)
	client := New(testConfig(srv), nil)

	token, err := client.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestToken_BadCredentials(t *testing.T) {
	srv := newTestServer(t)
	cfg := testConfig(srv)
	cfg.Password = "wrong"
	client := New(cfg, nil)

	_, err := client.Token(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuthFailed, apperrors.Code(err))
}

func TestToken_EmptyToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := New(config.ServiceConfig{
		AuthURL: srv.URL,
		Timeout: 5 * time.Second,
	}, nil)

	_, err := client.Token(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuthFailed, apperrors.Code(err))
}

func TestDownload(t *testing.T) {
	srv := newTestServer(t)
	client := New(testConfig(srv), nil)

	dest := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, client.Download(context.Background(), dest, false))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(data))

	// No temp file left behind
	_, err = os.Stat(dest + ".download")
	assert.True(t, os.IsNotExist(err))
}

func TestDownload_OverwritesPrevious(t *testing.T) {
	srv := newTestServer(t)
	client := New(testConfig(srv), nil)

	dest := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(dest, []byte("stale"), 0644))

	require.NoError(t, client.Download(context.Background(), dest, false))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, csvBody, string(data))

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "overwrite mode keeps no archive")
}

func TestDownload_KeepHistoryArchivesPrevious(t *testing.T) {
	srv := newTestServer(t)
	client := New(testConfig(srv), nil)

	dest := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(dest, []byte("previous run"), 0644))

	require.NoError(t, client.Download(context.Background(), dest, true))

	entries, err := os.ReadDir(filepath.Dir(dest))
	require.NoError(t, err)
	require.Len(t, entries, 2)

	var archived string
	for _, e := range entries {
		if e.Name() != "dataset.csv" {
			archived = e.Name()
		}
	}
	require.NotEmpty(t, archived)
	assert.Regexp(t, `^dataset\.csv\.\d{8}T\d{6}Z$`, archived)

	data, err := os.ReadFile(filepath.Join(filepath.Dir(dest), archived))
	require.NoError(t, err)
	assert.Equal(t, "previous run", string(data))
}

func TestDownload_AuthFailureLeavesDatasetUntouched(t *testing.T) {
	srv := newTestServer(t)
	cfg := testConfig(srv)
	cfg.Password = "wrong"
	client := New(cfg, nil)

	dest := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(dest, []byte("previous run"), 0644))

	err := client.Download(context.Background(), dest, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeAuthFailed, apperrors.Code(err))

	data, readErr := os.ReadFile(dest)
	require.NoError(t, readErr)
	assert.Equal(t, "previous run", string(data))
}

func TestDownload_ServerErrorLeavesDatasetUntouched(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"token":"tok-123"}`))
	})
	mux.HandleFunc("/download_csv", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := New(config.ServiceConfig{
		AuthURL:     srv.URL + "/token",
		DownloadURL: srv.URL + "/download_csv",
		Deployment:  "Scored storms",
		Timeout:     5 * time.Second,
	}, nil)

	dest := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(dest, []byte("previous run"), 0644))

	err := client.Download(context.Background(), dest, false)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeDownloadFailed, apperrors.Code(err))

	data, readErr := os.ReadFile(dest)
	require.NoError(t, readErr)
	assert.Equal(t, "previous run", string(data))
}
