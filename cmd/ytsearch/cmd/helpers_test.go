package cmd

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Aman-CERP/ytsearch/internal/config"
)

// fakeDataAPI serves canned Data API responses.
func fakeDataAPI(t *testing.T) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/youtube/v3/search":
			_, _ = w.Write([]byte(`{"items": [
				{"id": {"videoId": "vid1"}, "snippet": {"title": "Gophers &amp; Friends", "description": "first", "channelTitle": "Go", "publishedAt": "2024-03-01T10:00:00Z",
				 "thumbnails": {"medium": {"url": "https://i.ytimg.com/vi/vid1/mqdefault.jpg"}}}},
				{"id": {"videoId": "vid2"}, "snippet": {"title": "Second", "publishedAt": "2024-02-01T10:00:00Z"}}
			]}`))
		case "/youtube/v3/commentThreads":
			if r.URL.Query().Get("videoId") == "vid2" {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte("commentsDisabled"))
				return
			}
			_, _ = w.Write([]byte(`{"items": [
				{"id": "t1", "snippet": {"totalReplyCount": 2, "topLevelComment": {"id": "c1", "snippet": {"authorDisplayName": "ann", "textOriginal": "great talk"}}}}
			]}`))
		case "/youtube/v3/videos/getRating":
			_, _ = w.Write([]byte(`{"items": [{"videoId": "vid1", "rating": "like"}]}`))
		default:
			http.NotFound(w, r)
		}
	}
}

// testEnv isolates HOME and the environment and writes a config file whose
// base URL points at handler. It returns the config file path.
func testEnv(t *testing.T, handler http.HandlerFunc) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("NO_COLOR", "1")
	t.Setenv(config.EnvAPIKey, "test-key")
	t.Setenv(config.EnvAPIVersion, "")

	cfg := config.NewConfig()
	if handler != nil {
		srv := httptest.NewServer(handler)
		t.Cleanup(srv.Close)
		cfg.API.BaseURL = srv.URL
	}

	path := filepath.Join(home, "ytsearch.yaml")
	require.NoError(t, cfg.WriteYAML(path))
	return path
}

// execute runs the root command with args and returns everything written.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return buf.String(), err
}
