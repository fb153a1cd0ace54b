package http

import (
	"context"
	"errors"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := nethttp.NewServeMux()
	mux.HandleFunc("/page", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte("<html>" + r.Header.Get("User-Agent") + "</html>"))
	})
	mux.HandleFunc("/missing", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		nethttp.Error(w, "gone", nethttp.StatusNotFound)
	})
	mux.HandleFunc("/file.mp3", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Length", "5")
		if r.Method == nethttp.MethodHead {
			return
		}
		w.Write([]byte("abcde"))
	})
	mux.HandleFunc("/slow", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte("late"))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_GetString(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(5*time.Second, "test-agent")

	body, err := client.GetString(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "<html>test-agent</html>", body)
}

func TestClient_DefaultUserAgent(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(5*time.Second, "")

	body, err := client.GetString(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Contains(t, body, DefaultUserAgent)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(5*time.Second, "")

	_, err := client.Get(context.Background(), srv.URL+"/missing")
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, nethttp.StatusNotFound, statusErr.Code)
}

func TestClient_Timeout(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(50*time.Millisecond, "")

	_, err := client.Get(context.Background(), srv.URL+"/slow")
	assert.Error(t, err)
}

func TestClient_GetFileSize(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(5*time.Second, "")

	size, err := client.GetFileSize(context.Background(), srv.URL+"/file.mp3")
	require.NoError(t, err)
	assert.Equal(t, int64(5), size)
}

func TestClient_DownloadFile(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(5*time.Second, "")
	dest := filepath.Join(t.TempDir(), "file.mp3")

	var lastWritten, lastTotal int64
	err := client.DownloadFile(context.Background(), srv.URL+"/file.mp3", dest, func(written, total int64) {
		lastWritten, lastTotal = written, total
	})
	require.NoError(t, err)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "abcde", string(data))
	assert.Equal(t, int64(5), lastWritten)
	assert.Equal(t, int64(5), lastTotal)
}

func TestClient_DownloadFileNotFound(t *testing.T) {
	srv := newTestServer(t)
	client := NewClient(5*time.Second, "")
	dest := filepath.Join(t.TempDir(), "file.mp3")

	err := client.DownloadFile(context.Background(), srv.URL+"/missing", dest, nil)
	require.Error(t, err)

	_, statErr := os.Stat(dest)
	assert.True(t, os.IsNotExist(statErr))
}
