package audio

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lutherald/hymnscan/internal/config"
	"github.com/lutherald/hymnscan/internal/http"
	"github.com/lutherald/hymnscan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const recording = "fake recording bytes for a hymn"

type audioServer struct {
	*httptest.Server
	flakyHits atomic.Int32
	gets      atomic.Int32
}

func newAudioServer(t *testing.T) *audioServer {
	t.Helper()

	s := &audioServer{}
	mux := nethttp.NewServeMux()
	serve := func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Length", strconv.Itoa(len(recording)))
		if r.Method == nethttp.MethodHead {
			return
		}
		s.gets.Add(1)
		w.Write([]byte(recording))
	}
	mux.HandleFunc("/audio/001.mp3", serve)
	mux.HandleFunc("/audio/002.mp3", serve)
	mux.HandleFunc("/audio/flaky.mp3", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.Method == nethttp.MethodGet && s.flakyHits.Add(1) == 1 {
			nethttp.Error(w, "try later", nethttp.StatusServiceUnavailable)
			return
		}
		serve(w, r)
	})
	mux.HandleFunc("/audio/missing.mp3", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		s.gets.Add(1)
		nethttp.NotFound(w, r)
	})

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func mirrorSettings(t *testing.T) *config.Settings {
	t.Helper()
	s := config.DefaultSettings()
	s.AudioDir = filepath.Join(t.TempDir(), "hymns")
	s.AudioRetryCooldown = 0
	s.AudioMaxRetries = 3
	s.ModifyTags = false
	return s
}

func collectionWith(t *testing.T, links map[model.Number]string) model.Collection {
	t.Helper()
	c := model.NewCollection()
	for n, url := range links {
		c.Set(n, model.NewHymn(n, "Hymn "+strconv.Itoa(int(n)), []string{"1 verse"}, url))
	}
	c.Set(99, model.NewHymn(99, "Silent", []string{"1 verse"}, ""))
	return c
}

func TestMirror_Run(t *testing.T) {
	srv := newAudioServer(t)
	settings := mirrorSettings(t)
	settings.MaxConcurrentAudio = 2

	c := collectionWith(t, map[model.Number]string{
		1: srv.URL + "/audio/001.mp3",
		2: srv.URL + "/audio/flaky.mp3",
		3: srv.URL + "/audio/missing.mp3",
		4: srv.URL + "/audio/001.mp3",
	})

	var events []ProgressEvent
	m := NewMirror(settings, http.NewClient(5*time.Second, ""), func(e ProgressEvent) {
		events = append(events, e)
	})

	report, err := m.Run(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, report.Files, 4, "hymn 99 has no audio")

	byNumber := make(map[model.Number]FileResult)
	for _, f := range report.Files {
		byNumber[f.Number] = f
	}

	assert.Equal(t, StatusDownloaded, byNumber[1].Status)
	assert.Equal(t, StatusDownloaded, byNumber[2].Status, "5xx is retried")
	assert.Equal(t, int32(2), srv.flakyHits.Load())
	assert.Equal(t, StatusFailed, byNumber[3].Status)
	assert.Error(t, byNumber[3].Err)
	assert.Equal(t, StatusShared, byNumber[4].Status)

	data, err := os.ReadFile(filepath.Join(settings.AudioDir, "001.mp3"))
	require.NoError(t, err)
	assert.Equal(t, recording, string(data))
	assert.FileExists(t, filepath.Join(settings.AudioDir, "flaky.mp3"))
	assert.NoFileExists(t, filepath.Join(settings.AudioDir, "missing.mp3"))

	done, total, received := m.Progress()
	assert.Equal(t, int32(4), done)
	assert.Equal(t, int32(4), total)
	assert.Equal(t, int64(2*len(recording)), received)

	last := events[len(events)-1]
	assert.Equal(t, model.LevelWarning, last.Level)
	assert.Contains(t, last.Message, "2 downloaded")
}

func TestMirror_NotFoundIsNotRetried(t *testing.T) {
	srv := newAudioServer(t)
	settings := mirrorSettings(t)

	c := collectionWith(t, map[model.Number]string{3: srv.URL + "/audio/missing.mp3"})
	m := NewMirror(settings, http.NewClient(5*time.Second, ""), nil)

	report, err := m.Run(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(StatusFailed))
	assert.Equal(t, int32(1), srv.gets.Load())
}

func TestMirror_SkipsExisting(t *testing.T) {
	srv := newAudioServer(t)
	settings := mirrorSettings(t)
	require.NoError(t, os.MkdirAll(settings.AudioDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(settings.AudioDir, "001.mp3"), []byte(recording), 0644))

	c := collectionWith(t, map[model.Number]string{
		1: srv.URL + "/audio/001.mp3",
		2: srv.URL + "/audio/002.mp3",
	})
	m := NewMirror(settings, http.NewClient(5*time.Second, ""), nil)

	report, err := m.Run(context.Background(), c)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Count(StatusExisting))
	assert.Equal(t, 1, report.Count(StatusDownloaded))
	assert.Equal(t, int32(1), srv.gets.Load())
}

func TestMirror_Playlist(t *testing.T) {
	srv := newAudioServer(t)
	settings := mirrorSettings(t)
	settings.CreatePlaylist = true
	settings.PlaylistFormat = "m3u"
	settings.M3UExtended = false

	c := collectionWith(t, map[model.Number]string{
		2: srv.URL + "/audio/002.mp3",
		1: srv.URL + "/audio/001.mp3",
		3: srv.URL + "/audio/missing.mp3",
	})
	m := NewMirror(settings, http.NewClient(5*time.Second, ""), nil)

	report, err := m.Run(context.Background(), c)
	require.NoError(t, err)
	require.NotEmpty(t, report.PlaylistPath)
	assert.True(t, strings.HasSuffix(report.PlaylistPath, "The Lutheran Hymnal.m3u"))

	data, err := os.ReadFile(report.PlaylistPath)
	require.NoError(t, err)
	assert.Equal(t, "001.mp3\n002.mp3\n", string(data))
}

func TestMirror_Cancelled(t *testing.T) {
	srv := newAudioServer(t)
	settings := mirrorSettings(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := collectionWith(t, map[model.Number]string{1: srv.URL + "/audio/001.mp3"})
	_, err := NewMirror(settings, http.NewClient(5*time.Second, ""), nil).Run(ctx, c)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackoff(t *testing.T) {
	settings := config.DefaultSettings()
	settings.AudioRetryCooldown = 0.5
	settings.AudioRetryExponent = 2
	m := NewMirror(settings, nil, nil)

	assert.Equal(t, 500*time.Millisecond, m.backoff(0, nil, nil))
	assert.Equal(t, time.Second, m.backoff(1, nil, nil))
	assert.Equal(t, 2*time.Second, m.backoff(2, nil, nil))
}
