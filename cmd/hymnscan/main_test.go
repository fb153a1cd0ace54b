package main

import (
	"bytes"
	"context"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lutherald/hymnscan/internal/model"
	"github.com/lutherald/hymnscan/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	saveMissing, missingList = false, ""
	scrapeYes, scrapeDryRun = false, false
	linksPage, linksStrategy = "", "sibling"
	audioDir, audioPlaylist = "", false

	var out, errOut bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

// writeFixtures creates a collection holding hymns 1 and 3 and a config
// whose pages live on baseURL.
func writeFixtures(t *testing.T, baseURL string) (collectionPath, configPath string) {
	t.Helper()
	dir := t.TempDir()

	c := model.NewCollection()
	c.Set(1, model.NewHymn(1, "First", []string{"1 one"}, ""))
	c.Set(3, model.NewHymn(3, "Third", []string{"1 three"}, ""))
	collectionPath = filepath.Join(dir, "hymns.json")
	_, err := store.Save(context.Background(), collectionPath, c)
	require.NoError(t, err)

	cfg := map[string]any{
		"last_hymn":          3,
		"request_delay":      0,
		"page_url_template":  baseURL + "/tlh-%d/",
		"audio_url_template": baseURL + "/audio/%s.mp3",
		"songs_page_url":     baseURL + "/songs/",
		"missing_list_path":  filepath.Join(dir, "missing.txt"),
	}
	data, err := json.Marshal(cfg)
	require.NoError(t, err)
	configPath = filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(configPath, data, 0644))

	return collectionPath, configPath
}

func newSiteServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/tlh-2/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte(`<html><head><title>TLH 2: Second</title></head><body><div class="entry-content">Verse one<br><br><br>Verse two</div></body></html>`))
	})
	mux.HandleFunc("/songs/", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte(`<html><body><p>1 <a href="/audio/001.mp3">First</a></p><p>3 <a href="/audio/003.mp3">Third</a></p><a href="/x">x</a><a href="/x">x</a></body></html>`))
	})
	mux.HandleFunc("/audio/001.mp3", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte("not really an mp3"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestScanCommand(t *testing.T) {
	path, cfg := writeFixtures(t, "http://127.0.0.1:0")
	missing := filepath.Join(t.TempDir(), "out.txt")

	out, _, err := execute(t, "", "scan", path, "--config", cfg, "--save-missing", "--missing-list", missing)
	require.NoError(t, err)
	assert.Contains(t, out, "Total Missing Hymns:  1")
	assert.Contains(t, out, "Completion Rate:      66.7%")

	data, err := os.ReadFile(missing)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hymn 2\n")
}

func TestScanCommand_MissingListFromConfig(t *testing.T) {
	path, cfg := writeFixtures(t, "http://127.0.0.1:0")

	_, _, err := execute(t, "", "scan", path, "--config", cfg, "--save-missing")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(filepath.Dir(path), "missing.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Hymn 2\n")
}

func TestScanCommand_MissingFileIsNotFatal(t *testing.T) {
	_, cfg := writeFixtures(t, "http://127.0.0.1:0")

	_, logs, err := execute(t, "", "scan", filepath.Join(t.TempDir(), "absent.json"), "--config", cfg)
	assert.NoError(t, err)
	assert.Contains(t, logs, "not found")
}

func TestScrapeCommand(t *testing.T) {
	srv := newSiteServer(t)
	path, cfg := writeFixtures(t, srv.URL)

	out, _, err := execute(t, "", "scrape", path, "--config", cfg, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "2. Second")

	saved, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []model.Number{1, 2, 3}, saved.Numbers())
	assert.FileExists(t, path+store.BackupSuffix)
}

func TestScrapeCommand_Declined(t *testing.T) {
	srv := newSiteServer(t)
	path, cfg := writeFixtures(t, srv.URL)

	out, _, err := execute(t, "n\n", "scrape", path, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Changes discarded.")

	saved, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.Len())
}

func TestLinksMergeCommand(t *testing.T) {
	srv := newSiteServer(t)
	path, cfg := writeFixtures(t, srv.URL)

	out, _, err := execute(t, "", "links", "merge", path, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Linked 2 hymns")

	saved, err := store.Load(path)
	require.NoError(t, err)
	h, _ := saved.Get(3)
	assert.Equal(t, "/audio/003.mp3", h.AudioFile)
}

func TestLinksDuplicatesCommand(t *testing.T) {
	srv := newSiteServer(t)
	_, cfg := writeFixtures(t, srv.URL)

	out, _, err := execute(t, "", "links", "duplicates", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "/x\n", out)
}

func TestAudioCommand(t *testing.T) {
	srv := newSiteServer(t)
	path, cfg := writeFixtures(t, srv.URL)

	c, err := store.Load(path)
	require.NoError(t, err)
	h1, _ := c.Get(1)
	h1.AudioFile = srv.URL + "/audio/001.mp3"
	h3, _ := c.Get(3)
	h3.AudioFile = srv.URL + "/audio/missing.mp3"
	_, err = store.Save(context.Background(), path, c)
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "recordings")
	out, _, err := execute(t, "", "audio", path, "--config", cfg, "--dir", dir, "--playlist")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "001.mp3"))
	assert.NoFileExists(t, filepath.Join(dir, "missing.mp3"))
	assert.Contains(t, out, srv.URL+"/audio/missing.mp3")
	assert.Contains(t, out, "Playlist: ")

	playlist, err := os.ReadFile(filepath.Join(dir, "The Lutheran Hymnal.m3u"))
	require.NoError(t, err)
	assert.Contains(t, string(playlist), "001.mp3")
	assert.NotContains(t, string(playlist), "missing.mp3")
}

func TestCommandErrorsAreShown(t *testing.T) {
	srv := newSiteServer(t)
	path, cfg := writeFixtures(t, srv.URL)

	t.Run("unknown strategy", func(t *testing.T) {
		_, errOut, err := execute(t, "", "links", "merge", path, "--config", cfg, "--strategy", "guess")
		require.Error(t, err)
		assert.Contains(t, errOut, "Error: ")
		assert.Contains(t, errOut, "guess")
	})

	t.Run("bad config", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0644))

		_, errOut, err := execute(t, "", "scan", path, "--config", bad)
		require.Error(t, err)
		assert.Contains(t, errOut, "load config")
	})
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"maybe\ny\n", true},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			if got := confirm(strings.NewReader(tt.input), &out, "Save?"); got != tt.want {
				t.Errorf("confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
