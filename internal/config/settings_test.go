package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lutherald/hymnscan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	settings, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, DefaultSettings(), settings)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"request_delay": 2.5, "audio_dir": "/srv/hymns"}`), 0644))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, settings.RequestDelay)
	assert.Equal(t, "/srv/hymns", settings.AudioDir)
	assert.Equal(t, model.LastHymn, settings.LastHymn)
	assert.Equal(t, "hymns.json", settings.CollectionPath)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("HYMNSCAN_LYRICS_SELECTOR", "div.lyrics")

	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "div.lyrics", settings.LyricsSelector)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	settings := DefaultSettings()
	settings.PlaylistFormat = "pls"
	settings.MaxConcurrentAudio = 4
	require.NoError(t, settings.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestDurations(t *testing.T) {
	s := DefaultSettings()
	s.RequestDelay = 1.5
	s.RequestTimeout = 0

	assert.Equal(t, 1500*time.Millisecond, s.Delay())
	assert.Equal(t, time.Duration(0), s.Timeout())
	assert.Equal(t, 500*time.Millisecond, s.RetryCooldown())
}
