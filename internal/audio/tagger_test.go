package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2"
	"github.com/lutherald/hymnscan/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMP3 writes a file with no ID3 header, which id3v2 treats as untagged.
func fakeMP3(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("not really mpeg audio, but long enough"), 0644))
	return path
}

func TestTagger_SaveTags(t *testing.T) {
	path := fakeMP3(t, t.TempDir(), "045.mp3")
	hymn := model.NewHymn(45, "A Mighty Fortress", []string{"1 A mighty fortress", "2 With might of ours"}, "")

	cfg := DefaultTagConfig()
	cfg.ArtistName = "Tacoma Choir"
	require.NoError(t, NewTagger(cfg).SaveTags(path, 45, hymn))

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	require.NoError(t, err)
	defer tag.Close()

	assert.Equal(t, "45. A Mighty Fortress", tag.Title())
	assert.Equal(t, "The Lutheran Hymnal", tag.Album())
	assert.Equal(t, "Tacoma Choir", tag.Artist())
	assert.Equal(t, "45", tag.GetTextFrame("TRCK").Text)

	frames := tag.GetFrames(tag.CommonID("Unsynchronised lyrics/text transcription"))
	require.Len(t, frames, 1)
	uslt, ok := frames[0].(id3v2.UnsynchronisedLyricsFrame)
	require.True(t, ok)
	assert.Equal(t, "1 A mighty fortress\n\n2 With might of ours", uslt.Lyrics)
}

func TestTagger_Disabled(t *testing.T) {
	path := fakeMP3(t, t.TempDir(), "001.mp3")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	cfg := DefaultTagConfig()
	cfg.ModifyTags = false
	require.NoError(t, NewTagger(cfg).SaveTags(path, 1, model.NewHymn(1, "First", nil, "")))

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestTagger_MissingFile(t *testing.T) {
	err := NewTagger(nil).SaveTags(filepath.Join(t.TempDir(), "nope.mp3"), 1, model.NewHymn(1, "First", nil, ""))
	assert.Error(t, err)
}
