package audio

import (
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/lutherald/hymnscan/internal/model"
)

// TagEditAction defines how to handle individual ID3 tags.
//
// Each tag field can be configured independently to determine whether
// it should be modified, cleared, or left unchanged.
type TagEditAction int

const (
	// TagEmpty clears the tag value.
	TagEmpty TagEditAction = iota

	// TagModify updates the tag with the value from the hymn record.
	TagModify

	// TagDoNotModify leaves the existing tag value unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each ID3 field.
type TagConfig struct {
	// ModifyTags is a master switch. If false, SaveTags leaves files alone.
	ModifyTags bool

	// HymnalName is written to the album frame.
	HymnalName string

	// ArtistName is written to the artist frame. Blank leaves it unchanged.
	ArtistName string

	Title       TagEditAction // TIT2
	TrackNumber TagEditAction // TRCK
	Album       TagEditAction // TALB
	Artist      TagEditAction // TPE1
	Lyrics      TagEditAction // USLT
	Comments    TagEditAction // COMM
}

// DefaultTagConfig returns the default tag configuration.
//
// Every frame the hymn record can fill is modified; comments are cleared.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags:  true,
		HymnalName:  "The Lutheran Hymnal",
		Title:       TagModify,
		TrackNumber: TagModify,
		Album:       TagModify,
		Artist:      TagModify,
		Lyrics:      TagModify,
		Comments:    TagEmpty,
	}
}

// Tagger writes ID3 tags to mirrored recordings.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	if err := tagger.SaveTags("hymns/045.mp3", 45, hymn); err != nil {
//	    log.Printf("tagging failed: %v", err)
//	}
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
//
// If config is nil, DefaultTagConfig() is used.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// SaveTags writes the hymn's title, number, hymnal name, artist and lyrics
// into the MP3 file at path. The file must exist.
func (t *Tagger) SaveTags(path string, n model.Number, hymn *model.Hymn) error {
	if !t.config.ModifyTags {
		return nil
	}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	t.updateStringTags(tag, n, hymn)

	return tag.Save()
}

func (t *Tagger) updateStringTags(tag *id3v2.Tag, n model.Number, hymn *model.Hymn) {
	switch t.config.Title {
	case TagEmpty:
		tag.SetTitle("")
	case TagModify:
		tag.SetTitle(hymn.Title)
	}

	switch t.config.TrackNumber {
	case TagEmpty:
		tag.DeleteFrames("TRCK")
	case TagModify:
		tag.AddTextFrame("TRCK", id3v2.EncodingUTF8, strconv.Itoa(int(n)))
	}

	switch t.config.Album {
	case TagEmpty:
		tag.SetAlbum("")
	case TagModify:
		tag.SetAlbum(t.config.HymnalName)
	}

	switch t.config.Artist {
	case TagEmpty:
		tag.SetArtist("")
	case TagModify:
		if t.config.ArtistName != "" {
			tag.SetArtist(t.config.ArtistName)
		}
	}

	lyricsID := tag.CommonID("Unsynchronised lyrics/text transcription")
	switch t.config.Lyrics {
	case TagEmpty:
		tag.DeleteFrames(lyricsID)
	case TagModify:
		if len(hymn.Lyrics) > 0 {
			tag.DeleteFrames(lyricsID)
			tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
				Encoding:          id3v2.EncodingUTF8,
				Language:          "eng",
				ContentDescriptor: "",
				Lyrics:            strings.Join(hymn.Lyrics, "\n\n"),
			})
		}
	}

	if t.config.Comments == TagEmpty {
		tag.DeleteFrames(tag.CommonID("Comments"))
	}
}
