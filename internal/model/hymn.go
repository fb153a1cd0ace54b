package model

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	// FirstHymn is the lowest hymn number in The Lutheran Hymnal.
	FirstHymn = 1

	// LastHymn is the highest hymn number in The Lutheran Hymnal.
	LastHymn = 668
)

// keyPattern matches collection keys like "hymn12".
var keyPattern = regexp.MustCompile(`^hymn(\d+)$`)

// Number is a hymn number as used in collection keys.
type Number int

// ParseKey converts a collection key into a hymn number.
//
// Only keys of the form "hymn" followed by digits are accepted:
//
//	ParseKey("hymn12")  // 12, true
//	ParseKey("hymn")    // 0, false
//	ParseKey("Hymn12")  // 0, false
//	ParseKey("hymn0")   // 0, false
func ParseKey(key string) (Number, bool) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, false
	}
	return Number(n), true
}

// Key returns the collection key for the number, e.g. "hymn12".
func (n Number) Key() string {
	return fmt.Sprintf("hymn%d", int(n))
}

// Padded returns the number zero-padded to three digits, e.g. "012".
func (n Number) Padded() string {
	return fmt.Sprintf("%03d", int(n))
}

// InRange reports whether the number lies within [FirstHymn, last].
func (n Number) InRange(last int) bool {
	return int(n) >= FirstHymn && int(n) <= last
}

// Hymn is one hymn record of the collection.
//
// The record has no number of its own; identity comes from the key it is
// stored under. Title conventionally starts with the number:
//
//	hymn := &Hymn{
//	    Title:  "1. Open Now Thy Gates of Beauty",
//	    Lyrics: []string{"1 Open now thy gates of beauty,\r\nZion, let me enter there,", "2 ..."},
//	}
type Hymn struct {
	// Title is "<number>. <name>".
	Title string `json:"title"`

	// Lyrics holds one entry per verse, in order.
	Lyrics []string `json:"lyrics"`

	// AudioFile is the URL of a recording, if one is known.
	AudioFile string `json:"audiofile,omitempty"`
}

// NewHymn builds a record for number n using the conventional title format.
func NewHymn(n Number, title string, lyrics []string, audioURL string) *Hymn {
	return &Hymn{
		Title:     fmt.Sprintf("%d. %s", int(n), title),
		Lyrics:    lyrics,
		AudioFile: audioURL,
	}
}

// HasAudio returns true if the record links a recording.
func (h *Hymn) HasAudio() bool {
	return h.AudioFile != ""
}

var titleNumberPattern = regexp.MustCompile(`(\d+)\.`)

// TitleNumber extracts the hymn number from a title like "45. Name".
func (h *Hymn) TitleNumber() (Number, bool) {
	m := titleNumberPattern.FindStringSubmatch(h.Title)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return Number(n), true
}

// Range is an inclusive run of consecutive hymn numbers.
type Range struct {
	Lo int
	Hi int
}

// String renders a single number as "12" and a run as "12-15".
func (r Range) String() string {
	if r.Lo == r.Hi {
		return strconv.Itoa(r.Lo)
	}
	return fmt.Sprintf("%d-%d", r.Lo, r.Hi)
}
