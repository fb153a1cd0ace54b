package tlh

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/lutherald/hymnscan/internal/model"
)

var (
	// verseBreak matches three or more consecutive line breaks, the marker
	// between verses. Whitespace between the breaks is allowed.
	verseBreak = regexp.MustCompile(`(?i)(?:<br\s*/?>\s*){3,}`)

	// lineBreak also swallows the source formatting around a break.
	lineBreak = regexp.MustCompile(`(?i)\s*<br\s*/?>\s*`)

	markupTag = regexp.MustCompile(`<[^>]*>`)

	// leadingVerseNumber matches verses that already start with "3 " or "3. ".
	// A no-break space after the number counts as well.
	leadingVerseNumber = regexp.MustCompile(`^\d+\.?[\s\x{00a0}]`)
)

// PageConfig describes where things live on a hymn page.
type PageConfig struct {
	// NotFoundClass is the body class that marks a 404 page.
	NotFoundClass string

	// LyricsSelector selects the element holding the verses. Only the first
	// match is used.
	LyricsSelector string

	// AudioURLTemplate builds the recording URL; %s receives the hymn number
	// zero-padded to three digits.
	AudioURLTemplate string
}

// Parser extracts hymn records from hymn pages.
//
// A page yields either a record or a definite outcome explaining why not:
//
//	parser := NewParser(PageConfig{
//	    NotFoundClass:    "error404",
//	    LyricsSelector:   "div.entry-content",
//	    AudioURLTemplate: "https://example.org/audio/%s.mp3",
//	})
//
//	hymn, outcome := parser.ParseHymnPage(page, 12)
//	if !outcome.Found() {
//	    fmt.Printf("hymn 12: %s\n", outcome)
//	}
type Parser struct {
	config PageConfig
}

// NewParser creates a new Parser with the given page configuration.
func NewParser(cfg PageConfig) *Parser {
	return &Parser{config: cfg}
}

// ParseHymnPage extracts the record for hymn n from the page HTML.
//
// This method performs the following steps:
//  1. Rejects pages whose body carries the 404 class
//  2. Reads the title, dropping a "TLH <n>: " prefix
//  3. Splits the first lyrics container into verses
//  4. Builds the record with the conventional title and audio URL
//
// The returned record is nil unless the outcome is OutcomeFound.
func (p *Parser) ParseHymnPage(page string, n model.Number) (*model.Hymn, Outcome) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, OutcomeNoTitle
	}

	if p.config.NotFoundClass != "" && doc.Find("body").First().HasClass(p.config.NotFoundClass) {
		return nil, OutcomeNotFound
	}

	titleSel := doc.Find("title").First()
	if titleSel.Length() == 0 {
		return nil, OutcomeNoTitle
	}
	title := cleanTitle(titleSel.Text(), n)

	lyricsSel := doc.Find(p.config.LyricsSelector).First()
	if lyricsSel.Length() == 0 {
		return nil, OutcomeNoLyrics
	}
	inner, err := lyricsSel.Html()
	if err != nil {
		return nil, OutcomeNoLyrics
	}

	verses := SplitVerses(inner)
	if len(verses) == 0 {
		return nil, OutcomeNoVerses
	}

	return model.NewHymn(n, title, verses, p.AudioURL(n)), OutcomeFound
}

// AudioURL returns the recording URL for hymn n.
func (p *Parser) AudioURL(n model.Number) string {
	if p.config.AudioURLTemplate == "" {
		return ""
	}
	return fmt.Sprintf(p.config.AudioURLTemplate, n.Padded())
}

// cleanTitle strips the "TLH <n>: " prefix if present.
func cleanTitle(raw string, n model.Number) string {
	title := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(title, fmt.Sprintf("TLH %d: ", int(n))); ok {
		return rest
	}
	return title
}

// SplitVerses splits lyrics markup into numbered verses.
//
// Verses are separated by three or more <br> tags. Within a verse, remaining
// <br> tags become "\r\n", other tags are removed and entities decoded.
// Empty verses are dropped. A verse that does not already start with a
// number gets its 1-based position prepended:
//
//	SplitVerses("1 Holy, holy<br><br><br>2 Lord God") // ["1 Holy, holy", "2 Lord God"]
//	SplitVerses("Amazing grace<br/><br/><br/>How sweet") // ["1 Amazing grace", "2 How sweet"]
func SplitVerses(markup string) []string {
	var verses []string
	for _, fragment := range verseBreak.Split(markup, -1) {
		text := cleanFragment(fragment)
		if text == "" {
			continue
		}
		verses = append(verses, numberVerse(text, len(verses)+1))
	}
	return verses
}

// cleanFragment turns one verse of markup into plain text.
func cleanFragment(fragment string) string {
	text := lineBreak.ReplaceAllString(fragment, "\r\n")
	text = markupTag.ReplaceAllString(text, "")
	text = html.UnescapeString(text)
	return strings.TrimSpace(text)
}

// numberVerse prepends position unless the verse already starts with a number.
func numberVerse(text string, position int) string {
	if leadingVerseNumber.MatchString(text) {
		return text
	}
	return fmt.Sprintf("%d %s", position, text)
}
