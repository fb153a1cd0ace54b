// Package tlh parses the web pages hymn data is scraped from.
//
// The package handles two kinds of page:
//
//  1. Hymn pages, one per hymn number, holding the title and verses
//  2. The songs listing page, holding links to recordings
//
// # Hymn Pages
//
// Use the Parser to turn a hymn page into a record:
//
//	parser := tlh.NewParser(pageConfig)
//	hymn, outcome := parser.ParseHymnPage(pageHTML, 12)
//	if outcome.Found() {
//	    fmt.Println(hymn.Title) // "12. Lord, Keep Us Steadfast in Thy Word"
//	}
//
// A page body with the configured 404 class, a missing <title>, a missing
// lyrics container and a container without text each yield their own
// Outcome. Verses are separated by three or more <br> tags.
//
// # Recording Links
//
// LinkIndex ties .mp3 links on the listing page to hymn numbers, either by
// the number printed just before the link (StrategySibling) or by the digits
// in the file name (StrategySuffix). ApplyAudioLinks copies the result into
// a collection. DuplicateLinks lists hrefs that appear more than once.
package tlh
