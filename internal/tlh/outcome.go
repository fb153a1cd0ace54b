package tlh

// Outcome is the result of processing one hymn page.
type Outcome int

const (
	// OutcomeFound means a record was extracted.
	OutcomeFound Outcome = iota

	// OutcomeNotFound means the page carries the 404 marker.
	OutcomeNotFound

	// OutcomeNoTitle means the page has no <title> element.
	OutcomeNoTitle

	// OutcomeNoLyrics means the lyrics container is absent.
	OutcomeNoLyrics

	// OutcomeNoVerses means the container held no text after cleaning.
	OutcomeNoVerses

	// OutcomeFetchFailed means the page could not be fetched at all
	// (timeout, connection failure, non-2xx status).
	OutcomeFetchFailed
)

// String returns a short human-readable description.
func (o Outcome) String() string {
	switch o {
	case OutcomeFound:
		return "found"
	case OutcomeNotFound:
		return "page not found (404)"
	case OutcomeNoTitle:
		return "no title"
	case OutcomeNoLyrics:
		return "no lyrics block"
	case OutcomeNoVerses:
		return "no verses"
	case OutcomeFetchFailed:
		return "fetch failed"
	default:
		return "unknown"
	}
}

// Found reports whether the outcome produced a record.
func (o Outcome) Found() bool {
	return o == OutcomeFound
}
