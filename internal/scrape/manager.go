package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lutherald/hymnscan/internal/config"
	"github.com/lutherald/hymnscan/internal/model"
	"github.com/lutherald/hymnscan/internal/tlh"
)

// ProgressLevel indicates the severity/type of a progress message.
type ProgressLevel = model.ProgressLevel

const (
	LevelInfo    = model.LevelInfo
	LevelVerbose = model.LevelVerbose
	LevelWarning = model.LevelWarning
	LevelError   = model.LevelError
	LevelSuccess = model.LevelSuccess
)

// ProgressEvent represents the outcome of one hymn, or a general message
// when Number is zero.
type ProgressEvent struct {
	Number  model.Number
	Outcome tlh.Outcome
	Message string
	Level   ProgressLevel
}

// Fetcher retrieves a page as text. *http.Client satisfies it.
type Fetcher interface {
	GetString(ctx context.Context, url string) (string, error)
}

// Result records what happened to one hymn number.
type Result struct {
	Number  model.Number
	Outcome tlh.Outcome
	Title   string
	Err     error
}

// Summary lists the result of every hymn number processed, in order.
type Summary struct {
	Results []Result
}

// Found returns how many hymns produced a record.
func (s *Summary) Found() int {
	n := 0
	for _, r := range s.Results {
		if r.Outcome.Found() {
			n++
		}
	}
	return n
}

// Failed returns how many hymns did not produce a record.
func (s *Summary) Failed() int {
	return len(s.Results) - s.Found()
}

// Counts groups the results by outcome.
func (s *Summary) Counts() map[tlh.Outcome]int {
	counts := make(map[tlh.Outcome]int)
	for _, r := range s.Results {
		counts[r.Outcome]++
	}
	return counts
}

// Manager fetches hymn pages one after another and extracts records.
type Manager struct {
	settings *config.Settings
	fetcher  Fetcher
	parser   *tlh.Parser

	onProgress func(ProgressEvent)
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewManager creates a new scrape Manager.
func NewManager(settings *config.Settings, fetcher Fetcher, onProgress func(ProgressEvent)) *Manager {
	return &Manager{
		settings: settings,
		fetcher:  fetcher,
		parser: tlh.NewParser(tlh.PageConfig{
			NotFoundClass:    settings.NotFoundClass,
			LyricsSelector:   settings.LyricsSelector,
			AudioURLTemplate: settings.AudioURLTemplate,
		}),
		onProgress: onProgress,
		sleep:      sleepContext,
	}
}

// PageURL returns the hymn page address for n.
func (m *Manager) PageURL(n model.Number) string {
	return fmt.Sprintf(m.settings.PageURLTemplate, int(n))
}

// Scrape fetches and parses the page of every number in order.
//
// Fetches are sequential with delay between them; there is no delay after
// the last one. A failed fetch is recorded as tlh.OutcomeFetchFailed and the
// loop moves on. Nothing is retried.
//
// The returned collection holds the records that were found. If ctx is
// cancelled the loop stops early and returns what it has with ctx.Err().
func (m *Manager) Scrape(ctx context.Context, numbers []int, delay time.Duration) (model.Collection, *Summary, error) {
	scraped := model.NewCollection()
	summary := &Summary{}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Scraping %d hymn(s) with %s between requests", len(numbers), delay),
		Level:   LevelInfo,
	})

	for i, num := range numbers {
		if err := ctx.Err(); err != nil {
			return scraped, summary, err
		}

		n := model.Number(num)
		hymn, res := m.scrapeOne(ctx, n)
		summary.Results = append(summary.Results, res)
		if hymn != nil {
			scraped.Set(n, hymn)
		}

		if i < len(numbers)-1 && delay > 0 {
			if err := m.sleep(ctx, delay); err != nil {
				return scraped, summary, err
			}
		}
	}

	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Scraped %d hymn(s), %d not found", summary.Found(), summary.Failed()),
		Level:   LevelSuccess,
	})

	return scraped, summary, nil
}

// scrapeOne fetches and parses a single hymn page, reporting the outcome.
func (m *Manager) scrapeOne(ctx context.Context, n model.Number) (*model.Hymn, Result) {
	pageURL := m.PageURL(n)
	m.progress(ProgressEvent{Number: n, Message: fmt.Sprintf("Fetching hymn %d: %s", n, pageURL), Level: LevelVerbose})

	page, err := m.fetcher.GetString(ctx, pageURL)
	if err != nil {
		m.progress(ProgressEvent{
			Number:  n,
			Outcome: tlh.OutcomeFetchFailed,
			Message: fmt.Sprintf("Hymn %d: %s: %v", n, tlh.OutcomeFetchFailed, err),
			Level:   LevelError,
		})
		return nil, Result{Number: n, Outcome: tlh.OutcomeFetchFailed, Err: err}
	}

	hymn, outcome := m.parser.ParseHymnPage(page, n)
	if !outcome.Found() {
		m.progress(ProgressEvent{
			Number:  n,
			Outcome: outcome,
			Message: fmt.Sprintf("Hymn %d: %s", n, outcome),
			Level:   LevelWarning,
		})
		return nil, Result{Number: n, Outcome: outcome}
	}

	m.progress(ProgressEvent{
		Number:  n,
		Outcome: outcome,
		Message: fmt.Sprintf("Found %s (%d verses)", hymn.Title, len(hymn.Lyrics)),
		Level:   LevelInfo,
	})
	return hymn, Result{Number: n, Outcome: outcome, Title: hymn.Title}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func (m *Manager) progress(event ProgressEvent) {
	if m.onProgress != nil {
		m.onProgress(event)
	}
}

// IsCancelled reports whether err came from the scrape being cancelled.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
