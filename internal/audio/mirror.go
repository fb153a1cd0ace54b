package audio

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/lutherald/hymnscan/internal/config"
	"github.com/lutherald/hymnscan/internal/http"
	ioutils "github.com/lutherald/hymnscan/internal/io"
	"github.com/lutherald/hymnscan/internal/model"
	"golang.org/x/sync/errgroup"
)

// Downloader fetches recordings. *http.Client satisfies it.
type Downloader interface {
	GetFileSize(ctx context.Context, url string) (int64, error)
	DownloadFile(ctx context.Context, url, destPath string, onProgress func(written, total int64)) error
}

// ProgressEvent reports what happened to one recording, or a general
// message when Number is zero.
type ProgressEvent struct {
	Number  model.Number
	Path    string
	Message string
	Level   model.ProgressLevel
}

// Status is the result of mirroring one recording.
type Status int

const (
	// StatusDownloaded means the file was fetched in this run.
	StatusDownloaded Status = iota

	// StatusExisting means a local copy of matching size was kept.
	StatusExisting

	// StatusShared means another hymn in the run already claimed the same
	// local file name.
	StatusShared

	// StatusFailed means the download did not succeed after all attempts.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusDownloaded:
		return "downloaded"
	case StatusExisting:
		return "existing"
	case StatusShared:
		return "shared"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FileResult records the fate of one hymn's recording.
type FileResult struct {
	Number model.Number
	URL    string
	Path   string
	Status Status
	Err    error
}

// Report lists one FileResult per hymn that carries an audio link, in hymn
// number order.
type Report struct {
	Files        []FileResult
	PlaylistPath string
}

// Count returns how many files ended with the given status.
func (r *Report) Count(s Status) int {
	n := 0
	for _, f := range r.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}

type mirrorJob struct {
	n     model.Number
	hymn  *model.Hymn
	dest  string
	owner model.Number // first hymn claiming dest, zero if this one
}

// Mirror downloads the recordings referenced by a collection into a local
// directory, tags them and optionally writes a playlist.
type Mirror struct {
	settings   *config.Settings
	client     Downloader
	tagger     *Tagger
	playlist   *PlaylistCreator
	onProgress func(ProgressEvent)
	progressMu sync.Mutex

	totalFiles atomic.Int32
	doneFiles  atomic.Int32
	received   atomic.Int64
}

// NewMirror creates a Mirror that stores files under settings.AudioDir.
//
// onProgress is never called concurrently, even when downloads run in
// parallel.
func NewMirror(settings *config.Settings, client Downloader, onProgress func(ProgressEvent)) *Mirror {
	tagCfg := DefaultTagConfig()
	tagCfg.ModifyTags = settings.ModifyTags
	tagCfg.HymnalName = settings.HymnalName
	tagCfg.ArtistName = settings.TagArtist

	return &Mirror{
		settings:   settings,
		client:     client,
		tagger:     NewTagger(tagCfg),
		playlist:   NewPlaylistCreator(ParsePlaylistFormat(settings.PlaylistFormat), settings.M3UExtended),
		onProgress: onProgress,
	}
}

// Progress returns the number of recordings handled so far, the total for
// the current run and the bytes received.
func (m *Mirror) Progress() (done, total int32, received int64) {
	return m.doneFiles.Load(), m.totalFiles.Load(), m.received.Load()
}

// Run mirrors every hymn in c that has an audio link.
//
// A failed recording is reported in the Report and does not stop the
// others. The returned error is non-nil only when the directory cannot be
// created or ctx is cancelled.
func (m *Mirror) Run(ctx context.Context, c model.Collection) (*Report, error) {
	dir := m.settings.AudioDir
	if err := ioutils.EnsureDir(dir); err != nil {
		return nil, fmt.Errorf("create audio directory: %w", err)
	}

	jobs, report := m.plan(dir, c)
	m.totalFiles.Store(int32(len(jobs)))
	m.doneFiles.Store(0)
	m.received.Store(0)

	m.progress(ProgressEvent{Message: fmt.Sprintf("Mirroring %d recordings into %s", len(jobs), dir), Level: model.LevelInfo})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, m.settings.MaxConcurrentAudio))

	for i, job := range jobs {
		if job.owner != 0 {
			report.Files[i].Status = StatusShared
			m.progress(ProgressEvent{
				Number:  job.n,
				Path:    job.dest,
				Message: fmt.Sprintf("Hymn %d shares %s with hymn %d", job.n, filepath.Base(job.dest), job.owner),
				Level:   model.LevelVerbose,
			})
			m.doneFiles.Add(1)
			continue
		}

		i, job := i, job
		g.Go(func() error {
			status, err := m.mirrorOne(gctx, job)
			report.Files[i].Status = status
			report.Files[i].Err = err
			m.doneFiles.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return report, err
	}

	if m.settings.CreatePlaylist {
		m.writePlaylist(ctx, dir, c, report)
	}

	level := model.LevelSuccess
	if report.Count(StatusFailed) > 0 {
		level = model.LevelWarning
	}
	m.progress(ProgressEvent{
		Message: fmt.Sprintf("Mirror finished: %d downloaded, %d existing, %d failed",
			report.Count(StatusDownloaded), report.Count(StatusExisting), report.Count(StatusFailed)),
		Level: level,
	})

	return report, nil
}

// plan lists the hymns with audio in number order and assigns local paths.
func (m *Mirror) plan(dir string, c model.Collection) ([]mirrorJob, *Report) {
	var jobs []mirrorJob
	report := &Report{}
	claimed := make(map[string]model.Number)

	for _, n := range c.Numbers() {
		hymn, _ := c.Get(n)
		if !hymn.HasAudio() {
			continue
		}

		name := ioutils.URLBaseName(hymn.AudioFile)
		if name == "" {
			name = n.Padded() + ".mp3"
		}
		dest := filepath.Join(dir, name)

		job := mirrorJob{n: n, hymn: hymn, dest: dest}
		if owner, ok := claimed[dest]; ok {
			job.owner = owner
		} else {
			claimed[dest] = n
		}

		jobs = append(jobs, job)
		report.Files = append(report.Files, FileResult{Number: n, URL: hymn.AudioFile, Path: dest})
	}

	return jobs, report
}

func (m *Mirror) mirrorOne(ctx context.Context, job mirrorJob) (Status, error) {
	url := job.hymn.AudioFile

	if m.isCurrent(ctx, job.dest, url) {
		m.progress(ProgressEvent{Number: job.n, Path: job.dest, Message: fmt.Sprintf("Skipping existing: %s", filepath.Base(job.dest)), Level: model.LevelVerbose})
		return StatusExisting, nil
	}

	m.progress(ProgressEvent{Number: job.n, Path: job.dest, Message: fmt.Sprintf("Downloading hymn %d: %s", job.n, url), Level: model.LevelVerbose})

	var lastWritten int64
	err := retry.Do(
		func() error {
			lastWritten = 0
			return m.client.DownloadFile(ctx, url, job.dest, func(written, _ int64) {
				m.received.Add(written - lastWritten)
				lastWritten = written
			})
		},
		retry.Context(ctx),
		retry.Attempts(uint(max(1, m.settings.AudioMaxRetries))),
		retry.Delay(m.settings.RetryCooldown()),
		retry.DelayType(m.backoff),
		retry.LastErrorOnly(true),
		retry.RetryIf(retryable),
		retry.OnRetry(func(attempt uint, err error) {
			m.progress(ProgressEvent{
				Number:  job.n,
				Path:    job.dest,
				Message: fmt.Sprintf("Attempt %d/%d for hymn %d failed: %v", attempt+1, m.settings.AudioMaxRetries, job.n, err),
				Level:   model.LevelWarning,
			})
		}),
	)
	if err != nil {
		_ = os.Remove(job.dest)
		m.progress(ProgressEvent{Number: job.n, Path: job.dest, Message: fmt.Sprintf("Error downloading hymn %d: %v", job.n, err), Level: model.LevelError})
		return StatusFailed, err
	}

	if err := m.tagger.SaveTags(job.dest, job.n, job.hymn); err != nil {
		m.progress(ProgressEvent{Number: job.n, Path: job.dest, Message: fmt.Sprintf("Error tagging %s: %v", filepath.Base(job.dest), err), Level: model.LevelWarning})
	}

	m.progress(ProgressEvent{Number: job.n, Path: job.dest, Message: fmt.Sprintf("Downloaded: %s", filepath.Base(job.dest)), Level: model.LevelSuccess})
	return StatusDownloaded, nil
}

// isCurrent reports whether dest already holds a copy whose size is within
// the allowed relative difference of the remote file.
func (m *Mirror) isCurrent(ctx context.Context, dest, url string) bool {
	size := ioutils.FileSize(dest)
	if size < 0 {
		return false
	}

	expected, err := m.client.GetFileSize(ctx, url)
	if err != nil || expected <= 0 {
		return false
	}

	diff := float64(size-expected) / float64(expected)
	return math.Abs(diff) <= m.settings.AllowedFileSizeDifference
}

// backoff grows the cooldown by the configured exponent per attempt.
func (m *Mirror) backoff(n uint, _ error, _ *retry.Config) time.Duration {
	cooldown := m.settings.RetryCooldown()
	exp := m.settings.AudioRetryExponent
	if exp < 1 {
		exp = 1
	}
	return time.Duration(float64(cooldown) * math.Pow(exp, float64(n)))
}

// retryable rejects client errors; a 404 will not fix itself.
func retryable(err error) bool {
	var statusErr *http.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == 429
	}
	return true
}

func (m *Mirror) writePlaylist(ctx context.Context, dir string, c model.Collection, report *Report) {
	var entries []Entry
	for _, f := range report.Files {
		if f.Status != StatusDownloaded && f.Status != StatusExisting {
			continue
		}
		hymn, _ := c.Get(f.Number)
		entries = append(entries, Entry{Path: f.Path, Title: hymn.Title})
	}
	if len(entries) == 0 {
		return
	}

	name := ioutils.SanitizeFileName(m.settings.HymnalName)
	if name == "" {
		name = "hymns"
	}
	path := filepath.Join(dir, name+m.playlist.Format().Extension())

	content := m.playlist.CreatePlaylist(m.settings.TagArtist, entries)
	if err := ioutils.WriteFile(ctx, path, []byte(content)); err != nil {
		m.progress(ProgressEvent{Message: fmt.Sprintf("Error creating playlist: %v", err), Level: model.LevelWarning})
		return
	}

	report.PlaylistPath = path
	m.progress(ProgressEvent{Path: path, Message: fmt.Sprintf("Created playlist %s", filepath.Base(path)), Level: model.LevelSuccess})
}

func (m *Mirror) progress(event ProgressEvent) {
	if m.onProgress == nil {
		return
	}
	m.progressMu.Lock()
	defer m.progressMu.Unlock()
	m.onProgress(event)
}
