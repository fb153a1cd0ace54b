package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/lutherald/hymnscan/internal/audio"
	"github.com/lutherald/hymnscan/internal/logger"
	"github.com/lutherald/hymnscan/internal/model"
	"github.com/lutherald/hymnscan/internal/scrape"
)

// logEvent writes a progress message at the matching log level.
func logEvent(l logger.Interface, level model.ProgressLevel, msg string, fields ...any) {
	switch level {
	case model.LevelVerbose:
		l.Debug(msg, fields...)
	case model.LevelWarning:
		l.Warn(msg, fields...)
	case model.LevelError:
		l.Error(msg, fields...)
	default:
		l.Info(msg, fields...)
	}
}

func logScrapeEvent(l logger.Interface) func(scrape.ProgressEvent) {
	scoped := l.WithComponent("scrape")
	return func(e scrape.ProgressEvent) {
		if e.Number == 0 {
			logEvent(scoped, e.Level, e.Message)
			return
		}
		logEvent(scoped, e.Level, e.Message, "hymn", int(e.Number), "outcome", e.Outcome.String())
	}
}

func logAudioEvent(l logger.Interface) func(audio.ProgressEvent) {
	scoped := l.WithComponent("audio")
	return func(e audio.ProgressEvent) {
		if e.Number == 0 {
			logEvent(scoped, e.Level, e.Message)
			return
		}
		logEvent(scoped, e.Level, e.Message, "hymn", int(e.Number))
	}
}

// confirm asks a y/n question until it gets an answer. End of input counts
// as no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%s (y/n): ", question)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return false
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Fprintln(out, "Please enter 'y' or 'n'")
	}
}
