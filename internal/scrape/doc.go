// Package scrape fetches hymn pages for a list of numbers and collects the
// records extracted from them.
//
// # Manager
//
// The Manager works strictly one page at a time:
//
//  1. Build the page URL for the number
//  2. Fetch it (no retries)
//  3. Extract the record with tlh.Parser
//  4. Report the outcome
//  5. Wait the configured delay, unless this was the last number
//
// # Basic Usage
//
//	manager := scrape.NewManager(settings, client, func(event scrape.ProgressEvent) {
//	    fmt.Println(event.Message)
//	})
//
//	scraped, summary, err := manager.Scrape(ctx, res.Missing, settings.Delay())
//	merged := store.Merge(collection, scraped)
//
// # Progress Tracking
//
// Every number produces exactly one outcome event (Level Info for a found
// hymn, Warning for a page without a hymn, Error for a failed fetch), plus
// Verbose events for each request.
package scrape
