// Package config provides configuration management for hymnscan.
//
// This package handles:
//   - Loading settings from a JSON file with environment overrides
//   - Saving settings to a JSON file
//   - Default configuration values
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Collection in ./hymns.json, range 1..668
//	// One second between page fetches
//	// Recordings mirrored into ./hymns
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/hymnscan.json")
//	// Uses defaults if the file doesn't exist
//
// Any key can be overridden from the environment with the HYMNSCAN_ prefix:
//
//	HYMNSCAN_REQUEST_DELAY=2.5 hymnscan scrape hymns.json
//
// # Saving Settings
//
//	settings.AudioDir = "/srv/www/hymns"
//	err := settings.Save("/path/to/hymnscan.json")
package config
