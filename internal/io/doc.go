// Package ioutils provides file system helpers for hymnscan.
//
// This package contains functions for:
//   - Byte-for-byte file copies (collection backups)
//   - Whole-file writes
//   - Directory creation
//   - File name sanitization for mirrored recordings
//
// # File Operations
//
//	// Back up the collection before rewriting it
//	err := ioutils.CopyFile(ctx, "tlh.json", "tlh.json.backup")
//
//	// Ensure the audio directory exists
//	err := ioutils.EnsureDir("hymns")
//
// # File Names
//
//	name := ioutils.URLBaseName("https://example.org/audio/012.mp3") // "012.mp3"
package ioutils
