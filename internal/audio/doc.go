// Package audio mirrors hymn recordings to disk and annotates them.
//
// # Mirroring
//
// Mirror downloads the recording linked from each hymn record into a local
// directory, named after the last segment of its URL:
//
//	m := audio.NewMirror(settings, http.NewClient(settings.Timeout(), ""), onProgress)
//	report, err := m.Run(ctx, collection)
//
// Files already present with a size close enough to the remote one are kept.
// Failed downloads are retried with exponential backoff, except for client
// errors such as 404.
//
// # ID3 Tagging
//
// After a download the Tagger writes the hymn title, number, hymnal name,
// artist and lyrics into the file's ID3 tag.
//
// # Playlist Generation
//
// When enabled, the mirror writes an M3U (optionally extended) or PLS
// playlist listing the recordings in hymn order.
package audio
