// Package model defines the core data structures used throughout hymnscan.
//
// # Hymn
//
// Hymn is one record of the hymnal collection:
//
//	hymn := model.NewHymn(12, "Lord, Keep Us Steadfast in Thy Word", verses, audioURL)
//	fmt.Println(hymn.Title) // "12. Lord, Keep Us Steadfast in Thy Word"
//
// # Collection
//
// Collection is the typed form of the JSON hymnal file, keyed by Number.
// Keys are parsed once when the file is decoded; anything that is not
// "hymn<N>" is set aside and written back unchanged:
//
//	var c model.Collection
//	json.Unmarshal(data, &c)
//	h, ok := c.Get(12)
//
// # Numbers and Ranges
//
// Number renders its key ("hymn12") and zero-padded form ("012"). Range is
// an inclusive run of numbers used by the gap report ("12-15").
package model
