// Package gap finds the hymn numbers a collection is missing and reports
// them.
//
// # Analysis
//
// Analyze compares a collection against the full range [1, last]:
//
//	res := gap.Analyze(collection, model.LastHymn)
//	fmt.Println(res.Missing)          // [2 4 5 6 ...]
//	fmt.Println(res.CompletionRate()) // 44.9...
//
// Scan does the same starting from a file path. A missing or malformed file
// is reported through ErrNotFound or ErrMalformed together with an empty
// Result, never by aborting.
//
// # Reporting
//
// WriteReport renders totals, the completion rate and the missing numbers
// compressed into ranges ("12-15"). SaveMissingList exports the missing
// numbers to a text file, one per line.
package gap
