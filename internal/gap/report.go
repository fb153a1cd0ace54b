package gap

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	rangesPerLine  = 10
	numbersPerLine = 20
)

// WriteReport renders the human-readable analysis of r.
//
// The report lists totals and the completion rate, then the missing numbers
// twice: compressed into ranges (10 per line) and one by one (20 per line).
// A complete collection gets a single confirmation line instead.
func WriteReport(w io.Writer, r Result) error {
	bw := bufio.NewWriter(w)
	banner := strings.Repeat("=", 60)

	fmt.Fprintln(bw, banner)
	fmt.Fprintln(bw, "HYMN COLLECTION ANALYSIS REPORT")
	fmt.Fprintln(bw, banner)
	fmt.Fprintf(bw, "Total Expected Hymns: %d\n", r.Last)
	fmt.Fprintf(bw, "Total Present Hymns:  %d\n", len(r.Present))
	fmt.Fprintf(bw, "Total Missing Hymns:  %d\n", len(r.Missing))
	fmt.Fprintf(bw, "Completion Rate:      %.1f%%\n", r.CompletionRate())
	fmt.Fprintln(bw, banner)

	if len(r.Missing) > 0 {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "MISSING HYMNS:")
		fmt.Fprintln(bw, strings.Repeat("-", 40))

		ranges := Compress(r.Missing)
		labels := make([]string, len(ranges))
		for i, rg := range ranges {
			labels[i] = rg.String()
		}
		writeWrapped(bw, labels, rangesPerLine)

		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "Missing hymns listed individually:")
		nums := make([]string, len(r.Missing))
		for i, n := range r.Missing {
			nums[i] = strconv.Itoa(n)
		}
		writeWrapped(bw, nums, numbersPerLine)
	} else {
		fmt.Fprintln(bw)
		fmt.Fprintln(bw, "ALL HYMNS ARE PRESENT! Complete collection detected.")
	}

	fmt.Fprintln(bw)
	fmt.Fprintln(bw, banner)

	return bw.Flush()
}

func writeWrapped(w io.Writer, items []string, perLine int) {
	for i := 0; i < len(items); i += perLine {
		end := min(i+perLine, len(items))
		fmt.Fprintln(w, strings.Join(items[i:end], ", "))
	}
}

// SaveMissingList writes the missing numbers to path, one per line, followed
// by the total. Nothing is written when missing is empty.
//
// Output:
//
//	Missing Hymns from TLH (1-668):
//	========================================
//
//	Hymn 2
//	Hymn 4
//
//	Total missing: 2 hymns
func SaveMissingList(path string, missing []int, last int) error {
	if len(missing) == 0 {
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "Missing Hymns from TLH (1-%d):\n", last)
	fmt.Fprintln(bw, strings.Repeat("=", 40))
	fmt.Fprintln(bw)
	for _, n := range missing {
		fmt.Fprintf(bw, "Hymn %d\n", n)
	}
	fmt.Fprintf(bw, "\nTotal missing: %d hymns\n", len(missing))

	if err := bw.Flush(); err != nil {
		return err
	}
	return f.Close()
}
