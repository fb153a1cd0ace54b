package gap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/lutherald/hymnscan/internal/model"
)

var (
	// ErrNotFound is returned by Scan when the collection file does not exist.
	ErrNotFound = errors.New("collection file not found")

	// ErrMalformed is returned by Scan when the collection file is not a valid
	// JSON object of hymn records.
	ErrMalformed = errors.New("invalid JSON format in collection file")
)

// Result holds the present and missing hymn numbers of a collection.
//
// Both slices are sorted ascending. Together they cover [1, Last] exactly
// once.
type Result struct {
	Present []int
	Missing []int
	Last    int
}

// Empty reports whether the result carries no numbers at all, which is what
// Scan returns when the file could not be read.
func (r Result) Empty() bool {
	return len(r.Present) == 0 && len(r.Missing) == 0
}

// CompletionRate returns the share of present hymns as a percentage.
func (r Result) CompletionRate() float64 {
	if r.Last <= 0 {
		return 0
	}
	return float64(len(r.Present)) / float64(r.Last) * 100
}

// Analyze computes which numbers in [1, last] are present in the collection.
//
// Keys outside the range are ignored.
//
// Example:
//
//	res := gap.Analyze(collection, model.LastHymn)
//	fmt.Printf("%d missing\n", len(res.Missing))
func Analyze(c model.Collection, last int) Result {
	res := Result{
		Present: []int{},
		Missing: []int{},
		Last:    last,
	}

	for n := model.FirstHymn; n <= last; n++ {
		if c.Has(model.Number(n)) {
			res.Present = append(res.Present, n)
		} else {
			res.Missing = append(res.Missing, n)
		}
	}

	return res
}

// Scan loads the collection at path and analyzes it.
//
// A missing or malformed file yields an empty Result along with ErrNotFound
// or ErrMalformed. The caller decides how to report it; neither is fatal.
func Scan(path string, last int) (Result, model.Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Last: last}, model.NewCollection(), fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Result{Last: last}, model.NewCollection(), fmt.Errorf("read %s: %w", path, err)
	}

	var c model.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return Result{Last: last}, model.NewCollection(), fmt.Errorf("%w %s: %v", ErrMalformed, path, err)
	}

	return Analyze(c, last), c, nil
}

// Compress groups a sorted, duplicate-free list into inclusive ranges.
//
//	Compress([]int{2, 4, 5, 6, 9}) // [2 4-6 9]
func Compress(nums []int) []model.Range {
	if len(nums) == 0 {
		return nil
	}

	var ranges []model.Range
	cur := model.Range{Lo: nums[0], Hi: nums[0]}
	for _, n := range nums[1:] {
		if n == cur.Hi+1 {
			cur.Hi = n
			continue
		}
		ranges = append(ranges, cur)
		cur = model.Range{Lo: n, Hi: n}
	}
	ranges = append(ranges, cur)

	return ranges
}

// Expand is the inverse of Compress.
func Expand(ranges []model.Range) []int {
	var nums []int
	for _, r := range ranges {
		for n := r.Lo; n <= r.Hi; n++ {
			nums = append(nums, n)
		}
	}
	return nums
}
