package validation

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// Range is a contiguous run of missing segment numbers.
type Range struct {
	First int
	Last  int
}

func (r Range) String() string {
	if r.First == r.Last {
		return fmt.Sprintf("%d", r.First)
	}
	return fmt.Sprintf("%d-%d", r.First, r.Last)
}

// Report classifies a whole-file validation mismatch. It is advisory output
// for logging and never feeds back into control flow or retries.
type Report struct {
	Missing       []int
	Extra         []int
	MissingRanges []Range
	Insights      []string
}

// Analyze diagnoses the difference between expected and returned segment
// numbers: sorted missing and extra numbers, contiguous grouping of the
// missing ones, and human-readable insight strings distinguishing an
// isolated drop from a systematic chunk loss.
func Analyze(expected, actual []int) Report {
	missing, extra := lo.Difference(sortedCopy(expected), sortedCopy(actual))
	extra = lo.Uniq(extra)

	report := Report{
		Missing:       missing,
		Extra:         extra,
		MissingRanges: groupRanges(missing),
	}

	for _, r := range report.MissingRanges {
		if r.Last-r.First >= 2 {
			report.Insights = append(report.Insights,
				fmt.Sprintf("missing consecutive segments %s: likely a dropped chunk", r))
		}
	}
	switch len(missing) {
	case 0:
	case 1:
		report.Insights = append(report.Insights,
			fmt.Sprintf("a single segment (%d) is missing: the backend probably skipped one line", missing[0]))
	case 2:
		report.Insights = append(report.Insights,
			"exactly 2 segments missing: backends commonly merge adjacent segments into one answer")
	}
	if len(extra) > 0 {
		report.Insights = append(report.Insights,
			fmt.Sprintf("%d unexpected segment numbers returned: reply numbering drifted from the request", len(extra)))
	}
	if len(missing) == 0 && len(extra) == 0 {
		report.Insights = append(report.Insights,
			"segment numbers match but counts differ: the reply repeats at least one segment")
	}
	return report
}

func groupRanges(sorted []int) []Range {
	var ranges []Range
	for _, n := range sorted {
		if len(ranges) > 0 && ranges[len(ranges)-1].Last == n-1 {
			ranges[len(ranges)-1].Last = n
			continue
		}
		ranges = append(ranges, Range{First: n, Last: n})
	}
	return ranges
}

func sortedCopy(numbers []int) []int {
	out := make([]int, len(numbers))
	copy(out, numbers)
	sort.Ints(out)
	return out
}
