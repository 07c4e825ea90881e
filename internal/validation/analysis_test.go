package validation

import (
	"strings"
	"testing"
)

func TestAnalyzeConsecutiveRun(t *testing.T) {
	expected := make([]int, 0, 20)
	actual := make([]int, 0, 13)
	for i := 1; i <= 20; i++ {
		expected = append(expected, i)
		if i < 12 || i > 18 {
			actual = append(actual, i)
		}
	}
	report := Analyze(expected, actual)
	if len(report.Missing) != 7 {
		t.Fatalf("expected 7 missing, got %d", len(report.Missing))
	}
	if len(report.MissingRanges) != 1 {
		t.Fatalf("expected one range, got %v", report.MissingRanges)
	}
	if report.MissingRanges[0].String() != "12-18" {
		t.Fatalf("expected range 12-18, got %s", report.MissingRanges[0])
	}
	found := false
	for _, insight := range report.Insights {
		if strings.Contains(insight, "12-18") && strings.Contains(insight, "chunk") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected dropped-chunk insight, got %v", report.Insights)
	}
}

func TestAnalyzeTwoMissing(t *testing.T) {
	report := Analyze([]int{1, 2, 3, 4}, []int{1, 4})
	if len(report.Missing) != 2 {
		t.Fatalf("expected 2 missing, got %v", report.Missing)
	}
	found := false
	for _, insight := range report.Insights {
		if strings.Contains(insight, "merge") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected merge insight, got %v", report.Insights)
	}
}

func TestAnalyzeIsolatedDrops(t *testing.T) {
	report := Analyze([]int{1, 2, 3, 4, 5}, []int{1, 3, 5})
	if len(report.MissingRanges) != 2 {
		t.Fatalf("expected 2 isolated ranges, got %v", report.MissingRanges)
	}
	if report.MissingRanges[0].String() != "2" || report.MissingRanges[1].String() != "4" {
		t.Fatalf("expected singleton ranges 2 and 4, got %v", report.MissingRanges)
	}
}

func TestAnalyzeExtras(t *testing.T) {
	report := Analyze([]int{1, 2}, []int{1, 2, 30})
	if len(report.Extra) != 1 || report.Extra[0] != 30 {
		t.Fatalf("expected extra [30], got %v", report.Extra)
	}
	found := false
	for _, insight := range report.Insights {
		if strings.Contains(insight, "unexpected") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected numbering insight, got %v", report.Insights)
	}
}

func TestAnalyzeDuplicatesOnly(t *testing.T) {
	report := Analyze([]int{1, 2}, []int{1, 1, 2})
	if len(report.Missing) != 0 || len(report.Extra) != 0 {
		t.Fatalf("expected clean diff, got %v / %v", report.Missing, report.Extra)
	}
	found := false
	for _, insight := range report.Insights {
		if strings.Contains(insight, "repeats") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected duplicate insight, got %v", report.Insights)
	}
}

func TestAnalyzeUnsortedInputIsSorted(t *testing.T) {
	report := Analyze([]int{5, 1, 3}, []int{3})
	if len(report.Missing) != 2 || report.Missing[0] != 1 || report.Missing[1] != 5 {
		t.Fatalf("expected sorted missing [1 5], got %v", report.Missing)
	}
}
