package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// WriteSRT writes a synthetic SRT file with count sequentially numbered
// segments to path, creating parent directories as needed. Segments start at
// one second intervals with a 500ms gap between them.
func WriteSRT(t testing.TB, path string, count int) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	var b strings.Builder
	for i := 1; i <= count; i++ {
		start := time.Duration(i) * time.Second
		end := start + 500*time.Millisecond
		fmt.Fprintf(&b, "%d\n%s --> %s\nLine %d\n\n", i, formatSRTTime(start), formatSRTTime(end), i)
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func formatSRTTime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}
