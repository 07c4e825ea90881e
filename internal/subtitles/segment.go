package subtitles

import (
	"fmt"
	"strconv"
	"strings"
)

// Segment is one timed subtitle cue. Start and End keep the raw
// HH:MM:SS,mmm strings from the source file so reconstruction reproduces
// timing byte for byte. Sequence numbers are unique within a file but are
// not required to be contiguous or to start at 1.
type Segment struct {
	Sequence int
	Start    string
	End      string
	Text     string
}

// StartMillis returns the start time in milliseconds, or 0 if the stamp
// cannot be parsed.
func (s Segment) StartMillis() int {
	ms, err := timestampMillis(s.Start)
	if err != nil {
		return 0
	}
	return ms
}

// EndMillis returns the end time in milliseconds, or 0 if the stamp cannot
// be parsed.
func (s Segment) EndMillis() int {
	ms, err := timestampMillis(s.End)
	if err != nil {
		return 0
	}
	return ms
}

// MissingTranslationError reports a segment that reconstruction could not
// find a translation for. It names both the sequence and the original text
// so the gap can be located without re-running the pipeline.
type MissingTranslationError struct {
	Sequence int
	Text     string
}

func (e *MissingTranslationError) Error() string {
	return fmt.Sprintf("missing translation for segment %d (%q)", e.Sequence, e.Text)
}

func timestampMillis(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	timeParts := strings.Split(value, ",")
	if len(timeParts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hms := strings.Split(timeParts[0], ":")
	if len(hms) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	hours, errH := strconv.Atoi(hms[0])
	minutes, errM := strconv.Atoi(hms[1])
	seconds, errS := strconv.Atoi(hms[2])
	millis, errMS := strconv.Atoi(timeParts[1])
	if errH != nil || errM != nil || errS != nil || errMS != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return hours*3600000 + minutes*60000 + seconds*1000 + millis, nil
}
