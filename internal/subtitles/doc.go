// Package subtitles implements the SubRip codec used throughout shuttle.
//
// It parses SRT text into timed segments, reconstructs translated SRT output
// with byte-identical timing, and defines the timing-free transcript views
// (wire format and numbered-reply grammar) exchanged with translation
// backends. Parsing is deliberately lossy on corruption: malformed blocks are
// dropped so a damaged file degrades to fewer segments instead of an error.
package subtitles
