// Package opensubtitles wraps the OpenSubtitles REST API used to find and
// download source subtitles.
//
// Search queries subtitles by title with optional season/episode and year
// filters, ordered by download count. Download performs the two-phase
// retrieval the API requires: a POST negotiates a temporary link, then the
// payload is fetched from that link. The client tracks the quota headers
// every response carries and refuses further calls locally while the quota
// is exhausted.
package opensubtitles
