// Package language provides unified language code normalization and mapping.
//
// All language-related conversions (ISO 639-1, ISO 639-2, display names,
// BCP 47 fallback parsing) are consolidated here so config validation,
// prompt wording, and OpenSubtitles queries agree on spellings.
package language
