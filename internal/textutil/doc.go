// Package textutil provides small text helpers for filename sanitization
// and token normalization, used when deriving output paths from subtitle
// titles and language codes.
package textutil
