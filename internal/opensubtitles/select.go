package opensubtitles

import "strings"

// BestMatch picks the most promising subtitle from search results. Languages
// are ranked by their position in the preference list; within a language,
// human-made subtitles beat AI translations and higher download counts win.
// Returns false when no candidate matches any preferred language (or, with
// an empty preference list, when there are no candidates at all).
func BestMatch(subtitles []Subtitle, languages []string) (Subtitle, bool) {
	rank := make(map[string]int, len(languages))
	for i, lang := range languages {
		rank[strings.ToLower(strings.TrimSpace(lang))] = i
	}

	var best Subtitle
	bestRank := -1
	found := false
	for _, candidate := range subtitles {
		candidateRank := 0
		if len(rank) > 0 {
			r, ok := rank[strings.ToLower(candidate.Language)]
			if !ok {
				continue
			}
			candidateRank = r
		}
		if !found || betterCandidate(candidate, candidateRank, best, bestRank) {
			best = candidate
			bestRank = candidateRank
			found = true
		}
	}
	return best, found
}

func betterCandidate(candidate Subtitle, candidateRank int, best Subtitle, bestRank int) bool {
	if candidateRank != bestRank {
		return candidateRank < bestRank
	}
	if candidate.AITranslated != best.AITranslated {
		return !candidate.AITranslated
	}
	return candidate.Downloads > best.Downloads
}
