// Package sentiment implements bag-of-words scoring of article text against
// the static vocabulary: word counting, label derivation, and a normalized
// score in [-1, 1].
package sentiment

import (
	"regexp"
	"sort"
	"strings"

	"stocksent/internal/domain"
	"stocksent/internal/vocab"
)

// numberPercentRe matches sign-optional decimal-percent tokens such as
// "+15.5%", "-2.3%", or "25%", so price-change mentions do not pollute the
// word counts.
var numberPercentRe = regexp.MustCompile(`-*\+*\d*\.?\d*%`)

// nonAlphaRe strips everything that is not an ASCII letter.
var nonAlphaRe = regexp.MustCompile(`[^a-zA-Z]`)

// StripNumbers removes numeric/percentage tokens from text.
func StripNumbers(text string) string {
	return numberPercentRe.ReplaceAllString(text, "")
}

// CleanWord lower-cases a token and removes all non-alphabetic characters.
func CleanWord(word string) string {
	return nonAlphaRe.ReplaceAllString(strings.ToLower(word), "")
}

// Count tallies vocabulary matches in text. Tokens are sorted first so the
// per-letter word lists are fetched once per run of same-letter tokens.
// Cleaned tokens of length <= 1 are discarded. A token that appears in both
// lists counts toward both tallies.
func Count(v *vocab.Vocabulary, text string) domain.WordCounts {
	words := strings.Fields(text)
	sort.Strings(words)

	var counts domain.WordCounts
	var currentLetter string
	var positiveWords, negativeWords []string

	for _, word := range words {
		cleaned := CleanWord(word)
		if len(cleaned) <= 1 {
			continue
		}

		letter := cleaned[:1]
		if letter != currentLetter {
			currentLetter = letter
			positiveWords = v.PositiveWords(letter)
			negativeWords = v.NegativeWords(letter)
		}

		if containsWord(positiveWords, cleaned) {
			counts.Positive++
		}
		if containsWord(negativeWords, cleaned) {
			counts.Negative++
		}
	}

	return counts
}

func containsWord(words []string, w string) bool {
	for _, word := range words {
		if word == w {
			return true
		}
	}
	return false
}

// Label derives the sentiment label from word counts. Equal counts,
// including zero/zero, are neutral.
func Label(positive, negative int) domain.Label {
	switch {
	case positive > negative:
		return domain.LabelPositive
	case negative > positive:
		return domain.LabelNegative
	default:
		return domain.LabelNeutral
	}
}

// Score derives the normalized sentiment score (positive − negative) /
// (positive + negative). It is 0 when no sentiment words were found and
// lies in [-1, 1] by construction.
func Score(positive, negative int) float64 {
	total := positive + negative
	if total == 0 {
		return 0
	}
	return float64(positive-negative) / float64(total)
}

// Result bundles the outcome of analyzing one text.
type Result struct {
	Counts domain.WordCounts
	Label  domain.Label
	Score  float64
}

// Analyze strips numeric tokens, counts vocabulary matches, and derives the
// label and score.
func Analyze(v *vocab.Vocabulary, text string) Result {
	counts := Count(v, StripNumbers(text))
	return Result{
		Counts: counts,
		Label:  Label(counts.Positive, counts.Negative),
		Score:  Score(counts.Positive, counts.Negative),
	}
}
