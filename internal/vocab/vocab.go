// Package vocab holds the static sentiment vocabulary: positive and
// negative word lists indexed by first letter. The lists are compiled into
// the binary and are read-only after load.
package vocab

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed words.json
var wordsJSON []byte

// Vocabulary is a letter-indexed lexicon. Keys are single lowercase letters
// "a".."z"; values are the sentiment words starting with that letter.
type Vocabulary struct {
	Positive map[string][]string `json:"positive"`
	Negative map[string][]string `json:"negative"`
}

// Load parses the embedded word lists.
func Load() (*Vocabulary, error) {
	return Parse(wordsJSON)
}

// Parse builds a Vocabulary from raw JSON. Split out from Load so tests can
// supply a small fixture lexicon.
func Parse(data []byte) (*Vocabulary, error) {
	v := &Vocabulary{}
	if err := json.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parsing vocabulary: %w", err)
	}
	if len(v.Positive) == 0 && len(v.Negative) == 0 {
		return nil, fmt.Errorf("vocabulary is empty")
	}
	return v, nil
}

// PositiveWords returns the positive words starting with the given letter,
// or nil when there are none.
func (v *Vocabulary) PositiveWords(letter string) []string {
	return v.Positive[letter]
}

// NegativeWords returns the negative words starting with the given letter,
// or nil when there are none.
func (v *Vocabulary) NegativeWords(letter string) []string {
	return v.Negative[letter]
}

// IsPositive reports whether the (already cleaned, lowercase) word appears
// in the positive list.
func (v *Vocabulary) IsPositive(word string) bool {
	return contains(v.Positive, word)
}

// IsNegative reports whether the (already cleaned, lowercase) word appears
// in the negative list.
func (v *Vocabulary) IsNegative(word string) bool {
	return contains(v.Negative, word)
}

func contains(index map[string][]string, word string) bool {
	if word == "" {
		return false
	}
	for _, w := range index[word[:1]] {
		if w == word {
			return true
		}
	}
	return false
}

// Stats returns the total number of positive and negative words.
func (v *Vocabulary) Stats() (positive, negative int) {
	for _, words := range v.Positive {
		positive += len(words)
	}
	for _, words := range v.Negative {
		negative += len(words)
	}
	return positive, negative
}
