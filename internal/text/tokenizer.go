// Package text provides the text-processing pipeline for the sentiment
// models: tokenization, vocabulary building, id encoding and pretrained
// word-vector loading.
package text

import (
	"regexp"
	"strings"
)

// Tokenizer splits raw text into tokens.
type Tokenizer interface {
	Tokenize(text string) []string
}

// wordPattern matches runs of letters or digits; punctuation and
// whitespace act as separators.
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// WordTokenizer lowercases text and splits it into alphanumeric word
// tokens. Accents and non-Latin scripts are preserved as-is.
type WordTokenizer struct{}

// NewWordTokenizer creates a new word-level tokenizer.
func NewWordTokenizer() *WordTokenizer {
	return &WordTokenizer{}
}

// Tokenize returns the lowercased word tokens of text, in order.
// Returns an empty slice for text with no word characters.
func (t *WordTokenizer) Tokenize(text string) []string {
	tokens := wordPattern.FindAllString(strings.ToLower(text), -1)
	if tokens == nil {
		return []string{}
	}
	return tokens
}
