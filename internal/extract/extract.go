// Package extract turns raw listing text into candidate trademark terms:
// known phrases, filtered single words, and 2-/3-word sliding windows.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

// DefaultMinWordLength is the shortest token kept as a candidate.
const DefaultMinWordLength = 3

// wordPattern matches words, keeping internal apostrophes and hyphens
// ("lovin'" loses the trailing quote, "coca-cola" stays whole).
var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+(?:['’-][\p{L}\p{N}_]+)*`)

// DefaultStopwords are common English function words that are never checked.
var DefaultStopwords = []string{
	"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for", "of",
	"with", "by", "from", "is", "are", "was", "were", "been", "be", "have",
	"has", "had", "do", "does", "did", "will", "would", "could", "should",
	"may", "might", "must", "can", "shall", "if", "then", "than", "that",
	"this", "these", "those", "i", "you", "he", "she", "it", "we", "they",
	"me", "him", "her", "us", "them", "my", "your", "his", "its", "our",
	"their", "as", "so", "not",
}

// DefaultPhrases are multi-word marks that are picked up verbatim whenever
// they appear in the text, even across stopwords.
var DefaultPhrases = []string{
	// slogans
	"just do it", "think different", "i'm lovin it", "because you're worth it",
	"the happiest place on earth", "melts in your mouth not in your hands",
	// characters
	"mickey mouse", "minnie mouse", "hello kitty", "winnie the pooh",
	"harry potter", "star wars", "game of thrones", "lord of the rings",
	// brand + product
	"nike air", "air jordan", "air force", "apple watch", "google maps",
	"coca cola", "pepsi cola", "red bull", "monster energy",
	// events and other phrases
	"super bowl", "world cup", "olympic games", "grammy awards",
	"happy birthday to you", "let's play",
}

// Extractor produces candidate term sets from text.
type Extractor struct {
	Phrases       []string
	MinWordLength int

	stopwords map[string]struct{}
}

// New returns an Extractor with the default phrases, stopwords and minimum
// word length.
func New() *Extractor {
	return &Extractor{
		Phrases:       DefaultPhrases,
		MinWordLength: DefaultMinWordLength,
		stopwords:     toSet(DefaultStopwords),
	}
}

// WithStopwords replaces the stopword set.
func (e *Extractor) WithStopwords(words []string) *Extractor {
	e.stopwords = toSet(words)
	return e
}

func (e *Extractor) minLen() int {
	if e.MinWordLength <= 0 {
		return DefaultMinWordLength
	}
	return e.MinWordLength
}

// Tokens returns the lowercase words of text in order, dropping stopwords
// and words shorter than the minimum length.
func (e *Extractor) Tokens(text string) []string {
	var out []string
	for _, w := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		if utf8.RuneCountInString(w) < e.minLen() {
			continue
		}
		if _, skip := e.stopwords[w]; skip {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Extract returns the deduplicated candidate terms of text, sorted.
// Empty text, or text shorter than the minimum word length, yields nil.
func (e *Extractor) Extract(text string) []string {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < e.minLen() {
		return nil
	}
	set := make(map[string]struct{})
	e.collect(set, text)
	return sortedKeys(set)
}

// ExtractListing returns the candidate terms of a listing: everything
// Extract finds in the title, the whole title as one phrase, and each tag.
func (e *Extractor) ExtractListing(title string, tags []string) []string {
	set := make(map[string]struct{})
	if utf8.RuneCountInString(strings.TrimSpace(title)) >= e.minLen() {
		e.collect(set, title)
		set[strings.Join(strings.Fields(strings.ToLower(title)), " ")] = struct{}{}
	}
	for _, tag := range tags {
		t := strings.Join(strings.Fields(strings.ToLower(tag)), " ")
		if utf8.RuneCountInString(t) >= e.minLen() {
			set[t] = struct{}{}
		}
	}
	return sortedKeys(set)
}

func (e *Extractor) collect(set map[string]struct{}, text string) {
	lower := strings.ToLower(text)
	for _, p := range e.Phrases {
		if p != "" && strings.Contains(lower, p) {
			set[p] = struct{}{}
		}
	}

	words := e.Tokens(text)
	for _, w := range words {
		set[w] = struct{}{}
	}
	for _, g := range NGrams(words, 2) {
		set[g] = struct{}{}
	}
	for _, g := range NGrams(words, 3) {
		set[g] = struct{}{}
	}
}

// NGrams returns every adjacent n-word window of words joined by spaces.
func NGrams(words []string, n int) []string {
	if n <= 0 || len(words) < n {
		return nil
	}
	out := make([]string, 0, len(words)-n+1)
	for i := 0; i+n <= len(words); i++ {
		out = append(out, strings.Join(words[i:i+n], " "))
	}
	return out
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
