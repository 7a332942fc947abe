// Package chunk splits normalized document text into overlapping chunks.
//
// Three boundary policies are supported: fixed-width character windows,
// sentence-grouped windows, and paragraph-based semantic accumulation.
// The strategy and its parameters are a single fixed configuration for the
// whole system; callers do not override them per document.
package chunk

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
)

// Strategy selects the chunk boundary policy.
type Strategy string

const (
	// StrategyFixed slides a window by raw character count.
	StrategyFixed Strategy = "fixed"
	// StrategySentence groups a fixed number of sentences per window.
	StrategySentence Strategy = "sentence"
	// StrategySemantic accumulates paragraphs with sentence-level overlap.
	StrategySemantic Strategy = "semantic"
)

// Default chunking parameters, matching the system-wide configuration.
const (
	DefaultSize    = 512
	DefaultOverlap = 100

	// idLength is the length of truncated hex chunk ids.
	idLength = 16

	// idPrefixChars is how many leading characters feed positional chunk ids.
	idPrefixChars = 50
)

// Chunk is a contiguous slice of a document's text selected for independent
// embedding.
//
// For the fixed strategy the ID is a content hash: identical content anywhere
// produces the same id. This is an intentional dedup signal, not an accident.
// Positional strategies hash the window position plus a text prefix instead.
type Chunk struct {
	// ID is a stable hex identifier derived from the chunk.
	ID string
	// Text is the chunk content, whitespace-trimmed.
	Text string
	// Num is the 0-based ordinal within the document, contiguous in
	// creation order.
	Num int
}

// Splitter splits text under one fixed strategy.
type Splitter struct {
	strategy Strategy
	size     int
	overlap  int
}

// NewSplitter creates a splitter for the given strategy and parameters.
// Non-positive size and negative overlap fall back to defaults.
func NewSplitter(strategy Strategy, size, overlap int) *Splitter {
	if size <= 0 {
		size = DefaultSize
	}
	if overlap < 0 {
		overlap = DefaultOverlap
	}
	return &Splitter{strategy: strategy, size: size, overlap: overlap}
}

// Strategy returns the splitter's boundary policy.
func (s *Splitter) Strategy() Strategy {
	return s.strategy
}

// Split divides text into ordered chunks. Empty or whitespace-only input
// yields an empty slice; Split never fails.
func (s *Splitter) Split(text string) []Chunk {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	switch s.strategy {
	case StrategyFixed:
		return splitFixed(text, s.size, s.overlap)
	case StrategySentence:
		return splitSentenceGrouped(text, s.size, s.overlap)
	default:
		return splitSemantic(text, s.size)
	}
}

var (
	// paragraphSep matches blank-line paragraph boundaries.
	paragraphSep = regexp.MustCompile(`\n\s*\n+`)

	// sentenceEnd matches sentence-ending punctuation followed by whitespace.
	sentenceEnd = regexp.MustCompile(`[.!?]+\s+`)
)

// Normalize collapses runs of whitespace to single spaces while preserving
// blank-line paragraph boundaries. It is the only text normalization in the
// system and must be applied identically to indexed text and query text so
// that distance computations are consistent.
func Normalize(text string) string {
	paragraphs := paragraphSep.Split(text, -1)
	kept := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}

// SplitSentences splits text on sentence-ending punctuation followed by
// whitespace. The trailing fragment is kept even without closing punctuation.
func SplitSentences(text string) []string {
	var sentences []string
	start := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[start:loc[1]]); s != "" {
			sentences = append(sentences, s)
		}
		start = loc[1]
	}
	if rest := strings.TrimSpace(text[start:]); rest != "" {
		sentences = append(sentences, rest)
	}
	return sentences
}

// contentID hashes chunk content into a stable truncated hex id.
func contentID(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])[:idLength]
}

// positionalID hashes a window position and the chunk's leading characters.
func positionalID(position int, text string) string {
	prefix := text
	if runes := []rune(text); len(runes) > idPrefixChars {
		prefix = string(runes[:idPrefixChars])
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d_%s", position, prefix)))
	return hex.EncodeToString(sum[:])[:idLength]
}
