package chunk

import (
	"strings"
	"unicode"
)

// splitFixed slides a window of size characters with step size-overlap.
// When a window does not end at end-of-text, the boundary is retracted to the
// last whitespace at or before the window end so words are never split.
// Chunk ids are content hashes.
func splitFixed(text string, size, overlap int) []Chunk {
	runes := []rune(text)
	var chunks []Chunk
	start := 0
	num := 0

	for start < len(runes) {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		} else {
			// Retract to the last whitespace inside the window to avoid
			// splitting mid-word. A window with no whitespace is kept whole.
			if ws := lastSpace(runes[start:end]); ws > 0 {
				end = start + ws
			}
		}

		chunkText := strings.TrimSpace(string(runes[start:end]))
		if chunkText != "" {
			chunks = append(chunks, Chunk{
				ID:   contentID(chunkText),
				Text: chunkText,
				Num:  num,
			})
			num++
		}

		next := end - overlap
		if next >= len(runes) {
			break
		}
		if next <= start {
			// Overlap retraction made no forward progress; step past the
			// window end instead of looping.
			next = end
			if next <= start {
				next = start + 1
			}
		}
		start = next
	}

	return chunks
}

// lastSpace returns the index of the last whitespace rune in window, or -1.
func lastSpace(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}
	return -1
}
