package chunk

import "strings"

// splitSentenceGrouped groups size consecutive sentences per chunk, advancing
// by size-overlap sentences per step so overlap sentences repeat at each
// boundary. Chunk ids hash the window start index and the chunk's leading
// characters.
func splitSentenceGrouped(text string, size, overlap int) []Chunk {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	step := size - overlap
	if step <= 0 {
		step = 1
	}

	var chunks []Chunk
	for start := 0; start < len(sentences); start += step {
		end := start + size
		if end > len(sentences) {
			end = len(sentences)
		}

		chunkText := strings.TrimSpace(strings.Join(sentences[start:end], " "))
		if chunkText != "" {
			chunks = append(chunks, Chunk{
				ID:   positionalID(start, chunkText),
				Text: chunkText,
				Num:  len(chunks),
			})
		}

		// The final window reaches end-of-text; later windows would only
		// repeat already-covered sentences.
		if end == len(sentences) {
			break
		}
	}

	return chunks
}
