package chunk

import "strings"

// splitSemantic accumulates paragraphs into a running buffer. When adding the
// next paragraph would exceed size characters and the buffer is non-empty, the
// buffer is emitted and the new buffer is seeded with the last one or two
// sentences of the emitted chunk followed by the paragraph that triggered the
// cutover. The final non-empty buffer is always emitted regardless of size.
// Chunk ids hash the chunk ordinal and the chunk's leading characters.
func splitSemantic(text string, size int) []Chunk {
	paragraphs := strings.Split(text, "\n\n")

	var chunks []Chunk
	var current string

	emit := func() {
		chunkText := strings.TrimSpace(current)
		if chunkText == "" {
			return
		}
		chunks = append(chunks, Chunk{
			ID:   positionalID(len(chunks), chunkText),
			Text: chunkText,
			Num:  len(chunks),
		})
	}

	for _, para := range paragraphs {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		if current != "" && len(current)+len(para) > size {
			emitted := strings.TrimSpace(current)
			emit()

			// Continuity overlap: seed the next buffer with the trailing
			// sentences of the emitted chunk.
			current = overlapTail(emitted) + "\n\n" + para
			continue
		}

		if current == "" {
			current = para
		} else {
			current += "\n\n" + para
		}
	}

	emit()
	return chunks
}

// overlapTail returns the last two sentences of text, or the last one when
// text holds a single sentence.
func overlapTail(text string) string {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return text
	}
	if len(sentences) == 1 {
		return sentences[0]
	}
	return strings.Join(sentences[len(sentences)-2:], " ")
}
