package chunk

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "runs of spaces and tabs",
			input: "hello   world\tagain",
			want:  "hello world again",
		},
		{
			name:  "single newlines become spaces",
			input: "line one\nline two",
			want:  "line one line two",
		},
		{
			name:  "paragraph boundaries survive",
			input: "para one\n\n\npara   two",
			want:  "para one\n\npara two",
		},
		{
			name:  "leading and trailing whitespace",
			input: "  trimmed  ",
			want:  "trimmed",
		},
		{
			name:  "empty input",
			input: "",
			want:  "",
		},
		{
			name:  "whitespace only",
			input: " \n\t \n ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	input := "  a   b\n\nc\td  "
	once := Normalize(input)
	assert.Equal(t, once, Normalize(once))
}

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "periods",
			input: "A. B. C. D.",
			want:  []string{"A.", "B.", "C.", "D."},
		},
		{
			name:  "mixed punctuation",
			input: "Really?! Yes. Go now!",
			want:  []string{"Really?!", "Yes.", "Go now!"},
		},
		{
			name:  "trailing fragment without punctuation",
			input: "First sentence. second without end",
			want:  []string{"First sentence.", "second without end"},
		},
		{
			name:  "single sentence",
			input: "Only one.",
			want:  []string{"Only one."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSentences(tt.input))
		})
	}
}

func TestSplit_EmptyInput(t *testing.T) {
	for _, strategy := range []Strategy{StrategyFixed, StrategySentence, StrategySemantic} {
		t.Run(string(strategy), func(t *testing.T) {
			s := NewSplitter(strategy, 100, 10)
			assert.Empty(t, s.Split(""))
			assert.Empty(t, s.Split("   \n\t  "))
		})
	}
}

func TestSplitFixed_NeverSplitsMidWord(t *testing.T) {
	text := Normalize(strings.Repeat("alpha beta gamma delta epsilon ", 40))
	s := NewSplitter(StrategyFixed, 64, 16)

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)

	// The end boundary retracts to whitespace, so the last word of every
	// chunk is always complete. Chunk starts may land mid-word because the
	// overlap steps back by raw character count.
	for _, c := range chunks {
		fields := strings.Fields(c.Text)
		require.NotEmpty(t, fields)
		last := fields[len(fields)-1]
		assert.Contains(t, []string{"alpha", "beta", "gamma", "delta", "epsilon"}, last,
			"chunk end boundary split a word: %q", last)
	}
}

func TestSplitFixed_ContentHashIDs(t *testing.T) {
	// Identical content must produce identical ids wherever it appears.
	a := splitFixed("same content here", 100, 10)
	b := splitFixed("same content here", 100, 10)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].ID, b[0].ID)

	c := splitFixed("different content here", 100, 10)
	require.Len(t, c, 1)
	assert.NotEqual(t, a[0].ID, c[0].ID)
}

func TestSplitFixed_Coverage(t *testing.T) {
	text := Normalize(strings.Repeat("the quick brown fox jumps over the lazy dog. ", 30))
	s := NewSplitter(StrategyFixed, 80, 20)

	chunks := s.Split(text)
	require.NotEmpty(t, chunks)

	// Every word of the normalized input appears in at least one chunk.
	joined := " " + strings.Join(chunkTexts(chunks), " ") + " "
	for _, word := range strings.Fields(text) {
		assert.Contains(t, joined, " "+word+" ")
	}
}

func TestSplitFixed_NoOverlapProgress(t *testing.T) {
	// A window with no internal whitespace must still advance.
	text := strings.Repeat("x", 50)
	chunks := splitFixed(text, 10, 5)
	require.NotEmpty(t, chunks)
	assert.Equal(t, strings.Repeat("x", 10), chunks[0].Text)
}

func TestSplitSentenceGrouped_WindowOrder(t *testing.T) {
	chunks := splitSentenceGrouped("A. B. C. D.", 2, 1)

	require.Len(t, chunks, 3)
	assert.Equal(t, "A. B.", chunks[0].Text)
	assert.Equal(t, "B. C.", chunks[1].Text)
	assert.Equal(t, "C. D.", chunks[2].Text)
}

func TestSplitSentenceGrouped_NoOverlap(t *testing.T) {
	chunks := splitSentenceGrouped("A. B. C. D.", 2, 0)

	require.Len(t, chunks, 2)
	assert.Equal(t, "A. B.", chunks[0].Text)
	assert.Equal(t, "C. D.", chunks[1].Text)
}

func TestSplitSentenceGrouped_FewerSentencesThanSize(t *testing.T) {
	chunks := splitSentenceGrouped("Only one sentence here.", 5, 1)

	require.Len(t, chunks, 1)
	assert.Equal(t, "Only one sentence here.", chunks[0].Text)
}

func TestSplitSemantic_ParagraphCutover(t *testing.T) {
	text := Normalize("Paragraph one.\n\nParagraph two is longer and contains more detail about the topic at hand.")
	chunks := splitSemantic(text, 40)

	require.GreaterOrEqual(t, len(chunks), 2)

	// The first chunk ends exactly where the size threshold is first exceeded.
	assert.Equal(t, "Paragraph one.", chunks[0].Text)

	// The second chunk begins with the overlap sentence from the first.
	assert.True(t, strings.HasPrefix(chunks[1].Text, "Paragraph one."),
		"second chunk must start with the continuity overlap, got %q", chunks[1].Text)
	assert.Contains(t, chunks[1].Text, "Paragraph two")
}

func TestSplitSemantic_SingleSmallParagraph(t *testing.T) {
	chunks := splitSemantic("Small paragraph.", 512)

	require.Len(t, chunks, 1)
	assert.Equal(t, "Small paragraph.", chunks[0].Text)
}

func TestSplitSemantic_FinalBufferAlwaysEmitted(t *testing.T) {
	// The last buffer is emitted even when it exceeds the size threshold.
	long := strings.Repeat("Tail sentence with many words. ", 10)
	text := Normalize("Lead paragraph.\n\n" + long)

	chunks := splitSemantic(text, 30)
	require.GreaterOrEqual(t, len(chunks), 2)
	assert.Contains(t, chunks[len(chunks)-1].Text, "Tail sentence")
}

func TestSplitSemantic_OverlapUsesLastTwoSentences(t *testing.T) {
	text := Normalize("First point made. Second point made. Third point made.\n\nNext paragraph with enough length to trigger a cutover for sure.")
	chunks := splitSemantic(text, 60)

	require.GreaterOrEqual(t, len(chunks), 2)
	assert.True(t, strings.HasPrefix(chunks[1].Text, "Second point made. Third point made."),
		"overlap should carry the last two sentences, got %q", chunks[1].Text)
}

func TestSplit_ChunkNumsContiguous(t *testing.T) {
	text := Normalize(strings.Repeat("One sentence here. Another sentence there.\n\n", 20))

	tests := []struct {
		name     string
		strategy Strategy
		size     int
		overlap  int
	}{
		{"fixed", StrategyFixed, 64, 16},
		{"sentence", StrategySentence, 3, 1},
		{"semantic", StrategySemantic, 80, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := NewSplitter(tt.strategy, tt.size, tt.overlap).Split(text)
			require.NotEmpty(t, chunks)
			for i, c := range chunks {
				assert.Equal(t, i, c.Num)
				assert.NotEmpty(t, c.ID)
				assert.NotEmpty(t, c.Text)
			}
		})
	}
}

func TestNewSplitter_Defaults(t *testing.T) {
	s := NewSplitter(StrategySemantic, 0, -1)
	assert.Equal(t, DefaultSize, s.size)
	assert.Equal(t, DefaultOverlap, s.overlap)
}

func chunkTexts(chunks []Chunk) []string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return texts
}
