package sections

import (
	"regexp"
	"strings"
)

// Default chunking parameters: six sentences per window, two shared
// with the previous window.
const (
	DefaultWindowSentences  = 6
	DefaultOverlapSentences = 2
)

// Chunker splits extracted text into overlapping sentence windows.
type Chunker struct {
	window   int
	overlap  int
	splitter *regexp.Regexp
}

// NewChunker creates a Chunker with the given window and overlap sizes.
// Non-positive windows fall back to the default; the overlap is clamped
// below the window so consecutive windows always advance.
func NewChunker(window, overlap int) *Chunker {
	if window <= 0 {
		window = DefaultWindowSentences
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= window {
		overlap = window - 1
	}
	return &Chunker{
		window:   window,
		overlap:  overlap,
		splitter: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
	}
}

// Chunk splits text into sentence windows. Text without terminal
// punctuation becomes a single chunk. Blank text yields no chunks.
func (c *Chunker) Chunk(text string) []string {
	sentences := c.splitter.FindAllString(text, -1)
	if len(sentences) == 0 {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return nil
		}
		sentences = []string{trimmed}
	}

	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}

	var chunks []string
	i := 0
	for i < len(sentences) {
		end := i + c.window
		if end > len(sentences) {
			end = len(sentences)
		}

		chunks = append(chunks, strings.Join(sentences[i:end], " "))

		if end == len(sentences) {
			break
		}
		i = end - c.overlap
	}

	return chunks
}
