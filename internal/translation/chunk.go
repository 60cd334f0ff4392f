package translation

import "strings"

// chunkRunes caps the text sent in a single model request.
const chunkRunes = 4500

// chunkText splits text into pieces of at most limit runes, preferring
// paragraph boundaries. A single paragraph longer than the limit is
// hard-split on rune boundaries.
func chunkText(text string, limit int) []string {
	if limit <= 0 {
		limit = chunkRunes
	}

	paragraphs := strings.Split(text, "\n\n")

	var chunks []string
	var current strings.Builder
	currentLen := 0

	flush := func() {
		if currentLen > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentLen = 0
		}
	}

	for _, para := range paragraphs {
		runes := []rune(para)

		if len(runes) > limit {
			flush()
			for start := 0; start < len(runes); start += limit {
				end := min(start+limit, len(runes))
				chunks = append(chunks, string(runes[start:end]))
			}
			continue
		}

		// +2 for the paragraph separator rejoined on output.
		if currentLen > 0 && currentLen+len(runes)+2 > limit {
			flush()
		}
		if currentLen > 0 {
			current.WriteString("\n\n")
			currentLen += 2
		}
		current.WriteString(para)
		currentLen += len(runes)
	}
	flush()

	return chunks
}
