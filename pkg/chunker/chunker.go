// Package chunker splits extracted document text into bounded-size chunks,
// preferring paragraph boundaries and falling back to word boundaries.
package chunker

import "strings"

// DefaultMaxChunkSize is the chunk bound used when callers pass maxSize <= 0.
const DefaultMaxChunkSize = 3000

// Split partitions text into chunks of at most maxSize characters. Paragraphs
// (separated by blank lines) are kept together when they fit; a paragraph
// longer than maxSize is packed greedily word by word. A single word longer
// than maxSize is emitted as-is; no splitting below word granularity.
// Split is a pure function: identical inputs produce identical output.
func Split(text string, maxSize int) []string {
	if maxSize <= 0 {
		maxSize = DefaultMaxChunkSize
	}

	var chunks []string
	var current strings.Builder

	flush := func() {
		if trimmed := strings.TrimSpace(current.String()); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		current.Reset()
	}

	for _, paragraph := range strings.Split(text, "\n\n") {
		if current.Len()+len(paragraph) > maxSize {
			flush()

			if len(paragraph) > maxSize {
				for _, word := range strings.Split(paragraph, " ") {
					if current.Len()+len(word) > maxSize {
						flush()
					}
					current.WriteString(word)
					current.WriteString(" ")
				}
				continue
			}
		}
		current.WriteString(paragraph)
		current.WriteString("\n\n")
	}

	flush()
	return chunks
}
