package services

import (
	"strings"
	"unicode/utf8"
)

const (
	defaultChunkSize    = 1000
	defaultChunkOverlap = 100
)

type TextChunker interface {
	ChunkText(text string, maxChunkSize int, overlap int) []string
}

type textChunker struct{}

func NewTextChunker() TextChunker {
	return &textChunker{}
}

// ChunkText splits extracted text into pieces of at most maxChunkSize
// characters. Pages and lines are kept whole where they fit; each new chunk
// repeats the last overlap characters of the previous one.
func (tc *textChunker) ChunkText(text string, maxChunkSize int, overlap int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = defaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= maxChunkSize {
		overlap = maxChunkSize / 4
	}

	var chunks []string
	var current strings.Builder
	currentLen := 0
	hasNew := false

	for _, piece := range chunkPieces(text, maxChunkSize) {
		pieceLen := utf8.RuneCountInString(piece)

		if hasNew && currentLen+pieceLen+1 > maxChunkSize {
			chunk := current.String()
			chunks = append(chunks, chunk)
			current.Reset()
			currentLen = 0
			hasNew = false

			if tail := lastRunes(chunk, overlap); tail != "" && utf8.RuneCountInString(tail)+pieceLen+1 <= maxChunkSize {
				current.WriteString(tail)
				currentLen = utf8.RuneCountInString(tail)
			}
		}

		if currentLen > 0 {
			current.WriteString("\n")
			currentLen++
		}
		current.WriteString(piece)
		currentLen += pieceLen
		hasNew = true
	}

	if hasNew {
		chunks = append(chunks, current.String())
	}

	return chunks
}

// chunkPieces yields the non-blank lines of text, hard-splitting any line
// longer than limit.
func chunkPieces(text string, limit int) []string {
	var pieces []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		runes := []rune(line)
		for len(runes) > limit {
			pieces = append(pieces, string(runes[:limit]))
			runes = runes[limit:]
		}
		pieces = append(pieces, string(runes))
	}
	return pieces
}

func lastRunes(text string, n int) string {
	if n <= 0 {
		return ""
	}

	runes := []rune(text)
	if len(runes) <= n {
		return text
	}

	return string(runes[len(runes)-n:])
}
