package tts

import (
	"strings"
	"unicode"
)

// SplitText breaks text into chunks of at most limit runes. Chunks end on
// sentence punctuation or whitespace where possible; a single word longer
// than limit is cut.
func SplitText(text string, limit int) []string {
	text = strings.Join(strings.Fields(text), " ")
	if text == "" {
		return nil
	}
	if limit <= 0 || len([]rune(text)) <= limit {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > 0 {
		if len(runes) <= limit {
			chunks = appendChunk(chunks, runes)
			break
		}
		cut := bestCut(runes[:limit+1])
		if cut <= 0 {
			cut = limit
		}
		chunks = appendChunk(chunks, runes[:cut])
		runes = []rune(strings.TrimLeftFunc(string(runes[cut:]), unicode.IsSpace))
	}
	return chunks
}

// bestCut returns the index just after the last sentence mark, else the last
// space, within window.
func bestCut(window []rune) int {
	space := -1
	for i := len(window) - 1; i > 0; i-- {
		switch window[i] {
		case '.', '!', '?', ';', ':', ',':
			if i+1 < len(window) {
				return i + 1
			}
		case ' ':
			if space < 0 {
				space = i
			}
		}
	}
	return space
}

func appendChunk(chunks []string, runes []rune) []string {
	if chunk := strings.TrimSpace(string(runes)); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}
