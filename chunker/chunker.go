package chunker

import (
	"strings"
	"unicode/utf8"
)

// boundaries lists the characters a window end may snap back to so that a
// chunk does not sever a sentence mid-word.
const boundaries = ".!?。！？\n"

// Split divides text into overlapping segments of at most chunkSize bytes.
// When a window ends before the end of the text, the cut point snaps back to
// the last sentence terminator or line break found past the midpoint of the
// window. Consecutive chunks overlap by overlap bytes. Chunks that are empty
// after trimming are dropped. The caller must ensure overlap < chunkSize,
// which guarantees each iteration advances.
func Split(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return nil
	}
	if overlap < 0 {
		overlap = 0
	}
	if len(text) <= chunkSize {
		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return []string{trimmed}
		}
		return nil
	}
	var chunks []string
	start := 0
	for start < len(text) {
		end := start + chunkSize
		if end >= len(text) {
			end = len(text)
		} else {
			end = snapToRuneStart(text, end)
			if cut := lastBoundary(text[start:end]); cut > (end-start)/2 {
				end = start + cut
			}
		}
		if chunk := strings.TrimSpace(text[start:end]); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(text) {
			break
		}
		next := end - overlap
		if next <= start {
			// Snapping never cuts before the window midpoint, but keep the
			// loop advancing even for degenerate size/overlap pairs.
			next = end
		}
		start = next
	}
	return chunks
}

// lastBoundary returns the byte offset just past the last boundary rune in
// window, or -1 when none is present.
func lastBoundary(window string) int {
	idx := strings.LastIndexAny(window, boundaries)
	if idx == -1 {
		return -1
	}
	_, size := utf8.DecodeRuneInString(window[idx:])
	return idx + size
}

// snapToRuneStart moves end back so that it does not split a multi-byte rune.
func snapToRuneStart(text string, end int) int {
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	return end
}
