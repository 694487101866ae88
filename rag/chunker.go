package rag

const (
	// ChunkSize and ChunkOverlap keep local context intact across chunk
	// boundaries for retrieval.
	ChunkSize    = 1000
	ChunkOverlap = 200
)

// SplitText cuts text into fixed-size character windows where each window
// shares overlap characters with its predecessor. Splitting is exact:
// dropping the first overlap characters of every chunk after the first
// reassembles the input.
func SplitText(text string, chunkSize, overlap int) []string {
	if text == "" || chunkSize <= 0 {
		return nil
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}

	runes := []rune(text)
	step := chunkSize - overlap

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}
