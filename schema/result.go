package schema

// Result represents a single retrieval match: a chunk of a stored document
// together with its similarity score and provenance.
type Result struct {
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
	Source   string  `json:"source"`
	Category string  `json:"category"`
	DocID    string  `json:"doc_id"`
	ChunkIdx int     `json:"chunk_idx"`
}
