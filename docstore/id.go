package docstore

import (
	"encoding/hex"

	"github.com/minio/highwayhash"
)

var hashKey = []byte("0123456789ABCDEF0123456789ABCDEF")

// Identifier derives a stable document identifier from content and title.
// Identical content and title pairs always produce the same identifier, which
// is how re-ingestion is detected.
func Identifier(content, title string) string {
	h, err := highwayhash.New128(hashKey)
	if err != nil {
		// the key is a compile-time constant of the required length
		panic(err)
	}
	_, _ = h.Write([]byte(content))
	_, _ = h.Write([]byte(title))
	sum := h.Sum(nil)
	return "doc_" + hex.EncodeToString(sum)[:12]
}
