package docstore

import (
	"fmt"
	"sort"
	"strings"
)

// Summary aggregates document and chunk counts per category.
type Summary struct {
	Categories     map[string][]*Document
	TotalDocuments int
	TotalChunks    int
}

// Summarize returns aggregate counts per category and per document. When
// category is non-empty only matching documents are included. Pure read.
func (s *Store) Summarize(category string) *Summary {
	ret := &Summary{
		Categories:     make(map[string][]*Document),
		TotalDocuments: len(s.documents),
		TotalChunks:    len(s.chunks),
	}
	for _, doc := range s.documents {
		if category != "" && doc.Category != category {
			continue
		}
		ret.Categories[doc.Category] = append(ret.Categories[doc.Category], doc)
	}
	for _, docs := range ret.Categories {
		sort.Slice(docs, func(a, b int) bool {
			return docs[a].UploadTime.Before(docs[b].UploadTime)
		})
	}
	return ret
}

// String renders the summary as readable text, listing up to five documents
// per category.
func (s *Summary) String() string {
	if s.TotalDocuments == 0 {
		return "no documents ingested"
	}
	builder := strings.Builder{}
	builder.WriteString("document library summary:\n\n")
	names := make([]string, 0, len(s.Categories))
	for name := range s.Categories {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		docs := s.Categories[name]
		fmt.Fprintf(&builder, "%v (%d documents):\n", name, len(docs))
		for i, doc := range docs {
			if i == 5 {
				fmt.Fprintf(&builder, "  ... %d more\n", len(docs)-5)
				break
			}
			fmt.Fprintf(&builder, "  - %v (%d chunks)\n", doc.Filename, doc.ChunkCount)
		}
		builder.WriteString("\n")
	}
	fmt.Fprintf(&builder, "total: %d documents, %d chunks", s.TotalDocuments, s.TotalChunks)
	return builder.String()
}
