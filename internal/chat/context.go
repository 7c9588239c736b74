package chat

import (
	"strings"

	"github.com/qres429/chatdoc-pro/internal/models"
)

// contextCharLimit caps how much of each document is quoted into the
// prompt. The cut is a raw character truncation, not sentence-aware.
const contextCharLimit = 1000

const systemPrompt = "You are a document analysis assistant. Help the user understand the referenced documents and answer their questions."

// BuildContext concatenates one excerpt block per document, in input
// order, joined by blank lines. It is deterministic: the same documents in
// the same order always produce the same text. No deduplication or ranking
// is applied.
func BuildContext(docs []models.Document) string {
	if len(docs) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(docs))
	for _, d := range docs {
		blocks = append(blocks, "Document: "+d.Name+"\n"+truncate(d.Content, contextCharLimit))
	}
	return strings.Join(blocks, "\n\n")
}

// buildSystemPrompt appends the assembled document context to the base
// system prompt when any context is present.
func buildSystemPrompt(docContext string) string {
	if docContext == "" {
		return systemPrompt
	}
	return systemPrompt + "\n\nReference document content:\n" + docContext
}

// truncate cuts s to at most limit characters (runes, not bytes).
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
