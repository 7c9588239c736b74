package chat

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/qres429/chatdoc-pro/internal/models"
)

func TestBuildContext_Empty(t *testing.T) {
	assert.Equal(t, "", BuildContext(nil))
	assert.Equal(t, "", BuildContext([]models.Document{}))
}

func TestBuildContext_BlockFormatAndOrder(t *testing.T) {
	docs := []models.Document{
		{Name: "b.txt", Content: "beta content"},
		{Name: "a.txt", Content: "alpha content"},
	}

	got := BuildContext(docs)
	want := "Document: b.txt\nbeta content\n\nDocument: a.txt\nalpha content"
	assert.Equal(t, want, got)
}

func TestBuildContext_Deterministic(t *testing.T) {
	docs := []models.Document{
		{Name: "one.txt", Content: strings.Repeat("x", 500)},
		{Name: "two.txt", Content: "short"},
	}

	first := BuildContext(docs)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, BuildContext(docs))
	}
}

func TestBuildContext_TruncatesContentAt1000Chars(t *testing.T) {
	long := strings.Repeat("a", 2500)
	got := BuildContext([]models.Document{{Name: "big.txt", Content: long}})

	assert.Equal(t, "Document: big.txt\n"+strings.Repeat("a", 1000), got)
}

func TestBuildContext_TruncationCountsRunesNotBytes(t *testing.T) {
	long := strings.Repeat("世", 1500)
	got := BuildContext([]models.Document{{Name: "cjk.txt", Content: long}})

	assert.Equal(t, "Document: cjk.txt\n"+strings.Repeat("世", 1000), got)
}

func TestBuildSystemPrompt(t *testing.T) {
	assert.Equal(t, systemPrompt, buildSystemPrompt(""))

	withContext := buildSystemPrompt("Document: a.txt\nalpha")
	assert.Contains(t, withContext, systemPrompt)
	assert.Contains(t, withContext, "Reference document content:\nDocument: a.txt\nalpha")
}
