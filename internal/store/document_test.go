package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qres429/chatdoc-pro/internal/models"
	"github.com/qres429/chatdoc-pro/internal/testutil"
)

func createTestDocument(t *testing.T, s *DocumentStore, userID uuid.UUID, name, content string) *models.Document {
	t.Helper()
	doc := &models.Document{
		UserID:   userID,
		Name:     name,
		FileType: "txt",
		Content:  content,
	}
	require.NoError(t, s.Create(doc))
	return doc
}

func TestFetchByIDs_PreservesRequestOrder(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := NewUserStore(db)
	docs := NewDocumentStore(db)

	owner := createTestUser(t, users, "owner")
	a := createTestDocument(t, docs, owner.ID, "a.txt", "alpha")
	b := createTestDocument(t, docs, owner.ID, "b.txt", "beta")
	c := createTestDocument(t, docs, owner.ID, "c.txt", "gamma")

	got, err := docs.FetchByIDs(owner.ID, []uuid.UUID{c.ID, a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "c.txt", got[0].Name)
	assert.Equal(t, "a.txt", got[1].Name)
	assert.Equal(t, "b.txt", got[2].Name)
}

func TestFetchByIDs_SkipsForeignAndUnknownIDs(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := NewUserStore(db)
	docs := NewDocumentStore(db)

	owner := createTestUser(t, users, "owner")
	other := createTestUser(t, users, "other")

	mine := createTestDocument(t, docs, owner.ID, "mine.txt", "x")
	theirs := createTestDocument(t, docs, other.ID, "theirs.txt", "y")

	got, err := docs.FetchByIDs(owner.ID, []uuid.UUID{theirs.ID, uuid.New(), mine.ID})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	got, err = docs.FetchByIDs(owner.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestListByUser_Pagination(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := NewUserStore(db)
	docs := NewDocumentStore(db)

	owner := createTestUser(t, users, "owner")
	for _, name := range []string{"1.txt", "2.txt", "3.txt"} {
		createTestDocument(t, docs, owner.ID, name, "content")
	}

	page, total, err := docs.ListByUser(owner.ID, 0, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 2)

	page, total, err = docs.ListByUser(owner.ID, 2, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, page, 1)
}

func TestDocumentDelete(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := NewUserStore(db)
	docs := NewDocumentStore(db)

	owner := createTestUser(t, users, "owner")
	other := createTestUser(t, users, "other")
	doc := createTestDocument(t, docs, owner.ID, "doc.txt", "x")

	assert.ErrorIs(t, docs.Delete(other.ID, doc.ID), ErrNotFound)
	require.NoError(t, docs.Delete(owner.ID, doc.ID))
	assert.ErrorIs(t, docs.Delete(owner.ID, doc.ID), ErrNotFound)
}
