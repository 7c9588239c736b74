package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qres429/chatdoc-pro/internal/models"
	"github.com/qres429/chatdoc-pro/internal/testutil"
)

func createTestKey(t *testing.T, s *APIKeyStore, userID uuid.UUID, name string, active bool) *models.APIKey {
	t.Helper()
	key := &models.APIKey{
		UserID:   userID,
		Name:     name,
		Provider: "openai",
		Key:      "sk-" + name + "-0123456789",
		IsActive: active,
	}
	require.NoError(t, s.Create(key))
	return key
}

func TestActivate_DeactivatesSiblings(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := NewUserStore(db)
	keys := NewAPIKeyStore(db)

	owner := createTestUser(t, users, "owner")
	a := createTestKey(t, keys, owner.ID, "a", true)
	b := createTestKey(t, keys, owner.ID, "b", false)

	require.NoError(t, keys.Activate(owner.ID, b.ID))

	list, err := keys.ListByUser(owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byID := map[uuid.UUID]models.APIKey{list[0].ID: list[0], list[1].ID: list[1]}
	assert.False(t, byID[a.ID].IsActive)
	assert.True(t, byID[b.ID].IsActive)
}

func TestActivate_ScopedToUser(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := NewUserStore(db)
	keys := NewAPIKeyStore(db)

	owner := createTestUser(t, users, "owner")
	other := createTestUser(t, users, "other")

	ownerKey := createTestKey(t, keys, owner.ID, "owner-key", true)
	otherKey := createTestKey(t, keys, other.ID, "other-key", true)

	// Activating in one account must not touch another account's keys.
	require.NoError(t, keys.Activate(owner.ID, ownerKey.ID))

	active, err := keys.GetActive(other.ID)
	require.NoError(t, err)
	assert.Equal(t, otherKey.ID, active.ID)

	// Activating a foreign key fails and changes nothing.
	assert.ErrorIs(t, keys.Activate(owner.ID, otherKey.ID), ErrNotFound)
}

func TestGetActive_NoneConfigured(t *testing.T) {
	db := testutil.OpenTestDB(t)
	users := NewUserStore(db)
	keys := NewAPIKeyStore(db)

	owner := createTestUser(t, users, "owner")
	createTestKey(t, keys, owner.ID, "inactive", false)

	_, err := keys.GetActive(owner.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMaskedKey(t *testing.T) {
	key := models.APIKey{Key: "sk-abcdef0123456789"}
	assert.Equal(t, "sk-abcde****", key.MaskedKey())

	short := models.APIKey{Key: "sk-ab"}
	assert.Equal(t, "sk-ab", short.MaskedKey())
}
