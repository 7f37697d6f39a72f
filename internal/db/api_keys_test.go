package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/ccm/internal/models"
)

func TestCreateAPIKey_ThenList(t *testing.T) {
	db := testDB(t)

	req := models.CreateAPIKeyRequest{
		Name:        "work",
		Token:       "sk-ant-123",
		Description: strPtr("team key"),
		BaseURL:     strPtr("https://proxy.example.com"),
	}
	created, err := db.CreateAPIKey(req)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.True(t, created.IsActive)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	keys, err := db.ListAPIKeys()
	require.NoError(t, err)
	require.Len(t, keys, 1)
	assert.Equal(t, req.Name, keys[0].Name)
	assert.Equal(t, req.Token, keys[0].Token)
	assert.Equal(t, "team key", *keys[0].Description)
	assert.Equal(t, "https://proxy.example.com", *keys[0].BaseURL)
	assert.Equal(t, *created, keys[0])
}

func TestCreateAPIKey_SameNameAllowed(t *testing.T) {
	db := testDB(t)

	_, err := db.CreateAPIKey(models.CreateAPIKeyRequest{Name: "dup", Token: "a"})
	require.NoError(t, err)
	_, err = db.CreateAPIKey(models.CreateAPIKeyRequest{Name: "dup", Token: "b"})
	require.NoError(t, err)

	keys, err := db.ListAPIKeys()
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}

func TestUpdateAPIKey_Partial(t *testing.T) {
	db := testDB(t)

	created, err := db.CreateAPIKey(models.CreateAPIKeyRequest{
		Name:    "before",
		Token:   "sk-keep",
		BaseURL: strPtr("https://keep.example.com"),
	})
	require.NoError(t, err)

	updated, err := db.UpdateAPIKey(created.ID, models.UpdateAPIKeyRequest{Name: strPtr("after")})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Name)
	assert.Equal(t, "sk-keep", updated.Token)
	assert.Equal(t, "https://keep.example.com", *updated.BaseURL)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	assert.Greater(t, updated.UpdatedAt, created.UpdatedAt)

	stored, err := db.GetAPIKey(created.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *stored)
}

func TestUpdateAPIKey_NotFound(t *testing.T) {
	db := testDB(t)

	_, err := db.UpdateAPIKey("missing", models.UpdateAPIKeyRequest{Name: strPtr("x")})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = db.ToggleAPIKeyActive("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListAPIKeys_ActiveFirstThenNewest(t *testing.T) {
	db := testDB(t)

	oldest, err := db.CreateAPIKey(models.CreateAPIKeyRequest{Name: "oldest", Token: "1"})
	require.NoError(t, err)
	middle, err := db.CreateAPIKey(models.CreateAPIKeyRequest{Name: "middle", Token: "2"})
	require.NoError(t, err)
	newest, err := db.CreateAPIKey(models.CreateAPIKeyRequest{Name: "newest", Token: "3"})
	require.NoError(t, err)

	toggled, err := db.ToggleAPIKeyActive(newest.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsActive)

	keys, err := db.ListAPIKeys()
	require.NoError(t, err)
	require.Len(t, keys, 3)
	assert.Equal(t, middle.ID, keys[0].ID)
	assert.Equal(t, oldest.ID, keys[1].ID)
	assert.Equal(t, newest.ID, keys[2].ID)

	again, err := db.ToggleAPIKeyActive(newest.ID)
	require.NoError(t, err)
	assert.True(t, again.IsActive)
}

func TestDeleteAPIKey(t *testing.T) {
	db := testDB(t)

	created, err := db.CreateAPIKey(models.CreateAPIKeyRequest{Name: "gone", Token: "sk"})
	require.NoError(t, err)

	deleted, err := db.DeleteAPIKey(created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = db.DeleteAPIKey(created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	key, err := db.GetAPIKey(created.ID)
	require.NoError(t, err)
	assert.Nil(t, key)
}

func TestListAPIKeyConfigItems(t *testing.T) {
	db := testDB(t)

	_, err := db.CreateAPIKey(models.CreateAPIKeyRequest{Name: "k", Token: "sk-item", BaseURL: strPtr("https://b")})
	require.NoError(t, err)

	items, err := db.ListAPIKeyConfigItems()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "sk-item", items[0].Data.APIKey)
	assert.Equal(t, "https://b", *items[0].Data.BaseURL)
	assert.True(t, items[0].IsActive)
}
