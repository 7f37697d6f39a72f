package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/asteroid-belt/ccm/internal/models"
)

func sampleProviders() []models.Provider {
	return []models.Provider{
		{
			Name:        "openrouter",
			APIBaseURL:  "https://openrouter.ai/api/v1/chat/completions",
			APIKey:      "sk-or",
			Models:      []string{"anthropic/claude-sonnet-4", "google/gemini-2.5-pro"},
			Transformer: datatypes.JSON(`{"use":["openrouter"]}`),
		},
		{
			Name:       "deepseek",
			APIBaseURL: "https://api.deepseek.com/chat/completions",
			APIKey:     "sk-ds",
			Models:     []string{"deepseek-chat"},
		},
	}
}

func TestReplaceProviders_PreservesOrder(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.ReplaceProviders(sampleProviders()))

	got, err := db.ListProviders()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "openrouter", got[0].Name)
	assert.Equal(t, "deepseek", got[1].Name)
	assert.Equal(t, []string{"anthropic/claude-sonnet-4", "google/gemini-2.5-pro"}, got[0].Models)
	assert.JSONEq(t, `{"use":["openrouter"]}`, string(got[0].Transformer))
	assert.True(t, got[0].HasTransformer())
	assert.False(t, got[1].HasTransformer())

	require.NoError(t, db.ReplaceProviders(sampleProviders()[1:]))
	n, err := db.CountProviders()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestReplaceProviders_DuplicateNameRollsBack(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.ReplaceProviders(sampleProviders()))

	dup := []models.Provider{
		{Name: "same", APIBaseURL: "a", APIKey: "k", Models: []string{"m"}},
		{Name: "same", APIBaseURL: "b", APIKey: "k", Models: []string{"m"}},
	}
	err := db.ReplaceProviders(dup)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateName))

	got, err := db.ListProviders()
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "openrouter", got[0].Name)
}

func TestRouterSettings_Upsert(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.SetRouterSetting(models.RouterSettingAPIKey, "first"))
	require.NoError(t, db.SetRouterSetting(models.RouterSettingAPIKey, "second"))

	s, err := db.GetRouterSetting(models.RouterSettingAPIKey)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, "second", s.ConfigValue)

	all, err := db.ListRouterSettings()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{models.RouterSettingAPIKey: "second"}, all)

	deleted, err := db.DeleteRouterSetting(models.RouterSettingAPIKey)
	require.NoError(t, err)
	assert.True(t, deleted)

	s, err = db.GetRouterSetting(models.RouterSettingAPIKey)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestReplaceRouterConfig_NilDeletesSetting(t *testing.T) {
	db := testDB(t)

	require.NoError(t, db.SetRouterSetting(models.RouterSettingProxyURL, "http://127.0.0.1:7890"))

	err := db.ReplaceRouterConfig(sampleProviders(), map[string]*string{
		models.RouterSettingAPIKey:   strPtr("sk-router"),
		models.RouterSettingProxyURL: nil,
	})
	require.NoError(t, err)

	all, err := db.ListRouterSettings()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{models.RouterSettingAPIKey: "sk-router"}, all)

	n, err := db.CountProviders()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
