package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/ccm/internal/models"
)

func TestRouteConfigs_CRUD(t *testing.T) {
	db := testDB(t)

	created, err := db.CreateRouteConfig(models.CreateRouteConfigRequest{
		Name:         "users",
		Path:         "/api/users",
		Method:       "GET",
		Handler:      "listUsers",
		Middleware:   []string{"auth", "cors"},
		AuthRequired: true,
	})
	require.NoError(t, err)

	got, err := db.GetRouteConfig(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"auth", "cors"}, got.Middleware)
	assert.True(t, got.AuthRequired)

	off := false
	updated, err := db.UpdateRouteConfig(created.ID, models.UpdateRouteConfigRequest{AuthRequired: &off})
	require.NoError(t, err)
	assert.False(t, updated.AuthRequired)
	assert.Equal(t, "/api/users", updated.Path)

	_, err = db.UpdateRouteConfig("missing", models.UpdateRouteConfigRequest{})
	assert.True(t, errors.Is(err, ErrNotFound))

	routes, err := db.ListRouteConfigs()
	require.NoError(t, err)
	assert.Len(t, routes, 1)

	deleted, err := db.DeleteRouteConfig(created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestRouteConfig_NoMiddleware(t *testing.T) {
	db := testDB(t)

	created, err := db.CreateRouteConfig(models.CreateRouteConfigRequest{Name: "health", Path: "/health", Method: "GET", Handler: "health"})
	require.NoError(t, err)

	got, err := db.GetRouteConfig(created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Middleware)
	assert.False(t, got.AuthRequired)
}
