package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asteroid-belt/ccm/internal/models"
)

func projectReq(name, path string) models.CreateProjectRequest {
	return models.CreateProjectRequest{
		Name:        name,
		Path:        path,
		Category:    "code",
		Frameworks:  []string{"node", "react"},
		ProjectType: "node",
	}
}

func TestCreateProject(t *testing.T) {
	db := testDB(t)

	created, err := db.CreateProject(projectReq("web", "/code/web"))
	require.NoError(t, err)
	assert.Equal(t, created.CreatedAt, created.ScanTime)

	got, err := db.GetProject(created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, []string{"node", "react"}, got.Frameworks)

	_, err = db.CreateProject(projectReq("again", "/code/web"))
	assert.True(t, errors.Is(err, ErrDuplicateName))
}

func TestBulkCreateProjects_AllOrNothing(t *testing.T) {
	db := testDB(t)

	_, err := db.BulkCreateProjects([]models.CreateProjectRequest{
		projectReq("a", "/code/a"),
		projectReq("b", "/code/b"),
		projectReq("a-again", "/code/a"),
	})
	require.Error(t, err)

	projects, err := db.ListProjects()
	require.NoError(t, err)
	assert.Empty(t, projects)

	created, err := db.BulkCreateProjects([]models.CreateProjectRequest{
		projectReq("b", "/code/b"),
		projectReq("a", "/code/a"),
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)

	projects, err = db.ListProjects()
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "a", projects[0].Name)

	paths, err := db.ProjectPaths()
	require.NoError(t, err)
	assert.True(t, paths["/code/a"])
	assert.True(t, paths["/code/b"])
}

func TestUpdateProject(t *testing.T) {
	db := testDB(t)

	created, err := db.CreateProject(projectReq("web", "/code/web"))
	require.NoError(t, err)

	fw := []string{"go"}
	updated, err := db.UpdateProject(created.ID, models.UpdateProjectRequest{Frameworks: &fw})
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, updated.Frameworks)
	assert.Equal(t, created.ScanTime, updated.ScanTime)

	_, err = db.UpdateProject("missing", models.UpdateProjectRequest{})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListProjectsByCategoryAndClear(t *testing.T) {
	db := testDB(t)

	other := projectReq("other", "/misc/other")
	other.Category = "misc"
	_, err := db.BulkCreateProjects([]models.CreateProjectRequest{projectReq("web", "/code/web"), other})
	require.NoError(t, err)

	code, err := db.ListProjectsByCategory("code")
	require.NoError(t, err)
	require.Len(t, code, 1)
	assert.Equal(t, "web", code[0].Name)

	n, err := db.ClearProjects()
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCategories(t *testing.T) {
	db := testDB(t)

	_, err := db.CreateCategory("code")
	require.NoError(t, err)

	_, err = db.CreateCategory("code")
	assert.True(t, errors.Is(err, ErrDuplicateName))

	_, err = db.CreateCategory("archive")
	require.NoError(t, err)

	cats, err := db.ListCategories()
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "archive", cats[0].Name)

	require.NoError(t, db.DeleteCategory("code"))
	assert.True(t, errors.Is(db.DeleteCategory("code"), ErrNotFound))
}
