package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCreateAndGetProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	id, err := s.CreateProject(ctx, Project{Name: "todo-app", Description: "demo"})
	require.NoError(t, err)
	require.Positive(t, id)

	project, err := s.GetProject(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "todo-app", project.Name)
	assert.Equal(t, "demo", project.Description)
	assert.False(t, project.CreatedAt.IsZero())
}

func TestGetProjectMissing(t *testing.T) {
	s := newTestStorage(t)
	_, err := s.GetProject(context.Background(), 404)
	require.Error(t, err)
}

func TestVersionNumberingPerProject(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	first, err := s.CreateProject(ctx, Project{Name: "one"})
	require.NoError(t, err)
	second, err := s.CreateProject(ctx, Project{Name: "two"})
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		count, err := s.CountVersions(ctx, first)
		require.NoError(t, err)
		require.NoError(t, s.SaveVersion(ctx, Version{
			ProjectID: first,
			Number:    count + 1,
			Changes:   "AI-generated app based on input: build a todo app...",
		}))
	}

	count, err := s.CountVersions(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Numbering is independent across projects.
	count, err = s.CountVersions(ctx, second)
	require.NoError(t, err)
	assert.Zero(t, count)

	versions, err := s.VersionsByProject(ctx, first)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	for i, v := range versions {
		assert.Equal(t, i+1, v.Number)
		assert.Equal(t, first, v.ProjectID)
		assert.False(t, v.CreatedAt.IsZero())
	}

	versions, err = s.VersionsByProject(ctx, second)
	require.NoError(t, err)
	assert.Empty(t, versions)
}
