package repository

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursemap/internal/library/models"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "library.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := New(db)
	require.NoError(t, repo.Init(context.Background(), ""))
	return repo
}

func TestCourseCRUD(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	c := &models.CourseRecord{ID: "c1", Name: "Riverside", HoleCount: 9, TotalPar: 27, Data: []byte(`{"id":"c1"}`)}
	require.NoError(t, repo.CreateCourse(ctx, c))
	assert.False(t, c.CreatedAt.IsZero())

	got, err := repo.GetCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "Riverside", got.Name)
	assert.Equal(t, 27, got.TotalPar)
	assert.JSONEq(t, `{"id":"c1"}`, string(got.Data))
	assert.Equal(t, c.CreatedAt.Unix(), got.CreatedAt.Unix())

	got.Name = "Riverside DGC"
	require.NoError(t, repo.UpdateCourse(ctx, got))

	list, err := repo.ListCourses(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Riverside DGC", list[0].Name)
	assert.Nil(t, list[0].Data)

	_, err = repo.DeleteCourse(ctx, "c1")
	require.NoError(t, err)
	_, err = repo.GetCourse(ctx, "c1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMissingRowsAreNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, err := repo.GetCourse(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.GetExport(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.UpdateCourse(ctx, &models.CourseRecord{ID: "nope"}), ErrNotFound)
	_, err = repo.DeleteCourse(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExportsFollowCourse(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	require.NoError(t, repo.CreateCourse(ctx, &models.CourseRecord{ID: "c1", Name: "A", Data: []byte(`{}`)}))

	for i, kind := range []models.ExportKind{models.ExportCourse, models.ExportTeeSign} {
		require.NoError(t, repo.CreateExport(ctx, &models.ExportRecord{
			ID: kind.Ext() + string(kind), CourseID: "c1", Kind: kind, HoleIndex: i,
			Path: "/tmp/x" + kind.Ext(), ContentType: "image/svg+xml", Size: 10,
			Summary: []byte(`{"width":800}`),
		}))
	}

	list, err := repo.ListExports(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, models.ExportTeeSign, list[1].Kind)
	assert.Equal(t, 1, list[1].HoleIndex)

	e, err := repo.GetExport(ctx, list[0].ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"width":800}`, string(e.Summary))

	removed, err := repo.DeleteCourse(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	list, err = repo.ListExports(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
