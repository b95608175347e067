package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportTracker(t *testing.T) {
	tr := NewExportTracker()

	id, ok := tr.Begin("c1/course")
	require.True(t, ok)
	assert.NotEmpty(t, id)

	_, ok = tr.Begin("c1/course")
	assert.False(t, ok)
	running, ok := tr.Running("c1/course")
	assert.True(t, ok)
	assert.Equal(t, id, running)

	_, ok = tr.Begin("c1/print")
	assert.True(t, ok)

	tr.Done("c1/course")
	_, ok = tr.Begin("c1/course")
	assert.True(t, ok)
}

func TestFileStorage(t *testing.T) {
	s := NewFileStorage(t.TempDir())
	path := s.ExportPath("c1", "e1", ".svg")
	require.NoError(t, s.SaveFile("c1", path, []byte("<svg/>")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "<svg/>", string(data))

	dir, err := s.ImportDir("c1")
	require.NoError(t, err)
	assert.Equal(t, s.CourseDir("c1"), filepath.Dir(dir))

	require.NoError(t, s.RemoveCourse("c1"))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestRenderClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var job RenderJob
		if err := json.Unmarshal(body, &job); err != nil || r.URL.Path == "/render/tee-sign" && job.HoleIndex > 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"hole not found"}`))
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`))
	}))
	defer srv.Close()

	client := NewRenderClient(srv.URL + "/")
	data, ct, err := client.Render(context.Background(), "course", RenderJob{Course: json.RawMessage(`{}`)})
	require.NoError(t, err)
	assert.Equal(t, "image/svg+xml", ct)
	assert.Contains(t, string(data), "<svg")

	_, _, err = client.Render(context.Background(), "tee-sign", RenderJob{Course: json.RawMessage(`{}`), HoleIndex: 3})
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream))
	assert.Equal(t, http.StatusNotFound, upstream.Status)
	assert.Equal(t, "hole not found", upstream.Message)

	_, _, err = NewRenderClient("").Render(context.Background(), "course", RenderJob{})
	assert.Error(t, err)
}
