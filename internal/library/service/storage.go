package service

import (
	"fmt"
	"os"
	"path/filepath"
)

// ============================================================
// File Storage
// ============================================================

// FileStorage держит файлы экспортов: <root>/<courseID>/<exportID><ext>.
type FileStorage struct {
	root string
}

func NewFileStorage(root string) *FileStorage {
	return &FileStorage{root: root}
}

func (s *FileStorage) CourseDir(courseID string) string {
	return filepath.Join(s.root, courseID)
}

func (s *FileStorage) ExportPath(courseID, exportID, ext string) string {
	return filepath.Join(s.CourseDir(courseID), exportID+ext)
}

// ImportDir: временный каталог для загруженных шейп-файлов.
func (s *FileStorage) ImportDir(courseID string) (string, error) {
	if err := s.EnsureDir(courseID); err != nil {
		return "", err
	}
	dir, err := os.MkdirTemp(s.CourseDir(courseID), "import-")
	if err != nil {
		return "", fmt.Errorf("mkdir import dir: %w", err)
	}
	return dir, nil
}

func (s *FileStorage) EnsureDir(courseID string) error {
	path := s.CourseDir(courseID)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir course dir: %w", err)
	}
	return nil
}

func (s *FileStorage) SaveFile(courseID, target string, data []byte) error {
	if err := s.EnsureDir(courseID); err != nil {
		return err
	}
	return os.WriteFile(target, data, 0o644)
}

// RemoveCourse удаляет все файлы поля.
func (s *FileStorage) RemoveCourse(courseID string) error {
	if err := os.RemoveAll(s.CourseDir(courseID)); err != nil {
		return fmt.Errorf("remove course dir: %w", err)
	}
	return nil
}
