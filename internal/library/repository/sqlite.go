package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"coursemap/internal/library/models"
)

// ============================================================
// SQLite Repository
// ============================================================

// ErrNotFound: записи с таким id нет.
var ErrNotFound = errors.New("not found")

//go:embed migrations/001_init_library.sql
var initSchema string

type Repository struct {
	db  *sql.DB
	now func() time.Time
}

func New(db *sql.DB) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// Init применяет миграцию из migrationsPath, а если путь пустой, то встроенную схему.
func (r *Repository) Init(ctx context.Context, migrationsPath string) error {
	if err := r.runMigrations(ctx, migrationsPath); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	return nil
}

// Ping: для readiness.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// ============================================================
// Courses
// ============================================================

func (r *Repository) CreateCourse(ctx context.Context, c *models.CourseRecord) error {
	now := r.now()
	c.CreatedAt, c.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO courses (id, name, location, hole_count, total_par, data, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `, c.ID, c.Name, c.Location, c.HoleCount, c.TotalPar, c.Data, formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("insert course: %w", err)
	}
	return nil
}

func (r *Repository) UpdateCourse(ctx context.Context, c *models.CourseRecord) error {
	c.UpdatedAt = r.now()
	res, err := r.db.ExecContext(ctx, `
        UPDATE courses
        SET name = ?, location = ?, hole_count = ?, total_par = ?, data = ?, updated_at = ?
        WHERE id = ?
    `, c.Name, c.Location, c.HoleCount, c.TotalPar, c.Data, formatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return affected(res)
}

func (r *Repository) GetCourse(ctx context.Context, id string) (*models.CourseRecord, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, location, hole_count, total_par, data, created_at, updated_at
        FROM courses
        WHERE id = ?
    `, id)

	c, err := scanCourse(row, true)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCourses возвращает поля без JSON курса, новые последними.
func (r *Repository) ListCourses(ctx context.Context) ([]models.CourseRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, location, hole_count, total_par, NULL, created_at, updated_at
        FROM courses
        ORDER BY created_at, id
    `)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	out := []models.CourseRecord{}
	for rows.Next() {
		c, err := scanCourse(rows, false)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

// DeleteCourse удаляет поле вместе с записями экспортов и возвращает их,
// чтобы вызывающий удалил файлы.
func (r *Repository) DeleteCourse(ctx context.Context, id string) ([]models.ExportRecord, error) {
	exports, err := r.ListExports(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM exports WHERE course_id = ?`, id); err != nil {
		return nil, fmt.Errorf("delete exports: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("delete course: %w", err)
	}
	if err := affected(res); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return exports, nil
}

// ============================================================
// Exports
// ============================================================

func (r *Repository) CreateExport(ctx context.Context, e *models.ExportRecord) error {
	e.CreatedAt = r.now()
	_, err := r.db.ExecContext(ctx, `
        INSERT INTO exports (id, course_id, kind, hole_index, path, content_type, size, summary, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `, e.ID, e.CourseID, string(e.Kind), e.HoleIndex, e.Path, e.ContentType, e.Size, e.Summary, formatTime(e.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert export: %w", err)
	}
	return nil
}

func (r *Repository) GetExport(ctx context.Context, id string) (*models.ExportRecord, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, course_id, kind, hole_index, path, content_type, size, summary, created_at
        FROM exports
        WHERE id = ?
    `, id)
	return scanExport(row)
}

func (r *Repository) ListExports(ctx context.Context, courseID string) ([]models.ExportRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
        SELECT id, course_id, kind, hole_index, path, content_type, size, summary, created_at
        FROM exports
        WHERE course_id = ?
        ORDER BY created_at, id
    `, courseID)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	out := []models.ExportRecord{}
	for rows.Next() {
		e, err := scanExport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// ============================================================
// Helpers
// ============================================================

type scanner interface {
	Scan(dest ...any) error
}

func scanCourse(s scanner, withData bool) (*models.CourseRecord, error) {
	var c models.CourseRecord
	var data []byte
	var created, updated string
	if err := s.Scan(&c.ID, &c.Name, &c.Location, &c.HoleCount, &c.TotalPar, &data, &created, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan course: %w", err)
	}
	if withData {
		c.Data = data
	}
	c.CreatedAt = parseTime(created)
	c.UpdatedAt = parseTime(updated)
	return &c, nil
}

func scanExport(s scanner) (*models.ExportRecord, error) {
	var e models.ExportRecord
	var kind, created string
	if err := s.Scan(&e.ID, &e.CourseID, &kind, &e.HoleIndex, &e.Path, &e.ContentType, &e.Size, &e.Summary, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scan export: %w", err)
	}
	e.Kind = models.ExportKind(kind)
	e.CreatedAt = parseTime(created)
	return &e, nil
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339Nano, s)
	return t
}

// ============================================================
// Migrations
// ============================================================

func (r *Repository) runMigrations(ctx context.Context, migrationsPath string) error {
	sqlText := initSchema
	if migrationsPath != "" {
		data, err := os.ReadFile(migrationsPath)
		if err != nil {
			return fmt.Errorf("read migration: %w", err)
		}
		sqlText = string(data)
	}
	if _, err := r.db.ExecContext(ctx, sqlText); err != nil {
		return fmt.Errorf("apply migration: %w", err)
	}
	return nil
}

// OpenSQLite открывает sqlite по указанному пути.
func OpenSQLite(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?cache=shared&mode=rwc&_pragma=busy_timeout=5000", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}
