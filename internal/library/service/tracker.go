package service

import (
	"sync"

	"github.com/google/uuid"
)

// ============================================================
// Export Tracker
// ============================================================

// ExportTracker не дает запустить второй одинаковый экспорт, пока первый рендерится.
type ExportTracker struct {
	mu      sync.Mutex
	running map[string]string // ключ экспорта -> id задачи
}

func NewExportTracker() *ExportTracker {
	return &ExportTracker{
		running: make(map[string]string),
	}
}

// Begin занимает key и выдает id задачи. false: такой экспорт уже идет.
func (t *ExportTracker) Begin(key string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, busy := t.running[key]; busy {
		return "", false
	}
	id := uuid.NewString()
	t.running[key] = id
	return id, true
}

func (t *ExportTracker) Done(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.running, key)
}

// Running: id задачи по ключу.
func (t *ExportTracker) Running(key string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	id, ok := t.running[key]
	return id, ok
}
