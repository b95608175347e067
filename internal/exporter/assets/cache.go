package assets

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/h2non/filetype"
	"golang.org/x/image/draw"
)

// ============================================================
// Asset cache
// ============================================================

// DefaultMaxSide: картинки крупнее по большей стороне уменьшаются перед встраиванием.
const DefaultMaxSide = 512

// Cache хранит заранее загруженные растровые ассеты и отдает их как data URI.
// Все чтение с диска происходит в Load, рендер файловую систему не трогает.
type Cache struct {
	mu      sync.RWMutex
	dir     string
	maxSide int
	entries map[string]entry
}

type entry struct {
	data []byte
	mime string
	uri  string
}

func NewCache(dir string, maxSide int) *Cache {
	if maxSide <= 0 {
		maxSide = DefaultMaxSide
	}
	return &Cache{dir: dir, maxSide: maxSide, entries: map[string]entry{}}
}

// Load читает ассеты из каталога кэша. Отсутствующие файлы пропускаются с записью в лог:
// для них Href вернет относительный путь.
func (c *Cache) Load(names ...string) error {
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(c.dir, filepath.FromSlash(name)))
		if os.IsNotExist(err) {
			log.Printf("[ASSETS] %s not found in %s, will be referenced by path", name, c.dir)
			continue
		}
		if err != nil {
			return fmt.Errorf("read asset %s: %w", name, err)
		}
		if err := c.Put(name, data); err != nil {
			return err
		}
	}
	return nil
}

// Put кладет ассет в кэш, уменьшая его при необходимости.
func (c *Cache) Put(name string, data []byte) error {
	data, mime, err := Downscale(data, c.maxSide)
	if err != nil {
		return fmt.Errorf("prepare asset %s: %w", name, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[name] = entry{
		data: data,
		mime: mime,
		uri:  "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data),
	}
	return nil
}

// Href возвращает data URI, если ассет загружен, иначе относительный путь.
func (c *Cache) Href(name string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if e, ok := c.entries[name]; ok {
		return e.uri
	}
	return name
}

// Has: загружен ли ассет.
func (c *Cache) Has(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[name]
	return ok
}

// Bytes: содержимое ассета для упаковки в архив.
func (c *Cache) Bytes(name string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e.data, ok
}

// Names: загруженные ассеты по алфавиту.
func (c *Cache) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ============================================================
// Image helpers
// ============================================================

// DetectMIME определяет тип картинки по сигнатуре.
func DetectMIME(data []byte) (string, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return "", fmt.Errorf("detect type: %w", err)
	}
	if kind == filetype.Unknown || !filetype.IsImage(data) {
		return "", fmt.Errorf("not an image")
	}
	return kind.MIME.Value, nil
}

// DataURI кодирует картинку как data URI без изменения размера.
func DataURI(data []byte) (string, error) {
	mime, err := DetectMIME(data)
	if err != nil {
		return "", err
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Downscale уменьшает PNG/JPEG так, чтобы большая сторона не превышала maxSide.
// Остальные форматы и маленькие картинки возвращаются как есть.
func Downscale(data []byte, maxSide int) ([]byte, string, error) {
	mime, err := DetectMIME(data)
	if err != nil {
		return nil, "", err
	}
	if mime != "image/png" && mime != "image/jpeg" {
		return data, mime, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", mime, err)
	}
	size := src.Bounds().Size()
	longest := max(size.X, size.Y)
	if longest <= maxSide {
		return data, mime, nil
	}

	w := max(1, size.X*maxSide/longest)
	h := max(1, size.Y*maxSide/longest)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if mime == "image/jpeg" {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: 85})
	} else {
		err = png.Encode(&buf, dst)
	}
	if err != nil {
		return nil, "", fmt.Errorf("encode %s: %w", mime, err)
	}
	return buf.Bytes(), mime, nil
}

// ============================================================
// Resolvers
// ============================================================

// Relative оставляет ссылки относительными: prefix + имя ассета.
type Relative string

func (r Relative) Href(name string) string {
	return string(r) + name
}

// Bundle ссылается на ассеты относительным путем prefix + имя, но только на те,
// что есть в Cache: их байты упаковываются рядом с документами.
type Bundle struct {
	Prefix string
	Cache  *Cache
}

func (b Bundle) Href(name string) string {
	return b.Prefix + name
}

func (b Bundle) Has(name string) bool {
	return b.Cache != nil && b.Cache.Has(name)
}

// Resolver: то, что умеет превращать имя ассета в href.
type Resolver interface {
	Href(name string) string
}

type availability interface {
	Has(name string) bool
}

// Recorder запоминает, какие ассеты запросил рендер, и передает запрос дальше.
// Безопасен для параллельных рендеров.
type Recorder struct {
	inner Resolver

	mu    sync.Mutex
	names map[string]bool
}

func NewRecorder(inner Resolver) *Recorder {
	return &Recorder{inner: inner, names: map[string]bool{}}
}

func (r *Recorder) Href(name string) string {
	r.mu.Lock()
	r.names[name] = true
	r.mu.Unlock()
	return r.inner.Href(name)
}

// Has спрашивает внутренний резолвер; если тот не знает, что у него есть, ассет считается доступным.
func (r *Recorder) Has(name string) bool {
	if a, ok := r.inner.(availability); ok {
		return a.Has(name)
	}
	return true
}

// Names: запрошенные ассеты по алфавиту.
func (r *Recorder) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.names))
	for name := range r.names {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
