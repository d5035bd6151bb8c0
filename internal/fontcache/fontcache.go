// Package fontcache memoizes loaded font faces per family, size, weight and
// zoom. A zoom change flushes every face.
package fontcache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"

	"gridpane/internal/log"
	"gridpane/internal/surface"
)

const (
	DefaultExpiration = 10 * time.Minute
	CleanupInterval   = 30 * time.Minute
)

// Key identifies one loaded face.
type Key struct {
	Family string
	Size   float64
	Bold   bool
	Zoom   float64
}

func (k Key) String() string {
	return fmt.Sprintf("%s|%g|%t|%g", k.Family, k.Size, k.Bold, k.Zoom)
}

// DeviceSize is the face size in device pixels.
func (k Key) DeviceSize() float64 {
	return k.Size * k.Zoom
}

// Loader builds the face for a key on a cache miss.
type Loader[V any] func(k Key) (V, error)

// Cache is a read-through face cache.
type Cache[V any] struct {
	useCase string
	cache   *gocache.Cache
	load    Loader[V]

	mu   sync.Mutex
	zoom float64
}

// New creates a cache at zoom 1.
func New[V any](useCase string, load Loader[V]) *Cache[V] {
	return &Cache[V]{
		useCase: useCase,
		cache:   gocache.New(DefaultExpiration, CleanupInterval),
		load:    load,
		zoom:    1,
	}
}

// Zoom returns the current zoom factor.
func (c *Cache[V]) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

// SetZoom changes the zoom factor. Faces are resolution dependent, so a
// change drops every cached face. Non-positive values mean 1.
func (c *Cache[V]) SetZoom(zoom float64) {
	if zoom <= 0 {
		zoom = 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if zoom == c.zoom {
		return
	}
	log.Debug(log.CatFont, "zoom changed, flushing faces",
		"cache", c.useCase, "from", c.zoom, "to", zoom, "faces", c.cache.ItemCount())
	c.zoom = zoom
	c.cache.Flush()
}

// Face returns the face for f at the current zoom, loading it on a miss.
// Load errors are not cached.
func (c *Cache[V]) Face(f surface.Font) (V, error) {
	key := Key{Family: f.Family, Size: f.Size, Bold: f.Bold, Zoom: c.Zoom()}

	if v, found := c.cache.Get(key.String()); found {
		if face, ok := v.(V); ok {
			return face, nil
		}
		log.Error(log.CatFont, "wrong type in face cache", "cache", c.useCase, "key", key.String())
	}

	face, err := c.load(key)
	if err != nil {
		var zero V
		return zero, fmt.Errorf("load face %s: %w", key, err)
	}
	c.cache.Set(key.String(), face, gocache.DefaultExpiration)
	log.Debug(log.CatFont, "face loaded", "cache", c.useCase, "key", key.String())
	return face, nil
}

// Len is the number of cached faces.
func (c *Cache[V]) Len() int {
	return c.cache.ItemCount()
}

// IsMono reports whether family names a monospace face.
func IsMono(family string) bool {
	switch strings.ToLower(strings.TrimSpace(family)) {
	case "mono", "monospace", "code", "cascadia", "courier":
		return true
	}
	return false
}

// TTF returns embedded TrueType data for family. Monospace families map to
// Go Mono, everything else to Go Regular.
func TTF(family string, bold bool) []byte {
	switch {
	case IsMono(family) && bold:
		return gomonobold.TTF
	case IsMono(family):
		return gomono.TTF
	case bold:
		return gobold.TTF
	default:
		return goregular.TTF
	}
}

// Parsed holds one parsed font per embedded TTF for the life of the process.
// Backends share it across surfaces; faces built from it stay per surface.
type Parsed[T any] struct {
	useCase string
	parse   func(ttf []byte) (T, error)

	mu    sync.Mutex
	fonts map[string]T
}

// NewParsed creates an empty table that parses with parse on first use.
func NewParsed[T any](useCase string, parse func(ttf []byte) (T, error)) *Parsed[T] {
	return &Parsed[T]{useCase: useCase, parse: parse, fonts: make(map[string]T)}
}

// Get returns the parsed font backing family at the given weight. Parse
// errors are not remembered.
func (p *Parsed[T]) Get(family string, bold bool) (T, error) {
	name := fmt.Sprintf("%t|%t", IsMono(family), bold)

	p.mu.Lock()
	defer p.mu.Unlock()
	if f, ok := p.fonts[name]; ok {
		return f, nil
	}
	f, err := p.parse(TTF(family, bold))
	if err != nil {
		var zero T
		return zero, fmt.Errorf("failed to parse font: %w", err)
	}
	p.fonts[name] = f
	log.Debug(log.CatFont, "font parsed", "cache", p.useCase, "font", name)
	return f, nil
}

// Len is the number of parsed fonts.
func (p *Parsed[T]) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.fonts)
}
