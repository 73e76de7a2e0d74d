// Package gallery imports photos and turns each into a swatch card, in the
// background, with a small cache of already processed files.
package gallery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/swatch/internal/card"
	imageloader "github.com/jmylchreest/swatch/internal/image"
	"github.com/jmylchreest/swatch/internal/palette"
	"github.com/jmylchreest/swatch/internal/security"
	httputil "github.com/jmylchreest/swatch/internal/util/http"
)

const (
	maxCacheEntries = 96
	defaultWorkers  = 4
)

// Result is the outcome of processing one image.
type Result struct {
	Path    string
	Palette *palette.Palette
	Card    card.Card
	Cached  bool
	Err     error
}

type cacheEntry struct {
	result   Result
	modTime  int64
	cachedAt time.Time
}

// Service extracts palettes from images and builds their cards.
type Service struct {
	loader    imageloader.Loader
	generator *palette.Generator
	workers   int
	logger    hclog.Logger

	cacheMu sync.RWMutex
	cache   map[string]cacheEntry
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger. The default discards output.
func WithLogger(l hclog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithWorkers sets the number of images processed concurrently.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithLoader replaces the image loader.
func WithLoader(l imageloader.Loader) Option {
	return func(s *Service) {
		if l != nil {
			s.loader = l
		}
	}
}

// NewService creates a Service that generates palettes with g.
func NewService(g *palette.Generator, opts ...Option) *Service {
	s := &Service{
		loader:    imageloader.NewSmartLoader(security.URLPolicy{}, httputil.FetchOptions{}),
		generator: g,
		workers:   defaultWorkers,
		logger:    hclog.NewNullLogger(),
		cache:     make(map[string]cacheEntry),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process handles every path with a bounded pool of workers. Results are
// returned in input order; failures are reported per image in Result.Err.
func (s *Service) Process(ctx context.Context, paths []string) []Result {
	results := make([]Result, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(s.workers, max(len(paths), 1)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.ProcessOne(ctx, paths[i])
			}
		}()
	}

	for i := range paths {
		if ctx.Err() != nil {
			// Mark the rest as cancelled without queueing them.
			for j := i; j < len(paths); j++ {
				results[j] = Result{Path: paths[j], Err: ctx.Err()}
			}
			break
		}
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return results
}

// ProcessOne loads a single image and builds its card, using the cache when
// the file has not changed since it was last processed.
func (s *Service) ProcessOne(ctx context.Context, path string) Result {
	if err := ctx.Err(); err != nil {
		return Result{Path: path, Err: err}
	}

	modTime := sourceModTime(path)
	if cached, ok := s.loadCached(path, modTime); ok {
		s.logger.Debug("palette cache hit", "path", path)
		cached.Cached = true
		return cached
	}

	start := s.now()
	img, err := s.loader.Load(ctx, path)
	if err != nil {
		s.logger.Warn("failed to load image", "path", path, "error", err)
		return Result{Path: path, Err: fmt.Errorf("load %s: %w", path, err)}
	}

	bounds := img.Bounds()
	s.logger.Debug("image loaded", "path", path, "width", bounds.Dx(), "height", bounds.Dy())

	p, err := s.generator.Generate(img)
	if err != nil {
		s.logger.Warn("failed to generate palette", "path", path, "error", err)
		return Result{Path: path, Err: fmt.Errorf("generate palette for %s: %w", path, err)}
	}

	c := card.Build(path, p)
	s.logger.Debug("card built",
		"path", path,
		"swatches", p.Len(),
		"best", c.Preview.Best.Swatch.RGB().Hex(),
		"rule", c.Preview.Best.Rule,
		"elapsed", s.now().Sub(start),
	)

	result := Result{Path: path, Palette: p, Card: c}
	s.storeCached(path, modTime, result)
	return result
}

// Errors joins the errors of all failed results, or returns nil.
func Errors(results []Result) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// sourceModTime returns the file's mtime, or 0 for URLs and missing files.
func sourceModTime(path string) int64 {
	if security.IsRemote(path) {
		return 0
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.ModTime().UnixNano()
}

func (s *Service) loadCached(path string, modTime int64) (Result, bool) {
	s.cacheMu.RLock()
	entry, ok := s.cache[path]
	s.cacheMu.RUnlock()
	if !ok || entry.modTime != modTime {
		return Result{}, false
	}
	return entry.result, true
}

func (s *Service) storeCached(path string, modTime int64, result Result) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache[path] = cacheEntry{
		result:   result,
		modTime:  modTime,
		cachedAt: s.now(),
	}

	if len(s.cache) <= maxCacheEntries {
		return
	}

	oldestKey := ""
	var oldestAt time.Time
	for key, entry := range s.cache {
		if oldestKey == "" || entry.cachedAt.Before(oldestAt) {
			oldestKey = key
			oldestAt = entry.cachedAt
		}
	}
	delete(s.cache, oldestKey)
}

// CacheLen returns the number of cached results.
func (s *Service) CacheLen() int {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	return len(s.cache)
}
