// Package imagecache imports remote photos into a local directory so they
// can be processed like any other image file.
package imagecache

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmylchreest/swatch/internal/security"
	httputil "github.com/jmylchreest/swatch/internal/util/http"
)

// ErrNotRemote is returned when an import source is not an HTTP(S) URL.
var ErrNotRemote = errors.New("not an http(s) url")

// Options configures an import.
type Options struct {
	// Dir is where imported photos are stored.
	// If empty, defaults to ~/.cache/swatch/imports
	Dir string

	// Overwrite re-downloads photos that were already imported.
	Overwrite bool

	Policy security.URLPolicy
	Fetch  httputil.FetchOptions
}

// DefaultDir returns the default import directory.
func DefaultDir() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to determine import directory: %w", err)
		}
		return filepath.Join(home, ".cache", "swatch", "imports"), nil
	}
	return filepath.Join(cacheDir, "swatch", "imports"), nil
}

// Filename returns the deterministic file name a URL is imported as:
// 32 hex digits of its SHA-256 plus the original extension.
func Filename(url string) string {
	hash := sha256.Sum256([]byte(url))

	ext := filepath.Ext(url)
	if idx := strings.IndexAny(ext, "?#"); idx != -1 {
		ext = ext[:idx]
	}
	if ext == "" || len(ext) > 5 {
		ext = ".jpg"
	}

	return fmt.Sprintf("%x%s", hash[:16], strings.ToLower(ext))
}

// Import downloads url into the import directory and returns the local path.
// A photo that was already imported is reused unless Overwrite is set.
func Import(ctx context.Context, url string, opts Options) (string, error) {
	if !security.IsRemote(url) {
		return "", fmt.Errorf("%q: %w", url, ErrNotRemote)
	}
	if err := security.ValidateImageURL(url, opts.Policy); err != nil {
		return "", fmt.Errorf("refusing to import image: %w", err)
	}

	dir := opts.Dir
	if dir == "" {
		d, err := DefaultDir()
		if err != nil {
			return "", err
		}
		dir = d
	}
	if err := os.MkdirAll(dir, 0o755); err != nil { // #nosec G301 - Import directory needs standard permissions
		return "", fmt.Errorf("failed to create import directory: %w", err)
	}

	path := filepath.Join(dir, Filename(url))
	if !opts.Overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	data, err := httputil.Fetch(ctx, url, opts.Fetch)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}

	// Write then rename so a watcher never sees a partial file.
	tmp := path + ".part"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { // #nosec G306 - Imported photos need standard read permissions
		return "", fmt.Errorf("failed to write imported image: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("failed to store imported image: %w", err)
	}

	return path, nil
}
