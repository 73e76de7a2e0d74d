package gallery

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	imageloader "github.com/jmylchreest/swatch/internal/image"
)

// settleDelay gives writers time to finish before an image is decoded.
const settleDelay = 250 * time.Millisecond

// Watch processes every image created or rewritten in dir and passes the
// result to fn. It blocks until ctx is cancelled or the watcher fails.
func (s *Service) Watch(ctx context.Context, dir string, fn func(Result)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	s.logger.Info("watching for images", "dir", dir)

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settleDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !imageloader.IsImageFile(event.Name) {
				continue
			}
			s.logger.Debug("image changed", "path", event.Name, "op", event.Op.String())
			pending[event.Name] = s.now()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher failed: %w", err)
		case <-ticker.C:
			now := s.now()
			for path, seen := range pending {
				if now.Sub(seen) < settleDelay {
					continue
				}
				delete(pending, path)
				fn(s.ProcessOne(ctx, path))
			}
		}
	}
}
