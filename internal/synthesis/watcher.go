package synthesis

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/seergraph/seer-go/internal/facts"
)

// debounceInterval batches rapid successive writes to the facts file.
const debounceInterval = 2 * time.Second

// WatchFacts monitors a facts file and re-runs fn on every change, with
// debouncing. Blocks until the context is cancelled.
func WatchFacts(ctx context.Context, factsPath string, fn func(*facts.Document) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the containing directory: editors replace files on save, and
	// watching the path directly loses the watch after the first rename.
	dir := filepath.Dir(factsPath)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	target, err := filepath.Abs(factsPath)
	if err != nil {
		return fmt.Errorf("resolving path: %w", err)
	}

	debounce := time.NewTimer(debounceInterval)
	debounce.Stop()
	pending := false

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			pending = true
			debounce.Reset(debounceInterval)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

		case <-debounce.C:
			if !pending {
				continue
			}
			pending = false

			doc, err := facts.LoadDocument(factsPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Reload error: %v\n", err)
				continue
			}
			if err := fn(doc); err != nil {
				fmt.Fprintf(os.Stderr, "Synthesis error: %v\n", err)
			}
		}
	}
}
