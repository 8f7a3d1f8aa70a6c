package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// watchDebounce is how long writes are allowed to settle before a
// recompile. Editors typically fire several events per save.
const watchDebounce = 300 * time.Millisecond

// newWatchCmd creates the watch command for continuous recompilation.
func newWatchCmd() *cobra.Command {
	var (
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "watch [spec.json]",
		Short: "Recompile a specification whenever the file changes",
		Long: `Recompile a specification whenever the file changes.

The watch command compiles once, then watches the file and rewrites the
layout artifact on every save. Rapid consecutive writes are debounced so
one save triggers one compile. Stop with Ctrl-C.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), args[0], output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runWatch compiles once and then recompiles after each settled write until
// the context is cancelled.
func runWatch(ctx context.Context, input, output string, noCache bool) error {
	logger := loggerFromContext(ctx)

	if err := runCompile(ctx, input, output, noCache, ""); err != nil {
		// The first compile may legitimately fail while the user is mid-edit;
		// keep watching so the next save can fix it.
		printWarning("%v", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors that save via
	// rename replace the inode, which silently drops a file-level watch.
	dir := filepath.Dir(input)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	printInfo("Watching %s", input)

	var debounce *time.Timer
	recompile := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(input) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			logger.Debug("specification changed", "event", event.Op.String())
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, func() {
				select {
				case recompile <- struct{}{}:
				default:
				}
			})

		case <-recompile:
			if err := runCompile(ctx, input, output, noCache, ""); err != nil {
				printWarning("%v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}
