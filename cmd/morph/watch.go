package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/deepnoodle-ai/morph"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const watchDebounce = 100 * time.Millisecond

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch files...",
		Short: "Recompile files when they change",
		Args:  cobra.MinimumNArgs(1),
		RunE:  watchHandler,
	}
	addTransformFlags(cmd.Flags())
	cmd.Flags().StringP("out-dir", "d", "", "write compiled files to this directory")
	return cmd
}

func watchHandler(cmd *cobra.Command, args []string) error {
	opts, err := getMorphOptions(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	w := &watcher{
		opts:   opts,
		outDir: viper.GetString("out-dir"),
		stdout: cmd.OutOrStdout(),
		log:    newLogger(cmd.ErrOrStderr()),
	}
	return w.run(cmd.Context(), args)
}

type watcher struct {
	opts   []morph.Option
	outDir string
	stdout io.Writer
	log    zerolog.Logger
}

// run compiles every file once, then again whenever it is written, until
// ctx is done. Bursts of events for a file are coalesced.
func (w *watcher) run(ctx context.Context, files []string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	watched := map[string]bool{}
	dirs := map[string]bool{}
	for _, name := range files {
		abs, err := filepath.Abs(name)
		if err != nil {
			return err
		}
		watched[abs] = true
		// Editors often replace files on save, so the directory is watched
		// rather than the file itself.
		if dir := filepath.Dir(abs); !dirs[dir] {
			if err := fsw.Add(dir); err != nil {
				return err
			}
			dirs[dir] = true
		}
		w.compile(ctx, abs)
	}

	pending := map[string]bool{}
	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !watched[ev.Name] || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			pending[ev.Name] = true
			timer = time.After(watchDebounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		case <-timer:
			for name := range pending {
				w.compile(ctx, name)
			}
			clear(pending)
			timer = nil
		}
	}
}

func (w *watcher) compile(ctx context.Context, name string) {
	start := time.Now()
	res, err := morph.TransformFile(ctx, name, w.opts...)
	if err != nil {
		printError(err)
		return
	}
	if w.outDir == "" {
		printResult(w.stdout, res)
		return
	}
	dest := outputPath(w.outDir, name)
	if err := writeOutput(dest, res); err != nil {
		printError(err)
		return
	}
	w.log.Info().Str("file", name).Dur("took", time.Since(start)).Msg(fmt.Sprintf("compiled to %s", dest))
}
