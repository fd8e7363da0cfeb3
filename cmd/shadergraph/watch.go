package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/phanxgames/shadergraph"
)

func (a *app) watchCmd() *cobra.Command {
	var gpu bool
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Recompile a graph every time its file changes",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			var backend shadergraph.ShaderBackend
			if gpu {
				backend = shadergraph.EbitenBackend{}
			}
			w := &graphWatcher{
				app:     a,
				path:    args[0],
				out:     cmd.OutOrStdout(),
				graph:   shadergraph.NewGraph(),
				backend: backend,
			}
			return w.run(ctx)
		},
	}
	cmd.Flags().BoolVar(&gpu, "gpu", false, "also rebuild the GPU program on every change")
	return cmd
}

// graphWatcher keeps one live graph in sync with a file on disk.
type graphWatcher struct {
	app     *app
	path    string
	out     io.Writer
	graph   *shadergraph.Graph
	backend shadergraph.ShaderBackend
}

func (w *graphWatcher) run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()
	// Editors often replace the file, so watch the directory.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.rebuild()

	target := filepath.Clean(w.path)
	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			debounce = time.After(w.app.cfg.Debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.app.logger.Warn("watch error", "error", err)
		case <-debounce:
			debounce = nil
			w.rebuild()
		}
	}
}

// rebuild reloads the file into the live graph, which drops its cached
// program, and reports the result of validating and compiling it.
func (w *graphWatcher) rebuild() {
	loaded, err := w.app.loadGraph(w.path)
	if err != nil {
		fmt.Fprintln(w.out, "error:", err)
		return
	}
	if err := w.graph.ReloadFrom(loaded); err != nil {
		fmt.Fprintln(w.out, "error:", err)
		return
	}
	if err := report(w.out, shadergraph.Validate(w.graph)); err != nil {
		return
	}
	c := shadergraph.NewCompiler(w.app.reg, w.app.cfg.Options(w.app.logger)...)
	src, err := c.BuildShader(w.graph)
	if err != nil {
		fmt.Fprintln(w.out, "error:", err)
		return
	}
	fmt.Fprintf(w.out, "compiled %d nodes, %d bytes\n", w.graph.NodeCount(), len(src))
	if w.backend == nil {
		return
	}
	p, err := w.graph.AcquireProgram(c, w.backend)
	if err != nil {
		fmt.Fprintln(w.out, "error:", err)
		return
	}
	p.Release()
	fmt.Fprintln(w.out, "program ok")
}
