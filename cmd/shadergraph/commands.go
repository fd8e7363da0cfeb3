package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/shadergraph"
)

// app carries the state shared by all subcommands.
type app struct {
	configPath string
	cfg        Config
	logger     *slog.Logger
	reg        *shadergraph.Registry

	// flag overrides
	size     int
	workers  int
	features []string
	format   string
	debug    bool
}

func newRootCmd() *cobra.Command {
	a := &app{reg: shadergraph.NewBuiltinRegistry()}
	root := &cobra.Command{
		Use:               "shadergraph",
		Short:             "Inspect, compile and preview shader node graphs",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.IntVar(&a.size, "size", 0, "preview grid size in pixels")
	pf.IntVar(&a.workers, "workers", 0, "simulation goroutines per node (0 = GOMAXPROCS)")
	pf.StringSliceVar(&a.features, "feature", nil, "enable a shader template feature block (lighting, emission)")
	pf.StringVar(&a.format, "format", "", "document format for new graphs (json, yaml, toml)")
	pf.BoolVar(&a.debug, "debug", false, "log debug timings")

	root.AddCommand(
		a.templatesCmd(),
		a.newCmd(),
		a.validateCmd(),
		a.compileCmd(),
		a.previewCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return usageError{err}
	}
	flags := cmd.Flags()
	if flags.Changed("size") {
		cfg.PreviewSize = a.size
	}
	if flags.Changed("workers") {
		cfg.Workers = a.workers
	}
	if flags.Changed("feature") {
		cfg.Features = a.features
	}
	if flags.Changed("format") {
		cfg.Format = strings.ToLower(a.format)
	}
	if flags.Changed("debug") {
		cfg.Debug = a.debug
	}
	if err := cfg.Validate(); err != nil {
		return usageError{err}
	}
	a.cfg = cfg
	a.logger = cfg.Logger()
	return nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

func (a *app) loadGraph(path string) (*shadergraph.Graph, error) {
	g, err := shadergraph.LoadFile(path, a.reg)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return g, nil
}

// writeGraph saves g to path, falling back to the configured format when the
// extension does not name one.
func (a *app) writeGraph(path string, g *shadergraph.Graph) error {
	f, err := shadergraph.FormatFromPath(path)
	if err != nil {
		f = a.cfg.DocumentFormat()
	}
	data, err := shadergraph.Marshal(g, f)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// --- templates ---

func (a *app) templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the node templates by category",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			printCategory(cmd.OutOrStdout(), a.reg.Categories(), 0)
			return nil
		},
	}
}

func printCategory(w io.Writer, c *shadergraph.Category, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, t := range c.Templates {
		fmt.Fprintf(w, "%s%s (%s)\n", indent, t.Name, t.ID)
	}
	for _, ch := range c.Children {
		fmt.Fprintf(w, "%s%s/\n", indent, ch.Name)
		printCategory(w, ch, depth+1)
	}
}

// --- new ---

func (a *app) newCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new FILE",
		Short: "Write a starter graph: Float + Float wired into the material alpha",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := starterGraph(a.reg)
			if err != nil {
				return err
			}
			if err := a.writeGraph(args[0], g); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
}

func starterGraph(reg *shadergraph.Registry) (*shadergraph.Graph, error) {
	g := shadergraph.NewGraph()
	add, err := reg.Instantiate("float_add")
	if err != nil {
		return nil, err
	}
	sink, err := reg.Instantiate(shadergraph.SinkTemplateID)
	if err != nil {
		return nil, err
	}
	add.Bounds.X, add.Bounds.Y = 40, 60
	sink.Bounds.X, sink.Bounds.Y = 320, 40
	for _, n := range []*shadergraph.GraphNode{add, sink} {
		if err := g.AddNode(n); err != nil {
			return nil, err
		}
	}
	if err := g.Connect(add.Outputs[0].ID, sink.Input("Alpha").ID); err != nil {
		return nil, err
	}
	return g, nil
}

// --- validate ---

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE",
		Short: "Check a graph for cycles and type mismatches",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGraph(args[0])
			if err != nil {
				return err
			}
			return report(cmd.OutOrStdout(), shadergraph.Validate(g))
		},
	}
}

func report(w io.Writer, res shadergraph.ValidationResult) error {
	for _, warn := range res.Warnings {
		fmt.Fprintln(w, "warning:", warn)
	}
	for _, e := range res.Errors {
		fmt.Fprintln(w, "error:", e)
	}
	if res.HasHardError {
		return errors.New("graph has structural errors")
	}
	fmt.Fprintln(w, "ok")
	return nil
}

// --- compile ---

func (a *app) compileCmd() *cobra.Command {
	var (
		shader bool
		gpu    bool
		out    string
	)
	cmd := &cobra.Command{
		Use:   "compile FILE",
		Short: "Compile a graph to Kage node code or a full shader",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGraph(args[0])
			if err != nil {
				return err
			}
			c := shadergraph.NewCompiler(a.reg, a.cfg.Options(a.logger)...)
			var src string
			if shader {
				src, err = c.BuildShader(g)
			} else {
				src, err = c.CompileSource(g)
			}
			if err != nil {
				return err
			}
			if gpu {
				p, err := g.AcquireProgram(c, shadergraph.EbitenBackend{})
				if err != nil {
					return err
				}
				p.Release()
			}
			if out == "" {
				_, err = io.WriteString(cmd.OutOrStdout(), src)
				return err
			}
			return os.WriteFile(out, []byte(src), 0o644)
		},
	}
	cmd.Flags().BoolVar(&shader, "shader", false, "splice the node code into the shader template")
	cmd.Flags().BoolVar(&gpu, "gpu", false, "also build the GPU program to check the shader")
	cmd.Flags().StringVarP(&out, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

// --- preview ---

func (a *app) previewCmd() *cobra.Command {
	var (
		nodeID string
		index  int
		out    string
		scale  int
		t      float32
	)
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Simulate a node output on the CPU and write a PNG",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := a.loadGraph(args[0])
			if err != nil {
				return err
			}
			if nodeID == "" {
				for _, n := range g.Nodes() {
					if n.TemplateID == shadergraph.SinkTemplateID {
						nodeID = n.ID
						break
					}
				}
			}
			ctx := shadergraph.NewSimContext(a.cfg.PreviewSize, a.cfg.PreviewSize)
			ctx.Time = t
			sim := shadergraph.NewSimulator(a.reg, a.cfg.Options(a.logger)...)
			m, simErr := sim.Simulate(g, nodeID, index, ctx)
			fmt.Fprintln(cmd.OutOrStdout(), m.Summary())
			if out != "" {
				size := a.cfg.PreviewSize * max(scale, 1)
				if err := m.SavePNG(out, size, size); err != nil {
					return err
				}
			}
			return simErr
		},
	}
	cmd.Flags().StringVar(&nodeID, "node", "", "node id (default: the material output)")
	cmd.Flags().IntVar(&index, "output", 0, "output index, or input index for the material output")
	cmd.Flags().StringVarP(&out, "out", "o", "", "PNG file to write")
	cmd.Flags().IntVar(&scale, "scale", 8, "pixels per simulated cell in the PNG")
	cmd.Flags().Float32Var(&t, "time", 0, "value of the Time input")
	return cmd
}
