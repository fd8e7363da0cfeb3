package shadergraph

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

var quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// testGraph wraps a graph and a builtin registry with helpers that fail the
// test on error.
type testGraph struct {
	t   *testing.T
	reg *Registry
	g   *Graph
}

func newTestGraph(t *testing.T) *testGraph {
	t.Helper()
	return &testGraph{t: t, reg: NewBuiltinRegistry(), g: NewGraph()}
}

func (tg *testGraph) add(templateID string) *GraphNode {
	tg.t.Helper()
	n, err := tg.reg.Instantiate(templateID)
	require.NoError(tg.t, err)
	require.NoError(tg.t, tg.g.AddNode(n))
	return n
}

func (tg *testGraph) sink() *GraphNode {
	tg.t.Helper()
	return tg.add(SinkTemplateID)
}

// link connects output out of from to the input named in of to.
func (tg *testGraph) link(from *GraphNode, out int, to *GraphNode, in string) {
	tg.t.Helper()
	input := to.Input(in)
	require.NotNil(tg.t, input, "input %q", in)
	require.NoError(tg.t, tg.g.Connect(from.Outputs[out].ID, input.ID))
}

func (tg *testGraph) set(n *GraphNode, in string, v Value) {
	tg.t.Helper()
	input := n.Input(in)
	require.NotNil(tg.t, input, "input %q", in)
	require.NoError(tg.t, tg.g.SetInputValue(input.ID, v))
}

func (tg *testGraph) compiler(opts ...Option) *Compiler {
	return NewCompiler(tg.reg, append([]Option{WithLogger(quietLogger)}, opts...)...)
}

func (tg *testGraph) simulator(opts ...Option) *Simulator {
	return NewSimulator(tg.reg, append([]Option{WithLogger(quietLogger)}, opts...)...)
}

// floatAddToAlpha builds Float + Float -> Material Output.Alpha.
func floatAddToAlpha(t *testing.T, a, b float32) (*testGraph, *GraphNode, *GraphNode) {
	t.Helper()
	tg := newTestGraph(t)
	add := tg.add("float_add")
	sink := tg.sink()
	tg.set(add, "A", Float(a))
	tg.set(add, "B", Float(b))
	tg.link(add, 0, sink, "Alpha")
	return tg, add, sink
}
