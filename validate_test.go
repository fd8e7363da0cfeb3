package shadergraph

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chain adds n float_add nodes, each feeding input A of the next, and
// returns them in order.
func (tg *testGraph) chain(n int) []*GraphNode {
	tg.t.Helper()
	nodes := make([]*GraphNode, n)
	for i := range nodes {
		nodes[i] = tg.add("float_add")
		if i > 0 {
			tg.link(nodes[i-1], 0, nodes[i], "A")
		}
	}
	return nodes
}

func TestValidateClean(t *testing.T) {
	tg, _, _ := floatAddToAlpha(t, 1, 2)
	res := Validate(tg.g)
	assert.False(t, res.HasHardError)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidateEmptyGraph(t *testing.T) {
	res := Validate(NewGraph())
	assert.False(t, res.HasHardError)
	assert.Empty(t, res.Warnings)
}

func TestValidateCycle(t *testing.T) {
	tg := newTestGraph(t)
	nodes := tg.chain(3)
	tg.link(nodes[2], 0, nodes[0], "A")

	res := Validate(tg.g)
	require.True(t, res.HasHardError)
	require.Len(t, res.Errors, 1)
	assert.ErrorIs(t, res.Errors[0], ErrCycle)
}

func TestValidateSelfLoop(t *testing.T) {
	tg := newTestGraph(t)
	n := tg.add("float_add")
	tg.link(n, 0, n, "B")
	res := Validate(tg.g)
	require.True(t, res.HasHardError)
	assert.ErrorIs(t, res.Errors[0], ErrCycle)
}

func TestValidateDepth(t *testing.T) {
	tg := newTestGraph(t)
	tg.chain(MaxGraphDepth)
	assert.False(t, Validate(tg.g).HasHardError, "a chain of exactly MaxGraphDepth nodes is allowed")

	tg = newTestGraph(t)
	tg.chain(MaxGraphDepth + 1)
	res := Validate(tg.g)
	require.True(t, res.HasHardError)
	assert.ErrorIs(t, res.Errors[0], ErrTooDeep)
}

func TestValidateDepthFromMiddle(t *testing.T) {
	// Visiting the chain out of order must still measure its full length.
	tg := newTestGraph(t)
	nodes := tg.chain(MaxGraphDepth + 1)
	mid := nodes[MaxGraphDepth/2]
	require.NoError(t, tg.g.RemoveNode(mid.ID))
	require.NoError(t, tg.g.AddNode(mid))
	tg.link(nodes[MaxGraphDepth/2-1], 0, mid, "A")
	tg.link(mid, 0, nodes[MaxGraphDepth/2+1], "A")

	res := Validate(tg.g)
	require.True(t, res.HasHardError)
	assert.ErrorIs(t, res.Errors[0], ErrTooDeep)
}

func TestValidateTypeMismatchWarning(t *testing.T) {
	tg := newTestGraph(t)
	a := tg.add("float_add")
	sink := tg.sink()
	tg.link(a, 0, sink, "Albedo")

	res := Validate(tg.g)
	assert.False(t, res.HasHardError)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, `type mismatch: "Float + Float".Result (float) -> "Material Output".Albedo (vec3)`, res.Warnings[0])
}

func TestValidateDanglingAndMultipleSinks(t *testing.T) {
	tg := newTestGraph(t)
	sink := tg.sink()
	tg.sink()
	sink.Input("Alpha").Link = "gone"

	res := Validate(tg.g)
	assert.False(t, res.HasHardError)
	require.Len(t, res.Warnings, 2)
	assert.True(t, strings.HasPrefix(res.Warnings[0], "dangling link:"), res.Warnings[0])
	assert.Equal(t, "2 material output nodes; only the first is compiled", res.Warnings[1])
}

func TestStructuralErrorMessage(t *testing.T) {
	err := structuralf(ErrCycle, "n1", "%q is reachable from itself", "Add")
	assert.Equal(t, `shadergraph: cycle detected at node n1: "Add" is reachable from itself`, err.Error())
	assert.True(t, errors.Is(err, ErrCycle))

	var serr *StructuralError
	require.True(t, errors.As(error(err), &serr))
	assert.Equal(t, "n1", serr.NodeID)
	assert.Equal(t, "shadergraph: missing material output node", (&StructuralError{Err: ErrMissingSink}).Error())
}
