package shadergraph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Editing ---

func TestAddNodeRejectsDuplicateIDs(t *testing.T) {
	tg := newTestGraph(t)
	n := tg.add("float_add")
	assert.ErrorIs(t, tg.g.AddNode(n), ErrDuplicateNode)

	c, err := n.clone()
	require.NoError(t, err)
	c.ID = "other"
	assert.ErrorIs(t, tg.g.AddNode(c), ErrDuplicateNode, "port ids collide")
	assert.Equal(t, 1, tg.g.NodeCount())
}

func TestAddNodeNormalizesValues(t *testing.T) {
	tg := newTestGraph(t)
	n, err := tg.reg.Instantiate("float_add")
	require.NoError(t, err)
	n.Inputs[0].Value = Vec3{1, 2, 3}
	n.Inputs[1].Value = nil
	require.NoError(t, tg.g.AddNode(n))
	assert.Equal(t, Float(0), n.Inputs[0].Value)
	assert.Equal(t, Float(0), n.Inputs[1].Value)
}

func TestConnectAndDisconnect(t *testing.T) {
	tg := newTestGraph(t)
	a := tg.add("float_add")
	sink := tg.sink()

	tg.link(a, 0, sink, "Alpha")
	assert.Equal(t, a.Outputs[0].ID, sink.Input("Alpha").Link)

	assert.ErrorIs(t, tg.g.Connect("missing", sink.Input("Alpha").ID), ErrPortNotFound)
	assert.ErrorIs(t, tg.g.Connect(a.Outputs[0].ID, "missing"), ErrPortNotFound)

	require.NoError(t, tg.g.Disconnect(sink.Input("Alpha").ID))
	assert.False(t, sink.Input("Alpha").Connected())
	assert.ErrorIs(t, tg.g.Disconnect("missing"), ErrPortNotFound)
}

func TestConnectReplacesLink(t *testing.T) {
	tg := newTestGraph(t)
	a := tg.add("float_add")
	b := tg.add("float_mul")
	sink := tg.sink()
	tg.link(a, 0, sink, "Alpha")
	tg.link(b, 0, sink, "Alpha")
	assert.Equal(t, b.Outputs[0].ID, sink.Input("Alpha").Link)
}

func TestRemoveNodeClearsLinks(t *testing.T) {
	tg := newTestGraph(t)
	a := tg.add("float_add")
	b := tg.add("float_add")
	sink := tg.sink()
	tg.link(a, 0, b, "A")
	tg.link(a, 0, sink, "Alpha")

	require.NoError(t, tg.g.RemoveNode(a.ID))
	assert.Nil(t, tg.g.Node(a.ID))
	assert.Empty(t, b.Input("A").Link)
	assert.Empty(t, sink.Input("Alpha").Link)
	_, _, ok := tg.g.FindOutput(a.Outputs[0].ID)
	assert.False(t, ok)
	_, _, ok = tg.g.FindInput(a.Inputs[0].ID)
	assert.False(t, ok)

	assert.ErrorIs(t, tg.g.RemoveNode(a.ID), ErrNodeNotFound)
}

func TestDeleteNodeRefusesSink(t *testing.T) {
	tg := newTestGraph(t)
	a := tg.add("float_add")
	sink := tg.sink()

	assert.ErrorIs(t, tg.g.DeleteNode(sink.ID), ErrNotDeletable)
	assert.NotNil(t, tg.g.Node(sink.ID))
	require.NoError(t, tg.g.DeleteNode(a.ID))
	assert.ErrorIs(t, tg.g.DeleteNode("missing"), ErrNodeNotFound)

	// RemoveNode is not a user action and ignores the flag.
	require.NoError(t, tg.g.RemoveNode(sink.ID))
	assert.Zero(t, tg.g.NodeCount())
}

func TestSetInputValue(t *testing.T) {
	tg := newTestGraph(t)
	sink := tg.sink()
	tg.set(sink, "Albedo", Vec3{0.5, 0.25, 0})
	assert.Equal(t, Vec3{0.5, 0.25, 0}, sink.Input("Albedo").Value)

	tg.set(sink, "Albedo", Float(1))
	assert.Equal(t, Vec3{}, sink.Input("Albedo").Value, "wrong type stores zero")

	assert.ErrorIs(t, tg.g.SetInputValue("missing", Float(1)), ErrPortNotFound)
}

func TestFindPorts(t *testing.T) {
	tg := newTestGraph(t)
	a := tg.add("float_add")

	n, out, ok := tg.g.FindOutput(a.Outputs[0].ID)
	require.True(t, ok)
	assert.Same(t, a, n)
	assert.Equal(t, "Result", out.Name)

	n, in, ok := tg.g.FindInput(a.Inputs[1].ID)
	require.True(t, ok)
	assert.Same(t, a, n)
	assert.Equal(t, "B", in.Name)
}

// --- Layout ---

func TestNodeAtAndNodesIn(t *testing.T) {
	tg := newTestGraph(t)
	a := tg.add("float_add")
	b := tg.add("float_add")
	require.NoError(t, tg.g.MoveNode(a.ID, 0, 0))
	require.NoError(t, tg.g.MoveNode(b.ID, 50, 10))

	assert.Same(t, b, tg.g.NodeAt(60, 20), "topmost wins")
	assert.Same(t, a, tg.g.NodeAt(5, 5))
	assert.Nil(t, tg.g.NodeAt(-10, -10))

	hits := tg.g.NodesIn(Rect{X: 0, Y: 0, Width: 10, Height: 10})
	require.Len(t, hits, 1)
	assert.Same(t, a, hits[0])
	assert.Len(t, tg.g.NodesIn(Rect{X: 40, Y: 0, Width: 20, Height: 20}), 2)

	assert.ErrorIs(t, tg.g.MoveNode("missing", 0, 0), ErrNodeNotFound)
}

// --- Copies ---

func TestClonePreservesIDs(t *testing.T) {
	tg, add, sink := floatAddToAlpha(t, 1, 2)
	c, err := tg.g.Clone()
	require.NoError(t, err)

	cadd := c.Node(add.ID)
	require.NotNil(t, cadd)
	assert.NotSame(t, add, cadd)
	assert.Equal(t, add.Inputs[0].ID, cadd.Inputs[0].ID)
	assert.Equal(t, Float(1), cadd.Input("A").Value)
	assert.Equal(t, add.Outputs[0].ID, c.Node(sink.ID).Input("Alpha").Link)

	// Editing the clone leaves the original alone.
	require.NoError(t, c.SetInputValue(cadd.Inputs[0].ID, Float(5)))
	assert.Equal(t, Float(1), add.Input("A").Value)
}

func TestFreshCopy(t *testing.T) {
	tg := newTestGraph(t)
	a := tg.add("float_add")
	tg.set(a, "A", Float(3))

	c, err := a.FreshCopy()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
	assert.NotEqual(t, a.Inputs[0].ID, c.Inputs[0].ID)
	assert.NotEqual(t, a.Outputs[0].ID, c.Outputs[0].ID)
	assert.Equal(t, Float(3), c.Input("A").Value)
	assert.Equal(t, a.TemplateID, c.TemplateID)
}

func TestDuplicateRemapsInternalLinks(t *testing.T) {
	tg := newTestGraph(t)
	src := tg.add("const_float")
	a := tg.add("float_add")
	b := tg.add("float_add")
	tg.link(src, 0, a, "A")
	tg.link(a, 0, b, "A")

	copies, err := tg.g.Duplicate(a.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, copies, 2)
	ca, cb := copies[0], copies[1]

	assert.Equal(t, src.Outputs[0].ID, ca.Input("A").Link, "external link kept")
	assert.Equal(t, ca.Outputs[0].ID, cb.Input("A").Link, "internal link remapped")
	assert.Equal(t, a.Outputs[0].ID, b.Input("A").Link, "original untouched")
	assert.Equal(t, 5, tg.g.NodeCount())

	_, err = tg.g.Duplicate("missing")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestDuplicateFailureLeavesGraphUnchanged(t *testing.T) {
	tg := newTestGraph(t)
	a := tg.add("float_add")
	b := tg.add("float_add")

	// Hand out the same ids to both copies so the second one collides.
	defer func(orig func() string) { newID = orig }(newID)
	calls := 0
	newID = func() string {
		id := fmt.Sprintf("copy-%d", calls%4)
		calls++
		return id
	}

	p, err := tg.g.AcquireProgram(tg.compiler(), &fakeBackend{})
	require.Error(t, err, "no material output yet")
	assert.Nil(t, p)

	_, err = tg.g.Duplicate(a.ID, b.ID)
	assert.ErrorIs(t, err, ErrDuplicateNode)
	assert.Equal(t, 2, tg.g.NodeCount())
	assert.Nil(t, tg.g.Node("copy-0"), "first copy rolled back")
	_, _, ok := tg.g.FindOutput("copy-3")
	assert.False(t, ok)
	assert.Error(t, tg.g.ProgramError(), "cached state kept")
}

func TestReloadFrom(t *testing.T) {
	tg, add, _ := floatAddToAlpha(t, 1, 2)
	other := newTestGraph(t)
	other.add("float_mul")

	require.NoError(t, tg.g.ReloadFrom(other.g))
	assert.Equal(t, 1, tg.g.NodeCount())
	assert.Nil(t, tg.g.Node(add.ID))
	assert.Equal(t, "float_mul", tg.g.Nodes()[0].TemplateID)
	assert.NotSame(t, other.g.Nodes()[0], tg.g.Nodes()[0])
}
