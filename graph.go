package shadergraph

import (
	"fmt"
	"slices"
	"sync"
)

// portRef locates a port: the owning node and the port's index in it.
type portRef struct {
	node  *GraphNode
	index int
}

// Graph is a mutable node graph. All mutation and every structural read made
// by the validator, compiler and simulator happen under one lock, so callers
// never observe a half-updated index.
type Graph struct {
	mu      sync.Mutex
	nodes   []*GraphNode
	byID    map[string]*GraphNode
	outputs map[string]portRef // output id -> owner
	inputs  map[string]portRef // input id -> owner
	program programCache
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	g := &Graph{}
	g.reset()
	return g
}

func (g *Graph) reset() {
	g.nodes = nil
	g.byID = make(map[string]*GraphNode)
	g.outputs = make(map[string]portRef)
	g.inputs = make(map[string]portRef)
}

// AddNode adds n to the graph and indexes its ports. Node and port ids must be
// unique within the graph.
func (g *Graph) AddNode(n *GraphNode) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.addLocked(n); err != nil {
		return err
	}
	g.invalidateLocked()
	return nil
}

func (g *Graph) addLocked(n *GraphNode) error {
	if _, ok := g.byID[n.ID]; ok {
		return fmt.Errorf("%w: node %s", ErrDuplicateNode, n.ID)
	}
	seen := make(map[string]bool, len(n.Inputs)+len(n.Outputs))
	for _, in := range n.Inputs {
		if _, ok := g.inputs[in.ID]; ok || seen[in.ID] {
			return fmt.Errorf("%w: input %s", ErrDuplicateNode, in.ID)
		}
		seen[in.ID] = true
	}
	for _, out := range n.Outputs {
		if _, ok := g.outputs[out.ID]; ok || seen[out.ID] {
			return fmt.Errorf("%w: output %s", ErrDuplicateNode, out.ID)
		}
		seen[out.ID] = true
	}

	g.nodes = append(g.nodes, n)
	g.byID[n.ID] = n
	for i, in := range n.Inputs {
		in.Value = NormalizeValue(in.Value, in.Type)
		g.inputs[in.ID] = portRef{n, i}
	}
	for i, out := range n.Outputs {
		g.outputs[out.ID] = portRef{n, i}
	}
	return nil
}

// RemoveNode removes the node with the given id, drops its ports from the
// indices and disconnects every input elsewhere that was linked to one of
// its outputs.
func (g *Graph) RemoveNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	g.removeLocked(n)
	g.invalidateLocked()
	return nil
}

// DeleteNode removes a node on behalf of a user, refusing nodes that are not
// deletable (such as the material output).
func (g *Graph) DeleteNode(id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if !n.Deletable {
		return fmt.Errorf("%w: %s", ErrNotDeletable, n.Name)
	}
	g.removeLocked(n)
	g.invalidateLocked()
	return nil
}

func (g *Graph) removeLocked(n *GraphNode) {
	g.nodes = slices.DeleteFunc(g.nodes, func(x *GraphNode) bool { return x == n })
	delete(g.byID, n.ID)
	for _, in := range n.Inputs {
		delete(g.inputs, in.ID)
	}
	removed := make(map[string]bool, len(n.Outputs))
	for _, out := range n.Outputs {
		delete(g.outputs, out.ID)
		removed[out.ID] = true
	}
	for _, other := range g.nodes {
		for _, in := range other.Inputs {
			if removed[in.Link] {
				in.Link = ""
			}
		}
	}
}

// Connect links the output outputID to the input inputID, replacing any
// previous link of that input. Types may differ; the input coerces.
func (g *Graph) Connect(outputID, inputID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.outputs[outputID]; !ok {
		return fmt.Errorf("%w: output %s", ErrPortNotFound, outputID)
	}
	ref, ok := g.inputs[inputID]
	if !ok {
		return fmt.Errorf("%w: input %s", ErrPortNotFound, inputID)
	}
	ref.node.Inputs[ref.index].Link = outputID
	g.invalidateLocked()
	return nil
}

// Disconnect clears the link of the input inputID.
func (g *Graph) Disconnect(inputID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	ref, ok := g.inputs[inputID]
	if !ok {
		return fmt.Errorf("%w: input %s", ErrPortNotFound, inputID)
	}
	ref.node.Inputs[ref.index].Link = ""
	g.invalidateLocked()
	return nil
}

// SetInputValue sets the unconnected value of an input. A value of the wrong
// type is stored as the zero value of the input's type.
func (g *Graph) SetInputValue(inputID string, v Value) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	ref, ok := g.inputs[inputID]
	if !ok {
		return fmt.Errorf("%w: input %s", ErrPortNotFound, inputID)
	}
	ref.node.Inputs[ref.index].SetValue(v)
	g.invalidateLocked()
	return nil
}

// MoveNode sets a node's editor position. Layout does not affect the
// compiled program, so the cache is kept.
func (g *Graph) MoveNode(id string, x, y float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	n.Bounds.X, n.Bounds.Y = x, y
	return nil
}

// Node returns the node with the given id, or nil. The node belongs to the
// graph; mutate it only through Graph methods.
func (g *Graph) Node(id string) *GraphNode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.byID[id]
}

// Nodes returns the graph's nodes in insertion order.
func (g *Graph) Nodes() []*GraphNode {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.nodes)
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// FindOutput returns the node owning the output outputID and the output itself.
func (g *Graph) FindOutput(outputID string) (*GraphNode, *NodeOutput, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ref, ok := g.outputs[outputID]
	if !ok {
		return nil, nil, false
	}
	return ref.node, ref.node.Outputs[ref.index], true
}

// FindInput returns the node owning the input inputID and the input itself.
func (g *Graph) FindInput(inputID string) (*GraphNode, *NodeInput, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	ref, ok := g.inputs[inputID]
	if !ok {
		return nil, nil, false
	}
	return ref.node, ref.node.Inputs[ref.index], true
}

// NodeAt returns the topmost node whose bounds contain (x, y), or nil.
func (g *Graph) NodeAt(x, y float64) *GraphNode {
	g.mu.Lock()
	defer g.mu.Unlock()
	for i := len(g.nodes) - 1; i >= 0; i-- {
		if g.nodes[i].Bounds.Contains(x, y) {
			return g.nodes[i]
		}
	}
	return nil
}

// NodesIn returns the nodes whose bounds intersect r, in insertion order.
func (g *Graph) NodesIn(r Rect) []*GraphNode {
	g.mu.Lock()
	defer g.mu.Unlock()
	var out []*GraphNode
	for _, n := range g.nodes {
		if n.Bounds.Intersects(r) {
			out = append(out, n)
		}
	}
	return out
}

// Clone returns a deep copy of the graph that preserves every id. The cached
// program is not shared.
func (g *Graph) Clone() (*Graph, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	c := NewGraph()
	for _, n := range g.nodes {
		cn, err := n.clone()
		if err != nil {
			return nil, err
		}
		if err := c.addLocked(cn); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Duplicate fresh-copies the nodes with the given ids into the graph. Links
// between copied nodes are remapped to the copies; links to nodes outside the
// selection are kept. It returns the new nodes in the order of ids. On error
// the graph is left as it was.
func (g *Graph) Duplicate(ids ...string) ([]*GraphNode, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	remap := make(map[string]string)
	copies := make([]*GraphNode, 0, len(ids))
	for _, id := range ids {
		n, ok := g.byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
		}
		c, err := n.FreshCopy()
		if err != nil {
			return nil, err
		}
		for i, out := range n.Outputs {
			remap[out.ID] = c.Outputs[i].ID
		}
		copies = append(copies, c)
	}
	for i, c := range copies {
		for _, in := range c.Inputs {
			if id, ok := remap[in.Link]; ok {
				in.Link = id
			}
		}
		if err := g.addLocked(c); err != nil {
			for _, added := range copies[:i] {
				g.removeLocked(added)
			}
			return nil, err
		}
	}
	g.invalidateLocked()
	return copies, nil
}

// ReloadFrom replaces the graph's contents with the nodes of src (which keep
// their ids) and drops the cached program.
func (g *Graph) ReloadFrom(src *Graph) error {
	c, err := src.Clone()
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reset()
	for _, n := range c.nodes {
		if err := g.addLocked(n); err != nil {
			return err
		}
	}
	g.invalidateLocked()
	return nil
}

// Reload drops the cached program so the next AcquireProgram rebuilds it,
// including after a failed build.
func (g *Graph) Reload() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.invalidateLocked()
}
