package shadergraph

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// NodeInput is an input port of a node. An input with an empty Link is
// unconnected and contributes Value; otherwise Link names the producing
// output.
type NodeInput struct {
	ID    string
	Name  string
	Type  ValueType
	Value Value
	Link  string
}

// Connected reports whether the input is linked to a producing output.
func (in *NodeInput) Connected() bool {
	return in.Link != ""
}

// SetValue sets the value used when the input is unconnected. Values of the
// wrong type are replaced with the zero value of the declared type.
func (in *NodeInput) SetValue(v Value) {
	in.Value = NormalizeValue(v, in.Type)
}

// NodeOutput is an output port of a node. Outputs carry no value; they are
// derived from the node's inputs.
type NodeOutput struct {
	ID   string
	Name string
	Type ValueType
}

// GraphNode is an instance of a template inside a graph.
type GraphNode struct {
	ID         string
	TemplateID string
	Name       string
	Bounds     Rect // editor layout only
	Deletable  bool
	Inputs     []*NodeInput
	Outputs    []*NodeOutput
}

// Input returns the input with the given name, or nil.
func (n *GraphNode) Input(name string) *NodeInput {
	for _, in := range n.Inputs {
		if in.Name == name {
			return in
		}
	}
	return nil
}

// Output returns the output with the given name, or nil.
func (n *GraphNode) Output(name string) *NodeOutput {
	for _, out := range n.Outputs {
		if out.Name == name {
			return out
		}
	}
	return nil
}

// clone returns a deep copy of n that keeps every id.
func (n *GraphNode) clone() (*GraphNode, error) {
	c := new(GraphNode)
	if err := copier.CopyWithOption(c, n, copier.Option{DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("copy node %s: %w", n.ID, err)
	}
	// Value implementations are immutable; share them.
	for i, in := range n.Inputs {
		c.Inputs[i].Value = in.Value
	}
	return c, nil
}

// FreshCopy returns a copy of n with new ids for the node and its ports.
// Links are kept as they are; Graph.Duplicate remaps them for a selection.
func (n *GraphNode) FreshCopy() (*GraphNode, error) {
	c, err := n.clone()
	if err != nil {
		return nil, err
	}
	c.ID = newID()
	for _, in := range c.Inputs {
		in.ID = newID()
	}
	for _, out := range c.Outputs {
		out.ID = newID()
	}
	return c, nil
}
