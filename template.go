package shadergraph

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// SinkTemplateID is the id of the material output template. Compilation walks
// backward from the node instantiated from it.
const SinkTemplateID = "material_output"

// PortSpec declares one input or output of a template. Default is only used
// for inputs.
type PortSpec struct {
	Name    string
	Type    ValueType
	Default Value
}

// Pixel is the per-pixel context handed to evaluators. Evaluators must not
// retain it.
type Pixel struct {
	X, Y          int
	Width, Height int
	UV            Vec2
	Env           *SimContext
}

// Evaluator computes a node's outputs for one pixel from its inputs, which
// have already been coerced to the declared input types.
type Evaluator func(px *Pixel, in []Value) []Value

// NodeTemplate is the immutable blueprint of a node kind.
type NodeTemplate struct {
	ID          string
	Name        string
	Category    string // "/"-separated path, e.g. "Math/Vector"
	Description string
	Inputs      []PortSpec
	Outputs     []PortSpec
	Code        string // Kage code with $INPUT@i$, $OUTPUT@i$ and $TEMP@i$ placeholders
	Deletable   bool
	Eval        Evaluator
}

// Registry is the catalog of node templates. Templates are registered once at
// startup and looked up by every later stage.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]*NodeTemplate
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{templates: make(map[string]*NodeTemplate)}
}

// Register adds t to the registry. It fails if the id is taken or if the code
// template references ports the template does not declare.
func (r *Registry) Register(t NodeTemplate) error {
	if t.ID == "" {
		return fmt.Errorf("%w: empty template id", ErrTemplateCorrupt)
	}
	for _, p := range append(slices.Clone(t.Inputs), t.Outputs...) {
		if !p.Type.Valid() {
			return fmt.Errorf("%w: template %q port %q has invalid type", ErrTemplateCorrupt, t.ID, p.Name)
		}
	}
	if err := checkTemplateCode(t.Code, len(t.Inputs), len(t.Outputs)); err != nil {
		return fmt.Errorf("template %q: %w", t.ID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[t.ID]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateTemplate, t.ID)
	}
	t.Inputs = slices.Clone(t.Inputs)
	t.Outputs = slices.Clone(t.Outputs)
	for i := range t.Inputs {
		t.Inputs[i].Default = NormalizeValue(t.Inputs[i].Default, t.Inputs[i].Type)
	}
	r.templates[t.ID] = &t
	return nil
}

// MustRegister is like Register but panics on error. Use it for templates
// defined at startup, where a collision is a programming error.
func (r *Registry) MustRegister(t NodeTemplate) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Lookup returns the template with the given id. The returned template must
// not be modified.
func (r *Registry) Lookup(id string) (*NodeTemplate, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	return t, ok
}

// Len returns the number of registered templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// Templates returns all templates sorted by id.
func (r *Registry) Templates() []*NodeTemplate {
	r.mu.RLock()
	out := make([]*NodeTemplate, 0, len(r.templates))
	for _, t := range r.templates {
		out = append(out, t)
	}
	r.mu.RUnlock()
	slices.SortFunc(out, func(a, b *NodeTemplate) int { return strings.Compare(a.ID, b.ID) })
	return out
}

// Instantiate creates a node from the template with the given id.
func (r *Registry) Instantiate(id string) (*GraphNode, error) {
	t, ok := r.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTemplate, id)
	}
	return t.Instantiate(), nil
}

// --- Categories ---

// Category is one level of the palette tree. It has no computational role.
type Category struct {
	Name      string
	Path      string
	Children  []*Category
	Templates []*NodeTemplate
}

// Categories builds the category tree of all templates. The returned root has
// an empty name; children and templates are sorted by name.
func (r *Registry) Categories() *Category {
	root := &Category{}
	for _, t := range r.Templates() {
		c := root
		if t.Category != "" {
			for _, part := range strings.Split(t.Category, "/") {
				c = c.child(part)
			}
		}
		c.Templates = append(c.Templates, t)
	}
	root.sort()
	return root
}

func (c *Category) child(name string) *Category {
	for _, ch := range c.Children {
		if ch.Name == name {
			return ch
		}
	}
	path := name
	if c.Path != "" {
		path = c.Path + "/" + name
	}
	ch := &Category{Name: name, Path: path}
	c.Children = append(c.Children, ch)
	return ch
}

func (c *Category) sort() {
	slices.SortFunc(c.Children, func(a, b *Category) int { return strings.Compare(a.Name, b.Name) })
	slices.SortFunc(c.Templates, func(a, b *NodeTemplate) int { return strings.Compare(a.Name, b.Name) })
	for _, ch := range c.Children {
		ch.sort()
	}
}

// Find returns the descendant category at the given "/"-separated path.
func (c *Category) Find(path string) *Category {
	if path == "" {
		return c
	}
	cur := c
	for _, part := range strings.Split(path, "/") {
		var next *Category
		for _, ch := range cur.Children {
			if ch.Name == part {
				next = ch
				break
			}
		}
		if next == nil {
			return nil
		}
		cur = next
	}
	return cur
}

// --- Instantiation ---

// Default node layout metrics, in editor pixels.
const (
	minNodeWidth  = 120
	charWidth     = 7
	portPadding   = 48
	headerHeight  = 24
	portRowHeight = 20
)

// newID returns a fresh node or port id.
var newID = uuid.NewString

// Instantiate creates a node of this template with fresh ids for the node and
// each of its ports. The default size grows with the port count and the
// longest port names.
func (t *NodeTemplate) Instantiate() *GraphNode {
	n := &GraphNode{
		ID:         newID(),
		TemplateID: t.ID,
		Name:       t.Name,
		Deletable:  t.Deletable,
		Inputs:     make([]*NodeInput, len(t.Inputs)),
		Outputs:    make([]*NodeOutput, len(t.Outputs)),
	}
	longestIn, longestOut := 0, 0
	for i, p := range t.Inputs {
		n.Inputs[i] = &NodeInput{
			ID:    newID(),
			Name:  p.Name,
			Type:  p.Type,
			Value: NormalizeValue(p.Default, p.Type),
		}
		longestIn = max(longestIn, len(p.Name))
	}
	for i, p := range t.Outputs {
		n.Outputs[i] = &NodeOutput{ID: newID(), Name: p.Name, Type: p.Type}
		longestOut = max(longestOut, len(p.Name))
	}
	rows := max(len(t.Inputs), len(t.Outputs))
	n.Bounds = Rect{
		Width:  float64(max(minNodeWidth, (longestIn+longestOut)*charWidth+portPadding, len(t.Name)*charWidth+portPadding)),
		Height: float64(headerHeight + rows*portRowHeight),
	}
	return n
}
