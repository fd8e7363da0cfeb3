package shadergraph

import (
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/anthonynsimon/bild/clone"
	"golang.org/x/sync/errgroup"
)

// DefaultPreviewSize is the side of the pixel grid used for node previews.
const DefaultPreviewSize = 32

// Ambient slot names understood by SimContext.Ambient.
const (
	SlotUV         = "uv"
	SlotTime       = "Time"
	SlotResolution = "Resolution"
	SlotCamera     = "Camera"
	SlotBase       = "base"  // material texture color
	SlotColor      = "color" // vertex color
)

// SimContext fixes the pixel grid of a simulation and supplies the ambient
// inputs that leaf nodes read: uv, time, camera, a material texture and
// arbitrary named slots.
type SimContext struct {
	Width, Height int
	Time          float32
	Camera        Vec2
	VertexColor   Vec4
	Texture       image.Image // sampled by the "base" slot; nil reads as opaque white
	Slots         map[string]Value

	once    sync.Once
	texture *image.RGBA
}

// NewSimContext returns a context for a width x height grid with a white
// vertex color.
func NewSimContext(width, height int) *SimContext {
	return &SimContext{
		Width:       width,
		Height:      height,
		VertexColor: Vec4{1, 1, 1, 1},
		Slots:       make(map[string]Value),
	}
}

// Ambient returns the value of a named slot at a pixel, or nil when the slot
// is unknown. Slots set explicitly take precedence over the built-in ones.
func (c *SimContext) Ambient(slot string, px *Pixel) Value {
	if v, ok := c.Slots[slot]; ok {
		return v
	}
	switch slot {
	case SlotUV:
		return px.UV
	case SlotTime:
		return Float(c.Time)
	case SlotResolution:
		return Vec2{float32(px.Width), float32(px.Height)}
	case SlotCamera:
		return c.Camera
	case SlotColor:
		return c.VertexColor
	case SlotBase:
		return c.sample(px.UV)
	}
	return nil
}

// sample reads the texture at uv with nearest-neighbour filtering and returns
// the straight-alpha color.
func (c *SimContext) sample(uv Vec2) Value {
	if c.Texture == nil {
		return Vec4{1, 1, 1, 1}
	}
	c.once.Do(func() { c.texture = clone.AsRGBA(c.Texture) })
	b := c.texture.Bounds()
	if b.Empty() {
		return Vec4{}
	}
	x := b.Min.X + min(max(int(uv[0]*float32(b.Dx())), 0), b.Dx()-1)
	y := b.Min.Y + min(max(int(uv[1]*float32(b.Dy())), 0), b.Dy()-1)
	p := c.texture.RGBAAt(x, y)
	if p.A == 0 {
		return Vec4{}
	}
	a := float32(p.A)
	return Vec4{float32(p.R) / a, float32(p.G) / a, float32(p.B) / a, a / 255}
}

// Simulator evaluates graphs on the CPU over a pixel grid to produce preview
// images without a GPU. It is safe for concurrent use.
type Simulator struct {
	registry *Registry
	opts     options
}

// NewSimulator returns a simulator resolving templates through reg.
func NewSimulator(reg *Registry, opts ...Option) *Simulator {
	return &Simulator{registry: reg, opts: applyOptions(opts)}
}

// Simulate computes the matrix of one port of the node nodeID. For a node
// with outputs, outputIndex selects the output; for a node without outputs
// (the material output) it selects the input whose value is returned.
//
// On failure the result is a 1x1 ErrorMatrix together with the error. A nil
// ctx simulates a DefaultPreviewSize grid.
func (s *Simulator) Simulate(g *Graph, nodeID string, outputIndex int, ctx *SimContext) (m *Matrix, err error) {
	start := time.Now()
	if ctx == nil {
		ctx = NewSimContext(DefaultPreviewSize, DefaultPreviewSize)
	}
	run := &simulation{
		sim:  s,
		ctx:  ctx,
		w:    max(ctx.Width, 1),
		h:    max(ctx.Height, 1),
		memo: make(map[string][]*Matrix),
	}
	defer func() {
		result := "ok"
		if err != nil {
			result = failureLabel(err)
			m = ErrorMatrix(err)
			s.opts.logger.Warn("shadergraph: simulate failed", "node", nodeID, "error", err)
		}
		simulateTotal.WithLabelValues(result).Inc()
		simulateDuration.Observe(time.Since(start).Seconds())
		logSimulateStats(s.opts.logger, simulateStats{
			total:     time.Since(start),
			evaluated: len(run.memo),
			pixels:    run.w * run.h,
		})
	}()

	g.mu.Lock()
	defer g.mu.Unlock()

	n, ok := g.byID[nodeID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, nodeID)
	}
	if len(n.Outputs) > 0 {
		if outputIndex < 0 || outputIndex >= len(n.Outputs) {
			return nil, fmt.Errorf("%w: output %d of %q", ErrPortNotFound, outputIndex, n.Name)
		}
		outs, err := run.resolve(g, n)
		if err != nil {
			return nil, err
		}
		return outs[outputIndex], nil
	}

	if outputIndex < 0 || outputIndex >= len(n.Inputs) {
		return nil, fmt.Errorf("%w: input %d of %q", ErrPortNotFound, outputIndex, n.Name)
	}
	in := n.Inputs[outputIndex]
	if in.Link == "" {
		return UniformMatrix(run.w, run.h, NormalizeValue(in.Value, in.Type)), nil
	}
	ref, ok := g.outputs[in.Link]
	if !ok {
		return nil, structuralf(ErrDanglingLink, n.ID, "input %q links to %s", in.Name, in.Link)
	}
	outs, err := run.resolve(g, ref.node)
	if err != nil {
		return nil, err
	}
	return outs[ref.index].Coerce(in.Type), nil
}

// simulation is the state of one Simulate request.
type simulation struct {
	sim  *Simulator
	ctx  *SimContext
	w, h int
	memo map[string][]*Matrix // node id -> output matrices
}

// resolve computes the output matrices of target and, first, of every node it
// depends on. The walk uses an explicit stack; a node met again while still
// on the stack is a cycle.
func (r *simulation) resolve(g *Graph, target *GraphNode) ([]*Matrix, error) {
	if outs, ok := r.memo[target.ID]; ok {
		return outs, nil
	}
	type frame struct {
		node *GraphNode
		next int
	}
	inProgress := map[string]bool{target.ID: true}
	stack := []frame{{node: target}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.node.Inputs) {
			in := top.node.Inputs[top.next]
			top.next++
			if in.Link == "" {
				continue
			}
			ref, ok := g.outputs[in.Link]
			if !ok {
				return nil, structuralf(ErrDanglingLink, top.node.ID, "input %q links to %s", in.Name, in.Link)
			}
			p := ref.node
			if _, done := r.memo[p.ID]; done {
				continue
			}
			if inProgress[p.ID] {
				return nil, structuralf(ErrCycle, p.ID, "%q is reachable from itself", p.Name)
			}
			if len(stack) >= MaxGraphDepth {
				return nil, structuralf(ErrTooDeep, p.ID, "path exceeds %d nodes", MaxGraphDepth)
			}
			inProgress[p.ID] = true
			stack = append(stack, frame{node: p})
			continue
		}

		outs, err := r.evaluate(g, top.node)
		if err != nil {
			return nil, err
		}
		r.memo[top.node.ID] = outs
		delete(inProgress, top.node.ID)
		stack = stack[:len(stack)-1]
	}
	return r.memo[target.ID], nil
}

// evaluate runs the node's evaluator over every pixel. Rows are evaluated
// concurrently; each goroutine writes only its own row of each output.
func (r *simulation) evaluate(g *Graph, n *GraphNode) ([]*Matrix, error) {
	t, ok := r.sim.registry.Lookup(n.TemplateID)
	if !ok {
		return nil, structuralf(ErrUnknownTemplate, n.ID, "%q", n.TemplateID)
	}
	if t.Eval == nil {
		return nil, structuralf(ErrNotSimulable, n.ID, "template %q has no evaluator", n.TemplateID)
	}

	// Unconnected inputs are constants; connected ones read the producer's
	// matrix and coerce per cell.
	consts := make([]Value, len(n.Inputs))
	sources := make([]*Matrix, len(n.Inputs))
	for i, in := range n.Inputs {
		if in.Link == "" {
			consts[i] = NormalizeValue(in.Value, in.Type)
			continue
		}
		ref := g.outputs[in.Link]
		sources[i] = r.memo[ref.node.ID][ref.index]
	}

	outs := make([]*Matrix, len(n.Outputs))
	for i, out := range n.Outputs {
		outs[i] = NewMatrix(r.w, r.h, out.Type)
	}

	var eg errgroup.Group
	eg.SetLimit(r.sim.opts.workers)
	for y := 0; y < r.h; y++ {
		eg.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("evaluator panicked: %v", p)
				}
			}()
			args := make([]Value, len(n.Inputs))
			px := Pixel{Y: y, Width: r.w, Height: r.h, Env: r.ctx}
			for x := 0; x < r.w; x++ {
				px.X = x
				px.UV = Vec2{(float32(x) + 0.5) / float32(r.w), (float32(y) + 0.5) / float32(r.h)}
				cell := y*r.w + x
				for i, in := range n.Inputs {
					if sources[i] == nil {
						args[i] = consts[i]
					} else {
						args[i] = Coerce(sources[i].Cells[cell], in.Type)
					}
				}
				res := t.Eval(&px, args)
				for k, out := range outs {
					var v Value
					if k < len(res) {
						v = res[k]
					}
					out.Cells[cell] = Coerce(v, out.Type)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		r.sim.opts.logger.Error("shadergraph: evaluation failed",
			"node", n.ID, "template", n.TemplateID, "error", err)
		return nil, structuralf(ErrTemplateCorrupt, n.ID, "template %q: %v", n.TemplateID, err)
	}
	return outs, nil
}
