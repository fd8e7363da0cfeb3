package shadergraph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Compiler turns a graph into Kage source. It is safe for concurrent use.
type Compiler struct {
	registry *Registry
	opts     options
}

// NewCompiler returns a compiler resolving templates through reg.
func NewCompiler(reg *Registry, opts ...Option) *Compiler {
	return &Compiler{registry: reg, opts: applyOptions(opts)}
}

// Registry returns the template registry used by the compiler.
func (c *Compiler) Registry() *Registry { return c.registry }

// Compile emits the node code of g: one block per live node reachable from
// the material output, producers before consumers, each producer once. On
// failure it returns false and an empty string; the graph is left untouched.
func (c *Compiler) Compile(g *Graph) (bool, string) {
	src, err := c.CompileSource(g)
	if err != nil {
		return false, ""
	}
	return true, src
}

// CompileSource is like Compile but reports why compilation failed. Errors
// are *StructuralError values wrapping ErrCycle, ErrTooDeep, ErrMissingSink,
// ErrDanglingLink, ErrUnknownTemplate or ErrTemplateCorrupt.
func (c *Compiler) CompileSource(g *Graph) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return c.compileLocked(g)
}

// BuildShader compiles g and splices the node code into the compiler's shader
// template, keeping only the enabled feature blocks.
func (c *Compiler) BuildShader(g *Graph) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return c.buildShaderLocked(g)
}

func (c *Compiler) buildShaderLocked(g *Graph) (string, error) {
	code, err := c.compileLocked(g)
	if err != nil {
		return "", err
	}
	return c.opts.template.Render(code, c.opts.features)
}

func (c *Compiler) compileLocked(g *Graph) (src string, err error) {
	start := time.Now()
	var stats compileStats
	defer func() {
		result := "ok"
		if err != nil {
			result = failureLabel(err)
			c.opts.logger.Warn("shadergraph: compile failed", "error", err)
		}
		compileTotal.WithLabelValues(result).Inc()
		compileDuration.Observe(time.Since(start).Seconds())
		stats.total = time.Since(start)
		stats.bytes = len(src)
		logCompileStats(c.opts.logger, stats)
	}()

	if serr := g.checkStructureLocked(); serr != nil {
		return "", serr
	}

	pruneStart := time.Now()
	live := g.liveNodesLocked()
	stats.nodes = len(g.nodes)
	stats.pruned = len(g.nodes) - len(live)
	stats.pruneTime = time.Since(pruneStart)

	var sink *GraphNode
	for _, n := range g.nodes {
		if live[n.ID] && n.TemplateID == SinkTemplateID {
			sink = n
			break
		}
	}
	if sink == nil {
		return "", &StructuralError{Err: ErrMissingSink}
	}

	emitStart := time.Now()
	src, err = c.emitLocked(g, sink, live)
	stats.emitTime = time.Since(emitStart)
	return src, err
}

// liveNodesLocked removes, until nothing changes, every node that has outputs
// none of which is referenced by a remaining node. Nodes without outputs,
// such as the sink, are never removed. The graph itself is not modified.
func (g *Graph) liveNodesLocked() map[string]bool {
	live := make(map[string]bool, len(g.nodes))
	refs := make(map[string]int)
	for _, n := range g.nodes {
		live[n.ID] = true
		for _, in := range n.Inputs {
			if in.Link != "" {
				refs[in.Link]++
			}
		}
	}
	for changed := true; changed; {
		changed = false
		for _, n := range g.nodes {
			if !live[n.ID] || len(n.Outputs) == 0 {
				continue
			}
			used := false
			for _, out := range n.Outputs {
				if refs[out.ID] > 0 {
					used = true
					break
				}
			}
			if used {
				continue
			}
			live[n.ID] = false
			for _, in := range n.Inputs {
				if in.Link != "" {
					refs[in.Link]--
				}
			}
			changed = true
		}
	}
	for id, ok := range live {
		if !ok {
			delete(live, id)
		}
	}
	return live
}

// emitLocked walks backward from sink with an explicit stack, emitting a node
// once all of its producers have been emitted. Outputs no emitted node reads
// are assigned to the blank identifier at the end.
func (c *Compiler) emitLocked(g *Graph, sink *GraphNode, live map[string]bool) (string, error) {
	type frame struct {
		node *GraphNode
		next int
	}
	var b strings.Builder
	var order []*GraphNode
	emitted := make(map[string]bool)
	read := make(map[string]bool) // output ids referenced by emitted code
	onPath := map[string]bool{sink.ID: true}
	stack := []frame{{node: sink}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.node.Inputs) {
			in := top.node.Inputs[top.next]
			top.next++
			if in.Link == "" {
				continue
			}
			ref, ok := g.outputs[in.Link]
			if !ok || !live[ref.node.ID] {
				return "", structuralf(ErrDanglingLink, top.node.ID, "input %q links to %s", in.Name, in.Link)
			}
			p := ref.node
			if emitted[p.ID] {
				continue
			}
			if onPath[p.ID] {
				return "", structuralf(ErrCycle, p.ID, "%q is reachable from itself", p.Name)
			}
			if len(stack) >= MaxGraphDepth {
				return "", structuralf(ErrTooDeep, p.ID, "path exceeds %d nodes", MaxGraphDepth)
			}
			onPath[p.ID] = true
			stack = append(stack, frame{node: p})
			continue
		}

		code, err := c.renderNode(g, top.node, read)
		if err != nil {
			return "", err
		}
		b.WriteString(code)
		if !strings.HasSuffix(code, "\n") {
			b.WriteByte('\n')
		}
		order = append(order, top.node)
		emitted[top.node.ID] = true
		delete(onPath, top.node.ID)
		stack = stack[:len(stack)-1]
	}

	// Kage rejects unused locals. A link does not imply a read: vector to
	// bool coercion emits a constant.
	for _, n := range order {
		for _, out := range n.Outputs {
			if !read[out.ID] {
				b.WriteString("_ = " + outputName(out.ID) + "\n")
			}
		}
	}
	return b.String(), nil
}

// renderNode expands the node's code template, recording in read the outputs
// whose variables the code references. Malformed templates and mismatched
// port lists abort with ErrTemplateCorrupt instead of panicking.
func (c *Compiler) renderNode(g *Graph, n *GraphNode, read map[string]bool) (code string, err error) {
	t, ok := c.registry.Lookup(n.TemplateID)
	if !ok {
		return "", structuralf(ErrUnknownTemplate, n.ID, "%q", n.TemplateID)
	}
	defer func() {
		if r := recover(); r != nil {
			c.opts.logger.Error("shadergraph: template expansion panicked",
				"node", n.ID, "template", n.TemplateID, "panic", r)
			code, err = "", structuralf(ErrTemplateCorrupt, n.ID, "template %q: %v", n.TemplateID, r)
		}
	}()

	code, err = expandTemplate(t.Code, slotHandlers{
		slotTemp: func(i int) (string, error) {
			return tempName(n.ID, i), nil
		},
		slotOutput: func(i int) (string, error) {
			if i >= len(n.Outputs) {
				return "", fmt.Errorf("%w: output %d of %d", ErrTemplateCorrupt, i, len(n.Outputs))
			}
			out := n.Outputs[i]
			return "var " + outputName(out.ID) + " " + out.Type.KageName(), nil
		},
		slotInput: func(i int) (string, error) {
			if i >= len(n.Inputs) {
				return "", fmt.Errorf("%w: input %d of %d", ErrTemplateCorrupt, i, len(n.Inputs))
			}
			in := n.Inputs[i]
			if in.Link == "" {
				return FormatLiteral(NormalizeValue(in.Value, in.Type)), nil
			}
			ref, ok := g.outputs[in.Link]
			if !ok {
				return "", fmt.Errorf("%w: %s", ErrDanglingLink, in.Link)
			}
			out := ref.node.Outputs[ref.index]
			name := outputName(out.ID)
			expr := CoerceExpr(name, out.Type, in.Type)
			if strings.Contains(expr, name) {
				read[out.ID] = true
			}
			return expr, nil
		},
	})
	if err != nil {
		var serr *StructuralError
		if !errors.As(err, &serr) {
			kind := ErrTemplateCorrupt
			if errors.Is(err, ErrDanglingLink) {
				kind = ErrDanglingLink
			}
			c.opts.logger.Error("shadergraph: template expansion failed",
				"node", n.ID, "template", n.TemplateID, "error", err)
			err = &StructuralError{Err: kind, NodeID: n.ID, Detail: err.Error()}
		}
		return "", err
	}
	return code, nil
}

// OutputName returns the Kage variable holding the output with the given id.
func OutputName(outputID string) string { return outputName(outputID) }

func outputName(id string) string {
	return "out_" + identifier(id)
}

func tempName(nodeID string, i int) string {
	return "tmp_" + identifier(nodeID) + "_" + strconv.Itoa(i)
}

// identifier maps an id to the characters allowed in a Kage identifier.
func identifier(id string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, id)
}

// failureLabel names the kind of a compile or simulate failure for metrics.
func failureLabel(err error) string {
	switch {
	case errors.Is(err, ErrCycle):
		return "cycle"
	case errors.Is(err, ErrTooDeep):
		return "too_deep"
	case errors.Is(err, ErrMissingSink):
		return "missing_sink"
	case errors.Is(err, ErrDanglingLink):
		return "dangling"
	case errors.Is(err, ErrUnknownTemplate):
		return "unknown_template"
	case errors.Is(err, ErrTemplateCorrupt):
		return "corrupt_template"
	default:
		return "error"
	}
}
