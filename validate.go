package shadergraph

import "fmt"

// MaxGraphDepth bounds the length of any connection chain. Longer chains are
// treated as cyclic: they are too deep to be a legitimate material.
const MaxGraphDepth = 256

// ValidationResult bundles the blocking errors and the advisory warnings of a
// validation run.
type ValidationResult struct {
	HasHardError bool
	Errors       []*StructuralError
	Warnings     []string
}

// Validate checks the graph for cycles and over-deep chains (hard errors) and
// for connections between ports of different types (warnings; the compiler
// coerces them). It never mutates the graph.
func Validate(g *Graph) ValidationResult {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.validateLocked()
}

func (g *Graph) validateLocked() ValidationResult {
	var res ValidationResult
	if err := g.checkStructureLocked(); err != nil {
		res.HasHardError = true
		res.Errors = append(res.Errors, err)
	}
	res.Warnings = append(res.Warnings, g.typeWarningsLocked()...)

	sinks := 0
	for _, n := range g.nodes {
		if n.TemplateID == SinkTemplateID {
			sinks++
		}
		for _, in := range n.Inputs {
			if in.Link != "" {
				if _, ok := g.outputs[in.Link]; !ok {
					res.Warnings = append(res.Warnings, fmt.Sprintf(
						"dangling link: %q.%s references missing output %s", n.Name, in.Name, in.Link))
				}
			}
		}
	}
	if sinks > 1 {
		res.Warnings = append(res.Warnings, fmt.Sprintf(
			"%d material output nodes; only the first is compiled", sinks))
	}
	return res
}

// checkStructureLocked walks backward from every node through connected
// inputs with an explicit stack. Reaching a node already on the current path
// is a cycle; a path longer than MaxGraphDepth is rejected as too deep.
// Heights of finished nodes are memoized so chains reached from several
// starting points are still measured in full.
func (g *Graph) checkStructureLocked() *StructuralError {
	const (
		white = iota // unvisited
		gray         // on the current path
		black        // fully explored
	)
	type frame struct {
		node *GraphNode
		next int
	}

	color := make(map[string]int, len(g.nodes))
	height := make(map[string]int, len(g.nodes))

	for _, start := range g.nodes {
		if color[start.ID] != white {
			continue
		}
		color[start.ID] = gray
		stack := []frame{{node: start}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.node.Inputs) {
				in := top.node.Inputs[top.next]
				top.next++
				ref, ok := g.outputs[in.Link]
				if in.Link == "" || !ok {
					continue
				}
				p := ref.node
				switch color[p.ID] {
				case gray:
					return structuralf(ErrCycle, p.ID, "%q is reachable from itself", p.Name)
				case white:
					if len(stack) >= MaxGraphDepth {
						return structuralf(ErrTooDeep, p.ID, "path exceeds %d nodes", MaxGraphDepth)
					}
					color[p.ID] = gray
					stack = append(stack, frame{node: p})
				}
				continue
			}

			h := 1
			for _, in := range top.node.Inputs {
				if ref, ok := g.outputs[in.Link]; ok && in.Link != "" {
					h = max(h, height[ref.node.ID]+1)
				}
			}
			if h+len(stack)-1 > MaxGraphDepth {
				return structuralf(ErrTooDeep, top.node.ID, "path exceeds %d nodes", MaxGraphDepth)
			}
			height[top.node.ID] = h
			color[top.node.ID] = black
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

func (g *Graph) typeWarningsLocked() []string {
	var warnings []string
	for _, n := range g.nodes {
		for _, in := range n.Inputs {
			if in.Link == "" {
				continue
			}
			ref, ok := g.outputs[in.Link]
			if !ok {
				continue
			}
			out := ref.node.Outputs[ref.index]
			if out.Type != in.Type {
				warnings = append(warnings, fmt.Sprintf(
					"type mismatch: %q.%s (%s) -> %q.%s (%s)",
					ref.node.Name, out.Name, out.Type, n.Name, in.Name, in.Type))
			}
		}
	}
	return warnings
}
