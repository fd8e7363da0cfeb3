// Package shadergraph compiles typed node graphs into [Ebitengine] Kage
// shaders and simulates them on the CPU for previews.
//
// A graph is a set of nodes, each an instance of a [NodeTemplate] from a
// [Registry]. Nodes have typed inputs and outputs; an input is either
// connected to one output or holds its own value. Ports of different types
// may be connected: values are converted by a fixed set of coercions that the
// compiler and the simulator apply identically.
//
// # Quick start
//
//	reg := shadergraph.NewBuiltinRegistry()
//	g := shadergraph.NewGraph()
//
//	add, _ := reg.Instantiate("float_add")
//	out, _ := reg.Instantiate(shadergraph.SinkTemplateID)
//	g.AddNode(add)
//	g.AddNode(out)
//	g.Connect(add.Outputs[0].ID, out.Input("Alpha").ID)
//
//	c := shadergraph.NewCompiler(reg)
//	ok, code := c.Compile(g) // node code only
//	src, err := c.BuildShader(g) // full Kage program
//
// # Coercions
//
// Scalars convert by numeric cast (bool is value != 0, or 0/1), broadcast
// into vectors, and vectors convert to scalars through their first
// component. Shorter vectors are zero-padded and longer ones truncated. A
// vector converted to bool is always false, unlike a scalar.
//
// Kage has no unsigned integer type, so UInt ports compile to int. The
// simulator keeps uint32 arithmetic; the two paths agree for values in
// [0, 2^31).
//
// # Compilation
//
// [Compiler.Compile] first prunes nodes none of whose outputs are read, then
// walks backward from the material output node, emitting each producer's code
// once and before its consumers. Each output becomes a Kage variable named
// after the output id. Cycles, chains deeper than [MaxGraphDepth], a missing
// material output and dangling links fail the whole compile; nothing is
// emitted. [Validate] reports the same structural problems along with type
// mismatch warnings.
//
// [Compiler.BuildShader] splices the node code into a [ShaderTemplate].
// [Graph.AcquireProgram] builds the GPU program once per graph state through
// a [ShaderBackend] and caches the result, including a failure, until the
// graph is edited or [Graph.Reload] is called.
//
// # Simulation
//
// [Simulator.Simulate] evaluates a node output over a small pixel grid
// (typically [DefaultPreviewSize] square) using each template's [Evaluator].
// The resulting [Matrix] renders to an image with [Matrix.Image] and
// summarizes itself with [Matrix.Summary].
//
// # Persistence
//
// Graphs round-trip through JSON, YAML and TOML documents with [Marshal] and
// [Unmarshal], or [SaveFile] and [LoadFile].
//
// [Ebitengine]: https://ebitengine.org
package shadergraph
