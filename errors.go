package shadergraph

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateTemplate is returned when a template id is registered twice.
	ErrDuplicateTemplate = errors.New("shadergraph: duplicate template id")
	// ErrUnknownTemplate is returned when a node references a template that is
	// not in the registry.
	ErrUnknownTemplate = errors.New("shadergraph: unknown template")
	// ErrTemplateCorrupt reports a template whose placeholders do not match
	// its declared ports, or whose evaluator misbehaved.
	ErrTemplateCorrupt = errors.New("shadergraph: corrupt template")
	// ErrCycle reports a structural cycle through node connections.
	ErrCycle = errors.New("shadergraph: cycle detected")
	// ErrTooDeep reports a connection chain longer than MaxGraphDepth.
	ErrTooDeep = errors.New("shadergraph: graph too deep")
	// ErrMissingSink is returned by the compiler when the graph has no
	// material output node.
	ErrMissingSink = errors.New("shadergraph: missing material output node")
	// ErrDanglingLink reports an input linked to an output that does not exist.
	ErrDanglingLink = errors.New("shadergraph: dangling output reference")
	// ErrNotSimulable is returned when a template has no pixel evaluator.
	ErrNotSimulable = errors.New("shadergraph: template cannot be simulated")

	ErrNodeNotFound  = errors.New("shadergraph: node not found")
	ErrPortNotFound  = errors.New("shadergraph: port not found")
	ErrDuplicateNode = errors.New("shadergraph: duplicate node or port id")
	ErrNotDeletable  = errors.New("shadergraph: node is not deletable")
)

// StructuralError is a fatal problem with the shape of a graph or of one of
// its templates. It aborts the current compile or simulate request without
// touching the graph. Err is one of the package sentinels.
type StructuralError struct {
	Err    error
	NodeID string
	Detail string
}

func (e *StructuralError) Error() string {
	msg := e.Err.Error()
	if e.NodeID != "" {
		msg += " at node " + e.NodeID
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *StructuralError) Unwrap() error { return e.Err }

func structuralf(err error, nodeID, format string, args ...any) *StructuralError {
	return &StructuralError{Err: err, NodeID: nodeID, Detail: fmt.Sprintf(format, args...)}
}
