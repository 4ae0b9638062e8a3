package graph

// Kind discriminates the work a Node carries. The executor's invoke
// dispatch switches on this rather than on a Go type switch so a Node's
// hot-path fields (Handle) stay a flat struct instead of an interface.
type Kind int

const (
	// KindStatic runs a plain function to completion; it has no effect
	// on control flow beyond releasing its successors.
	KindStatic Kind = iota
	// KindCondition runs a function returning the index of exactly one
	// successor to schedule; every other successor is skipped for this
	// visit. Condition nodes may re-target an already-visited node,
	// which is how controlled cycles are expressed.
	KindCondition
	// KindDynamic runs a function that populates a Subflow at runtime;
	// the subflow's sources are scheduled as children of this node and,
	// unless the subflow is detached, the node itself only completes
	// once they (and everything they transitively spawn) have joined.
	KindDynamic
	// KindModule inlines a pre-built Graph as a subgraph of the caller,
	// following the same spawn-then-join protocol as KindDynamic.
	KindModule
	// KindCUDAFlow hands a CUDA stream handle to a callback; stream
	// scheduling itself is out of scope and the handle is a stub.
	KindCUDAFlow
)

func (k Kind) String() string {
	switch k {
	case KindStatic:
		return "static"
	case KindCondition:
		return "condition"
	case KindDynamic:
		return "dynamic"
	case KindModule:
		return "module"
	case KindCUDAFlow:
		return "cudaflow"
	default:
		return "unknown"
	}
}

// StaticFunc is a plain unit of work.
type StaticFunc func()

// ConditionFunc picks a successor by index into the node's Successors
// slice. An out-of-range index (negative, or >= len(Successors)) is a
// deliberate way to end a condition-driven loop: no successor is
// scheduled and the node simply completes.
type ConditionFunc func() int

// DynamicFunc populates sf with the subgraph to run as this node's
// children. sf is only valid for the duration of the call.
type DynamicFunc func(sf *Subflow)

// CUDAStream is an opaque placeholder for a CUDA stream handle; stream
// lifecycle management is not implemented.
type CUDAStream struct {
	Domain Domain
}

// CUDAFlowFunc receives a stream handle to enqueue GPU work against.
type CUDAFlowFunc func(stream *CUDAStream)

// Handle is the tagged union of work a Node can carry. Exactly one field
// matching Kind is populated; the rest are nil.
type Handle struct {
	Kind Kind

	Static    StaticFunc
	Condition ConditionFunc
	Dynamic   DynamicFunc
	Module    *Graph
	CUDAFlow  CUDAFlowFunc
}
