package graph

import "fmt"

// Graph is a mutable container of Nodes plus the edges between them. It
// has no notion of a run in progress — that state lives in Topology.
// A Graph may be submitted for execution any number of times, including
// concurrently (subject to the executor's per-graph topology queue).
type Graph struct {
	Name  string
	nodes []*Node
	byID  map[string]*Node
}

// NewGraph creates an empty, named graph.
func NewGraph(name string) *Graph {
	return &Graph{Name: name, byID: make(map[string]*Node)}
}

func (g *Graph) addNode(id, name string, domain Domain, h Handle) *Node {
	if id == "" {
		id = fmt.Sprintf("%s#%d", g.Name, len(g.nodes))
	}
	n := &Node{ID: id, Name: name, Domain: domain, Handle: h, graph: g}
	g.nodes = append(g.nodes, n)
	g.byID[id] = n
	return n
}

// AddStatic adds a plain function node.
func (g *Graph) AddStatic(id, name string, domain Domain, fn StaticFunc) *Node {
	return g.addNode(id, name, domain, Handle{Kind: KindStatic, Static: fn})
}

// AddCondition adds a branch-selecting node.
func (g *Graph) AddCondition(id, name string, domain Domain, fn ConditionFunc) *Node {
	return g.addNode(id, name, domain, Handle{Kind: KindCondition, Condition: fn})
}

// AddDynamic adds a node whose body populates a Subflow at runtime.
func (g *Graph) AddDynamic(id, name string, domain Domain, fn DynamicFunc) *Node {
	return g.addNode(id, name, domain, Handle{Kind: KindDynamic, Dynamic: fn})
}

// AddModule adds a node that inlines sub as a subgraph of this graph.
// sub is not mutated; each visit clones its topology-local state via
// the executor's module setup, so the same *Graph can be used as a
// module from more than one call site.
func (g *Graph) AddModule(id, name string, domain Domain, sub *Graph) *Node {
	return g.addNode(id, name, domain, Handle{Kind: KindModule, Module: sub})
}

// AddCUDAFlow adds a GPU-domain node.
func (g *Graph) AddCUDAFlow(id, name string, fn CUDAFlowFunc) *Node {
	return g.addNode(id, name, CUDA, Handle{Kind: KindCUDAFlow, CUDAFlow: fn})
}

// Precede adds a strong (unconditional) edge from -> to: to cannot run
// until from has finished, on every visit.
func (g *Graph) Precede(from, to *Node) {
	from.Successors = append(from.Successors, to)
	to.numDependents++
	to.numStrongDependents++
}

// Branch adds a conditional edge from a Condition node: to only runs
// when from's ConditionFunc selects it this visit. to is marked as a
// branch target, which changes how its effective predecessor count
// (and therefore its join-counter reset) is computed.
func (g *Graph) Branch(from *Node, to *Node) {
	if from.Handle.Kind != KindCondition {
		panic(fmt.Sprintf("graph: Branch source %q is not a condition node", from.ID))
	}
	from.Successors = append(from.Successors, to)
	to.numDependents++
	to.branch = true
}

// Node looks up a node by ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Nodes returns every node in the graph, in insertion order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Empty reports whether the graph has no nodes.
func (g *Graph) Empty() bool { return len(g.nodes) == 0 }

// Sources returns the nodes with zero effective predecessors: the set
// the executor spawns when a topology built from this graph starts.
func (g *Graph) Sources() []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.EffectivePredecessors() == 0 {
			out = append(out, n)
		}
	}
	return out
}

// Clone returns a structurally identical copy of g with fresh Node
// instances, sharing the original nodes' Handle closures. It exists so
// a KindModule node can inline the same template Graph at more than
// one call site, or more than once from the same call site across
// reseeds, without two instantiations racing on the same Node's
// JoinCounter.
func (g *Graph) Clone() *Graph {
	clone := NewGraph(g.Name)
	mapping := make(map[*Node]*Node, len(g.nodes))
	for _, n := range g.nodes {
		cn := clone.addNode(n.ID, n.Name, n.Domain, n.Handle)
		mapping[n] = cn
	}
	for _, n := range g.nodes {
		cn := mapping[n]
		cn.numDependents = n.numDependents
		cn.numStrongDependents = n.numStrongDependents
		cn.branch = n.branch
		for _, s := range n.Successors {
			cn.Successors = append(cn.Successors, mapping[s])
		}
	}
	return clone
}
