// Package graph provides DAG (Directed Acyclic Graph) operations for
// workflow execution: topological sorting, cycle handling, graph
// traversal, and foreach-body discovery.
package graph

import (
	"github.com/flowforge/engine/pkg/types"
)

// Graph represents a workflow graph: its nodes in declaration order and its
// connections.
type Graph struct {
	nodes []types.Node
	conns []types.Connection
}

// New creates a new Graph from nodes (in declaration order) and connections.
func New(nodes []types.Node, conns []types.Connection) *Graph {
	return &Graph{nodes: nodes, conns: conns}
}

// TopologicalSort orders nodes so that every node appears after all of its
// predecessors, using Kahn's algorithm.
//
// Unlike a strict topological sort, a workflow graph containing a cycle is
// not an error here: nodes that can never reach zero in-degree (because
// they sit on or behind a cycle) are appended to the order in their
// original declaration order, after every node that could be ordered
// normally. This lets the scheduler still make forward progress on the
// acyclic part of a workflow instead of rejecting the whole run.
func (g *Graph) TopologicalSort() []string {
	numNodes := len(g.nodes)
	if numNodes == 0 {
		return []string{}
	}

	inDegree := make(map[string]int, numNodes)
	adjacency := make(map[string][]string, numNodes)
	position := make(map[string]int, numNodes)

	for i := range g.nodes {
		inDegree[g.nodes[i].ID] = 0
		position[g.nodes[i].ID] = i
	}

	for i := range g.conns {
		c := &g.conns[i]
		if _, ok := inDegree[c.Target]; !ok {
			continue
		}
		if _, ok := inDegree[c.Source]; !ok {
			continue
		}
		adjacency[c.Source] = append(adjacency[c.Source], c.Target)
		inDegree[c.Target]++
	}

	// Seed the queue with zero in-degree nodes in declaration order, so
	// scheduling is deterministic for a fixed input without depending on
	// node ID lexical order.
	queue := make([]string, 0, numNodes)
	queued := make(map[string]bool, numNodes)
	for i := range g.nodes {
		id := g.nodes[i].ID
		if inDegree[id] == 0 {
			queue = append(queue, id)
			queued[id] = true
		}
	}

	order := make([]string, 0, numNodes)
	for head := 0; head < len(queue); head++ {
		current := queue[head]
		order = append(order, current)

		for _, neighbor := range adjacency[current] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 && !queued[neighbor] {
				queue = append(queue, neighbor)
				queued[neighbor] = true
			}
		}
	}

	if len(order) == numNodes {
		return order
	}

	// Cycle fallback: append the unresolved nodes in original declaration
	// order rather than erroring.
	for i := range g.nodes {
		id := g.nodes[i].ID
		if !queued[id] {
			order = append(order, id)
		}
	}
	return order
}

// HasCycle reports whether the graph contains a cycle.
func (g *Graph) HasCycle() bool {
	return len(g.TopologicalSort()) != len(g.resolvableCount())
}

// resolvableCount returns the set of node IDs Kahn's algorithm can fully
// resolve without the cycle fallback, used by HasCycle.
func (g *Graph) resolvableCount() map[string]bool {
	numNodes := len(g.nodes)
	inDegree := make(map[string]int, numNodes)
	adjacency := make(map[string][]string, numNodes)
	for i := range g.nodes {
		inDegree[g.nodes[i].ID] = 0
	}
	for i := range g.conns {
		c := &g.conns[i]
		if _, ok := inDegree[c.Target]; !ok {
			continue
		}
		if _, ok := inDegree[c.Source]; !ok {
			continue
		}
		adjacency[c.Source] = append(adjacency[c.Source], c.Target)
		inDegree[c.Target]++
	}
	queue := make([]string, 0, numNodes)
	for i := range g.nodes {
		if inDegree[g.nodes[i].ID] == 0 {
			queue = append(queue, g.nodes[i].ID)
		}
	}
	resolved := make(map[string]bool, numNodes)
	for head := 0; head < len(queue); head++ {
		current := queue[head]
		resolved[current] = true
		for _, neighbor := range adjacency[current] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}
	return resolved
}

// GetNode retrieves a node by its ID.
func (g *Graph) GetNode(nodeID string) *types.Node {
	for i := range g.nodes {
		if g.nodes[i].ID == nodeID {
			return &g.nodes[i]
		}
	}
	return nil
}

// GetNodeInputConnections returns all connections where the given node is
// the target, in declaration order — the order the scheduler's fan-in
// tie-break rule relies on.
func (g *Graph) GetNodeInputConnections(nodeID string) []types.Connection {
	var conns []types.Connection
	for _, c := range g.conns {
		if c.Target == nodeID {
			conns = append(conns, c)
		}
	}
	return conns
}

// GetNodeOutputConnections returns all connections where the given node is
// the source.
func (g *Graph) GetNodeOutputConnections(nodeID string) []types.Connection {
	var conns []types.Connection
	for _, c := range g.conns {
		if c.Source == nodeID {
			conns = append(conns, c)
		}
	}
	return conns
}

// GetTerminalNodes returns all nodes that have no outgoing connections.
func (g *Graph) GetTerminalNodes() []string {
	terminal := make(map[string]bool, len(g.nodes))
	for _, n := range g.nodes {
		terminal[n.ID] = true
	}
	for _, c := range g.conns {
		terminal[c.Source] = false
	}
	result := make([]string, 0)
	for _, n := range g.nodes {
		if terminal[n.ID] {
			result = append(result, n.ID)
		}
	}
	return result
}

// ForEachBody performs a breadth-first walk starting at a foreach node's
// immediate successors (which are included), collecting the set of node IDs that make up the
// loop body. The walk stops at (and does not include) an endloop node, an
// end node, or a nested foreach node — those are boundaries, not body
// members of the loop body.
func (g *Graph) ForEachBody(foreachNodeID string) []string {
	body, _ := g.foreachWalk(foreachNodeID)
	return body
}

// ForEachEndLoop returns the id of the endloop node bordering the foreach
// node's body, if the body reaches one. Reports false when no endloop
// terminates this loop (the "no endloop" shape of §4.3's aggregation).
func (g *Graph) ForEachEndLoop(foreachNodeID string) (string, bool) {
	_, endLoopID := g.foreachWalk(foreachNodeID)
	return endLoopID, endLoopID != ""
}

// foreachWalk performs a breadth-first walk of the successors of a foreach
// node, collecting the set of node IDs that make up the loop body and the
// id of the bordering endloop node, if any. The walk stops at (and does not
// recurse through) an endloop node, an end node, or a nested foreach node —
// those are boundaries, not body members of the loop body.
func (g *Graph) foreachWalk(foreachNodeID string) ([]string, string) {
	start := g.GetNodeOutputConnections(foreachNodeID)
	visited := make(map[string]bool)
	body := make([]string, 0)
	endLoopID := ""

	queue := make([]string, 0, len(start))
	for _, c := range start {
		queue = append(queue, c.Target)
	}

	for head := 0; head < len(queue); head++ {
		id := queue[head]
		if visited[id] {
			continue
		}
		visited[id] = true

		node := g.GetNode(id)
		if node == nil {
			continue
		}
		if node.Type == types.NodeTypeEndLoop {
			if endLoopID == "" {
				endLoopID = id
			}
			continue
		}
		if node.Type == types.NodeTypeEnd {
			continue
		}
		if node.Type == types.NodeTypeForEach && id != foreachNodeID {
			continue
		}

		body = append(body, id)
		for _, c := range g.GetNodeOutputConnections(id) {
			if !visited[c.Target] {
				queue = append(queue, c.Target)
			}
		}
	}
	return body, endLoopID
}
