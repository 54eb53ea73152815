package check

import "github.com/omarflow/pxyzc/ir"

// reachableFromEntries returns the set of node ids reachable by a
// breadth-first traversal seeded from every entry point.
func reachableFromEntries(g *ir.Graph) map[uint32]bool {
	seen := make(map[uint32]bool, len(g.Nodes))
	var queue []uint32
	for _, e := range g.Entries {
		if !seen[e.NodeID] {
			seen[e.NodeID] = true
			queue = append(queue, e.NodeID)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, edge := range g.OutgoingEdges(id) {
			if !seen[edge.Target] {
				seen[edge.Target] = true
				queue = append(queue, edge.Target)
			}
		}
	}
	return seen
}

// shortestPath runs a breadth-first search from source, recording
// predecessor links so the path to target can be reconstructed by
// walking predecessors back to the source. Only a single shortest path is
// ever computed — never an exhaustive enumeration of all paths.
func shortestPath(g *ir.Graph, source, target uint32) ([]uint32, bool) {
	if source == target {
		return []uint32{source}, true
	}
	pred := map[uint32]uint32{source: source}
	queue := []uint32{source}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, edge := range g.OutgoingEdges(id) {
			if _, visited := pred[edge.Target]; visited {
				continue
			}
			pred[edge.Target] = id
			if edge.Target == target {
				return reconstructPath(pred, source, target), true
			}
			queue = append(queue, edge.Target)
		}
	}
	return nil, false
}

func reconstructPath(pred map[uint32]uint32, source, target uint32) []uint32 {
	var path []uint32
	for cur := target; ; {
		path = append(path, cur)
		if cur == source {
			break
		}
		cur = pred[cur]
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// interior returns the path's nodes with its source and target excluded —
// gate membership for the pragmatic checks is tested on this open
// interval.
func interior(g *ir.Graph, path []uint32) []*ir.Node {
	if len(path) <= 2 {
		return nil
	}
	out := make([]*ir.Node, 0, len(path)-2)
	for _, id := range path[1 : len(path)-1] {
		out = append(out, g.NodeByID(id))
	}
	return out
}

// detectCycle runs a depth-first traversal with an explicit recursion
// stack over every node (regardless of reachability), reporting the first
// cycle found as a human-readable " → "-joined chain of node names.
func detectCycle(g *ir.Graph) (string, bool) {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[uint32]int, len(g.Nodes))
	var path []uint32
	var cycleNames []string

	var visit func(id uint32) bool
	visit = func(id uint32) bool {
		state[id] = visiting
		path = append(path, id)
		for _, edge := range g.OutgoingEdges(id) {
			switch state[edge.Target] {
			case visiting:
				names := make([]string, 0, len(path)+1)
				for _, pid := range path {
					if n := g.NodeByID(pid); n != nil {
						names = append(names, n.Name)
					}
				}
				if n := g.NodeByID(edge.Target); n != nil {
					names = append(names, n.Name)
				}
				cycleNames = names
				return true
			case unvisited:
				if visit(edge.Target) {
					return true
				}
			}
		}
		state[id] = done
		path = path[:len(path)-1]
		return false
	}

	for _, n := range g.Nodes {
		if state[n.ID] == unvisited {
			if visit(n.ID) {
				return joinArrows(cycleNames), true
			}
		}
	}
	return "", false
}

func joinArrows(names []string) string {
	out := ""
	for i, n := range names {
		if i > 0 {
			out += " → "
		}
		out += n
	}
	return out
}
