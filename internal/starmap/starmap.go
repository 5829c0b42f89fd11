// Package starmap answers adjacency and shortest-path queries over the
// star map graph (§3: "systems joined by jump lanes, unweighted
// undirected graph. Adjacency is the primary query; shortest-path (lane
// count) is the secondary query."). It knows nothing about colonies,
// fleets, or any other aggregate — only ident.SystemId and the lane
// graph, which is why it is its own package rather than a method set on
// model.GameState.
package starmap

import (
	"container/list"

	"houseturn/internal/ident"
	"houseturn/internal/model"
)

// Graph is a read view over the star map's adjacency, built once per
// turn from GameState.Systems (which itself never mutates mid-turn —
// the map topology is static content, not game state).
type Graph struct {
	adjacency map[ident.SystemId][]ident.SystemId
}

// Build constructs a Graph from the system table.
func Build(systems map[ident.SystemId]*model.System) *Graph {
	g := &Graph{adjacency: make(map[ident.SystemId][]ident.SystemId, len(systems))}
	for id, sys := range systems {
		g.adjacency[id] = append([]ident.SystemId(nil), sys.Lanes...)
	}
	return g
}

// Adjacent reports whether two systems are joined by a direct lane.
func (g *Graph) Adjacent(a, b ident.SystemId) bool {
	for _, n := range g.adjacency[a] {
		if n == b {
			return true
		}
	}
	return false
}

// Neighbors returns the systems directly reachable from id.
func (g *Graph) Neighbors(id ident.SystemId) []ident.SystemId {
	return g.adjacency[id]
}

// ShortestPath returns the sequence of systems (inclusive of from and
// to) forming a minimum lane-count path, or nil if to is unreachable
// from from. Ties are broken by the deterministic iteration order of
// the adjacency lists as built (which are themselves built from a
// slice, not a map, so this is stable across runs for the same
// GameState).
func (g *Graph) ShortestPath(from, to ident.SystemId) []ident.SystemId {
	if from == to {
		return []ident.SystemId{from}
	}

	visited := map[ident.SystemId]bool{from: true}
	prev := map[ident.SystemId]ident.SystemId{}

	queue := list.New()
	queue.PushBack(from)

	for queue.Len() > 0 {
		front := queue.Remove(queue.Front()).(ident.SystemId)
		for _, n := range g.adjacency[front] {
			if visited[n] {
				continue
			}
			visited[n] = true
			prev[n] = front
			if n == to {
				return reconstruct(prev, from, to)
			}
			queue.PushBack(n)
		}
	}
	return nil
}

func reconstruct(prev map[ident.SystemId]ident.SystemId, from, to ident.SystemId) []ident.SystemId {
	path := []ident.SystemId{to}
	cur := to
	for cur != from {
		cur = prev[cur]
		path = append(path, cur)
	}
	// reverse
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Distance returns the lane-count distance between from and to, or -1
// if unreachable.
func (g *Graph) Distance(from, to ident.SystemId) int {
	path := g.ShortestPath(from, to)
	if path == nil {
		return -1
	}
	return len(path) - 1
}

// ClosestSystem returns the candidate system closest to from by lane
// count, breaking ties by the order candidates are given (callers pass
// a deterministically-sorted candidate list, e.g. friendly colonies
// sorted by id — see internal/orders SeekHome/Salvage).
func (g *Graph) ClosestSystem(from ident.SystemId, candidates []ident.SystemId) (ident.SystemId, bool) {
	best := ident.SystemId{}
	bestDist := -1
	found := false
	for _, c := range candidates {
		d := g.Distance(from, c)
		if d < 0 {
			continue
		}
		if !found || d < bestDist {
			bestDist = d
			best = c
			found = true
		}
	}
	return best, found
}
