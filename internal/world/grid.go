package world

import (
	"github.com/dominikbraun/graph"

	"eventide/internal/scripting/types"
)

// grid is the passability graph of the map: one vertex per open tile,
// edges between orthogonal neighbours
type grid struct {
	width, height int
	g             graph.Graph[int, int]
	adj           map[int]map[int]graph.Edge[int]
}

func newGrid(width, height int, blocked map[types.Position]bool) (*grid, error) {
	gr := &grid{width: width, height: height, g: graph.New(graph.IntHash)}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := types.Position{X: x, Y: y}
			if blocked[pos] {
				continue
			}
			if err := gr.g.AddVertex(gr.id(pos)); err != nil {
				return nil, err
			}
		}
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			pos := types.Position{X: x, Y: y}
			if blocked[pos] {
				continue
			}
			for _, n := range []types.Position{{X: x + 1, Y: y}, {X: x, Y: y + 1}} {
				if n.X >= width || n.Y >= height || blocked[n] {
					continue
				}
				if err := gr.g.AddEdge(gr.id(pos), gr.id(n)); err != nil {
					return nil, err
				}
			}
		}
	}
	adj, err := gr.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	gr.adj = adj
	return gr, nil
}

func (gr *grid) id(p types.Position) int {
	return p.Y*gr.width + p.X
}

func (gr *grid) pos(id int) types.Position {
	return types.Position{X: id % gr.width, Y: id / gr.width}
}

// nearest walks outwards from start one ring at a time and returns every
// tile accepted by open in the first ring that has any, excluding start
// itself. The result is sorted by row then column.
func (gr *grid) nearest(start types.Position, open func(types.Position) bool) []types.Position {
	if start.X < 0 || start.Y < 0 || start.X >= gr.width || start.Y >= gr.height {
		return nil
	}
	if _, ok := gr.adj[gr.id(start)]; !ok {
		return nil
	}
	seen := map[int]bool{gr.id(start): true}
	frontier := []int{gr.id(start)}
	for len(frontier) > 0 {
		var next []int
		for _, id := range frontier {
			for n := range gr.adj[id] {
				if !seen[n] {
					seen[n] = true
					next = append(next, n)
				}
			}
		}
		var found []types.Position
		for _, id := range next {
			if p := gr.pos(id); open(p) {
				found = append(found, p)
			}
		}
		if len(found) > 0 {
			sortPositions(found)
			return found
		}
		frontier = next
	}
	return nil
}
