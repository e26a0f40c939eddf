package domain

// BFSResult результат BFS обхода
type BFSResult struct {
	Found   bool
	Parent  map[int64]int64
	Visited map[int64]bool
	Level   map[int64]int
}

// edgePredicate решает, проходимо ли ребро при обходе
type edgePredicate func(e *Edge) bool

func residualPassable(e *Edge) bool { return e.ResidualCapacity() > 0 }
func capacityPassable(e *Edge) bool { return e.Capacity > 0 }

// BFS ищет кратчайший по числу рёбер путь от source до sink,
// проходя только рёбра с положительной остаточной пропускной способностью
func BFS(g *Graph, source, sink int64) *BFSResult {
	result := &BFSResult{
		Parent:  map[int64]int64{source: source},
		Visited: map[int64]bool{source: true},
		Level:   map[int64]int{source: 0},
	}

	queue := []int64{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, v := range passableNeighbors(g, u, residualPassable) {
			if result.Visited[v] {
				continue
			}

			result.Parent[v] = u
			result.Visited[v] = true
			result.Level[v] = result.Level[u] + 1

			if v == sink {
				result.Found = true
				return result
			}
			queue = append(queue, v)
		}
	}

	return result
}

// BFSReachable возвращает вершины, достижимые из source по рёбрам
// с положительной пропускной способностью
func BFSReachable(g *Graph, source int64) map[int64]bool {
	visited := map[int64]bool{source: true}

	queue := []int64{source}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, v := range passableNeighbors(g, u, capacityPassable) {
			if !visited[v] {
				visited[v] = true
				queue = append(queue, v)
			}
		}
	}

	return visited
}

// passableNeighbors соседи вершины по проходимым рёбрам
func passableNeighbors(g *Graph, u int64, passable edgePredicate) []int64 {
	outgoing := g.GetOutgoing(u)
	neighbors := outgoing[:0:0]
	for _, v := range outgoing {
		if edge, ok := g.GetEdge(u, v); ok && passable(edge) {
			neighbors = append(neighbors, v)
		}
	}
	return neighbors
}

// IsConnected проверяет, существует ли путь от source к sink
func IsConnected(g *Graph) bool {
	return BFSReachable(g, g.SourceID)[g.SinkID]
}
