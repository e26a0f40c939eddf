package domain

// Path путь в графе с протолкнутым по нему потоком
type Path struct {
	Nodes []int64
	Flow  int64
}

// ReconstructPath восстанавливает путь source..sink по parent map,
// идя от стока назад. Возвращает nil, если сток недостижим.
func ReconstructPath(parent map[int64]int64, source, sink int64) []int64 {
	if _, ok := parent[sink]; !ok {
		return nil
	}

	reversed := []int64{sink}
	for current := sink; current != source; {
		p, ok := parent[current]
		if !ok || p == current {
			return nil
		}
		reversed = append(reversed, p)
		current = p
	}

	path := make([]int64, len(reversed))
	for i, node := range reversed {
		path[len(path)-1-i] = node
	}
	return path
}

// FindMinCapacityOnPath минимальная остаточная пропускная способность
// вдоль пути; 0 если путь короче двух вершин или ребро отсутствует
func FindMinCapacityOnPath(g *Graph, path []int64) int64 {
	if len(path) < 2 {
		return 0
	}

	bottleneck := int64(-1)
	for i := 1; i < len(path); i++ {
		edge, ok := g.GetEdge(path[i-1], path[i])
		if !ok {
			return 0
		}
		if residual := edge.ResidualCapacity(); bottleneck < 0 || residual < bottleneck {
			bottleneck = residual
		}
	}

	if bottleneck < 0 {
		return 0
	}
	return bottleneck
}

// AugmentPath проталкивает flow вдоль пути: прямые рёбра увеличиваются,
// встречные уменьшаются, сохраняя антисимметрию остаточного графа
func AugmentPath(g *Graph, path []int64, flow int64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 1; i < len(path); i++ {
		from, to := path[i-1], path[i]

		if edge, ok := g.Edges[EdgeKey{From: from, To: to}]; ok {
			edge.CurrentFlow += flow
		}
		if reverse, ok := g.Edges[EdgeKey{From: to, To: from}]; ok {
			reverse.CurrentFlow -= flow
		}
	}
}
