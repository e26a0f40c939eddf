package domain

import (
	"fmt"
	"sync"
)

// NodeType тип узла сети
type NodeType int

const (
	NodeTypeUnspecified NodeType = iota
	NodeTypeTerminal
	NodeTypeWarehouse
	NodeTypeShop
	NodeTypeSource
	NodeTypeSink
)

var nodeTypeNames = map[NodeType]string{
	NodeTypeTerminal:  "terminal",
	NodeTypeWarehouse: "warehouse",
	NodeTypeShop:      "shop",
	NodeTypeSource:    "source",
	NodeTypeSink:      "sink",
}

// String возвращает строковое представление типа узла
func (n NodeType) String() string {
	if name, ok := nodeTypeNames[n]; ok {
		return name
	}
	return "unspecified"
}

// EdgeKey уникальный ключ ребра
type EdgeKey struct {
	From int64
	To   int64
}

// String возвращает строковое представление ключа ребра
func (e EdgeKey) String() string {
	return fmt.Sprintf("%d->%d", e.From, e.To)
}

// Reverse возвращает ключ обратного ребра
func (e EdgeKey) Reverse() EdgeKey {
	return EdgeKey{From: e.To, To: e.From}
}

// Node представляет узел сети
type Node struct {
	ID       int64
	Type     NodeType
	Name     string
	Metadata map[string]string
}

// Clone создаёт глубокую копию узла
func (n *Node) Clone() *Node {
	clone := *n
	clone.Metadata = make(map[string]string, len(n.Metadata))
	for k, v := range n.Metadata {
		clone.Metadata[k] = v
	}
	return &clone
}

// Edge представляет ребро сети.
//
// Пропускные способности целочисленные: алгоритмы потока работают
// без погрешностей с точной арифметикой int64.
type Edge struct {
	From        int64
	To          int64
	Capacity    int64
	CurrentFlow int64
}

// Clone создаёт копию ребра
func (e *Edge) Clone() *Edge {
	clone := *e
	return &clone
}

// Utilization возвращает коэффициент использования ребра
func (e *Edge) Utilization() float64 {
	if e.Capacity <= 0 {
		return 0
	}
	return float64(e.CurrentFlow) / float64(e.Capacity)
}

// IsSaturated проверяет, насыщено ли ребро
func (e *Edge) IsSaturated() bool {
	return e.Capacity > 0 && e.CurrentFlow >= e.Capacity
}

// HasFlow проверяет, есть ли поток на ребре
func (e *Edge) HasFlow() bool {
	return e.CurrentFlow > 0
}

// ResidualCapacity возвращает остаточную пропускную способность
func (e *Edge) ResidualCapacity() int64 {
	return e.Capacity - e.CurrentFlow
}

// Key возвращает ключ ребра
func (e *Edge) Key() EdgeKey {
	return EdgeKey{From: e.From, To: e.To}
}

// Graph представляет граф логистической сети.
//
// Построение только явное: узлы добавляются через AddNode, рёбра через
// AddEdge с проверкой существования концов. Отсутствующее ребро — это
// отсутствующее ребро, а не ребро с нулевой пропускной способностью.
type Graph struct {
	Nodes    map[int64]*Node
	Edges    map[EdgeKey]*Edge
	SourceID int64
	SinkID   int64
	Name     string
	Metadata map[string]string

	// Индекс исходящих соседей для обхода без перебора всех рёбер
	outgoing map[int64][]int64

	mu sync.RWMutex
}

// NewGraph создаёт новый пустой граф
func NewGraph() *Graph {
	return &Graph{
		Nodes:    make(map[int64]*Node),
		Edges:    make(map[EdgeKey]*Edge),
		Metadata: make(map[string]string),
		outgoing: make(map[int64][]int64),
	}
}

// AddNode добавляет узел в граф
func (g *Graph) AddNode(node *Node) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.Nodes[node.ID] = node
}

// checkEdge проверяет ребро перед вставкой; вызывается под блокировкой
func (g *Graph) checkEdge(edge *Edge) error {
	if edge.Capacity < 0 {
		return fmt.Errorf("%w: edge %s capacity %d", ErrNegativeCapacity, edge.Key(), edge.Capacity)
	}
	if edge.From == edge.To {
		return fmt.Errorf("%w: node %d", ErrSelfLoop, edge.From)
	}
	for _, id := range []int64{edge.From, edge.To} {
		if _, ok := g.Nodes[id]; !ok {
			return fmt.Errorf("%w: edge %s references node %d", ErrNodeNotFound, edge.Key(), id)
		}
	}
	return nil
}

// insertEdge вставляет ребро и поддерживает индекс соседей;
// вызывается под блокировкой
func (g *Graph) insertEdge(edge *Edge) {
	g.Edges[edge.Key()] = edge
	g.outgoing[edge.From] = append(g.outgoing[edge.From], edge.To)
}

// AddEdge добавляет ребро в граф.
//
// Ребро с отрицательной пропускной способностью, петля или ссылка на
// несуществующий узел отклоняются без изменения графа. Параллельное
// ребро суммирует пропускную способность с существующим.
func (g *Graph) AddEdge(edge *Edge) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkEdge(edge); err != nil {
		return err
	}

	if existing, ok := g.Edges[edge.Key()]; ok {
		existing.Capacity += edge.Capacity
		return nil
	}

	g.insertEdge(edge)
	return nil
}

// MustAddEdge добавляет ребро и паникует при ошибке.
// Используется при построении заведомо корректных сетей.
func (g *Graph) MustAddEdge(edge *Edge) {
	if err := g.AddEdge(edge); err != nil {
		panic(err)
	}
}

// GetNode возвращает узел по ID
func (g *Graph) GetNode(id int64) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	node, ok := g.Nodes[id]
	return node, ok
}

// GetEdge возвращает ребро между двумя узлами
func (g *Graph) GetEdge(from, to int64) (*Edge, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edge, ok := g.Edges[EdgeKey{From: from, To: to}]
	return edge, ok
}

// GetOutgoing возвращает исходящие соседи узла
func (g *Graph) GetOutgoing(nodeID int64) []int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.outgoing[nodeID]
}

// NodeCount возвращает количество узлов
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.Nodes)
}

// EdgeCount возвращает количество рёбер
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.Edges)
}

// Clone создаёт глубокую копию графа
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()

	clone := NewGraph()
	clone.SourceID = g.SourceID
	clone.SinkID = g.SinkID
	clone.Name = g.Name

	for k, v := range g.Metadata {
		clone.Metadata[k] = v
	}
	for id, node := range g.Nodes {
		clone.Nodes[id] = node.Clone()
	}
	for _, edge := range g.Edges {
		clone.insertEdge(edge.Clone())
	}

	return clone
}

// GetNodesByType возвращает узлы определённого типа
func (g *Graph) GetNodesByType(nodeType NodeType) []*Node {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var result []*Node
	for _, node := range g.Nodes {
		if node.Type == nodeType {
			result = append(result, node)
		}
	}
	return result
}

// ApplyFlow переносит значения из карты потока на рёбра графа.
// Отрицательные значения (обратные направления) игнорируются.
func (g *Graph) ApplyFlow(flow FlowMap) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for key, edge := range g.Edges {
		if f := flow[key]; f > 0 {
			edge.CurrentFlow = f
		} else {
			edge.CurrentFlow = 0
		}
	}
}

// TotalFlow возвращает общий поток из источника
func (g *Graph) TotalFlow() int64 {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var total int64
	for key, edge := range g.Edges {
		if key.From == g.SourceID {
			total += edge.CurrentFlow
		}
	}
	return total
}

// Validate проверяет корректность графа и возвращает все найденные
// проблемы разом, а не первую встреченную
func (g *Graph) Validate() []error {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var errs []error

	if _, ok := g.Nodes[g.SourceID]; !ok {
		errs = append(errs, fmt.Errorf("source node %d not found", g.SourceID))
	}
	if _, ok := g.Nodes[g.SinkID]; !ok {
		errs = append(errs, fmt.Errorf("sink node %d not found", g.SinkID))
	}
	if g.SourceID == g.SinkID {
		errs = append(errs, fmt.Errorf("source and sink cannot be the same node"))
	}

	for key, edge := range g.Edges {
		for _, id := range []int64{edge.From, edge.To} {
			if _, ok := g.Nodes[id]; !ok {
				errs = append(errs, fmt.Errorf("edge %s references non-existent node %d", key, id))
			}
		}
		if edge.From == edge.To {
			errs = append(errs, fmt.Errorf("self-loop detected at node %d", edge.From))
		}
		if edge.Capacity < 0 {
			errs = append(errs, fmt.Errorf("edge %s has negative capacity", key))
		}
	}

	return errs
}
