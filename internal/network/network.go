// Package network строит эталонную логистическую сеть:
// суперисток → терминалы → склады → магазины → суперсток.
package network

import (
	"netflow/pkg/domain"
)

// Идентификаторы узлов эталонной сети
const (
	SourceID int64 = 100
	SinkID   int64 = 200

	Terminal1ID int64 = 1
	Terminal2ID int64 = 2

	Warehouse1ID int64 = 11
	Warehouse2ID int64 = 12
	Warehouse3ID int64 = 13
	Warehouse4ID int64 = 14

	shopBaseID int64 = 20
	ShopCount        = 14
)

// ShopID возвращает идентификатор магазина по номеру (1..ShopCount)
func ShopID(n int) int64 {
	return shopBaseID + int64(n)
}

// IsShop проверяет, является ли узел магазином
func IsShop(id int64) bool {
	return id > shopBaseID && id <= shopBaseID+ShopCount
}

// TerminalIDs возвращает идентификаторы терминалов
func TerminalIDs() []int64 {
	return []int64{Terminal1ID, Terminal2ID}
}

// WarehouseIDs возвращает идентификаторы складов
func WarehouseIDs() []int64 {
	return []int64{Warehouse1ID, Warehouse2ID, Warehouse3ID, Warehouse4ID}
}

// ShopIDs возвращает идентификаторы магазинов
func ShopIDs() []int64 {
	ids := make([]int64, 0, ShopCount)
	for n := 1; n <= ShopCount; n++ {
		ids = append(ids, ShopID(n))
	}
	return ids
}

// Interior возвращает множество промежуточных узлов для декомпозиции
// потока: пути от терминала к магазинам проходят только через склады.
func Interior() map[int64]bool {
	interior := make(map[int64]bool, 4)
	for _, id := range WarehouseIDs() {
		interior[id] = true
	}
	return interior
}

// Build строит эталонную сеть с точными пропускными способностями.
//
// Рёбра магазин → суперсток получают сентинел MaxEdgeCapacity:
// спрос магазинов не ограничивает поток.
func Build() *domain.Graph {
	g := domain.NewGraph()
	g.Name = "logistics-reference"
	g.SourceID = SourceID
	g.SinkID = SinkID

	g.AddNode(&domain.Node{ID: SourceID, Type: domain.NodeTypeSource, Name: "S"})
	g.AddNode(&domain.Node{ID: SinkID, Type: domain.NodeTypeSink, Name: "T"})

	g.AddNode(&domain.Node{ID: Terminal1ID, Type: domain.NodeTypeTerminal, Name: "Terminal 1"})
	g.AddNode(&domain.Node{ID: Terminal2ID, Type: domain.NodeTypeTerminal, Name: "Terminal 2"})

	g.AddNode(&domain.Node{ID: Warehouse1ID, Type: domain.NodeTypeWarehouse, Name: "Warehouse 1"})
	g.AddNode(&domain.Node{ID: Warehouse2ID, Type: domain.NodeTypeWarehouse, Name: "Warehouse 2"})
	g.AddNode(&domain.Node{ID: Warehouse3ID, Type: domain.NodeTypeWarehouse, Name: "Warehouse 3"})
	g.AddNode(&domain.Node{ID: Warehouse4ID, Type: domain.NodeTypeWarehouse, Name: "Warehouse 4"})

	shopNames := [ShopCount]string{
		"Shop 1", "Shop 2", "Shop 3", "Shop 4", "Shop 5", "Shop 6", "Shop 7",
		"Shop 8", "Shop 9", "Shop 10", "Shop 11", "Shop 12", "Shop 13", "Shop 14",
	}
	for n := 1; n <= ShopCount; n++ {
		g.AddNode(&domain.Node{ID: ShopID(n), Type: domain.NodeTypeShop, Name: shopNames[n-1]})
	}

	// Суперисток → терминалы: ёмкость равна суммарной ёмкости исходящих рёбер
	g.MustAddEdge(&domain.Edge{From: SourceID, To: Terminal1ID, Capacity: 60})
	g.MustAddEdge(&domain.Edge{From: SourceID, To: Terminal2ID, Capacity: 55})

	// Терминалы → склады
	g.MustAddEdge(&domain.Edge{From: Terminal1ID, To: Warehouse1ID, Capacity: 25})
	g.MustAddEdge(&domain.Edge{From: Terminal1ID, To: Warehouse2ID, Capacity: 20})
	g.MustAddEdge(&domain.Edge{From: Terminal1ID, To: Warehouse3ID, Capacity: 15})
	g.MustAddEdge(&domain.Edge{From: Terminal2ID, To: Warehouse3ID, Capacity: 15})
	g.MustAddEdge(&domain.Edge{From: Terminal2ID, To: Warehouse4ID, Capacity: 30})
	g.MustAddEdge(&domain.Edge{From: Terminal2ID, To: Warehouse2ID, Capacity: 10})

	// Склады → магазины
	g.MustAddEdge(&domain.Edge{From: Warehouse1ID, To: ShopID(1), Capacity: 15})
	g.MustAddEdge(&domain.Edge{From: Warehouse1ID, To: ShopID(2), Capacity: 10})
	g.MustAddEdge(&domain.Edge{From: Warehouse1ID, To: ShopID(3), Capacity: 20})
	g.MustAddEdge(&domain.Edge{From: Warehouse2ID, To: ShopID(4), Capacity: 15})
	g.MustAddEdge(&domain.Edge{From: Warehouse2ID, To: ShopID(5), Capacity: 10})
	g.MustAddEdge(&domain.Edge{From: Warehouse2ID, To: ShopID(6), Capacity: 25})
	g.MustAddEdge(&domain.Edge{From: Warehouse3ID, To: ShopID(7), Capacity: 20})
	g.MustAddEdge(&domain.Edge{From: Warehouse3ID, To: ShopID(8), Capacity: 15})
	g.MustAddEdge(&domain.Edge{From: Warehouse3ID, To: ShopID(9), Capacity: 10})
	g.MustAddEdge(&domain.Edge{From: Warehouse4ID, To: ShopID(10), Capacity: 20})
	g.MustAddEdge(&domain.Edge{From: Warehouse4ID, To: ShopID(11), Capacity: 10})
	g.MustAddEdge(&domain.Edge{From: Warehouse4ID, To: ShopID(12), Capacity: 15})
	g.MustAddEdge(&domain.Edge{From: Warehouse4ID, To: ShopID(13), Capacity: 5})
	g.MustAddEdge(&domain.Edge{From: Warehouse4ID, To: ShopID(14), Capacity: 10})

	// Магазины → суперсток
	for n := 1; n <= ShopCount; n++ {
		g.MustAddEdge(&domain.Edge{From: ShopID(n), To: SinkID, Capacity: domain.MaxEdgeCapacity})
	}

	return g
}

// BuildWithDemands строит эталонную сеть с ограниченным спросом магазинов.
// Магазины, отсутствующие в demands, спроса не имеют: их ребро к
// суперстоку получает нулевую ёмкость.
func BuildWithDemands(demands map[int64]int64) *domain.Graph {
	g := Build()

	for n := 1; n <= ShopCount; n++ {
		shop := ShopID(n)
		edge, ok := g.GetEdge(shop, SinkID)
		if !ok {
			continue
		}
		demand, has := demands[shop]
		if !has {
			edge.Capacity = 0
			continue
		}
		edge.Capacity = demand
	}

	return g
}
