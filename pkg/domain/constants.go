package domain

import "errors"

// MaxEdgeCapacity обозначает «фактически неограниченное» ребро.
//
// При не более чем 1<<22 насыщенных рёбрах из источника суммарный поток
// не превышает 1<<62, поэтому int64 не переполняется.
const MaxEdgeCapacity int64 = 1 << 40

// Идентификаторы виртуальных узлов
const (
	VirtualNodeThreshold int64 = 0
	SuperSourceID        int64 = -1
	SuperSinkID          int64 = -2
)

// Утилизация и bottleneck пороги
const (
	DefaultBottleneckThreshold   = 0.9
	CriticalUtilizationThreshold = 0.99
	HighUtilizationThreshold     = 0.95
	MediumUtilizationThreshold   = 0.90
	LowUtilizationThreshold      = 0.80
)

// Ошибки построения графа
var (
	ErrNegativeCapacity = errors.New("negative capacity")
	ErrSelfLoop         = errors.New("self-loop not allowed")
	ErrNodeNotFound     = errors.New("node not found")
)

// IsVirtualNode проверяет, является ли узел виртуальным
func IsVirtualNode(nodeID int64) bool {
	return nodeID < VirtualNodeThreshold
}

// IsUnlimited проверяет, является ли пропускная способность сентинелом
func IsUnlimited(capacity int64) bool {
	return capacity >= MaxEdgeCapacity
}

// MinInt64 возвращает минимум двух int64
func MinInt64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}

// MaxInt64 возвращает максимум двух int64
func MaxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
