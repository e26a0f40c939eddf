package domain

import "sort"

// FlowMap карта потока по рёбрам.
//
// Инвариант антисимметрии: flow[(u,v)] == -flow[(v,u)] для каждой пары,
// присутствующей в карте. Положительное значение — поток в направлении
// ребра, отрицательное — зеркальная запись обратного направления.
type FlowMap map[EdgeKey]int64

// Flow возвращает поток по направлению (from, to)
func (f FlowMap) Flow(from, to int64) int64 {
	return f[EdgeKey{From: from, To: to}]
}

// Add увеличивает поток по направлению (from, to) с поддержкой антисимметрии
func (f FlowMap) Add(from, to int64, amount int64) {
	f[EdgeKey{From: from, To: to}] += amount
	f[EdgeKey{From: to, To: from}] -= amount
}

// OutFlow возвращает суммарный положительный поток, исходящий из узла
func (f FlowMap) OutFlow(node int64) int64 {
	var total int64
	for key, v := range f {
		if key.From == node && v > 0 {
			total += v
		}
	}
	return total
}

// NetFlow возвращает чистый поток через узел (вход минус выход).
// Для всех узлов кроме источника и стока должен быть равен нулю.
func (f FlowMap) NetFlow(node int64) int64 {
	var net int64
	for key, v := range f {
		if v <= 0 {
			continue
		}
		if key.To == node {
			net += v
		}
		if key.From == node {
			net -= v
		}
	}
	return net
}

// PositiveEdges возвращает ключи рёбер с положительным потоком
// в детерминированном порядке
func (f FlowMap) PositiveEdges() []EdgeKey {
	keys := make([]EdgeKey, 0, len(f)/2)
	for key, v := range f {
		if v > 0 {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}
		return keys[i].To < keys[j].To
	})
	return keys
}

// Clone создаёт копию карты потока
func (f FlowMap) Clone() FlowMap {
	clone := make(FlowMap, len(f))
	for k, v := range f {
		clone[k] = v
	}
	return clone
}
