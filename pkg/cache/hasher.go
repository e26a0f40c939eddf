package cache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"netflow/pkg/domain"
)

// GraphHash вычисляет хеш графа для использования как ключ кэша.
// Структурно равные графы дают одинаковый хеш независимо от порядка
// добавления узлов и рёбер.
func GraphHash(g *domain.Graph) string {
	if g == nil {
		return ""
	}

	sum := sha256.Sum256(canonicalBytes(g))
	return hex.EncodeToString(sum[:16])
}

// canonicalBytes сериализует граф в каноническую форму: источник и сток,
// затем узлы и рёбра в порядке возрастания ID
func canonicalBytes(g *domain.Graph) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "s:%d,t:%d;", g.SourceID, g.SinkID)

	nodeIDs := make([]int64, 0, len(g.Nodes))
	for id := range g.Nodes {
		nodeIDs = append(nodeIDs, id)
	}
	sort.Slice(nodeIDs, func(i, j int) bool { return nodeIDs[i] < nodeIDs[j] })

	for _, id := range nodeIDs {
		fmt.Fprintf(&buf, "n:%d:%d;", id, int(g.Nodes[id].Type))
	}

	keys := make([]domain.EdgeKey, 0, len(g.Edges))
	for key := range g.Edges {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].From != keys[j].From {
			return keys[i].From < keys[j].From
		}
		return keys[i].To < keys[j].To
	})

	for _, key := range keys {
		fmt.Fprintf(&buf, "e:%d:%d:%d;", key.From, key.To, g.Edges[key].Capacity)
	}

	return buf.Bytes()
}

// BuildSolveKey строит ключ кэша для результата решения
func BuildSolveKey(graphHash, algorithm string) string {
	return fmt.Sprintf("solve:%s:%s", algorithm, graphHash)
}
