package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Ключи span-атрибутов, единые для всего сервиса
const (
	AttrGraphNodes    = attribute.Key("graph.nodes")
	AttrGraphEdges    = attribute.Key("graph.edges")
	AttrGraphSourceID = attribute.Key("graph.source_id")
	AttrGraphSinkID   = attribute.Key("graph.sink_id")

	AttrAlgorithm  = attribute.Key("algorithm.name")
	AttrIterations = attribute.Key("algorithm.iterations")
	AttrMaxFlow    = attribute.Key("algorithm.max_flow")
	AttrFlowStatus = attribute.Key("algorithm.status")

	AttrAttributionEntry = attribute.Key("attribution.entry_id")
	AttrTerminalsCount   = attribute.Key("attribution.terminals")
	AttrAttributedFlow   = attribute.Key("attribution.attributed")
	AttrUnattributedFlow = attribute.Key("attribution.unattributed")

	AttrValidationErrors = attribute.Key("validation.errors")
	AttrValidationPassed = attribute.Key("validation.passed")
)

// GraphAttributes возвращает атрибуты графа
func GraphAttributes(nodes, edges int, sourceID, sinkID int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrGraphNodes.Int(nodes),
		AttrGraphEdges.Int(edges),
		AttrGraphSourceID.Int64(sourceID),
		AttrGraphSinkID.Int64(sinkID),
	}
}

// SolveAttributes возвращает атрибуты расчёта потока
func SolveAttributes(algorithm string, iterations int, maxFlow int64, status string) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrAlgorithm.String(algorithm),
		AttrIterations.Int(iterations),
		AttrMaxFlow.Int64(maxFlow),
		AttrFlowStatus.String(status),
	}
}

// AttributionAttributes возвращает атрибуты декомпозиции потока
func AttributionAttributes(entryID int64, terminals int, attributed, unattributed int64) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrAttributionEntry.Int64(entryID),
		AttrTerminalsCount.Int(terminals),
		AttrAttributedFlow.Int64(attributed),
		AttrUnattributedFlow.Int64(unattributed),
	}
}

// ValidationAttributes возвращает атрибуты валидации
func ValidationAttributes(errorsCount int, passed bool) []attribute.KeyValue {
	return []attribute.KeyValue{
		AttrValidationErrors.Int(errorsCount),
		AttrValidationPassed.Bool(passed),
	}
}
