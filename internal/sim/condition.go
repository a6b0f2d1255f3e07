package sim

import (
	"log/slog"
	"math"
	"strconv"
	"strings"
)

const conditionEpsilon = 0.01

// EvalCondition evaluates the three-token micro-grammar
// "resource_name operator value" against the ledger. Operators are
// < > <= >= == !=, with equality checked inside a 0.01 epsilon. Malformed
// strings and unknown resources evaluate to false with a logged warning,
// never an error: a broken content string must not take the session down.
func EvalCondition(expr string, ledger *Ledger) bool {
	fields := strings.Fields(expr)
	if len(fields) != 3 {
		slog.Warn("malformed condition", "condition", expr)
		return false
	}

	resource, ok := ParseResource(fields[0])
	if !ok {
		slog.Warn("condition references unknown resource", "condition", expr, "resource", fields[0])
		return false
	}

	threshold, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		slog.Warn("condition has non-numeric threshold", "condition", expr)
		return false
	}

	value := ledger.Get(resource)
	switch fields[1] {
	case "<":
		return value < threshold
	case ">":
		return value > threshold
	case "<=":
		return value <= threshold
	case ">=":
		return value >= threshold
	case "==":
		return math.Abs(value-threshold) <= conditionEpsilon
	case "!=":
		return math.Abs(value-threshold) > conditionEpsilon
	default:
		slog.Warn("condition has unknown operator", "condition", expr, "operator", fields[1])
		return false
	}
}
