package executor

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"

	"github.com/flowforge/engine/pkg/types"
)

// ConditionExecutor routes on the first matching clause of
// { conditions: [{condition: {field, operator, value}, output}], default }.
// field supports dotted paths resolved against the input mapping.
type ConditionExecutor struct{}

func (e *ConditionExecutor) NodeType() types.NodeType { return types.NodeTypeCondition }

var numericStringPattern = regexp.MustCompile(`^(\d+(\.\d*)?|\.\d+)$`)

func (e *ConditionExecutor) Execute(_ ExecutionContext, node types.Node, input interface{}) types.NodeOutcome {
	conditionType := types.GetStringDefault(node.Config, "type", "if")
	clauses, _ := types.GetSlice(node.Config, "conditions")

	var matchedIndex interface{} = nil
	var matchedOutput interface{}

	for i, raw := range clauses {
		clause, ok := types.AsMap(raw)
		if !ok {
			continue
		}
		cond, _ := types.GetMap(clause, "condition")
		if evaluateClause(cond, input) {
			matchedIndex = i
			matchedOutput = clause["output"]
			break
		}
	}

	if matchedIndex == nil {
		matchedOutput = node.Config["default"]
	}

	result := map[string]interface{}{
		"result":           matchedOutput,
		"matched_condition": matchedIndex,
		"input":            input,
		"condition_type":   conditionType,
	}
	if outMap, ok := types.AsMap(matchedOutput); ok {
		for k, v := range outMap {
			result[k] = v
		}
	}

	return types.Success(result, 0)
}

func evaluateClause(cond map[string]interface{}, input interface{}) bool {
	if cond == nil {
		return false
	}
	field, _ := types.GetString(cond, "field")
	operator, _ := types.GetString(cond, "operator")
	clauseValue := promoteNumeric(cond["value"])

	fieldValue, ok := types.GetPath(input, field)
	fieldValue = promoteNumeric(fieldValue)

	if operator == "exists" {
		return ok && fieldValue != nil
	}

	if fieldValue == nil {
		if operator == "!=" {
			return clauseValue != nil
		}
		return false
	}

	return compareValues(fieldValue, operator, clauseValue)
}

// promoteNumeric converts a string consisting entirely of digits (and at
// most one '.') to an int or float64, leaving every other value untouched.
func promoteNumeric(v interface{}) interface{} {
	s, ok := v.(string)
	if !ok || !numericStringPattern.MatchString(s) {
		return v
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return v
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return v
}

func compareValues(field interface{}, operator string, value interface{}) bool {
	switch operator {
	case "==":
		return valuesEqual(field, value)
	case "!=":
		return !valuesEqual(field, value)
	case "contains":
		return containsValue(field, value)
	case ">", "<", ">=", "<=":
		fn, fok := toFloat(field)
		vn, vok := toFloat(value)
		if !fok || !vok {
			return false
		}
		switch operator {
		case ">":
			return fn > vn
		case "<":
			return fn < vn
		case ">=":
			return fn >= vn
		case "<=":
			return fn <= vn
		}
	}
	return false
}

func valuesEqual(a, b interface{}) bool {
	if an, aok := toFloat(a); aok {
		if bn, bok := toFloat(b); bok {
			return an == bn
		}
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// containsValue implements the "contains" operator via expr-lang/expr's
// builtin contains() so string substring checks and slice membership checks
// over arbitrary element types share one evaluation path.
func containsValue(field, value interface{}) bool {
	out, err := expr.Eval("contains(field, value)", map[string]interface{}{"field": field, "value": value})
	if err != nil {
		return false
	}
	b, _ := out.(bool)
	return b
}
