package engine

import (
	"fmt"
	"reflect"
)

type evalEnv struct {
	src       string
	vars      map[string]any
	remaining int
}

// step consumes one unit of the evaluation budget.
func (env *evalEnv) step() error {
	env.remaining--
	if env.remaining < 0 {
		return &ExpressionError{Expression: env.src, Message: "step budget exhausted"}
	}
	return nil
}

type exprNode interface {
	eval(env *evalEnv) (any, error)
}

type literalNode struct {
	value any
}

func (n *literalNode) eval(env *evalEnv) (any, error) {
	if err := env.step(); err != nil {
		return nil, err
	}
	return n.value, nil
}

type identNode struct {
	name string
}

func (n *identNode) eval(env *evalEnv) (any, error) {
	if err := env.step(); err != nil {
		return nil, err
	}
	value, ok := env.vars[n.name]
	if !ok {
		return nil, &ExpressionError{Expression: env.src, Message: fmt.Sprintf("unbound identifier %q", n.name)}
	}
	return value, nil
}

type listNode struct {
	elems []exprNode
}

func (n *listNode) eval(env *evalEnv) (any, error) {
	if err := env.step(); err != nil {
		return nil, err
	}
	values := make([]any, len(n.elems))
	for i, elem := range n.elems {
		v, err := elem.eval(env)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

type notNode struct {
	operand exprNode
}

func (n *notNode) eval(env *evalEnv) (any, error) {
	if err := env.step(); err != nil {
		return nil, err
	}
	v, err := n.operand.eval(env)
	if err != nil {
		return nil, err
	}
	b, ok := v.(bool)
	if !ok {
		return nil, &ExpressionError{Expression: env.src, Message: fmt.Sprintf("not requires a boolean operand, got %T", v)}
	}
	return !b, nil
}

type binaryNode struct {
	op    string
	left  exprNode
	right exprNode
}

func (n *binaryNode) eval(env *evalEnv) (any, error) {
	if err := env.step(); err != nil {
		return nil, err
	}

	left, err := n.left.eval(env)
	if err != nil {
		return nil, err
	}

	// Boolean connectives short-circuit.
	if n.op == "and" || n.op == "or" {
		lb, ok := left.(bool)
		if !ok {
			return nil, &ExpressionError{Expression: env.src, Message: fmt.Sprintf("%s requires boolean operands, got %T", n.op, left)}
		}
		if n.op == "and" && !lb {
			return false, nil
		}
		if n.op == "or" && lb {
			return true, nil
		}
		right, err := n.right.eval(env)
		if err != nil {
			return nil, err
		}
		rb, ok := right.(bool)
		if !ok {
			return nil, &ExpressionError{Expression: env.src, Message: fmt.Sprintf("%s requires boolean operands, got %T", n.op, right)}
		}
		return rb, nil
	}

	right, err := n.right.eval(env)
	if err != nil {
		return nil, err
	}

	result, err := evaluateOperator(n.op, left, right)
	if err != nil {
		return nil, &ExpressionError{Expression: env.src, Message: err.Error()}
	}
	return result, nil
}

// evaluateOperator evaluates a comparison between two resolved values.
func evaluateOperator(op string, left, right any) (bool, error) {
	switch op {
	case "==":
		return evaluateEqual(left, right)
	case "!=":
		equal, err := evaluateEqual(left, right)
		return !equal, err
	case "<":
		l, r, err := toNumeric(left, right)
		if err != nil {
			return false, err
		}
		return l < r, nil
	case "<=":
		l, r, err := toNumeric(left, right)
		if err != nil {
			return false, err
		}
		return l <= r, nil
	case ">":
		l, r, err := toNumeric(left, right)
		if err != nil {
			return false, err
		}
		return l > r, nil
	case ">=":
		l, r, err := toNumeric(left, right)
		if err != nil {
			return false, err
		}
		return l >= r, nil
	case "in":
		return evaluateIn(left, right)
	default:
		return false, fmt.Errorf("unknown operator: %q", op)
	}
}

// evaluateEqual checks if two values are equal. Numeric comparison is
// tried first so int and float64 representations of the same value
// compare equal.
func evaluateEqual(left, right any) (bool, error) {
	if left == nil && right == nil {
		return true, nil
	}
	if left == nil || right == nil {
		return false, nil
	}

	leftNum, leftErr := convertToFloat64(left)
	rightNum, rightErr := convertToFloat64(right)
	if leftErr == nil && rightErr == nil {
		return leftNum == rightNum, nil
	}

	return reflect.DeepEqual(left, right), nil
}

// evaluateIn checks if left is an element of the right-hand list.
func evaluateIn(left, right any) (bool, error) {
	rightVal := reflect.ValueOf(right)
	if rightVal.Kind() != reflect.Slice && rightVal.Kind() != reflect.Array {
		return false, fmt.Errorf("in operator requires a list on the right, got %T", right)
	}

	for i := 0; i < rightVal.Len(); i++ {
		elem := rightVal.Index(i).Interface()
		if equal, _ := evaluateEqual(left, elem); equal {
			return true, nil
		}
	}
	return false, nil
}

// toNumeric converts both operands to float64 for ordering comparisons.
func toNumeric(left, right any) (float64, float64, error) {
	leftNum, err := convertToFloat64(left)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot convert left operand to number: %w", err)
	}

	rightNum, err := convertToFloat64(right)
	if err != nil {
		return 0, 0, fmt.Errorf("cannot convert right operand to number: %w", err)
	}

	return leftNum, rightNum, nil
}

// convertToFloat64 converts a value to float64.
func convertToFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int:
		return float64(val), nil
	case int8:
		return float64(val), nil
	case int16:
		return float64(val), nil
	case int32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case uint:
		return float64(val), nil
	case uint8:
		return float64(val), nil
	case uint16:
		return float64(val), nil
	case uint32:
		return float64(val), nil
	case uint64:
		return float64(val), nil
	default:
		return 0, fmt.Errorf("cannot convert %T to float64", v)
	}
}
