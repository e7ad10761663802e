package defaults

import (
	"fmt"
	"sort"

	"github.com/karupanerura/calculator/internal/expression"
	"github.com/karupanerura/calculator/internal/types"
	"github.com/samber/lo"
)

// Operation folds an operand list with one operator of the expression table.
type Operation struct {
	Name   string
	Symbol byte
}

var Operations = aggregateOperationsToMap(
	Operation{Name: "add", Symbol: '+'},
	Operation{Name: "sub", Symbol: '-'},
	Operation{Name: "mul", Symbol: '*'},
	Operation{Name: "div", Symbol: '/'},
	Operation{Name: "pow", Symbol: '^'},
)

func aggregateOperationsToMap(ops ...Operation) map[string]Operation {
	m := make(map[string]Operation, len(ops))
	for _, op := range ops {
		if _, duplicated := m[op.Name]; duplicated {
			panic(fmt.Sprintf("duplicated operation name: %s", op.Name))
		}
		if _, ok := expression.LookupOperator(op.Symbol); !ok {
			panic(fmt.Sprintf("unknown operator for %s: %q", op.Name, op.Symbol))
		}
		m[op.Name] = op
	}
	return m
}

func OperationNames() []string {
	names := lo.Keys(Operations)
	sort.Strings(names)
	return names
}

func LookupOperation(name string) (Operation, error) {
	op, ok := Operations[name]
	if !ok {
		return Operation{}, &types.Error{
			Tag:   types.UnsupportedOperationTag,
			Err:   fmt.Errorf("%q is not one of %v", name, OperationNames()),
			Extra: map[string]any{"operation": name},
		}
	}
	return op, nil
}

// Fold applies the named operation from left to right across operands.
func Fold(name string, operands []float64) (float64, error) {
	op, err := LookupOperation(name)
	if err != nil {
		return 0, err
	}
	return op.Fold(operands)
}

func (o Operation) Fold(operands []float64) (float64, error) {
	if len(operands) < 2 {
		return 0, &types.Error{
			Tag: types.InsufficientOperandsTag,
			Err: fmt.Errorf("%s: got %d operands", o.Name, len(operands)),
		}
	}

	operator, _ := expression.LookupOperator(o.Symbol)
	result := operands[0]
	for i, v := range operands[1:] {
		var err error
		result, err = operator.Apply(result, v)
		if err != nil {
			return 0, fmt.Errorf("%s operands[%d]: %w", o.Name, i+1, err)
		}
	}
	return result, nil
}
