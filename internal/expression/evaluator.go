package expression

import (
	"fmt"

	"github.com/karupanerura/calculator/internal/types"
)

func evaluateRPN(rpn []token) (float64, error) {
	stack := make([]float64, 0, len(rpn))

	for _, tok := range rpn {
		switch t := tok.(type) {
		case numberToken:
			stack = append(stack, t.value)

		case operatorToken:
			if len(stack) < 2 {
				return 0, &types.Error{
					Tag: types.MalformedExpressionTag,
					Err: fmt.Errorf("operator %q at %d: missing operand", t.symbol, t.Pos()+1),
				}
			}
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]

			v, err := mustLookupOperator(t.symbol).Apply(left, right)
			if err != nil {
				return 0, fmt.Errorf("operator %q at %d: %w", t.symbol, t.Pos()+1, err)
			}
			stack = append(stack, v)

		default:
			panic(fmt.Sprintf("should not reach here: unexpected token %T in RPN", tok))
		}
	}

	if len(stack) != 1 {
		return 0, &types.Error{
			Tag: types.MalformedExpressionTag,
			Err: fmt.Errorf("%d values left after evaluation", len(stack)),
		}
	}
	return stack[0], nil
}
