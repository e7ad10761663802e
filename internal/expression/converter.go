package expression

import (
	"fmt"

	"github.com/karupanerura/calculator/internal/types"
)

// toRPN reorders infix tokens into postfix order with the shunting-yard algorithm.
func toRPN(tokens []token) ([]token, error) {
	output := make([]token, 0, len(tokens))
	var stack []token

	for _, tok := range tokens {
		switch t := tok.(type) {
		case numberToken:
			output = append(output, t)

		case operatorToken:
			op := mustLookupOperator(t.symbol)
			for len(stack) != 0 {
				top, isOP := stack[len(stack)-1].(operatorToken)
				if !isOP {
					break
				}

				topOp := mustLookupOperator(top.symbol)
				if topOp.Precedence < op.Precedence {
					break
				}
				if topOp.Precedence == op.Precedence && op.Associativity == RightAssociative {
					break
				}

				output = append(output, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, t)

		case parenToken:
			if t.isOpen() {
				stack = append(stack, t)
				continue
			}

			foundOpening := false
			for len(stack) != 0 {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if isOpenParen(top) {
					foundOpening = true
					break
				}
				output = append(output, top)
			}
			if !foundOpening {
				return nil, &types.Error{
					Tag: types.MismatchedParenthesesTag,
					Err: fmt.Errorf("unexpected %q at %d", t.String(), t.Pos()+1),
				}
			}

		default:
			panic(fmt.Sprintf("should not reach here: unknown token %T", tok))
		}
	}

	for len(stack) != 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, isParen := top.(parenToken); isParen {
			return nil, &types.Error{
				Tag: types.MismatchedParenthesesTag,
				Err: fmt.Errorf("unclosed %q at %d", top.String(), top.Pos()+1),
			}
		}
		output = append(output, top)
	}

	return output, nil
}

func mustLookupOperator(symbol byte) Operator {
	op, ok := LookupOperator(symbol)
	if !ok {
		panic(fmt.Sprintf("should not reach here: unknown operator %q", symbol))
	}
	return op
}
