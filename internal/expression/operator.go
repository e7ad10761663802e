package expression

import (
	"fmt"
	"math"
	"sort"

	"github.com/karupanerura/calculator/internal/types"
	"github.com/samber/lo"
)

type Associativity int

const (
	LeftAssociative Associativity = iota
	RightAssociative
)

func (a Associativity) String() string {
	if a == RightAssociative {
		return "right"
	}
	return "left"
}

type Operator struct {
	Symbol        byte
	Precedence    uint8
	Associativity Associativity
	apply         func(left, right float64) (float64, error)
}

func (o Operator) Apply(left, right float64) (float64, error) {
	return o.apply(left, right)
}

var operatorTable = map[byte]Operator{
	'+': {
		Symbol:     '+',
		Precedence: 1,
		apply: func(left, right float64) (float64, error) {
			return left + right, nil
		},
	},
	'-': {
		Symbol:     '-',
		Precedence: 1,
		apply: func(left, right float64) (float64, error) {
			return left - right, nil
		},
	},
	'*': {
		Symbol:     '*',
		Precedence: 2,
		apply: func(left, right float64) (float64, error) {
			return left * right, nil
		},
	},
	'/': {
		Symbol:     '/',
		Precedence: 2,
		apply: func(left, right float64) (float64, error) {
			if right == 0 {
				return 0, &types.Error{
					Tag: types.DivisionByZeroTag,
					Err: fmt.Errorf("%v / %v", left, right),
				}
			}
			return left / right, nil
		},
	},
	'^': {
		Symbol:        '^',
		Precedence:    3,
		Associativity: RightAssociative,
		apply: func(left, right float64) (float64, error) {
			return math.Pow(left, right), nil
		},
	},
}

func LookupOperator(symbol byte) (Operator, bool) {
	op, ok := operatorTable[symbol]
	return op, ok
}

// OperatorSymbols lists the supported symbols, lowest precedence first.
func OperatorSymbols() []byte {
	symbols := lo.Keys(operatorTable)
	sort.Slice(symbols, func(i, j int) bool {
		l, r := operatorTable[symbols[i]], operatorTable[symbols[j]]
		if l.Precedence != r.Precedence {
			return l.Precedence < r.Precedence
		}
		return symbols[i] < symbols[j]
	})
	return symbols
}

func isOperatorSymbol(c byte) bool {
	_, ok := operatorTable[c]
	return ok
}
