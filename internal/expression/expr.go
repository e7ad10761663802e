package expression

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/pp"
	"github.com/karupanerura/calculator/internal/types"
	"github.com/samber/lo"
)

var parserDebugLog = false

func init() {
	if v, err := strconv.ParseBool(os.Getenv("CALCULATOR_EXPRESSION_DEBUG")); v && err == nil {
		parserDebugLog = true
	}
}

// Expr is a parsed expression held in postfix order.
type Expr struct {
	Source string
	rpn    []token
}

func (e *Expr) String() string {
	return e.Source
}

// RPN renders the postfix form, e.g. "3 4 2 1 - * +".
func (e *Expr) RPN() string {
	return strings.Join(lo.Map(e.rpn, func(t token, _ int) string {
		return t.String()
	}), " ")
}

func (e *Expr) Evaluate() (float64, error) {
	return evaluateRPN(e.rpn)
}

type parser struct {
	source string
	debug  bool
}

func ParseExpr(source string) (*Expr, error) {
	p := &parser{source: strings.TrimSpace(source), debug: parserDebugLog}
	return p.parse()
}

// Evaluate parses and evaluates source in one go.
func Evaluate(source string) (float64, error) {
	expr, err := ParseExpr(source)
	if err != nil {
		return 0, err
	}
	return expr.Evaluate()
}

func (p *parser) parse() (*Expr, error) {
	if p.source == "" {
		return nil, &types.Error{Tag: types.EmptyExpressionTag}
	}

	tokens, err := newLexer(p.source).tokenize()
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &types.Error{Tag: types.EmptyExpressionTag}
	}
	if p.debug {
		log.Printf("source: %q", p.source)
		pp.Fprintln(os.Stderr, tokens)
	}

	switch last := tokens[len(tokens)-1].(type) {
	case operatorToken:
		return nil, &types.Error{
			Tag: types.TrailingOperatorTag,
			Err: fmt.Errorf("expression ends with %q at %d: expr=%q", last.String(), last.Pos()+1, p.source),
		}
	case parenToken:
		if last.isOpen() {
			return nil, &types.Error{
				Tag: types.TrailingOpenParenTag,
				Err: fmt.Errorf("expression ends with %q at %d: expr=%q", last.String(), last.Pos()+1, p.source),
			}
		}
	}

	if opening, closing := strings.Count(p.source, "("), strings.Count(p.source, ")"); opening != closing {
		return nil, &types.Error{
			Tag: types.MismatchedParenthesesTag,
			Err: fmt.Errorf("%d opening and %d closing parentheses: expr=%q", opening, closing, p.source),
		}
	}

	rpn, err := toRPN(tokens)
	if err != nil {
		return nil, err
	}

	expr := &Expr{
		Source: p.source,
		rpn:    rpn,
	}
	if p.debug {
		log.Printf("rpn: %s", expr.RPN())
	}
	return expr, nil
}

// Message translates an evaluation failure into a message for people.
func Message(err error) string {
	var e *types.Error
	if !errors.As(err, &e) {
		return "Unable to evaluate expression."
	}

	switch e.Tag {
	case types.EmptyExpressionTag:
		return "Enter an expression to evaluate."
	case types.UnsupportedCharacterTag:
		if c, ok := e.Extra["character"].(string); ok {
			return fmt.Sprintf("Unsupported character '%s'.", c)
		}
		return "Unsupported character."
	case types.MalformedNumberTag:
		return "Malformed number."
	case types.InvalidOperatorSequenceTag:
		return "Invalid sequence: operator cannot follow another operator."
	case types.MismatchedParenthesesTag:
		return "Mismatched parentheses."
	case types.TrailingOperatorTag:
		return "Expression cannot end with an operator."
	case types.TrailingOpenParenTag:
		return "Expression cannot end with an opening parenthesis."
	case types.DivisionByZeroTag:
		return "Division by zero is not allowed."
	case types.MalformedExpressionTag:
		return "Malformed expression."
	case types.UnsupportedOperationTag:
		if name, ok := e.Extra["operation"].(string); ok {
			return fmt.Sprintf("Unsupported operation: %s", name)
		}
		return "Unsupported operation."
	case types.InsufficientOperandsTag:
		return "At least two operands are required."
	default:
		return "Unable to evaluate expression."
	}
}
