package expression

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode/utf8"

	"github.com/karupanerura/calculator/internal/types"
)

type lexer struct {
	source string
	index  int
	tokens []token
}

func newLexer(source string) *lexer {
	return &lexer{
		source: source,
		index:  0,
		tokens: nil,
	}
}

func (l *lexer) tokenize() ([]token, error) {
	for {
		tok, err := l.consume()
		if errors.Is(err, io.EOF) {
			return l.tokens, nil
		} else if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, tok)
	}
}

func (l *lexer) last() token {
	if len(l.tokens) == 0 {
		return nil
	}
	return l.tokens[len(l.tokens)-1]
}

// afterOperand reports whether an infix operator may appear at the current position.
func (l *lexer) afterOperand() bool {
	switch tok := l.last().(type) {
	case numberToken:
		return true
	case parenToken:
		return !tok.isOpen()
	default:
		return false
	}
}

func (l *lexer) consume() (token, error) {
	for l.index != len(l.source) {
		switch c := l.source[l.index]; c {
		case ' ', '\t':
			l.index++ // just skip white spaces
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9', '.':
			return l.consumeNumber()
		case '-':
			if l.startsNegativeNumber() {
				return l.consumeNumber()
			}
			return l.consumeOperator()
		case '(', ')':
			l.index++
			return parenToken{posToken{pos: l.index - 1}, c}, nil
		default:
			if isOperatorSymbol(c) {
				return l.consumeOperator()
			}

			r, _ := utf8.DecodeRuneInString(l.source[l.index:])
			return nil, &types.Error{
				Tag:   types.UnsupportedCharacterTag,
				Err:   fmt.Errorf("unsupported character %q at %d: expr=%q", r, l.index+1, l.source),
				Extra: map[string]any{"character": string(r)},
			}
		}
	}

	return nil, io.EOF
}

func (l *lexer) startsNegativeNumber() bool {
	if l.index+1 == len(l.source) {
		return false
	}
	if c := l.source[l.index+1]; !isDigit(c) && c != '.' {
		return false
	}

	switch l.last().(type) {
	case nil, operatorToken:
		return true
	default:
		return isOpenParen(l.last())
	}
}

func (l *lexer) consumeNumber() (token, error) {
	beginsPos := l.index
	if l.source[l.index] == '-' {
		l.index++
	}

	dotFound, digitFound := false, false
	for ; l.index != len(l.source); l.index++ {
		c := l.source[l.index]
		if c == '.' {
			if dotFound {
				return nil, l.createMalformedNumberError(beginsPos, fmt.Errorf("multiple decimal points at %d", l.index+1))
			}
			dotFound = true
		} else if isDigit(c) {
			digitFound = true
		} else {
			break
		}
	}

	literal := l.source[beginsPos:l.index]
	if !digitFound {
		return nil, l.createMalformedNumberError(beginsPos, fmt.Errorf("no digits in %q", literal))
	}

	v, err := strconv.ParseFloat(literal, 64)
	if err != nil {
		return nil, l.createMalformedNumberError(beginsPos, err)
	}
	return numberToken{posToken{pos: beginsPos}, v}, nil
}

func (l *lexer) consumeOperator() (token, error) {
	c := l.source[l.index]
	if !l.afterOperand() {
		var err error
		if prev := l.last(); prev == nil {
			err = fmt.Errorf("operator %q at %d has no left operand: expr=%q", c, l.index+1, l.source)
		} else {
			err = fmt.Errorf("operator %q at %d follows %q: expr=%q", c, l.index+1, prev.String(), l.source)
		}
		return nil, &types.Error{
			Tag: types.InvalidOperatorSequenceTag,
			Err: err,
		}
	}

	l.index++
	return operatorToken{posToken{pos: l.index - 1}, c}, nil
}

func (l *lexer) createMalformedNumberError(beginsPos int, err error) error {
	return &types.Error{
		Tag: types.MalformedNumberTag,
		Err: fmt.Errorf("invalid number at %d: %w: expr=%q", beginsPos+1, err, l.source),
	}
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
