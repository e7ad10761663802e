package expression

import "strconv"

type token interface {
	Pos() int
	String() string
}

type posToken struct {
	pos int
}

func (t posToken) Pos() int {
	return t.pos
}

type numberToken struct {
	posToken
	value float64
}

func (t numberToken) String() string {
	return strconv.FormatFloat(t.value, 'g', -1, 64)
}

type operatorToken struct {
	posToken
	symbol byte
}

func (t operatorToken) String() string {
	return string(t.symbol)
}

type parenToken struct {
	posToken
	symbol byte
}

func (t parenToken) String() string {
	return string(t.symbol)
}

func (t parenToken) isOpen() bool {
	return t.symbol == '('
}

func isOpenParen(t token) bool {
	p, ok := t.(parenToken)
	return ok && p.isOpen()
}
