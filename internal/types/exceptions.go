package types

import (
	"errors"
	"strings"

	"github.com/samber/lo"
)

type ErrorTag string

const (
	EmptyExpressionTag         ErrorTag = "EmptyExpression"
	UnsupportedCharacterTag    ErrorTag = "UnsupportedCharacter"
	MalformedNumberTag         ErrorTag = "MalformedNumber"
	InvalidOperatorSequenceTag ErrorTag = "InvalidOperatorSequence"
	MismatchedParenthesesTag   ErrorTag = "MismatchedParentheses"
	TrailingOperatorTag        ErrorTag = "TrailingOperator"
	TrailingOpenParenTag       ErrorTag = "TrailingOpenParen"
	DivisionByZeroTag          ErrorTag = "DivisionByZero"
	MalformedExpressionTag     ErrorTag = "MalformedExpression"
	UnsupportedOperationTag    ErrorTag = "UnsupportedOperation"
	InsufficientOperandsTag    ErrorTag = "InsufficientOperands"
)

// Error makes a bare tag usable as an errors.Is target.
func (t ErrorTag) Error() string {
	return string(t)
}

type Exception interface {
	error
	Exception() any
}

type Error struct {
	Tag   ErrorTag
	Err   error
	Extra map[string]any
}

var _ Exception = (*Error)(nil)

func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Tag)
	}

	var b strings.Builder
	b.WriteString(string(e.Tag))
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	tag, ok := target.(ErrorTag)
	return ok && tag == e.Tag
}

func (e *Error) Exception() any {
	tags := []any{}
	for err := error(e); err != nil; err = errors.Unwrap(err) {
		if e, ok := err.(*Error); ok {
			tags = append(tags, e.Tag)
		}
	}

	o := map[string]any{
		"tags": tags,
	}
	if len(e.Extra) != 0 {
		o = lo.Assign(o, e.Extra)
	}
	return o
}

// TagOf returns the tag of the outermost *Error in the chain.
func TagOf(err error) (ErrorTag, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Tag, true
	}
	return "", false
}
