package types_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/karupanerura/calculator/internal/types"
)

func TestError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("evaluate: %w", &types.Error{
		Tag:   types.UnsupportedCharacterTag,
		Err:   errors.New("unsupported character 'x' at 2"),
		Extra: map[string]any{"character": "x"},
	})

	if !errors.Is(err, types.UnsupportedCharacterTag) {
		t.Errorf("errors.Is(%v, %s) = false", err, types.UnsupportedCharacterTag)
	}
	if errors.Is(err, types.DivisionByZeroTag) {
		t.Errorf("errors.Is(%v, %s) = true", err, types.DivisionByZeroTag)
	}
	if got, want := err.Error(), "evaluate: UnsupportedCharacter: unsupported character 'x' at 2"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	tag, ok := types.TagOf(err)
	if !ok || tag != types.UnsupportedCharacterTag {
		t.Errorf("TagOf() = (%q, %v)", tag, ok)
	}
	if _, ok := types.TagOf(errors.New("plain")); ok {
		t.Error("TagOf(plain error) should not find a tag")
	}
}

func TestErrorException(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		err      *types.Error
		expected any
	}{
		{
			err:      &types.Error{Tag: types.EmptyExpressionTag},
			expected: map[string]any{"tags": []any{types.EmptyExpressionTag}},
		},
		{
			err: &types.Error{
				Tag: types.DivisionByZeroTag,
				Err: &types.Error{Tag: types.MalformedExpressionTag},
			},
			expected: map[string]any{"tags": []any{types.DivisionByZeroTag, types.MalformedExpressionTag}},
		},
		{
			err: &types.Error{
				Tag:   types.UnsupportedCharacterTag,
				Extra: map[string]any{"character": "%"},
			},
			expected: map[string]any{"tags": []any{types.UnsupportedCharacterTag}, "character": "%"},
		},
	} {
		tt := tt
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.expected, tt.err.Exception()); diff != "" {
				t.Errorf("unexpected exception (-want +got):\n%s", diff)
			}
		})
	}
}
