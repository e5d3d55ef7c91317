package optimization

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  &Error{Message: "boom"},
			want: "boom",
		},
		{
			name: "component and op",
			err:  &Error{Message: "boom", Component: "tsp", Op: "score"},
			want: "tsp: score: boom",
		},
		{
			name: "wrapped kind",
			err:  InvalidCandidate("tsp", "city %d is visited twice", 3),
			want: "tsp: score: city 3 is visited twice: invalid candidate",
		},
		{
			name: "op only with cause",
			err:  NewError(ErrNoProblem, "cannot evaluate").WithOperation("evaluate"),
			want: "evaluate: cannot evaluate: no problem bound",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestErrorKindsMatch(t *testing.T) {
	err := fmt.Errorf("outer: %w", InvalidParameter("hill-climbing", "bad k"))

	assert.True(t, errors.Is(err, ErrInvalidParameter))
	assert.False(t, errors.Is(err, ErrInvalidCandidate))

	e, ok := IsOptimizationError(err)
	assert.True(t, ok)
	assert.Equal(t, "hill-climbing", e.Component)

	_, ok = IsOptimizationError(errors.New("plain"))
	assert.False(t, ok)
}

func TestWrapErrorNil(t *testing.T) {
	assert.Nil(t, WrapError(nil, "ignored"))

	var e *Error
	assert.Equal(t, "<nil>", e.Error())
	assert.Nil(t, e.Unwrap())
}
