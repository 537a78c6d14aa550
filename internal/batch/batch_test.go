package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSettled_ContinuesPastFailures(t *testing.T) {
	var calls []int
	out := MapSettled(context.Background(), []int{1, 2, 3, 4}, func(_ context.Context, n int) (int, error) {
		calls = append(calls, n)
		if n%2 == 0 {
			return 0, errors.New("even")
		}
		return n * 10, nil
	})

	assert.Equal(t, []int{1, 2, 3, 4}, calls)
	require.Len(t, out, 4)
	assert.Equal(t, 10, out[0].Value)
	assert.EqualError(t, out[1].Err, "even")
	assert.Equal(t, 30, out[2].Value)

	ok, failed := Split(out)
	assert.Len(t, ok, 2)
	assert.Len(t, failed, 2)
	assert.Equal(t, 4, failed[1].Item)
}

func TestMapSettled_RunsEveryItemAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ran := 0
	out := MapSettled(ctx, []string{"a", "b", "c"}, func(ctx context.Context, s string) (string, error) {
		ran++
		if s == "a" {
			cancel()
			return s, nil
		}
		return "", ctx.Err()
	})

	assert.Equal(t, 3, ran)
	require.Len(t, out, 3)
	assert.True(t, out[0].OK())
	assert.ErrorIs(t, out[1].Err, context.Canceled)
	assert.ErrorIs(t, out[2].Err, context.Canceled)
}

func TestMapSettled_Empty(t *testing.T) {
	out := MapSettled(context.Background(), nil, func(context.Context, int) (int, error) { return 0, nil })
	assert.Empty(t, out)
}
