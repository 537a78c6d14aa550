// Package batch runs independent units of work one after another without letting a failure stop the rest.
package batch

import "context"

// Outcome is the settled result of one item.
type Outcome[T, R any] struct {
	Item  T
	Value R
	Err   error
}

// OK reports whether the item succeeded.
func (o Outcome[T, R]) OK() bool { return o.Err == nil }

// MapSettled applies fn to every item in order and collects each outcome. It never short-circuits: once started,
// every item runs, and cancellation only surfaces through the errors fn itself returns.
func MapSettled[T, R any](ctx context.Context, items []T, fn func(context.Context, T) (R, error)) []Outcome[T, R] {
	out := make([]Outcome[T, R], 0, len(items))
	for _, it := range items {
		v, err := fn(ctx, it)
		out = append(out, Outcome[T, R]{Item: it, Value: v, Err: err})
	}
	return out
}

// Split partitions outcomes into successes and failures, keeping order.
func Split[T, R any](outcomes []Outcome[T, R]) (ok, failed []Outcome[T, R]) {
	for _, o := range outcomes {
		if o.OK() {
			ok = append(ok, o)
		} else {
			failed = append(failed, o)
		}
	}
	return ok, failed
}
