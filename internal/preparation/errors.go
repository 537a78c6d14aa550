package preparation

import (
	"errors"
	"fmt"
)

var errNoGenerator = errors.New("no generator registered for document kind")

// panicError wraps a recovered generator panic.
type panicError struct{ v any }

func (p panicError) Error() string { return fmt.Sprintf("generator panicked: %v", p.v) }
