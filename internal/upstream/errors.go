package upstream

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Sentinel errors for the fetch layer. Callers match with errors.Is; the
// aggregation engine converts everything except cancellation into either an
// empty buffer or a surfaced error.
var (
	ErrUpstreamTimeout  = errors.New("upstream timeout")
	ErrUpstreamServer   = errors.New("upstream server error")
	ErrRequestCancelled = errors.New("request cancelled")
	ErrUnknownNetwork   = errors.New("network error")
)

// classifyTransport maps a transport-level failure onto a sentinel.
// Cancellation is checked first so that a request aborted mid-flight never
// surfaces as a timeout.
func classifyTransport(ctx context.Context, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.Canceled) || errors.Is(err, context.Canceled):
		return fmt.Errorf("%w: %v", ErrRequestCancelled, err)
	case os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrUpstreamTimeout, err)
	default:
		return fmt.Errorf("%w: %v", ErrUnknownNetwork, err)
	}
}
