package bridge

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"
)

var (
	// ErrUnreachable means no connection to the inference service could be made.
	ErrUnreachable = errors.New("inference service unreachable")
	// ErrTimeout means the service accepted the request but did not answer in time.
	ErrTimeout = errors.New("request timed out")
)

// StatusError is a non-success HTTP status from the inference service.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d", e.Endpoint, e.Code)
}

// classify maps a transport error onto the package sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if isConnectFailure(err) {
		return fmt.Errorf("%w: %w", ErrUnreachable, err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	return err
}

func isConnectFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.EHOSTUNREACH) || errors.Is(err, syscall.ENETUNREACH) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr) && opErr.Op == "dial"
}

// errorType is the metrics label for a failed exchange.
func errorType(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrUnreachable):
		return "unreachable"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.As(err, &statusErr):
		return "status"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "other"
	}
}

// tripsBreaker reports whether err says the service itself is unhealthy.
// Client-side statuses and cancellations do not count.
func tripsBreaker(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500
	}
	return true
}
