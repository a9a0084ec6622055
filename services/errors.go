package services

import "fmt"

// TransportError means the membership API could not be reached or
// answered with a non-success status during login or fetch.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: API returned status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// PaginationLoopError means the users endpoint kept returning a next
// cursor past the configured page cap.
type PaginationLoopError struct {
	Pages int
}

func (e *PaginationLoopError) Error() string {
	return fmt.Sprintf("pagination did not terminate after %d pages", e.Pages)
}

// DeliveryError is a channel-level send failure. It may be transient;
// the dispatcher decides whether to retry.
type DeliveryError struct {
	Channel string
	Err     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("%s send failed: %v", e.Channel, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// LogIOError is a run log partition read/write failure. Callers downgrade
// it (treat as empty on read, skip the write) rather than propagate.
type LogIOError struct {
	Path string
	Err  error
}

func (e *LogIOError) Error() string {
	return fmt.Sprintf("run log %s: %v", e.Path, e.Err)
}

func (e *LogIOError) Unwrap() error { return e.Err }
