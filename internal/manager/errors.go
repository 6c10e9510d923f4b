package manager

import (
	"fmt"
	"time"
)

// alreadyRunningError signals a Start while a child is recorded
// Running; no process is spawned.
type alreadyRunningError struct{ pid int }

func (e alreadyRunningError) Error() string {
	return fmt.Sprintf("llama-server already running with pid %d", e.pid)
}

func ErrAlreadyRunning(pid int) error { return alreadyRunningError{pid: pid} }

// IsAlreadyRunning reports whether err came from a Start precondition
// failure.
func IsAlreadyRunning(err error) bool {
	_, ok := err.(alreadyRunningError)
	return ok
}

// notRunningError signals a Stop with no recorded child; nothing is
// signaled.
type notRunningError struct{}

func (notRunningError) Error() string { return "llama-server is not running" }

func ErrNotRunning() error { return notRunningError{} }

// IsNotRunning reports whether err came from a Stop precondition
// failure.
func IsNotRunning(err error) bool {
	_, ok := err.(notRunningError)
	return ok
}

// spawnError wraps a failure to launch the configured binary.
type spawnError struct {
	bin string
	err error
}

func (e spawnError) Error() string {
	return fmt.Sprintf("failed to start llama-server at %s: %v", e.bin, e.err)
}

func (e spawnError) Unwrap() error { return e.err }

func ErrSpawnFailed(bin string, err error) error { return spawnError{bin: bin, err: err} }

// IsSpawnFailed reports whether err indicates the binary could not be
// launched.
func IsSpawnFailed(err error) bool {
	_, ok := err.(spawnError)
	return ok
}

// notHealthyError signals that the spawned child never reported a
// healthy status within the poll budget; the child has been
// terminated and the state rolled back by the time it is returned.
type notHealthyError struct {
	attempts int
	interval time.Duration
}

func (e notHealthyError) Error() string {
	return fmt.Sprintf("llama-server did not become healthy after %d attempts (%s)",
		e.attempts, time.Duration(e.attempts)*e.interval)
}

func ErrNotHealthy(attempts int, interval time.Duration) error {
	return notHealthyError{attempts: attempts, interval: interval}
}

// IsNotHealthy reports whether err indicates a failed readiness wait.
func IsNotHealthy(err error) bool {
	_, ok := err.(notHealthyError)
	return ok
}

// signalError wraps a failed termination signal during Stop.
type signalError struct {
	pid int
	err error
}

func (e signalError) Error() string {
	return fmt.Sprintf("signal llama-server pid %d: %v", e.pid, e.err)
}

func (e signalError) Unwrap() error { return e.err }

func ErrSignalFailed(pid int, err error) error { return signalError{pid: pid, err: err} }
