package engine

import "fmt"

// InvalidTargetError reports an input that cannot be mapped to anything the
// engine understands. It is never worth retrying.
type InvalidTargetError struct {
	Input  string // the raw user input
	Reason string // human-readable explanation
}

func (e *InvalidTargetError) Error() string {
	return fmt.Sprintf("invalid download target %q: %s", e.Input, e.Reason)
}

// BinaryNotFoundError reports that the aria2c executable could not be
// resolved, either on PATH or at the configured location.
type BinaryNotFoundError struct {
	Path string // the path or command name that was looked up
	Err  error  // underlying lookup error, if any
}

func (e *BinaryNotFoundError) Error() string {
	return fmt.Sprintf("aria2c binary not found at %q", e.Path)
}

func (e *BinaryNotFoundError) Unwrap() error {
	return e.Err
}

// ExitError reports a non-zero exit from the spawned aria2c process.
type ExitError struct {
	Code int   // process exit code
	Err  error // underlying exec error, if any
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("aria2c exited with status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// RPCFailure reports an error surfaced through the aria2 RPC interface,
// either a JSON-RPC level error or a download that ended in error state.
type RPCFailure struct {
	Method  string // the RPC method, or "tellStatus" polling
	Code    int    // JSON-RPC error code or aria2 errorCode (0 when absent)
	Message string // message reported by the daemon
	Err     error  // underlying error, if any
}

func (e *RPCFailure) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("aria2 rpc failure during %s (code %d): %s", e.Method, e.Code, e.Message)
	}
	return fmt.Sprintf("aria2 rpc failure during %s: %s", e.Method, e.Message)
}

func (e *RPCFailure) Unwrap() error {
	return e.Err
}
