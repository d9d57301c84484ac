package remote

import "fmt"

// NetworkError wraps a connectivity or timeout failure talking to the
// remote service.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("remote %s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// BusinessError is a remote response whose envelope code was non-zero (or
// missing). The remote message is carried verbatim.
type BusinessError struct {
	Op      string
	Code    int
	Message string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("remote %s: code %d: %s", e.Op, e.Code, e.Message)
}

// MalformedResponseError is a response body that could not be decoded into
// the expected shape.
type MalformedResponseError struct {
	Op  string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("remote %s: malformed response: %v", e.Op, e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
