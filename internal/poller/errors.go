package poller

import "fmt"

// ProbeError is the failure of a single probe: timeout, connection error,
// DNS or TLS failure, or a malformed response.
type ProbeError struct {
	Address string
	Err     error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Address, e.Err)
}

func (e *ProbeError) Unwrap() error {
	return e.Err
}
