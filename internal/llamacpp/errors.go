package llamacpp

import "fmt"

// StatusError is returned when the server is reachable but answers
// with a non-2xx status. The numeric code and status text are carried
// verbatim; Body holds at most the first 4 KiB of the response.
type StatusError struct {
	Code   int
	Status string
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("llama-server http error: %s", e.Status)
	}
	return fmt.Sprintf("llama-server http error: %s: %s", e.Status, e.Body)
}

// IsStatus reports whether err is a server status error, optionally
// matching a specific code (0 matches any).
func IsStatus(err error, code int) bool {
	se, ok := err.(*StatusError)
	if !ok {
		return false
	}
	return code == 0 || se.Code == code
}
