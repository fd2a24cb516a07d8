package normalize

import "fmt"

// MalformedResponseError is returned when a payload cannot be read as a page
// at all. Payloads that decode but carry no list are not malformed; they
// normalize to an empty page.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed response: %s: %s", e.Reason, e.Err.Error())
	}
	return "malformed response: " + e.Reason
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func malformed(reason string, err error) error {
	return &MalformedResponseError{Reason: reason, Err: err}
}
