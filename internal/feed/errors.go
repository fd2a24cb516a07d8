package feed

import (
	"errors"
	"fmt"
)

var (
	ErrStoreClosed   = errors.New("store is closed")
	ErrStaleResponse = errors.New("response arrived after the store was reset")
	ErrNotOwner      = errors.New("post belongs to another user")
)

// FetchError is a failed page load. Status is the HTTP status, or 0 when the
// request never got a response.
type FetchError struct {
	Page   int
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch page %d: status %d: %s", e.Page, e.Status, e.Err.Error())
	}
	return fmt.Sprintf("fetch page %d: %s", e.Page, e.Err.Error())
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type statusCoder interface {
	StatusCode() int
}

func newFetchError(page int, err error) *FetchError {
	fe := &FetchError{Page: page, Err: err}
	var sc statusCoder
	if errors.As(err, &sc) {
		fe.Status = sc.StatusCode()
	}
	return fe
}
