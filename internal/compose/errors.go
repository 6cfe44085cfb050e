package compose

import (
	"errors"
	"fmt"
)

// ErrUnreadableContentStream marks a source page whose content stream could
// not be decoded. The page is never emitted partially.
var ErrUnreadableContentStream = errors.New("unreadable content stream")

// PageError ties a composition failure to the 1-based page it occurred on.
// Any page error aborts the whole run; dropping a page would corrupt the
// absolute numbering of every page after it.
type PageError struct {
	Page int
	Err  error
}

func (e *PageError) Error() string {
	return fmt.Sprintf("page %d: %v", e.Page, e.Err)
}

func (e *PageError) Unwrap() error { return e.Err }

func pageErr(page int, err error) error {
	return &PageError{Page: page, Err: err}
}
