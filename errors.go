package mpmedia

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error kinds. Use errors.Is to check which one an error belongs to.
var (
	ErrFetch            = errors.New("fetch error")
	ErrContentNotFound  = errors.New("content not found")
	ErrDownloadItem     = errors.New("download item failure")
	ErrInvalidReference = errors.New("invalid reference")
)

// Error is returned by extractor and downloader. It keeps the URL
// that failed along with the underlying cause.
type Error struct {
	Kind error
	URL  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err != nil && e.URL != "":
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.URL, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: %v", e.Kind, e.Err)
	case e.URL != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.URL)
	default:
		return fmt.Sprint(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return target == e.Kind }

func newError(kind error, url string, cause error) error {
	return errors.WithStack(&Error{Kind: kind, URL: url, Err: cause})
}
