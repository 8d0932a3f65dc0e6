package help

import (
	"errors"
	"fmt"
)

// ErrNotInPackage is wrapped by IndexLoadError when a locator does not point
// under a package root.
var ErrNotInPackage = errors.New("index source is not in a package")

// IndexLoadError means the manifest could not be read.
type IndexLoadError struct {
	Locator string
	Err     error
}

func (e *IndexLoadError) Error() string {
	return fmt.Sprintf("index: unable to load index information from %s: %v", e.Locator, e.Err)
}

func (e *IndexLoadError) Unwrap() error { return e.Err }

// IndexParseError means the manifest was read but is not decodable.
type IndexParseError struct {
	Locator string
	Err     error
}

func (e *IndexParseError) Error() string {
	return fmt.Sprintf("index: unable to parse %s: %v", e.Locator, e.Err)
}

func (e *IndexParseError) Unwrap() error { return e.Err }
