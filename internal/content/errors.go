package content

import "fmt"

// DocumentError ties a load or validation failure to the document it came from.
type DocumentError struct {
	// Path is relative to the collection directory.
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// RetrievalError is returned when a collection cannot be enumerated, read or
// validated as a whole.
type RetrievalError struct {
	Collection string
	Err        error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("could not retrieve collection %s: %v", e.Collection, e.Err)
}

func (e *RetrievalError) Unwrap() error {
	return e.Err
}

// DocumentErrors collects every DocumentError wrapped in err, in order.
func DocumentErrors(err error) []*DocumentError {
	var out []*DocumentError

	var walk func(error)

	walk = func(err error) {
		switch e := err.(type) {
		case nil:
			return
		case *DocumentError:
			out = append(out, e)
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}

	walk(err)

	return out
}
