package feed

import "fmt"

// SerializationError is returned when a feed document cannot be written in
// the requested format.
type SerializationError struct {
	Format string
	Err    error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("could not serialize %s feed: %v", e.Format, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
