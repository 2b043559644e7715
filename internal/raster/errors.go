package raster

import "fmt"

// OpenError reports a band or metadata resource that is missing or cannot be
// opened. It is fatal for a scene: nothing can be computed without the file.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// ReadError reports a resource that opened but whose first band could not be
// decoded into 16-bit samples.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read band from %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
