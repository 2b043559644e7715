package thermal

import (
	"errors"
	"fmt"
)

// ErrNoWaterPixels is returned when an aggregate is requested over an empty
// water mask.
var ErrNoWaterPixels = errors.New("no pixels classified as water")

// ErrNoValidTemperatures is returned when water pixels exist but none of them
// has a valid brightness temperature.
var ErrNoValidTemperatures = errors.New("no water pixel has a valid temperature")

// CoordinateOutOfRangeError reports a pixel request outside the scene.
type CoordinateOutOfRangeError struct {
	X, Y          int
	Width, Height int
}

func (e *CoordinateOutOfRangeError) Error() string {
	return fmt.Sprintf("pixel (%d, %d) outside scene of %dx%d (valid x 0..%d, y 0..%d)",
		e.X, e.Y, e.Width, e.Height, e.Width-1, e.Height-1)
}
