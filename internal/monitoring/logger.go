// Package monitoring holds the diagnostic logger shared by the scene pipeline.
package monitoring

import (
	"log"
	"time"
)

// Logf is the package-level diagnostic logger used by the raster, scene and db
// packages. It defaults to log.Printf; the CLI mutes it unless -v is given.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// Timed logs the duration of a named step when the returned func is called.
//
//	defer monitoring.Timed("load thermal band")()
func Timed(name string) func() {
	start := time.Now()
	return func() {
		Logf("%s took %s", name, time.Since(start).Round(time.Millisecond))
	}
}
