//go:build !tinygo

package critical

import "fmt"

// halt panics on the host so a test can observe the stop with recover.
func halt(msg string) {
	panic(fmt.Errorf("%w: %s", ErrFatal, msg))
}
