package debug

import "advance/critical"

// Redetect forgets the detected output, for tests that switch machines.
func Redetect() {
	detected = critical.Once[Output]{}
	output.Write(Auto)
}
