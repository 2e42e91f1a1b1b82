package race

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// Producers of races that end early finish within their configured delay.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
