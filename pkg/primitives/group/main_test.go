package group

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain enables goroutine leak detection for all tests in this package.
// Tests that reproduce the quiescent-Wait hang release the waiter with an
// Enter/Leave pair before returning.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
