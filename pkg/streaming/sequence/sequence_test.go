package sequence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vnykmshr/coopsync/internal/testutil"
)

func drain[T any](t *testing.T, src Source[T]) []T {
	t.Helper()
	ctx, cancel := testutil.WithTimeout(t)
	defer cancel()

	var out []T
	for {
		v, ok, err := src.Next(ctx)
		testutil.AssertNoError(t, err)
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestCounting(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantSum int
		wantLen int
	}{
		{"empty", 0, 0, 0},
		{"negative", -3, 0, 0},
		{"one", 1, 1, 1},
		{"fifty", 50, 1275, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := drain(t, Counting(tt.n, 0))
			testutil.AssertEqual(t, len(values), tt.wantLen)

			sum := 0
			for i, v := range values {
				testutil.AssertEqual(t, v, i+1)
				sum += v
			}
			testutil.AssertEqual(t, sum, tt.wantSum)
		})
	}
}

func TestCountingStaysExhausted(t *testing.T) {
	src := Counting(2, 0)
	drain(t, src)

	_, ok, err := src.Next(context.Background())
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, ok, false)
	testutil.AssertNoError(t, src.Close())
}

func TestCountingDelay(t *testing.T) {
	const (
		n     = 5
		delay = 5 * time.Millisecond
	)

	start := time.Now()
	drain(t, Counting(n, delay))
	elapsed := time.Since(start)

	// n values plus the terminal pull each sleep once.
	if want := (n + 1) * delay; elapsed < want {
		t.Errorf("elapsed = %v, want >= %v", elapsed, want)
	}
}

func TestCountingCanceled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	src := Counting(1000, time.Hour)
	_, ok, err := src.Next(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want DeadlineExceeded", err)
	}
	testutil.AssertEqual(t, ok, false)
}

func TestFromSlice(t *testing.T) {
	values := drain(t, FromSlice([]string{"a", "b", "c"}))
	testutil.AssertEqual(t, len(values), 3)
	testutil.AssertEqual(t, values[2], "c")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := FromSlice([]int{1}).Next(ctx)
	testutil.AssertError(t, err)
}

func TestFunc(t *testing.T) {
	i := 0
	src := Func[int](func(context.Context) (int, bool, error) {
		i++
		return i, i <= 3, nil
	})

	values := drain(t, src)
	testutil.AssertEqual(t, len(values), 3)
	testutil.AssertNoError(t, src.Close())
}
