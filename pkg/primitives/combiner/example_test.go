package combiner_test

import (
	"errors"
	"fmt"
	"time"

	"github.com/vnykmshr/coopsync/pkg/primitives/combiner"
)

func Example() {
	state := combiner.New()

	go func() {
		time.Sleep(10 * time.Millisecond)
		state.Write(errors.New("bomb"))
	}()

	sum := 0
	for i := 1; i <= 3; i++ {
		if err := state.CheckError(); err != nil {
			fmt.Println("failed early:", err)
			return
		}
		sum += i
	}

	if err := state.WaitForCompletion(); err != nil {
		fmt.Println("failed at completion:", err, "partial sum", sum)
		return
	}
	fmt.Println(sum)

	// Output:
	// failed at completion: bomb partial sum 6
}
