// Package race runs a streaming computation against an asynchronous,
// fallible background check.
//
// Run starts a detached producer that sleeps and then writes the check's
// outcome to a combiner, while the caller sums a lazy integer sequence,
// polling the combiner after every pull. The first visible failure ends the
// race; otherwise the sum is reported after the producer's outcome arrives.
//
//	out := race.Run(ctx, race.Config{
//		Source: func() sequence.Source[int] { return sequence.Counting(500, time.Millisecond) },
//		Check:  func() error { return maybeBomb() },
//		Delay:  300 * time.Millisecond,
//	})
//	if out.Failed() {
//		log.Printf("failed after %d values: %v", out.Pulled, out.Err)
//	}
package race
