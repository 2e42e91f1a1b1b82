// Package primitives groups the cooperative synchronization primitives of
// coopsync:
//
//   - semaphore: counting admission control with a FIFO waiter queue
//   - group: completion barrier released when its entrant count reaches zero
//   - combiner: single-slot, write-once rendezvous between one producer and
//     one consumer
//
// Each primitive guards its state with its own mutex and suspends callers on
// one-shot channels kept in a queue; a resume closes (or sends on) the
// channel exactly once. None of them supports cancellation or timeouts: a
// suspended caller resumes only through the matching counterpart operation.
package primitives
