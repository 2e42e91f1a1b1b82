/*
Package sequence provides lazy, pull-based sources of values.

A Source is consumed one element at a time with Next, which may suspend the
caller (for example to pace the stream). The race loop pulls from a Source
and checks for a background failure between pulls.

	src := sequence.Counting(50, time.Millisecond) // 1..50, 1ms per pull
	defer src.Close()

	for {
		v, ok, err := src.Next(ctx)
		if err != nil || !ok {
			break
		}
		sum += v
	}
*/
package sequence
