package handlers

// SegmentSentFunc is invoked after each non-empty segment is written to
// the wire, with the segment index just sent and the cumulative bytes sent
// so far. The terminal empty segment fires CompletedFunc instead.
// Fire-and-forget: it must not block the protocol loop, so it is invoked
// synchronously but should itself never perform blocking work.
type SegmentSentFunc func(segmentIdx uint32, bytesSent uint64)

// CompletedFunc is invoked exactly once, when the terminal empty data
// frame has been emitted.
type CompletedFunc func()

func noopSegmentSent(uint32, uint64) {}
func noopCompleted()                 {}
